package model

import (
	"errors"
	"fmt"
	"strings"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "mcq"
	TrueFalse      QuestionType = "tf"
)

var (
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrInvalidQuestion     = errors.New("invalid question")
)

// Choice is one labelled option of a multiple-choice question.
type Choice struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

func ParseQuestionType(s string) (QuestionType, error) {
	switch QuestionType(strings.ToLower(strings.TrimSpace(s))) {
	case "", MultipleChoice:
		return MultipleChoice, nil
	case TrueFalse:
		return TrueFalse, nil
	}
	return "", ErrUnknownQuestionType
}

// swagger:model Question
type Question struct {
	BaseModel
	Text    string       `gorm:"type:text;not null" json:"text"`
	Type    QuestionType `gorm:"column:qtype;size:20;default:'mcq'" json:"type"`
	Choices []Choice     `gorm:"type:text;serializer:json" json:"choices"`
	Correct string       `gorm:"size:200;not null" json:"correct"`
}

func (Question) TableName() string {
	return "questions"
}

// IsCorrect compares a submitted answer with the answer key, ignoring case
// and surrounding whitespace. Blank answers are never correct.
func (q *Question) IsCorrect(answer string) bool {
	given := strings.TrimSpace(answer)
	if given == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(q.Correct), given)
}

// Validate checks the question is gradeable.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidQuestion)
	}
	correct := strings.TrimSpace(q.Correct)
	if correct == "" {
		return fmt.Errorf("%w: correct answer is required", ErrInvalidQuestion)
	}

	switch q.Type {
	case MultipleChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("%w: multiple-choice needs at least 2 choices", ErrInvalidQuestion)
		}
		seen := make(map[string]bool, len(q.Choices))
		matched := false
		for _, c := range q.Choices {
			label := strings.ToLower(strings.TrimSpace(c.Label))
			if label == "" {
				return fmt.Errorf("%w: choice label is required", ErrInvalidQuestion)
			}
			if seen[label] {
				return fmt.Errorf("%w: duplicate choice label %q", ErrInvalidQuestion, c.Label)
			}
			seen[label] = true
			if strings.EqualFold(label, correct) {
				matched = true
			}
		}
		if !matched {
			return fmt.Errorf("%w: correct answer %q is not a choice label", ErrInvalidQuestion, q.Correct)
		}
	case TrueFalse:
		if len(q.Choices) > 0 {
			return fmt.Errorf("%w: true/false questions take no choices", ErrInvalidQuestion)
		}
		if !strings.EqualFold(correct, "true") && !strings.EqualFold(correct, "false") {
			return fmt.Errorf("%w: true/false answer must be True or False", ErrInvalidQuestion)
		}
	default:
		return ErrUnknownQuestionType
	}
	return nil
}
