package service

import (
	"biokuiz/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bank(correct ...string) []model.Question {
	qs := make([]model.Question, len(correct))
	for i, c := range correct {
		qs[i].ID = uint(i + 1)
		qs[i].Correct = c
	}
	return qs
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name    string
		bank    []model.Question
		answers map[uint]string
		want    GradeResult
	}{
		{
			name:    "case and whitespace insensitive",
			bank:    bank("A", "True"),
			answers: map[uint]string{1: "A", 2: " true "},
			want:    GradeResult{Correct: 2, Total: 2, Score: 100},
		},
		{
			name:    "empty submission",
			bank:    bank("A", "True", "True", "B"),
			answers: map[uint]string{},
			want:    GradeResult{Correct: 0, Total: 4, Score: 0},
		},
		{
			name:    "nil submission",
			bank:    bank("A", "B"),
			answers: nil,
			want:    GradeResult{Correct: 0, Total: 2, Score: 0},
		},
		{
			name:    "truncates toward zero",
			bank:    bank("A", "B", "C"),
			answers: map[uint]string{1: "a", 2: "b", 3: "x"},
			want:    GradeResult{Correct: 2, Total: 3, Score: 66},
		},
		{
			name:    "blank answers are not correct",
			bank:    bank("A", "B"),
			answers: map[uint]string{1: "   ", 2: "b"},
			want:    GradeResult{Correct: 1, Total: 2, Score: 50},
		},
		{
			name:    "answers for unknown questions are ignored",
			bank:    bank("A"),
			answers: map[uint]string{1: "A", 99: "A"},
			want:    GradeResult{Correct: 1, Total: 1, Score: 100},
		},
		{
			name: "empty bank",
			bank: nil,
			want: GradeResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(tt.bank, tt.answers))
		})
	}
}

func TestPercentBounds(t *testing.T) {
	for total := 0; total <= 12; total++ {
		for correct := 0; correct <= total; correct++ {
			got := Percent(correct, total)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
			if total > 0 {
				assert.Equal(t, 100*correct/total, got)
			}
		}
	}
}
