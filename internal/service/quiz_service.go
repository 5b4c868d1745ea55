package service

import (
	"biokuiz/internal/config"
	"biokuiz/internal/model"
	"biokuiz/internal/repository"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"
	"biokuiz/pkg/monitoring"
	"biokuiz/pkg/tracing"
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type QuizService struct {
	QuestionRepo *repository.QuestionRepository
	ScoreRepo    *repository.ScoreRepository
	Cfg          *config.QuizConfig
	now          func() time.Time
}

func NewQuizService(questionRepo *repository.QuestionRepository, scoreRepo *repository.ScoreRepository, cfg *config.QuizConfig) *QuizService {
	return &QuizService{
		QuestionRepo: questionRepo,
		ScoreRepo:    scoreRepo,
		Cfg:          cfg,
		now:          time.Now,
	}
}

// StudentQuestion is a question as shown to quiz takers, without its answer key.
type StudentQuestion struct {
	ID      uint               `json:"id"`
	Text    string             `json:"text"`
	Type    model.QuestionType `json:"type"`
	Choices []model.Choice     `json:"choices,omitempty"`
}

func (s *QuizService) Questions(ctx context.Context) ([]StudentQuestion, error) {
	qs, err := s.QuestionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]StudentQuestion, len(qs))
	for i, q := range qs {
		res[i] = StudentQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Choices: q.Choices,
		}
	}
	return res, nil
}

// SubmitResult is the graded submission plus the stored score row.
type SubmitResult struct {
	GradeResult
	ScoreID uint      `json:"scoreId"`
	TakenAt time.Time `json:"takenAt"`
}

// Submit grades answers against the current question bank and records one
// Score for userID. Each call inserts a new row; earlier scores are untouched.
func (s *QuizService) Submit(ctx context.Context, userID uint, answers map[uint]string) (*SubmitResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "quiz.Submit")
	defer span.End()
	span.SetAttributes(attribute.Int("quiz.user_id", int(userID)), attribute.Int("quiz.answers", len(answers)))

	questions, err := s.QuestionRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load question bank")
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	if len(questions) == 0 && !s.Cfg.AllowEmptyBank {
		span.SetStatus(codes.Error, util.ErrEmptyQuestionBank.Error())
		return nil, util.ErrEmptyQuestionBank
	}

	graded := Grade(questions, answers)

	score := &model.Score{
		UserID:  userID,
		Score:   graded.Score,
		Total:   graded.Total,
		TakenAt: s.now().UTC(),
	}
	if err := s.ScoreRepo.Create(ctx, score); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store score")
		return nil, fmt.Errorf("store score: %w", err)
	}

	monitoring.ObserveSubmission(graded.Score)
	span.SetAttributes(attribute.Int("quiz.score", graded.Score))
	logger.Log.Info("quiz graded",
		zap.Uint("user_id", userID),
		zap.Int("correct", graded.Correct),
		zap.Int("total", graded.Total),
		zap.Int("score", graded.Score),
	)

	return &SubmitResult{
		GradeResult: graded,
		ScoreID:     score.ID,
		TakenAt:     score.TakenAt,
	}, nil
}

// AnswerKeys returns the raw bank including correct answers for teachers.
func (s *QuizService) AnswerKeys(ctx context.Context) ([]model.Question, error) {
	if !s.Cfg.ExposeAnswerKeys {
		return nil, util.ErrAnswerKeysDisabled
	}
	return s.QuestionRepo.ListAll(ctx)
}
