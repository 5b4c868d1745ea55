package service

import (
	"biokuiz/internal/model"
	"biokuiz/internal/repository"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedData is the layout of configs/seed.yaml.
type SeedData struct {
	Materials []struct {
		Title string `yaml:"title"`
		Text  string `yaml:"text"`
		Image string `yaml:"image"`
	} `yaml:"materials"`
	Questions []struct {
		Text    string         `yaml:"text"`
		Type    string         `yaml:"type"`
		Choices []model.Choice `yaml:"choices"`
		Correct string         `yaml:"correct"`
	} `yaml:"questions"`
	Users []struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
}

// SeedReport counts what a seed run inserted.
type SeedReport struct {
	Materials int
	Questions int
	Users     int
}

type SeedService struct {
	MaterialRepo *repository.MaterialRepository
	QuestionRepo *repository.QuestionRepository
	UserRepo     *repository.UserRepository
	Auth         *AuthService
}

func NewSeedService(materialRepo *repository.MaterialRepository, questionRepo *repository.QuestionRepository, userRepo *repository.UserRepository, auth *AuthService) *SeedService {
	return &SeedService{
		MaterialRepo: materialRepo,
		QuestionRepo: questionRepo,
		UserRepo:     userRepo,
		Auth:         auth,
	}
}

func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &data, nil
}

// Seed inserts sample content. Materials and questions are only added to an
// empty table and users only when the username is free, so running it twice
// changes nothing.
func (s *SeedService) Seed(ctx context.Context, data *SeedData) (SeedReport, error) {
	var rep SeedReport

	n, err := s.MaterialRepo.Count(ctx)
	if err != nil {
		return rep, err
	}
	if n == 0 {
		for _, m := range data.Materials {
			if err := s.MaterialRepo.Create(ctx, &model.Material{Title: m.Title, Text: m.Text, ImageFilename: m.Image}); err != nil {
				return rep, fmt.Errorf("seed material %q: %w", m.Title, err)
			}
			rep.Materials++
		}
	}

	n, err = s.QuestionRepo.Count(ctx)
	if err != nil {
		return rep, err
	}
	if n == 0 && len(data.Questions) > 0 {
		questions := make([]model.Question, 0, len(data.Questions))
		for _, q := range data.Questions {
			var built model.Question
			req := QuestionRequest{Text: q.Text, Type: q.Type, Choices: q.Choices, Correct: q.Correct}
			if err := req.apply(&built); err != nil {
				return rep, fmt.Errorf("seed question %q: %w", q.Text, err)
			}
			questions = append(questions, built)
		}
		if err := s.QuestionRepo.CreateBatch(ctx, questions); err != nil {
			return rep, err
		}
		rep.Questions = len(questions)
	}

	for _, u := range data.Users {
		_, err := s.UserRepo.FindByUsername(ctx, u.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return rep, err
		}
		if _, err := s.Auth.Register(ctx, u.Username, u.Password, u.Role); err != nil && !errors.Is(err, util.ErrUsernameTaken) {
			return rep, fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		rep.Users++
	}

	logger.Log.Info("seed finished",
		zap.Int("materials", rep.Materials),
		zap.Int("questions", rep.Questions),
		zap.Int("users", rep.Users),
	)
	return rep, nil
}
