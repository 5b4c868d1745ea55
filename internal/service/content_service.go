package service

import (
	"biokuiz/internal/model"
	"biokuiz/internal/repository"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContentService struct {
	MaterialRepo *repository.MaterialRepository
	QuestionRepo *repository.QuestionRepository
	Storage      *StorageService
}

func NewContentService(materialRepo *repository.MaterialRepository, questionRepo *repository.QuestionRepository, storage *StorageService) *ContentService {
	return &ContentService{
		MaterialRepo: materialRepo,
		QuestionRepo: questionRepo,
		Storage:      storage,
	}
}

type MaterialRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Image string `json:"image"`
}

func (r MaterialRequest) apply(m *model.Material) error {
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Text) == "" {
		return util.ErrInvalidMaterial
	}
	m.Title = strings.TrimSpace(r.Title)
	m.Text = r.Text
	m.ImageFilename = strings.TrimSpace(r.Image)
	return nil
}

func (s *ContentService) ListMaterials(ctx context.Context) ([]model.Material, error) {
	return s.MaterialRepo.List(ctx)
}

func (s *ContentService) GetMaterial(ctx context.Context, id uint) (*model.Material, error) {
	m, err := s.MaterialRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMaterialNotFound
	}
	return m, err
}

func (s *ContentService) CreateMaterial(ctx context.Context, req MaterialRequest) (*model.Material, error) {
	m := &model.Material{}
	if err := req.apply(m); err != nil {
		return nil, err
	}
	if err := s.MaterialRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ContentService) UpdateMaterial(ctx context.Context, id uint, req MaterialRequest) (*model.Material, error) {
	m, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.apply(m); err != nil {
		return nil, err
	}
	if err := s.MaterialRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ContentService) DeleteMaterial(ctx context.Context, id uint) error {
	err := s.MaterialRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrMaterialNotFound
	}
	return err
}

// UploadMaterialImage stores an image for material id and points the
// material at it. Only image content is accepted.
func (s *ContentService) UploadMaterialImage(ctx context.Context, id uint, filename string, r io.Reader, size int64) (*model.Material, error) {
	m, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if !util.HasImageExtension(filename) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFile, filepath.Ext(filename))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]

	mimeType, err := util.ValidateMimeType(bytes.NewReader(head), []string{util.MimeImage})
	if err != nil {
		return nil, err
	}

	object := fmt.Sprintf("materials/%d/%s%s", m.ID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.Storage.Upload(ctx, object, io.MultiReader(bytes.NewReader(head), r), size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", object, err)
	}

	previous := m.ImageFilename
	m.ImageFilename = url
	if err := s.MaterialRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	logger.Log.Info("material image uploaded",
		zap.Uint("material_id", m.ID),
		zap.String("url", url),
		zap.String("previous", previous),
	)
	return m, nil
}

type QuestionRequest struct {
	Text    string         `json:"text"`
	Type    string         `json:"type"`
	Choices []model.Choice `json:"choices"`
	Correct string         `json:"correct"`
}

func (r QuestionRequest) apply(q *model.Question) error {
	qt, err := model.ParseQuestionType(r.Type)
	if err != nil {
		return err
	}

	choices := make([]model.Choice, 0, len(r.Choices))
	for _, c := range r.Choices {
		choices = append(choices, model.Choice{
			Label: strings.TrimSpace(c.Label),
			Text:  strings.TrimSpace(c.Text),
		})
	}

	next := model.Question{
		BaseModel: q.BaseModel,
		Text:      strings.TrimSpace(r.Text),
		Type:      qt,
		Choices:   choices,
		Correct:   strings.TrimSpace(r.Correct),
	}
	if qt == model.TrueFalse && len(next.Choices) == 0 {
		next.Choices = nil
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*q = next
	return nil
}

func (s *ContentService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	return s.QuestionRepo.ListAll(ctx)
}

func (s *ContentService) GetQuestion(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *ContentService) CreateQuestion(ctx context.Context, req QuestionRequest) (*model.Question, error) {
	q := &model.Question{}
	if err := req.apply(q); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ContentService) UpdateQuestion(ctx context.Context, id uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.apply(q); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ContentService) DeleteQuestion(ctx context.Context, id uint) error {
	err := s.QuestionRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuestionNotFound
	}
	return err
}
