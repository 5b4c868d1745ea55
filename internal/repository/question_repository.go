package repository

import (
	"biokuiz/internal/model"
	"context"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *QuestionRepository) CreateBatch(ctx context.Context, qs []model.Question) error {
	if len(qs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&qs).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// ListAll returns the whole question bank in id order.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).Order("id asc").Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Save(q).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Question{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Count(&count).Error
	return count, err
}
