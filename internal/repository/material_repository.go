package repository

import (
	"biokuiz/internal/model"
	"context"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(ctx context.Context, m *model.Material) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *MaterialRepository) FindByID(ctx context.Context, id uint) (*model.Material, error) {
	var m model.Material
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) List(ctx context.Context) ([]model.Material, error) {
	var ms []model.Material
	err := r.DB.WithContext(ctx).Order("id asc").Find(&ms).Error
	return ms, err
}

func (r *MaterialRepository) Update(ctx context.Context, m *model.Material) error {
	return r.DB.WithContext(ctx).Save(m).Error
}

func (r *MaterialRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Material{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MaterialRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Material{}).Count(&count).Error
	return count, err
}
