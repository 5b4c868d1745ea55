package repository

import (
	"biokuiz/internal/model"
	"context"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword stores a new password hash. It is the only mutation a user row sees.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByRole returns users of role in insertion order.
func (r *UserRepository) ListByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Where("role = ?", role).Order("id asc").Find(&users).Error
	return users, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role model.UserRole) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
