package repository

import (
	"biokuiz/internal/model"
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// UserBest is a user's highest score across all attempts.
type UserBest struct {
	UserID    uint   `json:"userId"`
	Username  string `json:"username"`
	BestScore int    `json:"bestScore"`
}

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{DB: db}
}

// Create inserts a new attempt. Scores are never updated or deleted.
func (r *ScoreRepository) Create(ctx context.Context, s *model.Score) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

// ListByUser returns the user's scores oldest first.
func (r *ScoreRepository) ListByUser(ctx context.Context, userID uint) ([]model.Score, error) {
	var scores []model.Score
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("taken_at asc, id asc").
		Find(&scores).Error
	return scores, err
}

// ListByUsers returns scores of the given users grouped by user id.
func (r *ScoreRepository) ListByUsers(ctx context.Context, userIDs []uint) (map[uint][]model.Score, error) {
	out := make(map[uint][]model.Score, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var scores []model.Score
	err := r.DB.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("taken_at asc, id asc").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	for _, s := range scores {
		out[s.UserID] = append(out[s.UserID], s)
	}
	return out, nil
}

func (r *ScoreRepository) ListAll(ctx context.Context) ([]model.Score, error) {
	var scores []model.Score
	err := r.DB.WithContext(ctx).Order("taken_at asc, id asc").Find(&scores).Error
	return scores, err
}

// BestPerUser returns the best score of every user that has at least one
// attempt, highest first. An empty role means all roles.
func (r *ScoreRepository) BestPerUser(ctx context.Context, role model.UserRole) ([]UserBest, error) {
	sub := r.DB.Model(&model.Score{}).
		Select("user_id, MAX(score) AS best_score").
		Group("user_id")

	query := r.DB.WithContext(ctx).Table("users").
		Select("users.id AS user_id, users.username AS username, best.best_score AS best_score").
		Joins("JOIN (?) AS best ON best.user_id = users.id", sub).
		Where("users.deleted_at IS NULL")
	if role != "" {
		query = query.Where("users.role = ?", role)
	}

	var rows []UserBest
	err := query.Order("best.best_score desc, users.id asc").Scan(&rows).Error
	return rows, err
}

// Average is the mean of all scores, 0 when there are none.
func (r *ScoreRepository) Average(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := r.DB.WithContext(ctx).Model(&model.Score{}).Select("AVG(score)").Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *ScoreRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Score{}).Count(&count).Error
	return count, err
}
