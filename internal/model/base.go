package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel is embedded by users, materials and questions. Scores are
// insert-only rows and keep their own id without timestamps.
//
// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
