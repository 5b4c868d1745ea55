package model

import "time"

// Score is one quiz attempt. Rows are insert-only.
//
// swagger:model Score
type Score struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  uint      `gorm:"index;not null" json:"userId"`
	Score   int       `gorm:"not null" json:"score"`
	Total   int       `gorm:"not null" json:"total"`
	TakenAt time.Time `gorm:"index;not null" json:"takenAt"`
}

func (Score) TableName() string {
	return "scores"
}
