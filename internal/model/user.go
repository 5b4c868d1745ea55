package model

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

// UserRole is a closed set; values outside Student and Teacher are rejected
// by ParseUserRole and never reach the database.
type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// Capability names something a principal may do.
type Capability int

const (
	CapabilityTakeQuiz Capability = iota
	CapabilityAdminister
)

var roleCapabilities = map[UserRole][]Capability{
	Student: {CapabilityTakeQuiz},
	Teacher: {CapabilityTakeQuiz, CapabilityAdminister},
}

// ParseUserRole maps user input to a role. An empty string means Student.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(strings.ToLower(strings.TrimSpace(s))) {
	case "", Student:
		return Student, nil
	case Teacher:
		return Teacher, nil
	}
	return "", ErrUnknownRole
}

func (r UserRole) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants c.
func (r UserRole) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Password string   `gorm:"size:200;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student';index" json:"role"`
	Scores   []Score  `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
