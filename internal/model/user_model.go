package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type User struct {
	ID            uint    `gorm:"primaryKey" json:"user_id"`
	Name          *string `gorm:"type:varchar(100)" json:"name"`
	Email         *string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash  *string `gorm:"type:varchar(255)" json:"-"`
	Role          string  `gorm:"type:varchar(50)" json:"role"` // "candidate", "interviewer", "admin"
	ResumeSummary *string `gorm:"type:text" json:"resume_summary"`
	ResumeText    *string `gorm:"type:text" json:"-"`
	// Written only by the profile enrichment flow; a zero vector must never
	// reach the insert path because vector(3072) rejects empty values.
	Embedding pgvector.Vector `gorm:"type:vector(3072);<-:update" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Skills []UserSkill `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) TableName() string {
	return "users"
}
