package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Skill struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Name       string     `json:"name" gorm:"type:text;not null"`
	Category   string     `json:"category" gorm:"type:text;not null;default:'';index"`
	Icon       *string    `json:"icon,omitempty" gorm:"type:text"`
	OrderIndex int        `json:"orderIndex" gorm:"not null;default:0"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty" gorm:"index"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (Skill) TableName() string { return string(KindSkill) }

func (s *Skill) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (s Skill) GetID() uuid.UUID         { return s.ID }
func (s Skill) GetDeletedAt() *time.Time { return s.DeletedAt }
func (s Skill) Label() string            { return s.Name }
func (s Skill) Kind() EntityKind         { return KindSkill }
