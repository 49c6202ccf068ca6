package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a portfolio project with metadata
type Project struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string       `json:"title" gorm:"type:text;not null"`
	Description string       `json:"description" gorm:"type:text;not null;default:''"`
	GithubLink  *string      `json:"githubLink,omitempty" gorm:"type:text"`
	DemoLink    *string      `json:"demoLink,omitempty" gorm:"type:text"`
	ImageURL    *string      `json:"imageUrl,omitempty" gorm:"type:text"`
	OrderIndex  int          `json:"orderIndex" gorm:"not null;default:0"`
	Tags        []ProjectTag `json:"tags" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	DeletedAt   *time.Time   `json:"deletedAt,omitempty" gorm:"index"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (Project) TableName() string { return string(KindProject) }

func (p *Project) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (p Project) GetID() uuid.UUID         { return p.ID }
func (p Project) GetDeletedAt() *time.Time { return p.DeletedAt }
func (p Project) Label() string            { return p.Title }
func (p Project) Kind() EntityKind         { return KindProject }

// TagValues returns the tag strings in stored order.
func (p Project) TagValues() []string {
	values := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		values = append(values, t.Value)
	}
	return values
}
