package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// BlogPost represents a blog post whose body is stored as editor JSON
type BlogPost struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title          string         `json:"title" gorm:"type:text;not null"`
	Slug           string         `json:"slug" gorm:"type:text;not null;uniqueIndex:idx_blogs_active_slug,where:deleted_at IS NULL"`
	Excerpt        *string        `json:"excerpt,omitempty" gorm:"type:text"`
	CoverImage     *string        `json:"coverImage,omitempty" gorm:"type:text"`
	Content        datatypes.JSON `json:"content" gorm:"not null"`
	Status         PostStatus     `json:"status" gorm:"type:text;not null;default:draft;index"`
	Featured       bool           `json:"featured" gorm:"not null;default:false"`
	PublishedAt    *time.Time     `json:"publishedAt,omitempty" gorm:"index"`
	ReadingTime    int            `json:"readingTime" gorm:"not null;default:0"`
	Views          int64          `json:"views" gorm:"not null;default:0"`
	SEOTitle       *string        `json:"seoTitle,omitempty" gorm:"column:seo_title;type:text"`
	SEODescription *string        `json:"seoDescription,omitempty" gorm:"column:seo_description;type:text"`
	AuthorEmail    string         `json:"authorEmail" gorm:"type:text"`
	OrderIndex     int            `json:"orderIndex" gorm:"not null;default:0"`
	DeletedAt      *time.Time     `json:"deletedAt,omitempty" gorm:"index"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (BlogPost) TableName() string { return string(KindBlog) }

func (p *BlogPost) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (p BlogPost) GetID() uuid.UUID         { return p.ID }
func (p BlogPost) GetDeletedAt() *time.Time { return p.DeletedAt }
func (p BlogPost) Label() string            { return p.Title }
func (p BlogPost) Kind() EntityKind         { return KindBlog }

// Public reports whether the post may be shown to readers.
func (p BlogPost) Public() bool {
	return p.DeletedAt == nil && p.Status == StatusPublished
}
