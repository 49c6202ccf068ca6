package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Experience is one position on the career timeline.
type Experience struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Role        string     `json:"role" gorm:"type:text;not null"`
	Company     string     `json:"company" gorm:"type:text;not null"`
	Description string     `json:"description" gorm:"type:text;not null;default:''"`
	StartDate   time.Time  `json:"startDate" gorm:"not null"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsActive    bool       `json:"isActive" gorm:"not null;default:false"`
	YearRange   string     `json:"yearRange" gorm:"type:text;not null;default:''"`
	OrderIndex  int        `json:"orderIndex" gorm:"not null;default:0"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Experience) TableName() string { return string(KindExperience) }

func (e *Experience) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	e.YearRange = FormatYearRange(e.StartDate, e.EndDate, e.IsActive)
	return nil
}

func (e Experience) GetID() uuid.UUID         { return e.ID }
func (e Experience) GetDeletedAt() *time.Time { return e.DeletedAt }
func (e Experience) Label() string            { return fmt.Sprintf("%s at %s", e.Role, e.Company) }
func (e Experience) Kind() EntityKind         { return KindExperience }

// FormatYearRange renders "2019 - 2022", or "2021 - Present" for a current
// position or one without an end date.
func FormatYearRange(start time.Time, end *time.Time, active bool) string {
	if start.IsZero() {
		return ""
	}
	if active || end == nil {
		return fmt.Sprintf("%d - Present", start.Year())
	}
	return fmt.Sprintf("%d - %d", start.Year(), end.Year())
}
