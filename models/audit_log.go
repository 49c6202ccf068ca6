package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	ActionCreate          AuditAction = "CREATE"
	ActionUpdate          AuditAction = "UPDATE"
	ActionDelete          AuditAction = "DELETE"
	ActionRestore         AuditAction = "RESTORE"
	ActionHardDelete      AuditAction = "HARD_DELETE"
	ActionPublished       AuditAction = "PUBLISHED"
	ActionUnpublished     AuditAction = "UNPUBLISHED"
	ActionContentUpdated  AuditAction = "CONTENT_UPDATED"
	ActionFeaturedToggled AuditAction = "FEATURED_TOGGLED"
	ActionReorder         AuditAction = "REORDER"
)

// AuditLogEntry is append-only; nothing updates or deletes these rows.
type AuditLogEntry struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;not null"`
	ActorEmail string         `json:"actorEmail" gorm:"type:text;not null;index"`
	Action     AuditAction    `json:"action" gorm:"type:text;not null;index"`
	EntityKind EntityKind     `json:"entityKind" gorm:"type:text;not null;index:idx_audit_entity"`
	EntityID   *uuid.UUID     `json:"entityId,omitempty" gorm:"type:uuid;index:idx_audit_entity"`
	Details    datatypes.JSON `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"index"`
}

func (AuditLogEntry) TableName() string { return "audit_logs" }

func (e *AuditLogEntry) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}
