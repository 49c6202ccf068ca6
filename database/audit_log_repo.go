package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

type AuditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) *AuditLogRepo {
	return &AuditLogRepo{db}
}

func (r *AuditLogRepo) Add(ctx context.Context, entry *models.AuditLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errs.NewDatabaseError("create", "audit log entry", err)
	}
	return nil
}

// AuditQuery filters FindRecent. Zero values mean no filter.
type AuditQuery struct {
	Limit    int
	Kind     models.EntityKind
	EntityID uuid.UUID
	Action   models.AuditAction
}

// FindRecent returns entries newest first.
func (r *AuditLogRepo) FindRecent(ctx context.Context, q AuditQuery) ([]*models.AuditLogEntry, error) {
	limit := q.Limit
	switch {
	case limit <= 0:
		limit = DefaultAuditLimit
	case limit > MaxAuditLimit:
		limit = MaxAuditLimit
	}

	db := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if q.Kind != "" {
		db = db.Where("entity_kind = ?", q.Kind)
	}
	if q.EntityID != uuid.Nil {
		db = db.Where("entity_id = ?", q.EntityID)
	}
	if q.Action != "" {
		db = db.Where("action = ?", q.Action)
	}

	var entries []*models.AuditLogEntry
	if err := db.Find(&entries).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "audit log entry", err)
	}
	return entries, nil
}
