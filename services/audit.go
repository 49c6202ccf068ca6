package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type AuditStore interface {
	Add(ctx context.Context, entry *models.AuditLogEntry) error
}

// AuditLogger appends audit entries on a best-effort basis: a failed write is
// logged and never reaches the caller.
type AuditLogger struct {
	store  AuditStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewAuditLogger(store AuditStore) *AuditLogger {
	return &AuditLogger{
		store:  store,
		now:    time.Now,
		logger: log.With().Str("service", "audit").Logger(),
	}
}

// Record writes one entry. id may be nil for actions that span a collection.
func (a *AuditLogger) Record(ctx context.Context, actor auth.Identity, action models.AuditAction, kind models.EntityKind, id *uuid.UUID, details map[string]any) {
	if a == nil || a.store == nil {
		return
	}
	if !actor.Authenticated() {
		actor = auth.System
	}

	entry := &models.AuditLogEntry{
		ActorEmail: actor.Email,
		Action:     action,
		EntityKind: kind,
		EntityID:   id,
		CreatedAt:  a.now().UTC(),
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			a.logger.Warn().Err(err).Str("action", string(action)).Msg("dropping undecodable audit details")
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}

	if err := a.store.Add(ctx, entry); err != nil {
		ev := a.logger.Warn().Err(errs.NewAuditLogError(string(action), err)).
			Str("actor", actor.Email).
			Str("entityKind", string(kind))
		if id != nil {
			ev = ev.Str("entityId", id.String())
		}
		ev.Msg("audit entry not written")
	}
}
