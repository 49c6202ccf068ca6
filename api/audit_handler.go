package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type auditHandler struct {
	responder    Responder
	logger       zerolog.Logger
	auditLogRepo *database.AuditLogRepo
}

func newAuditHandler(auditLogRepo *database.AuditLogRepo) auditHandler {
	logger := log.With().Str("handlerName", "auditHandler").Logger()

	return auditHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		auditLogRepo: auditLogRepo,
	}
}

// getAuditLogs returns recent admin activity
// @Summary List audit log entries
// @Tags Admin Audit
// @Produce json
// @Param limit query int false "Maximum entries (default 50, max 500)"
// @Param kind query string false "Entity kind"
// @Param entityId query string false "Entity ID"
// @Param action query string false "Audit action"
// @Success 200 {object} Collection[models.AuditLogEntry]
// @Failure 400 {object} ErrorResponse
// @Router /admin/audit-logs [get]
func (h auditHandler) getAuditLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		var q database.AuditQuery

		if raw := query.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				h.responder.WriteError(w, errs.NewValidationError("limit", "limit must be a positive integer"))
				return
			}
			q.Limit = limit
		}
		if raw := query.Get("kind"); raw != "" {
			kind, ok := models.ParseEntityKind(raw)
			if !ok {
				h.responder.WriteError(w, errs.NewValidationError("kind", "unknown entity kind"))
				return
			}
			q.Kind = kind
		}
		if raw := query.Get("entityId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid entityId"))
				return
			}
			q.EntityID = id
		}
		q.Action = models.AuditAction(query.Get("action"))

		entries, err := h.auditLogRepo.FindRecent(r.Context(), q)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCollection(entries))
	}
}
