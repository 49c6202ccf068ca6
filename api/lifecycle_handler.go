package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

// lifecycleHandler serves the cross-kind admin operations: the trash screen
// and drag-and-drop reordering.
type lifecycleHandler struct {
	responder Responder
	logger    zerolog.Logger
	trash     *services.TrashService
}

func newLifecycleHandler(trash *services.TrashService) lifecycleHandler {
	logger := log.With().Str("handlerName", "lifecycleHandler").Logger()

	return lifecycleHandler{
		responder: NewResponder(logger),
		logger:    logger,
		trash:     trash,
	}
}

// listTrash lists every trashed record, most recently deleted first
// @Summary List trash
// @Tags Admin Trash
// @Produce json
// @Success 200 {object} Collection[services.TrashItem]
// @Router /admin/trash [get]
func (h lifecycleHandler) listTrash() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.trash.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCollection(items))
	}
}

func (h lifecycleHandler) restore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		kind := models.EntityKind(chi.URLParam(r, "kind"))
		if err := h.trash.Restore(r.Context(), actor(r.Context()), kind, id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "Restored")
	}
}

// purge permanently deletes a trashed record
// @Summary Permanently delete
// @Tags Admin Trash
// @Param kind path string true "blogs, projects, skills or experience"
// @Param id path string true "Record ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Record is not in the trash"
// @Router /admin/trash/{kind}/{id} [delete]
func (h lifecycleHandler) purge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		kind := models.EntityKind(chi.URLParam(r, "kind"))
		if err := h.trash.Purge(r.Context(), actor(r.Context()), kind, id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("kind", string(kind)).Str("id", id.String()).Msg("record purged")
		h.responder.WriteSuccess(w, "Permanently deleted")
	}
}

// reorder sets the display order of kind to the order of the submitted ids.
func (h lifecycleHandler) reorder(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderRequest
		if err := readJSON(w, r, "reorder", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(req.IDs) == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("ids"))
			return
		}
		managed, err := h.trash.For(kind)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := managed.Reorder(r.Context(), actor(r.Context()), req.IDs); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "Order saved")
	}
}
