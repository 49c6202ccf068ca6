package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

// portfolioService is what the project, skill and experience services have
// in common.
type portfolioService[T models.Entity, In any] interface {
	Create(ctx context.Context, actor auth.Identity, in In) (*T, error)
	Update(ctx context.Context, actor auth.Identity, id uuid.UUID, patch services.Patch) (*T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	ListAdmin(ctx context.Context, scope models.Scope) ([]*T, error)
	ListPublic(ctx context.Context) ([]*T, error)
	Lifecycle() *services.Lifecycle[T]
}

// entityHandler serves the public list and admin CRUD of one portfolio kind.
type entityHandler[T models.Entity, In any] struct {
	responder Responder
	logger    zerolog.Logger
	service   portfolioService[T, In]
	noun      string
	idParam   string
}

func newEntityHandler[T models.Entity, In any](name, noun, idParam string, service portfolioService[T, In]) entityHandler[T, In] {
	logger := log.With().Str("handlerName", name).Logger()

	return entityHandler[T, In]{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
		noun:      noun,
		idParam:   idParam,
	}
}

func (h entityHandler[T, In]) listPublic() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.service.ListPublic(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCollection(items))
	}
}

func (h entityHandler[T, In]) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := scopeParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		items, err := h.service.ListAdmin(r.Context(), scope)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCollection(items))
	}
}

func (h entityHandler[T, In]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, h.idParam)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := h.service.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

func (h entityHandler[T, In]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := readJSON(w, r, h.noun, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := h.service.Create(r.Context(), actor(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("id", (*item).GetID().String()).Msgf("%s created", h.noun)
		h.responder.WriteCreated(w, item)
	}
}

func (h entityHandler[T, In]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, h.idParam)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch services.Patch
		if err := readJSON(w, r, h.noun, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := h.service.Update(r.Context(), actor(r.Context()), id, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

func (h entityHandler[T, In]) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, h.idParam)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.service.Lifecycle().SoftDelete(r.Context(), actor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, h.noun+" moved to trash")
	}
}
