package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Managed is the kind-independent face of a Lifecycle.
type Managed interface {
	Kind() models.EntityKind
	Trash(ctx context.Context) ([]TrashItem, error)
	SoftDelete(ctx context.Context, actor auth.Identity, id uuid.UUID) error
	Restore(ctx context.Context, actor auth.Identity, id uuid.UUID) error
	PurgeTrashed(ctx context.Context, actor auth.Identity, id uuid.UUID) error
	Reorder(ctx context.Context, actor auth.Identity, ids []uuid.UUID) error
}

// TrashService spans every managed kind for the admin trash screen.
type TrashService struct {
	kinds map[models.EntityKind]Managed
	order []models.EntityKind
}

func NewTrashService(managed ...Managed) *TrashService {
	s := &TrashService{kinds: make(map[models.EntityKind]Managed, len(managed))}
	for _, m := range managed {
		s.kinds[m.Kind()] = m
		s.order = append(s.order, m.Kind())
	}
	return s
}

// For returns the lifecycle of kind.
func (s *TrashService) For(kind models.EntityKind) (Managed, error) {
	m, ok := s.kinds[kind]
	if !ok {
		return nil, errs.NewValidationError("kind", fmt.Sprintf("unknown entity kind %q", kind))
	}
	return m, nil
}

// List returns trashed records of every kind, most recently deleted first.
// Kinds are read concurrently.
func (s *TrashService) List(ctx context.Context) ([]TrashItem, error) {
	perKind := make([][]TrashItem, len(s.order))
	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range s.order {
		m := s.kinds[kind]
		g.Go(func() error {
			trashed, err := m.Trash(ctx)
			if err != nil {
				return err
			}
			perKind[i] = trashed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := []TrashItem{}
	for _, trashed := range perKind {
		items = append(items, trashed...)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].DeletedAt.After(items[j].DeletedAt) })
	return items, nil
}

func (s *TrashService) Restore(ctx context.Context, actor auth.Identity, kind models.EntityKind, id uuid.UUID) error {
	m, err := s.For(kind)
	if err != nil {
		return err
	}
	return m.Restore(ctx, actor, id)
}

// Purge permanently deletes a trashed record. Active records are refused.
func (s *TrashService) Purge(ctx context.Context, actor auth.Identity, kind models.EntityKind, id uuid.UUID) error {
	m, err := s.For(kind)
	if err != nil {
		return err
	}
	return m.PurgeTrashed(ctx, actor, id)
}
