package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// EntityStore is the storage a Lifecycle drives. database.EntityRepo and the
// repos embedding it satisfy it.
type EntityStore[T models.Entity] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, scope models.Scope) ([]*T, error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, id uuid.UUID, changes map[string]any) error
	SetDeletedAt(ctx context.Context, id uuid.UUID, at *time.Time, now time.Time) error
	Purge(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// TrashItem is one row of the cross-kind trash listing.
type TrashItem struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Kind      models.EntityKind `json:"entityKind"`
	DeletedAt time.Time         `json:"deletedAt"`
}

type LifecycleOption[T models.Entity] func(*Lifecycle[T])

// WithTags adds record-specific cache tags, such as a post's slug, to every
// invalidation of that record.
func WithTags[T models.Entity](tags func(T) []string) LifecycleOption[T] {
	return func(l *Lifecycle[T]) { l.tags = tags }
}

// WithRestoreGuard runs guard before a trashed record is restored; an error
// aborts the restore.
func WithRestoreGuard[T models.Entity](guard func(context.Context, T) error) LifecycleOption[T] {
	return func(l *Lifecycle[T]) { l.restoreGuard = guard }
}

// WithRestoreConflict maps a unique-index conflict hit while restoring a
// record, which happens when another write claims its key after the guard ran.
func WithRestoreConflict[T models.Entity](mapErr func(T) error) LifecycleOption[T] {
	return func(l *Lifecycle[T]) { l.restoreConflict = mapErr }
}

func WithClock[T models.Entity](now func() time.Time) LifecycleOption[T] {
	return func(l *Lifecycle[T]) { l.now = now }
}

// Lifecycle implements the soft-delete state machine shared by every managed
// kind:
//
//	Active --SoftDelete--> Trashed --Restore--> Active
//	Trashed --Purge--> removed
//
// Each state change is written to storage first, then audited, then the cache
// is invalidated. Audit and cache failures are logged, never returned.
type Lifecycle[T models.Entity] struct {
	kind            models.EntityKind
	store           EntityStore[T]
	audit           *AuditLogger
	cache           cache.Invalidator
	now             func() time.Time
	tags            func(T) []string
	restoreGuard    func(context.Context, T) error
	restoreConflict func(T) error
	logger          zerolog.Logger
}

func NewLifecycle[T models.Entity](store EntityStore[T], audit *AuditLogger, inv cache.Invalidator, opts ...LifecycleOption[T]) *Lifecycle[T] {
	var zero T
	l := &Lifecycle[T]{
		kind:   zero.Kind(),
		store:  store,
		audit:  audit,
		cache:  inv,
		now:    time.Now,
		logger: log.With().Str("service", "lifecycle").Str("entityKind", string(zero.Kind())).Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lifecycle[T]) Kind() models.EntityKind { return l.kind }

// Now is the lifecycle clock, exposed so services stamp fields consistently.
func (l *Lifecycle[T]) Now() time.Time { return l.now().UTC() }

func (l *Lifecycle[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	return l.store.FindByID(ctx, id)
}

// GetActive is Get restricted to records outside the trash.
func (l *Lifecycle[T]) GetActive(ctx context.Context, id uuid.UUID) (*T, error) {
	entity, err := l.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if (*entity).GetDeletedAt() != nil {
		return nil, errs.NewNotFound(l.noun())
	}
	return entity, nil
}

func (l *Lifecycle[T]) List(ctx context.Context, scope models.Scope) ([]*T, error) {
	return l.store.FindAll(ctx, scope)
}

// Create stores entity and logs CREATE.
func (l *Lifecycle[T]) Create(ctx context.Context, actor auth.Identity, entity *T, details map[string]any) error {
	if err := l.store.Add(ctx, entity); err != nil {
		return err
	}
	id := (*entity).GetID()
	l.audit.Record(ctx, actor, models.ActionCreate, l.kind, &id, l.details(*entity, details))
	l.invalidate(ctx, id, *entity)
	return nil
}

// Update applies changes to an Active record and logs action. The record is
// re-read after the write and returned.
func (l *Lifecycle[T]) Update(ctx context.Context, actor auth.Identity, id uuid.UUID, changes map[string]any, action models.AuditAction, details map[string]any) (*T, error) {
	before, err := l.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return before, nil
	}
	if _, ok := changes["updated_at"]; !ok {
		changes["updated_at"] = l.Now()
	}
	if err := l.store.Update(ctx, id, changes); err != nil {
		return nil, err
	}

	after, err := l.store.FindByID(ctx, id)
	if err != nil {
		// the write went through, so the cache must still be cleared
		l.invalidate(ctx, id, *before)
		return nil, err
	}
	l.audit.Record(ctx, actor, action, l.kind, &id, l.details(*after, details))
	l.invalidate(ctx, id, *before, *after)
	return after, nil
}

// SoftDelete moves an Active record to the trash. Deleting a record that is
// already trashed changes nothing.
func (l *Lifecycle[T]) SoftDelete(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	entity, err := l.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if (*entity).GetDeletedAt() != nil {
		return nil
	}
	now := l.Now()
	if err := l.store.SetDeletedAt(ctx, id, &now, now); err != nil {
		return err
	}
	l.audit.Record(ctx, actor, models.ActionDelete, l.kind, &id, l.details(*entity, nil))
	l.invalidate(ctx, id, *entity)
	return nil
}

// Restore brings a trashed record back. Restoring an Active record is a
// no-op; a purged or unknown id is NotFound.
func (l *Lifecycle[T]) Restore(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	entity, err := l.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if (*entity).GetDeletedAt() == nil {
		return nil
	}
	if l.restoreGuard != nil {
		if err := l.restoreGuard(ctx, *entity); err != nil {
			return err
		}
	}
	if err := l.store.SetDeletedAt(ctx, id, nil, l.Now()); err != nil {
		if l.restoreConflict != nil && errs.IsConflict(err) {
			return l.restoreConflict(*entity)
		}
		return err
	}
	l.audit.Record(ctx, actor, models.ActionRestore, l.kind, &id, l.details(*entity, nil))
	l.invalidate(ctx, id, *entity)
	return nil
}

// Purge removes the record whatever its state. Refusing to purge Active
// records is left to callers that face users.
func (l *Lifecycle[T]) Purge(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	entity, err := l.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.Purge(ctx, id); err != nil {
		return err
	}
	l.audit.Record(ctx, actor, models.ActionHardDelete, l.kind, &id, l.details(*entity, nil))
	l.invalidate(ctx, id, *entity)
	return nil
}

// PurgeTrashed is Purge for the trash screen: Active records are refused.
func (l *Lifecycle[T]) PurgeTrashed(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	entity, err := l.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if (*entity).GetDeletedAt() == nil {
		return errs.NewConflictError("only items in the trash can be permanently deleted")
	}
	return l.Purge(ctx, actor, id)
}

// Reorder stores the position of each id and logs one REORDER entry.
func (l *Lifecycle[T]) Reorder(ctx context.Context, actor auth.Identity, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return errs.NewMissingRequiredFieldError("ids")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return errs.NewValidationError("ids", "ids must not repeat")
		}
		seen[id] = struct{}{}
	}
	if err := l.store.Reorder(ctx, ids); err != nil {
		return err
	}
	l.audit.Record(ctx, actor, models.ActionReorder, l.kind, nil, map[string]any{"ids": ids})
	l.invalidateTags(ctx, cache.KindTag(string(l.kind)))
	return nil
}

// Trash lists the trashed records of this kind.
func (l *Lifecycle[T]) Trash(ctx context.Context) ([]TrashItem, error) {
	entities, err := l.store.FindAll(ctx, models.ScopeTrashed)
	if err != nil {
		return nil, err
	}
	items := make([]TrashItem, 0, len(entities))
	for _, e := range entities {
		deletedAt := (*e).GetDeletedAt()
		if deletedAt == nil {
			continue
		}
		items = append(items, TrashItem{
			ID:        (*e).GetID(),
			Title:     (*e).Label(),
			Kind:      l.kind,
			DeletedAt: *deletedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].DeletedAt.After(items[j].DeletedAt) })
	return items, nil
}

func (l *Lifecycle[T]) noun() string {
	return string(l.kind)
}

func (l *Lifecycle[T]) details(entity T, extra map[string]any) map[string]any {
	details := map[string]any{"label": entity.Label()}
	for k, v := range extra {
		details[k] = v
	}
	return details
}

// invalidate clears the kind tag, the id tag and the record tags of every
// given version of the record, so a rename clears both old and new slugs.
func (l *Lifecycle[T]) invalidate(ctx context.Context, id uuid.UUID, versions ...T) {
	tags := []string{
		cache.KindTag(string(l.kind)),
		cache.EntityTag(string(l.kind), id.String()),
	}
	if l.tags != nil {
		for _, v := range versions {
			tags = append(tags, l.tags(v)...)
		}
	}
	l.invalidateTags(ctx, tags...)
}

func (l *Lifecycle[T]) invalidateTags(ctx context.Context, tags ...string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx, dedupe(tags)...); err != nil {
		l.logger.Error().Err(err).Strs("tags", tags).Msg("cache invalidation failed")
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
