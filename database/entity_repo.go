package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// EntityRepo holds the queries every soft-deletable collection shares.
// Concrete repos embed it and add what is specific to their table.
type EntityRepo[T models.Entity] struct {
	db      *gorm.DB
	noun    string
	order   string
	preload []string
}

func NewEntityRepo[T models.Entity](db *gorm.DB, order string, preload ...string) *EntityRepo[T] {
	var zero T
	return &EntityRepo[T]{
		db:      db,
		noun:    strings.TrimSuffix(string(zero.Kind()), "s"),
		order:   order,
		preload: preload,
	}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *EntityRepo[T]) GetDB() *gorm.DB {
	return r.db
}

func (r *EntityRepo[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, assoc := range r.preload {
		q = q.Preload(assoc)
	}
	return q
}

// FindByID returns the row whatever its soft-delete state.
func (r *EntityRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	err := r.query(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(r.noun)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", r.noun, err)
	}
	return &entity, nil
}

// FindAll returns the rows visible in scope in display order.
func (r *EntityRepo[T]) FindAll(ctx context.Context, scope models.Scope) ([]*T, error) {
	var entities []*T
	q := scope.Apply(r.query(ctx))
	if r.order != "" {
		q = q.Order(r.order)
	}
	if err := q.Find(&entities).Error; err != nil {
		return nil, errs.NewDatabaseError("list", r.noun, err)
	}
	return entities, nil
}

// Add inserts a new row.
func (r *EntityRepo[T]) Add(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return errs.NewDatabaseError("create", r.noun, err)
	}
	return nil
}

// Update writes changes, keyed by column name, to the row with id. Hooks are
// skipped: they exist to fill in new rows and would otherwise run against an
// empty model.
func (r *EntityRepo[T]) Update(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	return r.update(r.db.WithContext(ctx), id, changes)
}

func (r *EntityRepo[T]) update(tx *gorm.DB, id uuid.UUID, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	res := tx.Session(&gorm.Session{SkipHooks: true}).
		Model(new(T)).
		Where("id = ?", id).
		Updates(changes)
	if res.Error != nil {
		return errs.NewDatabaseError("update", r.noun, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(r.noun)
	}
	return nil
}

// SetDeletedAt moves the row into the trash, or out of it when at is nil.
func (r *EntityRepo[T]) SetDeletedAt(ctx context.Context, id uuid.UUID, at *time.Time, now time.Time) error {
	var deletedAt any
	if at != nil {
		deletedAt = *at
	}
	return r.Update(ctx, id, map[string]any{
		"deleted_at": deletedAt,
		"updated_at": now,
	})
}

// Purge removes the row for good.
func (r *EntityRepo[T]) Purge(ctx context.Context, id uuid.UUID) error {
	return r.purge(r.db.WithContext(ctx), id)
}

func (r *EntityRepo[T]) purge(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return errs.NewDatabaseError("delete", r.noun, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(r.noun)
	}
	return nil
}

// Reorder stores each id's position in ids as its order index. Ids that do
// not exist fail the whole batch.
func (r *EntityRepo[T]) Reorder(ctx context.Context, ids []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(new(T)).Where("id = ?", id).UpdateColumn("order_index", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errs.NewNotFound(r.noun)
			}
		}
		return nil
	})
	if err != nil {
		if errs.IsNotFound(err) {
			return err
		}
		return errs.NewTransactionFailedError("reorder "+r.noun, err)
	}
	return nil
}
