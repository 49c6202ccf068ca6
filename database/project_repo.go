package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const displayOrder = "order_index ASC, created_at DESC"

// TagsField is the change key that replaces a project's tags.
const TagsField = "tags"

type ProjectRepo struct {
	*EntityRepo[models.Project]
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{NewEntityRepo[models.Project](db, displayOrder, "Tags")}
}

// Update writes column changes and, when changes carries TagsField, replaces
// the tag set in the same transaction.
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	values, hasTags := changes[TagsField].([]string)
	if !hasTags {
		return r.EntityRepo.Update(ctx, id, changes)
	}

	columns := make(map[string]any, len(changes))
	for k, v := range changes {
		if k != TagsField {
			columns[k] = v
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(columns) == 0 {
			// still make sure the project exists before touching its tags
			columns["updated_at"] = gorm.Expr("updated_at")
		}
		if err := r.update(tx, id, columns); err != nil {
			return err
		}
		return NewProjectTagRepo(tx).Replace(ctx, id, values)
	})
	if err != nil {
		if errs.IsNotFound(err) || errs.IsConflict(err) {
			return err
		}
		return errs.NewTransactionFailedError("update project", err)
	}
	return nil
}

// Purge removes the project and its tags.
func (r *ProjectRepo) Purge(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewProjectTagRepo(tx).deleteFor(tx, id); err != nil {
			return err
		}
		return r.purge(tx, id)
	})
	if err != nil {
		if errs.IsNotFound(err) {
			return err
		}
		return errs.NewTransactionFailedError("delete project", err)
	}
	return nil
}
