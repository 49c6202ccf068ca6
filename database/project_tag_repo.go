package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// ForProject returns the tags of one project.
func (r *ProjectTagRepo) ForProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectTag, error) {
	var tags []models.ProjectTag
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&tags).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project tag", err)
	}
	return tags, nil
}

// Values returns every distinct tag in use by a live project.
func (r *ProjectTagRepo) Values(ctx context.Context) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&models.ProjectTag{}).
		Joins("JOIN projects ON projects.id = project_tags.project_id").
		Where("projects.deleted_at IS NULL").
		Order("project_tags.value").
		Distinct().
		Pluck("project_tags.value", &values).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "project tag", err)
	}
	return values, nil
}

// Replace swaps the tag set of a project. Callers run it inside their own
// transaction.
func (r *ProjectTagRepo) Replace(ctx context.Context, projectID uuid.UUID, values []string) error {
	db := r.db.WithContext(ctx)
	if err := r.deleteFor(db, projectID); err != nil {
		return err
	}
	tags := models.NewProjectTags(projectID, values)
	if len(tags) == 0 {
		return nil
	}
	if err := db.Create(&tags).Error; err != nil {
		return errs.NewDatabaseError("create", "project tag", err)
	}
	return nil
}

func (r *ProjectTagRepo) deleteFor(db *gorm.DB, projectID uuid.UUID) error {
	if err := db.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
		return errs.NewDatabaseError("delete", "project tag", err)
	}
	return nil
}
