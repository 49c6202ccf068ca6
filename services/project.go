package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	GithubLink  *string  `json:"githubLink"`
	DemoLink    *string  `json:"demoLink"`
	ImageURL    *string  `json:"imageUrl"`
	OrderIndex  int      `json:"orderIndex"`
	Tags        []string `json:"tags"`
}

var projectWritableFields = []string{"title", "description", "githubLink", "demoLink", "imageUrl", "orderIndex", "tags"}

type ProjectService struct {
	lifecycle *Lifecycle[models.Project]
	cache     CacheConfig
}

func NewProjectService(store EntityStore[models.Project], audit *AuditLogger, cfg CacheConfig) *ProjectService {
	return &ProjectService{
		lifecycle: NewLifecycle[models.Project](store, audit, invalidatorOf(cfg)),
		cache:     cfg,
	}
}

func (s *ProjectService) Lifecycle() *Lifecycle[models.Project] { return s.lifecycle }

func (s *ProjectService) Create(ctx context.Context, actor auth.Identity, in ProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	p := &models.Project{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		GithubLink:  trimmedPtr(in.GithubLink),
		DemoLink:    trimmedPtr(in.DemoLink),
		ImageURL:    trimmedPtr(in.ImageURL),
		OrderIndex:  in.OrderIndex,
	}
	p.Tags = models.NewProjectTags(p.ID, in.Tags)
	if err := s.lifecycle.Create(ctx, actor, p, map[string]any{"tags": p.TagValues()}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, actor auth.Identity, id uuid.UUID, patch Patch) (*models.Project, error) {
	if err := patch.check(portfolioReadOnlyFields, projectWritableFields); err != nil {
		return nil, err
	}
	changes := map[string]any{}
	if err := textColumn(changes, patch, "title", "title"); err != nil {
		return nil, err
	}
	if patch.Has("description") {
		d, err := decodeField[string](patch, "description")
		if err != nil {
			return nil, err
		}
		changes["description"] = strings.TrimSpace(d)
	}
	for field, column := range map[string]string{
		"githubLink": "github_link",
		"demoLink":   "demo_link",
		"imageUrl":   "image_url",
	} {
		if err := optionalColumn(changes, patch, field, column); err != nil {
			return nil, err
		}
	}
	if err := intColumn(changes, patch, "orderIndex", "order_index"); err != nil {
		return nil, err
	}
	if patch.Has("tags") {
		tags := []string{}
		if !isNull(patch["tags"]) {
			var err error
			if tags, err = decodeField[[]string](patch, "tags"); err != nil {
				return nil, err
			}
		}
		changes[database.TagsField] = tags
	}
	return s.lifecycle.Update(ctx, actor, id, changes, models.ActionUpdate, map[string]any{"fields": patch.Fields()})
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.lifecycle.Get(ctx, id)
}

func (s *ProjectService) ListAdmin(ctx context.Context, scope models.Scope) ([]*models.Project, error) {
	return s.lifecycle.List(ctx, scope)
}

// GetPublic serves the public project detail page. Trashed and purged
// projects are not found.
func (s *ProjectService) GetPublic(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return getPublic(ctx, s.lifecycle, s.cache, id)
}

func (s *ProjectService) ListPublic(ctx context.Context) ([]*models.Project, error) {
	return listPublic(ctx, s.lifecycle, s.cache)
}
