package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type SkillInput struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Icon       *string `json:"icon"`
	OrderIndex int     `json:"orderIndex"`
}

var skillWritableFields = []string{"name", "category", "icon", "orderIndex"}

type SkillService struct {
	lifecycle *Lifecycle[models.Skill]
	cache     CacheConfig
}

func NewSkillService(store EntityStore[models.Skill], audit *AuditLogger, cfg CacheConfig) *SkillService {
	return &SkillService{
		lifecycle: NewLifecycle[models.Skill](store, audit, invalidatorOf(cfg)),
		cache:     cfg,
	}
}

func (s *SkillService) Lifecycle() *Lifecycle[models.Skill] { return s.lifecycle }

func (s *SkillService) Create(ctx context.Context, actor auth.Identity, in SkillInput) (*models.Skill, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}
	skill := &models.Skill{
		Name:       name,
		Category:   strings.TrimSpace(in.Category),
		Icon:       trimmedPtr(in.Icon),
		OrderIndex: in.OrderIndex,
	}
	if err := s.lifecycle.Create(ctx, actor, skill, nil); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) Update(ctx context.Context, actor auth.Identity, id uuid.UUID, patch Patch) (*models.Skill, error) {
	if err := patch.check(portfolioReadOnlyFields, skillWritableFields); err != nil {
		return nil, err
	}
	changes := map[string]any{}
	if err := textColumn(changes, patch, "name", "name"); err != nil {
		return nil, err
	}
	if patch.Has("category") {
		c, err := decodeField[string](patch, "category")
		if err != nil {
			return nil, err
		}
		changes["category"] = strings.TrimSpace(c)
	}
	if err := optionalColumn(changes, patch, "icon", "icon"); err != nil {
		return nil, err
	}
	if err := intColumn(changes, patch, "orderIndex", "order_index"); err != nil {
		return nil, err
	}
	return s.lifecycle.Update(ctx, actor, id, changes, models.ActionUpdate, map[string]any{"fields": patch.Fields()})
}

func (s *SkillService) Get(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	return s.lifecycle.Get(ctx, id)
}

func (s *SkillService) ListAdmin(ctx context.Context, scope models.Scope) ([]*models.Skill, error) {
	return s.lifecycle.List(ctx, scope)
}

func (s *SkillService) ListPublic(ctx context.Context) ([]*models.Skill, error) {
	return listPublic(ctx, s.lifecycle, s.cache)
}
