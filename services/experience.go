package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Dates arrive either as full timestamps or as calendar dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errs.NewValidationError(field, field+" must be a date (YYYY-MM-DD)")
}

type ExperienceInput struct {
	Role        string  `json:"role"`
	Company     string  `json:"company"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	IsActive    bool    `json:"isActive"`
	OrderIndex  int     `json:"orderIndex"`
}

var experienceWritableFields = []string{"role", "company", "description", "startDate", "endDate", "isActive", "orderIndex"}

type ExperienceService struct {
	lifecycle *Lifecycle[models.Experience]
	cache     CacheConfig
}

func NewExperienceService(store EntityStore[models.Experience], audit *AuditLogger, cfg CacheConfig) *ExperienceService {
	return &ExperienceService{
		lifecycle: NewLifecycle[models.Experience](store, audit, invalidatorOf(cfg)),
		cache:     cfg,
	}
}

func (s *ExperienceService) Lifecycle() *Lifecycle[models.Experience] { return s.lifecycle }

func (s *ExperienceService) Create(ctx context.Context, actor auth.Identity, in ExperienceInput) (*models.Experience, error) {
	role := strings.TrimSpace(in.Role)
	if role == "" {
		return nil, errs.NewMissingRequiredFieldError("role")
	}
	company := strings.TrimSpace(in.Company)
	if company == "" {
		return nil, errs.NewMissingRequiredFieldError("company")
	}
	if strings.TrimSpace(in.StartDate) == "" {
		return nil, errs.NewMissingRequiredFieldError("startDate")
	}
	start, err := parseDate("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if in.EndDate != nil && strings.TrimSpace(*in.EndDate) != "" {
		e, err := parseDate("endDate", *in.EndDate)
		if err != nil {
			return nil, err
		}
		end = &e
	}
	if err := checkDates(start, end); err != nil {
		return nil, err
	}

	exp := &models.Experience{
		Role:        role,
		Company:     company,
		Description: strings.TrimSpace(in.Description),
		StartDate:   start,
		EndDate:     end,
		IsActive:    in.IsActive,
		OrderIndex:  in.OrderIndex,
	}
	if err := s.lifecycle.Create(ctx, actor, exp, nil); err != nil {
		return nil, err
	}
	return exp, nil
}

// Update recomputes the year range whenever a date or the active flag moves.
func (s *ExperienceService) Update(ctx context.Context, actor auth.Identity, id uuid.UUID, patch Patch) (*models.Experience, error) {
	if err := patch.check(append(portfolioReadOnlyFields, "yearRange"), experienceWritableFields); err != nil {
		return nil, err
	}
	current, err := s.lifecycle.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	for _, f := range []string{"role", "company"} {
		if err := textColumn(changes, patch, f, f); err != nil {
			return nil, err
		}
	}
	if patch.Has("description") {
		d, err := decodeField[string](patch, "description")
		if err != nil {
			return nil, err
		}
		changes["description"] = strings.TrimSpace(d)
	}
	if err := intColumn(changes, patch, "orderIndex", "order_index"); err != nil {
		return nil, err
	}

	start, end, active := current.StartDate, current.EndDate, current.IsActive
	if patch.Has("startDate") {
		raw, err := requiredText(patch, "startDate")
		if err != nil {
			return nil, err
		}
		if start, err = parseDate("startDate", raw); err != nil {
			return nil, err
		}
		changes["start_date"] = start
	}
	if patch.Has("endDate") {
		raw, err := optionalText(patch, "endDate")
		if err != nil {
			return nil, err
		}
		end = nil
		if raw != nil {
			e, err := parseDate("endDate", *raw)
			if err != nil {
				return nil, err
			}
			end = &e
		}
		if end == nil {
			changes["end_date"] = nil
		} else {
			changes["end_date"] = *end
		}
	}
	if patch.Has("isActive") {
		if active, err = decodeField[bool](patch, "isActive"); err != nil {
			return nil, err
		}
		changes["is_active"] = active
	}
	if patch.Has("startDate") || patch.Has("endDate") || patch.Has("isActive") {
		if err := checkDates(start, end); err != nil {
			return nil, err
		}
		changes["year_range"] = models.FormatYearRange(start, end, active)
	}

	return s.lifecycle.Update(ctx, actor, id, changes, models.ActionUpdate, map[string]any{"fields": patch.Fields()})
}

func checkDates(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return errs.NewValidationError("endDate", "endDate cannot be before startDate")
	}
	return nil
}

func (s *ExperienceService) Get(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	return s.lifecycle.Get(ctx, id)
}

func (s *ExperienceService) ListAdmin(ctx context.Context, scope models.Scope) ([]*models.Experience, error) {
	return s.lifecycle.List(ctx, scope)
}

func (s *ExperienceService) ListPublic(ctx context.Context) ([]*models.Experience, error) {
	return listPublic(ctx, s.lifecycle, s.cache)
}
