package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.projects.Create(ctx, admin(), services.ProjectInput{})
	assert.True(t, errs.IsValidationError(err))

	p, err := f.projects.Create(ctx, admin(), services.ProjectInput{
		Title: "CMS",
		Tags:  []string{"go", "redis", "go"},
	})
	require.NoError(t, err)

	public, err := f.projects.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.ElementsMatch(t, []string{"go", "redis"}, public[0].TagValues())

	updated, err := f.projects.Update(ctx, admin(), p.ID, services.Patch{
		"tags":       raw(t, []string{"postgres"}),
		"githubLink": raw(t, "https://github.com/x/cms"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"postgres"}, updated.TagValues())
	require.NotNil(t, updated.GithubLink)

	updated, err = f.projects.Update(ctx, admin(), p.ID, services.Patch{"githubLink": raw(t, nil)})
	require.NoError(t, err)
	assert.Nil(t, updated.GithubLink)

	public, err = f.projects.ListPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"postgres"}, public[0].TagValues(), "cached list is invalidated by the update")

	_, err = f.projects.Update(ctx, admin(), p.ID, services.Patch{"createdAt": raw(t, "2020-01-01")})
	assert.ErrorIs(t, err, errs.ErrReadOnlyField)
}

func TestProjectGetPublic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p, err := f.projects.Create(ctx, admin(), services.ProjectInput{Title: "CMS"})
	require.NoError(t, err)

	got, err := f.projects.GetPublic(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "CMS", got.Title)
	assert.Positive(t, f.store.Len())

	_, err = f.projects.Update(ctx, admin(), p.ID, services.Patch{"title": raw(t, "Renamed")})
	require.NoError(t, err)
	got, err = f.projects.GetPublic(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	require.NoError(t, f.projects.Lifecycle().SoftDelete(ctx, admin(), p.ID))
	_, err = f.projects.GetPublic(ctx, p.ID)
	assert.True(t, errs.IsNotFound(err))

	require.NoError(t, f.projects.Lifecycle().Purge(ctx, admin(), p.ID))
	_, err = f.projects.GetPublic(ctx, p.ID)
	assert.True(t, errs.IsNotFound(err))

	_, err = f.projects.GetPublic(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestSkillReorder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var ids []uuid.UUID
	for i, name := range []string{"Go", "SQL", "Redis"} {
		s, err := f.skills.Create(ctx, admin(), services.SkillInput{Name: name, Category: "backend", OrderIndex: i})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	before, err := f.skills.ListPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go", before[0].Name)

	require.NoError(t, f.skills.Lifecycle().Reorder(ctx, admin(), []uuid.UUID{ids[2], ids[0], ids[1]}))
	after, err := f.skills.ListPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Redis", "Go", "SQL"}, []string{after[0].Name, after[1].Name, after[2].Name})

	err = f.skills.Lifecycle().Reorder(ctx, admin(), []uuid.UUID{ids[0], ids[0]})
	assert.True(t, errs.IsValidationError(err))
	assert.True(t, errs.IsValidationError(f.skills.Lifecycle().Reorder(ctx, admin(), nil)))
}

func TestExperienceYearRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.exp.Create(ctx, admin(), services.ExperienceInput{Role: "Engineer", Company: "Acme"})
	assert.True(t, errs.IsValidationError(err), "start date is required")

	e, err := f.exp.Create(ctx, admin(), services.ExperienceInput{
		Role:      "Engineer",
		Company:   "Acme",
		StartDate: "2019-02-01",
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "2019 - Present", e.YearRange)
	assert.Equal(t, "Engineer at Acme", e.Label())

	updated, err := f.exp.Update(ctx, admin(), e.ID, services.Patch{
		"isActive": raw(t, false),
		"endDate":  raw(t, "2022-08-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2019 - 2022", updated.YearRange)

	_, err = f.exp.Update(ctx, admin(), e.ID, services.Patch{"endDate": raw(t, "2018-01-01")})
	assert.True(t, errs.IsValidationError(err))

	_, err = f.exp.Update(ctx, admin(), e.ID, services.Patch{"yearRange": raw(t, "always")})
	assert.ErrorIs(t, err, errs.ErrReadOnlyField)
}

func TestTrashAcrossKinds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	post := createPost(t, f, services.BlogPostInput{Title: "Old post"})
	skill, err := f.skills.Create(ctx, admin(), services.SkillInput{Name: "Perl"})
	require.NoError(t, err)
	live, err := f.skills.Create(ctx, admin(), services.SkillInput{Name: "Go"})
	require.NoError(t, err)

	require.NoError(t, f.blogs.SoftDelete(ctx, admin(), post.ID))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.skills.Lifecycle().SoftDelete(ctx, admin(), skill.ID))

	items, err := f.trash.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// deleting twice is harmless
	require.NoError(t, f.skills.Lifecycle().SoftDelete(ctx, admin(), skill.ID))

	err = f.trash.Purge(ctx, admin(), models.KindSkill, live.ID)
	assert.True(t, errs.IsConflict(err), "active records cannot be purged from the trash screen")

	_, err = f.trash.For("widgets")
	assert.True(t, errs.IsValidationError(err))

	require.NoError(t, f.trash.Restore(ctx, admin(), models.KindBlog, post.ID))
	require.NoError(t, f.trash.Purge(ctx, admin(), models.KindSkill, skill.ID))

	items, err = f.trash.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.ElementsMatch(t, []models.AuditAction{models.ActionCreate, models.ActionDelete, models.ActionHardDelete}, f.actions(t, skill.ID))
}
