package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/tester"
)

func newDatabase(t *testing.T) database.Database {
	t.Helper()
	return database.New(tester.NewDB(t))
}

func addSkill(t *testing.T, db database.Database, name string, order int) *models.Skill {
	t.Helper()
	s := &models.Skill{Name: name, Category: "backend", OrderIndex: order}
	require.NoError(t, db.SkillRepo().Add(context.Background(), s))
	return s
}

func TestEntityRepoFindByID(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	s := addSkill(t, db, "Go", 0)
	assert.NotEqual(t, uuid.Nil, s.ID)

	got, err := db.SkillRepo().FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Name)

	_, err = db.SkillRepo().FindByID(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestEntityRepoScopes(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	repo := db.SkillRepo()

	live := addSkill(t, db, "Go", 0)
	gone := addSkill(t, db, "Perl", 1)
	now := time.Now().UTC()
	require.NoError(t, repo.SetDeletedAt(ctx, gone.ID, &now, now))

	tests := []struct {
		scope models.Scope
		want  []uuid.UUID
	}{
		{models.ScopeActive, []uuid.UUID{live.ID}},
		{models.ScopeTrashed, []uuid.UUID{gone.ID}},
		{models.ScopeAll, []uuid.UUID{live.ID, gone.ID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			skills, err := repo.FindAll(ctx, tt.scope)
			require.NoError(t, err)
			ids := make([]uuid.UUID, 0, len(skills))
			for _, s := range skills {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	// trashed rows stay reachable by id
	got, err := repo.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)

	require.NoError(t, repo.SetDeletedAt(ctx, gone.ID, nil, now))
	got, err = repo.FindByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DeletedAt)
}

func TestEntityRepoUpdate(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	s := addSkill(t, db, "Go", 0)

	require.NoError(t, db.SkillRepo().Update(ctx, s.ID, map[string]any{"name": "Golang"}))
	got, err := db.SkillRepo().FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Golang", got.Name)
	assert.Equal(t, s.ID, got.ID)

	err = db.SkillRepo().Update(ctx, uuid.New(), map[string]any{"name": "x"})
	assert.True(t, errs.IsNotFound(err))
}

func TestEntityRepoPurge(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	s := addSkill(t, db, "Go", 0)

	require.NoError(t, db.SkillRepo().Purge(ctx, s.ID))
	_, err := db.SkillRepo().FindByID(ctx, s.ID)
	assert.True(t, errs.IsNotFound(err))

	assert.True(t, errs.IsNotFound(db.SkillRepo().Purge(ctx, s.ID)))
}

func TestEntityRepoReorder(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	a := addSkill(t, db, "a", 0)
	b := addSkill(t, db, "b", 1)
	c := addSkill(t, db, "c", 2)

	require.NoError(t, db.SkillRepo().Reorder(ctx, []uuid.UUID{c.ID, a.ID, b.ID}))
	skills, err := db.SkillRepo().FindAll(ctx, models.ScopeActive)
	require.NoError(t, err)
	require.Len(t, skills, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{skills[0].Name, skills[1].Name, skills[2].Name})

	err = db.SkillRepo().Reorder(ctx, []uuid.UUID{b.ID, uuid.New()})
	assert.True(t, errs.IsNotFound(err))
	// the failed batch is rolled back
	got, err := db.SkillRepo().FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.OrderIndex)
}

func TestExperienceYearRangeOnCreate(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	e := &models.Experience{
		Role:      "Engineer",
		Company:   "Acme",
		StartDate: time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	require.NoError(t, db.ExperienceRepo().Add(ctx, e))

	got, err := db.ExperienceRepo().FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "2019 - Present", got.YearRange)
}

func TestAuditLogRepoFindRecent(t *testing.T) {
	ctx := context.Background()
	db := newDatabase(t)
	repo := db.AuditLogRepo()

	postID := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []*models.AuditLogEntry{
		{ActorEmail: "system", Action: models.ActionCreate, EntityKind: models.KindBlog, EntityID: &postID, CreatedAt: base},
		{ActorEmail: "system", Action: models.ActionPublished, EntityKind: models.KindBlog, EntityID: &postID, CreatedAt: base.Add(time.Hour)},
		{ActorEmail: "system", Action: models.ActionReorder, EntityKind: models.KindSkill, Details: datatypes.JSON(`{"count":2}`), CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Add(ctx, e))
	}

	all, err := repo.FindRecent(ctx, database.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.ActionReorder, all[0].Action)
	assert.Nil(t, all[0].EntityID)

	blogs, err := repo.FindRecent(ctx, database.AuditQuery{Kind: models.KindBlog, Limit: 1})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, models.ActionPublished, blogs[0].Action)

	byEntity, err := repo.FindRecent(ctx, database.AuditQuery{EntityID: postID, Action: models.ActionCreate})
	require.NoError(t, err)
	require.Len(t, byEntity, 1)
}
