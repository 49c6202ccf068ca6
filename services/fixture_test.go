package services_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/tester"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db       database.Database
	store    *cache.MemoryStore
	clock    *clock
	audit    *services.AuditLogger
	blogs    *services.BlogService
	projects *services.ProjectService
	skills   *services.SkillService
	exp      *services.ExperienceService
	trash    *services.TrashService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.New(tester.NewDB(t))
	store := cache.NewMemoryStore()
	clk := &clock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	audit := services.NewAuditLogger(db.AuditLogRepo())
	cacheCfg := services.CacheConfig{Store: store, TTL: time.Minute}

	f := &fixture{
		db:    db,
		store: store,
		clock: clk,
		audit: audit,
		blogs: services.NewBlogService(db.BlogPostRepo(), audit, services.BlogServiceConfig{
			Cache: cacheCfg,
			Now:   clk.Now,
		}),
		projects: services.NewProjectService(db.ProjectRepo(), audit, cacheCfg),
		skills:   services.NewSkillService(db.SkillRepo(), audit, cacheCfg),
		exp:      services.NewExperienceService(db.ExperienceRepo(), audit, cacheCfg),
	}
	f.trash = services.NewTrashService(
		f.blogs.Lifecycle(),
		f.projects.Lifecycle(),
		f.skills.Lifecycle(),
		f.exp.Lifecycle(),
	)
	return f
}

func admin() auth.Identity {
	return auth.Identity{ID: "admin-1", Email: "admin" + "@example.com"}
}

// actions returns the audit actions recorded for id, in no particular order.
func (f *fixture) actions(t *testing.T, id uuid.UUID) []models.AuditAction {
	t.Helper()
	entries, err := f.db.AuditLogRepo().FindRecent(context.Background(), database.AuditQuery{EntityID: id})
	require.NoError(t, err)
	out := make([]models.AuditAction, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// doc builds an editor document with one paragraph of n words.
func doc(n int) json.RawMessage {
	words := strings.TrimSpace(strings.Repeat("word ", n))
	return json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"` + words + `"}]}]}`)
}
