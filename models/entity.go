package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityKind names a managed collection. The values double as table names and
// cache tags.
type EntityKind string

const (
	KindBlog       EntityKind = "blogs"
	KindProject    EntityKind = "projects"
	KindSkill      EntityKind = "skills"
	KindExperience EntityKind = "experience"
)

// ManagedKinds lists the kinds that share the soft-delete lifecycle.
var ManagedKinds = []EntityKind{KindBlog, KindProject, KindSkill, KindExperience}

func ParseEntityKind(s string) (EntityKind, bool) {
	for _, k := range ManagedKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Entity is the minimal shape the lifecycle manager needs.
type Entity interface {
	GetID() uuid.UUID
	GetDeletedAt() *time.Time
	// Label is a human readable title used in trash listings and audit details.
	Label() string
	Kind() EntityKind
}

// Scope selects rows by soft-delete state.
type Scope string

const (
	ScopeActive  Scope = "active"
	ScopeTrashed Scope = "trashed"
	ScopeAll     Scope = "all"
)

func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeActive, ScopeTrashed, ScopeAll:
		return Scope(s), true
	case "":
		return ScopeActive, true
	}
	return "", false
}

// Apply restricts db to the rows visible in scope.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	switch s {
	case ScopeTrashed:
		return db.Where("deleted_at IS NOT NULL")
	case ScopeAll:
		return db
	default:
		return db.Where("deleted_at IS NULL")
	}
}

// assignID gives new rows an identifier before insert so the schema does not
// depend on a database-side uuid generator.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
