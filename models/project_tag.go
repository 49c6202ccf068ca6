package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectTag represents a tag associated with a project
type ProjectTag struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;index:idx_project_tag_project_id;uniqueIndex:idx_project_tag_unique"`
	Value     string    `json:"value" gorm:"type:text;not null;uniqueIndex:idx_project_tag_unique"`
}

func (t *ProjectTag) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// NewProjectTags builds tag rows for projectID, skipping blanks and duplicates.
func NewProjectTags(projectID uuid.UUID, values []string) []ProjectTag {
	seen := make(map[string]struct{}, len(values))
	tags := make([]ProjectTag, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		tags = append(tags, ProjectTag{ProjectID: projectID, Value: v})
	}
	return tags
}
