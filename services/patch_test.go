package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

func TestPatchColumns(t *testing.T) {
	p := Patch{
		"title":   json.RawMessage(`"  Trimmed  "`),
		"excerpt": json.RawMessage(`"   "`),
		"icon":    json.RawMessage(`null`),
		"order":   json.RawMessage(`3`),
		"flag":    json.RawMessage(`true`),
	}
	changes := map[string]any{}
	require.NoError(t, textColumn(changes, p, "title", "title"))
	require.NoError(t, optionalColumn(changes, p, "excerpt", "excerpt"))
	require.NoError(t, optionalColumn(changes, p, "icon", "icon"))
	require.NoError(t, intColumn(changes, p, "order", "order_index"))
	require.NoError(t, boolColumn(changes, p, "flag", "featured"))
	require.NoError(t, optionalColumn(changes, p, "absent", "absent"))

	assert.Equal(t, map[string]any{
		"title":       "Trimmed",
		"excerpt":     nil,
		"icon":        nil,
		"order_index": 3,
		"featured":    true,
	}, changes)
}

func TestPatchErrors(t *testing.T) {
	err := textColumn(map[string]any{}, Patch{"title": json.RawMessage(`""`)}, "title", "title")
	assert.True(t, errs.IsValidationError(err))

	err = intColumn(map[string]any{}, Patch{"orderIndex": json.RawMessage(`"first"`)}, "orderIndex", "order_index")
	assert.True(t, errs.IsValidationError(err))

	p := Patch{"views": json.RawMessage(`1`), "bogus": json.RawMessage(`1`)}
	assert.ErrorIs(t, p.check([]string{"views"}, []string{"title"}), errs.ErrReadOnlyField)
	assert.True(t, Patch{"featured": nil}.Only("featured"))
	assert.Equal(t, []string{"bogus", "views"}, p.Fields())
}
