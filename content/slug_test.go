package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello, World! 2024", "hello-world-2024"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Go 1.23: What's New?", "go-1-23-what-s-new"},
		{"already-a-slug", "already-a-slug"},
		{"Café au lait", "caf-au-lait"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := DeriveSlug(tt.title)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, DeriveSlug(got), "slug derivation must be idempotent")
		})
	}
}
