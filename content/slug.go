package content

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSlug turns a title into a URL slug: lower case, every run of
// characters outside [a-z0-9] collapsed to a single "-", no leading or
// trailing "-". DeriveSlug(DeriveSlug(s)) == DeriveSlug(s).
func DeriveSlug(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
