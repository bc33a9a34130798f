package seed

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// CreateSlug turns a title into a URL slug: lowercase ASCII letters and
// digits separated by single hyphens.
func CreateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlug.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
