package export

import (
	"regexp"
	"strings"
)

var (
	reSlugInvalid = regexp.MustCompile(`[^a-z0-9-]+`)
	reSlugDashes  = regexp.MustCompile(`-+`)
)

// Slug converts a title to a file-name-friendly slug.
// Example: "Lecture Notes: Entropy 101" -> "lecture-notes-entropy-101"
func Slug(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = reSlugInvalid.ReplaceAllString(slug, "")
	slug = reSlugDashes.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}
