package domain

import "github.com/gosimple/slug"

// Slugify derives the URL-safe slug for an event name: lower-cased,
// whitespace collapsed to hyphens, markup-unsafe characters stripped.
// It is deterministic and idempotent on its own output.
func Slugify(name string) string {
	return slug.Make(name)
}
