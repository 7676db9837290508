// Package sanitize strips markup from free-text user input before it is
// persisted.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"eventreg/internal/domain"
)

type htmlSanitizer struct {
	policy *bluemonday.Policy
}

// NewStrict returns a Sanitizer that removes all HTML elements and
// attributes, keeping only the text content.
func NewStrict() domain.Sanitizer {
	return &htmlSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *htmlSanitizer) Sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}
