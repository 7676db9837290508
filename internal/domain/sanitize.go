package domain

// Sanitizer strips markup from free-text input. Every free-text field
// (event description, registration comment) passes through it before
// reaching storage, on the create and update paths alike.
type Sanitizer interface {
	Sanitize(text string) string
}
