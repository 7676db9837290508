package domain

import "context"

// Registration is one active ledger entry linking an event to an attendee.
// Registrations are created and removed, never updated in place.
type Registration struct {
	ID       int64  `json:"id"`
	EventID  int64  `json:"event_id"`
	Attendee string `json:"attendee"`
	Comment  string `json:"comment,omitempty"`
}

// RegistrationRepository defines storage operations for the registration
// ledger. Create and Delete are atomic with respect to their duplicate and
// existence checks, so two concurrent calls for the same (event, attendee)
// pair cannot both succeed.
type RegistrationRepository interface {
	// Create inserts a registration unless one already exists for the same
	// (event, attendee) pair, in which case it returns ErrAlreadyRegistered.
	Create(ctx context.Context, reg *Registration) error
	// Delete removes the registration for (event, attendee). Returns
	// ErrNotRegistered when there is nothing to remove.
	Delete(ctx context.Context, eventID int64, attendee string) error
	GetByEventAndAttendee(ctx context.Context, eventID int64, attendee string) (*Registration, error)
	ListByEventID(ctx context.Context, eventID int64) ([]*Registration, error)
}

// RegistrationService defines the registration state machine: a pair is
// either unregistered (no ledger entry) or registered (one entry).
type RegistrationService interface {
	Register(ctx context.Context, identity Identity, eventID int64, comment string) (*Registration, error)
	Unregister(ctx context.Context, identity Identity, eventID int64) error
	// ListAttendees returns attendee names only, never comments.
	ListAttendees(ctx context.Context, eventID int64) ([]string, error)
}
