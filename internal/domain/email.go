package domain

import "context"

// RegistrationConfirmationData holds the fields for a registration
// confirmation email.
type RegistrationConfirmationData struct {
	Email     string
	Attendee  string
	EventName string
}

// Mailer sends transactional email.
type Mailer interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationData) error
}
