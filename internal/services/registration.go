package services

import (
	"context"
	"errors"
	"fmt"

	"eventreg/internal/domain"
)

type registrationService struct {
	eventRepo domain.EventRepository
	ledger    domain.RegistrationRepository
	userRepo  domain.UserRepository
	sanitizer domain.Sanitizer
	mailer    domain.Mailer
}

// NewRegistrationService creates a RegistrationService. The mailer may be nil
// to disable confirmation email.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	ledger domain.RegistrationRepository,
	userRepo domain.UserRepository,
	sanitizer domain.Sanitizer,
	mailer domain.Mailer,
) domain.RegistrationService {
	return &registrationService{
		eventRepo: eventRepo,
		ledger:    ledger,
		userRepo:  userRepo,
		sanitizer: sanitizer,
		mailer:    mailer,
	}
}

func (s *registrationService) Register(ctx context.Context, identity domain.Identity, eventID int64, comment string) (*domain.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolve attendee: %w", err)
	}

	// Exact match on the resolved attendee identity.
	if _, err := s.ledger.GetByEventAndAttendee(ctx, eventID, user.Username); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check registration: %w", err)
	}

	reg := &domain.Registration{
		EventID:  eventID,
		Attendee: user.Username,
		Comment:  s.sanitizer.Sanitize(comment),
	}
	// The ledger re-checks for a duplicate under its own transaction; when
	// the read above and the write disagree, the write's verdict wins.
	if err := s.ledger.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	if s.mailer != nil && user.Email != "" {
		// Best effort: the registration is already committed.
		_ = s.mailer.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationData{
			Email:     user.Email,
			Attendee:  user.Name,
			EventName: event.Name,
		})
	}
	return reg, nil
}

func (s *registrationService) Unregister(ctx context.Context, identity domain.Identity, eventID int64) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("resolve attendee: %w", err)
	}

	// A single atomic delete decides whether there was anything to remove,
	// so two concurrent unregisters cannot both succeed.
	if err := s.ledger.Delete(ctx, eventID, user.Username); err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return domain.ErrNotRegistered
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (s *registrationService) ListAttendees(ctx context.Context, eventID int64) ([]string, error) {
	regs, err := s.ledger.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	attendees := make([]string, 0, len(regs))
	for _, reg := range regs {
		attendees = append(attendees, reg.Attendee)
	}
	return attendees, nil
}
