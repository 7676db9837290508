package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventreg/internal/domain"
)

const maxEventNameLen = 64

type eventService struct {
	eventRepo domain.EventRepository
	sanitizer domain.Sanitizer
}

// NewEventService creates an EventService with the given repository and
// sanitizer.
func NewEventService(eventRepo domain.EventRepository, sanitizer domain.Sanitizer) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		sanitizer: sanitizer,
	}
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, identity domain.Identity, name, description string) (*domain.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxEventNameLen {
		ve := &domain.ValidationError{}
		return nil, ve.Add("name", "must be between 1 and 64 characters")
	}

	// Name collisions are a business rule, checked before the insert rather
	// than left to a storage constraint.
	if _, err := s.eventRepo.GetByName(ctx, name); err == nil {
		ve := &domain.ValidationError{}
		return nil, ve.Add("name", domain.ErrDuplicateEventName.Error())
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check event name: %w", err)
	}

	event := &domain.Event{
		OwnerID:     identity.UserID,
		Name:        name,
		Slug:        domain.Slugify(name),
		Description: s.sanitizer.Sanitize(description),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// canMutate is the authorization gate for event mutation: admins may modify
// any event, everyone else only their own.
func canMutate(event *domain.Event, identity domain.Identity) bool {
	return identity.Admin || identity.UserID == event.OwnerID
}

// Update applies a sparse patch to a single event. Order matters: existence
// first, then the authorization gate, then per-field validation. Fields that
// fail validation are excluded from the write; if nothing remains to change
// the whole operation fails. A new name always recomputes the slug in the
// same write so the two never fall out of sync.
func (s *eventService) Update(ctx context.Context, identity domain.Identity, id int64, patch domain.EventPatch) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !canMutate(event, identity) {
		// The event's existence is disclosed to non-owners on purpose.
		return nil, domain.ErrForbidden
	}

	ve := &domain.ValidationError{}
	var name, slug, description *string

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" || len([]rune(trimmed)) > maxEventNameLen {
			ve.Add("name", "must be between 1 and 64 characters")
		} else {
			derived := domain.Slugify(trimmed)
			name = &trimmed
			slug = &derived
		}
	}
	if patch.Description != nil {
		// An empty description does not clear the field; it is treated as
		// if the field had been omitted.
		if clean := s.sanitizer.Sanitize(*patch.Description); clean != "" {
			description = &clean
		}
	}

	if name == nil && description == nil {
		if len(ve.Fields) == 0 {
			ve.Add("fields", "nothing to update")
		}
		return nil, ve
	}

	updated, err := s.eventRepo.Update(ctx, id, name, slug, description)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, identity domain.Identity, id int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !canMutate(event, identity) {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
