package domain

import "context"

// Event is a user-created event that other users can register for.
// Slug is always the slugification of Name at the time of last write.
type Event struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// EventPatch is the sparse set of candidate fields for a partial update.
// A nil pointer means the field was not supplied.
type EventPatch struct {
	Name        *string
	Description *string
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetByName(ctx context.Context, name string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	// Update applies the given columns to a single row in one atomic write.
	// A name change always travels with its recomputed slug: name and slug
	// are either both nil or both set.
	Update(ctx context.Context, id int64, name, slug, description *string) (*Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventService defines the event lifecycle operations.
type EventService interface {
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	Create(ctx context.Context, identity Identity, name, description string) (*Event, error)
	Update(ctx context.Context, identity Identity, id int64, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, identity Identity, id int64) error
}
