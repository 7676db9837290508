package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"eventreg/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is an in-memory RegistrationRepository. Create and Delete hold
// the mutex across their check-then-act sequence, mirroring the transactional
// guarantee of the real repository.
type fakeLedger struct {
	mu     sync.Mutex
	regs   []*domain.Registration
	nextID int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{nextID: 1}
}

func (f *fakeLedger) Create(ctx context.Context, reg *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.EventID == reg.EventID && r.Attendee == reg.Attendee {
			return domain.ErrAlreadyRegistered
		}
	}
	reg.ID = f.nextID
	f.nextID++
	f.regs = append(f.regs, reg)
	return nil
}

func (f *fakeLedger) Delete(ctx context.Context, eventID int64, attendee string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.regs {
		if r.EventID == eventID && r.Attendee == attendee {
			f.regs = append(f.regs[:i], f.regs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotRegistered
}

func (f *fakeLedger) GetByEventAndAttendee(ctx context.Context, eventID int64, attendee string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.EventID == eventID && r.Attendee == attendee {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Registration, 0)
	for _, r := range f.regs {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[int64]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = int64(len(f.byID) + 1)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []*domain.RegistrationConfirmationData
	err  error
}

func (f *fakeMailer) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func newRegistrationFixture() (*fakeEventRepo, *fakeLedger, *fakeUserRepo, *fakeMailer, domain.RegistrationService) {
	events := newFakeEventRepo()
	events.put(&domain.Event{ID: 6, OwnerID: 1, Name: "fundur 30", Slug: "fundur-30"})
	ledger := newFakeLedger()
	users := newFakeUserRepo(
		&domain.User{ID: 1, Name: "Admin", Username: "admin", Email: "admin@example.com", Admin: true},
		&domain.User{ID: 2, Name: "Jón", Username: "jonjonsson"},
	)
	mailer := &fakeMailer{}
	svc := NewRegistrationService(events, ledger, users, &fakeSanitizer{}, mailer)
	return events, ledger, users, mailer, svc
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success appends a ledger entry with sanitized comment", func(t *testing.T) {
		_, ledger, _, mailer, svc := newRegistrationFixture()
		reg, err := svc.Register(ctx, domain.Identity{UserID: 2}, 6, "  see you there  ")
		require.NoError(t, err)
		assert.Equal(t, "jonjonsson", reg.Attendee)
		assert.Equal(t, "see you there", reg.Comment)
		require.Len(t, ledger.regs, 1)
		// No email address on this user, so no mail.
		assert.Empty(t, mailer.sent)
	})

	t.Run("confirmation mail goes to users with an email address", func(t *testing.T) {
		_, _, _, mailer, svc := newRegistrationFixture()
		_, err := svc.Register(ctx, domain.Identity{UserID: 1}, 6, "")
		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "admin@example.com", mailer.sent[0].Email)
		assert.Equal(t, "fundur 30", mailer.sent[0].EventName)
	})

	t.Run("mailer failure does not fail the registration", func(t *testing.T) {
		_, ledger, _, mailer, svc := newRegistrationFixture()
		mailer.err = errors.New("ses unavailable")
		_, err := svc.Register(ctx, domain.Identity{UserID: 1}, 6, "")
		require.NoError(t, err)
		require.Len(t, ledger.regs, 1)
	})

	t.Run("missing event is not found", func(t *testing.T) {
		_, _, _, _, svc := newRegistrationFixture()
		_, err := svc.Register(ctx, domain.Identity{UserID: 1}, 99, "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("second register for the same pair is a conflict", func(t *testing.T) {
		_, _, _, _, svc := newRegistrationFixture()
		_, err := svc.Register(ctx, domain.Identity{UserID: 1}, 6, "")
		require.NoError(t, err)
		_, err = svc.Register(ctx, domain.Identity{UserID: 1}, 6, "")
		require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	})

	t.Run("duplicate check matches the exact attendee, not a prefix", func(t *testing.T) {
		_, ledger, users, _, svc := newRegistrationFixture()
		users.byID[3] = &domain.User{ID: 3, Name: "Admin Two", Username: "admin2"}
		_, err := svc.Register(ctx, domain.Identity{UserID: 3}, 6, "")
		require.NoError(t, err)
		// "admin" is a prefix of "admin2" but a distinct attendee.
		_, err = svc.Register(ctx, domain.Identity{UserID: 1}, 6, "")
		require.NoError(t, err)
		assert.Len(t, ledger.regs, 2)
	})
}

func TestRegistrationService_Unregister(t *testing.T) {
	ctx := context.Background()

	t.Run("unregister without a registration is an invalid state", func(t *testing.T) {
		_, _, _, _, svc := newRegistrationFixture()
		err := svc.Unregister(ctx, domain.Identity{UserID: 1}, 6)
		require.ErrorIs(t, err, domain.ErrNotRegistered)
	})

	t.Run("missing event is not found, not invalid state", func(t *testing.T) {
		_, _, _, _, svc := newRegistrationFixture()
		err := svc.Unregister(ctx, domain.Identity{UserID: 1}, 99)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("register then unregister succeeds exactly once", func(t *testing.T) {
		_, _, _, _, svc := newRegistrationFixture()
		identity := domain.Identity{UserID: 1}

		_, err := svc.Register(ctx, identity, 6, "")
		require.NoError(t, err)
		require.NoError(t, svc.Unregister(ctx, identity, 6))
		require.ErrorIs(t, svc.Unregister(ctx, identity, 6), domain.ErrNotRegistered)
	})
}

// TestRegistrationService_StateMachine is the concrete round trip:
// register succeeds once, repeats conflict, unregister succeeds once,
// repeats fail.
func TestRegistrationService_StateMachine(t *testing.T) {
	ctx := context.Background()
	_, _, _, _, svc := newRegistrationFixture()
	admin := domain.Identity{UserID: 1}

	_, err := svc.Register(ctx, admin, 6, "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, admin, 6, "")
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	require.NoError(t, svc.Unregister(ctx, admin, 6))
	require.ErrorIs(t, svc.Unregister(ctx, admin, 6), domain.ErrNotRegistered)
}

// TestRegistrationService_ConcurrentRegister checks that N interleaved
// registrations for the same (event, attendee) pair produce exactly one
// success; the rest must observe the conflict.
func TestRegistrationService_ConcurrentRegister(t *testing.T) {
	ctx := context.Background()
	_, ledger, _, _, svc := newRegistrationFixture()
	identity := domain.Identity{UserID: 1}

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, identity, 6, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrAlreadyRegistered):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
	assert.Len(t, ledger.regs, 1)
}

func TestRegistrationService_ListAttendees(t *testing.T) {
	ctx := context.Background()

	t.Run("names only, in insertion order", func(t *testing.T) {
		_, _, _, _, svc := newRegistrationFixture()
		_, err := svc.Register(ctx, domain.Identity{UserID: 1}, 6, "secret comment")
		require.NoError(t, err)
		_, err = svc.Register(ctx, domain.Identity{UserID: 2}, 6, "")
		require.NoError(t, err)

		attendees, err := svc.ListAttendees(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin", "jonjonsson"}, attendees)
	})

	t.Run("event with no registrations yields an empty list", func(t *testing.T) {
		_, _, _, _, svc := newRegistrationFixture()
		attendees, err := svc.ListAttendees(ctx, 6)
		require.NoError(t, err)
		assert.Empty(t, attendees)
		assert.NotNil(t, attendees)
	})
}
