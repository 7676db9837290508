package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventreg/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Create inserts a registration inside a transaction that locks the event
// row first. The lock serializes concurrent registrations for the same
// event, so the duplicate check and the insert act as one atomic unit; the
// unique index on (event_id, attendee) backstops the check regardless.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var eventID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, reg.EventID).Scan(&eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE event_id = $1 AND attendee = $2)`,
		reg.EventID, reg.Attendee,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if exists {
		return domain.ErrAlreadyRegistered
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO registrations (event_id, attendee, comment) VALUES ($1, $2, $3) RETURNING id`,
		reg.EventID, reg.Attendee, reg.Comment,
	).Scan(&reg.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	return tx.Commit()
}

// Delete removes the (event, attendee) registration in a single statement;
// the row count decides whether there was anything to remove.
func (r *registrationRepository) Delete(ctx context.Context, eventID int64, attendee string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM registrations WHERE event_id = $1 AND attendee = $2`,
		eventID, attendee,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotRegistered
	}
	return nil
}

func (r *registrationRepository) GetByEventAndAttendee(ctx context.Context, eventID int64, attendee string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, attendee, comment
		FROM registrations
		WHERE event_id = $1 AND attendee = $2
	`
	reg := &domain.Registration{}
	var commentNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, eventID, attendee).
		Scan(&reg.ID, &reg.EventID, &reg.Attendee, &commentNull)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	reg.Comment = commentNull.String
	return reg, nil
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Registration, error) {
	query := `
		SELECT id, event_id, attendee, comment
		FROM registrations
		WHERE event_id = $1
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		var commentNull sql.NullString
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.Attendee, &commentNull); err != nil {
			return nil, err
		}
		reg.Comment = commentNull.String
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
