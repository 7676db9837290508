package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"eventreg/internal/domain"
)

func userRows(users ...*domain.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "username", "email", "password_hash", "admin"})
	for _, u := range users {
		rows.AddRow(u.ID, u.Name, u.Username, u.Email, u.PasswordHash, u.Admin)
	}
	return rows
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (name, username, email, password_hash, admin)`)).
			WithArgs("Jón", "jonjonsson", "jon@example.com", "hash", false).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

		u := &domain.User{Name: "Jón", Username: "jonjonsson", Email: "jon@example.com", PasswordHash: "hash"}
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if u.ID != 2 {
			t.Fatalf("want id 2, got %d", u.ID)
		}
		expectationsMet(t, mock)
	})

	t.Run("unique violation maps to duplicate username", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (name, username, email, password_hash, admin)`)).
			WithArgs("Jón", "jonjonsson", "", "hash", false).
			WillReturnError(&pq.Error{Code: "23505"})

		u := &domain.User{Name: "Jón", Username: "jonjonsson", PasswordHash: "hash"}
		if err := repo.Create(context.Background(), u); !errors.Is(err, domain.ErrDuplicateUsername) {
			t.Fatalf("want ErrDuplicateUsername, got %v", err)
		}
		expectationsMet(t, mock)
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE username = $1`)).
			WithArgs("admin").
			WillReturnRows(userRows(&domain.User{ID: 1, Name: "Admin", Username: "admin", PasswordHash: "hash", Admin: true}))

		u, err := repo.GetByUsername(context.Background(), "admin")
		if err != nil {
			t.Fatalf("GetByUsername: %v", err)
		}
		if !u.Admin {
			t.Fatal("admin flag lost in scan")
		}
		expectationsMet(t, mock)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE username = $1`)).
			WithArgs("nobody").
			WillReturnError(sql.ErrNoRows)

		if _, err := repo.GetByUsername(context.Background(), "nobody"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
		expectationsMet(t, mock)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "username", "email", "password_hash", "admin"}).
		AddRow(int64(2), "Jón", "jonjonsson", nil, "hash", false)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(rows)

	u, err := repo.GetByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Email != "" {
		t.Fatalf("null email should read as empty, got %q", u.Email)
	}
	expectationsMet(t, mock)
}

func TestUserRepository_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY id`)).
		WillReturnRows(userRows(
			&domain.User{ID: 1, Name: "Admin", Username: "admin", Admin: true},
			&domain.User{ID: 2, Name: "Jón", Username: "jonjonsson"},
		))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("want 2 users, got %d", len(users))
	}
	expectationsMet(t, mock)
}
