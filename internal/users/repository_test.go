package users

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/betterhealth/bh-platform/internal/authctx"
)

func TestInMemoryGetOrCreateByPhone(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	first, err := repo.GetOrCreateByPhone(ctx, "9876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.IsNewUser {
		t.Fatalf("expected fresh account to be flagged new")
	}
	if first.Role != authctx.RolePatient {
		t.Fatalf("expected patient role, got %s", first.Role)
	}

	second, err := repo.GetOrCreateByPhone(ctx, "9876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same account on repeat verification")
	}
}

func TestInMemoryClearNewUser(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	user, _ := repo.GetOrCreateByPhone(ctx, "9876543210")
	if err := repo.ClearNewUser(ctx, user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(ctx, user.ID)
	if got.IsNewUser {
		t.Fatalf("expected is_new_user cleared")
	}

	if err := repo.ClearNewUser(ctx, "missing"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestInMemoryGetByEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	user, _ := repo.GetOrCreateByPhone(ctx, "9876543210")
	if _, err := repo.UpdateProfile(ctx, user.ID, "Asha", "asha@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected matching account")
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPostgresGetOrCreateByPhone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithConn(mock)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "phone", "coalesce", "coalesce", "role", "is_new_user", "created_at"}).
		AddRow("user-1", "9876543210", "", "", authctx.RolePatient, true, now)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "9876543210", authctx.RolePatient).
		WillReturnRows(rows)

	user, err := repo.GetOrCreateByPhone(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" || !user.IsNewUser {
		t.Fatalf("unexpected user %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresClearNewUser_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithConn(mock)
	mock.ExpectExec("UPDATE users SET is_new_user").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.ClearNewUser(context.Background(), "missing"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
