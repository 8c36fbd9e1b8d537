package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &userRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		UserName:     "john",
		PasswordHash: "$2a$10$hash",
		IsAdmin:      false,
	}

	rows := sqlmock.
		NewRows([]string{"id", "user_name", "password_hash", "is_admin"}).
		AddRow(1, user.UserName, user.PasswordHash, user.IsAdmin)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.UserName, user.PasswordHash, user.IsAdmin).
		WillReturnRows(rows)

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected ID=1, got %d", created.ID)
	}
	if created.UserName != user.UserName {
		t.Errorf("expected user name %s, got %s", user.UserName, created.UserName)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{UserName: "john"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrUserNameAlreadyExists) {
		t.Fatalf("expected ErrUserNameAlreadyExists, got %v", err)
	}
}

func TestFindUserByUserName_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.
		NewRows([]string{"id", "user_name", "password_hash", "is_admin"}).
		AddRow(7, "admin", "$2a$10$hash", true)

	mock.ExpectQuery("SELECT id, user_name, password_hash, is_admin").
		WithArgs("admin").
		WillReturnRows(rows)

	found, err := repo.FindUserByUserName(ctx, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != 7 {
		t.Errorf("expected ID=7, got %d", found.ID)
	}
	if !found.IsAdmin {
		t.Errorf("expected IsAdmin=true")
	}
}

func TestFindUserByUserName_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, user_name, password_hash, is_admin").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_name", "password_hash", "is_admin"}))

	_, err := repo.FindUserByUserName(ctx, "ghost")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}
