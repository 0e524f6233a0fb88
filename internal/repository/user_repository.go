package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notesync-server/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type userRepository struct {
	db        *sql.DB
	opTimeout time.Duration
}

func NewUserRepository(db *sql.DB, opTimeout time.Duration) UserRepository {
	return &userRepository{db: db, opTimeout: opTimeout}
}

const userColumns = "id, username, email, password, first_name, last_name, created_at, updated_at"

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	dbCtx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(dbCtx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.Password,
		user.FirstName, user.LastName, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	dbCtx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var user domain.User
	err := r.db.QueryRowContext(dbCtx,
		"SELECT "+userColumns+" FROM users WHERE "+where, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.Password,
			&user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) exists(ctx context.Context, where string, arg any) (bool, error) {
	_, err := r.findOne(ctx, where, arg)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
