package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/tenant"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository reads and writes the users table of a tenant store
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts the tenant's user row
func (r *UserRepository) Create(ctx context.Context, store tenant.Store, username, passwordHash string) (*models.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, password_hash, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, username, password_hash, created_at, last_login
	`, store.Table(tenant.TableUsers))
	u := &models.User{}
	err := r.pool.QueryRow(ctx, query, username, passwordHash).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.LastLogin)
	if isUniqueViolation(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, store tenant.Store, username string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, password_hash, created_at, last_login
		FROM %s WHERE username = $1
	`, store.Table(tenant.TableUsers))
	u := &models.User{}
	err := r.pool.QueryRow(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// TouchLastLogin stamps last_login and returns the new value
func (r *UserRepository) TouchLastLogin(ctx context.Context, store tenant.Store, id int64) (time.Time, error) {
	query := fmt.Sprintf(`UPDATE %s SET last_login = NOW() WHERE id = $1 RETURNING last_login`, store.Table(tenant.TableUsers))
	var at time.Time
	err := r.pool.QueryRow(ctx, query, id).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrUserNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to update last_login: %w", err)
	}
	return at, nil
}
