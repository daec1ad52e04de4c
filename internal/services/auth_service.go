package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/repository"
	"github.com/epeers/watchlist/internal/tenant"
	"github.com/epeers/watchlist/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// TenantDirectory provisions tenant stores and reports whether one exists
type TenantDirectory interface {
	TenantProvisioner
	Exists(ctx context.Context, username string) (bool, error)
}

// UserStore reads and writes the user row of a tenant
type UserStore interface {
	Create(ctx context.Context, store tenant.Store, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, store tenant.Store, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, store tenant.Store, id int64) (time.Time, error)
}

// AuthService registers users and checks their credentials. Each user owns
// exactly one tenant store, created at registration.
type AuthService struct {
	tenants TenantDirectory
	users   UserStore
	cost    int
}

// NewAuthService creates a new AuthService
func NewAuthService(tenants TenantDirectory, users UserStore) *AuthService {
	return &AuthService{tenants: tenants, users: users, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register validates the credentials, provisions the user's tenant store
// and stores the password hash in it.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, tenant.Store, error) {
	u, err := validation.ValidateUsername(username)
	if err != nil {
		return nil, tenant.Store{}, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, tenant.Store{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, tenant.Store{}, fmt.Errorf("failed to hash password: %w", err)
	}

	store, err := s.tenants.EnsureTenant(ctx, u)
	if err != nil {
		return nil, tenant.Store{}, err
	}

	user, err := s.users.Create(ctx, store, u, string(hash))
	if errors.Is(err, repository.ErrUserExists) {
		return nil, tenant.Store{}, ErrUserExists
	}
	if err != nil {
		return nil, tenant.Store{}, err
	}
	return user, store, nil
}

// Authenticate checks username and password without side effects on the
// user row. Unknown users and wrong passwords are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, tenant.Store, error) {
	u, err := validation.ValidateUsername(username)
	if err != nil {
		return nil, tenant.Store{}, ErrInvalidCredentials
	}

	exists, err := s.tenants.Exists(ctx, u)
	if err != nil {
		return nil, tenant.Store{}, err
	}
	if !exists {
		return nil, tenant.Store{}, ErrInvalidCredentials
	}

	// brings older tenants up to the current schema
	store, err := s.tenants.EnsureTenant(ctx, u)
	if err != nil {
		return nil, tenant.Store{}, err
	}

	user, err := s.users.GetByUsername(ctx, store, u)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, tenant.Store{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, tenant.Store{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, tenant.Store{}, ErrInvalidCredentials
	}
	return user, store, nil
}

// Login authenticates and stamps last_login
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, store, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	at, err := s.users.TouchLastLogin(ctx, store, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &at
	return user, nil
}
