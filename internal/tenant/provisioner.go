package tenant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/epeers/watchlist/internal/cache"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// SQLSTATE codes the provisioner classifies
const (
	pgInsufficientPrivilege = "42501"
	pgInvalidSchemaName     = "3F000"
)

// ErrTenantNotFound is returned when a tenant schema does not exist
var ErrTenantNotFound = errors.New("tenant store not found")

// ProvisionError reports that a tenant store could not be created or
// migrated, typically because the role lacks CREATE privileges.
type ProvisionError struct {
	Tenant string
	Err    error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("failed to provision tenant %s: %v", e.Tenant, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Provisioner creates and migrates per-user schemas.
type Provisioner struct {
	pool   *pgxpool.Pool
	naming Naming
	ready  *cache.MemoryCache[Store]
	group  singleflight.Group
}

// NewProvisioner creates a Provisioner naming schemas <prefix><username>
func NewProvisioner(pool *pgxpool.Pool, prefix string) *Provisioner {
	return &Provisioner{
		pool:   pool,
		naming: Naming{Prefix: prefix},
		ready:  cache.NewMemoryCache[Store](10 * time.Minute),
	}
}

// StoreFor derives the Store for username without touching the database.
func (p *Provisioner) StoreFor(username string) (Store, error) {
	return p.naming.StoreFor(username)
}

// EnsureTenant creates the tenant schema if absent and applies any pending
// migrations. Repeated calls are no-ops once the tenant is current.
func (p *Provisioner) EnsureTenant(ctx context.Context, username string) (Store, error) {
	store, err := p.naming.StoreFor(username)
	if err != nil {
		return Store{}, err
	}
	if s, ok := p.ready.Get(store.Schema); ok {
		return s, nil
	}

	// callers share one flight, so it must outlive whichever request started it
	_, err, _ = p.group.Do(store.Schema, func() (interface{}, error) {
		return nil, p.migrate(context.WithoutCancel(ctx), store)
	})
	if err != nil {
		return Store{}, err
	}
	p.ready.Set(store.Schema, store)
	return store, nil
}

func (p *Provisioner) migrate(ctx context.Context, store Store) error {
	defer trackTime("migrate "+store.Schema, time.Now())

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return classify(store, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	// serializes concurrent provisioning of the same tenant across processes
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, store.Schema); err != nil {
		return classify(store, fmt.Errorf("failed to lock tenant: %w", err))
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, store.QuotedSchema())); err != nil {
		return classify(store, fmt.Errorf("failed to create schema: %w", err))
	}

	migrationsTable := store.Table(TableMigrations)
	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, migrationsTable)); err != nil {
		return classify(store, fmt.Errorf("failed to create migrations table: %w", err))
	}

	applied, err := appliedVersions(ctx, tx, migrationsTable)
	if err != nil {
		return classify(store, err)
	}

	pending := slices.Clone(Migrations)
	slices.SortFunc(pending, func(a, b Migration) int { return a.Version - b.Version })

	for _, m := range pending {
		if _, done := applied[m.Version]; done {
			continue
		}
		for _, stmt := range m.Statements(store) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return classify(store, fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err))
			}
		}
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (version, name) VALUES ($1, $2) ON CONFLICT (version) DO NOTHING`, migrationsTable),
			m.Version, m.Name); err != nil {
			return classify(store, fmt.Errorf("failed to record migration %d: %w", m.Version, err))
		}
		log.Infof("tenant %s: applied migration %d %s", store.Schema, m.Version, m.Name)
	}

	if err := tx.Commit(ctx); err != nil {
		return classify(store, fmt.Errorf("failed to commit migrations: %w", err))
	}
	return nil
}

func appliedVersions(ctx context.Context, tx pgx.Tx, table string) (map[int]struct{}, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf(`SELECT version FROM %s`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to scan applied migrations: %w", err)
	}
	applied := make(map[int]struct{}, len(versions))
	for _, v := range versions {
		applied[v] = struct{}{}
	}
	return applied, nil
}

// Version returns the highest applied migration for username, or
// ErrTenantNotFound.
func (p *Provisioner) Version(ctx context.Context, username string) (int, error) {
	store, err := p.naming.StoreFor(username)
	if err != nil {
		return 0, err
	}
	var v int
	err = p.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COALESCE(MAX(version), 0) FROM %s`, store.Table(TableMigrations))).Scan(&v)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "42P01" || pgErr.Code == pgInvalidSchemaName) {
			return 0, ErrTenantNotFound
		}
		return 0, fmt.Errorf("failed to read tenant version: %w", err)
	}
	return v, nil
}

// Exists reports whether username's schema has been created.
func (p *Provisioner) Exists(ctx context.Context, username string) (bool, error) {
	store, err := p.naming.StoreFor(username)
	if err != nil {
		return false, err
	}
	if _, ok := p.ready.Get(store.Schema); ok {
		return true, nil
	}
	var exists bool
	err = p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`,
		store.Schema).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check tenant: %w", err)
	}
	return exists, nil
}

// Drop removes the tenant schema and everything in it.
func (p *Provisioner) Drop(ctx context.Context, username string) error {
	store, err := p.naming.StoreFor(username)
	if err != nil {
		return err
	}
	p.ready.Invalidate(store.Schema)
	if _, err := p.pool.Exec(ctx, fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, store.QuotedSchema())); err != nil {
		return classify(store, fmt.Errorf("failed to drop schema: %w", err))
	}
	log.Infof("tenant %s dropped", store.Schema)
	return nil
}

// Tenants lists the usernames that have a schema under this naming prefix.
func (p *Provisioner) Tenants(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT schema_name FROM information_schema.schemata
		 WHERE starts_with(schema_name, $1)
		 ORDER BY schema_name`, p.naming.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	schemas, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tenants: %w", err)
	}
	users := make([]string, 0, len(schemas))
	for _, s := range schemas {
		users = append(users, strings.TrimPrefix(s, p.naming.Prefix))
	}
	return users, nil
}

func classify(store Store, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInsufficientPrivilege {
		return &ProvisionError{Tenant: store.Schema, Err: err}
	}
	if errors.As(err, &pgErr) {
		return err
	}
	// connection-level failures surface as provisioning failures too
	return &ProvisionError{Tenant: store.Schema, Err: err}
}

func trackTime(what string, start time.Time) {
	log.Debugf("%s took %d ms", what, time.Since(start).Milliseconds())
}
