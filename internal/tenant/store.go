package tenant

import (
	"fmt"

	"github.com/epeers/watchlist/internal/validation"
	"github.com/jackc/pgx/v5"
)

// Relations every tenant schema carries
const (
	TablePortfolios      = "portfolios"
	TablePortfolioStocks = "portfolio_stocks"
	TableTimeSeries      = "time_series"
	TableUsers           = "users"
	TableMigrations      = "schema_migrations"
)

// Store identifies one user's isolated schema. It is a plain value; the
// connection pool is held by whoever queries through it.
type Store struct {
	Username string
	Schema   string
}

// Table returns the quoted, schema-qualified name of a tenant relation.
func (s Store) Table(name string) string {
	return pgx.Identifier{s.Schema, name}.Sanitize()
}

// QuotedSchema returns the quoted schema identifier.
func (s Store) QuotedSchema() string {
	return pgx.Identifier{s.Schema}.Sanitize()
}

func (s Store) String() string {
	return s.Schema
}

// Naming maps usernames onto schema names.
type Naming struct {
	Prefix string
}

// StoreFor validates username and derives its Store.
func (n Naming) StoreFor(username string) (Store, error) {
	u, err := validation.ValidateUsername(username)
	if err != nil {
		return Store{}, err
	}
	return Store{Username: u, Schema: fmt.Sprintf("%s%s", n.Prefix, u)}, nil
}
