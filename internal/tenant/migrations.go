package tenant

import "fmt"

// Migration is one versioned, additive schema step. Statements must be safe
// to re-run so a half-recorded step can be replayed.
type Migration struct {
	Version    int
	Name       string
	Statements func(s Store) []string
}

// Migrations are applied in Version order and recorded in schema_migrations.
var Migrations = []Migration{
	{Version: 1, Name: "create_portfolios", Statements: func(s Store) []string {
		return []string{fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id           BIGSERIAL PRIMARY KEY,
				name         VARCHAR(50) NOT NULL UNIQUE,
				data_type    VARCHAR(10) NOT NULL CHECK (data_type IN ('intraday', 'interday')),
				start_date   DATE,
				end_date     DATE,
				period       VARCHAR(10),
				interval_str VARCHAR(10) NOT NULL,
				is_readonly  BOOLEAN NOT NULL DEFAULT FALSE,
				created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT portfolios_window_kind CHECK (
					(data_type = 'intraday' AND is_readonly AND period IS NOT NULL
						AND start_date IS NULL AND end_date IS NULL)
					OR
					(data_type = 'interday' AND period IS NULL
						AND start_date IS NOT NULL AND end_date IS NOT NULL)
				),
				CONSTRAINT portfolios_window_order CHECK (start_date IS NULL OR start_date < end_date)
			)`, s.Table(TablePortfolios))}
	}},
	{Version: 2, Name: "create_portfolio_stocks", Statements: func(s Store) []string {
		return []string{fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				portfolio_id BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				ticker       VARCHAR(5) NOT NULL,
				added_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (portfolio_id, ticker)
			)`, s.Table(TablePortfolioStocks), s.Table(TablePortfolios))}
	}},
	{Version: 3, Name: "create_time_series", Statements: func(s Store) []string {
		return []string{fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id           BIGSERIAL PRIMARY KEY,
				ticker       VARCHAR(5) NOT NULL,
				date         TIMESTAMPTZ NOT NULL,
				open         NUMERIC(14, 2) NOT NULL,
				high         NUMERIC(14, 2),
				low          NUMERIC(14, 2),
				close        NUMERIC(14, 2) NOT NULL,
				adj_close    NUMERIC(14, 2),
				volume       BIGINT NOT NULL DEFAULT 0,
				interval_str VARCHAR(10),
				created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (ticker, date)
			)`, s.Table(TableTimeSeries))}
	}},
	{Version: 4, Name: "create_users", Statements: func(s Store) []string {
		return []string{fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id            BIGSERIAL PRIMARY KEY,
				username      VARCHAR(30) NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				last_login    TIMESTAMPTZ
			)`, s.Table(TableUsers))}
	}},
	{Version: 5, Name: "portfolios_last_edited_at", Statements: func(s Store) []string {
		t := s.Table(TablePortfolios)
		return []string{
			fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS last_edited_at TIMESTAMPTZ`, t),
			fmt.Sprintf(`UPDATE %s SET last_edited_at = created_at WHERE last_edited_at IS NULL`, t),
			fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN last_edited_at SET DEFAULT NOW()`, t),
		}
	}},
}

// LatestVersion is the schema version a fully provisioned tenant reports.
func LatestVersion() int {
	v := 0
	for _, m := range Migrations {
		if m.Version > v {
			v = m.Version
		}
	}
	return v
}
