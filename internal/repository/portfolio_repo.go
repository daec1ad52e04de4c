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

// PortfolioRepository handles portfolio metadata and membership inside one
// tenant store. Every mutating call runs in its own transaction.
type PortfolioRepository struct {
	pool *pgxpool.Pool
}

// NewPortfolioRepository creates a new PortfolioRepository
func NewPortfolioRepository(pool *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{pool: pool}
}

const portfolioColumns = `id, name, data_type, interval_str, period, start_date, end_date, is_readonly, created_at, last_edited_at`

func scanPortfolio(row pgx.Row) (*models.Portfolio, error) {
	p := &models.Portfolio{}
	var start, end *time.Time
	err := row.Scan(&p.ID, &p.Name, &p.DataType, &p.Interval, &p.Period, &start, &end,
		&p.IsReadonly, &p.CreatedAt, &p.LastEditedAt)
	if err != nil {
		return nil, err
	}
	if start != nil {
		d := models.NewDate(*start)
		p.StartDate = &d
	}
	if end != nil {
		d := models.NewDate(*end)
		p.EndDate = &d
	}
	return p, nil
}

func dateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

// Create inserts the portfolio row and its initial memberships as one unit.
// p.ID, p.CreatedAt and p.LastEditedAt are filled in on success.
func (r *PortfolioRepository) Create(ctx context.Context, store tenant.Store, p *models.Portfolio, tickers []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
		INSERT INTO %s (name, data_type, interval_str, period, start_date, end_date, is_readonly, created_at, last_edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, last_edited_at
	`, store.Table(tenant.TablePortfolios))
	err = tx.QueryRow(ctx, query, p.Name, p.DataType, p.Interval, p.Period,
		dateArg(p.StartDate), dateArg(p.EndDate), p.IsReadonly).
		Scan(&p.ID, &p.CreatedAt, &p.LastEditedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	memberQuery := fmt.Sprintf(`
		INSERT INTO %s (portfolio_id, ticker, added_at)
		SELECT $1, t, NOW() FROM unnest($2::text[]) AS t
		ON CONFLICT (portfolio_id, ticker) DO NOTHING
	`, store.Table(tenant.TablePortfolioStocks))
	if _, err := tx.Exec(ctx, memberQuery, p.ID, tickers); err != nil {
		return fmt.Errorf("failed to create memberships: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByName retrieves a portfolio by its unique name
func (r *PortfolioRepository) GetByName(ctx context.Context, store tenant.Store, name string) (*models.Portfolio, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE name = $1`, portfolioColumns, store.Table(tenant.TablePortfolios))
	p, err := scanPortfolio(r.pool.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPortfolioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return p, nil
}

// GetByID retrieves a portfolio by ID
func (r *PortfolioRepository) GetByID(ctx context.Context, store tenant.Store, id int64) (*models.Portfolio, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, portfolioColumns, store.Table(tenant.TablePortfolios))
	p, err := scanPortfolio(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPortfolioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return p, nil
}

// List returns every portfolio in the tenant, most recently edited first
func (r *PortfolioRepository) List(ctx context.Context, store tenant.Store) ([]models.PortfolioListItem, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.data_type, p.interval_str, p.is_readonly,
		       COUNT(s.ticker), p.created_at, p.last_edited_at
		FROM %s p
		LEFT JOIN %s s ON s.portfolio_id = p.id
		GROUP BY p.id
		ORDER BY COALESCE(p.last_edited_at, p.created_at) DESC, p.id DESC
	`, store.Table(tenant.TablePortfolios), store.Table(tenant.TablePortfolioStocks))
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := []models.PortfolioListItem{}
	for rows.Next() {
		var p models.PortfolioListItem
		if err := rows.Scan(&p.ID, &p.Name, &p.DataType, &p.Interval, &p.IsReadonly,
			&p.TickerCount, &p.CreatedAt, &p.LastEditedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// Summary returns metadata, the sorted ticker list and per-stock added_at
func (r *PortfolioRepository) Summary(ctx context.Context, store tenant.Store, id int64) (*models.PortfolioSummary, error) {
	p, err := r.GetByID(ctx, store, id)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT ticker, added_at FROM %s WHERE portfolio_id = $1 ORDER BY ticker
	`, store.Table(tenant.TablePortfolioStocks))
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	stocks, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.PortfolioStock])
	if err != nil {
		return nil, fmt.Errorf("failed to scan memberships: %w", err)
	}

	return BuildSummary(p, stocks), nil
}

// BuildSummary derives the summary view, including the permitted
// operations, from a portfolio and its memberships.
func BuildSummary(p *models.Portfolio, stocks []models.PortfolioStock) *models.PortfolioSummary {
	tickers := make([]string, 0, len(stocks))
	for _, s := range stocks {
		tickers = append(tickers, s.Ticker)
	}
	if stocks == nil {
		stocks = []models.PortfolioStock{}
	}
	return &models.PortfolioSummary{
		Portfolio:       *p,
		Tickers:         tickers,
		TickerCount:     len(tickers),
		Stocks:          stocks,
		CanAdd:          !p.IsReadonly,
		CanUpdateWindow: !p.IsReadonly && p.DataType == models.DataTypeInterday,
		CanRemove:       len(tickers) > 0,
	}
}

// lockPortfolio reads the mutability columns under a row lock
func lockPortfolio(ctx context.Context, tx pgx.Tx, store tenant.Store, id int64) (models.DataType, bool, error) {
	var dataType models.DataType
	var readonly bool
	query := fmt.Sprintf(`SELECT data_type, is_readonly FROM %s WHERE id = $1 FOR UPDATE`, store.Table(tenant.TablePortfolios))
	err := tx.QueryRow(ctx, query, id).Scan(&dataType, &readonly)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, ErrPortfolioNotFound
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to lock portfolio: %w", err)
	}
	return dataType, readonly, nil
}

func touch(ctx context.Context, tx pgx.Tx, store tenant.Store, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET last_edited_at = NOW() WHERE id = $1`, store.Table(tenant.TablePortfolios))
	if _, err := tx.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last_edited_at: %w", err)
	}
	return nil
}

// AddTickers adds memberships, skipping tickers already present. A
// read-only portfolio yields OutcomeRejectedReadonly and no change.
func (r *PortfolioRepository) AddTickers(ctx context.Context, store tenant.Store, id int64, tickers []string) (models.ChangeResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, readonly, err := lockPortfolio(ctx, tx, store, id)
	if err != nil {
		return models.ChangeResult{}, err
	}
	if readonly {
		return models.ChangeResult{Outcome: models.OutcomeRejectedReadonly}, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (portfolio_id, ticker, added_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (portfolio_id, ticker) DO NOTHING
	`, store.Table(tenant.TablePortfolioStocks))

	batch := &pgx.Batch{}
	for _, t := range tickers {
		batch.Queue(query, id, t)
	}
	br := tx.SendBatch(ctx, batch)

	result := models.ChangeResult{Outcome: models.OutcomeNoChange}
	for _, t := range tickers {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return models.ChangeResult{}, fmt.Errorf("failed to add ticker %s: %w", t, err)
		}
		if tag.RowsAffected() == 1 {
			result.Applied = append(result.Applied, t)
		} else {
			result.Skipped = append(result.Skipped, t)
		}
	}
	if err := br.Close(); err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to add tickers: %w", err)
	}

	result.Count = len(result.Applied)
	if result.Count > 0 {
		result.Outcome = models.OutcomeApplied
		if err := touch(ctx, tx, store, id); err != nil {
			return models.ChangeResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// RemoveTickers deletes memberships. Allowed on read-only portfolios;
// tickers that are not members are reported as skipped.
func (r *PortfolioRepository) RemoveTickers(ctx context.Context, store tenant.Store, id int64, tickers []string) (models.ChangeResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, _, err := lockPortfolio(ctx, tx, store, id); err != nil {
		return models.ChangeResult{}, err
	}

	query := fmt.Sprintf(`
		DELETE FROM %s WHERE portfolio_id = $1 AND ticker = ANY($2::text[])
		RETURNING ticker
	`, store.Table(tenant.TablePortfolioStocks))
	rows, err := tx.Query(ctx, query, id, tickers)
	if err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to remove tickers: %w", err)
	}
	removed, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to remove tickers: %w", err)
	}

	gone := make(map[string]struct{}, len(removed))
	for _, t := range removed {
		gone[t] = struct{}{}
	}
	result := models.ChangeResult{Outcome: models.OutcomeNoChange}
	for _, t := range tickers {
		if _, ok := gone[t]; ok {
			result.Applied = append(result.Applied, t)
		} else {
			result.Skipped = append(result.Skipped, t)
		}
	}
	result.Count = len(result.Applied)
	if result.Count > 0 {
		result.Outcome = models.OutcomeApplied
		if err := touch(ctx, tx, store, id); err != nil {
			return models.ChangeResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// UpdateWindow replaces the date window of a mutable interday portfolio.
// Read-only or intraday portfolios yield OutcomeRejectedReadonly.
func (r *PortfolioRepository) UpdateWindow(ctx context.Context, store tenant.Store, id int64, start, end time.Time) (models.ChangeResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	dataType, readonly, err := lockPortfolio(ctx, tx, store, id)
	if err != nil {
		return models.ChangeResult{}, err
	}
	if readonly || dataType != models.DataTypeInterday {
		return models.ChangeResult{Outcome: models.OutcomeRejectedReadonly}, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s SET start_date = $1, end_date = $2, last_edited_at = NOW()
		WHERE id = $3
	`, store.Table(tenant.TablePortfolios))
	if _, err := tx.Exec(ctx, query, start, end, id); err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to update window: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.ChangeResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return models.ChangeResult{Outcome: models.OutcomeApplied, Count: 1}, nil
}

// Delete deletes a portfolio; memberships go with it
func (r *PortfolioRepository) Delete(ctx context.Context, store tenant.Store, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, store.Table(tenant.TablePortfolios))
	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPortfolioNotFound
	}
	return tx.Commit(ctx)
}
