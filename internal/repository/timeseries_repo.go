package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/tenant"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TimeSeriesRepository stores cached OHLCV points per tenant. Points are
// keyed by (ticker, date) and shared by every portfolio in the tenant.
type TimeSeriesRepository struct {
	pool *pgxpool.Pool
}

// NewTimeSeriesRepository creates a new TimeSeriesRepository
func NewTimeSeriesRepository(pool *pgxpool.Pool) *TimeSeriesRepository {
	return &TimeSeriesRepository{pool: pool}
}

// InsertIfAbsent stores points whose (ticker, date) is not yet cached and
// leaves existing rows untouched. It returns how many rows were inserted.
func (r *TimeSeriesRepository) InsertIfAbsent(ctx context.Context, store tenant.Store, points []models.TimeSeriesPoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (ticker, date, open, high, low, close, adj_close, volume, interval_str, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (ticker, date) DO NOTHING
	`, store.Table(tenant.TableTimeSeries))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(query, p.Ticker, p.Date, p.Open, p.High, p.Low, p.Close, p.AdjClose, p.Volume, p.Interval)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for range points {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, fmt.Errorf("failed to insert point: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to insert points: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

// GetPoints returns cached points of one interval for ticker in [from, to),
// newest first. An empty interval matches every interval. A zero from or to
// leaves that side open; limit <= 0 means no limit.
func (r *TimeSeriesRepository) GetPoints(ctx context.Context, store tenant.Store, ticker, interval string, from, to time.Time, limit int) ([]models.TimeSeriesPoint, error) {
	query := fmt.Sprintf(`
		SELECT ticker, date, open::float8, high::float8, low::float8, close::float8,
		       adj_close::float8, volume, COALESCE(interval_str, ''), created_at
		FROM %s
		WHERE ticker = $1
		  AND ($2 = '' OR interval_str = $2)
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date < $4)
		ORDER BY date DESC
		LIMIT NULLIF($5, 0)
	`, store.Table(tenant.TableTimeSeries))

	rows, err := r.pool.Query(ctx, query, ticker, interval, nullableTime(from), nullableTime(to), max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	points := []models.TimeSeriesPoint{}
	for rows.Next() {
		var p models.TimeSeriesPoint
		if err := rows.Scan(&p.Ticker, &p.Date, &p.Open, &p.High, &p.Low, &p.Close,
			&p.AdjClose, &p.Volume, &p.Interval, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// CountPoints returns how many points are cached for ticker
func (r *TimeSeriesRepository) CountPoints(ctx context.Context, store tenant.Store, ticker string) (int64, error) {
	var n int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ticker = $1`, store.Table(tenant.TableTimeSeries))
	if err := r.pool.QueryRow(ctx, query, ticker).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return n, nil
}

// TickerStats summarizes the cached points of each ticker at one interval
// (empty matches all). Tickers without points are reported with a zero count.
func (r *TimeSeriesRepository) TickerStats(ctx context.Context, store tenant.Store, tickers []string, interval string) ([]models.TickerStats, error) {
	query := fmt.Sprintf(`
		SELECT t.ticker, MIN(ts.date), MAX(ts.date), COUNT(ts.date),
		       ROUND(AVG(ts.close), 2)::float8, MIN(ts.close)::float8, MAX(ts.close)::float8
		FROM unnest($1::text[]) AS t(ticker)
		LEFT JOIN %s ts ON ts.ticker = t.ticker AND ($2 = '' OR ts.interval_str = $2)
		GROUP BY t.ticker
		ORDER BY t.ticker
	`, store.Table(tenant.TableTimeSeries))

	rows, err := r.pool.Query(ctx, query, tickers, interval)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticker stats: %w", err)
	}
	stats, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.TickerStats])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticker stats: %w", err)
	}
	return stats, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
