package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/epeers/watchlist/internal/marketdata"
	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/tenant"
	"github.com/epeers/watchlist/internal/validation"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// PointStore persists canonical points with insert-if-absent semantics
type PointStore interface {
	InsertIfAbsent(ctx context.Context, store tenant.Store, points []models.TimeSeriesPoint) (int, error)
}

// Engine maps provider rows onto TimeSeriesPoints and merges them into a
// tenant store without overwriting existing observations.
type Engine struct {
	points PointStore
}

// NewEngine creates a new Engine
func NewEngine(points PointStore) *Engine {
	return &Engine{points: points}
}

// Ingest stores rows for one ticker and returns how many were new.
// Re-ingesting the same rows inserts nothing.
func (e *Engine) Ingest(ctx context.Context, store tenant.Store, ticker, interval string, rows []marketdata.Row) (int, error) {
	points := Canonicalize(ticker, interval, rows)
	inserted, err := e.points.InsertIfAbsent(ctx, store, points)
	if err != nil {
		return 0, fmt.Errorf("failed to ingest %s: %w", ticker, err)
	}
	log.Debugf("ingest %s/%s: %d rows, %d new", store.Schema, ticker, len(points), inserted)
	return inserted, nil
}

// IngestSeries ingests every ticker in series independently. A failing
// ticker is reported in its outcome and never stops the others.
func (e *Engine) IngestSeries(ctx context.Context, store tenant.Store, interval string, series marketdata.Series) []models.IngestOutcome {
	switch s := series.(type) {
	case marketdata.SingleSeries:
		return []models.IngestOutcome{e.ingestOne(ctx, store, interval, s)}

	case marketdata.MultiSeries:
		outcomes := make([]models.IngestOutcome, 0, len(s.Groups)+len(s.Failures))
		for _, ticker := range s.Tickers() {
			outcomes = append(outcomes, e.ingestOne(ctx, store, interval, s.Groups[ticker]))
		}
		for ticker, err := range s.Failures {
			outcomes = append(outcomes, models.IngestOutcome{Ticker: ticker, Error: err.Error()})
		}
		sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Ticker < outcomes[j].Ticker })
		return outcomes
	}
	return nil
}

func (e *Engine) ingestOne(ctx context.Context, store tenant.Store, interval string, s marketdata.SingleSeries) models.IngestOutcome {
	out := models.IngestOutcome{Ticker: s.Ticker, Fetched: len(s.Rows)}
	n, err := e.Ingest(ctx, store, s.Ticker, interval, s.Rows)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Inserted = n
	return out
}

// Canonicalize rounds prices to cents, truncates volume to a whole number
// and, for daily-or-coarser intervals, pins each point to its UTC day.
func Canonicalize(ticker, interval string, rows []marketdata.Row) []models.TimeSeriesPoint {
	dataType, _, err := validation.ValidateInterval(interval)
	daily := err == nil && dataType == models.DataTypeInterday

	points := make([]models.TimeSeriesPoint, 0, len(rows))
	for _, r := range rows {
		at := r.Time.UTC()
		if daily {
			at = time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		}
		points = append(points, models.TimeSeriesPoint{
			Ticker:   ticker,
			Date:     at,
			Open:     round2(r.Open),
			High:     round2Ptr(r.High),
			Low:      round2Ptr(r.Low),
			Close:    round2(r.Close),
			AdjClose: round2Ptr(r.AdjClose),
			Volume:   decimal.NewFromFloat(r.Volume).IntPart(),
			Interval: interval,
		})
	}
	return points
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}
