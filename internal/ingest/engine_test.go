package ingest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/epeers/watchlist/internal/marketdata"
	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pointKey struct {
	schema string
	ticker string
	date   time.Time
}

// memPoints keeps the first point written for each key, like ON CONFLICT DO NOTHING
type memPoints struct {
	mu     sync.Mutex
	rows   map[pointKey]models.TimeSeriesPoint
	failOn string
}

func newMemPoints() *memPoints {
	return &memPoints{rows: map[pointKey]models.TimeSeriesPoint{}}
}

func (m *memPoints) InsertIfAbsent(ctx context.Context, store tenant.Store, points []models.TimeSeriesPoint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, p := range points {
		if p.Ticker == m.failOn {
			return 0, errors.New("disk full")
		}
		k := pointKey{store.Schema, p.Ticker, p.Date}
		if _, ok := m.rows[k]; ok {
			continue
		}
		m.rows[k] = p
		inserted++
	}
	return inserted, nil
}

func (m *memPoints) snapshot() []models.TimeSeriesPoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TimeSeriesPoint, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ticker != out[j].Ticker {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

var testStore = tenant.Store{Username: "alice", Schema: "user_alice"}

func f(v float64) *float64 { return &v }

func aaplRows() []marketdata.Row {
	return []marketdata.Row{
		{Time: time.Date(2023, 1, 2, 14, 30, 0, 0, time.UTC), Open: 130.2849, High: f(130.899), Low: f(124.17), Close: 125.0700001, Volume: 112117500.7},
		{Time: time.Date(2023, 1, 3, 14, 30, 0, 0, time.UTC), Open: 126.89, Close: 126.355, AdjClose: f(125.4999), Volume: 89113600},
	}
}

func TestIngest_IsIdempotent(t *testing.T) {
	mem := newMemPoints()
	e := NewEngine(mem)
	ctx := context.Background()

	n, err := e.Ingest(ctx, testStore, "AAPL", "1d", aaplRows())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	first := mem.snapshot()

	n, err = e.Ingest(ctx, testStore, "AAPL", "1d", aaplRows())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, first, mem.snapshot())
	assert.Len(t, mem.snapshot(), 2)
}

func TestIngest_ExistingRowsAreNotOverwritten(t *testing.T) {
	mem := newMemPoints()
	e := NewEngine(mem)
	ctx := context.Background()

	_, err := e.Ingest(ctx, testStore, "AAPL", "1d", aaplRows())
	require.NoError(t, err)

	revised := aaplRows()
	revised[0].Close = 999
	revised = append(revised, marketdata.Row{Time: time.Date(2023, 1, 4, 14, 30, 0, 0, time.UTC), Open: 127, Close: 128, Volume: 1})
	n, err := e.Ingest(ctx, testStore, "AAPL", "1d", revised)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 125.07, mem.snapshot()[0].Close)
}

func TestCanonicalize(t *testing.T) {
	points := Canonicalize("AAPL", "1d", aaplRows())
	require.Len(t, points, 2)

	p := points[0]
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, 130.28, p.Open)
	assert.Equal(t, 130.9, *p.High)
	assert.Equal(t, 125.07, p.Close)
	assert.Nil(t, p.AdjClose)
	assert.Equal(t, int64(112117500), p.Volume)
	assert.Equal(t, "1d", p.Interval)

	assert.Equal(t, 126.36, points[1].Close)
	assert.Equal(t, 125.5, *points[1].AdjClose)

	intraday := Canonicalize("AAPL", "5m", aaplRows())
	assert.Equal(t, time.Date(2023, 1, 2, 14, 30, 0, 0, time.UTC), intraday[0].Date)
}

func TestIngestSeries_BranchesOnShape(t *testing.T) {
	mem := newMemPoints()
	e := NewEngine(mem)
	ctx := context.Background()

	single := e.IngestSeries(ctx, testStore, "1d", marketdata.SingleSeries{Ticker: "AAPL", Rows: aaplRows()})
	require.Len(t, single, 1)
	assert.Equal(t, models.IngestOutcome{Ticker: "AAPL", Fetched: 2, Inserted: 2}, single[0])

	multi := marketdata.MultiSeries{
		Groups: map[string]marketdata.SingleSeries{
			"AAPL": {Ticker: "AAPL", Rows: aaplRows()},
			"MSFT": {Ticker: "MSFT", Rows: aaplRows()[:1]},
		},
		Failures: map[string]error{"BAD": marketdata.ErrNoData},
	}
	outcomes := e.IngestSeries(ctx, testStore, "1d", multi)
	require.Len(t, outcomes, 3)
	assert.Equal(t, "AAPL", outcomes[0].Ticker)
	assert.Equal(t, 0, outcomes[0].Inserted)
	assert.Equal(t, "BAD", outcomes[1].Ticker)
	assert.True(t, outcomes[1].Failed())
	assert.Equal(t, models.IngestOutcome{Ticker: "MSFT", Fetched: 1, Inserted: 1}, outcomes[2])
}

func TestIngestSeries_OneStoreFailureDoesNotAbortOthers(t *testing.T) {
	mem := newMemPoints()
	mem.failOn = "MSFT"
	e := NewEngine(mem)

	outcomes := e.IngestSeries(context.Background(), testStore, "1d", marketdata.MultiSeries{
		Groups: map[string]marketdata.SingleSeries{
			"AAPL": {Ticker: "AAPL", Rows: aaplRows()},
			"MSFT": {Ticker: "MSFT", Rows: aaplRows()},
		},
	})
	require.Len(t, outcomes, 2)
	assert.Equal(t, 2, outcomes[0].Inserted)
	assert.Contains(t, outcomes[1].Error, "disk full")
}
