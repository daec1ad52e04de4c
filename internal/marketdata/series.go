package marketdata

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/epeers/watchlist/internal/models"
)

// ErrNoData is returned when a provider has no rows for a ticker and window
var ErrNoData = errors.New("no data returned")

// Request is a ticker set plus a resolved fetch policy. Intraday requests
// carry Period; interday requests carry Start and End (both inclusive days).
type Request struct {
	Tickers  []string
	DataType models.DataType
	Interval string
	Period   string
	Start    time.Time
	End      time.Time
}

// Validate checks the request carries the window its data type needs
func (r Request) Validate() error {
	if len(r.Tickers) == 0 {
		return errors.New("no tickers requested")
	}
	if r.Interval == "" {
		return errors.New("interval is required")
	}
	switch r.DataType {
	case models.DataTypeIntraday:
		if r.Period == "" {
			return errors.New("intraday requests need a period")
		}
	case models.DataTypeInterday:
		if r.Start.IsZero() || r.End.IsZero() {
			return errors.New("interday requests need start and end dates")
		}
	default:
		return fmt.Errorf("unknown data type %q", r.DataType)
	}
	return nil
}

// Row is one provider observation. High, Low and AdjClose may be absent.
type Row struct {
	Time     time.Time
	Open     float64
	High     *float64
	Low      *float64
	Close    float64
	AdjClose *float64
	Volume   float64
}

// Series is either a SingleSeries or a MultiSeries
type Series interface {
	// Tickers lists the tickers that produced rows
	Tickers() []string
	series()
}

// SingleSeries holds one ticker's rows ordered by time
type SingleSeries struct {
	Ticker string
	Rows   []Row
}

func (s SingleSeries) Tickers() []string { return []string{s.Ticker} }
func (SingleSeries) series()             {}

// MultiSeries holds one SingleSeries per ticker that returned rows, plus the
// tickers that failed and why.
type MultiSeries struct {
	Groups   map[string]SingleSeries
	Failures map[string]error
}

func (m MultiSeries) Tickers() []string {
	out := make([]string, 0, len(m.Groups))
	for t := range m.Groups {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (MultiSeries) series() {}

// FetchError means the request produced no usable rows at all
type FetchError struct {
	Tickers []string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for %s: %v", strings.Join(e.Tickers, ", "), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })
}
