package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Provider fetches one ticker's history from an external source
type Provider interface {
	Name() string
	History(ctx context.Context, ticker string, req Request) ([]Row, error)
}

// Fetcher fans a Request out to a Provider, one call per ticker, with
// bounded concurrency.
type Fetcher struct {
	provider    Provider
	concurrency int
}

// NewFetcher creates a Fetcher running at most concurrency provider calls at once
func NewFetcher(provider Provider, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{provider: provider, concurrency: concurrency}
}

// Fetch returns a SingleSeries for a one-ticker request and a MultiSeries
// otherwise. It returns a *FetchError when no ticker produced rows.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (Series, error) {
	if err := req.Validate(); err != nil {
		return nil, &FetchError{Tickers: req.Tickers, Err: err}
	}
	started := time.Now()

	rows := make([][]Row, len(req.Tickers))
	errs := make([]error, len(req.Tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, ticker := range req.Tickers {
		g.Go(func() error {
			r, err := f.provider.History(gctx, ticker, req)
			if err == nil && len(r) == 0 {
				err = ErrNoData
			}
			if err != nil {
				errs[i] = err
				return nil
			}
			sortRows(r)
			rows[i] = r
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Tickers: req.Tickers, Err: err}
	}

	log.Debugf("%s fetch of %d tickers took %d ms", f.provider.Name(), len(req.Tickers), time.Since(started).Milliseconds())

	if len(req.Tickers) == 1 {
		if errs[0] != nil {
			return nil, &FetchError{Tickers: req.Tickers, Err: errs[0]}
		}
		return SingleSeries{Ticker: req.Tickers[0], Rows: rows[0]}, nil
	}

	multi := MultiSeries{
		Groups:   make(map[string]SingleSeries),
		Failures: make(map[string]error),
	}
	var all []error
	for i, ticker := range req.Tickers {
		if errs[i] != nil {
			multi.Failures[ticker] = errs[i]
			all = append(all, fmt.Errorf("%s: %w", ticker, errs[i]))
			continue
		}
		multi.Groups[ticker] = SingleSeries{Ticker: ticker, Rows: rows[i]}
	}
	if len(multi.Groups) == 0 {
		return nil, &FetchError{Tickers: req.Tickers, Err: errors.Join(all...)}
	}
	return multi, nil
}
