package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/epeers/watchlist/internal/marketdata"
	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/repository"
	"github.com/epeers/watchlist/internal/tenant"
	"github.com/epeers/watchlist/internal/util"
	"github.com/epeers/watchlist/internal/validation"
	log "github.com/sirupsen/logrus"
)

var (
	ErrPortfolioNotFound    = errors.New("portfolio not found")
	ErrDuplicateName        = errors.New("portfolio with same name already exists")
	ErrTickerNotInPortfolio = errors.New("ticker is not a member of this portfolio")
)

// TenantProvisioner yields a migrated tenant store for a user
type TenantProvisioner interface {
	EnsureTenant(ctx context.Context, username string) (tenant.Store, error)
}

// PortfolioStore is the persistence the lifecycle needs
type PortfolioStore interface {
	Create(ctx context.Context, store tenant.Store, p *models.Portfolio, tickers []string) error
	GetByName(ctx context.Context, store tenant.Store, name string) (*models.Portfolio, error)
	List(ctx context.Context, store tenant.Store) ([]models.PortfolioListItem, error)
	Summary(ctx context.Context, store tenant.Store, id int64) (*models.PortfolioSummary, error)
	AddTickers(ctx context.Context, store tenant.Store, id int64, tickers []string) (models.ChangeResult, error)
	RemoveTickers(ctx context.Context, store tenant.Store, id int64, tickers []string) (models.ChangeResult, error)
	UpdateWindow(ctx context.Context, store tenant.Store, id int64, start, end time.Time) (models.ChangeResult, error)
	Delete(ctx context.Context, store tenant.Store, id int64) error
}

// PointReader reads cached points
type PointReader interface {
	GetPoints(ctx context.Context, store tenant.Store, ticker, interval string, from, to time.Time, limit int) ([]models.TimeSeriesPoint, error)
	TickerStats(ctx context.Context, store tenant.Store, tickers []string, interval string) ([]models.TickerStats, error)
}

// SeriesFetcher pulls history from the market data provider
type SeriesFetcher interface {
	Fetch(ctx context.Context, req marketdata.Request) (marketdata.Series, error)
}

// SeriesIngester merges fetched series into a tenant store
type SeriesIngester interface {
	IngestSeries(ctx context.Context, store tenant.Store, interval string, series marketdata.Series) []models.IngestOutcome
}

// PortfolioService drives the portfolio lifecycle: creation, membership and
// window changes, refreshes and reads. Intraday portfolios are read-only
// from creation; only ticker removal and deletion apply to them.
type PortfolioService struct {
	tenants    TenantProvisioner
	portfolios PortfolioStore
	points     PointReader
	fetcher    SeriesFetcher
	ingester   SeriesIngester
	now        func() time.Time
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(tenants TenantProvisioner, portfolios PortfolioStore, points PointReader, fetcher SeriesFetcher, ingester SeriesIngester) *PortfolioService {
	return &PortfolioService{
		tenants:    tenants,
		portfolios: portfolios,
		points:     points,
		fetcher:    fetcher,
		ingester:   ingester,
		now:        time.Now,
	}
}

// WithClock replaces the service clock; used by tests
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

func (s *PortfolioService) today() time.Time {
	return models.NewDate(s.now()).Time
}

// newPortfolio validates a create request into a Portfolio and its ticker
// set. Nothing here touches the store or the network.
func (s *PortfolioService) newPortfolio(ctx context.Context, req *models.CreatePortfolioRequest) (*models.Portfolio, []string, error) {
	name, err := validation.ValidatePortfolioName(req.Name)
	if err != nil {
		return nil, nil, err
	}
	tickers, err := validation.ValidateTickers(req.Tickers)
	if err != nil {
		return nil, nil, err
	}
	dataType, interval, err := validation.ValidateInterval(req.Interval)
	if err != nil {
		return nil, nil, err
	}

	p := &models.Portfolio{Name: name, DataType: dataType, Interval: interval}

	switch dataType {
	case models.DataTypeIntraday:
		if req.StartDate != "" || req.EndDate != "" {
			return nil, nil, &validation.ValidationError{Field: "window", Message: "intraday portfolios take a period, not start/end dates"}
		}
		if req.Period == "" {
			return nil, nil, &validation.ValidationError{Field: "period", Message: "intraday portfolios require a period"}
		}
		period, err := validation.ValidatePeriod(req.Period)
		if err != nil {
			return nil, nil, err
		}
		p.Period = &period
		p.IsReadonly = true

	case models.DataTypeInterday:
		if req.Period != "" {
			return nil, nil, &validation.ValidationError{Field: "window", Message: "interday portfolios take start/end dates, not a period"}
		}
		if req.StartDate == "" {
			return nil, nil, &validation.ValidationError{Field: "start_date", Message: "interday portfolios require a start date"}
		}
		start, err := validation.ValidateDate(req.StartDate)
		if err != nil {
			return nil, nil, err
		}
		end := s.today()
		if req.EndDate != "" {
			if end, err = validation.ValidateDate(req.EndDate); err != nil {
				return nil, nil, err
			}
		} else {
			Warnf(ctx, models.WarnEndDateDefaulted, "end date not given, using %s", end.Format(validation.DateLayout))
		}
		if err := validation.ValidateWindow(start, end, s.now()); err != nil {
			return nil, nil, err
		}
		sd, ed := models.NewDate(start), models.NewDate(end)
		p.StartDate, p.EndDate = &sd, &ed
	}
	return p, tickers, nil
}

// CreatePortfolio validates, persists the portfolio with its tickers, then
// fetches and ingests its window. A failed fetch leaves the portfolio in
// place and is reported as a warning.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, username string, req *models.CreatePortfolioRequest) (*models.PortfolioSummary, []models.IngestOutcome, error) {
	defer TrackTime("CreatePortfolio", time.Now())

	p, tickers, err := s.newPortfolio(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	store, err := s.tenants.EnsureTenant(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	if err := s.portfolios.Create(ctx, store, p, tickers); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, nil, ErrDuplicateName
		}
		return nil, nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	outcomes := s.fetchAndIngest(ctx, store, p, tickers)

	summary, err := s.portfolios.Summary(ctx, store, p.ID)
	if err != nil {
		return nil, outcomes, fmt.Errorf("failed to load portfolio summary: %w", err)
	}
	return summary, outcomes, nil
}

// ListPortfolios returns the user's portfolios, most recently edited first
func (s *PortfolioService) ListPortfolios(ctx context.Context, username string) ([]models.PortfolioListItem, error) {
	store, err := s.tenants.EnsureTenant(ctx, username)
	if err != nil {
		return nil, err
	}
	list, err := s.portfolios.List(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	return list, nil
}

// GetSummary returns metadata, membership and permitted operations
func (s *PortfolioService) GetSummary(ctx context.Context, username, name string) (*models.PortfolioSummary, error) {
	store, p, err := s.lookup(ctx, username, name)
	if err != nil {
		return nil, err
	}
	return s.summary(ctx, store, p.ID)
}

// AddTickers adds members to a mutable portfolio. On a read-only portfolio
// it returns OutcomeRejectedReadonly before looking at the tickers at all.
func (s *PortfolioService) AddTickers(ctx context.Context, username, name string, tickers []string) (models.ChangeResult, error) {
	store, p, err := s.lookup(ctx, username, name)
	if err != nil {
		return models.ChangeResult{}, err
	}
	if p.IsReadonly {
		Warnf(ctx, models.WarnReadonlyPortfolio, "portfolio %q is read-only; tickers cannot be added", p.Name)
		return models.ChangeResult{Outcome: models.OutcomeRejectedReadonly}, nil
	}

	valid, err := validation.ValidateTickers(tickers)
	if err != nil {
		return models.ChangeResult{}, err
	}

	result, err := s.portfolios.AddTickers(ctx, store, p.ID, valid)
	if err != nil {
		return models.ChangeResult{}, s.mapErr(err, "add tickers")
	}
	if result.Rejected() {
		Warnf(ctx, models.WarnReadonlyPortfolio, "portfolio %q is read-only; tickers cannot be added", p.Name)
	}
	for _, t := range result.Skipped {
		Warnf(ctx, models.WarnDuplicateSkipped, "%s is already in %q", t, p.Name)
	}
	return result, nil
}

// RemoveTickers drops members; permitted on read-only portfolios too.
// Tickers that are not members are reported, not treated as errors.
func (s *PortfolioService) RemoveTickers(ctx context.Context, username, name string, tickers []string) (models.ChangeResult, error) {
	valid, err := validation.ValidateTickers(tickers)
	if err != nil {
		return models.ChangeResult{}, err
	}

	store, p, err := s.lookup(ctx, username, name)
	if err != nil {
		return models.ChangeResult{}, err
	}

	result, err := s.portfolios.RemoveTickers(ctx, store, p.ID, valid)
	if err != nil {
		return models.ChangeResult{}, s.mapErr(err, "remove tickers")
	}
	for _, t := range result.Skipped {
		Warnf(ctx, models.WarnTickerNotPresent, "%s is not in %q", t, p.Name)
	}
	return result, nil
}

// UpdateWindow moves an interday portfolio's date window and re-ingests it.
// The new window is kept even if the refresh fails.
func (s *PortfolioService) UpdateWindow(ctx context.Context, username, name, startDate, endDate string) (models.ChangeResult, []models.IngestOutcome, error) {
	start, err := validation.ValidateDate(startDate)
	if err != nil {
		return models.ChangeResult{}, nil, err
	}
	end, err := validation.ValidateDate(endDate)
	if err != nil {
		return models.ChangeResult{}, nil, err
	}
	if err := validation.ValidateWindow(start, end, s.now()); err != nil {
		return models.ChangeResult{}, nil, err
	}

	store, p, err := s.lookup(ctx, username, name)
	if err != nil {
		return models.ChangeResult{}, nil, err
	}
	if p.IsReadonly || p.DataType != models.DataTypeInterday {
		Warnf(ctx, models.WarnReadonlyPortfolio, "portfolio %q is read-only; its window cannot change", p.Name)
		return models.ChangeResult{Outcome: models.OutcomeRejectedReadonly}, nil, nil
	}

	result, err := s.portfolios.UpdateWindow(ctx, store, p.ID, start, end)
	if err != nil {
		return models.ChangeResult{}, nil, s.mapErr(err, "update window")
	}
	if result.Rejected() {
		Warnf(ctx, models.WarnReadonlyPortfolio, "portfolio %q is read-only; its window cannot change", p.Name)
		return result, nil, nil
	}

	sd, ed := models.NewDate(start), models.NewDate(end)
	p.StartDate, p.EndDate = &sd, &ed
	summary, err := s.summary(ctx, store, p.ID)
	if err != nil {
		return result, nil, err
	}
	return result, s.fetchAndIngest(ctx, store, p, summary.Tickers), nil
}

// RefreshPortfolio fetches the portfolio's current window for every member
// and ingests whatever is new.
func (s *PortfolioService) RefreshPortfolio(ctx context.Context, username, name string) ([]models.IngestOutcome, error) {
	defer TrackTime("RefreshPortfolio", time.Now())

	store, p, err := s.lookup(ctx, username, name)
	if err != nil {
		return nil, err
	}
	summary, err := s.summary(ctx, store, p.ID)
	if err != nil {
		return nil, err
	}
	if len(summary.Tickers) == 0 {
		return []models.IngestOutcome{}, nil
	}
	return s.fetchAndIngest(ctx, store, p, summary.Tickers), nil
}

// TickerStats summarizes cached points at the portfolio's interval for each
// member ticker
func (s *PortfolioService) TickerStats(ctx context.Context, username, name string) ([]models.TickerStats, error) {
	store, p, err := s.lookup(ctx, username, name)
	if err != nil {
		return nil, err
	}
	summary, err := s.summary(ctx, store, p.ID)
	if err != nil {
		return nil, err
	}
	if len(summary.Tickers) == 0 {
		return []models.TickerStats{}, nil
	}
	stats, err := s.points.TickerStats(ctx, store, summary.Tickers, p.Interval)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticker stats: %w", err)
	}
	return stats, nil
}

// GetSeries returns cached points for one member ticker at the portfolio's
// interval and within its window, newest first.
func (s *PortfolioService) GetSeries(ctx context.Context, username, name, ticker string, limit int) ([]models.TimeSeriesPoint, error) {
	t, err := validation.ValidateTicker(ticker)
	if err != nil {
		return nil, err
	}

	store, p, err := s.lookup(ctx, username, name)
	if err != nil {
		return nil, err
	}
	summary, err := s.summary(ctx, store, p.ID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(summary.Tickers, t) {
		return nil, ErrTickerNotInPortfolio
	}

	from, to := s.readWindow(p)
	points, err := s.points.GetPoints(ctx, store, t, p.Interval, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	return points, nil
}

// DeletePortfolio removes the portfolio and its memberships. Cached points
// stay in the tenant store.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, username, name string) error {
	store, p, err := s.lookup(ctx, username, name)
	if err != nil {
		return err
	}
	if err := s.portfolios.Delete(ctx, store, p.ID); err != nil {
		return s.mapErr(err, "delete portfolio")
	}
	return nil
}

func (s *PortfolioService) lookup(ctx context.Context, username, name string) (tenant.Store, *models.Portfolio, error) {
	store, err := s.tenants.EnsureTenant(ctx, username)
	if err != nil {
		return tenant.Store{}, nil, err
	}
	p, err := s.portfolios.GetByName(ctx, store, name)
	if err != nil {
		return tenant.Store{}, nil, s.mapErr(err, "get portfolio")
	}
	return store, p, nil
}

func (s *PortfolioService) summary(ctx context.Context, store tenant.Store, id int64) (*models.PortfolioSummary, error) {
	summary, err := s.portfolios.Summary(ctx, store, id)
	if err != nil {
		return nil, s.mapErr(err, "get portfolio summary")
	}
	return summary, nil
}

func (s *PortfolioService) mapErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrPortfolioNotFound):
		return ErrPortfolioNotFound
	case errors.Is(err, repository.ErrDuplicateName):
		return ErrDuplicateName
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// readWindow bounds reads to the portfolio's window as a half-open range
func (s *PortfolioService) readWindow(p *models.Portfolio) (time.Time, time.Time) {
	if start, end, ok := p.Window(); ok {
		return start, end.AddDate(0, 0, 1)
	}
	if p.Period != nil {
		return validation.PeriodStart(*p.Period, s.now()), time.Time{}
	}
	return time.Time{}, time.Time{}
}

func (s *PortfolioService) request(p *models.Portfolio, tickers []string) marketdata.Request {
	req := marketdata.Request{Tickers: tickers, DataType: p.DataType, Interval: p.Interval}
	if p.Period != nil {
		req.Period = *p.Period
	}
	if start, end, ok := p.Window(); ok {
		req.Start, req.End = start, end
	}
	return req
}

// fetchAndIngest never fails: fetch and ingest problems become warnings and
// per-ticker outcomes.
func (s *PortfolioService) fetchAndIngest(ctx context.Context, store tenant.Store, p *models.Portfolio, tickers []string) []models.IngestOutcome {
	series, err := s.fetcher.Fetch(ctx, s.request(p, tickers))
	if err != nil {
		Warnf(ctx, models.WarnFetchFailed, "no market data for %q: %v", p.Name, err)
		outcomes := make([]models.IngestOutcome, 0, len(tickers))
		for _, t := range tickers {
			outcomes = append(outcomes, models.IngestOutcome{Ticker: t, Error: err.Error()})
		}
		return outcomes
	}

	outcomes := s.ingester.IngestSeries(ctx, store, p.Interval, s.finalBars(series, p.Interval))
	for _, o := range outcomes {
		if !o.Failed() {
			continue
		}
		if o.Fetched > 0 {
			Warnf(ctx, models.WarnIngestFailed, "%s: fetched %d rows but could not store them: %s", o.Ticker, o.Fetched, o.Error)
		} else {
			Warnf(ctx, models.WarnTickerFetchFailed, "%s: %s", o.Ticker, o.Error)
		}
	}
	return outcomes
}

// finalBars drops bars whose session has not closed yet. Stored points are
// never overwritten, so a partial bar would stick; the next refresh after
// the close picks it up.
func (s *PortfolioService) finalBars(series marketdata.Series, interval string) marketdata.Series {
	now := s.now()
	trim := func(in marketdata.SingleSeries) marketdata.SingleSeries {
		rows := make([]marketdata.Row, 0, len(in.Rows))
		for _, r := range in.Rows {
			if util.BarFinal(r.Time, interval, now) {
				rows = append(rows, r)
			}
		}
		if dropped := len(in.Rows) - len(rows); dropped > 0 {
			log.Debugf("%s: holding back %d unfinished %s bars", in.Ticker, dropped, interval)
		}
		return marketdata.SingleSeries{Ticker: in.Ticker, Rows: rows}
	}

	switch v := series.(type) {
	case marketdata.SingleSeries:
		return trim(v)
	case marketdata.MultiSeries:
		groups := make(map[string]marketdata.SingleSeries, len(v.Groups))
		for t, g := range v.Groups {
			groups[t] = trim(g)
		}
		return marketdata.MultiSeries{Groups: groups, Failures: v.Failures}
	}
	return series
}
