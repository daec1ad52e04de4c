package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/epeers/watchlist/internal/marketdata"
	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/repository"
	"github.com/epeers/watchlist/internal/tenant"
)

type fakeTenants struct {
	naming  tenant.Naming
	created map[string]bool
	calls   int
	err     error
}

func newFakeTenants() *fakeTenants {
	return &fakeTenants{naming: tenant.Naming{Prefix: "user_"}, created: map[string]bool{}}
}

func (f *fakeTenants) EnsureTenant(ctx context.Context, username string) (tenant.Store, error) {
	f.calls++
	if f.err != nil {
		return tenant.Store{}, f.err
	}
	s, err := f.naming.StoreFor(username)
	if err != nil {
		return tenant.Store{}, err
	}
	f.created[s.Username] = true
	return s, nil
}

func (f *fakeTenants) Exists(ctx context.Context, username string) (bool, error) {
	return f.created[username], nil
}

type fakePortfolios struct {
	mu      sync.Mutex
	nextID  int64
	byName  map[string]*models.Portfolio
	members map[int64]map[string]time.Time
	writes  int
}

func newFakePortfolios() *fakePortfolios {
	return &fakePortfolios{byName: map[string]*models.Portfolio{}, members: map[int64]map[string]time.Time{}}
}

func (f *fakePortfolios) Create(ctx context.Context, store tenant.Store, p *models.Portfolio, tickers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[p.Name]; ok {
		return repository.ErrDuplicateName
	}
	f.writes++
	f.nextID++
	now := time.Now()
	p.ID, p.CreatedAt, p.LastEditedAt = f.nextID, now, &now
	cp := *p
	f.byName[p.Name] = &cp
	f.members[p.ID] = map[string]time.Time{}
	for _, t := range tickers {
		f.members[p.ID][t] = now
	}
	return nil
}

func (f *fakePortfolios) byID(id int64) *models.Portfolio {
	for _, p := range f.byName {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *fakePortfolios) GetByName(ctx context.Context, store tenant.Store, name string) (*models.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byName[name]
	if !ok {
		return nil, repository.ErrPortfolioNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePortfolios) List(ctx context.Context, store tenant.Store) ([]models.PortfolioListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.PortfolioListItem{}
	for _, p := range f.byName {
		out = append(out, models.PortfolioListItem{ID: p.ID, Name: p.Name, DataType: p.DataType,
			Interval: p.Interval, IsReadonly: p.IsReadonly, TickerCount: len(f.members[p.ID]),
			CreatedAt: p.CreatedAt, LastEditedAt: p.LastEditedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastEditedAt.After(*out[j].LastEditedAt) })
	return out, nil
}

func (f *fakePortfolios) Summary(ctx context.Context, store tenant.Store, id int64) (*models.PortfolioSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.byID(id)
	if p == nil {
		return nil, repository.ErrPortfolioNotFound
	}
	var stocks []models.PortfolioStock
	for t, at := range f.members[id] {
		stocks = append(stocks, models.PortfolioStock{Ticker: t, AddedAt: at})
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Ticker < stocks[j].Ticker })
	return repository.BuildSummary(p, stocks), nil
}

func (f *fakePortfolios) AddTickers(ctx context.Context, store tenant.Store, id int64, tickers []string) (models.ChangeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.byID(id)
	if p == nil {
		return models.ChangeResult{}, repository.ErrPortfolioNotFound
	}
	if p.IsReadonly {
		return models.ChangeResult{Outcome: models.OutcomeRejectedReadonly}, nil
	}
	res := models.ChangeResult{Outcome: models.OutcomeNoChange}
	for _, t := range tickers {
		if _, ok := f.members[id][t]; ok {
			res.Skipped = append(res.Skipped, t)
			continue
		}
		f.members[id][t] = time.Now()
		res.Applied = append(res.Applied, t)
	}
	res.Count = len(res.Applied)
	if res.Count > 0 {
		res.Outcome = models.OutcomeApplied
		f.writes++
	}
	return res, nil
}

func (f *fakePortfolios) RemoveTickers(ctx context.Context, store tenant.Store, id int64, tickers []string) (models.ChangeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byID(id) == nil {
		return models.ChangeResult{}, repository.ErrPortfolioNotFound
	}
	res := models.ChangeResult{Outcome: models.OutcomeNoChange}
	for _, t := range tickers {
		if _, ok := f.members[id][t]; !ok {
			res.Skipped = append(res.Skipped, t)
			continue
		}
		delete(f.members[id], t)
		res.Applied = append(res.Applied, t)
	}
	res.Count = len(res.Applied)
	if res.Count > 0 {
		res.Outcome = models.OutcomeApplied
		f.writes++
	}
	return res, nil
}

func (f *fakePortfolios) UpdateWindow(ctx context.Context, store tenant.Store, id int64, start, end time.Time) (models.ChangeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.byID(id)
	if p == nil {
		return models.ChangeResult{}, repository.ErrPortfolioNotFound
	}
	if p.IsReadonly || p.DataType != models.DataTypeInterday {
		return models.ChangeResult{Outcome: models.OutcomeRejectedReadonly}, nil
	}
	sd, ed := models.NewDate(start), models.NewDate(end)
	p.StartDate, p.EndDate = &sd, &ed
	f.writes++
	return models.ChangeResult{Outcome: models.OutcomeApplied, Count: 1}, nil
}

func (f *fakePortfolios) Delete(ctx context.Context, store tenant.Store, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.byID(id)
	if p == nil {
		return repository.ErrPortfolioNotFound
	}
	delete(f.byName, p.Name)
	delete(f.members, id)
	f.writes++
	return nil
}

func (f *fakePortfolios) tickers(name string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byName[name]
	if !ok {
		return nil
	}
	out := []string{}
	for t := range f.members[p.ID] {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

type fakePoints struct {
	mu     sync.Mutex
	points map[string][]models.TimeSeriesPoint
}

func newFakePoints() *fakePoints {
	return &fakePoints{points: map[string][]models.TimeSeriesPoint{}}
}

func (f *fakePoints) InsertIfAbsent(ctx context.Context, store tenant.Store, points []models.TimeSeriesPoint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
outer:
	for _, p := range points {
		for _, existing := range f.points[p.Ticker] {
			if existing.Date.Equal(p.Date) {
				continue outer
			}
		}
		f.points[p.Ticker] = append(f.points[p.Ticker], p)
		n++
	}
	return n, nil
}

func (f *fakePoints) GetPoints(ctx context.Context, store tenant.Store, ticker, interval string, from, to time.Time, limit int) ([]models.TimeSeriesPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.TimeSeriesPoint{}
	for _, p := range f.points[ticker] {
		if interval != "" && p.Interval != interval {
			continue
		}
		if (!from.IsZero() && p.Date.Before(from)) || (!to.IsZero() && !p.Date.Before(to)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePoints) TickerStats(ctx context.Context, store tenant.Store, tickers []string, interval string) ([]models.TickerStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.TickerStats, 0, len(tickers))
	for _, t := range tickers {
		var n int64
		for _, p := range f.points[t] {
			if interval == "" || p.Interval == interval {
				n++
			}
		}
		out = append(out, models.TickerStats{Ticker: t, Points: n})
	}
	return out, nil
}

type fakeFetcher struct {
	mu       sync.Mutex
	rows     map[string][]marketdata.Row
	err      error
	requests []marketdata.Request
}

func (f *fakeFetcher) Fetch(ctx context.Context, req marketdata.Request) (marketdata.Series, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(req.Tickers) == 1 {
		rows, ok := f.rows[req.Tickers[0]]
		if !ok {
			return nil, &marketdata.FetchError{Tickers: req.Tickers, Err: marketdata.ErrNoData}
		}
		return marketdata.SingleSeries{Ticker: req.Tickers[0], Rows: rows}, nil
	}
	multi := marketdata.MultiSeries{Groups: map[string]marketdata.SingleSeries{}, Failures: map[string]error{}}
	for _, t := range req.Tickers {
		if rows, ok := f.rows[t]; ok {
			multi.Groups[t] = marketdata.SingleSeries{Ticker: t, Rows: rows}
		} else {
			multi.Failures[t] = marketdata.ErrNoData
		}
	}
	if len(multi.Groups) == 0 {
		return nil, &marketdata.FetchError{Tickers: req.Tickers, Err: marketdata.ErrNoData}
	}
	return multi, nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeUsers struct {
	users map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, store tenant.Store, username, hash string) (*models.User, error) {
	if _, ok := f.users[store.Schema]; ok {
		return nil, repository.ErrUserExists
	}
	u := &models.User{ID: int64(len(f.users) + 1), Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	f.users[store.Schema] = u
	return u, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, store tenant.Store, username string) (*models.User, error) {
	u, ok := f.users[store.Schema]
	if !ok || u.Username != username {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) TouchLastLogin(ctx context.Context, store tenant.Store, id int64) (time.Time, error) {
	u, ok := f.users[store.Schema]
	if !ok {
		return time.Time{}, repository.ErrUserNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return now, nil
}
