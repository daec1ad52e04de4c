// Package app wires configuration, storage, market data and services
// together for the server and the admin CLI.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/epeers/watchlist/config"
	"github.com/epeers/watchlist/internal/alphavantage"
	"github.com/epeers/watchlist/internal/database"
	"github.com/epeers/watchlist/internal/ingest"
	"github.com/epeers/watchlist/internal/marketdata"
	"github.com/epeers/watchlist/internal/marketdata/yahoo"
	"github.com/epeers/watchlist/internal/repository"
	"github.com/epeers/watchlist/internal/services"
	"github.com/epeers/watchlist/internal/tenant"
	log "github.com/sirupsen/logrus"
)

// App holds the long-lived components built from one Config
type App struct {
	Config     *config.Config
	DB         *database.DB
	Tenants    *tenant.Provisioner
	Portfolios *services.PortfolioService
	Auth       *services.AuthService
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logger
func ConfigureLogging(cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// NewProvider returns the market data provider selected by MARKET_PROVIDER
func NewProvider(cfg *config.Config) (marketdata.Provider, error) {
	switch cfg.MarketProvider {
	case config.ProviderYahoo:
		return yahoo.NewProvider(nil, cfg.YahooBaseURL), nil
	case config.ProviderAlphaVantage:
		return alphavantage.NewClient(cfg.AVKey), nil
	}
	return nil, fmt.Errorf("unknown market provider %q", cfg.MarketProvider)
}

// New connects to Postgres and builds the services
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	tenants := tenant.NewProvisioner(db.Pool, cfg.TenantPrefix)
	portfolioRepo := repository.NewPortfolioRepository(db.Pool)
	pointsRepo := repository.NewTimeSeriesRepository(db.Pool)
	userRepo := repository.NewUserRepository(db.Pool)

	// Initialize market data
	fetcher := marketdata.NewFetcher(provider, cfg.FetchConcurrency)
	engine := ingest.NewEngine(pointsRepo)

	log.WithFields(log.Fields{
		"provider":    provider.Name(),
		"concurrency": cfg.FetchConcurrency,
		"prefix":      cfg.TenantPrefix,
	}).Info("initialized")

	return &App{
		Config:     cfg,
		DB:         db,
		Tenants:    tenants,
		Portfolios: services.NewPortfolioService(tenants, portfolioRepo, pointsRepo, fetcher, engine),
		Auth:       services.NewAuthService(tenants, userRepo),
	}, nil
}

// Close releases the connection pool
func (a *App) Close() {
	a.DB.Close()
}
