package models

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is returned after a tenant store and its user are created
type RegisterResponse struct {
	Username string `json:"username"`
	Tenant   string `json:"tenant"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	Username  string `json:"username"`
	LastLogin string `json:"last_login,omitempty"`
}

// CreatePortfolioRequest represents the request body for creating a portfolio.
// Intraday intervals take Period; interday intervals take StartDate and an
// optional EndDate.
type CreatePortfolioRequest struct {
	Name      string   `json:"name" binding:"required"`
	Tickers   []string `json:"tickers" binding:"required"`
	Interval  string   `json:"interval" binding:"required"`
	Period    string   `json:"period,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
}

// TickersRequest is the body for adding or removing tickers
type TickersRequest struct {
	Tickers []string `json:"tickers" binding:"required"`
}

// UpdateWindowRequest is the body for changing an interday window
type UpdateWindowRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// CreatePortfolioResponse carries the created portfolio and what its first
// fetch produced.
type CreatePortfolioResponse struct {
	Portfolio PortfolioSummary `json:"portfolio"`
	Ingest    []IngestOutcome  `json:"ingest"`
	Warnings  []Warning        `json:"warnings,omitempty"`
}

// ChangeResponse wraps a ChangeResult with collected warnings
type ChangeResponse struct {
	Result   ChangeResult    `json:"result"`
	Ingest   []IngestOutcome `json:"ingest,omitempty"`
	Warnings []Warning       `json:"warnings,omitempty"`
}

// RefreshResponse lists per-ticker ingest outcomes for a refresh
type RefreshResponse struct {
	Portfolio string          `json:"portfolio"`
	Ingest    []IngestOutcome `json:"ingest"`
	Inserted  int             `json:"inserted"`
	Warnings  []Warning       `json:"warnings,omitempty"`
}

// PortfolioListResponse lists a tenant's portfolios, most recently edited first
type PortfolioListResponse struct {
	Portfolios []PortfolioListItem `json:"portfolios"`
}

// StatsResponse carries per-ticker statistics for a portfolio's members
type StatsResponse struct {
	Portfolio string        `json:"portfolio"`
	Stats     []TickerStats `json:"stats"`
}

// SeriesResponse carries cached points for one ticker, newest first
type SeriesResponse struct {
	Portfolio  string            `json:"portfolio"`
	Ticker     string            `json:"ticker"`
	DataPoints int               `json:"data_points"`
	Points     []TimeSeriesPoint `json:"points"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
