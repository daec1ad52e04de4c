package models

import "time"

// DataType is the retrieval policy a portfolio is bound to
type DataType string

const (
	DataTypeIntraday DataType = "intraday"
	DataTypeInterday DataType = "interday"
)

// Portfolio is a named watchlist inside one tenant store.
// Intraday portfolios carry a Period and are always read-only; interday
// portfolios carry a StartDate/EndDate pair.
type Portfolio struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	DataType     DataType   `json:"data_type"`
	Interval     string     `json:"interval"`
	Period       *string    `json:"period,omitempty"`
	StartDate    *Date      `json:"start_date,omitempty"`
	EndDate      *Date      `json:"end_date,omitempty"`
	IsReadonly   bool       `json:"is_readonly"`
	CreatedAt    time.Time  `json:"created_at"`
	LastEditedAt *time.Time `json:"last_edited_at,omitempty"`
}

// Window returns the date window of an interday portfolio.
func (p *Portfolio) Window() (start, end time.Time, ok bool) {
	if p.StartDate == nil || p.EndDate == nil {
		return time.Time{}, time.Time{}, false
	}
	return p.StartDate.Time, p.EndDate.Time, true
}

// PortfolioStock is a ticker's membership in a portfolio
type PortfolioStock struct {
	Ticker  string    `json:"ticker"`
	AddedAt time.Time `json:"added_at"`
}

// PortfolioSummary combines metadata, sorted membership and the operations
// the portfolio currently permits.
type PortfolioSummary struct {
	Portfolio
	Tickers         []string         `json:"tickers"`
	TickerCount     int              `json:"ticker_count"`
	Stocks          []PortfolioStock `json:"stocks"`
	CanAdd          bool             `json:"can_add"`
	CanUpdateWindow bool             `json:"can_update_window"`
	CanRemove       bool             `json:"can_remove"`
}

// PortfolioListItem represents a portfolio in a list (metadata only)
type PortfolioListItem struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	DataType     DataType   `json:"data_type"`
	Interval     string     `json:"interval"`
	IsReadonly   bool       `json:"is_readonly"`
	TickerCount  int        `json:"ticker_count"`
	CreatedAt    time.Time  `json:"created_at"`
	LastEditedAt *time.Time `json:"last_edited_at,omitempty"`
}

// User is the single account living in a tenant store
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
