package models

import "time"

// TimeSeriesPoint is one cached OHLCV observation. Points are shared by every
// portfolio in the tenant that references the ticker.
type TimeSeriesPoint struct {
	Ticker    string    `json:"ticker"`
	Date      time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      *float64  `json:"high,omitempty"`
	Low       *float64  `json:"low,omitempty"`
	Close     float64   `json:"close"`
	AdjClose  *float64  `json:"adj_close,omitempty"`
	Volume    int64     `json:"volume"`
	Interval  string    `json:"interval,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TickerStats summarizes the cached points of one ticker
type TickerStats struct {
	Ticker    string     `json:"ticker"`
	FirstDate *time.Time `json:"first_date,omitempty"`
	LastDate  *time.Time `json:"last_date,omitempty"`
	Points    int64      `json:"points"`
	AvgClose  *float64   `json:"avg_close,omitempty"`
	MinClose  *float64   `json:"min_close,omitempty"`
	MaxClose  *float64   `json:"max_close,omitempty"`
}
