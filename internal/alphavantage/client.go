package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/epeers/watchlist/internal/httpclient"
	"github.com/epeers/watchlist/internal/marketdata"
	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/validation"
	log "github.com/sirupsen/logrus"
)

// Alphavantage is a Stock and ETF API that fetches data including pricing data
// It is a subscription service, but provides free API access
// https://www.alphavantage.co/documentation/
const defaultBaseURL = "https://www.alphavantage.co/query"

// ErrUnsupportedInterval is returned for intervals the API cannot serve
var ErrUnsupportedInterval = errors.New("interval not supported by alphavantage")

// Client is an HTTP client for the AlphaVantage API
type Client struct {
	apiKey  string
	baseURL string
	client  httpclient.Doer
	now     func() time.Time
}

// NewClient creates a new AlphaVantage client
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL, nil)
}

// NewClientWithBaseURL creates a new AlphaVantage client with a custom base URL (for testing)
func NewClientWithBaseURL(apiKey, baseURL string, client httpclient.Doer) *Client {
	if client == nil {
		client = httpclient.NewClient(nil, httpclient.DefaultRetry)
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		now:     time.Now,
	}
}

func (c *Client) Name() string {
	return "alphavantage"
}

// History fetches one ticker and trims the result to the request window.
func (c *Client) History(ctx context.Context, ticker string, req marketdata.Request) ([]marketdata.Row, error) {
	ep, ok := supported[req.Interval]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInterval, req.Interval)
	}

	params := url.Values{}
	params.Set("function", ep.function)
	params.Set("symbol", ticker)
	params.Set("apikey", c.apiKey)
	if ep.interval != "" {
		params.Set("interval", ep.interval)
	}
	if ep.function != "TIME_SERIES_WEEKLY_ADJUSTED" && ep.function != "TIME_SERIES_MONTHLY_ADJUSTED" {
		params.Set("outputsize", "full")
	}

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	bars, err := parseSeries(body)
	if err != nil {
		return nil, err
	}

	from, to := c.window(req)
	loc := exchangeLocation()
	rows := make([]marketdata.Row, 0, len(bars))
	for stamp, b := range bars {
		t, err := parseStamp(stamp, loc)
		if err != nil {
			log.Debugf("alphavantage: skipping unparseable timestamp %q", stamp)
			continue
		}
		if (!from.IsZero() && t.Before(from)) || (!to.IsZero() && !t.Before(to)) {
			continue
		}
		row, err := toRow(t, b, ep.adjusted)
		if err != nil {
			log.Debugf("alphavantage: skipping bar %s for %s: %v", stamp, ticker, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// window resolves the half-open [from, to) range the request covers
func (c *Client) window(req marketdata.Request) (time.Time, time.Time) {
	if req.DataType == models.DataTypeIntraday {
		return validation.PeriodStart(req.Period, c.now()), time.Time{}
	}
	return req.Start, req.End.AddDate(0, 0, 1)
}

func parseSeries(body []byte) (map[string]bar, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if msg, ok := raw[key]; ok {
			var s string
			_ = json.Unmarshal(msg, &s)
			if key == "Error Message" {
				return nil, fmt.Errorf("%w: %s", marketdata.ErrNoData, s)
			}
			return nil, fmt.Errorf("alphavantage: %s", s)
		}
	}
	for key, payload := range raw {
		if !strings.Contains(key, "Time Series") {
			continue
		}
		var bars map[string]bar
		if err := json.Unmarshal(payload, &bars); err != nil {
			return nil, fmt.Errorf("failed to unmarshal time series: %w", err)
		}
		return bars, nil
	}
	return nil, marketdata.ErrNoData
}

func parseStamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, loc); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

func toRow(t time.Time, b bar, adjusted bool) (marketdata.Row, error) {
	open, err := strconv.ParseFloat(b.Open, 64)
	if err != nil {
		return marketdata.Row{}, fmt.Errorf("open: %w", err)
	}
	closePrice, err := strconv.ParseFloat(b.Close, 64)
	if err != nil {
		return marketdata.Row{}, fmt.Errorf("close: %w", err)
	}
	row := marketdata.Row{Time: t, Open: open, Close: closePrice}
	if v, err := strconv.ParseFloat(b.High, 64); err == nil {
		row.High = &v
	}
	if v, err := strconv.ParseFloat(b.Low, 64); err == nil {
		row.Low = &v
	}
	volume := b.Volume
	if adjusted {
		volume = b.AdjVolume
		if v, err := strconv.ParseFloat(b.AdjustedClose, 64); err == nil {
			row.AdjClose = &v
		}
	}
	row.Volume, _ = strconv.ParseFloat(volume, 64)
	return row, nil
}

func exchangeLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Errorf("Failed to load location 'America/New_York': %v. Falling back to UTC.", err)
		return time.UTC
	}
	return loc
}

func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
