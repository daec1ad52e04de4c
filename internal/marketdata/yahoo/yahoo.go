package yahoo

import (
	"context"
	"encoding/json"
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
	"github.com/google/uuid"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Provider reads OHLCV history from the Yahoo Finance chart endpoint
type Provider struct {
	client  httpclient.Doer
	baseURL string
}

// NewProvider creates a Yahoo provider. An empty baseURL selects the public endpoint.
func NewProvider(client httpclient.Doer, baseURL string) *Provider {
	if client == nil {
		client = httpclient.NewClient(nil, httpclient.DefaultRetry)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (y *Provider) Name() string {
	return "yahoo"
}

// History fetches one ticker. Intraday requests use Yahoo's range parameter;
// interday requests use period1/period2 with End treated as inclusive.
func (y *Provider) History(ctx context.Context, ticker string, req marketdata.Request) ([]marketdata.Row, error) {
	params := url.Values{}
	params.Set("interval", req.Interval)
	params.Set("includeAdjustedClose", "true")
	params.Set("events", "div,splits")
	switch req.DataType {
	case models.DataTypeIntraday:
		params.Set("range", req.Period)
	default:
		params.Set("period1", strconv.FormatInt(req.Start.Unix(), 10))
		params.Set("period2", strconv.FormatInt(req.End.AddDate(0, 0, 1).Unix(), 10))
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.baseURL, url.PathEscape(ticker), params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "watchlist/"+uuid.NewString())
	httpReq.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var data chartResponse
	if err := json.Unmarshal(body, &data); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if e := data.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", marketdata.ErrNoData, e.Description)
		}
		return nil, fmt.Errorf("yahoo error %s: %s", e.Code, e.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, marketdata.ErrNoData
	}

	result := data.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	rows := make([]marketdata.Row, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, closePrice := at(quote.Open, i), at(quote.Close, i)
		// Yahoo pads halted or pre-open slots with nulls
		if open == nil || closePrice == nil {
			continue
		}
		row := marketdata.Row{
			Time:     time.Unix(ts, 0).UTC(),
			Open:     *open,
			High:     at(quote.High, i),
			Low:      at(quote.Low, i),
			Close:    *closePrice,
			AdjClose: at(adj, i),
		}
		if v := at(quote.Volume, i); v != nil {
			row.Volume = *v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
