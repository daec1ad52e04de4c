package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/epeers/watchlist/internal/httpclient"
	"github.com/epeers/watchlist/internal/marketdata"
	"github.com/epeers/watchlist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1672669800, 1672756200, 1672842600],
      "indicators": {
        "quote": [{
          "open":   [130.28, null, 126.89],
          "high":   [130.90, null, 128.66],
          "low":    [124.17, null, 125.08],
          "close":  [125.07, null, 126.36],
          "volume": [112117500, null, 89113600]
        }],
        "adjclose": [{"adjclose": [124.22, null, 125.50]}]
      }
    }],
    "error": null
  }
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*Provider, *[]*url.URL) {
	t.Helper()
	var seen []*url.URL
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	client := httpclient.NewClient(srv.Client(), httpclient.RetryConfig{MaxRetries: 0})
	return NewProvider(client, srv.URL), &seen
}

func TestHistory_Interday(t *testing.T) {
	p, seen := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody))
	})

	req := marketdata.Request{
		Tickers:  []string{"AAPL"},
		DataType: models.DataTypeInterday,
		Interval: "1d",
		Start:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC),
	}
	rows, err := p.History(context.Background(), "AAPL", req)
	require.NoError(t, err)

	// the all-null slot is dropped
	require.Len(t, rows, 2)
	assert.Equal(t, 130.28, rows[0].Open)
	assert.Equal(t, 125.07, rows[0].Close)
	require.NotNil(t, rows[0].AdjClose)
	assert.Equal(t, 124.22, *rows[0].AdjClose)
	assert.Equal(t, float64(89113600), rows[1].Volume)

	require.Len(t, *seen, 1)
	u := (*seen)[0]
	assert.Equal(t, "/v8/finance/chart/AAPL", u.Path)
	assert.Equal(t, "1d", u.Query().Get("interval"))
	assert.Equal(t, "1672531200", u.Query().Get("period1"))
	assert.Equal(t, "1672876800", u.Query().Get("period2"))
	assert.Empty(t, u.Query().Get("range"))
}

func TestHistory_IntradayUsesRange(t *testing.T) {
	p, seen := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody))
	})

	req := marketdata.Request{
		Tickers:  []string{"MSFT"},
		DataType: models.DataTypeIntraday,
		Interval: "5m",
		Period:   "5d",
	}
	_, err := p.History(context.Background(), "MSFT", req)
	require.NoError(t, err)

	q := (*seen)[0].Query()
	assert.Equal(t, "5d", q.Get("range"))
	assert.Equal(t, "5m", q.Get("interval"))
	assert.Empty(t, q.Get("period1"))
}

func TestHistory_NotFoundIsNoData(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := p.History(context.Background(), "ZZZZZ", marketdata.Request{
		Tickers: []string{"ZZZZZ"}, DataType: models.DataTypeIntraday, Interval: "5m", Period: "1d",
	})
	assert.ErrorIs(t, err, marketdata.ErrNoData)
}

func TestHistory_ServerError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := p.History(context.Background(), "AAPL", marketdata.Request{
		Tickers: []string{"AAPL"}, DataType: models.DataTypeIntraday, Interval: "5m", Period: "1d",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
