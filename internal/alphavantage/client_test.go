package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/epeers/watchlist/internal/httpclient"
	"github.com/epeers/watchlist/internal/marketdata"
	"github.com/epeers/watchlist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyBody = `{
  "Meta Data": {"2. Symbol": "AAPL"},
  "Time Series (Daily)": {
    "2023-01-04": {"1. open": "126.89", "2. high": "128.66", "3. low": "125.08", "4. close": "126.36", "5. volume": "89113600"},
    "2023-01-03": {"1. open": "130.28", "2. high": "130.90", "3. low": "124.17", "4. close": "125.07", "5. volume": "112117500"},
    "2022-12-30": {"1. open": "128.41", "2. high": "129.95", "3. low": "127.43", "4. close": "129.93", "5. volume": "77034209"}
  }
}`

const intradayBody = `{
  "Meta Data": {"6. Time Zone": "US/Eastern"},
  "Time Series (5min)": {
    "2024-06-14 15:55:00": {"1. open": "212.10", "2. high": "212.50", "3. low": "211.90", "4. close": "212.49", "5. volume": "1200"},
    "2024-05-01 09:30:00": {"1. open": "170.00", "2. high": "171.00", "3. low": "169.50", "4. close": "170.50", "5. volume": "900"}
  }
}`

func newTestClient(t *testing.T, body string, gotQuery *map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			q := map[string]string{}
			for k := range r.URL.Query() {
				q[k] = r.URL.Query().Get(k)
			}
			*gotQuery = q
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-key", srv.URL, httpclient.NewClient(srv.Client(), httpclient.RetryConfig{}))
}

func TestHistory_DailyTrimmedToWindow(t *testing.T) {
	var q map[string]string
	c := newTestClient(t, dailyBody, &q)

	rows, err := c.History(context.Background(), "AAPL", marketdata.Request{
		Tickers:  []string{"AAPL"},
		DataType: models.DataTypeInterday,
		Interval: "1d",
		Start:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.False(t, r.Time.Before(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
		require.NotNil(t, r.High)
	}

	assert.Equal(t, "TIME_SERIES_DAILY", q["function"])
	assert.Equal(t, "AAPL", q["symbol"])
	assert.Equal(t, "test-key", q["apikey"])
	assert.Equal(t, "full", q["outputsize"])
}

func TestHistory_IntradayUsesPeriod(t *testing.T) {
	var q map[string]string
	c := newTestClient(t, intradayBody, &q)
	c.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	rows, err := c.History(context.Background(), "AAPL", marketdata.Request{
		Tickers:  []string{"AAPL"},
		DataType: models.DataTypeIntraday,
		Interval: "5m",
		Period:   "5d",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 212.49, rows[0].Close)
	assert.Equal(t, time.Date(2024, 6, 14, 19, 55, 0, 0, time.UTC), rows[0].Time)
	assert.Equal(t, "5min", q["interval"])
}

func TestHistory_UnsupportedInterval(t *testing.T) {
	c := newTestClient(t, dailyBody, nil)
	_, err := c.History(context.Background(), "AAPL", marketdata.Request{
		Tickers: []string{"AAPL"}, DataType: models.DataTypeIntraday, Interval: "90m", Period: "5d",
	})
	assert.ErrorIs(t, err, ErrUnsupportedInterval)
}

func TestHistory_ErrorMessageIsNoData(t *testing.T) {
	c := newTestClient(t, `{"Error Message": "Invalid API call."}`, nil)
	_, err := c.History(context.Background(), "ZZZZ", marketdata.Request{
		Tickers: []string{"ZZZZ"}, DataType: models.DataTypeInterday, Interval: "1d",
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, marketdata.ErrNoData)
}

func TestHistory_RateLimitNote(t *testing.T) {
	c := newTestClient(t, `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`, nil)
	_, err := c.History(context.Background(), "AAPL", marketdata.Request{
		Tickers: []string{"AAPL"}, DataType: models.DataTypeInterday, Interval: "1d",
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call frequency")
}
