package alphavantage

// bar is one entry of a TIME_SERIES_* payload. Field names follow the
// numbered keys AlphaVantage uses; the adjusted endpoints shift volume to 6.
type bar struct {
	Open          string `json:"1. open"`
	High          string `json:"2. high"`
	Low           string `json:"3. low"`
	Close         string `json:"4. close"`
	Volume        string `json:"5. volume"`
	AdjustedClose string `json:"5. adjusted close"`
	AdjVolume     string `json:"6. volume"`
}

// endpoint describes how one of our intervals maps onto the API
type endpoint struct {
	function string
	interval string // only for TIME_SERIES_INTRADAY
	adjusted bool
}

// supported maps interval strings onto AlphaVantage functions. 2m, 90m, 5d
// and 3mo have no counterpart.
var supported = map[string]endpoint{
	"1m":  {function: "TIME_SERIES_INTRADAY", interval: "1min"},
	"5m":  {function: "TIME_SERIES_INTRADAY", interval: "5min"},
	"15m": {function: "TIME_SERIES_INTRADAY", interval: "15min"},
	"30m": {function: "TIME_SERIES_INTRADAY", interval: "30min"},
	"60m": {function: "TIME_SERIES_INTRADAY", interval: "60min"},
	"1h":  {function: "TIME_SERIES_INTRADAY", interval: "60min"},
	"1d":  {function: "TIME_SERIES_DAILY"},
	"1wk": {function: "TIME_SERIES_WEEKLY_ADJUSTED", adjusted: true},
	"1mo": {function: "TIME_SERIES_MONTHLY_ADJUSTED", adjusted: true},
}
