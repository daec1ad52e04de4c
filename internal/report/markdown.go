// Package report renders portfolios as markdown for terminal display.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/epeers/watchlist/internal/models"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = money.USD

// Price formats a quote in currency, e.g. $1,234.50. Unknown currency codes
// fall back to a plain two-decimal number.
func Price(v float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(v).StringFixed(2)
	}
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

func pricePtr(v *float64, currency string) string {
	if v == nil {
		return "-"
	}
	return Price(*v, currency)
}

func datePtr(t *time.Time, layout string) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(layout)
}

func layoutFor(dataType models.DataType) string {
	if dataType == models.DataTypeIntraday {
		return "2006-01-02 15:04"
	}
	return "2006-01-02"
}

// PortfolioMarkdown renders the summary and, when present, per-ticker
// statistics of one portfolio.
func PortfolioMarkdown(summary *models.PortfolioSummary, stats []models.TickerStats, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", summary.Name)

	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Type | %s |\n", summary.DataType)
	fmt.Fprintf(&b, "| Interval | %s |\n", summary.Interval)
	if summary.Period != nil {
		fmt.Fprintf(&b, "| Period | %s |\n", *summary.Period)
	}
	if start, end, ok := summary.Window(); ok {
		fmt.Fprintf(&b, "| Window | %s to %s |\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	access := "read-write"
	if summary.IsReadonly {
		access = "read-only"
	}
	fmt.Fprintf(&b, "| Access | %s |\n", access)
	fmt.Fprintf(&b, "| Tickers | %d |\n\n", summary.TickerCount)

	if len(summary.Tickers) == 0 {
		b.WriteString("_No tickers._\n")
		return b.String()
	}

	byTicker := make(map[string]models.TickerStats, len(stats))
	for _, s := range stats {
		byTicker[s.Ticker] = s
	}

	layout := layoutFor(summary.DataType)
	b.WriteString("## Tickers\n\n")
	b.WriteString("| Ticker | Points | First | Last | Avg close | Min close | Max close |\n")
	b.WriteString("|---|---:|---|---|---:|---:|---:|\n")
	for _, t := range summary.Tickers {
		s, ok := byTicker[t]
		if !ok {
			fmt.Fprintf(&b, "| %s | 0 | - | - | - | - | - |\n", t)
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			t, s.Points,
			datePtr(s.FirstDate, layout), datePtr(s.LastDate, layout),
			pricePtr(s.AvgClose, currency), pricePtr(s.MinClose, currency), pricePtr(s.MaxClose, currency))
	}
	return b.String()
}

// RefreshMarkdown renders the per-ticker outcome of a refresh
func RefreshMarkdown(name string, outcomes []models.IngestOutcome, warnings []models.Warning) string {
	var b strings.Builder

	total := 0
	for _, o := range outcomes {
		total += o.Inserted
	}
	fmt.Fprintf(&b, "# Refresh %s\n\n%d new points.\n\n", name, total)

	if len(outcomes) > 0 {
		b.WriteString("| Ticker | Fetched | Inserted | Error |\n|---|---:|---:|---|\n")
		for _, o := range outcomes {
			errText := o.Error
			if errText == "" {
				errText = "-"
			}
			fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", o.Ticker, o.Fetched, o.Inserted, errText)
		}
	}

	if len(warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- `%s` %s\n", w.Code, w.Message)
		}
	}
	return b.String()
}
