package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/epeers/watchlist/internal/models"
)

// DateLayout is the only accepted date literal shape.
const DateLayout = "2006-01-02"

// MaxIntradayDays caps the N in an "Nd" period.
const MaxIntradayDays = 60

// MaxPortfolioName is the longest accepted portfolio name.
const MaxPortfolioName = 50

var (
	usernamePattern  = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	tickerPattern    = regexp.MustCompile(`^[A-Z]{1,5}$`)
	dayPeriodPattern = regexp.MustCompile(`^(\d{1,2})d$`)
)

// Interval vocabularies, in display order.
var (
	IntradayIntervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h"}
	InterdayIntervals = []string{"1d", "5d", "1wk", "1mo", "3mo"}
	FixedPeriods      = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}
)

// ValidationError reports malformed user input. It is always raised before
// any persistence or network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateUsername checks the username shape and returns it lowercased.
func ValidateUsername(s string) (string, error) {
	if !usernamePattern.MatchString(s) {
		return "", invalid("username", "must be 3-30 characters of letters, digits or underscore")
	}
	return strings.ToLower(s), nil
}

// ValidatePassword enforces length >= 8 with at least one upper, lower and digit.
func ValidatePassword(s string) error {
	if len(s) < 8 {
		return invalid("password", "must be at least 8 characters")
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return invalid("password", "must contain an uppercase letter, a lowercase letter and a digit")
	}
	return nil
}

// ValidateTicker upper-cases s and checks it is 1-5 letters.
func ValidateTicker(s string) (string, error) {
	t := strings.ToUpper(s)
	if !tickerPattern.MatchString(t) {
		return "", invalid("ticker", "%q must be 1-5 letters", s)
	}
	return t, nil
}

// ValidateTickers validates every element and drops repeats, keeping first-seen order.
func ValidateTickers(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, invalid("tickers", "at least one ticker is required")
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		t, err := ValidateTicker(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// ValidateInterval classifies s into intraday or interday.
func ValidateInterval(s string) (models.DataType, string, error) {
	for _, v := range IntradayIntervals {
		if s == v {
			return models.DataTypeIntraday, s, nil
		}
	}
	for _, v := range InterdayIntervals {
		if s == v {
			return models.DataTypeInterday, s, nil
		}
	}
	return "", "", invalid("interval", "%q is not one of intraday %s or interday %s",
		s, strings.Join(IntradayIntervals, ", "), strings.Join(InterdayIntervals, ", "))
}

// ValidatePeriod accepts the fixed period set or "Nd" with N <= 60. The day
// form comes back without leading zeros.
func ValidatePeriod(s string) (string, error) {
	if m := dayPeriodPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n > MaxIntradayDays {
			return "", invalid("period", "intraday history is limited to %d days, got %s", MaxIntradayDays, s)
		}
		return strconv.Itoa(n) + "d", nil
	}
	for _, v := range FixedPeriods {
		if s == v {
			return s, nil
		}
	}
	return "", invalid("period", "%q is not one of %s or Nd (N <= %d)", s, strings.Join(FixedPeriods, ", "), MaxIntradayDays)
}

// ValidateDate parses a YYYY-MM-DD literal.
func ValidateDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalid("date", "%q must be YYYY-MM-DD", s)
	}
	return t, nil
}

// ValidatePortfolioName trims and length-checks a portfolio name.
func ValidatePortfolioName(s string) (string, error) {
	n := strings.TrimSpace(s)
	if n == "" {
		return "", invalid("name", "must not be empty")
	}
	if len([]rune(n)) > MaxPortfolioName {
		return "", invalid("name", "must be at most %d characters", MaxPortfolioName)
	}
	return n, nil
}

// ValidateWindow checks an interday window against now: start must precede
// end and end may not lie after the UTC day of now.
func ValidateWindow(start, end, now time.Time) error {
	now = now.UTC()
	if !start.Before(end) {
		return invalid("window", "start %s must be before end %s", start.Format(DateLayout), end.Format(DateLayout))
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if end.After(today) {
		return invalid("window", "end %s is in the future", end.Format(DateLayout))
	}
	return nil
}

// PeriodStart returns the earliest instant a period covers, relative to now.
// "max" yields the zero time.
func PeriodStart(period string, now time.Time) time.Time {
	now = now.UTC()
	if m := dayPeriodPattern.FindStringSubmatch(period); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.AddDate(0, 0, -n)
	}
	switch period {
	case "1mo":
		return now.AddDate(0, -1, 0)
	case "3mo":
		return now.AddDate(0, -3, 0)
	case "6mo":
		return now.AddDate(0, -6, 0)
	case "1y":
		return now.AddDate(-1, 0, 0)
	case "2y":
		return now.AddDate(-2, 0, 0)
	case "5y":
		return now.AddDate(-5, 0, 0)
	case "10y":
		return now.AddDate(-10, 0, 0)
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
