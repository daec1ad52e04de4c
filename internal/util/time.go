package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

var newYork = loadNewYork()

func loadNewYork() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Errorf("Failed to load location 'America/New_York': %v. Falling back to UTC.", err)
		return time.UTC
	}
	return loc
}

// SessionClose returns 4:30 PM New York time on day's calendar date (taken
// in UTC), expressed in UTC. Daily bars are final from that point on.
func SessionClose(day time.Time) time.Time {
	d := day.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 16, 30, 0, 0, newYork).UTC()
}

// BarFinal reports whether the bar of the given interval that starts at
// start can no longer change at now. Minute and hour bars are final once
// their span has elapsed; daily and coarser bars once the last session they
// cover has closed.
func BarFinal(start time.Time, interval string, now time.Time) bool {
	if span, err := time.ParseDuration(interval); err == nil {
		return !now.Before(start.Add(span))
	}

	last := start
	switch interval {
	case "5d", "1wk":
		last = start.AddDate(0, 0, 4)
	case "1mo":
		last = start.AddDate(0, 1, -1)
	case "3mo":
		last = start.AddDate(0, 3, -1)
	}
	return !now.Before(SessionClose(last))
}
