package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs how long an operation took at debug level; use it as
// defer TrackTime("Op", time.Now()).
func TrackTime(op string, start time.Time) {
	log.WithField("op", op).Debugf("took %d ms", time.Since(start).Milliseconds())
}
