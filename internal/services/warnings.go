package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/epeers/watchlist/internal/models"
	log "github.com/sirupsen/logrus"
)

type warningContextKey struct{}

// WarningCollector gathers the soft failures of one request: fetches that
// returned nothing, duplicate or absent tickers, refused changes.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
}

// NewWarningContext returns a context carrying a fresh WarningCollector
// and the collector itself, so the handler can read it after the call.
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{}
	return context.WithValue(ctx, warningContextKey{}, wc), wc
}

// AddWarning records w on the collector in ctx. Without a collector the
// warning is only logged.
func AddWarning(ctx context.Context, w models.Warning) {
	log.WithField("code", w.Code).Warn(w.Message)

	wc, ok := ctx.Value(warningContextKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, w)
}

// Warnf formats and records a warning.
func Warnf(ctx context.Context, code models.WarningCode, format string, args ...any) {
	AddWarning(ctx, models.Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}

// GetWarnings returns a copy of the collected warnings.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if len(wc.warnings) == 0 {
		return nil
	}
	return append([]models.Warning(nil), wc.warnings...)
}
