// Package audit records administrative actions. Entries go to the structured
// log only; there is no audit store.
package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/api/metrics"
	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// Logger writes one structured log line per audit entry.
type Logger struct {
	log zerolog.Logger
}

var _ ports.AuditLog = (*Logger)(nil)

// NewLogger returns an audit log that writes through log.
func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Str("component", "audit").Logger()}
}

func (l *Logger) Record(_ context.Context, e domain.StatusAudit) {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	l.log.Info().
		Str("action", e.Action()).
		Int64("user_id", e.UserID).
		Str("user_email", e.UserEmail).
		Str("previous_status", string(e.PreviousStatus)).
		Str("new_status", string(e.NewStatus)).
		Str("reason", e.Reason).
		Int64("actor_id", e.ActorID).
		Time("changed_at", ts).
		Msg("user status changed")

	metrics.UserStatusChangesTotal.WithLabelValues(e.Action()).Inc()
}
