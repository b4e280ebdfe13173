// Package audit records session lifecycle events as structured log lines.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/docuport/console-gateway/internal/events"
)

// Recorder subscribes to session events and writes the audit trail.
type Recorder struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRecorder creates the recorder.
func NewRecorder(dispatcher events.Dispatcher, logger *zap.Logger) *Recorder {
	return &Recorder{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to every session event type.
func (r *Recorder) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	for _, et := range []events.EventType{
		events.EventSignedIn,
		events.EventSignedOut,
		events.EventSessionInvalidated,
		events.EventInvitationConsumed,
		events.EventRegistrationDone,
	} {
		r.dispatcher.Subscribe(et, r.record)
	}
}

func (r *Recorder) record(_ context.Context, event events.Event) error {
	r.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("session_id", event.SessionID),
		zap.String("identity_id", event.Actor.IdentityID),
		zap.String("role", string(event.Actor.Role)),
		zap.String("tenant_id", event.Actor.TenantID),
		zap.Time("at", event.Timestamp),
	)
	return nil
}
