package events

import (
	"time"

	"github.com/docuport/console-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSignedIn           EventType = "signed_in"
	EventSignedOut          EventType = "signed_out"
	EventSessionInvalidated EventType = "session_invalidated"
	EventInvitationConsumed EventType = "invitation_consumed"
	EventRegistrationDone   EventType = "registration_completed"
)

// Actor identifies the principal behind an event.
type Actor struct {
	IdentityID string      `json:"identity_id,omitempty"`
	Role       domain.Role `json:"role,omitempty"`
	TenantID   string      `json:"tenant_id,omitempty"`
}

// Event represents a session lifecycle event emitted by the session manager.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// SignedIn builds the event for a completed sign-in flow.
func SignedIn(id, sessionID string, identity *domain.Identity, tenant *domain.Tenant, eventType EventType) Event {
	actor := Actor{}
	if identity != nil {
		actor.IdentityID = identity.ID
		actor.Role = identity.Role
	}
	if tenant != nil {
		actor.TenantID = tenant.ID
	}
	return Event{
		ID:        id,
		Type:      eventType,
		SessionID: sessionID,
		Actor:     actor,
		Timestamp: time.Now(),
	}
}

// SignedOut builds the event for an ended session.
func SignedOut(id, sessionID string, eventType EventType) Event {
	return Event{
		ID:        id,
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}
