// Package onboarding walks an invitee from "invited" to "credentialed".
// The flow hands its result back to the caller; it never touches the
// session layer itself, so onboarding is testable without one.
package onboarding

import (
	"context"
	"time"

	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/internal/upstream"
	"github.com/docuport/console-gateway/pkg/util"
)

// State is the onboarding position for one invitation token.
type State string

const (
	StateTokenUnverified State = "TOKEN_UNVERIFIED"
	StateTokenValid      State = "TOKEN_VALID"
	StateTokenInvalid    State = "TOKEN_INVALID"
	StateTokenExpired    State = "TOKEN_EXPIRED"
	StateConsuming       State = "CONSUMING"
	StateConsumed        State = "CONSUMED"
	StateConsumeFailed   State = "CONSUME_FAILED"
)

// Flow drives one invitation through verification and consumption. Only
// ConsumeFailed permits a retry; every other post-valid state is terminal.
type Flow struct {
	upstream *upstream.Client
	now      func() time.Time

	state      State
	uniqueID   string
	invitation *domain.Invitation
}

// NewFlow starts an unverified flow.
func NewFlow(client *upstream.Client) *Flow {
	return &Flow{upstream: client, now: time.Now, state: StateTokenUnverified}
}

// State returns the current position.
func (f *Flow) State() State {
	return f.state
}

// Invitation returns the verified invitation, read-only for the invitee:
// the proposed role cannot be changed during onboarding.
func (f *Flow) Invitation() *domain.Invitation {
	if f.invitation == nil {
		return nil
	}
	inv := *f.invitation
	return &inv
}

// VerifyToken fetches the invitation and settles the token's validity.
func (f *Flow) VerifyToken(ctx context.Context, uniqueID string) (State, error) {
	if uniqueID == "" {
		return f.state, util.NewValidationError("invitation token required", nil)
	}

	inv, err := f.upstream.Invitation(ctx, uniqueID)
	if err != nil {
		if util.CodeOf(err) == util.CodeNotFound {
			f.state = StateTokenInvalid
			return f.state, nil
		}
		return f.state, err
	}

	f.uniqueID = uniqueID
	f.invitation = inv

	switch {
	case inv.Consumed:
		f.state = StateTokenInvalid
	case inv.IsExpired(f.now()):
		f.state = StateTokenExpired
	default:
		f.state = StateTokenValid
	}
	return f.state, nil
}

// Consume submits the invitee's chosen password. Callable only while the
// token is known valid, or as a retry after a failed consume. An expired or
// invalid token is rejected before any network call.
func (f *Flow) Consume(ctx context.Context, password string) (*upstream.LoginResult, error) {
	switch f.state {
	case StateTokenValid, StateConsumeFailed:
	case StateTokenExpired:
		return nil, util.NewAuthenticationFailed("invitation expired", nil)
	case StateTokenInvalid:
		return nil, util.NewAuthenticationFailed("invitation invalid or already used", nil)
	case StateConsumed:
		return nil, util.NewValidationError("invitation already consumed", nil)
	default:
		return nil, util.NewValidationError("invitation token not verified", nil)
	}
	if password == "" {
		return nil, util.NewValidationError("password required", nil)
	}
	// Expiry may have passed since verification.
	if f.invitation != nil && f.invitation.IsExpired(f.now()) {
		f.state = StateTokenExpired
		return nil, util.NewAuthenticationFailed("invitation expired", nil)
	}

	f.state = StateConsuming
	res, err := f.upstream.ConsumeInvitation(ctx, f.uniqueID, password)
	if err != nil {
		f.state = StateConsumeFailed
		return nil, err
	}

	f.state = StateConsumed
	f.invitation.Consumed = true
	return res, nil
}
