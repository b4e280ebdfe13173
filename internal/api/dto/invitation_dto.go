package dto

import (
	"time"

	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/internal/onboarding"
)

// InvitationResponse surfaces a verified invitation read-only. The proposed
// role is fixed by the inviter.
type InvitationResponse struct {
	State        onboarding.State `json:"state"`
	Email        string           `json:"email,omitempty"`
	FullName     string           `json:"full_name,omitempty"`
	ProposedRole domain.Role      `json:"proposed_role,omitempty"`
	ExpiresAt    *time.Time       `json:"expires_at,omitempty"`
}

// NewInvitationResponse projects the flow state for the console.
func NewInvitationResponse(state onboarding.State, inv *domain.Invitation) InvitationResponse {
	resp := InvitationResponse{State: state}
	if state == onboarding.StateTokenValid && inv != nil {
		resp.Email = inv.Email
		resp.FullName = inv.FullName
		resp.ProposedRole = inv.ProposedRole
		expires := inv.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}

// ConsumeInvitationRequest carries the invitee's chosen password.
type ConsumeInvitationRequest struct {
	Password string `json:"password"`
}
