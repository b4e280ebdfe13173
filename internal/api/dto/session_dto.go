package dto

import (
	"time"

	"github.com/docuport/console-gateway/internal/auth"
	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/internal/session"
)

// LoginRequest payload for tenant-user login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id,omitempty"`
}

// SystemLoginRequest payload for system-operator login.
type SystemLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest payload for tenant-user self-registration.
type RegisterRequest struct {
	TenantID    string `json:"tenant_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// SessionToken is the gateway-minted token the browser holds.
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the signed-in session and what its role may do.
type SessionResponse struct {
	State        domain.SessionState `json:"state"`
	Identity     *domain.Identity    `json:"identity,omitempty"`
	Tenant       *domain.Tenant      `json:"tenant,omitempty"`
	Permissions  []string            `json:"permissions,omitempty"`
	Capabilities *Capabilities       `json:"capabilities,omitempty"`
}

// Capabilities is the role hierarchy resolved for the current identity.
type Capabilities struct {
	InvitableRoles     []domain.Role  `json:"invitable_roles"`
	VisibleSections    []auth.Section `json:"visible_sections"`
	AdministersTenants bool           `json:"administers_tenants"`
}

// ManageTargetRequest names the identity a view wants to manage.
type ManageTargetRequest struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// NewSessionResponse projects a session for the console.
func NewSessionResponse(sess *session.Session) SessionResponse {
	resp := SessionResponse{State: sess.State}
	if !sess.LoggedIn() {
		return resp
	}
	resp.Identity = sess.Identity
	resp.Tenant = sess.Tenant
	resp.Permissions = sess.Permissions
	resp.Capabilities = &Capabilities{
		InvitableRoles:     auth.InvitableRoles(sess.Identity.Role),
		VisibleSections:    auth.VisibleSections(sess.Identity.Role),
		AdministersTenants: auth.CanAdministerTenants(sess.Identity.Role),
	}
	return resp
}
