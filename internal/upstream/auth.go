package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/docuport/console-gateway/internal/domain"
)

// LoginResult is the credential/identity/tenant triple issued by every
// successful authentication flow. Permissions are only present for system
// operators; Tenant is only present for company users.
type LoginResult struct {
	Token       string          `json:"token"`
	Identity    domain.Identity `json:"identity"`
	Tenant      *domain.Tenant  `json:"tenant"`
	Permissions []string        `json:"permissions,omitempty"`
}

// RegistrationForm carries tenant-user self-registration fields.
type RegistrationForm struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Login authenticates a tenant user, optionally scoped to a tenant.
func (c *Client) Login(ctx context.Context, username, password, tenantID string) (*LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}
	if tenantID != "" {
		payload["tenantId"] = tenantID
	}
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := c.do(req, "auth", "login", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SystemLogin authenticates a system operator against the operator
// credential store. The result never carries a tenant.
func (c *Client) SystemLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/auth/system-login", payload)
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := c.do(req, "auth", "system_login", &res); err != nil {
		return nil, err
	}
	res.Tenant = nil
	return &res, nil
}

// Register self-registers a tenant user and logs them in.
func (c *Client) Register(ctx context.Context, tenantID string, form RegistrationForm) (*LoginResult, error) {
	params := url.Values{}
	params.Set("tenantId", tenantID)
	req, err := c.newJSONRequest(ctx, http.MethodPost, queryPath("/auth/register", params), form)
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := c.do(req, "auth", "register", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Invitation fetches a pending invitation by its opaque unique id.
func (c *Client) Invitation(ctx context.Context, uniqueID string) (*domain.Invitation, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/invitations/"+url.PathEscape(uniqueID), nil)
	if err != nil {
		return nil, err
	}
	var inv domain.Invitation
	if err := c.do(req, "auth", "invitation", &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ConsumeInvitation completes onboarding with the invitee's chosen password.
func (c *Client) ConsumeInvitation(ctx context.Context, uniqueID, password string) (*LoginResult, error) {
	payload := map[string]string{"password": password}
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/invitations/"+url.PathEscape(uniqueID)+"/consume", payload)
	if err != nil {
		return nil, err
	}
	var res LoginResult
	if err := c.do(req, "auth", "consume_invitation", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
