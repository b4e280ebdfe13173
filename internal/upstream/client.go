// Package upstream is the typed HTTP client for the platform backend. It
// knows both endpoint families ("system" and "company") but takes no part
// in choosing between them; that decision belongs to the resource router.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/docuport/console-gateway/internal/config"
	"github.com/docuport/console-gateway/internal/observability"
	"github.com/docuport/console-gateway/pkg/util"
)

// Scope selects an endpoint family for resource calls.
type Scope struct {
	system   bool
	tenantID string
}

// SystemScope addresses the system-level endpoint family.
func SystemScope() Scope {
	return Scope{system: true}
}

// TenantScope addresses the company endpoint family for one tenant.
func TenantScope(tenantID string) Scope {
	return Scope{tenantID: tenantID}
}

// IsSystem reports which family the scope addresses.
func (s Scope) IsSystem() bool {
	return s.system
}

// Family names the endpoint family for logs and metrics.
func (s Scope) Family() string {
	if s.system {
		return "system"
	}
	return "company"
}

func (s Scope) basePath() string {
	if s.system {
		return "/system"
	}
	return "/company/" + url.PathEscape(s.tenantID)
}

// Client talks to the platform backend over HTTPS.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New builds a client from configuration.
func New(cfg config.UpstreamConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
		metrics: metrics,
	}
}

// do issues the request and decodes a 2xx JSON body into out. Non-2xx
// responses are mapped into the gateway error taxonomy with the backend's
// payload carried through unmodified.
func (c *Client) do(req *http.Request, family, operation string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstream(family, operation, 0)
		return util.NewUpstreamError("platform backend unreachable", err, nil)
	}
	defer resp.Body.Close()

	c.metrics.RecordUpstream(family, operation, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return util.NewUpstreamError("reading platform response", err, nil)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return util.NewUpstreamError("decoding platform response", err, nil)
		}
		return nil
	}

	details := upstreamDetails(body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return util.NewAuthenticationFailed(upstreamMessage(body, "authentication rejected"), details)
	case resp.StatusCode == http.StatusNotFound:
		return util.NewNotFound(operation, details)
	case resp.StatusCode == http.StatusForbidden:
		return util.NewDomainError(util.CodeAuthorizationDenied, upstreamMessage(body, "forbidden"), http.StatusForbidden, details)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return util.NewValidationError(upstreamMessage(body, "request rejected"), details)
	default:
		return util.NewUpstreamError(upstreamMessage(body, "platform backend error"), nil, details)
	}
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, util.NewInternalError(err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func withBearer(req *http.Request, credential string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+credential)
	return req
}

// upstreamDetails preserves the backend's error payload verbatim so callers
// can surface it unmodified.
func upstreamDetails(body []byte) map[string]any {
	if len(body) == 0 {
		return nil
	}
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return map[string]any{"upstream": string(body)}
	}
	return map[string]any{"upstream": parsed}
}

func upstreamMessage(body []byte, fallback string) string {
	var parsed struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
	}
	return fallback
}

func queryPath(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return fmt.Sprintf("%s?%s", path, params.Encode())
}
