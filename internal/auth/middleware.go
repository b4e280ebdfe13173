package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/docuport/console-gateway/internal/session"
	apperrors "github.com/docuport/console-gateway/pkg/util"
)

const sessionKey = "console_session"

// Middleware validates console session tokens and rehydrates sessions.
type Middleware struct {
	tokens   *TokenManager
	sessions *session.Manager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, sessions *session.Manager) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes. Rehydration is purely
// local; no network call is made.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	sessionID, ok := m.sessionID(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("missing or invalid authorization header", nil)
	}

	sess, err := m.sessions.Restore(c.UserContext(), sessionID)
	if err != nil {
		return apperrors.ToDomainError(err)
	}
	if !sess.LoggedIn() {
		return apperrors.NewAuthenticationFailed("not signed in", nil)
	}

	c.Locals(sessionKey, sess)
	return c.Next()
}

// sessionID extracts and validates the bearer token, if any.
func (m *Middleware) sessionID(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	sessionID, err := m.tokens.ParseSessionID(parts[1])
	if err != nil {
		return "", false
	}
	return sessionID, true
}

// SessionIDFromRequest returns the session id named by the request's token,
// for routes that accept both fresh and returning callers.
func (m *Middleware) SessionIDFromRequest(c *fiber.Ctx) (string, bool) {
	return m.sessionID(c)
}

// SessionFromContext retrieves the rehydrated session placed by Handle.
func SessionFromContext(c *fiber.Ctx) (*session.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	sess, ok := val.(*session.Session)
	return sess, ok
}
