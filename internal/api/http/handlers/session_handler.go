package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/docuport/console-gateway/internal/api/dto"
	"github.com/docuport/console-gateway/internal/auth"
	"github.com/docuport/console-gateway/internal/domain"
	"github.com/docuport/console-gateway/internal/session"
	"github.com/docuport/console-gateway/internal/upstream"
	apperrors "github.com/docuport/console-gateway/pkg/util"
)

// SessionHandler exposes sign-in, sign-out, registration and the current
// session view. The two login endpoints are deliberately separate routes:
// the backend keeps separate credential stores for operators and tenant
// users and returns different claim shapes for each.
type SessionHandler struct {
	sessions *session.Manager
	tokens   *auth.TokenManager
	mw       *auth.Middleware
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *session.Manager, tokens *auth.TokenManager, mw *auth.Middleware) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens, mw: mw}
}

// sessionID reuses the caller's session id when a valid console token is
// presented, otherwise mints a fresh one.
func (h *SessionHandler) sessionID(c *fiber.Ctx) string {
	if id, ok := h.mw.SessionIDFromRequest(c); ok {
		return id
	}
	return uuid.NewString()
}

func (h *SessionHandler) respond(c *fiber.Ctx, status int, sess *session.Session) error {
	token, expiresAt, err := h.tokens.GenerateToken(sess.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(status).JSON(fiber.Map{
		"data": fiber.Map{
			"session": dto.NewSessionResponse(sess),
			"auth":    dto.SessionToken{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Login handles POST /session/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	sess, err := h.sessions.Login(c.UserContext(), h.sessionID(c), req.Username, req.Password, req.TenantID)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, sess)
}

// SystemLogin handles POST /session/system-login.
func (h *SessionHandler) SystemLogin(c *fiber.Ctx) error {
	var req dto.SystemLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	sess, err := h.sessions.SystemLogin(c.UserContext(), h.sessionID(c), req.Username, req.Password)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, sess)
}

// Register handles POST /session/register.
func (h *SessionHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	form := upstream.RegistrationForm{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
	sess, err := h.sessions.Register(c.UserContext(), h.sessionID(c), req.TenantID, form)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusCreated, sess)
}

// Logout handles POST /session/logout. It succeeds whether or not a session
// exists and never calls the platform backend.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if sessionID, ok := h.mw.SessionIDFromRequest(c); ok {
		if err := h.sessions.Logout(c.UserContext(), sessionID); err != nil {
			return err
		}
	}
	return c.SendStatus(http.StatusNoContent)
}

// CanManage handles POST /session/can-manage. Views ask here instead of
// re-encoding the hierarchy table; a denied check just hides the action.
func (h *SessionHandler) CanManage(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("not signed in", nil)
	}

	var target dto.ManageTargetRequest
	if err := c.BodyParser(&target); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if target.ID == "" {
		return apperrors.NewValidationError("target id required", nil)
	}

	allowed := auth.CanManage(sess.Identity, &domain.Identity{ID: target.ID, Role: target.Role})
	return c.JSON(fiber.Map{"data": fiber.Map{"manageable": allowed}})
}

// Current handles GET /session. It reports the rehydrated session without
// touching the network.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("not signed in", nil)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"session": dto.NewSessionResponse(sess)}})
}
