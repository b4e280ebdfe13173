package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/docuport/console-gateway/internal/api/dto"
	"github.com/docuport/console-gateway/internal/auth"
	"github.com/docuport/console-gateway/internal/onboarding"
	"github.com/docuport/console-gateway/internal/session"
	"github.com/docuport/console-gateway/internal/upstream"
	apperrors "github.com/docuport/console-gateway/pkg/util"
)

// InvitationsHandler exposes the onboarding flow. Consuming an invitation
// yields a credential triple which is handed to the session manager here,
// at the composition point, not inside the flow.
type InvitationsHandler struct {
	upstream *upstream.Client
	sessions *session.Manager
	tokens   *auth.TokenManager
}

// NewInvitationsHandler constructs handler.
func NewInvitationsHandler(client *upstream.Client, sessions *session.Manager, tokens *auth.TokenManager) *InvitationsHandler {
	return &InvitationsHandler{upstream: client, sessions: sessions, tokens: tokens}
}

// Verify handles GET /invitations/:uniqueId.
func (h *InvitationsHandler) Verify(c *fiber.Ctx) error {
	flow := onboarding.NewFlow(h.upstream)
	state, err := flow.VerifyToken(c.UserContext(), c.Params("uniqueId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInvitationResponse(state, flow.Invitation())})
}

// Consume handles POST /invitations/:uniqueId/consume.
func (h *InvitationsHandler) Consume(c *fiber.Ctx) error {
	var req dto.ConsumeInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	flow := onboarding.NewFlow(h.upstream)
	if _, err := flow.VerifyToken(c.UserContext(), c.Params("uniqueId")); err != nil {
		return err
	}

	res, err := flow.Consume(c.UserContext(), req.Password)
	if err != nil {
		return err
	}

	sess, err := h.sessions.Adopt(c.UserContext(), uuid.NewString(), res)
	if err != nil {
		return err
	}

	token, expiresAt, err := h.tokens.GenerateToken(sess.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"session": dto.NewSessionResponse(sess),
			"auth":    dto.SessionToken{Token: token, ExpiresAt: expiresAt},
		},
	})
}
