package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/docuport/console-gateway/internal/api/dto"
	"github.com/docuport/console-gateway/internal/auth"
	"github.com/docuport/console-gateway/internal/resources"
	apperrors "github.com/docuport/console-gateway/pkg/util"
)

// ChatHandler exposes the assistant conversation.
type ChatHandler struct {
	router *resources.Router
}

// NewChatHandler constructs handler.
func NewChatHandler(router *resources.Router) *ChatHandler {
	return &ChatHandler{router: router}
}

// Send handles POST /chat/messages.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("not signed in", nil)
	}

	var req dto.SendChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	msg, err := h.router.SendChatMessage(c.UserContext(), sess, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"message": msg}})
}

// History handles GET /chat/history. Order is whatever the backend returned.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewAuthenticationFailed("not signed in", nil)
	}

	msgs, err := h.router.ChatHistory(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"messages": msgs}})
}
