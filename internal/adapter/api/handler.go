package api

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/entity"
	"immobiliare-core/internal/usecase"
)

type ChatService interface {
	Reply(ctx context.Context, sessionID, message string) string
}

type RenovationService interface {
	Renovate(ctx context.Context, req entity.RenovationRequest) entity.RenovationResult
}

type Handler struct {
	chat      ChatService
	renovator RenovationService
}

func NewHandler(chat ChatService, renovator RenovationService) *Handler {
	return &Handler{chat: chat, renovator: renovator}
}

// HandleChat always answers with plain text. A body it cannot read gets the
// same apology as an agent failure.
func (h *Handler) HandleChat(c *fiber.Ctx) error {
	c.Type("txt", "utf-8")

	var req entity.ChatRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		log.Warn().Err(err).Str("component", "CHAT").Msg("unreadable chat request")
		return c.Status(fiber.StatusOK).SendString(usecase.ApologyReply)
	}

	reply := h.chat.Reply(c.UserContext(), req.SessionID, req.Message)
	return c.Status(fiber.StatusOK).SendString(reply)
}

func (h *Handler) HandleRenovate(c *fiber.Ctx) error {
	var req entity.RenovationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.Normalize()

	res := h.renovator.Renovate(c.UserContext(), req)
	return c.Status(fiber.StatusOK).JSON(res)
}
