package handlers

import (
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/org-directory-bot/internal/transport"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// TelegramWebhookHandler accepts pushed updates when the bot runs in
// webhook mode instead of long polling.
type TelegramWebhookHandler struct {
	bot    *transport.Bot
	secret string
	logger *zap.Logger
}

// NewTelegramWebhookHandler returns a new handler instance.
func NewTelegramWebhookHandler(bot *transport.Bot, secret string, logger *zap.Logger) *TelegramWebhookHandler {
	return &TelegramWebhookHandler{bot: bot, secret: secret, logger: logger}
}

// Handle verifies the shared secret, decodes the update, and enqueues it.
// The update is acknowledged immediately; dispatch runs on the per-user
// queue.
func (h *TelegramWebhookHandler) Handle(c *fiber.Ctx) error {
	if h.secret != "" && c.Get(secretTokenHeader) != h.secret {
		h.logger.Warn("webhook request with bad secret", zap.String("ip", c.IP()))
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		h.logger.Warn("undecodable webhook payload", zap.Error(err))
		return c.SendStatus(fiber.StatusBadRequest)
	}

	h.bot.HandleUpdate(c.UserContext(), update)
	return c.SendStatus(fiber.StatusOK)
}
