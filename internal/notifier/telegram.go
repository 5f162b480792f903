package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramAlerter mirrors borderline admin alerts into a Telegram chat so
// staff see them without watching a mailbox.
type TelegramAlerter struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramAlerter returns nil when the bot is disabled or misconfigured.
func NewTelegramAlerter(enabled bool, botToken string, chatID int64, logger *zap.Logger) *TelegramAlerter {
	if !enabled || botToken == "" || chatID == 0 {
		logger.Info("Telegram alerts are disabled")
		return nil
	}

	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		logger.Warn("Failed to initialize Telegram bot, continuing without it", zap.Error(err))
		return nil
	}

	logger.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))
	return &TelegramAlerter{api: api, chatID: chatID, logger: logger}
}

// Alert sends one plain-text message to the admin chat.
func (t *TelegramAlerter) Alert(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram alert: %w", err)
	}
	return nil
}
