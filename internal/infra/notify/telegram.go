package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ecoponto-backend/internal/domain/ports/adapter"
)

// Compile-time checks
var (
	_ adapter.OperatorNotifier = (*TelegramNotifier)(nil)
	_ adapter.OperatorNotifier = (*NoopNotifier)(nil)
)

// TelegramNotifier pushes financial-impact alerts to the operations chat.
// These alerts exist because a captured payment that credits nobody needs a
// human within minutes, not a log line someone greps next week.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) NotifyUnresolvedPayment(ctx context.Context, paymentID, correlationToken, payerContact, reason string) error {
	text := fmt.Sprintf(
		"⚠️ Captured payment with no subscription\npayment: %s\ntoken: %s\npayer: %s\nreason: %s",
		paymentID, correlationToken, payerContact, reason,
	)
	msg := tgbotapi.NewMessage(n.chatID, text)
	_, err := n.bot.Send(msg)
	return err
}

// NoopNotifier is used when no operations chat is configured (dev).
type NoopNotifier struct{}

func (NoopNotifier) NotifyUnresolvedPayment(ctx context.Context, paymentID, correlationToken, payerContact, reason string) error {
	return nil
}
