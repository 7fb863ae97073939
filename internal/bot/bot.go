package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/artur/youtube-downloader/internal/handler"
)

// Sender is the part of tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts a message to a Telegram chat when a download completes.
type Notifier struct {
	sender Sender
	chatID int64
	logger *slog.Logger
}

// New authorizes against the Bot API with token.
func New(token string, chatID int64, logger *slog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create bot")
	}

	logger.Debug("[BOT] Authorized", slog.String("account", api.Self.UserName))
	return NewWithSender(api, chatID, logger), nil
}

func NewWithSender(sender Sender, chatID int64, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// Finished sends a notification for successful runs only.
func (n *Notifier) Finished(ctx context.Context, req handler.Request, outcome *handler.Outcome, err error) {
	if err != nil || outcome == nil {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, formatDownloadMessage(outcome))
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.Warn("[BOT] Failed to send notification",
			slog.Int64("chat_id", n.chatID),
			slog.Any("error", err),
		)
	}
}

func formatDownloadMessage(outcome *handler.Outcome) string {
	return fmt.Sprintf("✔️ %s downloaded in %s\n📁 %s", outcome.Title, outcome.Resolution, outcome.Path)
}
