package config

import "github.com/urfave/cli/v3"

// Notify holds Telegram notification configuration
type Notify struct {
	ChatID int64
	Token  string `masq:"secret"`
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "telegram-chat-id",
			Usage:       "Telegram chat notified when a download completes",
			Destination: &c.ChatID,
			Sources:     cli.EnvVars("YTDL_TELEGRAM_CHAT_ID"),
		},
		&cli.StringFlag{
			Name:        "telegram-token",
			Usage:       "Telegram bot token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("TELEGRAM_BOT_TOKEN"),
		},
	}
}

func (c *Notify) Enabled() bool {
	return c.ChatID != 0 && c.Token != ""
}
