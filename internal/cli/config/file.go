package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"github.com/xhit/go-str2duration/v2"
)

// File is the optional TOML configuration file. Its values are defaults:
// flags and environment variables take precedence.
type File struct {
	OutputPath     string `toml:"output_path"`
	Resolution     string `toml:"resolution"`
	HTTPTimeout    string `toml:"http_timeout"`
	Cookies        string `toml:"cookies"`
	HistoryDB      string `toml:"history_db"`
	TelegramChatID int64  `toml:"telegram_chat_id"`
	LogLevel       string `toml:"log_level"`
}

// FileFlags returns the flag pointing at the configuration file
func FileFlags(path *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML configuration file",
			Destination: path,
			Sources:     cli.EnvVars("YTDL_CONFIG"),
		},
	}
}

// LoadFile reads and decodes a TOML configuration file
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var f File
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return &f, nil
}

// Targets are the configuration groups a File can fill in.
type Targets struct {
	Download *Download
	Network  *Network
	History  *History
	Notify   *Notify
	Logger   *Logger
}

// Apply copies file values into t for every flag isSet reports as unset.
func (f *File) Apply(isSet func(name string) bool, t Targets) error {
	setString := func(flag string, dst *string, value string) {
		if value != "" && !isSet(flag) {
			*dst = value
		}
	}

	if t.Download != nil {
		setString("output-path", &t.Download.OutputPath, f.OutputPath)
		setString("resolution", &t.Download.Resolution, f.Resolution)
	}

	if t.Network != nil {
		setString("cookies", &t.Network.Cookies, f.Cookies)
		if f.HTTPTimeout != "" && !isSet("http-timeout") {
			d, err := str2duration.ParseDuration(f.HTTPTimeout)
			if err != nil {
				return goerr.Wrap(err, "invalid http_timeout", goerr.V("value", f.HTTPTimeout))
			}
			t.Network.Timeout = d
		}
	}

	if t.History != nil {
		setString("history-db", &t.History.DBPath, f.HistoryDB)
	}

	if t.Notify != nil && f.TelegramChatID != 0 && !isSet("telegram-chat-id") {
		t.Notify.ChatID = f.TelegramChatID
	}

	if t.Logger != nil {
		setString("log-level", &t.Logger.Level, f.LogLevel)
	}

	return nil
}
