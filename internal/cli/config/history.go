package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/artur/youtube-downloader/internal/database"
)

// History holds download history configuration
type History struct {
	DBPath string
}

// Flags returns CLI flags for history configuration
func (c *History) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "history-db",
			Usage:       "SQLite file recording every run (disabled when empty)",
			Destination: &c.DBPath,
			Sources:     cli.EnvVars("YTDL_HISTORY_DB"),
		},
	}
}

func (c *History) Enabled() bool {
	return c.DBPath != ""
}

// Open opens and migrates the history database
func (c *History) Open() (*database.DB, error) {
	db, err := database.New(c.DBPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to migrate history database")
	}
	return db, nil
}
