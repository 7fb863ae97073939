package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `masq:"secret"`
	Env string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for reporting failed downloads",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("YTDL_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Destination: &c.Env,
			Sources:     cli.EnvVars("YTDL_SENTRY_ENV"),
		},
	}
}

// Reporter sends errors to Sentry
type Reporter struct {
	enabled bool
}

// Configure initializes the Sentry client. Without a DSN the returned
// Reporter does nothing.
func (c *Sentry) Configure(release string) (*Reporter, error) {
	if c.DSN == "" {
		return &Reporter{}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     release,
	}); err != nil {
		return &Reporter{}, goerr.Wrap(err, "failed to initialize sentry")
	}
	return &Reporter{enabled: true}, nil
}

func (r *Reporter) Enabled() bool {
	return r.enabled
}

func (r *Reporter) Capture(err error) {
	if r.enabled {
		sentry.CaptureException(err)
	}
}

// Flush waits for buffered events to be sent.
func (r *Reporter) Flush() {
	if r.enabled {
		sentry.Flush(2 * time.Second)
	}
}
