package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alessio/shellescape"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/artur/youtube-downloader/internal/bot"
	"github.com/artur/youtube-downloader/internal/cli/config"
	"github.com/artur/youtube-downloader/internal/database/repository"
	"github.com/artur/youtube-downloader/internal/downloader"
	"github.com/artur/youtube-downloader/internal/handler"
	"github.com/artur/youtube-downloader/internal/progress"
)

// Version is set at build time.
var Version = "dev"

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type runner struct {
	stdout   io.Writer
	stderr   io.Writer
	colored  bool
	resolver downloader.Resolver
	progress progress.Factory
	sender   bot.Sender
}

// Option customizes Run.
type Option func(*runner)

func WithStdout(w io.Writer) Option {
	return func(r *runner) {
		r.stdout = w
	}
}

func WithStderr(w io.Writer) Option {
	return func(r *runner) {
		r.stderr = w
	}
}

// WithColor enables colored status messages and logs.
func WithColor(enabled bool) Option {
	return func(r *runner) {
		r.colored = enabled
	}
}

// WithResolver replaces the YouTube resolver.
func WithResolver(res downloader.Resolver) Option {
	return func(r *runner) {
		r.resolver = res
	}
}

// WithProgress replaces the progress bar factory.
func WithProgress(f progress.Factory) Option {
	return func(r *runner) {
		r.progress = f
	}
}

// WithTelegramSender replaces the Telegram Bot API client.
func WithTelegramSender(s bot.Sender) Option {
	return func(r *runner) {
		r.sender = s
	}
}

// Run parses args and downloads one video. It returns the process exit code.
func Run(ctx context.Context, args []string, opts ...Option) int {
	r := &runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.progress == nil {
		r.progress = progress.NewBarFactory(r.stderr)
	}

	var (
		dlCfg      config.Download
		loggerCfg  config.Logger
		networkCfg config.Network
		historyCfg config.History
		notifyCfg  config.Notify
		sentryCfg  config.Sentry
		configPath string

		logger  = slog.Default()
		started bool
	)

	var flags []cli.Flag
	flags = append(flags, dlCfg.Flags()...)
	flags = append(flags, config.FileFlags(&configPath)...)
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, networkCfg.Flags()...)
	flags = append(flags, historyCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:            "youtube-downloader",
		Usage:           "Download a YouTube video",
		Version:         Version,
		Flags:           flags,
		Writer:          r.stdout,
		ErrWriter:       r.stderr,
		HideHelpCommand: true,
		ExitErrHandler:  func(context.Context, *cli.Command, error) {},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if configPath != "" {
				file, err := config.LoadFile(configPath)
				if err != nil {
					return ctx, err
				}
				if err := file.Apply(c.IsSet, config.Targets{
					Download: &dlCfg,
					Network:  &networkCfg,
					History:  &historyCfg,
					Notify:   &notifyCfg,
					Logger:   &loggerCfg,
				}); err != nil {
					return ctx, err
				}
			}

			loggerCfg.Color = r.colored
			l, err := loggerCfg.Configure(r.stderr)
			if err != nil {
				return ctx, err
			}
			logger = l
			slog.SetDefault(logger)
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			started = true
			return r.download(ctx, logger, args, dlCfg, networkCfg, historyCfg, notifyCfg, sentryCfg)
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if !started {
			fmt.Fprintf(r.stderr, "Error: %v\n", err)
			return ExitUsage
		}
		return ExitError
	}
	return ExitOK
}

func (r *runner) download(
	ctx context.Context,
	logger *slog.Logger,
	args []string,
	dlCfg config.Download,
	networkCfg config.Network,
	historyCfg config.History,
	notifyCfg config.Notify,
	sentryCfg config.Sentry,
) error {
	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	logger.Debug("Starting download",
		slog.String("command", shellescape.QuoteCommand(args)),
		slog.Any("notify", notifyCfg),
		slog.Any("sentry", sentryCfg),
	)

	reporter, err := sentryCfg.Configure(Version)
	if err != nil {
		logger.Warn("Sentry disabled", slog.Any("error", err))
	}
	defer reporter.Flush()

	resolver := r.resolver
	if resolver == nil {
		httpClient, err := networkCfg.HTTPClient()
		if err != nil {
			logger.Error("Failed to configure HTTP client", slog.Any("error", err))
			return err
		}
		resolver = downloader.NewYouTubeDownloader(
			downloader.WithHTTPClient(httpClient),
			downloader.WithLogger(logger),
		)
	}

	hopts := []handler.Option{
		handler.WithProgress(r.progress),
		handler.WithLogger(logger),
	}

	if historyCfg.Enabled() {
		db, err := historyCfg.Open()
		if err != nil {
			logger.Warn("History disabled", slog.Any("error", err))
		} else {
			defer db.Close()
			hopts = append(hopts, handler.WithListener(handler.NewHistory(
				repository.NewStatsRepository(db.DB),
				repository.NewVideoRepository(db.DB),
				logger,
			)))
		}
	}

	if notifyCfg.Enabled() {
		if n, err := r.notifier(notifyCfg, logger); err != nil {
			logger.Warn("Telegram notification disabled", slog.Any("error", err))
		} else {
			hopts = append(hopts, handler.WithListener(n))
		}
	}

	h := handler.NewDownload(resolver, handler.NewPrinter(r.stdout, r.colored), hopts...)

	_, err = h.Run(ctx, handler.Request{
		RunID:      runID,
		URL:        dlCfg.URL,
		Resolution: dlCfg.Resolution,
		OutputPath: dlCfg.OutputPath,
		Filename:   dlCfg.Filename,
	})
	if err != nil {
		if handler.StatusOf(err) == handler.StatusFailed {
			logger.Error("Download failed", slog.Any("error", err))
			reporter.Capture(err)
		}
		return err
	}
	return nil
}

func (r *runner) notifier(cfg config.Notify, logger *slog.Logger) (*bot.Notifier, error) {
	if r.sender != nil {
		return bot.NewWithSender(r.sender, cfg.ChatID, logger), nil
	}
	return bot.New(cfg.Token, cfg.ChatID, logger)
}
