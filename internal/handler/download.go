package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"

	"github.com/artur/youtube-downloader/internal/downloader"
	"github.com/artur/youtube-downloader/internal/progress"
)

// ErrResolutionUnavailable is returned when the requested resolution is not
// among the video's progressive streams.
var ErrResolutionUnavailable = goerr.New("resolution not available")

// Request is one download invocation.
type Request struct {
	RunID      string
	URL        string
	Resolution string
	OutputPath string
	Filename   string
}

// Outcome describes a finished download.
type Outcome struct {
	Path        string
	Resolution  string
	DisplayName string
	Title       string
	VideoID     string
	Bytes       int64
}

// Status classifies how a run ended.
type Status string

const (
	StatusSuccess               Status = "success"
	StatusInvalidURL            Status = "invalid_url"
	StatusVideoUnavailable      Status = "video_unavailable"
	StatusResolutionUnavailable Status = "resolution_unavailable"
	StatusFailed                Status = "failed"
)

// StatusOf maps a Run error to its Status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, downloader.ErrInvalidURL):
		return StatusInvalidURL
	case errors.Is(err, downloader.ErrVideoUnavailable):
		return StatusVideoUnavailable
	case errors.Is(err, ErrResolutionUnavailable):
		return StatusResolutionUnavailable
	default:
		return StatusFailed
	}
}

// Listener is told about every finished run. Outcome is nil unless the run
// succeeded.
type Listener interface {
	Finished(ctx context.Context, req Request, outcome *Outcome, err error)
}

// Download resolves a video, picks a progressive stream and downloads it,
// reporting progress and status to the user.
type Download struct {
	resolver  downloader.Resolver
	progress  progress.Factory
	printer   *Printer
	logger    *slog.Logger
	listeners []Listener
}

// Option configures Download.
type Option func(*Download)

func WithProgress(f progress.Factory) Option {
	return func(h *Download) {
		h.progress = f
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Download) {
		h.logger = l
	}
}

func WithListener(l Listener) Option {
	return func(h *Download) {
		h.listeners = append(h.listeners, l)
	}
}

func NewDownload(resolver downloader.Resolver, printer *Printer, opts ...Option) *Download {
	h := &Download{
		resolver: resolver,
		progress: progress.Discard(),
		printer:  printer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes req. Invalid URL, unavailable video and unknown resolution
// are reported to the user before being returned; download failures are
// returned as they are.
func (h *Download) Run(ctx context.Context, req Request) (*Outcome, error) {
	outcome, err := h.run(ctx, req)
	for _, l := range h.listeners {
		l.Finished(ctx, req, outcome, err)
	}
	return outcome, err
}

func (h *Download) run(ctx context.Context, req Request) (*Outcome, error) {
	logger := h.logger.With(slog.String("run_id", req.RunID))

	logger.Debug("resolving video", slog.String("url", req.URL))
	video, err := h.resolver.Resolve(ctx, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, downloader.ErrInvalidURL):
			h.printer.Error("URL watch link %s is invalid.", req.URL)
		case errors.Is(err, downloader.ErrVideoUnavailable):
			h.printer.Error("Video %s is unavailable.", req.URL)
		}
		return nil, err
	}

	logger.Debug("video resolved",
		slog.String("video_id", video.ID),
		slog.String("title", video.Title),
		slog.String("author", video.Author),
		slog.Duration("duration", video.Duration),
		slog.Any("resolutions", video.Resolutions()),
	)

	stream, err := h.selectStream(video, req)
	if err != nil {
		return nil, err
	}

	label := req.Filename
	if label == "" {
		label = stream.Title
	}

	outcome := &Outcome{
		Resolution:  stream.Resolution,
		DisplayName: label,
		Title:       video.Title,
		VideoID:     video.ID,
	}

	// The bar is sized from the server's answer when there is one, else
	// from the stream metadata.
	var bar progress.Indicator
	startBar := func(total int64) {
		if bar != nil {
			return
		}
		if total <= 0 {
			total = stream.Filesize
		}
		bar = h.progress(total, label)
	}

	obs := downloader.Observers{
		OnStart: startBar,
		OnChunk: func(n int) {
			startBar(0)
			outcome.Bytes += int64(n)
			if err := bar.Add(n); err != nil {
				logger.Debug("failed to update progress", slog.Any("error", err))
			}
		},
		OnComplete: func(path string) {
			startBar(0)
			if err := bar.Close(); err != nil {
				logger.Debug("failed to close progress", slog.Any("error", err))
			}
			h.printer.Success("File %s saved at %s in %s resolution.", label, path, stream.Resolution)
		},
	}

	path, err := h.resolver.Download(ctx, video, stream, req.OutputPath, req.Filename, obs)
	if err != nil {
		return nil, goerr.Wrap(err, "download failed",
			goerr.V("url", req.URL),
			goerr.V("resolution", stream.Resolution),
		)
	}
	outcome.Path = path

	logger.Info("download complete",
		slog.String("path", path),
		slog.String("resolution", stream.Resolution),
		slog.Int64("bytes", outcome.Bytes),
	)
	return outcome, nil
}

func (h *Download) selectStream(video *downloader.Video, req Request) (downloader.StreamDescriptor, error) {
	if req.Resolution == "" {
		stream, ok := video.Highest()
		if !ok {
			h.printer.Error("Video %s is unavailable.", req.URL)
			return stream, goerr.Wrap(downloader.ErrVideoUnavailable, "no progressive streams",
				goerr.V("video_id", video.ID))
		}
		h.printer.Warn("No resolution specified. Downloading video in highest resolution possible: %s", stream.Resolution)
		return stream, nil
	}

	stream, ok := video.ByResolution(req.Resolution)
	if !ok {
		h.printer.Warn("%s resolution not available for the video. Possible video resolutions: %s",
			req.Resolution, FormatList(video.Resolutions()))
		return stream, goerr.Wrap(ErrResolutionUnavailable, "no stream with requested resolution",
			goerr.V("resolution", req.Resolution),
			goerr.V("video_id", video.ID))
	}
	return stream, nil
}
