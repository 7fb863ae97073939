package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/artur/youtube-downloader/internal/database/models"
	"github.com/artur/youtube-downloader/internal/database/repository"
)

// History stores every run, and every successful download, in the history
// database. Storage errors are logged and never fail the run.
type History struct {
	statsRepo *repository.StatsRepository
	videoRepo *repository.VideoRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewHistory(statsRepo *repository.StatsRepository, videoRepo *repository.VideoRepository, logger *slog.Logger) *History {
	return &History{
		statsRepo: statsRepo,
		videoRepo: videoRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *History) Finished(ctx context.Context, req Request, outcome *Outcome, err error) {
	now := h.now()

	run := &models.Run{
		RunID:            req.RunID,
		VideoURL:         req.URL,
		RequestedQuality: req.Resolution,
		Status:           string(StatusOf(err)),
		ExecutedAt:       now,
	}
	if err != nil {
		run.Error = err.Error()
	}

	id, rerr := h.statsRepo.RecordRun(run)
	if rerr != nil {
		h.logger.Warn("[HISTORY] Failed to record run", slog.Any("error", rerr))
		return
	}
	defer h.logTotals(ctx)

	if outcome == nil {
		return
	}

	download := &models.VideoDownload{
		RunID:         id,
		VideoID:       outcome.VideoID,
		VideoURL:      req.URL,
		VideoTitle:    outcome.Title,
		Quality:       outcome.Resolution,
		FilePath:      outcome.Path,
		FileSizeBytes: outcome.Bytes,
		ExecutedAt:    now,
	}
	if err := h.videoRepo.RecordDownload(download); err != nil {
		h.logger.Warn("[HISTORY] Failed to record download", slog.Any("error", err))
		return
	}

	if count, err := h.videoRepo.GetVideoDownloadCount(outcome.VideoID); err == nil {
		h.logger.Debug("[HISTORY] Download recorded",
			slog.String("video_id", outcome.VideoID),
			slog.Int64("times_downloaded", count),
		)
	}
}

func (h *History) logTotals(ctx context.Context) {
	if !h.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	runs, err := h.statsRepo.GetTotalRuns()
	if err != nil {
		h.logger.Debug("[HISTORY] Failed to count runs", slog.Any("error", err))
		return
	}
	downloads, err := h.videoRepo.GetTotalDownloads()
	if err != nil {
		h.logger.Debug("[HISTORY] Failed to count downloads", slog.Any("error", err))
		return
	}
	counts, err := h.statsRepo.GetStatusCounts()
	if err != nil {
		h.logger.Debug("[HISTORY] Failed to count statuses", slog.Any("error", err))
		return
	}

	attrs := []any{
		slog.Int64("total_runs", runs),
		slog.Int64("total_downloads", downloads),
	}
	for _, c := range counts {
		attrs = append(attrs, slog.Int64("status_"+c.Status, c.Count))
	}
	h.logger.Debug("[HISTORY] Totals", attrs...)
}
