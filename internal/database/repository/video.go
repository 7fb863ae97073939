package repository

import (
	"database/sql"

	"github.com/m-mizutani/goerr/v2"

	"github.com/artur/youtube-downloader/internal/database/models"
)

// VideoRepository handles video download persistence
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// RecordDownload records a video download
func (r *VideoRepository) RecordDownload(download *models.VideoDownload) error {
	query := `
		INSERT INTO video_downloads
		(run_id, video_id, video_url, video_title, quality, file_path, file_size_bytes, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		download.RunID,
		download.VideoID,
		download.VideoURL,
		download.VideoTitle,
		download.Quality,
		download.FilePath,
		download.FileSizeBytes,
		download.ExecutedAt,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to record video download", goerr.V("video_id", download.VideoID))
	}

	return nil
}

// GetVideoDownloadCount returns how many times a video was downloaded
func (r *VideoRepository) GetVideoDownloadCount(videoID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM video_downloads WHERE video_id = ?`
	err := r.db.QueryRow(query, videoID).Scan(&count)
	return count, err
}

// GetTotalDownloads returns the number of recorded downloads
func (r *VideoRepository) GetTotalDownloads() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM video_downloads").Scan(&count)
	return count, err
}
