package repository_test

import (
	"testing"
	"time"

	"github.com/artur/youtube-downloader/internal/database/models"
	"github.com/artur/youtube-downloader/internal/database/repository"
)

func TestVideoRepository_RecordDownload(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	statsRepo := repository.NewStatsRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	runID := recordRun(t, statsRepo, "run-1", "success")

	download := &models.VideoDownload{
		RunID:         runID,
		VideoID:       "YbJOTdZBX1g",
		VideoURL:      "https://www.youtube.com/watch?v=YbJOTdZBX1g",
		VideoTitle:    "Test Video",
		Quality:       "720p",
		FilePath:      "/tmp/out.mp4",
		FileSizeBytes: 1024000,
		ExecutedAt:    time.Now(),
	}

	if err := videoRepo.RecordDownload(download); err != nil {
		t.Fatalf("Failed to record download: %v", err)
	}

	count, err := videoRepo.GetVideoDownloadCount("YbJOTdZBX1g")
	if err != nil {
		t.Fatalf("Failed to get count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected count 1, got %d", count)
	}
}

func TestVideoRepository_RecordDownload_UnknownRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	videoRepo := repository.NewVideoRepository(db)

	err := videoRepo.RecordDownload(&models.VideoDownload{
		RunID:      42,
		VideoID:    "YbJOTdZBX1g",
		VideoURL:   "url",
		Quality:    "720p",
		FilePath:   "/tmp/out.mp4",
		ExecutedAt: time.Now(),
	})
	if err == nil {
		t.Error("Expected foreign key error for unknown run")
	}
}

func TestVideoRepository_GetTotalDownloads(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	statsRepo := repository.NewStatsRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	run1 := recordRun(t, statsRepo, "run-1", "success")
	run2 := recordRun(t, statsRepo, "run-2", "success")

	videoRepo.RecordDownload(&models.VideoDownload{
		RunID: run1, VideoID: "v1", VideoURL: "url1", Quality: "720p", FilePath: "a.mp4", ExecutedAt: time.Now(),
	})
	videoRepo.RecordDownload(&models.VideoDownload{
		RunID: run2, VideoID: "v2", VideoURL: "url2", Quality: "360p", FilePath: "b.mp4", ExecutedAt: time.Now(),
	})

	total, err := videoRepo.GetTotalDownloads()
	if err != nil {
		t.Fatalf("Failed to get total: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected 2 total downloads, got %d", total)
	}
}
