package database

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
)

// Migrate runs all database migrations
func (db *DB) Migrate() error {
	slog.Debug("[DB] Running migrations...")

	migrations := []string{
		// Runs table, one row per invocation
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			video_url TEXT NOT NULL,
			requested_quality TEXT,
			status TEXT NOT NULL,
			error TEXT,
			executed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_executed_at ON runs(executed_at)`,

		// Video downloads table
		`CREATE TABLE IF NOT EXISTS video_downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			video_id TEXT NOT NULL,
			video_url TEXT NOT NULL,
			video_title TEXT,
			quality TEXT NOT NULL,
			file_path TEXT NOT NULL,
			file_size_bytes INTEGER,
			executed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_video_downloads_run_id ON video_downloads(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_video_downloads_video_id ON video_downloads(video_id)`,
		`CREATE INDEX IF NOT EXISTS idx_video_downloads_executed_at ON video_downloads(executed_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return goerr.Wrap(err, "migration failed", goerr.V("index", i))
		}
	}

	slog.Debug("[DB] Migrations completed successfully")
	return nil
}
