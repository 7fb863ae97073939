package repository

import (
	"database/sql"

	"github.com/m-mizutani/goerr/v2"

	"github.com/artur/youtube-downloader/internal/database/models"
)

// StatusCount represents how many runs ended with a status
type StatusCount struct {
	Status string
	Count  int64
}

// StatsRepository handles run statistics persistence
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// RecordRun records an invocation and returns its row id
func (r *StatsRepository) RecordRun(run *models.Run) (int64, error) {
	query := `
		INSERT INTO runs (run_id, video_url, requested_quality, status, error, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.Exec(query,
		run.RunID,
		run.VideoURL,
		run.RequestedQuality,
		run.Status,
		run.Error,
		run.ExecutedAt,
	)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to record run", goerr.V("run_id", run.RunID))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get run id", goerr.V("run_id", run.RunID))
	}
	return id, nil
}

// GetTotalRuns returns the number of recorded invocations
func (r *StatsRepository) GetTotalRuns() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// GetStatusCounts returns run counts per status, most frequent first
func (r *StatsRepository) GetStatusCounts() ([]StatusCount, error) {
	query := `
		SELECT status, COUNT(*) as count
		FROM runs
		GROUP BY status
		ORDER BY count DESC, status ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get status counts")
	}
	defer rows.Close()

	var results []StatusCount
	for rows.Next() {
		var item StatusCount
		if err := rows.Scan(&item.Status, &item.Count); err != nil {
			return nil, goerr.Wrap(err, "failed to scan status count")
		}
		results = append(results, item)
	}

	return results, rows.Err()
}
