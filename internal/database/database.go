package database

import (
	"database/sql"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

// DB wraps the download history database.
type DB struct {
	*sql.DB
}

// New opens (or creates) the SQLite database at path.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", path))
	}

	// SQLite allows a single writer; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to enable foreign keys", goerr.V("path", path))
	}

	slog.Debug("[DB] Opened database", slog.String("path", path))
	return &DB{DB: db}, nil
}
