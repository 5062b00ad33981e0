package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	Connection *sql.DB
}

func New(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

func (that *Storage) Init(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS match_history (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			target_word TEXT,
			guess_count INTEGER,
			final_rank INTEGER,
			elapsed_seconds INTEGER,
			completed BOOLEAN,
			played_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_match_history_user ON match_history (user_id, played_at)`,
	}

	for _, query := range queries {
		if _, err := that.Connection.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("can't create table: %w", err)
		}
	}

	return nil
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}
