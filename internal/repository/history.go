package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contextoduel/contexto-backend/internal/entity"
)

type HistoryRepository interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
	ListByUser(ctx context.Context, userID string) ([]*entity.MatchRecord, error)
}

type historyRepository struct {
	conn *sql.DB
}

func NewHistoryRepository(conn *sql.DB) HistoryRepository {
	return &historyRepository{
		conn: conn,
	}
}

func (that *historyRepository) Save(ctx context.Context, record *entity.MatchRecord) error {
	query := `INSERT OR REPLACE INTO match_history
		(id, user_id, target_word, guess_count, final_rank, elapsed_seconds, completed, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.TargetWord,
		record.GuessCount,
		record.FinalRank,
		record.ElapsedSeconds,
		record.Completed,
		record.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("can't save match record: %w", err)
	}

	return nil
}

func (that *historyRepository) ListByUser(ctx context.Context, userID string) ([]*entity.MatchRecord, error) {
	query := `SELECT id, user_id, target_word, guess_count, final_rank, elapsed_seconds, completed, played_at
		FROM match_history WHERE user_id = ? ORDER BY played_at DESC`

	rows, err := that.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("can't list match records: %w", err)
	}
	defer rows.Close()

	var records []*entity.MatchRecord
	for rows.Next() {
		var record entity.MatchRecord
		if err = rows.Scan(
			&record.ID,
			&record.UserID,
			&record.TargetWord,
			&record.GuessCount,
			&record.FinalRank,
			&record.ElapsedSeconds,
			&record.Completed,
			&record.PlayedAt,
		); err != nil {
			return nil, fmt.Errorf("can't scan match record: %w", err)
		}
		records = append(records, &record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read match records: %w", err)
	}

	return records, nil
}
