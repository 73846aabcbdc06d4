package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fightback-bot/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type PointHistoryRepository struct {
	db     dbtx
	logger zerolog.Logger
}

func NewPointHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *PointHistoryRepository {
	return &PointHistoryRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// WithTx returns a copy of the repository that runs all queries inside tx.
func (r *PointHistoryRepository) WithTx(tx *sql.Tx) *PointHistoryRepository {
	return &PointHistoryRepository{
		db:     tx,
		logger: r.logger,
	}
}

func (r *PointHistoryRepository) Insert(ctx context.Context, change *domain.PointChange) error {
	id := change.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO point_history (
			id, match_number, player_id, points_before, points_after,
			change, source, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, change.MatchNumber, change.PlayerID, change.PointsBefore,
		change.PointsAfter, change.Change, change.Source, change.CreatedAt,
	)
	return err
}

func (r *PointHistoryRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]domain.PointChange, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, match_number, player_id, points_before, points_after,
		       change, source, created_at
		FROM point_history
		WHERE player_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []domain.PointChange
	for rows.Next() {
		var c domain.PointChange
		if err := rows.Scan(&c.ID, &c.MatchNumber, &c.PlayerID, &c.PointsBefore,
			&c.PointsAfter, &c.Change, &c.Source, &c.CreatedAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
