package repository

import (
	"context"
	"database/sql"
	"time"

	"fightback-bot/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     dbtx
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// WithTx returns a copy of the repository that runs all queries inside tx.
func (r *MatchRepository) WithTx(tx *sql.Tx) *MatchRepository {
	return &MatchRepository{
		db:     tx,
		logger: r.logger,
	}
}

func (r *MatchRepository) Create(ctx context.Context, match *domain.Match) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (
			match_number, player1_id, player2_id, score1, score2,
			points1_before, points2_before, delta1, delta2,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.Number, match.Player1ID, match.Player2ID, match.Score1, match.Score2,
		match.Points1Before, match.Points2Before, match.Delta1, match.Delta2,
		match.CreatedAt, match.UpdatedAt,
	)
	return err
}

func (r *MatchRepository) Get(ctx context.Context, number int) (*domain.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT match_number, player1_id, player2_id, score1, score2,
		       points1_before, points2_before, delta1, delta2,
		       created_at, updated_at
		FROM matches WHERE match_number = ?`, number)

	var m domain.Match
	if err := row.Scan(&m.Number, &m.Player1ID, &m.Player2ID, &m.Score1, &m.Score2,
		&m.Points1Before, &m.Points2Before, &m.Delta1, &m.Delta2,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Update overwrites a match's participants, scores and stored deltas. The
// match number never changes.
func (r *MatchRepository) Update(ctx context.Context, match *domain.Match) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE matches SET
			player1_id = ?, player2_id = ?, score1 = ?, score2 = ?,
			points1_before = ?, points2_before = ?, delta1 = ?, delta2 = ?,
			updated_at = ?
		WHERE match_number = ?`,
		match.Player1ID, match.Player2ID, match.Score1, match.Score2,
		match.Points1Before, match.Points2Before, match.Delta1, match.Delta2,
		time.Now(), match.Number,
	)
	return err
}

// Latest returns the most recent limit matches in insertion order.
func (r *MatchRepository) Latest(ctx context.Context, limit int) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT match_number, player1_id, player2_id, score1, score2,
		       points1_before, points2_before, delta1, delta2,
		       created_at, updated_at
		FROM matches
		ORDER BY match_number DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.Number, &m.Player1ID, &m.Player2ID, &m.Score1, &m.Score2,
			&m.Points1Before, &m.Points2Before, &m.Delta1, &m.Delta2,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// query is newest-first; flip back to insertion order
	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}
	return matches, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}
