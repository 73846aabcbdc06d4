package repository

import (
	"context"
	"database/sql"
	"time"

	"fightback-bot/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     dbtx
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// WithTx returns a copy of the repository that runs all queries inside tx.
func (r *PlayerRepository) WithTx(tx *sql.Tx) *PlayerRepository {
	return &PlayerRepository{
		db:     tx,
		logger: r.logger,
	}
}

func (r *PlayerRepository) Create(ctx context.Context, player *domain.Player) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (id, name, discord_name, points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		player.ID, player.Name, player.DiscordName, player.Points,
		player.CreatedAt, player.UpdatedAt,
	)
	return err
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, discord_name, points, created_at, updated_at
		FROM players WHERE id = ?`, id)
	return scanPlayer(row)
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, discord_name, points, created_at, updated_at
		FROM players WHERE name = ?`, name)
	return scanPlayer(row)
}

func (r *PlayerRepository) UpdateName(ctx context.Context, id, name string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE players SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id,
	)
	return err
}

// AdjustPoints applies delta to a player's total, clamping the result at
// zero, and returns the new total.
func (r *PlayerRepository) AdjustPoints(ctx context.Context, id string, delta int) (int, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE players SET points = MAX(0, points + ?), updated_at = ? WHERE id = ?`,
		delta, time.Now(), id,
	)
	if err != nil {
		return 0, err
	}

	var points int
	if err := r.db.QueryRowContext(ctx,
		`SELECT points FROM players WHERE id = ?`, id).Scan(&points); err != nil {
		return 0, err
	}

	r.logger.Debug().
		Str("player_id", id).
		Int("delta", delta).
		Int("points", points).
		Msg("points adjusted")

	return points, nil
}

// List returns players in leaderboard order: points descending, ties broken
// by registration order.
func (r *PlayerRepository) List(ctx context.Context, limit int) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, discord_name, points, created_at, updated_at
		FROM players
		ORDER BY points DESC, created_at ASC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.DiscordName, &p.Points,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	return count, err
}

func scanPlayer(row *sql.Row) (*domain.Player, error) {
	var p domain.Player
	if err := row.Scan(&p.ID, &p.Name, &p.DiscordName, &p.Points,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
