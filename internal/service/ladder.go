package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fightback-bot/internal/constants"
	"fightback-bot/internal/domain"
	"fightback-bot/internal/ranking"
	"fightback-bot/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LadderService owns all writes to the player and match stores. Every
// mutating command runs in a single transaction, so players and matches can
// never drift apart.
type LadderService struct {
	db      *sql.DB
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	history *repository.PointHistoryRepository
	logger  zerolog.Logger
}

func NewLadderService(
	db *sql.DB,
	players *repository.PlayerRepository,
	matches *repository.MatchRepository,
	history *repository.PointHistoryRepository,
	logger zerolog.Logger,
) *LadderService {
	return &LadderService{
		db:      db,
		players: players,
		matches: matches,
		history: history,
		logger:  logger,
	}
}

func (s *LadderService) Register(ctx context.Context, playerID, name, discordName string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	s.logger.Info().Str("player_id", playerID).Str("name", name).Msg("registering player")

	if _, err := s.players.Get(ctx, playerID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}

	if other, err := s.players.GetByName(ctx, name); err == nil && other != nil {
		return nil, domain.ErrNameTaken
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check name: %w", err)
	}

	now := time.Now()
	player := &domain.Player{
		ID:          playerID,
		Name:        name,
		DiscordName: discordName,
		Points:      0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.players.Create(ctx, player); err != nil {
		s.logger.Error().Err(err).Str("player_id", playerID).Msg("failed to create player")
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	s.logger.Info().Str("player_id", playerID).Str("name", name).Msg("player registered")
	return player, nil
}

func (s *LadderService) Rename(ctx context.Context, playerID, newName string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	player, err := s.players.Get(ctx, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if other, err := s.players.GetByName(ctx, newName); err == nil && other.ID != playerID {
		return nil, domain.ErrNameTaken
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check name: %w", err)
	}

	if err := s.players.UpdateName(ctx, playerID, newName); err != nil {
		return nil, fmt.Errorf("failed to rename player: %w", err)
	}

	s.logger.Info().
		Str("player_id", playerID).
		Str("old_name", player.Name).
		Str("new_name", newName).
		Msg("player renamed")

	player.Name = newName
	return player, nil
}

// ResolveName maps a display name to its player. Names are unique, so the
// lookup is unambiguous.
func (s *LadderService) ResolveName(ctx context.Context, name string) (*domain.Player, error) {
	player, err := s.players.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlayerNotRegistered
		}
		return nil, fmt.Errorf("failed to resolve name: %w", err)
	}
	return player, nil
}

// RecordMatch appends a match between the two named players and applies the
// resulting point changes. The whole operation is one transaction.
func (s *LadderService) RecordMatch(ctx context.Context, name1, name2 string, score1, score2 int) (*MatchReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	if score1 < 0 || score2 < 0 {
		return nil, domain.ErrInvalidScore
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	players := s.players.WithTx(tx)
	matches := s.matches.WithTx(tx)
	history := s.history.WithTx(tx)

	p1, err := resolve(ctx, players, name1)
	if err != nil {
		return nil, err
	}
	p2, err := resolve(ctx, players, name2)
	if err != nil {
		return nil, err
	}
	if p1.ID == p2.ID {
		return nil, domain.ErrSamePlayer
	}

	count, err := matches.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}
	number := count + 1

	after1, after2, err := s.applyOutcome(ctx, players, p1, p2, score1, score2)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	match := &domain.Match{
		Number:        number,
		Player1ID:     p1.ID,
		Player2ID:     p2.ID,
		Score1:        score1,
		Score2:        score2,
		Points1Before: p1.Points,
		Points2Before: p2.Points,
		Delta1:        after1 - p1.Points,
		Delta2:        after2 - p2.Points,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := matches.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	if err := recordChanges(ctx, history, match, domain.ChangeSourceRecord); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	s.logger.Info().
		Int("match_number", number).
		Str("player1", p1.Name).
		Str("player2", p2.Name).
		Int("score1", score1).
		Int("score2", score2).
		Int("delta1", match.Delta1).
		Int("delta2", match.Delta2).
		Msg("match recorded")

	return buildReport(match, p1, p2, false), nil
}

// EditMatch replaces a match's participants and scores. The original point
// changes are reverted exactly (the applied deltas are stored on the row),
// then the new result is applied against current totals. All validation
// happens before any state is touched, and the whole edit commits atomically.
func (s *LadderService) EditMatch(ctx context.Context, number int, name1, name2 string, score1, score2 int) (*MatchReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	if number <= 0 {
		return nil, domain.ErrInvalidMatchNumber
	}
	if score1 < 0 || score2 < 0 {
		return nil, domain.ErrInvalidScore
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	players := s.players.WithTx(tx)
	matches := s.matches.WithTx(tx)
	history := s.history.WithTx(tx)

	match, err := matches.Get(ctx, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	new1, err := resolve(ctx, players, name1)
	if err != nil {
		return nil, err
	}
	new2, err := resolve(ctx, players, name2)
	if err != nil {
		return nil, err
	}
	if new1.ID == new2.ID {
		return nil, domain.ErrSamePlayer
	}

	// Reversion: subtract exactly what was applied at record time.
	if err := s.revertMatch(ctx, players, history, match); err != nil {
		return nil, err
	}

	// Reversion may have touched the new participants; re-read their totals.
	new1, err = players.Get(ctx, new1.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload player: %w", err)
	}
	new2, err = players.Get(ctx, new2.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload player: %w", err)
	}

	after1, after2, err := s.applyOutcome(ctx, players, new1, new2, score1, score2)
	if err != nil {
		return nil, err
	}

	match.Player1ID = new1.ID
	match.Player2ID = new2.ID
	match.Score1 = score1
	match.Score2 = score2
	match.Points1Before = new1.Points
	match.Points2Before = new2.Points
	match.Delta1 = after1 - new1.Points
	match.Delta2 = after2 - new2.Points

	if err := matches.Update(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	if err := recordChanges(ctx, history, match, domain.ChangeSourceEditApply); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit edit: %w", err)
	}

	s.logger.Info().
		Int("match_number", number).
		Str("player1", new1.Name).
		Str("player2", new2.Name).
		Int("score1", score1).
		Int("score2", score2).
		Msg("match edited")

	return buildReport(match, new1, new2, true), nil
}

// History returns the most recent limit matches in insertion order.
func (s *LadderService) History(ctx context.Context, limit int) ([]MatchSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.HistoryLimit
	}

	matches, err := s.matches.Latest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	summaries := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		summary := MatchSummary{
			MatchNumber:   m.Number,
			Score1:        m.Score1,
			Score2:        m.Score2,
			Points1Before: m.Points1Before,
			Points1After:  m.Points1Before + m.Delta1,
			Points2Before: m.Points2Before,
			Points2After:  m.Points2Before + m.Delta2,
		}

		if p, err := s.players.Get(ctx, m.Player1ID); err == nil {
			summary.Player1Name = p.Name
		}
		if p, err := s.players.Get(ctx, m.Player2ID); err == nil {
			summary.Player2Name = p.Name
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *LadderService) Rank(ctx context.Context, playerID string) (*PlayerRank, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.players.Get(ctx, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &PlayerRank{
		PlayerID: player.ID,
		Name:     player.Name,
		Points:   player.Points,
		Tier:     ranking.TierFor(player.Points),
	}, nil
}

// Leaderboard returns the top limit players by points, ties broken by
// registration order, plus the total number of recorded matches.
func (s *LadderService) Leaderboard(ctx context.Context, limit int) (*Leaderboard, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.LeaderboardLimit
	}

	var (
		players      []domain.Player
		totalMatches int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.players.List(gctx, limit)
		return err
	})
	g.Go(func() error {
		var err error
		totalMatches, err = s.matches.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	board := &Leaderboard{TotalMatches: totalMatches}
	for i, p := range players {
		board.Entries = append(board.Entries, LeaderboardEntry{
			Position: i + 1,
			PlayerID: p.ID,
			Name:     p.Name,
			Points:   p.Points,
			Tier:     ranking.TierFor(p.Points),
		})
	}
	return board, nil
}

// PlayerHistory returns a player's recent point changes, newest first.
func (s *LadderService) PlayerHistory(ctx context.Context, playerID string, limit int) ([]domain.PointChange, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.PlayerHistoryLimit
	}

	if _, err := s.players.Get(ctx, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return s.history.ListByPlayer(ctx, playerID, limit)
}

// grantedDeltas returns the point changes the rules grant for a result,
// before clamping, in participant order. Ties award a flat amount to both
// sides and never reach the calculator.
func grantedDeltas(points1, points2, score1, score2 int) (int, int) {
	switch {
	case score1 > score2:
		bonus, penalty := ranking.Delta(points1, points2, score1-score2)
		return bonus, penalty
	case score2 > score1:
		bonus, penalty := ranking.Delta(points2, points1, score2-score1)
		return penalty, bonus
	default:
		return ranking.TiePoints, ranking.TiePoints
	}
}

// applyOutcome grants the result's point changes to both players and returns
// their new totals (already clamped at zero by the store).
func (s *LadderService) applyOutcome(ctx context.Context, players *repository.PlayerRepository, p1, p2 *domain.Player, score1, score2 int) (int, int, error) {
	granted1, granted2 := grantedDeltas(p1.Points, p2.Points, score1, score2)

	after1, err := players.AdjustPoints(ctx, p1.ID, granted1)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to adjust points: %w", err)
	}
	after2, err := players.AdjustPoints(ctx, p2.ID, granted2)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to adjust points: %w", err)
	}
	return after1, after2, nil
}

// revertMatch subtracts the match's stored applied deltas from its original
// participants. A player clamped at zero when the match was recorded has a
// stored delta of zero and is untouched.
func (s *LadderService) revertMatch(ctx context.Context, players *repository.PlayerRepository, history *repository.PointHistoryRepository, match *domain.Match) error {
	now := time.Now()
	for _, side := range []struct {
		playerID string
		delta    int
	}{
		{match.Player1ID, match.Delta1},
		{match.Player2ID, match.Delta2},
	} {
		before, err := players.Get(ctx, side.playerID)
		if err != nil {
			return fmt.Errorf("failed to load original participant: %w", err)
		}
		after, err := players.AdjustPoints(ctx, side.playerID, -side.delta)
		if err != nil {
			return fmt.Errorf("failed to revert points: %w", err)
		}
		err = history.Insert(ctx, &domain.PointChange{
			MatchNumber:  match.Number,
			PlayerID:     side.playerID,
			PointsBefore: before.Points,
			PointsAfter:  after,
			Change:       after - before.Points,
			Source:       domain.ChangeSourceEditRevert,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("failed to record reversion: %w", err)
		}
	}
	return nil
}

func recordChanges(ctx context.Context, history *repository.PointHistoryRepository, match *domain.Match, source string) error {
	now := time.Now()
	for _, side := range []struct {
		playerID string
		before   int
		delta    int
	}{
		{match.Player1ID, match.Points1Before, match.Delta1},
		{match.Player2ID, match.Points2Before, match.Delta2},
	} {
		err := history.Insert(ctx, &domain.PointChange{
			MatchNumber:  match.Number,
			PlayerID:     side.playerID,
			PointsBefore: side.before,
			PointsAfter:  side.before + side.delta,
			Change:       side.delta,
			Source:       source,
			CreatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("failed to record point change: %w", err)
		}
	}
	return nil
}

func resolve(ctx context.Context, players *repository.PlayerRepository, name string) (*domain.Player, error) {
	player, err := players.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlayerNotRegistered
		}
		return nil, fmt.Errorf("failed to resolve name: %w", err)
	}
	return player, nil
}

func buildReport(match *domain.Match, p1, p2 *domain.Player, edited bool) *MatchReport {
	return &MatchReport{
		MatchNumber: match.Number,
		Edited:      edited,
		Player1: PlayerOutcome{
			PlayerID:     p1.ID,
			Name:         p1.Name,
			Score:        match.Score1,
			PointsBefore: match.Points1Before,
			PointsAfter:  match.Points1Before + match.Delta1,
			TierBefore:   ranking.TierFor(match.Points1Before),
			TierAfter:    ranking.TierFor(match.Points1Before + match.Delta1),
		},
		Player2: PlayerOutcome{
			PlayerID:     p2.ID,
			Name:         p2.Name,
			Score:        match.Score2,
			PointsBefore: match.Points2Before,
			PointsAfter:  match.Points2Before + match.Delta2,
			TierBefore:   ranking.TierFor(match.Points2Before),
			TierAfter:    ranking.TierFor(match.Points2Before + match.Delta2),
		},
	}
}
