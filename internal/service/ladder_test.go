package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"fightback-bot/internal/database"
	"fightback-bot/internal/domain"
	"fightback-bot/internal/ranking"
	"fightback-bot/internal/repository"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

func newTestService(t *testing.T) *LadderService {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	if err := database.Migrate(db, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewLadderService(
		db,
		repository.NewPlayerRepository(db, log),
		repository.NewMatchRepository(db, log),
		repository.NewPointHistoryRepository(db, log),
		log,
	)
}

func mustRegister(t *testing.T, s *LadderService, id, name string) {
	t.Helper()
	if _, err := s.Register(context.Background(), id, name, name+"#disc"); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
}

func points(t *testing.T, s *LadderService, id string) int {
	t.Helper()
	rank, err := s.Rank(context.Background(), id)
	if err != nil {
		t.Fatalf("rank %s: %v", id, err)
	}
	return rank.Points
}

func TestRegister(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	player, err := s.Register(ctx, "1", "Alice", "alice#0001")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if player.Points != 0 {
		t.Errorf("new player points = %d, want 0", player.Points)
	}

	if _, err := s.Register(ctx, "1", "Alice2", "alice#0001"); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Errorf("re-register err = %v, want ErrAlreadyRegistered", err)
	}
	if _, err := s.Register(ctx, "2", "Alice", "other#0002"); !errors.Is(err, domain.ErrNameTaken) {
		t.Errorf("duplicate name err = %v, want ErrNameTaken", err)
	}
}

func TestRename(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	if _, err := s.Rename(ctx, "3", "Carol"); !errors.Is(err, domain.ErrNotRegistered) {
		t.Errorf("rename unknown err = %v, want ErrNotRegistered", err)
	}
	if _, err := s.Rename(ctx, "1", "Bob"); !errors.Is(err, domain.ErrNameTaken) {
		t.Errorf("rename to taken name err = %v, want ErrNameTaken", err)
	}

	player, err := s.Rename(ctx, "1", "Alicia")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if player.Name != "Alicia" {
		t.Errorf("renamed player = %s, want Alicia", player.Name)
	}
	if _, err := s.ResolveName(ctx, "Alice"); !errors.Is(err, domain.ErrPlayerNotRegistered) {
		t.Errorf("old name should no longer resolve, err = %v", err)
	}
}

func TestRecordMatch(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	report, err := s.RecordMatch(ctx, "Alice", "Bob", 11, 9)
	if err != nil {
		t.Fatalf("record match: %v", err)
	}

	if report.MatchNumber != 1 {
		t.Errorf("match number = %d, want 1", report.MatchNumber)
	}
	if report.Player1.PointsBefore != 0 || report.Player1.PointsAfter != 5 {
		t.Errorf("winner points %d -> %d, want 0 -> 5",
			report.Player1.PointsBefore, report.Player1.PointsAfter)
	}
	if report.Player2.PointsBefore != 0 || report.Player2.PointsAfter != 0 {
		t.Errorf("loser points %d -> %d, want 0 -> 0 (clamped)",
			report.Player2.PointsBefore, report.Player2.PointsAfter)
	}
	if report.Player1.TierBefore != ranking.TierBronze || report.Player1.TierAfter != ranking.TierBronze {
		t.Errorf("both tiers should stay Bronze, got %s -> %s",
			report.Player1.TierBefore, report.Player1.TierAfter)
	}
}

func TestRecordMatchTie(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	report, err := s.RecordMatch(ctx, "Alice", "Bob", 7, 7)
	if err != nil {
		t.Fatalf("record tie: %v", err)
	}
	if report.Player1.PointsAfter != 2 || report.Player2.PointsAfter != 2 {
		t.Errorf("tie points = %d / %d, want 2 / 2",
			report.Player1.PointsAfter, report.Player2.PointsAfter)
	}
}

func TestRecordMatchErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")

	if _, err := s.RecordMatch(ctx, "Alice", "Ghost", 5, 3); !errors.Is(err, domain.ErrPlayerNotRegistered) {
		t.Errorf("unknown opponent err = %v, want ErrPlayerNotRegistered", err)
	}
	if _, err := s.RecordMatch(ctx, "Alice", "Alice", 5, 3); !errors.Is(err, domain.ErrSamePlayer) {
		t.Errorf("same player err = %v, want ErrSamePlayer", err)
	}
	if _, err := s.RecordMatch(ctx, "Alice", "Alice", -1, 3); !errors.Is(err, domain.ErrInvalidScore) {
		t.Errorf("negative score err = %v, want ErrInvalidScore", err)
	}

	// the failed attempts must not have left a match behind
	history, err := s.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history has %d entries after failed records, want 0", len(history))
	}
}

func TestEditMatchSwapsResult(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	if _, err := s.RecordMatch(ctx, "Alice", "Bob", 11, 9); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Alice is at 5, Bob stayed at 0 (his -3 was clamped). Flipping the
	// result reverts exactly what was applied: Alice back to 0, Bob
	// untouched, then Bob wins +5 and Alice's -3 clamps to 0.
	report, err := s.EditMatch(ctx, 1, "Bob", "Alice", 11, 9)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if report.MatchNumber != 1 || !report.Edited {
		t.Errorf("report = #%d edited=%v, want #1 edited=true", report.MatchNumber, report.Edited)
	}
	if got := points(t, s, "2"); got != 5 {
		t.Errorf("Bob points = %d, want 5", got)
	}
	if got := points(t, s, "1"); got != 0 {
		t.Errorf("Alice points = %d, want 0", got)
	}
}

func TestEditMatchTieReversion(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	if _, err := s.RecordMatch(ctx, "Alice", "Bob", 7, 7); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := s.EditMatch(ctx, 1, "Alice", "Bob", 11, 9); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if got := points(t, s, "1"); got != 5 {
		t.Errorf("Alice points = %d, want 5", got)
	}
	if got := points(t, s, "2"); got != 0 {
		t.Errorf("Bob points = %d, want 0", got)
	}
}

func TestEditMatchValidatesBeforeMutating(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	if _, err := s.RecordMatch(ctx, "Alice", "Bob", 11, 9); err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, err := s.EditMatch(ctx, 1, "Alice", "Ghost", 9, 11); !errors.Is(err, domain.ErrPlayerNotRegistered) {
		t.Fatalf("edit with unknown player err = %v, want ErrPlayerNotRegistered", err)
	}

	// a rejected edit must leave points exactly as they were
	if got := points(t, s, "1"); got != 5 {
		t.Errorf("Alice points = %d after failed edit, want 5", got)
	}
	if got := points(t, s, "2"); got != 0 {
		t.Errorf("Bob points = %d after failed edit, want 0", got)
	}
}

func TestEditMatchErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	if _, err := s.EditMatch(ctx, 0, "Alice", "Bob", 1, 0); !errors.Is(err, domain.ErrInvalidMatchNumber) {
		t.Errorf("match number 0 err = %v, want ErrInvalidMatchNumber", err)
	}
	if _, err := s.EditMatch(ctx, 42, "Alice", "Bob", 1, 0); !errors.Is(err, domain.ErrMatchNotFound) {
		t.Errorf("missing match err = %v, want ErrMatchNotFound", err)
	}
}

func TestHistoryShowsExactTransitions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	if _, err := s.RecordMatch(ctx, "Alice", "Bob", 11, 9); err != nil {
		t.Fatalf("record 1: %v", err)
	}
	if _, err := s.RecordMatch(ctx, "Bob", "Alice", 11, 10); err != nil {
		t.Fatalf("record 2: %v", err)
	}

	history, err := s.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}

	first := history[0]
	if first.MatchNumber != 1 || first.Player1Name != "Alice" || first.Player2Name != "Bob" {
		t.Errorf("first entry = #%d %s vs %s, want #1 Alice vs Bob",
			first.MatchNumber, first.Player1Name, first.Player2Name)
	}
	if first.Points1Before != 0 || first.Points1After != 5 {
		t.Errorf("first entry Alice %d -> %d, want 0 -> 5", first.Points1Before, first.Points1After)
	}

	// match 2: Bob (0 pts) beats Alice (5 pts) by 1. Gap 5 is the close
	// band (5,-3), narrow win adjusts to (4,-2): Bob 0 -> 4, Alice 5 -> 3.
	second := history[1]
	if second.Points1Before != 0 || second.Points1After != 4 {
		t.Errorf("second entry Bob %d -> %d, want 0 -> 4", second.Points1Before, second.Points1After)
	}
	if second.Points2Before != 5 || second.Points2After != 3 {
		t.Errorf("second entry Alice %d -> %d, want 5 -> 3", second.Points2Before, second.Points2After)
	}
}

func TestHistoryLimit(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	for i := 0; i < 4; i++ {
		if _, err := s.RecordMatch(ctx, "Alice", "Bob", 7, 7); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	history, err := s.History(ctx, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].MatchNumber != 2 || history[2].MatchNumber != 4 {
		t.Errorf("history range = #%d..#%d, want #2..#4",
			history[0].MatchNumber, history[2].MatchNumber)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")
	mustRegister(t, s, "3", "Carol")

	// Alice beats Carol twice: Alice 10, Carol 0. Bob stays at 0 but
	// registered before Carol, so the tie breaks in his favor.
	for i := 0; i < 2; i++ {
		if _, err := s.RecordMatch(ctx, "Alice", "Carol", 11, 5); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	board, err := s.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if board.TotalMatches != 2 {
		t.Errorf("total matches = %d, want 2", board.TotalMatches)
	}

	want := []string{"Alice", "Bob", "Carol"}
	if len(board.Entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(board.Entries), len(want))
	}
	for i, name := range want {
		if board.Entries[i].Name != name {
			t.Errorf("position %d = %s, want %s", i+1, board.Entries[i].Name, name)
		}
		if board.Entries[i].Position != i+1 {
			t.Errorf("entry %s position = %d, want %d", name, board.Entries[i].Position, i+1)
		}
	}
}

func TestPlayerHistorySources(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustRegister(t, s, "1", "Alice")
	mustRegister(t, s, "2", "Bob")

	if _, err := s.RecordMatch(ctx, "Alice", "Bob", 11, 9); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := s.EditMatch(ctx, 1, "Alice", "Bob", 11, 10); err != nil {
		t.Fatalf("edit: %v", err)
	}

	changes, err := s.PlayerHistory(ctx, "1", 10)
	if err != nil {
		t.Fatalf("player history: %v", err)
	}

	// record, edit-revert, edit-apply
	if len(changes) != 3 {
		t.Fatalf("changes = %d, want 3", len(changes))
	}
	sources := map[string]bool{}
	for _, c := range changes {
		sources[c.Source] = true
	}
	for _, want := range []string{
		domain.ChangeSourceRecord,
		domain.ChangeSourceEditRevert,
		domain.ChangeSourceEditApply,
	} {
		if !sources[want] {
			t.Errorf("missing change source %q", want)
		}
	}

	if _, err := s.PlayerHistory(ctx, "99", 10); !errors.Is(err, domain.ErrNotRegistered) {
		t.Errorf("unknown player err = %v, want ErrNotRegistered", err)
	}
}
