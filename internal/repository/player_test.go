package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fightback-bot/internal/database"
	"fightback-bot/internal/domain"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

func newTestRepo(t *testing.T) *PlayerRepository {
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

	return NewPlayerRepository(db, log)
}

func createPlayer(t *testing.T, r *PlayerRepository, id, name string, points int) {
	t.Helper()
	now := time.Now()
	err := r.Create(context.Background(), &domain.Player{
		ID:        id,
		Name:      name,
		Points:    points,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
}

func TestAdjustPointsClampsAtZero(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createPlayer(t, r, "1", "Alice", 1)

	got, err := r.AdjustPoints(ctx, "1", -5)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if got != 0 {
		t.Errorf("points after -5 from 1 = %d, want 0", got)
	}

	got, err = r.AdjustPoints(ctx, "1", 7)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if got != 7 {
		t.Errorf("points after +7 from 0 = %d, want 7", got)
	}
}

func TestListOrdersByPointsThenRegistration(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	createPlayer(t, r, "1", "Alice", 10)
	time.Sleep(time.Millisecond) // created_at is the tie-breaker
	createPlayer(t, r, "2", "Bob", 25)
	time.Sleep(time.Millisecond)
	createPlayer(t, r, "3", "Carol", 10)

	players, err := r.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"Bob", "Alice", "Carol"}
	if len(players) != len(want) {
		t.Fatalf("players = %d, want %d", len(players), len(want))
	}
	for i, name := range want {
		if players[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, players[i].Name, name)
		}
	}
}

func TestGetByNameMissing(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetByName(context.Background(), "Nobody")
	if err != sql.ErrNoRows {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}
