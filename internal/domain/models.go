package domain

import (
	"time"
)

// Player is a registered ladder participant. ID is the Discord user id.
type Player struct {
	ID          string
	Name        string
	DiscordName string
	Points      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Match is one recorded result between two distinct players. Number is
// assigned at creation and never changes, even across edits.
//
// Points1Before/Points2Before and Delta1/Delta2 hold, per participant, the
// point total going into the match and the point change actually applied
// (after clamping at zero). Edits revert by subtracting the stored deltas,
// so reversion is always exact.
type Match struct {
	Number        int
	Player1ID     string
	Player2ID     string
	Score1        int
	Score2        int
	Points1Before int
	Points2Before int
	Delta1        int
	Delta2        int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PointChange is one applied (or reverted) point adjustment, kept as an
// audit trail alongside the match rows.
type PointChange struct {
	ID           string // nanoid
	MatchNumber  int
	PlayerID     string
	PointsBefore int
	PointsAfter  int
	Change       int
	Source       string
	CreatedAt    time.Time
}

const (
	ChangeSourceRecord     = "record"
	ChangeSourceEditRevert = "edit-revert"
	ChangeSourceEditApply  = "edit-apply"
)
