package service

import (
	"fightback-bot/internal/ranking"
)

// PlayerOutcome describes one side of a recorded match: the score and the
// point/tier transition the match caused.
type PlayerOutcome struct {
	PlayerID     string
	Name         string
	Score        int
	PointsBefore int
	PointsAfter  int
	TierBefore   ranking.Tier
	TierAfter    ranking.Tier
}

// MatchReport is returned by RecordMatch and EditMatch so the caller can
// render the full before/after transition.
type MatchReport struct {
	MatchNumber int
	Edited      bool
	Player1     PlayerOutcome
	Player2     PlayerOutcome
}

// MatchSummary is one history entry. Before/after points come from the
// columns stored on the match row, so the summary is exact regardless of
// anything that happened since.
type MatchSummary struct {
	MatchNumber   int
	Player1Name   string
	Player2Name   string
	Score1        int
	Score2        int
	Points1Before int
	Points1After  int
	Points2Before int
	Points2After  int
}

type LeaderboardEntry struct {
	Position int
	PlayerID string
	Name     string
	Points   int
	Tier     ranking.Tier
}

type Leaderboard struct {
	Entries      []LeaderboardEntry
	TotalMatches int
}

type PlayerRank struct {
	PlayerID string
	Name     string
	Points   int
	Tier     ranking.Tier
}
