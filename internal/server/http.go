package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"fightback-bot/internal/constants"
	"fightback-bot/internal/domain"
	"fightback-bot/internal/service"

	"github.com/rs/zerolog"
)

// LadderServer exposes read-only JSON views of the ladder. All writes go
// through the chat gateway.
type LadderServer struct {
	ladder *service.LadderService
	logger zerolog.Logger
}

func NewLadderServer(ladder *service.LadderService, logger zerolog.Logger) *LadderServer {
	return &LadderServer{ladder: ladder, logger: logger}
}

func (s *LadderServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/players/{name}", s.handlePlayer)
	return mux
}

type leaderboardEntryResponse struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Tier     string `json:"tier"`
}

type leaderboardResponse struct {
	Entries      []leaderboardEntryResponse `json:"entries"`
	TotalMatches int                        `json:"total_matches"`
}

func (s *LadderServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.ladder.Leaderboard(r.Context(), constants.LeaderboardLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := leaderboardResponse{
		Entries:      []leaderboardEntryResponse{},
		TotalMatches: board.TotalMatches,
	}
	for _, e := range board.Entries {
		resp.Entries = append(resp.Entries, leaderboardEntryResponse{
			Position: e.Position,
			Name:     e.Name,
			Points:   e.Points,
			Tier:     string(e.Tier),
		})
	}
	s.writeJSON(w, resp)
}

type matchSummaryResponse struct {
	MatchNumber   int    `json:"match_number"`
	Player1       string `json:"player1"`
	Player2       string `json:"player2"`
	Score1        int    `json:"score1"`
	Score2        int    `json:"score2"`
	Points1Before int    `json:"points1_before"`
	Points1After  int    `json:"points1_after"`
	Points2Before int    `json:"points2_before"`
	Points2After  int    `json:"points2_after"`
}

func (s *LadderServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.ladder.History(r.Context(), constants.HistoryLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := []matchSummaryResponse{}
	for _, m := range history {
		resp = append(resp, matchSummaryResponse{
			MatchNumber:   m.MatchNumber,
			Player1:       m.Player1Name,
			Player2:       m.Player2Name,
			Score1:        m.Score1,
			Score2:        m.Score2,
			Points1Before: m.Points1Before,
			Points1After:  m.Points1After,
			Points2Before: m.Points2Before,
			Points2After:  m.Points2After,
		})
	}
	s.writeJSON(w, resp)
}

type playerResponse struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Tier   string `json:"tier"`
}

func (s *LadderServer) handlePlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.ladder.ResolveName(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rank, err := s.ladder.Rank(r.Context(), player.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, playerResponse{
		Name:   rank.Name,
		Points: rank.Points,
		Tier:   string(rank.Tier),
	})
}

func (s *LadderServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *LadderServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrPlayerNotRegistered),
		errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrMatchNotFound):
		status = http.StatusNotFound
	}

	s.logger.Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
