package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type errorBody struct {
	Error string `json:"error"`
}

type gameBody struct {
	games.Game
	MaxQuestions int `json:"max_questions"`
}

type llmRequestBody struct {
	Sequence     int64     `json:"sequence"`
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `json:"purpose"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	LatencyMs    int64     `json:"latency_ms"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listGames(c *gin.Context) {
	all := games.All()
	out := make([]gameBody, len(all))
	for i, g := range all {
		out[i] = gameBody{Game: g, MaxQuestions: g.MaxQuestions()}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listRounds(c *gin.Context) {
	limit, ok := s.limit(c, defaultLimit)
	if !ok {
		return
	}
	gameID, ok := s.gameFilter(c)
	if !ok {
		return
	}

	rounds, err := s.repo.ListRounds(c.Request.Context(), store.RoundQuery{
		QueryOpts: store.QueryOpts{Limit: limit},
		GameID:    gameID,
	})
	if err != nil {
		s.internal(c, err)
		return
	}
	if rounds == nil {
		rounds = []store.Round{}
	}
	c.JSON(http.StatusOK, rounds)
}

func (s *Server) getRound(c *gin.Context) {
	detail, err := s.repo.GetRound(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorBody{Error: "round not found"})
		return
	}
	if err != nil {
		s.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) gameStats(c *gin.Context) {
	stats, err := s.repo.GameStats(c.Request.Context())
	if err != nil {
		s.internal(c, err)
		return
	}
	if stats == nil {
		stats = []store.GameStat{}
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) missedItems(c *gin.Context) {
	limit, ok := s.limit(c, store.DefaultMissedLimit)
	if !ok {
		return
	}
	gameID, ok := s.gameFilter(c)
	if !ok {
		return
	}

	items, err := s.repo.MissedItems(c.Request.Context(), gameID, limit)
	if err != nil {
		s.internal(c, err)
		return
	}
	if items == nil {
		items = []store.MissedItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) llmRequests(c *gin.Context) {
	limit, ok := s.limit(c, defaultLimit)
	if !ok {
		return
	}
	events, err := s.repo.QueryLLMEvents(c.Request.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		s.internal(c, err)
		return
	}
	out := make([]llmRequestBody, len(events))
	for i, e := range events {
		out[i] = llmRequestBody{
			Sequence:     e.Sequence,
			Timestamp:    e.Timestamp,
			Provider:     e.Provider,
			Model:        e.Model,
			Purpose:      e.Purpose,
			InputTokens:  e.InputTokens,
			OutputTokens: e.OutputTokens,
			LatencyMs:    e.LatencyMs,
			Success:      e.Success,
			Error:        e.ErrorMessage,
		}
	}
	c.JSON(http.StatusOK, out)
}

// limit parses ?limit=, writing a 400 and returning false when it is not
// a positive integer. Values above maxLimit are clamped.
func (s *Server) limit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
		return 0, false
	}
	return min(n, maxLimit), true
}

// gameFilter validates ?game= against the catalog. Empty means all games.
func (s *Server) gameFilter(c *gin.Context) (string, bool) {
	id := c.Query("game")
	if id == "" {
		return "", true
	}
	g, err := games.Lookup(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		return "", false
	}
	return g.ID, true
}

func (s *Server) internal(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
}
