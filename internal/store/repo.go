package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// RoundQuery filters ListRounds.
type RoundQuery struct {
	QueryOpts
	GameID string
}

// RoundStartData is recorded when a set begins.
type RoundStartData struct {
	RoundID         string
	GameID          string
	Topic           string
	Attempt         int
	PlayAgain       bool
	SetIndex        int
	RequiredCorrect int
	MaxQuestions    int
	StartedAt       time.Time
}

// RoundEndData is recorded when a set ends.
type RoundEndData struct {
	RoundID       string
	TotalAnswered int
	Correct       int
	Incorrect     int
	Reason        string
	Successful    bool
	Deferred      int
	BestStreak    int
	EndedAt       time.Time
}

// AnswerEventData captures one answered question.
type AnswerEventData struct {
	RoundID    string
	Number     int
	ItemKey    string
	Operand1   int
	Operand2   int
	Expected   int
	Prompt     string
	Given      string
	Correct    bool
	Retry      bool
	ResponseMs int64
	AnsweredAt time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// Round is a stored round with its outcome, if it has ended.
type Round struct {
	ID              string     `json:"id"`
	Sequence        int64      `json:"sequence"`
	GameID          string     `json:"game_id"`
	Topic           string     `json:"topic"`
	Attempt         int        `json:"attempt"`
	PlayAgain       bool       `json:"play_again"`
	SetIndex        int        `json:"set_index"`
	RequiredCorrect int        `json:"required_correct"`
	MaxQuestions    int        `json:"max_questions"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	TotalAnswered   int        `json:"total_answered"`
	Correct         int        `json:"correct"`
	Incorrect       int        `json:"incorrect"`
	Reason          string     `json:"reason,omitempty"`
	Successful      bool       `json:"successful"`
	Deferred        int        `json:"deferred"`
	BestStreak      int        `json:"best_streak"`
}

// Answer is a stored answer event.
type Answer struct {
	Sequence   int64     `json:"sequence"`
	Number     int       `json:"number"`
	ItemKey    string    `json:"item_key"`
	Operand1   int       `json:"operand1"`
	Operand2   int       `json:"operand2"`
	Expected   int       `json:"expected"`
	Prompt     string    `json:"prompt,omitempty"`
	Given      string    `json:"given"`
	Correct    bool      `json:"correct"`
	Retry      bool      `json:"retry"`
	ResponseMs int64     `json:"response_ms"`
	AnsweredAt time.Time `json:"answered_at"`
}

// RoundDetail is a round with every answer given in it.
type RoundDetail struct {
	Round
	Answers []Answer `json:"answers"`
}

// GameStat aggregates every recorded round of one game.
type GameStat struct {
	GameID     string    `json:"game_id"`
	Rounds     int       `json:"rounds"`
	Completed  int       `json:"completed"`
	Successful int       `json:"successful"`
	Answers    int       `json:"answers"`
	Correct    int       `json:"correct"`
	Accuracy   float64   `json:"accuracy"`
	LastPlayed time.Time `json:"last_played"`
}

// MissedItem is an item ranked by how often it was answered wrong.
type MissedItem struct {
	GameID   string `json:"game_id"`
	ItemKey  string `json:"item_key"`
	Operand1 int    `json:"operand1"`
	Operand2 int    `json:"operand2"`
	Expected int    `json:"expected"`
	Prompt   string `json:"prompt,omitempty"`
	Misses   int    `json:"misses"`
	Attempts int    `json:"attempts"`
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	LLMRequestEventData
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendRoundStart records the start of a set.
	AppendRoundStart(ctx context.Context, data RoundStartData) error

	// AppendRoundEnd records the outcome of a set.
	AppendRoundEnd(ctx context.Context, data RoundEndData) error

	// AppendAnswer records one answered question.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// ReadRepo answers the dashboard queries over recorded rounds.
type ReadRepo interface {
	ListRounds(ctx context.Context, q RoundQuery) ([]Round, error)
	GetRound(ctx context.Context, id string) (*RoundDetail, error)
	GameStats(ctx context.Context) ([]GameStat, error)
	MissedItems(ctx context.Context, gameID string, limit int) ([]MissedItem, error)
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
}

var (
	_ EventRepo = (*Store)(nil)
	_ ReadRepo  = (*Store)(nil)
)
