package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are newest first.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Purpose   string    // LLM events only
	SessionID string    // quiz events only
}

// LLMRequestEventData captures a single LLM request.
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

// LLMEvent is a stored LLM request.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM requests for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM requests for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QuizEventData captures one quiz lifecycle step. Student details and
// the submitted result record are not stored.
type QuizEventData struct {
	SessionID string
	Action    string
	Lesson    string
	Score     int
	Total     int
	Detail    string
}

// QuizEvent is a stored quiz lifecycle step.
type QuizEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizEventData
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents lists LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates tokens and latency per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates tokens per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendQuizEvent records a quiz lifecycle event.
	AppendQuizEvent(ctx context.Context, data QuizEventData) error

	// QueryQuizEvents lists quiz events, newest first.
	QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEvent, error)
}
