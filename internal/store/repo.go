package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a single-event lookup matches nothing.
var ErrNotFound = errors.New("event not found")

// QueryOpts configures event queries with filtering and pagination.
// Results are ordered newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	SessionID    string
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

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// UsageByPurpose aggregates LLM calls for one purpose.
type UsageByPurpose struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// UsageByModel aggregates LLM calls for one model.
type UsageByModel struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// Session event actions.
const (
	ActionLogin             = "login"
	ActionLogout            = "logout"
	ActionCredentialSet     = "credential-set"
	ActionCredentialCleared = "credential-cleared"
	ActionQuizGraded        = "quiz-graded"
)

// SessionEventData captures a session lifecycle event. Score and Total are
// only meaningful for ActionQuizGraded.
type SessionEventData struct {
	SessionID string
	Action    string
	Mode      string
	Detail    string
	Score     int
	Total     int
}

// SessionEventRecord is a stored session event.
type SessionEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// EventRepo provides append and query access to the usage log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single LLM request event by ID, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates LLM calls per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]UsageByPurpose, error)

	// LLMUsageByModel aggregates LLM calls per model.
	LLMUsageByModel(ctx context.Context) ([]UsageByModel, error)

	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns session events, newest first. An empty
	// sessionID matches every session.
	QuerySessionEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]SessionEventRecord, error)
}
