package usage

import "time"

// Operation names the collaborator call a usage event belongs to.
const (
	OperationQuestions = "questions"
	OperationReport    = "report"
	OperationMatch     = "match"
)

// UsageEvent represents a single collaborator call.
type UsageEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	Model         string    `json:"model"`
	Provider      string    `json:"provider"`
	InputTokens   int       `json:"input_tokens"`
	OutputTokens  int       `json:"output_tokens"`
	SessionID     string    `json:"session_id"`
	OperationType string    `json:"operation_type"` // questions, report, match
}

// AggregatedStats holds counters broken down by various dimensions.
type AggregatedStats struct {
	Total       TokenCounts            `json:"total"`
	Calls       int                    `json:"calls"`
	ByProvider  map[string]TokenCounts `json:"by_provider"`
	ByModel     map[string]TokenCounts `json:"by_model"`
	ByOperation map[string]TokenCounts `json:"by_operation"`
	BySession   map[string]TokenCounts `json:"by_session"`
}

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

func (tc *TokenCounts) Add(input, output int) {
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}
