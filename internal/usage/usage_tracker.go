// Package usage keeps per-session token accounting for collaborator calls.
// Nothing is persisted; the counters live as long as the process.
package usage

import (
	"context"
	"sync"
	"time"
)

type contextKey struct{}

type sessionKey struct{}

const unknownSession = "unknown"

// Tracker aggregates usage events in memory.
type Tracker struct {
	mu        sync.Mutex
	events    []UsageEvent
	aggregate AggregatedStats
	maxEvents int
	now       func() time.Time
}

// NewTracker creates an empty tracker that keeps at most maxEvents raw events
// (the aggregates are unbounded). maxEvents <= 0 keeps 256.
func NewTracker(maxEvents int) *Tracker {
	if maxEvents <= 0 {
		maxEvents = 256
	}
	return &Tracker{
		maxEvents: maxEvents,
		now:       time.Now,
		aggregate: AggregatedStats{
			ByProvider:  make(map[string]TokenCounts),
			ByModel:     make(map[string]TokenCounts),
			ByOperation: make(map[string]TokenCounts),
			BySession:   make(map[string]TokenCounts),
		},
	}
}

// Track records a new usage event. The session id is read from ctx.
func (t *Tracker) Track(ctx context.Context, model, provider string, input, output int, operation string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sessionID := SessionFromContext(ctx)

	t.aggregate.Total.Add(input, output)
	t.aggregate.Calls++
	addToMap(t.aggregate.ByProvider, provider, input, output)
	addToMap(t.aggregate.ByModel, model, input, output)
	addToMap(t.aggregate.ByOperation, operation, input, output)
	addToMap(t.aggregate.BySession, sessionID, input, output)

	t.events = append(t.events, UsageEvent{
		Timestamp:     t.now(),
		Model:         model,
		Provider:      provider,
		InputTokens:   input,
		OutputTokens:  output,
		SessionID:     sessionID,
		OperationType: operation,
	})
	if over := len(t.events) - t.maxEvents; over > 0 {
		t.events = append([]UsageEvent(nil), t.events[over:]...)
	}
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.aggregate
	stats.ByProvider = copyTokenCountsMap(stats.ByProvider)
	stats.ByModel = copyTokenCountsMap(stats.ByModel)
	stats.ByOperation = copyTokenCountsMap(stats.ByOperation)
	stats.BySession = copyTokenCountsMap(stats.BySession)
	return stats
}

// Events returns the retained raw events, oldest first.
func (t *Tracker) Events() []UsageEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]UsageEvent(nil), t.events...)
}

func copyTokenCountsMap(src map[string]TokenCounts) map[string]TokenCounts {
	if src == nil {
		return nil
	}
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}

// Context Helpers

// NewContext returns a new context carrying the tracker.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext retrieves the tracker from the context.
func FromContext(ctx context.Context) *Tracker {
	val := ctx.Value(contextKey{})
	if val == nil {
		return nil
	}
	return val.(*Tracker)
}

// WithSession tags ctx with a session id.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFromContext returns the session id set by WithSession, or "unknown".
func SessionFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey{}).(string); ok && id != "" {
		return id
	}
	return unknownSession
}
