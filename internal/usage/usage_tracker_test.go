package usage

import (
	"context"
	"testing"
)

func TestTracker_TrackAggregates(t *testing.T) {
	tracker := NewTracker(0)

	ctx := WithSession(context.Background(), "sess_1")
	tracker.Track(ctx, "gemini-2.5-flash", "gemini", 10, 5, OperationQuestions)
	tracker.Track(ctx, "gemini-2.5-flash", "gemini", 2, 3, OperationReport)

	stats := tracker.Stats()
	if stats.Total.Input != 12 || stats.Total.Output != 8 || stats.Total.Total != 20 {
		t.Fatalf("Total=%+v, want input=12 output=8 total=20", stats.Total)
	}
	if stats.Calls != 2 {
		t.Fatalf("Calls=%d, want 2", stats.Calls)
	}
	if got := stats.ByProvider["gemini"]; got.Total != 20 {
		t.Fatalf("ByProvider[gemini]=%+v, want total=20", got)
	}
	if got := stats.ByModel["gemini-2.5-flash"]; got.Total != 20 {
		t.Fatalf("ByModel=%+v, want total=20", got)
	}
	if got := stats.ByOperation[OperationReport]; got.Total != 5 {
		t.Fatalf("ByOperation[report]=%+v, want total=5", got)
	}
	if got := stats.BySession["sess_1"]; got.Total != 20 {
		t.Fatalf("BySession[sess_1]=%+v, want total=20", got)
	}
}

func TestTracker_StatsIsACopy(t *testing.T) {
	tracker := NewTracker(0)
	tracker.Track(context.Background(), "m", "p", 1, 1, OperationMatch)

	stats := tracker.Stats()
	stats.ByModel["m"] = TokenCounts{}

	if got := tracker.Stats().ByModel["m"]; got.Total != 2 {
		t.Fatalf("tracker state mutated through Stats copy: %+v", got)
	}
	if got := tracker.Stats().BySession[unknownSession]; got.Total != 2 {
		t.Fatalf("BySession[unknown]=%+v, want total=2", got)
	}
}

func TestTracker_EventsAreBounded(t *testing.T) {
	tracker := NewTracker(2)
	for i := 0; i < 5; i++ {
		tracker.Track(context.Background(), "m", "p", i, 0, OperationQuestions)
	}
	events := tracker.Events()
	if len(events) != 2 {
		t.Fatalf("len(events)=%d, want 2", len(events))
	}
	if events[0].InputTokens != 3 || events[1].InputTokens != 4 {
		t.Fatalf("kept wrong events: %+v", events)
	}
	if tracker.Stats().Calls != 5 {
		t.Fatalf("aggregate lost calls")
	}
}

func TestTracker_ContextHelpers(t *testing.T) {
	tracker := NewTracker(0)

	ctx := NewContext(context.Background(), tracker)
	if got := FromContext(ctx); got != tracker {
		t.Fatalf("FromContext mismatch")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("FromContext on empty context = %v, want nil", got)
	}
	if got := SessionFromContext(context.Background()); got != unknownSession {
		t.Fatalf("SessionFromContext = %q", got)
	}
}
