package generator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"matebuilder/internal/allocation"
	"matebuilder/internal/profile"
	"matebuilder/internal/quiz"
	"matebuilder/internal/usage"
)

type fakeModels struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	calls    int
	prompts  []string
	configs  []*genai.GenerateContentConfig
	model    string
	blocking bool
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.model = model
	f.configs = append(f.configs, config)
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	}
	blocking := f.blocking
	f.mu.Unlock()

	if blocking {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	text := ""
	if i < len(f.replies) {
		text = f.replies[i]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     11,
			CandidatesTokenCount: 7,
		},
	}, nil
}

func testGemini(f *fakeModels, tracker *usage.Tracker) *Gemini {
	g := newGemini(f, GeminiConfig{MaxRetries: 2, Tracker: tracker, Timeout: time.Second})
	g.backoff = time.Millisecond
	return g
}

func sampleSelection() allocation.Summary {
	return allocation.Summary{
		MustHave:    []string{"诚实善良"},
		Bonus:       []string{"会做饭"},
		DealBreaker: []string{"出轨"},
		Flaw:        []string{"抽烟"},
	}
}

func TestGemini_GenerateQuestions(t *testing.T) {
	f := &fakeModels{replies: []string{`[{"id":"q1","question":"Q?","options":[{"id":"a","text":"A"}]}]`}}
	tracker := usage.NewTracker(0)
	g := testGemini(f, tracker)

	qs, err := g.GenerateQuestions(context.Background(), QuestionRequest{
		Profile:   profile.Profile{MBTI: "INTJ", Age: "28", Gender: "female"},
		Selection: sampleSelection(),
	})
	require.NoError(t, err)
	require.Len(t, qs, 1)

	assert.Equal(t, "gemini-2.5-flash", f.model)
	assert.Equal(t, "application/json", f.configs[0].ResponseMIMEType)
	require.NotNil(t, f.configs[0].ResponseSchema)
	assert.Equal(t, genai.TypeArray, f.configs[0].ResponseSchema.Type)
	assert.Contains(t, f.prompts[0], "Generate 5 multiple-choice questions")
	assert.Contains(t, f.prompts[0], "诚实善良")
	assert.Contains(t, f.prompts[0], "MBTI: INTJ")

	stats := tracker.Stats()
	assert.Equal(t, int64(18), stats.ByOperation[usage.OperationQuestions].Total)
}

func TestGemini_RetriesTransientErrors(t *testing.T) {
	f := &fakeModels{
		errs:    []error{errors.New("503"), errors.New("429")},
		replies: []string{"", "", `{"personaTitle":"T","analysis":"A","advice":"B","tags":[]}`},
	}
	g := testGemini(f, nil)

	r, err := g.GenerateReport(context.Background(), ReportRequest{
		Profile:   profile.Profile{MBTI: "ENFP", Age: "30", Gender: "male"},
		Selection: sampleSelection(),
		Answers:   []quiz.Pair{{Question: "Q1", Answer: "A1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "T", r.Title)
	assert.Equal(t, 3, f.calls)
	assert.Contains(t, f.prompts[2], "Q: Q1 A: A1")
	assert.Contains(t, f.prompts[2], "男")
}

func TestGemini_GivesUpAsUnavailable(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeModels{errs: []error{boom, boom, boom}}
	g := testGemini(f, nil)

	_, err := g.GenerateMatch(context.Background(), MatchRequest{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, f.calls)
}

func TestGemini_EmptyAndMalformed(t *testing.T) {
	g := testGemini(&fakeModels{replies: []string{"   "}}, nil)
	_, err := g.GenerateReport(context.Background(), ReportRequest{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	g = testGemini(&fakeModels{replies: []string{`{"score":500,"title":"","analysis":"","warning":""}`}}, nil)
	_, err = g.GenerateMatch(context.Background(), MatchRequest{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGemini_Cancellation(t *testing.T) {
	f := &fakeModels{blocking: true}
	g := testGemini(f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := g.GenerateQuestions(ctx, QuestionRequest{})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("GenerateQuestions did not return after cancel")
	}
	assert.Equal(t, 1, f.calls, "no retry after cancellation")
}

func TestGemini_UsesContextTracker(t *testing.T) {
	f := &fakeModels{replies: []string{`{"score":80,"title":"T","analysis":"A","warning":"W"}`}}
	g := testGemini(f, nil)
	tracker := usage.NewTracker(0)

	ctx := usage.WithSession(usage.NewContext(context.Background(), tracker), "s1")
	m, err := g.GenerateMatch(ctx, MatchRequest{
		Mine:   Party{Gender: "female", MBTI: "INFJ", MustHave: []string{"x"}},
		Theirs: Party{Gender: "male", MBTI: "ESTP", DealBreaker: []string{"y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 80, m.Score)
	assert.Equal(t, int64(18), tracker.Stats().BySession["s1"].Total)
	assert.Contains(t, f.prompts[0], "User A (female, INFJ)")
	assert.Contains(t, f.prompts[0], "User B (male, ESTP)")
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}
