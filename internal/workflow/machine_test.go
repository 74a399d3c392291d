package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"matebuilder/internal/allocation"
	"matebuilder/internal/catalog"
	"matebuilder/internal/generator"
	"matebuilder/internal/logging"
	"matebuilder/internal/profile"
	"matebuilder/internal/quiz"
	"matebuilder/internal/snapshot"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, which starts a stats worker at init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fakeGen struct {
	questions []quiz.Question
	qErr      error
	report    generator.Report
	rErr      error
	match     generator.MatchResult
	mErr      error

	mu       sync.Mutex
	lastQ    generator.QuestionRequest
	lastR    generator.ReportRequest
	lastM    generator.MatchRequest
	requests int
}

func (f *fakeGen) GenerateQuestions(ctx context.Context, req generator.QuestionRequest) ([]quiz.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = req
	f.requests++
	return f.questions, f.qErr
}

func (f *fakeGen) GenerateReport(ctx context.Context, req generator.ReportRequest) (generator.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastR = req
	f.requests++
	return f.report, f.rErr
}

func (f *fakeGen) GenerateMatch(ctx context.Context, req generator.MatchRequest) (generator.MatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastM = req
	f.requests++
	return f.match, f.mErr
}

var twoQuestions = []quiz.Question{
	{ID: "q1", Text: "first?", Options: []quiz.Option{{ID: "a", Text: "yes"}, {ID: "b", Text: "no"}}},
	{ID: "q2", Text: "second?", Options: []quiz.Option{{ID: "a", Text: "left"}, {ID: "b", Text: "right"}}},
}

func testEngine(t *testing.T) *allocation.Engine {
	t.Helper()
	cat := catalog.MustNew([]catalog.Token{
		{ID: "p1", Label: "kind", Weight: 1, Polarity: catalog.PolarityPositive},
		{ID: "p2", Label: "rich", Weight: 2, Polarity: catalog.PolarityPositive},
		{ID: "p3", Label: "funny", Weight: 1, Polarity: catalog.PolarityPositive},
		{ID: "n1", Label: "lazy", Weight: 1, Polarity: catalog.PolarityNegative},
		{ID: "n2", Label: "cheats", Weight: 2, Polarity: catalog.PolarityNegative},
	})
	e, err := allocation.NewEngine(cat, allocation.DefaultRules())
	require.NoError(t, err)
	return e
}

func newMachine(t *testing.T, gen generator.Collaborator) *Machine {
	t.Helper()
	p := profile.Profile{MBTI: "intj", Age: "28", Gender: profile.GenderFemale}
	return New(testEngine(t), gen, Options{SessionID: "test", Profile: &p})
}

func place(t *testing.T, m *Machine) {
	t.Helper()
	for _, mv := range []allocation.Move{
		{TokenID: "p1", Source: allocation.Pool, Target: allocation.MustHave},
		{TokenID: "p2", Source: allocation.Pool, Target: allocation.Bonus},
		{TokenID: "n1", Source: allocation.Pool, Target: allocation.DealBreaker},
	} {
		_, err := m.Move(mv.TokenID, mv.Source, mv.Target)
		require.NoError(t, err)
	}
}

func answerAll(t *testing.T, m *Machine) {
	t.Helper()
	for _, q := range m.View().Questions {
		require.NoError(t, m.Answer(q.ID, q.Options[0].ID))
	}
}

func TestNew_Defaults(t *testing.T) {
	m := New(testEngine(t), &fakeGen{}, Options{})
	v := m.View()

	assert.Equal(t, PhaseSelecting, v.Phase)
	assert.Equal(t, DefaultMinSelections, v.MinSelections)
	assert.NotEmpty(t, v.SessionID)
	assert.Equal(t, 20, v.State.Balance())
	assert.Equal(t, profile.DefaultGender, v.Profile.Gender)
}

func TestBeginQuiz_TooFewSelections(t *testing.T) {
	gen := &fakeGen{questions: twoQuestions}
	m := newMachine(t, gen)
	_, err := m.Move("p1", allocation.Pool, allocation.MustHave)
	require.NoError(t, err)
	_, err = m.Move("p2", allocation.Pool, allocation.Bonus)
	require.NoError(t, err)

	err = m.RunQuiz(context.Background())
	var guard *GuardError
	require.True(t, errors.As(err, &guard))
	assert.Equal(t, GuardTooFewSelections, guard.Reason)
	assert.Equal(t, 3, guard.Need)
	assert.Equal(t, 2, guard.Have)
	assert.Equal(t, PhaseSelecting, m.View().Phase)
	assert.Zero(t, gen.requests)
}

func TestBeginQuiz_GuardOrder(t *testing.T) {
	m := New(testEngine(t), &fakeGen{}, Options{})
	assert.Equal(t, GuardTooFewSelections, reasonOf(m.CheckQuizGuard()))

	place(t, m)
	assert.Equal(t, GuardMissingMBTI, reasonOf(m.CheckQuizGuard()))

	require.NoError(t, m.SetProfile(profile.Profile{MBTI: "enfp"}))
	assert.Equal(t, GuardMissingAge, reasonOf(m.CheckQuizGuard()))

	require.NoError(t, m.SetProfile(profile.Profile{MBTI: "enfp", Age: "30"}))
	assert.NoError(t, m.CheckQuizGuard())
	assert.Equal(t, "ENFP", m.View().Profile.MBTI)
}

func reasonOf(err error) GuardReason {
	r, _ := GuardReasonOf(err)
	return r
}

func TestFullSession(t *testing.T) {
	gen := &fakeGen{
		questions: twoQuestions,
		report:    generator.Report{Title: "Pragmatist", Narrative: "n", Advice: "a", Tags: []string{"x"}},
		match:     generator.MatchResult{Score: 77, Title: "Good", Narrative: "m"},
	}
	m := newMachine(t, gen)
	place(t, m)
	ctx := context.Background()

	require.NoError(t, m.RunQuiz(ctx))
	v := m.View()
	assert.Equal(t, PhaseQuizAnswering, v.Phase)
	assert.Equal(t, quiz.OriginGenerated, v.Origin)
	assert.Equal(t, 5, gen.lastQ.Count)
	assert.Equal(t, []string{"kind"}, gen.lastQ.Selection.MustHave)
	assert.Equal(t, "INTJ", gen.lastQ.Profile.MBTI)

	require.NoError(t, m.Answer("q1", "b"))
	err := m.RunReport(ctx)
	var guard *GuardError
	require.True(t, errors.As(err, &guard))
	assert.Equal(t, []string{"q2"}, guard.Missing)

	require.NoError(t, m.Answer("q2", "a"))
	require.NoError(t, m.RunReport(ctx))
	assert.Equal(t, []quiz.Pair{{Question: "first?", Answer: "no"}, {Question: "second?", Answer: "left"}}, gen.lastR.Answers)

	v = m.View()
	assert.Equal(t, PhaseReportReady, v.Phase)
	require.NotNil(t, v.Report)
	assert.Equal(t, "Pragmatist", v.Report.Title)

	snap, err := m.ExportSnapshot()
	require.NoError(t, err)
	require.NoError(t, snapshot.Validate(snap))
	assert.Equal(t, "Pragmatist", snap.Analysis.Title)

	partner := snapshot.Build(profile.Profile{MBTI: "ESTP", Age: "31", Gender: profile.GenderMale}, testEngine(t).Initial(), nil)
	require.NoError(t, m.RunMatch(ctx, partner))
	v = m.View()
	assert.Equal(t, PhaseMatchReady, v.Phase)
	require.NotNil(t, v.Match)
	assert.Equal(t, 77, v.Match.Score)
	assert.Equal(t, "ESTP", gen.lastM.Theirs.MBTI)
	assert.Equal(t, []string{"kind"}, gen.lastM.Mine.MustHave)

	// a second partner may be compared from MatchReady
	require.NoError(t, m.RunMatch(ctx, partner))
	assert.Equal(t, PhaseMatchReady, m.View().Phase)
}

func TestCompleteQuiz_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGen
	}{
		{"collaborator error", &fakeGen{qErr: generator.ErrUnavailable}},
		{"empty quiz", &fakeGen{}},
		{"invalid quiz", &fakeGen{questions: []quiz.Question{{ID: "q1", Text: "?"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t, tt.gen)
			place(t, m)
			require.NoError(t, m.RunQuiz(context.Background()))

			v := m.View()
			assert.Equal(t, PhaseQuizAnswering, v.Phase)
			assert.Equal(t, quiz.OriginFallback, v.Origin)
			assert.Equal(t, quiz.Fallback(), v.Questions)
			assert.Error(t, v.Err)
		})
	}
}

func TestOfflineCollaborator_UsesFallbackQuiz(t *testing.T) {
	m := newMachine(t, generator.Offline{})
	place(t, m)
	ctx := context.Background()

	require.NoError(t, m.RunQuiz(ctx))
	assert.Equal(t, quiz.OriginFallback, m.View().Origin)
	answerAll(t, m)
	require.NoError(t, m.RunReport(ctx))
	assert.Equal(t, generator.OfflineReport.Title, m.View().Report.Title)
}

func TestFrozenSelection(t *testing.T) {
	m := newMachine(t, &fakeGen{questions: twoQuestions})
	place(t, m)
	before := m.View().State

	job, err := m.BeginQuiz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseQuizLoading, m.View().Phase)

	_, err = m.Move("p3", allocation.Pool, allocation.Bonus)
	assert.ErrorIs(t, err, ErrFrozen)
	assert.ErrorIs(t, err, allocation.ErrInvalidState)
	assert.ErrorIs(t, m.SetProfile(profile.Profile{MBTI: "ENTP", Age: "20"}), ErrFrozen)

	require.NoError(t, m.CompleteQuiz(job.Ticket, twoQuestions, nil))
	_, err = m.Move("p3", allocation.Pool, allocation.Bonus)
	assert.ErrorIs(t, err, ErrFrozen)

	v := m.View()
	assert.True(t, v.State.Equal(before))
	assert.Equal(t, "INTJ", v.Profile.MBTI)
}

func TestStaleResponseAfterReset(t *testing.T) {
	gen := &fakeGen{questions: twoQuestions}
	m := newMachine(t, gen)
	place(t, m)

	job, err := m.BeginQuiz(context.Background())
	require.NoError(t, err)
	m.Reset()

	assert.ErrorIs(t, job.Context().Err(), context.Canceled)
	err = m.CompleteQuiz(job.Ticket, twoQuestions, nil)
	assert.True(t, IsStale(err))

	v := m.View()
	assert.Equal(t, PhaseSelecting, v.Phase)
	assert.Empty(t, v.Questions)
	assert.Equal(t, 0, v.State.Placed())
	assert.Equal(t, 20, v.State.Balance())
	assert.Equal(t, "INTJ", v.Profile.MBTI, "reset keeps the profile")
}

func TestStaleResponseAfterRestart(t *testing.T) {
	m := newMachine(t, &fakeGen{})
	place(t, m)

	first, err := m.BeginQuiz(context.Background())
	require.NoError(t, err)
	m.Reset()
	place(t, m)
	second, err := m.BeginQuiz(context.Background())
	require.NoError(t, err)

	assert.True(t, IsStale(m.CompleteQuiz(first.Ticket, twoQuestions, nil)))
	assert.Equal(t, PhaseQuizLoading, m.View().Phase)
	require.NoError(t, m.CompleteQuiz(second.Ticket, twoQuestions, nil))
	assert.True(t, IsStale(m.CompleteQuiz(second.Ticket, twoQuestions, nil)), "a ticket completes once")
}

func TestReportFailure_ReturnsToSelecting(t *testing.T) {
	m := newMachine(t, &fakeGen{questions: twoQuestions, rErr: generator.ErrUnavailable})
	place(t, m)
	before := m.View().State
	ctx := context.Background()

	require.NoError(t, m.RunQuiz(ctx))
	answerAll(t, m)
	err := m.RunReport(ctx)
	assert.ErrorIs(t, err, generator.ErrUnavailable)

	v := m.View()
	assert.Equal(t, PhaseSelecting, v.Phase)
	assert.True(t, v.State.Equal(before))
	assert.Empty(t, v.Questions)
	assert.Nil(t, v.Answers)
	assert.ErrorIs(t, v.Err, generator.ErrUnavailable)

	_, err = m.Move("p3", allocation.Pool, allocation.Bonus)
	assert.NoError(t, err, "selection is editable again")
}

func TestMatchFailure_KeepsReport(t *testing.T) {
	gen := &fakeGen{questions: twoQuestions, report: generator.Report{Title: "r"}, mErr: generator.ErrMalformedResponse}
	m := newMachine(t, gen)
	place(t, m)
	ctx := context.Background()
	require.NoError(t, m.RunQuiz(ctx))
	answerAll(t, m)
	require.NoError(t, m.RunReport(ctx))

	partner := snapshot.Build(profile.New(), testEngine(t).Initial(), nil)
	partner.Profile.MBTI, partner.Profile.Age = "ISFP", "25"
	err := m.RunMatch(ctx, partner)
	assert.ErrorIs(t, err, generator.ErrMalformedResponse)

	v := m.View()
	assert.Equal(t, PhaseReportReady, v.Phase)
	require.NotNil(t, v.Report)
	assert.Equal(t, "r", v.Report.Title)
	assert.Nil(t, v.Match)
}

func TestMatch_OutOfRangeScoreIsFailure(t *testing.T) {
	gen := &fakeGen{questions: twoQuestions, match: generator.MatchResult{Score: 140}}
	m := newMachine(t, gen)
	place(t, m)
	ctx := context.Background()
	require.NoError(t, m.RunQuiz(ctx))
	answerAll(t, m)
	require.NoError(t, m.RunReport(ctx))

	partner := snapshot.Build(profile.Profile{MBTI: "ISFP", Age: "25"}, testEngine(t).Initial(), nil)
	assert.ErrorIs(t, m.RunMatch(ctx, partner), generator.ErrMalformedResponse)
	assert.Equal(t, PhaseReportReady, m.View().Phase)
}

func TestMatch_MalformedPartnerKeepsPhase(t *testing.T) {
	gen := &fakeGen{questions: twoQuestions}
	m := newMachine(t, gen)
	place(t, m)
	ctx := context.Background()
	require.NoError(t, m.RunQuiz(ctx))
	answerAll(t, m)
	require.NoError(t, m.RunReport(ctx))
	calls := gen.requests

	for _, raw := range []string{`not json`, `[]`, `{"profile":{"mbti":"INTP"}}`} {
		err := m.RunMatchBytes(ctx, []byte(raw))
		assert.ErrorIs(t, err, snapshot.ErrMalformed, raw)
		assert.Equal(t, PhaseReportReady, m.View().Phase)
	}
	assert.Equal(t, calls, gen.requests, "collaborator not called")
}

func TestWrongPhase(t *testing.T) {
	m := newMachine(t, &fakeGen{})

	assert.ErrorIs(t, m.Answer("q1", "a"), ErrWrongPhase)
	_, err := m.BeginReport(context.Background())
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = m.BeginMatchBytes(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = m.ExportSnapshot()
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestAnswer_Validation(t *testing.T) {
	m := newMachine(t, &fakeGen{questions: twoQuestions})
	place(t, m)
	require.NoError(t, m.RunQuiz(context.Background()))

	assert.ErrorIs(t, m.Answer("q9", "a"), quiz.ErrUnknownQuestion)
	assert.ErrorIs(t, m.Answer("q1", "z"), quiz.ErrUnknownOption)
	require.NoError(t, m.Answer("q1", "a"))
	require.NoError(t, m.Answer("q1", "b"))
	assert.Equal(t, "b", m.View().Answers["q1"])
}

func TestListeners(t *testing.T) {
	m := newMachine(t, &fakeGen{qErr: generator.ErrUnavailable})

	var (
		mu     sync.Mutex
		events []Event
	)
	m.AddListener(ListenerFunc(func(e Event) {
		// listeners run without the machine lock held
		_ = m.View()
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))

	place(t, m)
	require.NoError(t, m.RunQuiz(context.Background()))
	m.Reset()

	mu.Lock()
	defer mu.Unlock()
	var types []EventType
	for _, e := range events {
		types = append(types, e.Type)
		assert.False(t, e.Timestamp.IsZero())
	}
	assert.Equal(t, []EventType{
		EventSelectionChanged, EventSelectionChanged, EventSelectionChanged,
		EventPhaseChanged, EventPhaseChanged, EventFailed, EventPhaseChanged,
	}, types)

	last := events[len(events)-1]
	assert.Equal(t, PhaseQuizAnswering, last.From)
	assert.Equal(t, PhaseSelecting, last.To)
}

func TestConcurrentMoves(t *testing.T) {
	m := New(testEngine(t), &fakeGen{}, Options{SessionID: "race"})

	var wg sync.WaitGroup
	for _, id := range []string{"p1", "p2", "p3"} {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _ = m.Move(id, allocation.Pool, allocation.Bonus)
				_, _ = m.Move(id, allocation.Bonus, allocation.Pool)
			}
		}()
	}
	wg.Wait()

	v := m.View()
	assert.Equal(t, 20, v.State.Balance())
	assert.Equal(t, 0, v.State.Placed())
}

func TestMove_LogsToAllocationCategory(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.InitializeWithLogger(zap.New(core))
	t.Cleanup(logging.Close)

	m := newMachine(t, &fakeGen{})
	_, err := m.Move("p1", allocation.Pool, allocation.Bonus)
	require.NoError(t, err)
	_, err = m.Move("p1", allocation.Bonus, allocation.DealBreaker)
	require.Error(t, err)

	moved := logs.FilterLoggerName(string(logging.CategoryAllocation)).FilterMessageSnippet("moved p1")
	require.Equal(t, 1, moved.Len())
	assert.Equal(t, zapcore.InfoLevel, moved.All()[0].Level)
	assert.Equal(t, 1, logs.FilterMessageSnippet("rejected p1").Len())
}
