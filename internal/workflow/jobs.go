package workflow

import (
	"context"
	"errors"
	"fmt"

	"matebuilder/internal/generator"
	"matebuilder/internal/logging"
	"matebuilder/internal/match"
	"matebuilder/internal/quiz"
	"matebuilder/internal/snapshot"
)

// Ticket identifies an outstanding collaborator request. Completions carrying
// a ticket whose epoch or phase no longer matches are discarded.
type Ticket struct {
	Epoch uint64
	Phase Phase
}

// Job is a collaborator request issued by a Begin call. The caller runs the
// request with Context and hands the result to the matching Complete call.
type Job[Req any] struct {
	Ticket  Ticket
	Request Req
	ctx     context.Context
}

// Context is cancelled when the job becomes stale.
func (j Job[Req]) Context() context.Context {
	if j.ctx == nil {
		return context.Background()
	}
	return j.ctx
}

type (
	QuizJob   = Job[generator.QuestionRequest]
	ReportJob = Job[generator.ReportRequest]
	MatchJob  = Job[generator.MatchRequest]
)

// =============================================================================
// QUIZ
// =============================================================================

// BeginQuiz freezes the selection and profile and requests quiz questions.
func (m *Machine) BeginQuiz(ctx context.Context) (QuizJob, error) {
	m.mu.Lock()
	if m.phase != PhaseSelecting {
		phase := m.phase
		m.mu.Unlock()
		return QuizJob{}, wrongPhase("quiz", phase)
	}
	if err := m.quizGuardLocked(); err != nil {
		m.mu.Unlock()
		logging.WorkflowDebug("quiz refused: %v", err)
		return QuizJob{}, err
	}

	m.lastErr = nil
	t, jobCtx, ev := m.beginLocked(ctx, PhaseQuizLoading)
	job := QuizJob{
		Ticket: t,
		Request: generator.QuestionRequest{
			Profile:   m.profile,
			Selection: m.state.Summary(),
			Count:     m.questionCount,
		},
		ctx: jobCtx,
	}
	m.mu.Unlock()

	m.emit(ev)
	return job, nil
}

// CompleteQuiz applies the quiz response. A failed or invalid response is
// replaced by the built-in fallback quiz; the session always reaches
// PhaseQuizAnswering unless the ticket is stale.
func (m *Machine) CompleteQuiz(t Ticket, questions []quiz.Question, genErr error) error {
	m.mu.Lock()
	if err := m.settleLocked(t); err != nil {
		m.mu.Unlock()
		return err
	}

	origin := quiz.OriginGenerated
	if genErr == nil {
		genErr = quiz.Validate(questions)
	}
	if genErr != nil {
		logging.WorkflowWarn("quiz generation failed, using fallback: %v", genErr)
		questions = quiz.Fallback()
		origin = quiz.OriginFallback
	}

	m.questions = quiz.Clone(questions)
	m.origin = origin
	m.answers = make(quiz.Answers, len(questions))
	m.lastErr = genErr
	events := []Event{m.transitionLocked(PhaseQuizAnswering, nil)}
	if genErr != nil {
		events = append(events, Event{Type: EventFailed, From: PhaseQuizLoading, To: PhaseQuizAnswering, Epoch: m.epoch, Err: genErr})
	}
	m.mu.Unlock()

	m.emit(events...)
	return nil
}

// RunQuiz performs BeginQuiz, the collaborator call and CompleteQuiz.
func (m *Machine) RunQuiz(ctx context.Context) error {
	job, err := m.BeginQuiz(ctx)
	if err != nil {
		return err
	}
	questions, genErr := m.gen.GenerateQuestions(job.Context(), job.Request)
	return m.CompleteQuiz(job.Ticket, questions, genErr)
}

// Answer records an option for a question.
func (m *Machine) Answer(questionID, optionID string) error {
	m.mu.Lock()
	if m.phase != PhaseQuizAnswering {
		phase := m.phase
		m.mu.Unlock()
		return wrongPhase("answer", phase)
	}
	if err := m.answers.Record(m.questions, questionID, optionID); err != nil {
		m.mu.Unlock()
		return err
	}
	ev := Event{Type: EventAnswered, From: m.phase, To: m.phase, Epoch: m.epoch}
	m.mu.Unlock()

	m.emit(ev)
	return nil
}

// =============================================================================
// REPORT
// =============================================================================

// BeginReport freezes the answers and requests the report.
func (m *Machine) BeginReport(ctx context.Context) (ReportJob, error) {
	m.mu.Lock()
	if m.phase != PhaseQuizAnswering {
		phase := m.phase
		m.mu.Unlock()
		return ReportJob{}, wrongPhase("report", phase)
	}
	if !m.answers.Complete(m.questions) {
		missing := m.answers.Missing(m.questions)
		m.mu.Unlock()
		return ReportJob{}, &GuardError{Reason: GuardUnansweredQuestions, Missing: missing}
	}

	m.lastErr = nil
	t, jobCtx, ev := m.beginLocked(ctx, PhaseReportLoading)
	job := ReportJob{
		Ticket: t,
		Request: generator.ReportRequest{
			Profile:   m.profile,
			Selection: m.state.Summary(),
			Answers:   m.answers.Pairs(m.questions),
		},
		ctx: jobCtx,
	}
	m.mu.Unlock()

	m.emit(ev)
	return job, nil
}

// CompleteReport applies the report response. On failure the session goes
// back to PhaseSelecting with the allocation and profile intact and the
// quiz discarded; the failure is returned and kept in View().Err.
func (m *Machine) CompleteReport(t Ticket, report generator.Report, genErr error) error {
	m.mu.Lock()
	if err := m.settleLocked(t); err != nil {
		m.mu.Unlock()
		return err
	}

	if genErr != nil {
		m.questions = nil
		m.origin = ""
		m.answers = nil
		m.report = nil
		m.lastErr = genErr
		events := []Event{
			m.transitionLocked(PhaseSelecting, genErr),
			{Type: EventFailed, From: PhaseReportLoading, To: PhaseSelecting, Epoch: m.epoch, Err: genErr},
		}
		m.mu.Unlock()

		m.emit(events...)
		return fmt.Errorf("report generation failed: %w", genErr)
	}

	r := report.Clone()
	m.report = &r
	ev := m.transitionLocked(PhaseReportReady, nil)
	m.mu.Unlock()

	m.emit(ev)
	return nil
}

// RunReport performs BeginReport, the collaborator call and CompleteReport.
func (m *Machine) RunReport(ctx context.Context) error {
	job, err := m.BeginReport(ctx)
	if err != nil {
		return err
	}
	report, genErr := m.gen.GenerateReport(job.Context(), job.Request)
	return m.CompleteReport(job.Ticket, report, genErr)
}

// =============================================================================
// MATCH
// =============================================================================

// BeginMatch reconciles a partner snapshot with the local session and
// requests a compatibility verdict. A malformed partner snapshot is
// rejected without changing phase.
func (m *Machine) BeginMatch(ctx context.Context, theirs snapshot.Snapshot) (MatchJob, error) {
	m.mu.Lock()
	if m.phase != PhaseReportReady && m.phase != PhaseMatchReady {
		phase := m.phase
		m.mu.Unlock()
		return MatchJob{}, wrongPhase("match", phase)
	}
	mine := snapshot.Build(m.profile, m.state, m.report)
	req, err := match.Reconcile(mine, theirs)
	if err != nil {
		m.mu.Unlock()
		return MatchJob{}, err
	}
	return m.beginMatchLocked(ctx, req), nil
}

// BeginMatchBytes is BeginMatch for an encoded partner snapshot.
func (m *Machine) BeginMatchBytes(ctx context.Context, raw []byte) (MatchJob, error) {
	m.mu.Lock()
	if m.phase != PhaseReportReady && m.phase != PhaseMatchReady {
		phase := m.phase
		m.mu.Unlock()
		return MatchJob{}, wrongPhase("match", phase)
	}
	mine := snapshot.Build(m.profile, m.state, m.report)
	req, _, err := match.ReconcileBytes(mine, raw)
	if err != nil {
		m.mu.Unlock()
		return MatchJob{}, err
	}
	return m.beginMatchLocked(ctx, req), nil
}

// beginMatchLocked is entered with m.mu held and releases it.
func (m *Machine) beginMatchLocked(ctx context.Context, req generator.MatchRequest) MatchJob {
	m.lastErr = nil
	m.match = nil
	partner := req.Theirs
	m.partner = &partner
	t, jobCtx, ev := m.beginLocked(ctx, PhaseMatchUploading)
	m.mu.Unlock()

	m.emit(ev)
	return MatchJob{Ticket: t, Request: req, ctx: jobCtx}
}

// CompleteMatch applies the match response. On failure the session returns
// to PhaseReportReady with the report intact.
func (m *Machine) CompleteMatch(t Ticket, result generator.MatchResult, genErr error) error {
	m.mu.Lock()
	if err := m.settleLocked(t); err != nil {
		m.mu.Unlock()
		return err
	}

	if genErr == nil && (result.Score < 0 || result.Score > 100) {
		genErr = fmt.Errorf("%w: score %d out of range", generator.ErrMalformedResponse, result.Score)
	}
	if genErr != nil {
		m.match = nil
		m.partner = nil
		m.lastErr = genErr
		events := []Event{
			m.transitionLocked(PhaseReportReady, genErr),
			{Type: EventFailed, From: PhaseMatchUploading, To: PhaseReportReady, Epoch: m.epoch, Err: genErr},
		}
		m.mu.Unlock()

		m.emit(events...)
		return fmt.Errorf("match generation failed: %w", genErr)
	}

	m.match = &result
	ev := m.transitionLocked(PhaseMatchReady, nil)
	m.mu.Unlock()

	m.emit(ev)
	return nil
}

// RunMatch performs BeginMatch, the collaborator call and CompleteMatch.
func (m *Machine) RunMatch(ctx context.Context, theirs snapshot.Snapshot) error {
	job, err := m.BeginMatch(ctx, theirs)
	if err != nil {
		return err
	}
	return m.runMatch(job)
}

// RunMatchBytes is RunMatch for an encoded partner snapshot.
func (m *Machine) RunMatchBytes(ctx context.Context, raw []byte) error {
	job, err := m.BeginMatchBytes(ctx, raw)
	if err != nil {
		return err
	}
	return m.runMatch(job)
}

func (m *Machine) runMatch(job MatchJob) error {
	result, genErr := m.gen.GenerateMatch(job.Context(), job.Request)
	return m.CompleteMatch(job.Ticket, result, genErr)
}

// IsStale reports whether err is a discarded completion.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleResponse)
}
