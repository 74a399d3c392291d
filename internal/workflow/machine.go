// Package workflow sequences a session: selection, quiz, report and the
// optional match side branch. The Machine is the only component that calls
// the generator collaborator and the only writer of session state.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"matebuilder/internal/allocation"
	"matebuilder/internal/generator"
	"matebuilder/internal/logging"
	"matebuilder/internal/profile"
	"matebuilder/internal/quiz"
	"matebuilder/internal/snapshot"
	"matebuilder/internal/usage"
)

// DefaultMinSelections is the placed-token count required to start the quiz.
const DefaultMinSelections = 3

// Options tunes a Machine.
type Options struct {
	MinSelections int
	QuestionCount int
	// SessionID tags logs and usage records; a random id is used when empty.
	SessionID string
	// Profile seeds the user profile; the zero value means profile.New().
	Profile *profile.Profile
}

// Machine is the session state machine. All methods are safe for concurrent
// use; moves and transitions are serialized by an internal mutex.
type Machine struct {
	engine        *allocation.Engine
	gen           generator.Collaborator
	minSelections int
	questionCount int
	sessionID     string
	audit         *logging.AuditLogger

	mu        sync.Mutex
	phase     Phase
	epoch     uint64
	state     allocation.State
	profile   profile.Profile
	questions []quiz.Question
	origin    quiz.Origin
	answers   quiz.Answers
	report    *generator.Report
	match     *generator.MatchResult
	partner   *generator.Party
	lastErr   error
	cancel    context.CancelFunc
	listeners []Listener
}

// New creates a machine in PhaseSelecting with the engine's initial state.
func New(engine *allocation.Engine, gen generator.Collaborator, opts Options) *Machine {
	if opts.MinSelections <= 0 {
		opts.MinSelections = DefaultMinSelections
	}
	if opts.QuestionCount <= 0 {
		opts.QuestionCount = generator.DefaultQuestionCount
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	p := profile.New()
	if opts.Profile != nil {
		p = opts.Profile.Normalize()
	}

	m := &Machine{
		engine:        engine,
		gen:           gen,
		minSelections: opts.MinSelections,
		questionCount: opts.QuestionCount,
		sessionID:     opts.SessionID,
		audit:         logging.AuditWithSession(opts.SessionID),
		phase:         PhaseSelecting,
		state:         engine.Initial(),
		profile:       p,
	}
	m.audit.SessionStart(m.state.Balance(), engine.Catalog().Len())
	return m
}

// SessionID returns the session id.
func (m *Machine) SessionID() string {
	return m.sessionID
}

// Engine returns the allocation engine.
func (m *Machine) Engine() *allocation.Engine {
	return m.engine
}

// MinSelections returns the placed-token threshold for starting the quiz.
func (m *Machine) MinSelections() int {
	return m.minSelections
}

// AddListener attaches a listener for machine events.
func (m *Machine) AddListener(l Listener) {
	if l == nil {
		return
	}
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

func (m *Machine) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	m.mu.Lock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, e := range events {
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now()
		}
		for _, l := range listeners {
			l.OnWorkflowEvent(e)
		}
	}
}

// transitionLocked moves to phase to and returns the event to emit.
func (m *Machine) transitionLocked(to Phase, err error) Event {
	from := m.phase
	m.phase = to
	m.audit.PhaseChange(string(from), string(to), m.epoch)
	if err != nil {
		logging.WorkflowWarn("%s -> %s (epoch %d): %v", from, to, m.epoch, err)
	} else {
		logging.Workflow("%s -> %s (epoch %d)", from, to, m.epoch)
	}
	return Event{Type: EventPhaseChanged, From: from, To: to, Epoch: m.epoch, Err: err}
}

func (m *Machine) contextFor(ctx context.Context) context.Context {
	return usage.WithSession(ctx, m.sessionID)
}

// beginLocked bumps the epoch, installs a cancellable job context and enters
// the loading phase.
func (m *Machine) beginLocked(ctx context.Context, loading Phase) (Ticket, context.Context, Event) {
	if m.cancel != nil {
		m.cancel()
	}
	m.epoch++
	jobCtx, cancel := context.WithCancel(m.contextFor(ctx))
	m.cancel = cancel
	ev := m.transitionLocked(loading, nil)
	return Ticket{Epoch: m.epoch, Phase: loading}, jobCtx, ev
}

// settleLocked validates a completion ticket and releases the job context.
func (m *Machine) settleLocked(t Ticket) error {
	if t.Epoch != m.epoch || t.Phase != m.phase {
		logging.WorkflowDebug("discarding stale response for %s epoch %d (now %s epoch %d)", t.Phase, t.Epoch, m.phase, m.epoch)
		return ErrStaleResponse
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return nil
}

// =============================================================================
// SELECTION
// =============================================================================

// Move applies an allocation move. Only allowed while selecting.
func (m *Machine) Move(tokenID string, source, target allocation.Bucket) (allocation.State, error) {
	m.mu.Lock()
	if m.phase != PhaseSelecting {
		s := m.state
		phase := m.phase
		m.mu.Unlock()
		return s, fmt.Errorf("%w (%s): %w", ErrFrozen, phase, allocation.ErrInvalidState)
	}

	next, err := m.engine.Move(m.state, tokenID, source, target)
	reason := ""
	if err != nil {
		r, _ := allocation.ReasonOf(err)
		reason = string(r)
		logging.AllocationDebug("rejected %s %s -> %s: %v", tokenID, source, target, err)
	} else {
		m.state = next
		logging.Allocation("moved %s %s -> %s, balance %d", tokenID, source, target, next.Balance())
	}
	m.audit.Move(tokenID, string(source), string(target), next.Balance(), reason)
	ev := Event{Type: EventSelectionChanged, From: m.phase, To: m.phase, Epoch: m.epoch}
	m.mu.Unlock()

	if err != nil {
		return next, err
	}
	m.emit(ev)
	return next, nil
}

// SetProfile replaces the profile. Only allowed while selecting.
func (m *Machine) SetProfile(p profile.Profile) error {
	m.mu.Lock()
	if m.phase != PhaseSelecting {
		phase := m.phase
		m.mu.Unlock()
		return fmt.Errorf("%w (%s): profile is locked", ErrFrozen, phase)
	}
	m.profile = p.Normalize()
	ev := Event{Type: EventSelectionChanged, From: m.phase, To: m.phase, Epoch: m.epoch}
	m.mu.Unlock()

	m.emit(ev)
	return nil
}

// CheckQuizGuard reports why the quiz cannot start, or nil.
func (m *Machine) CheckQuizGuard() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quizGuardLocked()
}

func (m *Machine) quizGuardLocked() error {
	if placed := m.state.Placed(); placed < m.minSelections {
		return &GuardError{Reason: GuardTooFewSelections, Need: m.minSelections, Have: placed}
	}
	for _, field := range m.profile.Missing() {
		switch field {
		case "mbti":
			return &GuardError{Reason: GuardMissingMBTI}
		case "age":
			return &GuardError{Reason: GuardMissingAge}
		}
	}
	return nil
}

// =============================================================================
// RESET
// =============================================================================

// Reset cancels any outstanding request and starts over with a fresh
// allocation. The profile is kept. Reset always succeeds.
func (m *Machine) Reset() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	from := m.phase
	m.epoch++
	m.state = m.engine.Initial()
	m.questions = nil
	m.origin = ""
	m.answers = nil
	m.report = nil
	m.match = nil
	m.partner = nil
	m.lastErr = nil
	m.audit.SessionReset(string(from))
	ev := m.transitionLocked(PhaseSelecting, nil)
	m.mu.Unlock()

	m.emit(ev)
}

// =============================================================================
// VIEW
// =============================================================================

// View is a consistent copy of the machine's observable state.
type View struct {
	SessionID     string
	Phase         Phase
	Epoch         uint64
	State         allocation.State
	Profile       profile.Profile
	MinSelections int
	Questions     []quiz.Question
	Origin        quiz.Origin
	Answers       quiz.Answers
	Report        *generator.Report
	Match         *generator.MatchResult
	Partner       *generator.Party
	// Err is the last collaborator failure, cleared by the next transition
	// out of the phase it was reported in.
	Err error
}

// View returns a snapshot of the machine.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		SessionID:     m.sessionID,
		Phase:         m.phase,
		Epoch:         m.epoch,
		State:         m.state,
		Profile:       m.profile,
		MinSelections: m.minSelections,
		Questions:     quiz.Clone(m.questions),
		Origin:        m.origin,
		Err:           m.lastErr,
	}
	if m.answers != nil {
		v.Answers = m.answers.Clone()
	}
	if m.report != nil {
		r := m.report.Clone()
		v.Report = &r
	}
	if m.match != nil {
		mr := *m.match
		v.Match = &mr
	}
	if m.partner != nil {
		p := *m.partner
		v.Partner = &p
	}
	return v
}

// ExportSnapshot captures the session for sharing. A report must exist.
func (m *Machine) ExportSnapshot() (snapshot.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.phase.HasReport() || m.report == nil {
		return snapshot.Snapshot{}, wrongPhase("export", m.phase)
	}
	return snapshot.Build(m.profile, m.state, m.report), nil
}
