package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStaleResponse is returned when a completion arrives for a request
	// the machine no longer waits for.
	ErrStaleResponse = errors.New("stale response")
	// ErrFrozen is returned for allocation or profile edits after selection.
	ErrFrozen = errors.New("selection is frozen")
	// ErrWrongPhase is returned when an operation is not valid in the
	// current phase.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
)

// GuardReason names the guard that refused a transition.
type GuardReason string

const (
	GuardTooFewSelections    GuardReason = "too_few_selections"
	GuardMissingMBTI         GuardReason = "missing_mbti"
	GuardMissingAge          GuardReason = "missing_age"
	GuardUnansweredQuestions GuardReason = "unanswered_questions"
)

// GuardError reports a refused transition. Missing lists the unanswered
// question ids for GuardUnansweredQuestions.
type GuardError struct {
	Reason  GuardReason
	Need    int
	Have    int
	Missing []string
}

func (e *GuardError) Error() string {
	switch e.Reason {
	case GuardTooFewSelections:
		return fmt.Sprintf("guard %s: need %d placed tokens, have %d", e.Reason, e.Need, e.Have)
	case GuardUnansweredQuestions:
		return fmt.Sprintf("guard %s: %s", e.Reason, strings.Join(e.Missing, ", "))
	}
	return "guard " + string(e.Reason)
}

// GuardReasonOf extracts the guard reason from err.
func GuardReasonOf(err error) (GuardReason, bool) {
	var g *GuardError
	if errors.As(err, &g) {
		return g.Reason, true
	}
	return "", false
}

func wrongPhase(op string, p Phase) error {
	return fmt.Errorf("%w: %s in %s", ErrWrongPhase, op, p)
}
