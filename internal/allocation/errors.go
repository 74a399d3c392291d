package allocation

import (
	"errors"
	"fmt"
)

// Reason classifies a rejected move.
type Reason string

const (
	ReasonWrongPolarity     Reason = "wrong_polarity"
	ReasonCapacityExceeded  Reason = "capacity_exceeded"
	ReasonInsufficientFunds Reason = "insufficient_funds"
	ReasonInvalidState      Reason = "invalid_state"
)

var (
	ErrWrongPolarity     = errors.New("token polarity not accepted by bucket")
	ErrCapacityExceeded  = errors.New("bucket is full")
	ErrInsufficientFunds = errors.New("insufficient coins")
	ErrInvalidState      = errors.New("invalid move")
)

func (r Reason) sentinel() error {
	switch r {
	case ReasonWrongPolarity:
		return ErrWrongPolarity
	case ReasonCapacityExceeded:
		return ErrCapacityExceeded
	case ReasonInsufficientFunds:
		return ErrInsufficientFunds
	default:
		return ErrInvalidState
	}
}

// RejectionError describes why a move was refused. The state is unchanged
// whenever one is returned.
type RejectionError struct {
	Reason  Reason
	TokenID string
	Source  Bucket
	Target  Bucket
	Detail  string
}

func (e *RejectionError) Error() string {
	msg := fmt.Sprintf("move %s %s -> %s rejected: %v", e.TokenID, e.Source, e.Target, e.Reason.sentinel())
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is lets errors.Is match the per-reason sentinels.
func (e *RejectionError) Is(target error) bool {
	return target == e.Reason.sentinel()
}

// ReasonOf extracts the rejection reason from err.
func ReasonOf(err error) (Reason, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

func reject(reason Reason, m Move, format string, args ...any) error {
	return &RejectionError{
		Reason:  reason,
		TokenID: m.TokenID,
		Source:  m.Source,
		Target:  m.Target,
		Detail:  fmt.Sprintf(format, args...),
	}
}
