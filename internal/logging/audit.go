package logging

import (
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType names a session event worth keeping a structured record of.
type AuditEventType string

const (
	AuditSessionStart AuditEventType = "session_start"
	AuditSessionReset AuditEventType = "session_reset"

	AuditMoveAccepted AuditEventType = "move_accepted"
	AuditMoveRejected AuditEventType = "move_rejected"

	AuditPhaseChange AuditEventType = "phase_change"

	AuditLLMRequest  AuditEventType = "llm_request"
	AuditLLMResponse AuditEventType = "llm_response"
	AuditLLMError    AuditEventType = "llm_error"

	AuditSnapshotExport AuditEventType = "snapshot_export"
	AuditSnapshotImport AuditEventType = "snapshot_import"
)

// AuditLogger writes structured audit events through the category loggers.
type AuditLogger struct {
	sessionID string
}

// AuditWithSession creates an audit logger scoped to a session
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// SessionID returns the session the logger is scoped to.
func (a *AuditLogger) SessionID() string {
	return a.sessionID
}

func (a *AuditLogger) log(category Category, event AuditEventType, fields ...zap.Field) {
	l := Get(category)
	fields = append(fields, zap.String("event", string(event)))
	if a.sessionID != "" {
		fields = append(fields, zap.String("session", a.sessionID))
	}
	l.sugar.Desugar().Info("audit", fields...)
}

// SessionStart records a new session.
func (a *AuditLogger) SessionStart(initialCoins, catalogSize int) {
	a.log(CategoryWorkflow, AuditSessionStart,
		zap.Int("coins", initialCoins),
		zap.Int("catalog_size", catalogSize))
}

// SessionReset records a reset and the phase it was issued from.
func (a *AuditLogger) SessionReset(from string) {
	a.log(CategoryWorkflow, AuditSessionReset, zap.String("from", from))
}

// Move records an accepted or rejected move.
func (a *AuditLogger) Move(tokenID, source, target string, balance int, reason string) {
	if reason == "" {
		a.log(CategoryAllocation, AuditMoveAccepted,
			zap.String("token", tokenID),
			zap.String("source", source),
			zap.String("target", target),
			zap.Int("balance", balance))
		return
	}
	a.log(CategoryAllocation, AuditMoveRejected,
		zap.String("token", tokenID),
		zap.String("source", source),
		zap.String("target", target),
		zap.Int("balance", balance),
		zap.String("reason", reason))
}

// PhaseChange records a workflow transition.
func (a *AuditLogger) PhaseChange(from, to string, epoch uint64) {
	a.log(CategoryWorkflow, AuditPhaseChange,
		zap.String("from", from),
		zap.String("to", to),
		zap.Uint64("epoch", epoch))
}

// LLMCall records the outcome of a generator call.
func (a *AuditLogger) LLMCall(operation, model string, duration time.Duration, err error) {
	if err != nil {
		a.log(CategoryAPI, AuditLLMError,
			zap.String("operation", operation),
			zap.String("model", model),
			zap.Duration("duration", duration),
			zap.Error(err))
		return
	}
	a.log(CategoryAPI, AuditLLMResponse,
		zap.String("operation", operation),
		zap.String("model", model),
		zap.Duration("duration", duration))
}

// SnapshotOp records an export or import.
func (a *AuditLogger) SnapshotOp(event AuditEventType, path string, err error) {
	fields := []zap.Field{zap.String("path", path), zap.Bool("success", err == nil)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	a.log(CategorySnapshot, event, fields...)
}
