// Package logging provides categorized logging for the mate engine, backed by
// zap. Every subsystem logs through its own category so output can be filtered
// per concern. Loggers are no-ops until Initialize is called.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config, catalog loading
	CategoryAllocation Category = "allocation" // Token moves and rejections
	CategoryWorkflow   Category = "workflow"   // Phase transitions
	CategoryAPI        Category = "api"        // Generator calls
	CategorySnapshot   Category = "snapshot"   // Export/import
	CategoryMatch      Category = "match"      // Partner matching, inbox
	CategoryUI         Category = "ui"         // Terminal front end
)

// Categories lists every known category.
var Categories = []Category{
	CategoryBoot, CategoryAllocation, CategoryWorkflow, CategoryAPI,
	CategorySnapshot, CategoryMatch, CategoryUI,
}

// Options configures the root logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	// File receives log output; empty means stderr.
	File string
	// Disabled categories are silenced. Unlisted categories are enabled.
	Disabled []Category
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	mu       sync.RWMutex
	root     *zap.Logger
	disabled map[Category]bool
	loggers  = make(map[Category]*Logger)
	closer   func() error
)

// Initialize builds the root zap logger from opts. It may be called again to
// reconfigure; previously returned Loggers keep their old sink.
func Initialize(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	sink := zapcore.Lock(os.Stderr)
	var closeFn func() error
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.Lock(f)
		closeFn = f.Close
	}

	core := zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level))
	install(zap.New(core), opts.Disabled, closeFn)

	Boot("logging initialized (level=%s format=%s)", level, formatName(opts.Format))
	return nil
}

// InitializeWithLogger installs an existing zap logger, e.g. one built on a
// zaptest observer core.
func InitializeWithLogger(l *zap.Logger, disabledCategories ...Category) {
	install(l, disabledCategories, nil)
}

func install(l *zap.Logger, off []Category, closeFn func() error) {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer()
	}
	root = l
	closer = closeFn
	disabled = make(map[Category]bool, len(off))
	for _, c := range off {
		disabled[c] = true
	}
	loggers = make(map[Category]*Logger)
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

func formatName(f string) string {
	if f == "" {
		return "console"
	}
	return strings.ToLower(f)
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return root != nil && !disabled[category]
}

// Root returns the installed zap logger, or a no-op logger before
// initialization.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if root == nil {
		return zap.NewNop()
	}
	return root
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if logging is not initialized or the category is disabled.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	base := zap.NewNop()
	if root != nil && !disabled[category] {
		base = root.Named(string(category))
	}
	l := &Logger{sugar: base.Sugar()}
	loggers[category] = l
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// With returns a logger that attaches the given key/value pairs to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes the root logger.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}

// Close flushes the root logger and closes the log file, if any. Logging
// is a no-op afterwards until the next Initialize.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if root != nil {
		_ = root.Sync()
	}
	if closer != nil {
		_ = closer()
		closer = nil
	}
	root = nil
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

// BootWarn logs warning to the boot category
func BootWarn(format string, args ...interface{}) {
	Get(CategoryBoot).Warn(format, args...)
}

// Allocation logs to the allocation category
func Allocation(format string, args ...interface{}) {
	Get(CategoryAllocation).Info(format, args...)
}

// AllocationDebug logs debug to the allocation category
func AllocationDebug(format string, args ...interface{}) {
	Get(CategoryAllocation).Debug(format, args...)
}

// Workflow logs to the workflow category
func Workflow(format string, args ...interface{}) {
	Get(CategoryWorkflow).Info(format, args...)
}

// WorkflowDebug logs debug to the workflow category
func WorkflowDebug(format string, args ...interface{}) {
	Get(CategoryWorkflow).Debug(format, args...)
}

// WorkflowWarn logs warning to the workflow category
func WorkflowWarn(format string, args ...interface{}) {
	Get(CategoryWorkflow).Warn(format, args...)
}

// API logs to the api category
func API(format string, args ...interface{}) {
	Get(CategoryAPI).Info(format, args...)
}

// APIDebug logs debug to the api category
func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debug(format, args...)
}

// APIWarn logs warning to the api category
func APIWarn(format string, args ...interface{}) {
	Get(CategoryAPI).Warn(format, args...)
}

// APIError logs error to the api category
func APIError(format string, args ...interface{}) {
	Get(CategoryAPI).Error(format, args...)
}

// Snapshot logs to the snapshot category
func Snapshot(format string, args ...interface{}) {
	Get(CategorySnapshot).Info(format, args...)
}

// SnapshotWarn logs warning to the snapshot category
func SnapshotWarn(format string, args ...interface{}) {
	Get(CategorySnapshot).Warn(format, args...)
}

// Match logs to the match category
func Match(format string, args ...interface{}) {
	Get(CategoryMatch).Info(format, args...)
}

// MatchDebug logs debug to the match category
func MatchDebug(format string, args ...interface{}) {
	Get(CategoryMatch).Debug(format, args...)
}

// UI logs debug to the ui category; the front end is chatty.
func UI(format string, args ...interface{}) {
	Get(CategoryUI).Debug(format, args...)
}

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
