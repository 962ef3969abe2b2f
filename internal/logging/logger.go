// Package logging provides config-driven categorized logging for the agent core.
// Every category is a named child of one zap logger. Logging is controlled by
// logging.debug_mode - when false, every logger is a no-op.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"agentcore/internal/config"
)

// Category represents a log category/subsystem
type Category string

const (
	CategoryBoot       Category = "boot"       // Boot/initialization
	CategoryUnify      Category = "unify"      // Unifier search and bindings
	CategoryExecution  Category = "execution"  // Execution nodes and bodies
	CategoryRule       Category = "rule"       // Rule resolution and relocation
	CategoryPlan       Category = "plan"       // Plan selection and activation
	CategoryBeliefBase Category = "beliefbase" // Belief store mutations
	CategoryAgent      Category = "agent"      // Agent trigger queue and cycle
)

// Logger wraps a sugared zap logger for one category
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex

	cfg   config.LoggingConfig
	base  *zap.Logger
	cfgMu sync.RWMutex
)

// Initialize builds the shared zap core from cfg. Calling it again replaces
// the previous core and drops cached loggers.
func Initialize(c config.LoggingConfig) error {
	CloseAll()

	cfgMu.Lock()
	cfg = c
	if !c.DebugMode {
		base = nil
		cfgMu.Unlock()
		return nil // Silent no-op in production mode
	}

	logger, err := build(c)
	if err != nil {
		base = nil
		cfgMu.Unlock()
		return err
	}
	base = logger
	cfgMu.Unlock()

	boot := Get(CategoryBoot)
	boot.Info("logging initialized (level=%s format=%s)", c.Level, c.Format)
	if len(c.Categories) == 0 {
		boot.Debug("all categories enabled (no category filter)")
	}
	return nil
}

// NewZap builds a standalone zap logger from cfg regardless of debug mode.
func NewZap(c config.LoggingConfig) (*zap.Logger, error) {
	return build(c)
}

func build(c config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(levelName(c.Level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	zc := zap.NewProductionConfig()
	if c.Format != "json" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if c.File != "" {
		zc.OutputPaths = []string{c.File}
		zc.ErrorOutputPaths = []string{c.File}
	} else {
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}
	return zc.Build()
}

func levelName(level string) string {
	switch strings.ToLower(level) {
	case "", "info":
		return "info"
	case "warning":
		return "warn"
	default:
		return strings.ToLower(level)
	}
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.DebugMode && base != nil
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	if !cfg.DebugMode || base == nil {
		return false
	}
	return cfg.IsCategoryEnabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	cfgMu.RLock()
	named := base.Named(string(category))
	cfgMu.RUnlock()

	l := &Logger{category: category, sugar: named.Sugar()}
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With returns a logger carrying the given key-value pairs on every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// WithActivation tags every entry with an activation id, used to correlate a
// plan or rule activation across nested executions.
func (l *Logger) WithActivation(id string) *Logger {
	return l.With("activation", id)
}

// CloseAll flushes the shared core and forgets cached loggers (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()

	cfgMu.RLock()
	b := base
	cfgMu.RUnlock()
	if b != nil {
		_ = b.Sync()
	}
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootError logs an error to the boot category
func BootError(format string, args ...interface{}) {
	Get(CategoryBoot).Error(format, args...)
}

// UnifyDebug logs debug to the unify category
func UnifyDebug(format string, args ...interface{}) {
	Get(CategoryUnify).Debug(format, args...)
}

// ExecutionDebug logs debug to the execution category
func ExecutionDebug(format string, args ...interface{}) {
	Get(CategoryExecution).Debug(format, args...)
}

// RuleDebug logs debug to the rule category
func RuleDebug(format string, args ...interface{}) {
	Get(CategoryRule).Debug(format, args...)
}

// Plan logs to the plan category
func Plan(format string, args ...interface{}) {
	Get(CategoryPlan).Info(format, args...)
}

// PlanDebug logs debug to the plan category
func PlanDebug(format string, args ...interface{}) {
	Get(CategoryPlan).Debug(format, args...)
}

// Agent logs to the agent category
func Agent(format string, args ...interface{}) {
	Get(CategoryAgent).Info(format, args...)
}

// AgentWarn logs a warning to the agent category
func AgentWarn(format string, args ...interface{}) {
	Get(CategoryAgent).Warn(format, args...)
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

