// Package logging provides config-driven categorized logging for glorp.
// Logs are written through zap to a single file under the configured log
// directory, one named logger per category.
// Logging is controlled by debug_mode in the config - when false, nothing is written.
package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"glorp/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names one subsystem. Each gets its own named zap logger.
type Category string

const (
	CategoryBoot         Category = "boot"         // Startup, config load
	CategorySession      Category = "session"      // Conversation state, history window
	CategoryPerception   Category = "perception"   // Keyword matching, style resolution
	CategoryArticulation Category = "articulation" // Text composition
	CategoryLexicon      Category = "lexicon"      // Nonsense words and pseudo-code
	CategoryEngine       Category = "engine"       // Reply assembly
	CategoryStore        Category = "store"        // Chat persistence (sqlite, redis)
	CategoryUX           Category = "ux"           // Typing plan, interactive chat
	CategorySimulate     Category = "simulate"     // Batch conversation runs
	CategoryAudit        Category = "audit"        // Structured turn events
)

// Logger is a category-scoped sugared zap logger. A Logger with no backing
// zap logger is a no-op.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	cfg     config.LoggingConfig
	loggers = make(map[Category]*Logger)
)

// Initialize builds the zap logger from the logging config.
// In production mode (debug_mode false) it is a silent no-op.
func Initialize(lc config.LoggingConfig) error {
	if !lc.DebugMode {
		Use(zap.NewNop(), lc)
		return nil
	}

	if lc.Dir == "" {
		return fmt.Errorf("logging directory required")
	}
	if err := os.MkdirAll(lc.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if lc.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.OutputPaths = []string{lc.FilePath()}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Use(logger, lc)

	boot := Get(CategoryBoot)
	boot.Info("=== glorp logging initialized ===")
	boot.Info("Logs directory: %s", lc.Dir)
	boot.Info("Log level: %s", level)
	if len(lc.Categories) > 0 {
		enabled := 0
		for cat, on := range lc.Categories {
			if on {
				enabled++
			}
			boot.Debug("Category '%s': %v", cat, on)
		}
		boot.Info("Enabled categories: %d/%d", enabled, len(lc.Categories))
	} else {
		boot.Info("All categories enabled (no category filter)")
	}
	return nil
}

// Use installs an already-built zap logger. Cached category loggers are dropped.
func Use(logger *zap.Logger, lc config.LoggingConfig) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	base = logger
	cfg = lc
	loggers = make(map[Category]*Logger)
}

// IsDebugMode reports whether the debug log is on.
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled reports whether messages for category are written.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

// Get returns the cached logger for category. Disabled categories get a
// no-op logger that is never cached.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	mu.RLock()
	cached, found := loggers[category]
	mu.RUnlock()
	if found {
		return cached
	}

	mu.Lock()
	defer mu.Unlock()
	if cached, found = loggers[category]; found {
		return cached
	}
	cached = &Logger{category: category, sugar: base.Named(string(category)).Sugar()}
	loggers[category] = cached
	return cached
}

func (l *Logger) logf(level zapcore.Level, format string, args []interface{}) {
	if l.sugar == nil {
		return
	}
	switch level {
	case zapcore.DebugLevel:
		l.sugar.Debugf(format, args...)
	case zapcore.WarnLevel:
		l.sugar.Warnf(format, args...)
	case zapcore.ErrorLevel:
		l.sugar.Errorf(format, args...)
	default:
		l.sugar.Infof(format, args...)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(zapcore.DebugLevel, format, args)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(zapcore.InfoLevel, format, args)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(zapcore.WarnLevel, format, args)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(zapcore.ErrorLevel, format, args)
}

// With returns a child logger carrying structured key-value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// WithChat scopes a category logger to one chat.
func WithChat(category Category, chatID string) *Logger {
	return Get(category).With("chat", chatID)
}

// Sync flushes buffered entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

// Shorthands for the hot categories.

func Boot(format string, args ...interface{})     { Get(CategoryBoot).Info(format, args...) }
func BootWarn(format string, args ...interface{}) { Get(CategoryBoot).Warn(format, args...) }

func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }

func PerceptionDebug(format string, args ...interface{}) {
	Get(CategoryPerception).Debug(format, args...)
}

func ArticulationDebug(format string, args ...interface{}) {
	Get(CategoryArticulation).Debug(format, args...)
}

func Store(format string, args ...interface{})      { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }
func StoreError(format string, args ...interface{}) { Get(CategoryStore).Error(format, args...) }

// Timer logs how long an operation took when stopped.
type Timer struct {
	log   *Logger
	name  string
	begun time.Time
}

// StartTimer starts timing operation under category.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{log: Get(category), name: operation, begun: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	return t.StopWithThreshold(0)
}

// StopWithThreshold is Stop, except elapsed times over a positive threshold
// are logged as warnings.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	took := time.Since(t.begun)
	if threshold > 0 && took > threshold {
		t.log.Warn("%s slow: %v (limit %v)", t.name, took, threshold)
	} else {
		t.log.Debug("%s done in %v", t.name, took)
	}
	return took
}
