package testdoubles

import (
	"context"
	"sync"

	"github.com/Rayyy-dev/ShelfWise-sub000/circulation"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged for key, or nil if the record does not carry it.
func (r SpyLogRecord) Attr(key string) any {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1]
		}
	}

	return nil
}

// ContextualLoggerSpy captures contextual and plain logging calls for testing.
// It satisfies both circulation.ContextualLogger and circulation.Logger.
type ContextualLoggerSpy struct {
	records     []SpyLogRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy instance.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

// DebugContext implements circulation.ContextualLogger.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelDebug, msg, args)
}

// InfoContext implements circulation.ContextualLogger.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelInfo, msg, args)
}

// WarnContext implements circulation.ContextualLogger.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelWarn, msg, args)
}

// ErrorContext implements circulation.ContextualLogger.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelError, msg, args)
}

// Debug implements circulation.Logger.
func (s *ContextualLoggerSpy) Debug(msg string, args ...any) {
	s.record(context.Background(), levelDebug, msg, args)
}

// Info implements circulation.Logger.
func (s *ContextualLoggerSpy) Info(msg string, args ...any) {
	s.record(context.Background(), levelInfo, msg, args)
}

// Warn implements circulation.Logger.
func (s *ContextualLoggerSpy) Warn(msg string, args ...any) {
	s.record(context.Background(), levelWarn, msg, args)
}

// Error implements circulation.Logger.
func (s *ContextualLoggerSpy) Error(msg string, args ...any) {
	s.record(context.Background(), levelError, msg, args)
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Context: ctx,
	})
}

// Reset clears all recorded log calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

// GetRecords returns a copy of the recorded calls of one level.
func (s *ContextualLoggerSpy) GetRecords(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []SpyLogRecord
	for _, r := range s.records {
		if r.Level == level {
			records = append(records, r)
		}
	}

	return records
}

// GetTotalRecordCount returns the total number of log records across all levels.
func (s *ContextualLoggerSpy) GetTotalRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// FindLog returns the first record of the given level and message.
func (s *ContextualLoggerSpy) FindLog(level, message string) (SpyLogRecord, bool) {
	for _, r := range s.GetRecords(level) {
		if r.Message == message {
			return r, true
		}
	}

	return SpyLogRecord{}, false
}

// HasDebugLog checks if a debug log with the specified message exists.
func (s *ContextualLoggerSpy) HasDebugLog(message string) bool {
	_, ok := s.FindLog(levelDebug, message)
	return ok
}

// HasInfoLog checks if an info log with the specified message exists.
func (s *ContextualLoggerSpy) HasInfoLog(message string) bool {
	_, ok := s.FindLog(levelInfo, message)
	return ok
}

// HasWarnLog checks if a warn log with the specified message exists.
func (s *ContextualLoggerSpy) HasWarnLog(message string) bool {
	_, ok := s.FindLog(levelWarn, message)
	return ok
}

// HasErrorLog checks if an error log with the specified message exists.
func (s *ContextualLoggerSpy) HasErrorLog(message string) bool {
	_, ok := s.FindLog(levelError, message)
	return ok
}

var (
	_ circulation.ContextualLogger = (*ContextualLoggerSpy)(nil)
	_ circulation.Logger           = (*ContextualLoggerSpy)(nil)
)
