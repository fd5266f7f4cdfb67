package testutils

import (
	"sync"

	"go.uber.org/zap/zapcore"

	"github.com/evdnx/zonerecovery/logger"
)

// Entry is one recorded log call.
type Entry struct {
	Level  zapcore.Level
	Msg    string
	Fields []logger.Field
}

// MockLogger records every call in memory. Safe for concurrent use.
type MockLogger struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMockLogger() *MockLogger { return &MockLogger{} }

func (l *MockLogger) Info(msg string, fields ...logger.Field) {
	l.record(zapcore.InfoLevel, msg, fields)
}

func (l *MockLogger) Warn(msg string, fields ...logger.Field) {
	l.record(zapcore.WarnLevel, msg, fields)
}

func (l *MockLogger) Error(msg string, fields ...logger.Field) {
	l.record(zapcore.ErrorLevel, msg, fields)
}

func (l *MockLogger) record(level zapcore.Level, msg string, fields []logger.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{
		Level:  level,
		Msg:    msg,
		Fields: append([]logger.Field(nil), fields...),
	})
}

// Entries returns a copy of everything logged so far.
func (l *MockLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// LastMessage is the message of the most recent entry, or "".
func (l *MockLogger) LastMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1].Msg
}

// Count returns how many entries were logged with msg.
func (l *MockLogger) Count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.Msg == msg {
			n++
		}
	}
	return n
}

// StringField returns the string value of key on the latest entry logged
// with msg.
func (l *MockLogger) StringField(msg, key string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Msg != msg {
			continue
		}
		for _, f := range l.entries[i].Fields {
			if f.Key == key && f.Type == zapcore.StringType {
				return f.String, true
			}
		}
		return "", false
	}
	return "", false
}
