package testsupport

import (
	"context"
	"strings"
	"sync"
)

// RecordingMessenger captures chat announcements for assertions.
type RecordingMessenger struct {
	mu       sync.Mutex
	messages []string
	Err      error
}

func (m *RecordingMessenger) Send(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, text)
	return m.Err
}

// Messages returns a copy of everything sent so far.
func (m *RecordingMessenger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// Contains reports whether any sent message contains the substring.
func (m *RecordingMessenger) Contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// ActionEntry is one recorded audit entry.
type ActionEntry struct {
	User   string
	Action string
}

// MemoryActionLog records audit entries in memory.
type MemoryActionLog struct {
	mu      sync.Mutex
	entries []ActionEntry
	Err     error
}

func (l *MemoryActionLog) Record(_ context.Context, user, action string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, ActionEntry{User: user, Action: action})
	return l.Err
}

// Entries returns a copy of the recorded entries.
func (l *MemoryActionLog) Entries() []ActionEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ActionEntry(nil), l.entries...)
}
