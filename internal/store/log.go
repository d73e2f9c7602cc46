package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
)

// EventLog is the append-only activity record shown to admins.
// Recent returns at most n entries, oldest first.
type EventLog interface {
	Append(ctx context.Context, e models.LogEntry) error
	Recent(ctx context.Context, n int) ([]models.LogEntry, error)
}

// MemoryLog keeps the newest Capacity entries in a ring buffer.
// Safe for concurrent use; order is the order Append acquired the lock, and
// timestamps are assigned under the same lock so they never run backwards.
type MemoryLog struct {
	mu    sync.Mutex
	buf   []models.LogEntry
	start int
	size  int
	last  time.Time
	now   func() time.Time
}

// NewMemoryLog returns a log retaining up to capacity entries.
func NewMemoryLog(capacity int) *MemoryLog {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryLog{buf: make([]models.LogEntry, capacity), now: time.Now}
}

// Append records e. The entry's Timestamp is replaced by the append time.
func (m *MemoryLog) Append(_ context.Context, e models.LogEntry) error {
	stampID(&e)

	m.mu.Lock()
	defer m.mu.Unlock()

	e.Timestamp = m.now().UTC()
	if e.Timestamp.Before(m.last) {
		e.Timestamp = m.last
	}
	m.last = e.Timestamp

	if m.size < len(m.buf) {
		m.buf[(m.start+m.size)%len(m.buf)] = e
		m.size++
		return nil
	}
	// Full: overwrite the oldest.
	m.buf[m.start] = e
	m.start = (m.start + 1) % len(m.buf)
	return nil
}

func (m *MemoryLog) Recent(_ context.Context, n int) ([]models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n > m.size {
		n = m.size
	}
	if n <= 0 {
		return []models.LogEntry{}, nil
	}

	out := make([]models.LogEntry, n)
	first := m.size - n
	for i := 0; i < n; i++ {
		out[i] = m.buf[(m.start+first+i)%len(m.buf)]
	}
	return out, nil
}

// Len reports how many entries are retained.
func (m *MemoryLog) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

func stampID(e *models.LogEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
}
