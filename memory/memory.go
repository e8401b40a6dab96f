package memory

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Entry is one recorded item in a report thread's history: the accepted
// plan, a completed section, operator feedback.
type Entry struct {
	ID        string                 `json:"id"`
	ThreadID  string                 `json:"thread_id"`
	Kind      string                 `json:"kind"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// idGenerator provides efficient ID generation with minimal syscall overhead
type idGenerator struct {
	counter int64
	mu      sync.Mutex
	lastTs  int64
}

var defaultIDGenerator = &idGenerator{}

// GenerateEntryID generates a unique ID for a history entry
// Uses an efficient approach that minimizes syscall overhead:
// - Only calls time.Now() when nanosecond changes
// - Uses atomic counter for fast collision-free increments
// - Fallback to timestamp for first call or major time jumps
func GenerateEntryID() string {
	return defaultIDGenerator.Generate()
}

// Generate creates a unique entry ID efficiently
func (g *idGenerator) Generate() string {
	// Get current time once
	now := time.Now().UnixNano()

	// Fast path: if we're in same nanosecond, just increment counter
	g.mu.Lock()
	if now > g.lastTs {
		// Time moved forward, reset counter
		g.lastTs = now
		g.counter = 0
		g.mu.Unlock()
		return fmt.Sprintf("ent_%d", now)
	}

	// Still in same nanosecond, increment counter for uniqueness
	g.counter++
	counter := g.counter
	g.mu.Unlock()

	return fmt.Sprintf("ent_%d_%d", now, counter)
}

// Store is thread-scoped run storage. The pipeline treats it as an opaque
// recorder of what happened during a run; it is never consulted by the
// refinement logic itself.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	History(ctx context.Context, threadID string, limit int) ([]*Entry, error)
}

// NewEntry builds an entry with a generated ID and timestamp.
func NewEntry(threadID, kind, content string) *Entry {
	return &Entry{
		ID:        GenerateEntryID(),
		ThreadID:  threadID,
		Kind:      kind,
		Content:   content,
		Metadata:  make(map[string]interface{}),
		CreatedAt: time.Now(),
	}
}
