package memory

import (
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	entry := NewEntry("thread-1", "note", "test content")

	if entry.ID == "" {
		t.Error("Expected generated ID")
	}

	if entry.ThreadID != "thread-1" {
		t.Errorf("Expected thread ID thread-1, got %s", entry.ThreadID)
	}

	if entry.Kind != "note" {
		t.Errorf("Expected kind note, got %s", entry.Kind)
	}

	if entry.Content != "test content" {
		t.Errorf("Expected content 'test content', got %s", entry.Content)
	}

	if entry.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestGenerateEntryID(t *testing.T) {
	id1 := GenerateEntryID()
	id2 := GenerateEntryID()

	if id1 == "" {
		t.Errorf("Generated empty ID")
	}

	if id2 == "" {
		t.Errorf("Generated empty ID")
	}

	// IDs should be unique
	if id1 == id2 {
		t.Errorf("Generated duplicate IDs: %s == %s", id1, id2)
	}

	time.Sleep(1 * time.Nanosecond)
	id3 := GenerateEntryID()
	if id1 == id3 {
		t.Errorf("IDs should be different even with tiny time difference")
	}
}

func TestEntryWithoutMetadata(t *testing.T) {
	entry := &Entry{
		ID:       "test-id",
		ThreadID: "thread-1",
		Content:  "test content",
	}

	if entry.Metadata != nil && len(entry.Metadata) > 0 {
		t.Errorf("Expected nil or empty metadata, got %v", entry.Metadata)
	}
}

// BenchmarkGenerateEntryID benchmarks ID generation performance
func BenchmarkGenerateEntryID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateEntryID()
	}
}
