package watcher

import (
	"sync"
	"testing"
	"time"
)

func TestNewBatchDebouncer(t *testing.T) {
	b := NewBatchDebouncer(100*time.Millisecond, nil)
	if b == nil {
		t.Fatal("NewBatchDebouncer() returned nil")
	}
	if b.delay != 100*time.Millisecond {
		t.Errorf("delay = %v, want 100ms", b.delay)
	}
	if b.events == nil {
		t.Error("events should be initialized")
	}
}

func TestBatchDebouncerEmitsOneBatch(t *testing.T) {
	var mu sync.Mutex
	var received [][]Event

	emit := func(events []Event) {
		mu.Lock()
		received = append(received, events)
		mu.Unlock()
	}

	b := NewBatchDebouncer(30*time.Millisecond, emit)

	b.Add(Event{Type: EventCreate, Path: "file1.ts"})
	b.Add(Event{Type: EventModify, Path: "file2.ts"})
	b.Add(Event{Type: EventDelete, Path: "file3.ts"})

	if b.EventCount() != 3 {
		t.Errorf("EventCount() = %d, want 3", b.EventCount())
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0
	}, "batch emission")

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(received))
	}
	if len(received[0]) != 3 {
		t.Errorf("batch size = %d, want 3", len(received[0]))
	}
	if b.EventCount() != 0 {
		t.Errorf("EventCount() = %d, want 0 after emit", b.EventCount())
	}
}

func TestBatchDebouncerCancel(t *testing.T) {
	var mu sync.Mutex
	var called bool

	emit := func(events []Event) {
		mu.Lock()
		called = true
		mu.Unlock()
	}

	b := NewBatchDebouncer(30*time.Millisecond, emit)
	b.Add(Event{Type: EventCreate, Path: "file.ts"})
	b.Cancel()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	if called {
		t.Error("emit should not be called after cancel")
	}
	mu.Unlock()

	if b.EventCount() != 0 {
		t.Errorf("EventCount() = %d, want 0 after cancel", b.EventCount())
	}
}

func TestBatchDebouncerFlush(t *testing.T) {
	var mu sync.Mutex
	var received []Event

	emit := func(events []Event) {
		mu.Lock()
		received = events
		mu.Unlock()
	}

	b := NewBatchDebouncer(500*time.Millisecond, emit)
	b.Add(Event{Type: EventCreate, Path: "file.ts"})
	b.Flush()

	mu.Lock()
	if len(received) != 1 {
		t.Errorf("expected 1 event after flush, got %d", len(received))
	}
	mu.Unlock()

	if b.EventCount() != 0 {
		t.Errorf("EventCount() = %d, want 0 after flush", b.EventCount())
	}
}

func TestBatchDebouncerFlushWithoutEvents(t *testing.T) {
	var mu sync.Mutex
	var called bool

	emit := func(events []Event) {
		mu.Lock()
		called = true
		mu.Unlock()
	}

	b := NewBatchDebouncer(10*time.Millisecond, emit)
	b.Flush()

	mu.Lock()
	if called {
		t.Error("emit should not be called with no events")
	}
	mu.Unlock()
}

func TestBatchDebouncerEventCount(t *testing.T) {
	b := NewBatchDebouncer(100*time.Millisecond, nil)

	if b.EventCount() != 0 {
		t.Errorf("EventCount() = %d, want 0", b.EventCount())
	}

	b.Add(Event{Type: EventCreate, Path: "a.ts"})
	if b.EventCount() != 1 {
		t.Errorf("EventCount() = %d, want 1", b.EventCount())
	}

	b.Add(Event{Type: EventModify, Path: "b.ts"})
	if b.EventCount() != 2 {
		t.Errorf("EventCount() = %d, want 2", b.EventCount())
	}

	b.Cancel()
}
