package services

import (
	"strings"
	"sync"
	"time"
)

// plainHasher keeps tests fast; bcrypt itself is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool { return strings.TrimPrefix(h, "hashed:") == p && strings.HasPrefix(h, "hashed:") }

type countingRecorder struct {
	mu      sync.Mutex
	events  map[string]int
	deleted int64
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{events: make(map[string]int)}
}

func (r *countingRecorder) RecordRequest(string, string, int, time.Duration) {}

func (r *countingRecorder) RecordAuthEvent(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event]++
}

func (r *countingRecorder) RecordHistoryDeleted(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted += n
}

