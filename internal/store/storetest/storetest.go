// Package storetest provides in-memory UserStore and HistoryStore
// implementations for handler and service tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/store"
	"github.com/google/uuid"
)

// Users is an in-memory store.UserStore keyed by exact email.
type Users struct {
	mu      sync.Mutex
	byEmail map[string]models.User
	FindErr error
}

// NewUsers returns an empty user store.
func NewUsers() *Users {
	return &Users{byEmail: make(map[string]models.User)}
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return apperror.Conflict("email", nil)
	}
	user.CreatedAt = time.Now()
	s.byEmail[user.Email] = *user
	return nil
}

// History is an in-memory store.HistoryStore. Each Create advances a
// private clock by one second so ordering is deterministic.
type History struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]models.SearchHistory
	clock     time.Time
	deleteRan bool
}

// NewHistory returns an empty history store.
func NewHistory() *History {
	return &History{rows: make(map[uuid.UUID]models.SearchHistory), clock: time.Now()}
}

func (s *History) ListByOwner(_ context.Context, owner uuid.UUID) ([]models.SearchHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SearchHistory, 0)
	for _, r := range s.rows {
		if r.UserID == owner {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SearchedAt.After(out[j].SearchedAt) })
	return out, nil
}

func (s *History) Create(_ context.Context, entry *models.SearchHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	entry.SearchedAt = s.clock
	s.rows[entry.ID] = *entry
	return nil
}

func (s *History) FindByID(_ context.Context, id uuid.UUID) (*models.SearchHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *History) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.SearchHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	out := make([]models.SearchHistory, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.rows[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *History) DeleteOwned(_ context.Context, owner uuid.UUID, ids []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteRan = true
	var n int64
	for _, id := range ids {
		if r, ok := s.rows[id]; ok && r.UserID == owner {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

// DeleteRan reports whether DeleteOwned was ever called.
func (s *History) DeleteRan() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteRan
}

// Count is the number of stored rows across all owners.
func (s *History) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// User returns the stored row for email.
func (s *Users) User(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	return u, ok
}

// Len is the number of stored users.
func (s *Users) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}

var (
	_ store.UserStore    = (*Users)(nil)
	_ store.HistoryStore = (*History)(nil)
)
