package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

// MemoryStore keeps the current record snapshot and the personal goals.
// Snapshots are replaced wholesale, never patched.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.RawMetricRecord
	version uint64
	loaded  time.Time
	goals   map[string]models.Goal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{goals: make(map[string]models.Goal)}
}

// ReplaceRecords installs a new snapshot and returns its version.
func (s *MemoryStore) ReplaceRecords(recs []models.RawMetricRecord) uint64 {
	cp := make([]models.RawMetricRecord, len(recs))
	copy(cp, recs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cp
	s.version++
	s.loaded = time.Now().UTC()
	return s.version
}

// Snapshot returns the records and their version. Callers must not mutate the slice.
func (s *MemoryStore) Snapshot() ([]models.RawMetricRecord, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.version
}

func (s *MemoryStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *MemoryStore) AddGoal(g models.Goal) models.Goal {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return g
}

func (s *MemoryStore) DeleteGoal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return false
	}
	delete(s.goals, id)
	return true
}

// Goals are returned oldest first.
func (s *MemoryStore) Goals() []models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
