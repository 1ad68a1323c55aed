package analytics

import (
	"sync"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

// Memo caches pass results for one record snapshot. Presenting a newer
// snapshot version drops every cached entry; older versions always miss and
// are never stored.
type Memo struct {
	mu      sync.Mutex
	version uint64
	entries map[string]*models.AnalyticsResult
	max     int
}

func NewMemo(max int) *Memo {
	if max <= 0 {
		max = 128
	}
	return &Memo{entries: make(map[string]*models.AnalyticsResult), max: max}
}

// Get reports a cached result; a cached nil (no matching records) is a hit too.
func (m *Memo) Get(version uint64, f models.Filters) (*models.AnalyticsResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version != m.version {
		if version > m.version {
			m.reset(version)
		}
		return nil, false
	}
	r, ok := m.entries[f.Key()]
	return r, ok
}

func (m *Memo) Put(version uint64, f models.Filters, r *models.AnalyticsResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version < m.version {
		// pasada sobre un snapshot ya reemplazado
		return
	}
	if version > m.version {
		m.reset(version)
	}
	if len(m.entries) >= m.max {
		// sin LRU: se vacía completo
		m.entries = make(map[string]*models.AnalyticsResult)
	}
	m.entries[f.Key()] = r
}

func (m *Memo) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*models.AnalyticsResult)
}

func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memo) reset(version uint64) {
	m.version = version
	m.entries = make(map[string]*models.AnalyticsResult)
}
