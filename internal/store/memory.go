package store

import (
	"errors"
	"sync"
	"time"

	"github.com/floatchat/floatchat/internal/argo"
)

var (
	// ErrNotFound is returned when no queries have been recorded yet.
	ErrNotFound = errors.New("no recorded queries")
)

// QueryRecord is one answered chat query, kept for the session history view.
type QueryRecord struct {
	Query    string        `json:"query"`
	Entities argo.Entities `json:"entities"`
	Count    int           `json:"count"`
	Summary  string        `json:"summary"`
	AskedAt  time.Time     `json:"askedAt"`
}

// HistoryStore is a concurrency-safe, append-only in-memory history of
// answered queries. The source dataset is never touched; only this list
// grows across queries.
type HistoryStore struct {
	mu sync.RWMutex

	records []QueryRecord

	// maxHistory bounds the number of retained records; <= 0 means unlimited.
	maxHistory int
}

// NewHistoryStore creates a new HistoryStore with an optional size limit.
func NewHistoryStore(maxHistory int) *HistoryStore {
	return &HistoryStore{maxHistory: maxHistory}
}

// Append records an answered query and enforces retention.
func (s *HistoryStore) Append(rec QueryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)

	if s.maxHistory > 0 && len(s.records) > s.maxHistory {
		over := len(s.records) - s.maxHistory
		s.records = s.records[over:]
	}
}

// Latest returns the most recently recorded query.
func (s *HistoryStore) Latest() (QueryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return QueryRecord{}, ErrNotFound
	}
	return s.records[len(s.records)-1], nil
}

// All returns a copy of the recorded history, oldest first.
func (s *HistoryStore) All() []QueryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]QueryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of retained records.
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
