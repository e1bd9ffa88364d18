// Package session keeps the per-user state the chat front ends need between
// messages: the last shared location, a query parked while waiting for a
// location, the pinned travel plan and the conversation history.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/va6996/routebot/config"
	"github.com/va6996/routebot/geo"
)

// ManualLocationRequest marks a pending location request that came from
// /location rather than from a directions question.
const ManualLocationRequest = "manual_location_request"

// Turn is one message in a user's conversation with the assistant
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Record is everything remembered about one user
type Record struct {
	CurrentLocation *geo.LocationSample
	PendingQuery    string
	PinnedMessageID int
	History         []Turn
}

// Store loads and saves records by user id. A missing user yields an empty
// record. Concurrent writers for the same user are last-write-wins.
type Store interface {
	Get(ctx context.Context, userID int64) (Record, error)
	Put(ctx context.Context, userID int64, rec Record) error
}

// New builds the store selected by cfg.Backend
func New(cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenGormStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// MemoryStore keeps records in a map for the life of the process
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int64]Record)}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[userID].clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, userID int64, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = rec.clone()
	return nil
}

// clone detaches the record from slices and pointers held by the caller
func (r Record) clone() Record {
	if r.CurrentLocation != nil {
		loc := *r.CurrentLocation
		r.CurrentLocation = &loc
	}
	if r.History != nil {
		r.History = append([]Turn(nil), r.History...)
	}
	return r
}

// TrimHistory keeps the newest limit turns. A non-positive limit keeps all.
func (r *Record) TrimHistory(limit int) {
	if limit > 0 && len(r.History) > limit {
		r.History = append([]Turn(nil), r.History[len(r.History)-limit:]...)
	}
}
