package services

import (
	"sync"
	"time"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
)

// QueuedRequest is a queue entry: the immutable request plus the relaxation
// annotations the sweep attaches as the entry waits.
type QueuedRequest struct {
	Request        models.MatchRequest
	Stage          string
	InferredTopics []string  // Topics added by AI escalation, never written back to the request
	RelaxedAt      time.Time // When the entry left the strict stage
}

// EffectiveTopics returns preferred plus inferred topics, normalized
func (q QueuedRequest) EffectiveTopics() []string {
	return NormalizeTopics(append(append([]string{}, q.Request.PreferredTopics...), q.InferredTopics...))
}

// QueueStore holds waiting match requests. Every method is atomic with
// respect to the others, so enqueue/cancel/sweep can race freely: a request
// is matched or cancelled, never both. The store enforces FIFO order by
// submission time and the one-active-request-per-user invariant regardless
// of backing implementation.
type QueueStore interface {
	// EnqueueAndMatch adds the request unless its user is already queued
	// (ErrDuplicateRequest). Before inserting it scans existing entries in
	// FIFO order; if compat accepts one, that entry is removed and returned
	// instead of inserting, all in one critical section. On insert the
	// 1-based queue position is returned.
	EnqueueAndMatch(req models.MatchRequest, compat func(QueuedRequest) bool) (*QueuedRequest, int, error)

	// Cancel removes the request if still queued. Losing the race against a
	// match is not an error: the caller just gets false.
	Cancel(requestID string) bool

	// Restore re-inserts requests after a failed session creation, keeping
	// their original submission times so they sort back to the front.
	Restore(reqs ...models.MatchRequest)

	// Snapshot copies the queue in FIFO order for lock-free evaluation
	Snapshot() []QueuedRequest

	// TakePair removes both entries if and only if both are still present
	TakePair(idA, idB string) bool

	// TakeOldest removes and returns the first entry eligible accepts
	TakeOldest(eligible func(QueuedRequest) bool) (*QueuedRequest, bool)

	// SetStage promotes an entry to a more relaxed stage
	SetStage(requestID, stage string, inferredTopics []string, at time.Time) bool

	Stats(now time.Time) models.QueueStats
	Len() int
}

// MemoryQueueStore is the in-process QueueStore: a single mutex over an
// ordered slice plus indexes by request ID and user ID. Multi-instance
// deployments swap this for a shared store behind the same interface.
type MemoryQueueStore struct {
	mu      sync.Mutex
	entries []*QueuedRequest
	byID    map[string]*QueuedRequest
	byUser  map[string]*QueuedRequest
}

// NewMemoryQueueStore creates an empty in-memory queue store
func NewMemoryQueueStore() *MemoryQueueStore {
	return &MemoryQueueStore{
		byID:   map[string]*QueuedRequest{},
		byUser: map[string]*QueuedRequest{},
	}
}

func (s *MemoryQueueStore) EnqueueAndMatch(req models.MatchRequest, compat func(QueuedRequest) bool) (*QueuedRequest, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUser[req.UserID]; exists {
		return nil, 0, ErrDuplicateRequest
	}

	if compat != nil {
		for _, entry := range s.entries {
			if compat(*entry) {
				matched := *entry
				s.removeLocked(entry.Request.RequestID)
				return &matched, 0, nil
			}
		}
	}

	entry := &QueuedRequest{Request: req, Stage: models.MatchStageStrict}
	pos := s.insertLocked(entry)
	return nil, pos, nil
}

func (s *MemoryQueueStore) Cancel(requestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(requestID)
}

func (s *MemoryQueueStore) Restore(reqs ...models.MatchRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range reqs {
		if _, exists := s.byUser[req.UserID]; exists {
			continue // user re-queued in the meantime, keep the newer request
		}
		if _, exists := s.byID[req.RequestID]; exists {
			continue
		}
		s.insertLocked(&QueuedRequest{Request: req, Stage: models.MatchStageStrict})
	}
}

func (s *MemoryQueueStore) Snapshot() []QueuedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]QueuedRequest, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}

func (s *MemoryQueueStore) TakePair(idA, idB string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idA == idB {
		return false
	}
	if _, ok := s.byID[idA]; !ok {
		return false
	}
	if _, ok := s.byID[idB]; !ok {
		return false
	}
	s.removeLocked(idA)
	s.removeLocked(idB)
	return true
}

func (s *MemoryQueueStore) TakeOldest(eligible func(QueuedRequest) bool) (*QueuedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if eligible == nil || eligible(*entry) {
			taken := *entry
			s.removeLocked(entry.Request.RequestID)
			return &taken, true
		}
	}
	return nil, false
}

func (s *MemoryQueueStore) SetStage(requestID, stage string, inferredTopics []string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.byID[requestID]
	if !ok {
		return false
	}
	entry.Stage = stage
	if len(inferredTopics) > 0 {
		entry.InferredTopics = NormalizeTopics(inferredTopics)
	}
	if entry.RelaxedAt.IsZero() && stage != models.MatchStageStrict {
		entry.RelaxedAt = at
	}
	return true
}

func (s *MemoryQueueStore) Stats(now time.Time) models.QueueStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.QueueStats{Size: len(s.entries)}
	if len(s.entries) == 0 {
		return stats
	}
	var total time.Duration
	for _, e := range s.entries {
		total += now.Sub(e.Request.SubmittedAt)
	}
	stats.AvgWaitSeconds = total.Seconds() / float64(len(s.entries))
	return stats
}

func (s *MemoryQueueStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// insertLocked places the entry by submission time (stable for equal times)
// and returns its 1-based position
func (s *MemoryQueueStore) insertLocked(entry *QueuedRequest) int {
	pos := len(s.entries)
	for i, e := range s.entries {
		if entry.Request.SubmittedAt.Before(e.Request.SubmittedAt) {
			pos = i
			break
		}
	}
	s.entries = append(s.entries, nil)
	copy(s.entries[pos+1:], s.entries[pos:])
	s.entries[pos] = entry
	s.byID[entry.Request.RequestID] = entry
	s.byUser[entry.Request.UserID] = entry
	return pos + 1
}

func (s *MemoryQueueStore) removeLocked(requestID string) bool {
	entry, ok := s.byID[requestID]
	if !ok {
		return false
	}
	delete(s.byID, requestID)
	delete(s.byUser, entry.Request.UserID)
	for i, e := range s.entries {
		if e == entry {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return true
}
