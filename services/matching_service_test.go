package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
)

func newTestMatching(clock Clock, rooms RoomProvider) (*MatchingService, *MemoryQueueStore) {
	store := NewMemoryQueueStore()
	sessions := newTestSessionService(clock, rooms, &stubActuator{})
	return NewMatchingService(store, sessions, clock), store
}

func submission(userID string, topics ...string) models.MatchRequest {
	return models.MatchRequest{
		UserID:          userID,
		PreferredTopics: topics,
		MaxParticipants: 2,
	}
}

func TestSubmit_Validation(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, _ := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	cases := []models.MatchRequest{
		{UserID: "", PreferredTopics: []string{"ai"}, MaxParticipants: 2},
		{UserID: "alice", PreferredTopics: []string{"ai"}, MaxParticipants: 1},
		{UserID: "alice", PreferredTopics: []string{"ai"}, MaxParticipants: 2, Mode: "psychic"},
	}
	for i, req := range cases {
		if _, err := ms.Submit(ctx, req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("case %d: err = %v, want ErrInvalidRequest", i, err)
		}
	}
}

func TestSubmit_DuplicateUser(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, _ := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	if _, err := ms.Submit(ctx, submission("alice", "go")); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := ms.Submit(ctx, submission("alice", "rust")); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("second submit err = %v, want ErrDuplicateRequest", err)
	}
}

func TestSubmit_ImmediateMatchCreatesSession(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, store := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	first, err := ms.Submit(ctx, submission("alice", "AI", "music"))
	if err != nil {
		t.Fatalf("submit alice failed: %v", err)
	}
	if first.Matched {
		t.Fatal("alice matched against an empty queue")
	}
	if first.Queued.Position != 1 {
		t.Errorf("alice position = %d, want 1", first.Queued.Position)
	}

	clock.Advance(time.Second)
	second, err := ms.Submit(ctx, submission("bob", "ai"))
	if err != nil {
		t.Fatalf("submit bob failed: %v", err)
	}
	if !second.Matched {
		t.Fatal("bob did not match alice on shared topic")
	}

	session := second.Session
	if session.Status != models.SessionStatusWaiting {
		t.Errorf("session status = %s, want waiting", session.Status)
	}
	if len(session.Participants) != 2 || session.Participants[0] != "alice" || session.Participants[1] != "bob" {
		t.Errorf("participants = %v, want [alice bob]", session.Participants)
	}
	if session.Topic != "ai" {
		t.Errorf("session topic = %q, want ai", session.Topic)
	}
	if !session.StartedAt.Equal(clock.Now()) {
		t.Errorf("startedAt = %v, want %v", session.StartedAt, clock.Now())
	}
	if session.ExchangeCount != 0 {
		t.Errorf("exchangeCount = %d, want 0", session.ExchangeCount)
	}
	if store.Len() != 0 {
		t.Errorf("queue size after match = %d, want 0", store.Len())
	}
}

func TestSubmit_FIFOFairnessAmongEligible(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, _ := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	ms.Submit(ctx, submission("a", "go"))
	clock.Advance(time.Second)
	ms.Submit(ctx, submission("b", "rust"))
	clock.Advance(time.Second)
	ms.Submit(ctx, submission("c", "python"))
	clock.Advance(time.Second)

	result, err := ms.Submit(ctx, submission("d", "go", "rust", "python"))
	if err != nil {
		t.Fatalf("submit d failed: %v", err)
	}
	if !result.Matched {
		t.Fatal("d found no match")
	}
	if got := result.Session.Participants[0]; got != "a" {
		t.Errorf("d matched %s, want a (earliest submitted)", got)
	}
}

func TestSubmit_NoTopicOverlapQueues(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, store := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	ms.Submit(ctx, submission("alice", "cooking"))
	clock.Advance(time.Second)
	result, _ := ms.Submit(ctx, submission("bob", "philosophy"))
	if result.Matched {
		t.Fatal("disjoint topics matched at strict stage")
	}
	if store.Len() != 2 {
		t.Fatalf("queue size = %d, want 2", store.Len())
	}
}

func TestSweep_RelaxesAfterSoftTimeout(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, _ := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	ms.Submit(ctx, submission("alice", "music/jazz"))
	clock.Advance(time.Second)
	ms.Submit(ctx, submission("bob", "music/rock"))

	// Before the soft timeout nothing pairs.
	clock.Advance(ms.SoftTimeout - 2*time.Second)
	if results := ms.Sweep(ctx); len(results) != 0 {
		t.Fatalf("sweep before soft timeout resolved %d matches, want 0", len(results))
	}

	clock.Advance(5 * time.Second)
	results := ms.Sweep(ctx)
	if len(results) != 1 {
		t.Fatalf("sweep after soft timeout resolved %d matches, want 1", len(results))
	}
	session := results[0].Session
	if session.Topic != "music" {
		t.Errorf("session topic = %q, want category music", session.Topic)
	}
	if len(session.Participants) != 2 {
		t.Errorf("participants = %v, want both users", session.Participants)
	}
}

func TestSweep_HardTimeoutMatchesAnyTopic(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, _ := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	ms.Submit(ctx, submission("alice", "cooking"))
	clock.Advance(time.Second)
	ms.Submit(ctx, submission("bob", "philosophy"))

	clock.Advance(ms.HardTimeout)
	results := ms.Sweep(ctx)
	if len(results) != 1 {
		t.Fatalf("sweep past hard timeout resolved %d matches, want 1", len(results))
	}
}

func TestSweep_AIAssistedEscalationInfersTopics(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, store := newTestMatching(clock, &stubRooms{})
	inference := &stubInference{topics: []string{"travel"}}
	ms.Topics = inference
	ctx := context.Background()

	req := submission("alice", "cooking")
	req.Mode = models.MatchModeAIAssisted
	req.Note = "I want to talk about my trip to Japan"
	ms.Submit(ctx, req)

	clock.Advance(ms.HardTimeout + time.Second)
	ms.Sweep(ctx)

	if inference.calls != 1 {
		t.Fatalf("inference calls = %d, want 1", inference.calls)
	}
	if inference.lastIn != req.Note {
		t.Errorf("inference input = %q, want the request note", inference.lastIn)
	}
	entry := store.Snapshot()[0]
	if entry.Stage != models.MatchStageAny {
		t.Errorf("stage = %s, want any", entry.Stage)
	}
	topics := entry.EffectiveTopics()
	if len(topics) != 2 || topics[1] != "travel" {
		t.Errorf("effective topics = %v, want inferred travel appended", topics)
	}

	// Inference runs once; later sweeps reuse the annotation.
	clock.Advance(time.Minute)
	ms.Sweep(ctx)
	if inference.calls != 1 {
		t.Errorf("inference calls after second sweep = %d, want 1", inference.calls)
	}
}

func TestSweep_UnmatchedRequestsStayQueued(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, store := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	ms.Submit(ctx, submission("alice", "cooking"))
	clock.Advance(ms.HardTimeout * 10)
	ms.Sweep(ctx)

	if store.Len() != 1 {
		t.Fatalf("queue size = %d, want the lone request to stay queued", store.Len())
	}
}

func TestSweep_QueueCeilingExpiresRequests(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, store := newTestMatching(clock, &stubRooms{})
	ms.QueueMaxWait = time.Hour
	ctx := context.Background()

	ms.Submit(ctx, submission("alice", "cooking"))
	clock.Advance(time.Hour + time.Second)
	ms.Sweep(ctx)

	if store.Len() != 0 {
		t.Fatalf("queue size = %d, want expired request removed", store.Len())
	}
}

func TestSubmit_SessionCreationFailureReenqueues(t *testing.T) {
	clock := newFakeClock(testStart)
	rooms := &stubRooms{err: errBoom}
	ms, store := newTestMatching(clock, rooms)
	ctx := context.Background()

	aliceResult, _ := ms.Submit(ctx, submission("alice", "go"))
	aliceSubmitted := clock.Now()
	clock.Advance(time.Minute)
	ms.Submit(ctx, submission("bob", "rust"))
	clock.Advance(time.Minute)

	_, err := ms.Submit(ctx, submission("carol", "go"))
	var creationErr *SessionCreationError
	if !errors.As(err, &creationErr) {
		t.Fatalf("err = %v, want *SessionCreationError", err)
	}

	// Both sides of the failed match are back, alice ahead of bob.
	snapshot := store.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("queue size = %d, want 3", len(snapshot))
	}
	if snapshot[0].Request.UserID != "alice" {
		t.Errorf("front of queue = %s, want alice", snapshot[0].Request.UserID)
	}
	if !snapshot[0].Request.SubmittedAt.Equal(aliceSubmitted) {
		t.Errorf("alice submittedAt changed across re-enqueue")
	}
	if snapshot[0].Request.RequestID != aliceResult.Queued.RequestID {
		t.Errorf("alice requestId changed across re-enqueue")
	}

	// Once provisioning recovers the match resolves normally.
	rooms.mu.Lock()
	rooms.err = nil
	rooms.mu.Unlock()
	result, err := ms.Submit(ctx, submission("dave", "go"))
	if err != nil {
		t.Fatalf("submit after recovery failed: %v", err)
	}
	if !result.Matched || result.Session.Participants[0] != "alice" {
		t.Fatalf("recovered match = %+v, want alice matched first", result)
	}
}

func TestCancel_RacingSweepHasExactlyOneOutcome(t *testing.T) {
	for i := 0; i < 20; i++ {
		clock := newFakeClock(testStart)
		ms, _ := newTestMatching(clock, &stubRooms{})
		ctx := context.Background()

		first, _ := ms.Submit(ctx, submission("alice", "music/jazz"))
		clock.Advance(time.Second)
		ms.Submit(ctx, submission("bob", "music/rock"))
		clock.Advance(ms.SoftTimeout)

		var (
			wg        sync.WaitGroup
			matched   bool
			cancelled bool
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			matched = len(ms.Sweep(ctx)) > 0
		}()
		go func() {
			defer wg.Done()
			cancelled = ms.Cancel(first.Queued.RequestID)
		}()
		wg.Wait()

		if matched == cancelled {
			t.Fatalf("iteration %d: matched=%v cancelled=%v, want exactly one outcome", i, matched, cancelled)
		}
	}
}

func TestStats_ReflectsQueue(t *testing.T) {
	clock := newFakeClock(testStart)
	ms, _ := newTestMatching(clock, &stubRooms{})
	ctx := context.Background()

	ms.Submit(ctx, submission("alice", "go"))
	clock.Advance(10 * time.Second)

	stats := ms.Stats()
	if stats.Size != 1 {
		t.Errorf("size = %d, want 1", stats.Size)
	}
	if stats.AvgWaitSeconds != 10 {
		t.Errorf("avg wait = %v, want 10", stats.AvgWaitSeconds)
	}
}
