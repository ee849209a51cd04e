package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
)

// fakeClock lets tests simulate elapsed time without sleeping
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// stubRooms provisions fake room handles, optionally failing
type stubRooms struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (r *stubRooms) CreateRoom(ctx context.Context, session *models.CallSession) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return fmt.Sprintf("room-test-%d", r.calls), nil
}

// stubActuator is a scriptable invite actuator. When block is set, Invite
// parks until the channel closes, signalling entry via entered.
type stubActuator struct {
	mu        sync.Mutex
	userID    string
	err       error
	calls     int
	released  []string
	entered   chan struct{}
	enterOnce sync.Once
	block     chan struct{}
}

func (a *stubActuator) Invite(ctx context.Context, session *models.CallSession) (models.MatchRequest, error) {
	a.mu.Lock()
	a.calls++
	userID, err, block := a.userID, a.err, a.block
	a.mu.Unlock()

	if a.entered != nil {
		a.enterOnce.Do(func() { close(a.entered) })
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return models.MatchRequest{}, ctx.Err()
		}
	}
	if err != nil {
		return models.MatchRequest{}, err
	}
	return models.MatchRequest{RequestID: "req-" + userID, UserID: userID, MaxParticipants: 2}, nil
}

func (a *stubActuator) Release(ctx context.Context, session *models.CallSession, req models.MatchRequest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.released = append(a.released, req.UserID)
}

// stubInference returns canned topics for AI-assisted escalation
type stubInference struct {
	mu     sync.Mutex
	topics []string
	err    error
	calls  int
	lastIn string
}

func (s *stubInference) InferTopics(ctx context.Context, text string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastIn = text
	return s.topics, s.err
}

func newTestSessionService(clock Clock, rooms RoomProvider, actuator InviteActuator) *SessionService {
	ss := NewSessionService(NewInvitationPolicy(clock), clock)
	ss.Rooms = rooms
	ss.Actuator = actuator
	return ss
}

func testRequest(userID string, topics []string, submittedOffset time.Duration) models.MatchRequest {
	return models.MatchRequest{
		RequestID:       "req-" + userID,
		UserID:          userID,
		PreferredTopics: topics,
		MaxParticipants: 2,
		Mode:            models.MatchModeTraditional,
		SubmittedAt:     testStart.Add(submittedOffset),
	}
}

var errBoom = errors.New("boom")
