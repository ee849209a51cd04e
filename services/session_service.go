package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
	"github.com/google/uuid"
)

// DefaultInviteTimeout bounds a single invite attempt; on expiry the session
// reverts to waiting and the policy is re-evaluated on the next exchange.
const DefaultInviteTimeout = 15 * time.Second

// DefaultMaxParticipants caps a session at two humans plus the AI host
const DefaultMaxParticipants = 3

// RoomProvider provisions a real-time room for a new session
type RoomProvider interface {
	CreateRoom(ctx context.Context, session *models.CallSession) (string, error)
}

// InviteActuator performs the actual invite of a second user while the
// session is in the inviting state. Invite removes the picked user from
// whatever pool they were waiting in and returns their request; on error
// nothing has been taken. Release puts a picked user back when the session
// rejects the join, so a failed invite never costs the user their place in
// line.
type InviteActuator interface {
	Invite(ctx context.Context, session *models.CallSession) (models.MatchRequest, error)
	Release(ctx context.Context, session *models.CallSession, req models.MatchRequest)
}

// Notifier pushes orchestrator events to the real-time layer
type Notifier interface {
	SessionCreated(session *models.CallSession)
	ParticipantJoined(sessionID, userID string)
	SessionEnded(session *models.CallSession)
	SessionCancelled(session *models.CallSession)
	RequestExpired(req models.MatchRequest)
}

// SessionService owns live call sessions and their state machine. Each
// session has its own lock so only one transition is ever in flight per
// session; external calls (room provisioning, invites) happen outside it.
type SessionService struct {
	Rooms           RoomProvider
	Actuator        InviteActuator
	Notifier        Notifier
	Archive         *ArchiveService
	Policy          *InvitationPolicy
	Clock           Clock
	InviteTimeout   time.Duration
	MaxParticipants int

	mu       sync.Mutex
	sessions map[string]*sessionHandle
}

type sessionHandle struct {
	mu      sync.Mutex
	session *models.CallSession
}

// NewSessionService creates a session service with default limits; the
// collaborator fields are wired by the caller.
func NewSessionService(policy *InvitationPolicy, clock Clock) *SessionService {
	return &SessionService{
		Policy:          policy,
		Clock:           clock,
		InviteTimeout:   DefaultInviteTimeout,
		MaxParticipants: DefaultMaxParticipants,
		sessions:        map[string]*sessionHandle{},
	}
}

// CreateFromMatch turns a resolved match into a live session holding both
// matched users. A provisioning failure surfaces as SessionCreationError so
// the matching layer can put the requests back.
func (ss *SessionService) CreateFromMatch(ctx context.Context, pair models.MatchPair) (*models.CallSession, error) {
	maxParticipants := min(pair.A.MaxParticipants, pair.B.MaxParticipants)
	return ss.createSession(ctx, pair.Users(), pair.Topic, maxParticipants)
}

// StartHostedCall starts a one-on-one call between a single user and the AI
// host; the invitation policy later decides when a second user may join.
func (ss *SessionService) StartHostedCall(ctx context.Context, userID, topic string, maxParticipants int) (*models.CallSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}
	if maxParticipants < 2 {
		maxParticipants = ss.MaxParticipants
	}
	return ss.createSession(ctx, []string{userID}, NormalizeTopic(topic), maxParticipants)
}

func (ss *SessionService) createSession(ctx context.Context, participants []string, topic string, maxParticipants int) (*models.CallSession, error) {
	now := ss.Clock.Now()
	session := &models.CallSession{
		ID:              uuid.NewString(),
		Status:          models.SessionStatusCreated,
		Participants:    participants,
		Topic:           topic,
		MaxParticipants: maxParticipants,
		CreatedAt:       now,
	}

	roomID, err := ss.Rooms.CreateRoom(ctx, session.Clone())
	if err != nil {
		log.Printf("❌ Room provisioning failed for session %s: %v", session.ID, err)
		return nil, &SessionCreationError{Err: err}
	}
	session.RoomID = roomID

	// Participants and the AI host attach at creation, so the session goes
	// straight to waiting.
	session.Status = models.SessionStatusWaiting
	session.StartedAt = now

	ss.mu.Lock()
	ss.sessions[session.ID] = &sessionHandle{session: session}
	ss.mu.Unlock()

	log.Printf("📞 Session %s created in room %s with participants %v", session.ID, roomID, participants)
	if ss.Notifier != nil {
		ss.Notifier.SessionCreated(session.Clone())
	}
	return session.Clone(), nil
}

// RecordExchange counts one completed round-trip between the primary user
// and the AI host, then evaluates the invitation policy. The caller decides
// whether to act on an approving decision via TriggerInvite.
func (ss *SessionService) RecordExchange(ctx context.Context, sessionID string) (*models.CallSession, models.InvitationDecision, error) {
	h, err := ss.handle(sessionID)
	if err != nil {
		return nil, models.InvitationDecision{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session.IsTerminal() {
		return nil, models.InvitationDecision{}, ErrSessionFinished
	}
	h.session.ExchangeCount++
	decision := ss.Policy.Evaluate(h.session, h.session.ExchangeCount)
	return h.session.Clone(), decision, nil
}

// TriggerInvite runs one invite attempt. The waiting -> inviting transition
// is the single gate: a second attempt while one is outstanding gets
// ErrInviteInFlight, and failure or timeout reverts to waiting. Returns the
// user who joined.
func (ss *SessionService) TriggerInvite(ctx context.Context, sessionID string) (string, error) {
	h, err := ss.handle(sessionID)
	if err != nil {
		return "", err
	}

	h.mu.Lock()
	if h.session.Status == models.SessionStatusInviting {
		h.mu.Unlock()
		return "", ErrInviteInFlight
	}
	if len(h.session.Participants) >= h.session.MaxParticipants {
		have, max := len(h.session.Participants), h.session.MaxParticipants
		h.mu.Unlock()
		return "", fmt.Errorf("%w: session %s is full (%d/%d participants)", ErrInviteNotAllowed, sessionID, have, max)
	}
	decision := ss.Policy.Evaluate(h.session, h.session.ExchangeCount)
	if !decision.CanInvite {
		h.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrInviteNotAllowed, decision.Reason)
	}
	h.session.Status = models.SessionStatusInviting
	snapshot := h.session.Clone()
	h.mu.Unlock()

	ictx, cancel := context.WithTimeout(ctx, ss.InviteTimeout)
	defer cancel()
	invitee, inviteErr := ss.Actuator.Invite(ictx, snapshot)
	joinedUserID := invitee.UserID

	h.mu.Lock()
	if h.session.Status != models.SessionStatusInviting {
		// Cancelled while the invite was in flight; the pick goes back.
		h.mu.Unlock()
		if inviteErr == nil && joinedUserID != "" {
			ss.Actuator.Release(ctx, snapshot, invitee)
		}
		log.Printf("⚠️ Session %s left inviting state mid-invite, dropping result", sessionID)
		return "", ErrSessionFinished
	}

	if inviteErr == nil && h.session.HasParticipant(joinedUserID) {
		inviteErr = fmt.Errorf("user %s already in session %s", joinedUserID, sessionID)
	}

	if inviteErr != nil {
		h.session.Status = models.SessionStatusWaiting
		h.mu.Unlock()
		if joinedUserID != "" {
			ss.Actuator.Release(ctx, snapshot, invitee)
		}
		log.Printf("❌ Invite failed for session %s, back to waiting: %v", sessionID, inviteErr)
		return "", fmt.Errorf("%w: %v", ErrInviteFailed, inviteErr)
	}

	h.session.Participants = append(h.session.Participants, joinedUserID)
	h.session.Status = models.SessionStatusMultiParty
	h.mu.Unlock()

	log.Printf("✅ User %s joined session %s", joinedUserID, sessionID)
	if ss.Notifier != nil {
		ss.Notifier.ParticipantJoined(sessionID, joinedUserID)
	}
	return joinedUserID, nil
}

// End terminates a session normally (user left or the AI host ended the call)
func (ss *SessionService) End(ctx context.Context, sessionID string) (*models.CallSession, error) {
	h, err := ss.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if h.session.IsTerminal() {
		h.mu.Unlock()
		return nil, ErrSessionFinished
	}
	if !CanTransition(h.session.Status, models.SessionStatusEnded) {
		status := h.session.Status
		h.mu.Unlock()
		return nil, fmt.Errorf("cannot end session %s while %s", sessionID, status)
	}
	h.session.Status = models.SessionStatusEnded
	h.session.EndedAt = ss.Clock.Now()
	ended := h.session.Clone()
	h.mu.Unlock()

	ss.retire(ctx, ended)
	if ss.Notifier != nil {
		ss.Notifier.SessionEnded(ended)
	}
	log.Printf("📴 Session %s ended after %d exchanges", sessionID, ended.ExchangeCount)
	return ended, nil
}

// CancelSession cancels a session from any non-terminal state. Cancelling an
// already-finished session is a safe no-op.
func (ss *SessionService) CancelSession(ctx context.Context, sessionID string) (*models.CallSession, error) {
	h, err := ss.handle(sessionID)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if h.session.IsTerminal() {
		done := h.session.Clone()
		h.mu.Unlock()
		return done, nil
	}
	h.session.Status = models.SessionStatusCancelled
	h.session.EndedAt = ss.Clock.Now()
	cancelled := h.session.Clone()
	h.mu.Unlock()

	ss.retire(ctx, cancelled)
	if ss.Notifier != nil {
		ss.Notifier.SessionCancelled(cancelled)
	}
	log.Printf("🚫 Session %s cancelled", sessionID)
	return cancelled, nil
}

// Get returns a live session by ID
func (ss *SessionService) Get(sessionID string) (*models.CallSession, error) {
	h, err := ss.handle(sessionID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Clone(), nil
}

// InviteEligibility evaluates the invitation policy without acting on it
func (ss *SessionService) InviteEligibility(sessionID string) (models.InvitationDecision, error) {
	h, err := ss.handle(sessionID)
	if err != nil {
		return models.InvitationDecision{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return ss.Policy.Evaluate(h.session, h.session.ExchangeCount), nil
}

func (ss *SessionService) handle(sessionID string) (*sessionHandle, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	h, ok := ss.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return h, nil
}

// retire archives a terminal session and drops it from the live set. Archive
// failures are logged, not propagated: ending a call must not fail because
// the history write did.
func (ss *SessionService) retire(ctx context.Context, session *models.CallSession) {
	ss.mu.Lock()
	delete(ss.sessions, session.ID)
	ss.mu.Unlock()

	if ss.Archive != nil {
		if err := ss.Archive.SaveSession(ctx, session); err != nil {
			log.Printf("⚠️ Failed to archive session %s: %v", session.ID, err)
		}
	}
}
