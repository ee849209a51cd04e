package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
	"github.com/google/uuid"
)

// Sweep stage thresholds
const (
	DefaultSoftTimeout = 30 * time.Second
	DefaultHardTimeout = 120 * time.Second
)

// TopicInferenceClient turns free text into topics; consulted only when an
// AI-assisted request escalates past the hard timeout
type TopicInferenceClient interface {
	InferTopics(ctx context.Context, text string) ([]string, error)
}

// MatchingService pairs waiting users into call sessions: strict topic
// matching on submit, stage relaxation on sweep, and re-enqueue when session
// creation fails downstream.
type MatchingService struct {
	Store    QueueStore
	Sessions *SessionService
	Topics   TopicInferenceClient // optional
	Archive  *ArchiveService      // optional
	Notifier Notifier             // optional
	Clock    Clock

	SoftTimeout  time.Duration
	HardTimeout  time.Duration
	QueueMaxWait time.Duration // 0 = requests never expire
}

// NewMatchingService wires the required collaborators with default timeouts
func NewMatchingService(store QueueStore, sessions *SessionService, clock Clock) *MatchingService {
	return &MatchingService{
		Store:       store,
		Sessions:    sessions,
		Clock:       clock,
		SoftTimeout: DefaultSoftTimeout,
		HardTimeout: DefaultHardTimeout,
	}
}

// Submit validates the request and either resolves it against the queue
// immediately or leaves it waiting for the sweep
func (ms *MatchingService) Submit(ctx context.Context, req models.MatchRequest) (*models.MatchResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}
	if req.MaxParticipants < 2 {
		return nil, fmt.Errorf("%w: maxParticipants must be at least 2", ErrInvalidRequest)
	}
	if req.Mode == "" {
		req.Mode = models.MatchModeTraditional
	}
	if req.Mode != models.MatchModeTraditional && req.Mode != models.MatchModeAIAssisted {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	}
	req.PreferredTopics = NormalizeTopics(req.PreferredTopics)
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	req.SubmittedAt = ms.Clock.Now()

	counterpart, position, err := ms.Store.EnqueueAndMatch(req, func(entry QueuedRequest) bool {
		return entryAccepts(entry, req)
	})
	if err != nil {
		return nil, err
	}

	if counterpart != nil {
		topic, _ := TopicsOverlap(counterpart.EffectiveTopics(), req.PreferredTopics)
		if topic == "" {
			topic, _ = CategoriesOverlap(counterpart.EffectiveTopics(), req.PreferredTopics)
		}
		pair := models.MatchPair{A: counterpart.Request, B: req, Stage: counterpart.Stage, Topic: topic}
		return ms.resolve(ctx, pair)
	}

	log.Printf("🕐 Request %s from user %s queued at position %d", req.RequestID, req.UserID, position)
	return &models.MatchResult{
		Queued: &models.QueuedStatus{
			RequestID: req.RequestID,
			Position:  position,
			QueueSize: ms.Store.Len(),
		},
	}, nil
}

// Cancel removes a queued request. Unknown or already-matched IDs are a
// benign no-op: the caller finds out via the session-created event instead.
func (ms *MatchingService) Cancel(requestID string) bool {
	removed := ms.Store.Cancel(requestID)
	if removed {
		log.Printf("🚫 Match request %s cancelled", requestID)
	}
	return removed
}

// Stats returns the read-only queue view
func (ms *MatchingService) Stats() models.QueueStats {
	return ms.Store.Stats(ms.Clock.Now())
}

// Sweep runs one pass over the queue: expire (if configured), promote stages
// by elapsed wait, then pair promoted entries oldest-first. Each pair removal
// is confirmed atomically against the store, so a cancel racing the sweep
// yields exactly one outcome.
func (ms *MatchingService) Sweep(ctx context.Context) []*models.MatchResult {
	now := ms.Clock.Now()

	if ms.QueueMaxWait > 0 {
		for _, entry := range ms.Store.Snapshot() {
			if now.Sub(entry.Request.SubmittedAt) >= ms.QueueMaxWait && ms.Store.Cancel(entry.Request.RequestID) {
				log.Printf("🧹 Request %s expired after %s in queue", entry.Request.RequestID, ms.QueueMaxWait)
				if ms.Notifier != nil {
					ms.Notifier.RequestExpired(entry.Request)
				}
			}
		}
	}

	for _, entry := range ms.Store.Snapshot() {
		stage := ms.stageFor(now.Sub(entry.Request.SubmittedAt))
		if stage == entry.Stage || entry.Stage == models.MatchStageAny {
			continue
		}
		var inferred []string
		if stage == models.MatchStageAny && entry.Request.Mode == models.MatchModeAIAssisted && ms.Topics != nil && len(entry.InferredTopics) == 0 {
			topics, err := ms.Topics.InferTopics(ctx, inferenceText(entry.Request))
			if err != nil {
				log.Printf("⚠️ Topic inference failed for request %s: %v", entry.Request.RequestID, err)
			} else {
				inferred = topics
			}
		}
		ms.Store.SetStage(entry.Request.RequestID, stage, inferred, now)
	}

	var results []*models.MatchResult
	snapshot := ms.Store.Snapshot()
	consumed := map[string]bool{}
	for i, anchor := range snapshot {
		anchorID := anchor.Request.RequestID
		if consumed[anchorID] || anchor.Stage == models.MatchStageStrict {
			continue
		}
		for j, candidate := range snapshot {
			candidateID := candidate.Request.RequestID
			if j == i || consumed[candidateID] {
				continue
			}
			if !sweepEligible(anchor, candidate) {
				continue
			}
			if !ms.Store.TakePair(anchorID, candidateID) {
				continue // lost a race against cancel or another match
			}
			consumed[anchorID] = true
			consumed[candidateID] = true
			pair := sweepPair(anchor, candidate)
			result, err := ms.resolve(ctx, pair)
			if err != nil {
				log.Printf("⚠️ Sweep match for %s/%s failed: %v", anchorID, candidateID, err)
				break
			}
			results = append(results, result)
			break
		}
	}
	return results
}

// resolve hands a pair to the session layer as a single unit. On failure the
// requests go back with their original submission times so they keep their
// place in line.
func (ms *MatchingService) resolve(ctx context.Context, pair models.MatchPair) (*models.MatchResult, error) {
	session, err := ms.Sessions.CreateFromMatch(ctx, pair)
	if err != nil {
		ms.Store.Restore(pair.A, pair.B)
		log.Printf("⚠️ Re-enqueued requests %s and %s after session creation failure", pair.A.RequestID, pair.B.RequestID)
		return nil, err
	}

	if ms.Archive != nil {
		record := models.MatchRecord{
			MatchID:   uuid.NewString(),
			SessionID: session.ID,
			Users:     pair.Users(),
			Topic:     pair.Topic,
			Stage:     pair.Stage,
			CreatedAt: ms.Clock.Now().UTC().Format(time.RFC3339),
		}
		if err := ms.Archive.SaveMatch(ctx, record); err != nil {
			log.Printf("⚠️ Failed to record match for session %s: %v", session.ID, err)
		}
	}

	log.Printf("🤝 Matched users %v into session %s (stage=%s topic=%q)", pair.Users(), session.ID, pair.Stage, pair.Topic)
	return &models.MatchResult{Matched: true, Session: session}, nil
}

func (ms *MatchingService) stageFor(elapsed time.Duration) string {
	switch {
	case elapsed < ms.SoftTimeout:
		return models.MatchStageStrict
	case elapsed < ms.HardTimeout:
		return models.MatchStageRelaxed
	default:
		return models.MatchStageAny
	}
}

// entryAccepts applies the queued entry's earned leniency to a new arrival
func entryAccepts(entry QueuedRequest, incoming models.MatchRequest) bool {
	if !participantsFit(entry.Request, incoming) {
		return false
	}
	switch entry.Stage {
	case models.MatchStageAny:
		return true
	case models.MatchStageRelaxed:
		_, ok := CategoriesOverlap(entry.EffectiveTopics(), incoming.PreferredTopics)
		return ok
	default:
		_, ok := TopicsOverlap(entry.EffectiveTopics(), incoming.PreferredTopics)
		return ok
	}
}

// sweepEligible pairs at the anchor's stage; the anchor is always the older
// entry in the pass, which keeps relaxation FIFO-fair
func sweepEligible(anchor, candidate QueuedRequest) bool {
	if !participantsFit(anchor.Request, candidate.Request) {
		return false
	}
	switch anchor.Stage {
	case models.MatchStageAny:
		return true
	default:
		_, ok := CategoriesOverlap(anchor.EffectiveTopics(), candidate.EffectiveTopics())
		return ok
	}
}

func sweepPair(anchor, candidate QueuedRequest) models.MatchPair {
	topic, ok := TopicsOverlap(anchor.EffectiveTopics(), candidate.EffectiveTopics())
	if !ok {
		topic, _ = CategoriesOverlap(anchor.EffectiveTopics(), candidate.EffectiveTopics())
	}
	return models.MatchPair{A: anchor.Request, B: candidate.Request, Stage: anchor.Stage, Topic: topic}
}

func participantsFit(a, b models.MatchRequest) bool {
	return a.MaxParticipants >= 2 && b.MaxParticipants >= 2
}

func inferenceText(req models.MatchRequest) string {
	if req.Note != "" {
		return req.Note
	}
	return strings.Join(req.PreferredTopics, ", ")
}
