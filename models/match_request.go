package models

import "time"

// MatchRequest is a user's ask to be paired into a call. Requests are never
// mutated once queued; relaxation is tracked as an annotation on the queue
// entry so the submitted request stays intact for history.
type MatchRequest struct {
	RequestID       string    `dynamodbav:"requestId" json:"requestId"`
	UserID          string    `dynamodbav:"userId" json:"userId"`
	PreferredTopics []string  `dynamodbav:"preferredTopics" json:"preferredTopics"`
	Note            string    `dynamodbav:"note" json:"note,omitempty"` // Free text, fed to topic inference on escalation
	Mode            string    `dynamodbav:"mode" json:"mode"`           // "traditional" or "ai-assisted"
	MaxParticipants int       `dynamodbav:"maxParticipants" json:"maxParticipants"`
	SubmittedAt     time.Time `dynamodbav:"submittedAt" json:"submittedAt"`
}

// MatchPair is two requests resolved into one match, removed from the queue
// as a single unit.
type MatchPair struct {
	A     MatchRequest `json:"a"`
	B     MatchRequest `json:"b"`
	Stage string       `json:"stage"`           // Stage the pairing resolved at
	Topic string       `json:"topic,omitempty"` // Shared topic or category, empty for any-stage pairs
}

// Users returns both user IDs in submission order (oldest first)
func (p MatchPair) Users() []string {
	if p.B.SubmittedAt.Before(p.A.SubmittedAt) {
		return []string{p.B.UserID, p.A.UserID}
	}
	return []string{p.A.UserID, p.B.UserID}
}

// MatchRecord is the durable record written for every resolved match
type MatchRecord struct {
	MatchID   string   `dynamodbav:"matchId" json:"matchId"`
	SessionID string   `dynamodbav:"sessionId" json:"sessionId"`
	Users     []string `dynamodbav:"users" json:"users"`
	Topic     string   `dynamodbav:"topic" json:"topic,omitempty"`
	Stage     string   `dynamodbav:"stage" json:"stage"`
	CreatedAt string   `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for resolved matches
const MatchesTable = "Matches"

// QueuedStatus reports where a request sits after a submit that found no match
type QueuedStatus struct {
	RequestID string `json:"requestId"`
	Position  int    `json:"position"` // 1-based FIFO position
	QueueSize int    `json:"queueSize"`
}

// MatchResult is the outcome of a submit: an immediate match or a queue slot
type MatchResult struct {
	Matched bool          `json:"matched"`
	Session *CallSession  `json:"session,omitempty"`
	Queued  *QueuedStatus `json:"queued,omitempty"`
}

// QueueStats is a read-only derived view of the waiting queue
type QueueStats struct {
	Size           int     `json:"size"`
	AvgWaitSeconds float64 `json:"avgWaitSeconds"`
}

// InvitationDecision is the invitation policy's answer for one evaluation.
// It is recomputed on demand and never persisted.
type InvitationDecision struct {
	CanInvite bool   `json:"canInvite"`
	Reason    string `json:"reason"`
}
