package models

import "time"

// CallSession is one AI-hosted conversation. The session starts as a
// one-on-one call between the primary user and the AI host; once the
// invitation gate opens, a second user may be pulled in.
type CallSession struct {
	ID              string    `dynamodbav:"sessionId" json:"sessionId"` // Unique session ID, immutable
	Status          string    `dynamodbav:"status" json:"status"`
	Participants    []string  `dynamodbav:"participants" json:"participants"` // Join order preserved
	Topic           string    `dynamodbav:"topic" json:"topic,omitempty"`     // Topic the match resolved on
	MaxParticipants int       `dynamodbav:"maxParticipants" json:"maxParticipants"`
	RoomID          string    `dynamodbav:"roomId" json:"roomId,omitempty"`
	ExchangeCount   int       `dynamodbav:"exchangeCount" json:"exchangeCount"`
	CreatedAt       time.Time `dynamodbav:"createdAt" json:"createdAt"`
	StartedAt       time.Time `dynamodbav:"startedAt" json:"startedAt,omitempty"` // Set on entering waiting
	EndedAt         time.Time `dynamodbav:"endedAt" json:"endedAt,omitempty"`
}

// TableName returns the DynamoDB table name for archived call sessions
func (CallSession) TableName() string {
	return "CallSessions"
}

// IsTerminal reports whether the session has finished and accepts no transitions
func (s *CallSession) IsTerminal() bool {
	return s.Status == SessionStatusEnded || s.Status == SessionStatusCancelled
}

// HasParticipant reports whether userID already joined the session
func (s *CallSession) HasParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Clone returns a copy safe to hand out while the original keeps mutating
func (s *CallSession) Clone() *CallSession {
	c := *s
	c.Participants = append([]string(nil), s.Participants...)
	return &c
}
