package models

// SessionInvite records one attempt by the AI host to pull a second user
// into a waiting session
type SessionInvite struct {
	SessionID     string `dynamodbav:"sessionId" json:"sessionId"` // PK
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"` // SK (timestamp for sorting)
	InviteID      string `dynamodbav:"inviteId" json:"inviteId"`
	InvitedUserID string `dynamodbav:"invitedUserId" json:"invitedUserId"`
	Topic         string `dynamodbav:"topic" json:"topic,omitempty"`
	Status        string `dynamodbav:"status" json:"status"` // "pending", "accepted", "failed"
}

// TableName returns the DynamoDB table name for session invites
func (SessionInvite) TableName() string {
	return "SessionInvites"
}
