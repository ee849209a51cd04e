package models

// Room is the handle for a provisioned real-time room. The media layer picks
// the record up by roomId; the orchestrator only cares that a handle exists.
type Room struct {
	RoomID    string `dynamodbav:"roomId" json:"roomId"` // PK
	SessionID string `dynamodbav:"sessionId" json:"sessionId"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// TableName returns the DynamoDB table name for rooms
func (Room) TableName() string {
	return "Rooms"
}
