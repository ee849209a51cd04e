package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Mio-Hasumi/Vortex-sub001/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// InviteService is the AI host's invite actuator: it fills a waiting
// session's empty seat with the oldest compatible user still in the match
// queue and keeps an audit trail of every attempt.
type InviteService struct {
	Store  QueueStore
	Dynamo *DynamoService // optional, invite audit records
	Clock  Clock
}

// Invite picks a queued user for the session and returns their request.
// Topic compatibility is preferred; entries that already escalated to
// any-stage matching are taken regardless of topic.
func (s *InviteService) Invite(ctx context.Context, session *models.CallSession) (models.MatchRequest, error) {
	sessionTopics := []string{session.Topic}

	entry, ok := s.Store.TakeOldest(func(e QueuedRequest) bool {
		if session.Topic == "" {
			return e.Stage == models.MatchStageAny
		}
		_, overlap := CategoriesOverlap(e.EffectiveTopics(), sessionTopics)
		return overlap
	})
	if !ok {
		entry, ok = s.Store.TakeOldest(func(e QueuedRequest) bool {
			return e.Stage == models.MatchStageAny
		})
	}
	if !ok {
		s.record(ctx, session, "", models.InviteStatusFailed)
		return models.MatchRequest{}, fmt.Errorf("no compatible user waiting for session %s", session.ID)
	}

	userID := entry.Request.UserID
	s.record(ctx, session, userID, models.InviteStatusAccepted)
	log.Printf("📨 Inviting queued user %s into session %s", userID, session.ID)
	return entry.Request, nil
}

// Release puts a picked user back into the queue after the session rejected
// the join. The request keeps its original submission time, so the user sorts
// back to their old place in line.
func (s *InviteService) Release(ctx context.Context, session *models.CallSession, req models.MatchRequest) {
	s.Store.Restore(req)
	s.record(ctx, session, req.UserID, models.InviteStatusFailed)
	log.Printf("🔄 Returned user %s to the match queue after a rejected invite into session %s", req.UserID, session.ID)
}

// ListInvites returns the invite history for a session, newest last
func (s *InviteService) ListInvites(ctx context.Context, sessionID string) ([]models.SessionInvite, error) {
	if s.Dynamo == nil {
		return nil, nil
	}
	tableName := models.SessionInvite{}.TableName()
	input := &dynamodb.QueryInput{
		TableName:              &tableName,
		KeyConditionExpression: aws.String("sessionId = :sessionId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
	}

	items, err := s.Dynamo.QueryItemsWithQueryInput(ctx, input)
	if err != nil {
		return nil, err
	}

	var invites []models.SessionInvite
	err = attributevalue.UnmarshalListOfMaps(items, &invites)
	return invites, err
}

// record writes the invite attempt; audit failures are logged, never fatal
func (s *InviteService) record(ctx context.Context, session *models.CallSession, userID, status string) {
	if s.Dynamo == nil {
		return
	}
	invite := models.SessionInvite{
		SessionID:     session.ID,
		CreatedAt:     s.Clock.Now().UTC().Format(time.RFC3339Nano),
		InviteID:      uuid.NewString(),
		InvitedUserID: userID,
		Topic:         session.Topic,
		Status:        status,
	}
	if err := s.Dynamo.PutItem(ctx, invite.TableName(), invite); err != nil {
		log.Printf("⚠️ Failed to record invite for session %s: %v", session.ID, err)
	}
}
