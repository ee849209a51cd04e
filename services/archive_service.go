package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
	"github.com/Mio-Hasumi/Vortex-sub001/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ArchiveService persists finished sessions and resolved matches. The live
// orchestrator never reads from it; lookups on finished sessions do.
type ArchiveService struct {
	Dynamo *DynamoService
}

// SaveSession writes a terminal session to the archive
func (as *ArchiveService) SaveSession(ctx context.Context, session *models.CallSession) error {
	return as.Dynamo.PutItem(ctx, models.CallSession{}.TableName(), session)
}

// SaveMatch writes the durable record for a resolved match
func (as *ArchiveService) SaveMatch(ctx context.Context, record models.MatchRecord) error {
	return as.Dynamo.PutItem(ctx, models.MatchesTable, record)
}

// GetSessionSummary fetches an archived session as a response-ready map
func (as *ArchiveService) GetSessionSummary(ctx context.Context, sessionID string) (map[string]interface{}, error) {
	key := map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}

	item, err := as.Dynamo.GetItem(ctx, models.CallSession{}.TableName(), key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		return nil, err
	}

	return map[string]interface{}{
		"sessionId":     utils.ExtractString(item, "sessionId"),
		"status":        utils.ExtractString(item, "status"),
		"topic":         utils.ExtractString(item, "topic"),
		"roomId":        utils.ExtractString(item, "roomId"),
		"participants":  utils.ExtractStringList(item, "participants"),
		"exchangeCount": utils.ExtractInt(item, "exchangeCount"),
		"startedAt":     utils.ExtractString(item, "startedAt"),
		"endedAt":       utils.ExtractString(item, "endedAt"),
	}, nil
}
