package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
	"github.com/google/uuid"
)

// RoomService is the default room provider: it allocates a room handle and
// records it so the media layer can pick it up. Real-time transport details
// live entirely behind that record.
type RoomService struct {
	Dynamo *DynamoService // optional
	Clock  Clock
}

// CreateRoom allocates a room handle for the session
func (rs *RoomService) CreateRoom(ctx context.Context, session *models.CallSession) (string, error) {
	roomID := "room-" + uuid.NewString()

	if rs.Dynamo != nil {
		room := models.Room{
			RoomID:    roomID,
			SessionID: session.ID,
			CreatedAt: rs.Clock.Now().UTC().Format(time.RFC3339),
		}
		if err := rs.Dynamo.PutItem(ctx, room.TableName(), room); err != nil {
			return "", fmt.Errorf("failed to provision room: %w", err)
		}
	}

	return roomID, nil
}
