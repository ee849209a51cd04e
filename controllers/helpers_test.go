package controllers

import (
	"context"
	"errors"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
	"github.com/Mio-Hasumi/Vortex-sub001/services"
)

// fakeRooms hands out static room handles without touching DynamoDB
type fakeRooms struct {
	err error
}

func (f *fakeRooms) CreateRoom(ctx context.Context, session *models.CallSession) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "room-" + session.ID, nil
}

// fakeActuator invites a fixed user
type fakeActuator struct {
	userID string
	err    error
}

func (f *fakeActuator) Invite(ctx context.Context, session *models.CallSession) (models.MatchRequest, error) {
	if f.err != nil {
		return models.MatchRequest{}, f.err
	}
	return models.MatchRequest{RequestID: "req-" + f.userID, UserID: f.userID, MaxParticipants: 2}, nil
}

func (f *fakeActuator) Release(ctx context.Context, session *models.CallSession, req models.MatchRequest) {}

func newTestStack(rooms services.RoomProvider, actuator services.InviteActuator) (*services.MatchingService, *services.SessionService) {
	clock := services.SystemClock
	sessions := services.NewSessionService(services.NewInvitationPolicy(clock), clock)
	sessions.Rooms = rooms
	sessions.Actuator = actuator
	matching := services.NewMatchingService(services.NewMemoryQueueStore(), sessions, clock)
	return matching, sessions
}

var errProvision = errors.New("provisioning unavailable")
