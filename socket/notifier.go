package socket

import (
	"github.com/Mio-Hasumi/Vortex-sub001/models"

	socketio "github.com/googollee/go-socket.io"
)

// Notifier pushes orchestrator events to connected clients. It implements
// services.Notifier.
type Notifier struct {
	Server *socketio.Server
}

// NewNotifier wraps a socket server as an orchestrator notifier
func NewNotifier(server *socketio.Server) *Notifier {
	return &Notifier{Server: server}
}

// SessionCreated tells every matched participant their call is ready
func (n *Notifier) SessionCreated(session *models.CallSession) {
	payload := map[string]interface{}{
		"sessionId": session.ID,
		"roomId":    session.RoomID,
		"topic":     session.Topic,
	}
	for _, userID := range session.Participants {
		n.Server.BroadcastToRoom("/", userRoomPrefix+userID, "sessionCreated", payload)
	}
}

// ParticipantJoined announces a newly invited participant to the session
func (n *Notifier) ParticipantJoined(sessionID, userID string) {
	payload := map[string]interface{}{
		"sessionId": sessionID,
		"userId":    userID,
	}
	n.Server.BroadcastToRoom("/", sessionRoomPrefix+sessionID, "participantJoined", payload)
	n.Server.BroadcastToRoom("/", userRoomPrefix+userID, "sessionCreated", payload)
}

// SessionEnded announces a normal termination
func (n *Notifier) SessionEnded(session *models.CallSession) {
	n.Server.BroadcastToRoom("/", sessionRoomPrefix+session.ID, "sessionEnded", map[string]interface{}{
		"sessionId":     session.ID,
		"exchangeCount": session.ExchangeCount,
	})
}

// SessionCancelled announces an explicit cancellation
func (n *Notifier) SessionCancelled(session *models.CallSession) {
	n.Server.BroadcastToRoom("/", sessionRoomPrefix+session.ID, "sessionCancelled", map[string]interface{}{
		"sessionId": session.ID,
	})
}

// RequestExpired tells a user their match request hit the queue ceiling
func (n *Notifier) RequestExpired(req models.MatchRequest) {
	n.Server.BroadcastToRoom("/", userRoomPrefix+req.UserID, "matchRequestExpired", map[string]interface{}{
		"requestId": req.RequestID,
	})
}
