package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// Room naming: clients sit in a per-user room for direct events and join a
// per-session room once they are in a call.
const (
	userRoomPrefix    = "user:"
	sessionRoomPrefix = "session:"
)

// NewSocketServer initializes and returns a new Socket.IO server
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// Clients register their user room right after connecting
	server.OnEvent("/", "register", func(c socketio.Conn, data map[string]string) {
		userID := data["userId"]
		if userID == "" {
			log.Println("❌ Invalid userId in register request")
			return
		}
		server.JoinRoom("/", userRoomPrefix+userID, c)
		log.Printf("👤 Socket %s registered as user %s", c.ID(), userID)
	})

	// Participants join their session room to receive call events
	server.OnEvent("/", "join", func(c socketio.Conn, data map[string]string) {
		sessionID := data["sessionId"]
		if sessionID == "" {
			log.Println("❌ Invalid sessionId in join request")
			return
		}
		server.JoinRoom("/", sessionRoomPrefix+sessionID, c)
		log.Printf("👥 Socket %s joined session %s", c.ID(), sessionID)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("⚠️ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}
