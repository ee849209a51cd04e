package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mio-Hasumi/Vortex-sub001/services"

	"github.com/gorilla/mux"
)

// SessionController handles HTTP requests for live call sessions
type SessionController struct {
	Sessions *services.SessionService
	Archive  *services.ArchiveService // optional, finished-session lookups
	Invites  *services.InviteService  // optional, invite history
}

// NewSessionController creates a new SessionController instance
func NewSessionController(sessions *services.SessionService, archive *services.ArchiveService, invites *services.InviteService) *SessionController {
	return &SessionController{Sessions: sessions, Archive: archive, Invites: invites}
}

// StartHostedCall starts a one-on-one AI-hosted call for a single user
func (sc *SessionController) StartHostedCall(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID          string `json:"userId"`
		Topic           string `json:"topic"`
		MaxParticipants int    `json:"maxParticipants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := sc.Sessions.StartHostedCall(r.Context(), body.UserID, body.Topic, body.MaxParticipants)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// RecordExchange counts one exchange and, when the policy approves, runs the
// single permitted invite attempt before responding
func (sc *SessionController) RecordExchange(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, decision, err := sc.Sessions.RecordExchange(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	response := map[string]interface{}{
		"session":    session,
		"invitation": decision,
	}

	if decision.CanInvite {
		joinedUserID, inviteErr := sc.Sessions.TriggerInvite(r.Context(), sessionID)
		switch {
		case inviteErr == nil:
			response["invitedUserId"] = joinedUserID
			if updated, err := sc.Sessions.Get(sessionID); err == nil {
				response["session"] = updated
			}
		case errors.Is(inviteErr, services.ErrInviteInFlight):
			response["inviteStatus"] = "already in flight"
		default:
			// Recoverable: the session is back in waiting, retried later.
			response["inviteStatus"] = inviteErr.Error()
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// EndSession terminates a session normally
func (sc *SessionController) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	session, err := sc.Sessions.End(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// CancelSession cancels a session; cancelling a finished one is a no-op
func (sc *SessionController) CancelSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	session, err := sc.Sessions.CancelSession(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// GetSession returns a live session, falling back to the archive for
// finished ones
func (sc *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := sc.Sessions.Get(sessionID)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
		return
	}

	if sc.Archive != nil && errors.Is(err, services.ErrNotFound) {
		summary, archiveErr := sc.Archive.GetSessionSummary(r.Context(), sessionID)
		if archiveErr == nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"session": summary, "archived": true})
			return
		}
	}

	http.Error(w, err.Error(), http.StatusNotFound)
}

// GetInviteEligibility evaluates the invitation policy without acting on it
func (sc *SessionController) GetInviteEligibility(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	decision, err := sc.Sessions.InviteEligibility(sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

// ListInvites returns the invite history for a session
func (sc *SessionController) ListInvites(w http.ResponseWriter, r *http.Request) {
	if sc.Invites == nil {
		http.Error(w, "invite history not available", http.StatusNotFound)
		return
	}
	sessionID := mux.Vars(r)["sessionId"]
	invites, err := sc.Invites.ListInvites(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invites": invites})
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrSessionFinished):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
