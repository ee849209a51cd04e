package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
	"github.com/Mio-Hasumi/Vortex-sub001/services"
)

// MatchController handles HTTP requests for the matching queue
type MatchController struct {
	Matching *services.MatchingService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matching *services.MatchingService) *MatchController {
	return &MatchController{Matching: matching}
}

// SubmitMatch handles a new match request: immediate match or queued status
func (mc *MatchController) SubmitMatch(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MaxParticipants == 0 {
		req.MaxParticipants = 2
	}

	result, err := mc.Matching.Submit(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateRequest):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, services.ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if result.Matched {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "matched",
			"session": result.Session,
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "queued",
		"requestId": result.Queued.RequestID,
		"position":  result.Queued.Position,
		"queueSize": result.Queued.QueueSize,
	})
}

// CancelMatch removes a queued request; losing the race to a match is fine
func (mc *MatchController) CancelMatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RequestID == "" {
		http.Error(w, "requestId is required", http.StatusBadRequest)
		return
	}

	removed := mc.Matching.Cancel(body.RequestID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "match request cancelled",
		"removed": removed,
	})
}

// GetQueueStats returns the derived queue view
func (mc *MatchController) GetQueueStats(w http.ResponseWriter, r *http.Request) {
	stats := mc.Matching.Stats()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}
