package controllers

import (
	"net/http"

	"github.com/Mio-Hasumi/Vortex-sub001/services"
)

// RecordingController hands out presigned URLs for call recordings
type RecordingController struct {
	Recordings *services.RecordingService
}

// NewRecordingController creates a new RecordingController instance
func NewRecordingController(recordings *services.RecordingService) *RecordingController {
	return &RecordingController{Recordings: recordings}
}

// GetUploadURL returns a presigned PUT URL for a session recording
func (rc *RecordingController) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sessionID := query.Get("sessionId")
	fileName := query.Get("fileName")
	fileType := query.Get("fileType")
	if sessionID == "" || fileName == "" || fileType == "" {
		http.Error(w, "sessionId, fileName and fileType are required", http.StatusBadRequest)
		return
	}

	url, key, err := rc.Recordings.GenerateUploadURL(r.Context(), sessionID, fileName, fileType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// GetReadURL returns a presigned GET URL for a stored recording
func (rc *RecordingController) GetReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	url, err := rc.Recordings.GenerateReadURL(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"readUrl": url})
}
