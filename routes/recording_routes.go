package routes

import (
	"github.com/Mio-Hasumi/Vortex-sub001/controllers"
	"github.com/Mio-Hasumi/Vortex-sub001/services"

	"github.com/gorilla/mux"
)

// RegisterRecordingRoutes sets up the call recording URL endpoints
func RegisterRecordingRoutes(r *mux.Router, recordings *services.RecordingService) {
	controller := controllers.NewRecordingController(recordings)

	recordingRouter := r.PathPrefix("/api/recordings").Subrouter()
	recordingRouter.HandleFunc("/upload-url", controller.GetUploadURL).Methods("GET")
	recordingRouter.HandleFunc("/read-url", controller.GetReadURL).Methods("GET")
}
