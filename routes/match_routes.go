package routes

import (
	"github.com/Mio-Hasumi/Vortex-sub001/controllers"
	"github.com/Mio-Hasumi/Vortex-sub001/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up the matching queue endpoints
func RegisterMatchRoutes(r *mux.Router, matching *services.MatchingService) {
	controller := controllers.NewMatchController(matching)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.HandleFunc("/submit", controller.SubmitMatch).Methods("POST")
	matchRouter.HandleFunc("/cancel", controller.CancelMatch).Methods("POST")
	matchRouter.HandleFunc("/stats", controller.GetQueueStats).Methods("GET")
}
