package routes

import (
	"github.com/Mio-Hasumi/Vortex-sub001/controllers"
	"github.com/Mio-Hasumi/Vortex-sub001/services"

	"github.com/gorilla/mux"
)

// RegisterSessionRoutes sets up the call session endpoints
func RegisterSessionRoutes(r *mux.Router, sessions *services.SessionService, archive *services.ArchiveService, invites *services.InviteService) {
	controller := controllers.NewSessionController(sessions, archive, invites)

	sessionRouter := r.PathPrefix("/api/sessions").Subrouter()
	sessionRouter.HandleFunc("/host", controller.StartHostedCall).Methods("POST")
	sessionRouter.HandleFunc("/{sessionId}", controller.GetSession).Methods("GET")
	sessionRouter.HandleFunc("/{sessionId}/exchange", controller.RecordExchange).Methods("POST")
	sessionRouter.HandleFunc("/{sessionId}/end", controller.EndSession).Methods("POST")
	sessionRouter.HandleFunc("/{sessionId}/cancel", controller.CancelSession).Methods("POST")
	sessionRouter.HandleFunc("/{sessionId}/invite-eligibility", controller.GetInviteEligibility).Methods("GET")
	sessionRouter.HandleFunc("/{sessionId}/invites", controller.ListInvites).Methods("GET")
}
