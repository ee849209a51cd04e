package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/Mio-Hasumi/Vortex-sub001/config"
	"github.com/Mio-Hasumi/Vortex-sub001/routes"
	"github.com/Mio-Hasumi/Vortex-sub001/services"
	"github.com/Mio-Hasumi/Vortex-sub001/socket"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Socket.IO server doubles as the orchestrator's notifier
	socketServer := socket.NewSocketServer()
	notifier := socket.NewNotifier(socketServer)

	// Initialize Services
	clock := services.SystemClock
	policy := &services.InvitationPolicy{
		MinExchanges: cfg.MinExchanges,
		MaxWait:      cfg.MaxWait,
		RequireBoth:  cfg.InviteRequireBoth,
		Clock:        clock,
	}
	archiveService := &services.ArchiveService{Dynamo: dynamoService}
	queueStore := services.NewMemoryQueueStore()
	inviteService := &services.InviteService{Store: queueStore, Dynamo: dynamoService, Clock: clock}
	roomService := &services.RoomService{Dynamo: dynamoService, Clock: clock}

	sessionService := services.NewSessionService(policy, clock)
	sessionService.Rooms = roomService
	sessionService.Actuator = inviteService
	sessionService.Notifier = notifier
	sessionService.Archive = archiveService
	sessionService.InviteTimeout = cfg.InviteTimeout
	sessionService.MaxParticipants = cfg.MaxParticipants

	matchingService := services.NewMatchingService(queueStore, sessionService, clock)
	matchingService.Archive = archiveService
	matchingService.Notifier = notifier
	matchingService.SoftTimeout = cfg.SoftTimeout
	matchingService.HardTimeout = cfg.HardTimeout
	matchingService.QueueMaxWait = cfg.QueueMaxWait

	// Periodic queue sweep: relaxes long waiters and resolves pairs
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(fmt.Sprintf("@every %s", cfg.SweepInterval), func() {
		if results := matchingService.Sweep(context.Background()); len(results) > 0 {
			log.Printf("🔄 Sweep resolved %d matches", len(results))
		}
	}); err != nil {
		log.Fatalf("Failed to schedule queue sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Vortex")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterMatchRoutes(r, matchingService)
	routes.RegisterSessionRoutes(r, sessionService, archiveService, inviteService)
	if cfg.RecordingsBucket != "" {
		recordingService := services.NewRecordingService(cfg.AWSRegion, cfg.RecordingsBucket)
		routes.RegisterRecordingRoutes(r, recordingService)
	}
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
