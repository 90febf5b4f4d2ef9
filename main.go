package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigeaze08-web/candy-group-app-v3/handlers"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/notification"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/storage"
	"github.com/bigeaze08-web/candy-group-app-v3/middleware"
	"github.com/bigeaze08-web/candy-group-app-v3/services"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	participantService  *services.ParticipantService
	attendanceService   *services.AttendanceService
	weighInService      *services.WeighInService
	leaderboardService  *services.LeaderboardService
	notificationService *services.NotificationService
	photoService        *services.PhotoService
	inviteService       *services.InviteService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	window := challenge.CurrentWindow()

	participantService = services.NewParticipantService(dbPool)
	attendanceService = services.NewAttendanceService(dbPool, window)
	weighInService = services.NewWeighInService(dbPool, window)
	leaderboardService = services.NewLeaderboardService(participantService, weighInService, attendanceService, window)
	notificationService = services.NewNotificationService(dbPool)
	inviteService = services.NewInviteService()

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	photoBucket, err := storage.NewPhotoBucket(ctx, "./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize photo bucket: %v", err)
		photoService = services.NewPhotoService(participantService, nil)
	} else {
		photoService = services.NewPhotoService(participantService, photoBucket)
		log.Println("Photo bucket initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	window := challenge.CurrentWindow()

	// Initialize handlers
	participantHandler := handlers.NewParticipantHandler(participantService, weighInService, attendanceService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService, notificationService, window)
	weighInHandler := handlers.NewWeighInHandler(weighInService, notificationService, window)
	photoHandler := handlers.NewPhotoHandler(photoService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webhookHandler := handlers.NewWebhookHandler(participantService)
	inviteHandler := handlers.NewInviteHandler(inviteService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "candy-challenge-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public dashboard: the leaderboard and the roster need no account.
	api.HandleFunc("/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")
	api.HandleFunc("/participants", participantHandler.GetRoster).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware(participantService))

	protected.HandleFunc("/participants", participantHandler.Register).Methods("POST")
	protected.HandleFunc("/me", participantHandler.GetMe).Methods("GET")
	protected.HandleFunc("/me", participantHandler.UpdateMe).Methods("PUT")
	protected.HandleFunc("/me/photo", photoHandler.UploadPhoto).Methods("POST")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	// -------------------------------------------------------------------------
	// ADMIN ROUTES
	// -------------------------------------------------------------------------
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnlyMiddleware)

	admin.HandleFunc("/attendance/dates", attendanceHandler.GetDates).Methods("GET")
	admin.HandleFunc("/attendance", attendanceHandler.GetRoster).Methods("GET")
	admin.HandleFunc("/attendance", attendanceHandler.Mark).Methods("POST")

	admin.HandleFunc("/weighins/dates", weighInHandler.GetDates).Methods("GET")
	admin.HandleFunc("/weighins", weighInHandler.Record).Methods("POST")

	admin.HandleFunc("/participants/{id}", participantHandler.DeleteParticipant).Methods("DELETE")
	admin.HandleFunc("/registration-qr", inviteHandler.RegistrationQR).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
