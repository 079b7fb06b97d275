package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ThinhDang464/Tomchat/internal/config"
	"github.com/ThinhDang464/Tomchat/internal/database"
	"github.com/ThinhDang464/Tomchat/internal/handlers"
	"github.com/ThinhDang464/Tomchat/internal/jobs"
	"github.com/ThinhDang464/Tomchat/internal/repository"
	cron "github.com/ThinhDang464/Tomchat/internal/scheduler"
	"github.com/ThinhDang464/Tomchat/internal/services"
	"github.com/ThinhDang464/Tomchat/pkg/logger"
	"github.com/ThinhDang464/Tomchat/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB and bootstrap indexes
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)

	// --- Services ---
	chatService, err := services.NewChatService(cfg.StreamAPIKey, cfg.StreamAPISecret)
	if err != nil {
		logger.Log.WithError(err).Warn("Stream client unavailable, chat features disabled")
		chatService = nil
	}
	userService := services.NewUserService(userRepo, chatService, cfg.FrontendOrigin)
	friendService := services.NewFriendService(friendRepo, userRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService, cfg)
	friendHandler := handlers.NewFriendHandler(friendService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.LoggingMiddleware)

	// Public auth routes
	api.HandleFunc("/auth/signup", authHandler.SignupHandler).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.LoginHandler).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.LogoutHandler).Methods("POST")
	api.HandleFunc("/auth/request-password-reset", authHandler.RequestPasswordResetHandler).Methods("POST")
	api.HandleFunc("/auth/reset-password", authHandler.ResetPasswordHandler).Methods("POST")

	// Protected auth routes
	protectedAuthRoutes := api.PathPrefix("/auth").Subrouter()
	protectedAuthRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedAuthRoutes.HandleFunc("/onboarding", authHandler.OnboardHandler).Methods("POST")
	protectedAuthRoutes.HandleFunc("/me", authHandler.MeHandler).Methods("GET")

	// User and friend-request routes
	userRoutes := api.PathPrefix("/users").Subrouter()
	userRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	userRoutes.HandleFunc("", friendHandler.GetRecommendedUsersHandler).Methods("GET")
	userRoutes.HandleFunc("/friends", friendHandler.GetFriendsHandler).Methods("GET")
	userRoutes.HandleFunc("/friend-request/{id}", friendHandler.SendFriendRequestHandler).Methods("POST")
	userRoutes.HandleFunc("/friend-request/{id}/accept", friendHandler.AcceptFriendRequestHandler).Methods("PUT")
	userRoutes.HandleFunc("/friend-requests", friendHandler.GetFriendRequestsHandler).Methods("GET")
	userRoutes.HandleFunc("/outgoing-friend-requests", friendHandler.GetOutgoingFriendRequestsHandler).Methods("GET")

	// Chat token route
	chatRoutes := api.PathPrefix("/chat").Subrouter()
	chatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	chatRoutes.HandleFunc("/token", chatHandler.GetStreamTokenHandler).Methods("GET")

	// Hourly repair pass over accepted friend requests
	reconciler := jobs.NewFriendshipReconciler(friendRepo, userRepo)
	cron.StartFriendshipCronJobs(reconciler)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
