package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/config"
	"github.com/devconnect/backend/internal/handlers"
	appMiddleware "github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/services"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := services.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDB)

	// Services share the one client.
	profileService := services.NewMongoProfileService(ctx, db)
	userService := services.NewMongoUserService(ctx, db)
	accountService := services.NewMongoAccountService(db)

	profileHandler := handlers.NewProfileHandler(profileService, accountService, logger)
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTExpiration, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", authHandler.Register)
		r.Post("/auth", authHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
			r.Get("/auth", authHandler.CurrentUser)
		})

		r.Route("/profile", func(r chi.Router) {
			// Public
			r.Get("/", profileHandler.ListProfiles)
			r.Get("/user/{user_id}", profileHandler.GetByUserID)

			// Protected
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

				r.Get("/me", profileHandler.GetMe)
				r.Post("/", profileHandler.UpsertProfile)
				r.Delete("/", profileHandler.DeleteAccount)

				r.Put("/experience", profileHandler.AddExperience)
				r.Delete("/experience/{exp_id}", profileHandler.RemoveExperience)
				r.Put("/education", profileHandler.AddEducation)
				r.Delete("/education/{edu_id}", profileHandler.RemoveEducation)
			})
		})
	})

	logger.Info("server starting", zap.String("addr", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
