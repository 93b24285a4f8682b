package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/rossahq/complaintdesk/docs"
	"github.com/rossahq/complaintdesk/internal/auth"
	"github.com/rossahq/complaintdesk/internal/complaint"
	"github.com/rossahq/complaintdesk/internal/config"
	"github.com/rossahq/complaintdesk/internal/database"
	"github.com/rossahq/complaintdesk/internal/notification"
	"github.com/rossahq/complaintdesk/internal/otp"
	"github.com/rossahq/complaintdesk/internal/profile"
	"github.com/rossahq/complaintdesk/internal/storage"
	"github.com/rossahq/complaintdesk/internal/user"
	mw "github.com/rossahq/complaintdesk/pkg/middleware"
)

// @title           ComplaintDesk API
// @version         1.0
// @description     Customer complaint management backend: complaint lifecycle, assignment and notifications.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	// Redis holds short-lived verification codes
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable, email verification will fail: %v", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiryMinutes)
	authenticate := mw.Authenticate(tokens)

	// Complaint media goes to blob storage
	media := storage.NewClient(cfg.Storage.URL, cfg.Storage.Key, cfg.Storage.Bucket)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, tokens)
	userHandler := user.NewHandler(userService)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService, userService)

	// Complaint feature
	complaintRepo := complaint.NewRepository(db)
	complaintService := complaint.NewService(complaintRepo, userRepo)
	complaintHandler := complaint.NewHandler(complaintService, media)

	// Profile feature
	profileRepo := profile.NewRepository(db)
	profileService := profile.NewService(profileRepo, userRepo)
	profileHandler := profile.NewHandler(profileService, cfg.UploadDir)

	// Email verification feature
	otpService := otp.NewService(otp.NewRedisStore(rdb), otp.NewSMTPMailer(cfg.Mail))
	otpHandler := otp.NewHandler(otpService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// Profile images are served statically
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Mount("/otp", otpHandler.Routes())

			r.Group(func(r chi.Router) {
				r.Use(authenticate)

				r.Get("/me", userHandler.Me)
				r.Post("/change-password", userHandler.ChangePassword)
			})
		})

		r.With(authenticate).Mount("/users", userHandler.Routes())
		r.Mount("/complaints", complaintHandler.Routes(authenticate))
		r.With(authenticate).Mount("/notifications", notificationHandler.Routes())
		r.With(authenticate).Mount("/profile", profileHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
