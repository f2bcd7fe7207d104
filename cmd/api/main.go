package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fkhayef/giftexchange/docs"
	"github.com/fkhayef/giftexchange/internal/assignment"
	"github.com/fkhayef/giftexchange/internal/config"
	"github.com/fkhayef/giftexchange/internal/database"
	"github.com/fkhayef/giftexchange/internal/exchange"
	"github.com/fkhayef/giftexchange/internal/user"
	mw "github.com/fkhayef/giftexchange/pkg/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL, database.Options{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if cfg.RunMigrations {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// User feature; also the directory exchanges validate ids against
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Exchange feature
	exchangeStore := newExchangeStore(cfg, db)
	exchangeService := exchange.NewService(exchangeStore, userService)
	exchangeHandler := exchange.NewHandler(exchangeService)

	// Assignment feature
	assignmentService := assignment.NewService(exchangeStore)
	assignmentHandler := assignment.NewHandler(assignmentService, exchangeService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware(cfg))

		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/exchanges", exchangeHandler.Routes())
		r.Mount("/exchanges/{id}/assignments", assignmentHandler.Routes())
	})

	handler := newCORS(cfg).Handler(r)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func newExchangeStore(cfg *config.Config, db *sql.DB) exchange.Store {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Println("Using in-memory exchange store; data is lost on restart")
		return exchange.NewMemoryStore()
	}
	return exchange.NewRepository(db)
}

func authMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.AuthMode == config.AuthModeJWT {
		if cfg.JWTSecret == "" {
			log.Fatal("JWT_SECRET is required when AUTH_MODE=jwt")
		}
		return mw.AuthMiddleware(cfg.JWTSecret)
	}
	log.Println("AUTH_MODE=dev: callers are identified by the X-Test-User-ID header")
	return mw.TestUserMiddleware
}

// newCORS allows the configured origins, never with credentials
func newCORS(cfg *config.Config) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Test-User-ID"},
		AllowCredentials: false,
	})
}
