// cmd/api/main.go
// Main entry point: bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uniroomhq/uniroom-backend/internal/auth"
	"github.com/uniroomhq/uniroom-backend/internal/common/database"
	"github.com/uniroomhq/uniroom-backend/internal/config"
	"github.com/uniroomhq/uniroom-backend/internal/matching"
	"github.com/uniroomhq/uniroom-backend/internal/messaging"
	"github.com/uniroomhq/uniroom-backend/internal/profile"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🏠 Starting UniRoom Roommate Matching API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration loaded and valid")
	if cfg.IsDevelopment() {
		log.Println("⚠️  Development mode: default secrets are in effect")
	}

	// 3. Connect to PostgreSQL
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without Redis", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 5. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Initialize Auth system
	log.Println("\n🔐 Step 6: Initializing authentication system...")
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, redisClient, &auth.Config{
		JWTSecret:           cfg.JWTSecret,
		AccessTokenExpiry:   cfg.AccessTokenExpiry,
		RefreshTokenExpiry:  cfg.RefreshTokenExpiry,
		BCryptCost:          cfg.BCryptCost,
		LoginAttemptsMax:    cfg.LoginAttemptsMax,
		LoginAttemptsWindow: cfg.LoginAttemptsWindow,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Authentication system initialized")

	// 7. Initialize Profile system
	log.Println("\n👤 Step 7: Initializing Profile system...")
	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(profileService, authService)
	log.Println("✅ Profile system initialized")

	// 8. Initialize Matching system
	log.Println("\n💘 Step 8: Initializing Matching system...")
	matchingRepo := matching.NewPostgresRepository(db, profileRepo)
	matchingService := matching.NewService(matchingRepo, cfg.CandidateLimit)
	matchingHandler := matching.NewHandler(matchingService)
	log.Println("✅ Matching system initialized")

	// 9. Initialize Messaging system
	log.Println("\n💬 Step 9: Initializing Messaging system...")
	messagingHub := messaging.NewHub()
	go messagingHub.Run()

	messagingRepo := messaging.NewPostgresRepository(db)
	messagingService := messaging.NewService(messagingRepo, matchingRepo, messagingHub)
	messagingHandler := messaging.NewHandler(messagingService, messagingHub, cfg.MessagePageSize)
	log.Println("✅ Messaging system initialized")

	// 10. Set up router
	log.Println("\n🛣️  Step 10: Registering routes...")
	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	router.HandleFunc("/health", healthCheck(db, redisClient)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/", apiInfo).Methods(http.MethodGet)

	authHandler.RegisterRoutes(router, authMiddleware)
	profileHandler.RegisterRoutes(router, authMiddleware)
	matchingHandler.RegisterRoutes(router, authMiddleware)
	messagingHandler.RegisterRoutes(router, authMiddleware)
	log.Println("✅ Routes registered")

	// 11. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	log.Println("   - Shutting down messaging hub...")
	messagingHub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

func healthCheck(db *sqlx.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{
			"status":   "ok",
			"database": "ok",
			"redis":    "disabled",
		}
		code := http.StatusOK

		if err := db.PingContext(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			status["redis"] = "ok"
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				status["redis"] = "unreachable"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}
}

func apiInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"name":    "UniRoom API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"auth":      "/api/v1/auth",
			"profiles":  "/api/v1/profile",
			"matching":  "/api/v1/matching",
			"matches":   "/api/v1/matches",
			"messages":  "/api/v1/matches/{id}/messages",
			"websocket": "/api/v1/ws",
			"health":    "/health",
			"metrics":   "/metrics",
		},
	})
}

// loggingMiddleware logs all requests with status and duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("%s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations creates the schema if it does not exist yet
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) DEFAULT 'user',
			is_verified BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS profiles (
			id SERIAL PRIMARY KEY,
			user_id INTEGER UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			avatar TEXT,
			university VARCHAR(255),
			course VARCHAR(255),
			graduation_year INTEGER,
			age INTEGER NOT NULL,
			gender VARCHAR(20) NOT NULL,
			bio TEXT,
			interests TEXT[] DEFAULT '{}',
			lifestyle JSONB DEFAULT '{}',
			location JSONB DEFAULT '{}',
			budget JSONB DEFAULT '{}',
			preferences JSONB DEFAULT '{}',
			is_verified BOOLEAN DEFAULT FALSE,
			is_active BOOLEAN DEFAULT TRUE,
			last_active TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS profile_likes (
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, target_id)
		)`,

		`CREATE TABLE IF NOT EXISTS profile_dislikes (
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, target_id)
		)`,

		// user1_id < user2_id always; the unique constraint is what makes
		// concurrent reciprocal likes collapse to a single match
		`CREATE TABLE IF NOT EXISTS matches (
			id SERIAL PRIMARY KEY,
			user1_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user2_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status VARCHAR(20) NOT NULL DEFAULT 'matched',
			initiated_by INTEGER NOT NULL REFERENCES users(id),
			matched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			score INTEGER NOT NULL DEFAULT 0,
			score_lifestyle DOUBLE PRECISION NOT NULL DEFAULT 0,
			score_interests DOUBLE PRECISION NOT NULL DEFAULT 0,
			score_budget DOUBLE PRECISION NOT NULL DEFAULT 0,
			score_location DOUBLE PRECISION NOT NULL DEFAULT 0,
			score_preferences DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_message JSONB,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT matches_pair_unique UNIQUE (user1_id, user2_id),
			CONSTRAINT matches_pair_ordered CHECK (user1_id < user2_id)
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
			sender_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			receiver_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			message_type VARCHAR(20) DEFAULT 'text',
			is_read BOOLEAN DEFAULT FALSE,
			read_at TIMESTAMP,
			delivered_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_profiles_active_last_active
			ON profiles(is_active, last_active DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user1 ON matches(user1_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches(user2_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_match_created
			ON messages(match_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_receiver_unread
			ON messages(receiver_id) WHERE is_read = FALSE`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
