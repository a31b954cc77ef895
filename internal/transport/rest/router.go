package rest

import (
	"net/http"
	"os"
	"strings"

	"quizarena/internal/service"
	"quizarena/internal/transport/rest/handler"
	"quizarena/internal/transport/rest/middleware"
	"quizarena/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService  *service.AuthService
	QuizService  *service.QuizService
	ScoreService *service.ScoreService
	UserService  *service.UserService
	Generator    *service.GeneratorService
	WSHub        *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	quizHandler := handler.NewQuizHandler(c.QuizService)
	scoreHandler := handler.NewScoreHandler(c.ScoreService)
	userHandler := handler.NewUserHandler(c.UserService)
	eggHandler := handler.NewEggHandler(c.Generator)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/guest", authHandler.Guest).Methods("POST", "OPTIONS")
	v1.HandleFunc("/scores", scoreHandler.Save).Methods("POST", "OPTIONS")
	v1.HandleFunc("/egg", eggHandler.Dispatch).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quizzes/{quizId}", quizHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/quizzes/{quizId}/leaderboard", userHandler.QuizLeaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard", userHandler.GlobalLeaderboard).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/leaderboard", wsHandler.LeaderboardWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/quizzes/generate", quizHandler.Generate).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/users/me", userHandler.Profile).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/users/me/history", userHandler.History).Methods("GET", "OPTIONS")

	return r
}

// defaultAllowedOrigins mirrors the deployed frontend origins. Extra
// origins can be added with CORS_ALLOWED_ORIGINS (comma-separated).
var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"https://marvel-easter-egg-finder.vercel.app",
}

func allowedOrigins() []string {
	origins := append([]string{}, defaultAllowedOrigins...)
	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return origins
}

// corsMiddleware enforces the origin allow-list: browser requests from
// any other origin get a 403, requests without an Origin header
// (curl, server-to-server) pass through.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			allowed := false
			for _, o := range allowedOrigins() {
				if o == origin {
					allowed = true
					break
				}
			}
			if !allowed {
				http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
