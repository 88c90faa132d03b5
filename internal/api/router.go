package api

import (
	"net/http"
	"time"

	"sql_arena/internal/api/handler"
	"sql_arena/internal/app/service"
	"sql_arena/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	submissionService *service.SubmissionService,
	leaderboardService *service.LeaderboardService,
	communityService *service.CommunityService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Verifies a bearer token when present and puts claims in the request
	// context. Verification never rejects by itself; hard-auth routes add
	// middleware.Authenticator, soft-auth routes read the claims directly.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		oauthHandler := handler.NewOAuthHandler(authService)
		api.Route("/auth", func(auth chi.Router) {
			authHandler.RegisterRoutes(auth)
			oauthHandler.RegisterRoutes(auth)
		})

		problemHandler := handler.NewProblemHandler(problemService)
		api.Route("/problems", problemHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(submissionService)
		api.Route("/submissions", submissionHandler.RegisterRoutes)

		leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
		api.Route("/leaderboard", leaderboardHandler.RegisterRoutes)

		communityHandler := handler.NewCommunityHandler(communityService)
		api.Route("/community", communityHandler.RegisterRoutes)
	})

	return r
}
