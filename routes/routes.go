package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/focus-tools/handlers"
	"github.com/Dosada05/focus-tools/middleware"
	"github.com/Dosada05/focus-tools/services"
)

type Handlers struct {
	App        *handlers.AppHandler
	Tournament *handlers.TournamentHandler
	Challenge  *handlers.ChallengeHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, tokens *middleware.SessionTokens, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)

	router.Get("/healthz", handlers.HealthHandler)

	// websocket upgrades must not go through the request timeout
	router.Get("/ws/{kind}/{sessionID}", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"Location", middleware.TokenRefreshHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		r.Route("/apps", func(r chi.Router) {
			r.Get("/", h.App.ListHandler)
			r.Get("/{appID}", h.App.GetHandler)
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", h.Tournament.CreateHandler)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetHandler)
				r.Get("/rankings", h.Tournament.RankingsHandler)

				r.Group(func(r chi.Router) {
					r.Use(tokens.RequireSessionOwner(services.TournamentRoomKind, "sessionID"))
					r.Post("/start", h.Tournament.StartHandler)
					r.Post("/matches/{matchID}/result", h.Tournament.RecordResultHandler)
					r.Post("/advance", h.Tournament.AdvanceHandler)
					r.Post("/reset", h.Tournament.ResetHandler)
					r.Delete("/", h.Tournament.DeleteHandler)
				})
			})
		})

		r.Route("/challenges", func(r chi.Router) {
			r.Post("/", h.Challenge.CreateHandler)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.Challenge.GetHandler)

				r.Group(func(r chi.Router) {
					r.Use(tokens.RequireSessionOwner(services.ChallengeRoomKind, "sessionID"))
					r.Post("/start", h.Challenge.StartHandler)
					r.Post("/activity", h.Challenge.ActivityHandler)
					r.Post("/pause", h.Challenge.PauseHandler)
					r.Post("/resume", h.Challenge.ResumeHandler)
					r.Post("/reset", h.Challenge.ResetHandler)
					r.Delete("/", h.Challenge.DeleteHandler)
				})
			})
		})
	})
}
