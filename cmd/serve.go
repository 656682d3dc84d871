package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/focus-tools/brackets"
	"github.com/Dosada05/focus-tools/challenge"
	"github.com/Dosada05/focus-tools/config"
	"github.com/Dosada05/focus-tools/handlers"
	"github.com/Dosada05/focus-tools/middleware"
	"github.com/Dosada05/focus-tools/repositories"
	"github.com/Dosada05/focus-tools/routes"
	"github.com/Dosada05/focus-tools/services"
)

const shutdownTimeout = 15 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and websocket feed",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides SERVER_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.ServerPort = servePort
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Duration("challenge_tick", cfg.ChallengeTick),
		slog.Duration("session_idle_ttl", cfg.SessionIdleTTL),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := brackets.NewHub(logger)

	tournamentService := services.NewTournamentService(
		repositories.NewMemorySessionRepository[*brackets.Manager](nil),
		hub,
		logger,
		nil,
	)
	challengeService := services.NewChallengeService(
		repositories.NewMemorySessionRepository[*challenge.Timer](nil),
		hub,
		logger,
		nil,
	)
	appService := services.NewAppService()
	tokens := middleware.NewSessionTokens(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		App:        handlers.NewAppHandler(appService),
		Tournament: handlers.NewTournamentHandler(tournamentService, tokens),
		Challenge:  handlers.NewChallengeHandler(challengeService, tokens),
		WebSocket: handlers.NewWebSocketHandler(
			hub,
			handlers.ServicesLookup(tournamentService, challengeService),
			cfg.CORSAllowedOrigins,
			logger,
		),
	}, tokens, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		return challengeService.RunTicker(gctx, cfg.ChallengeTick)
	})
	g.Go(func() error {
		return services.RunJanitor(gctx, cfg.JanitorInterval, cfg.SessionIdleTTL, logger, tournamentService, challengeService)
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		return err
	}
	logger.Info("application exited")
	return nil
}
