package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/internal/auth"
	"github.com/freeeve/relic-eclipse/internal/config"
	"github.com/freeeve/relic-eclipse/internal/handler"
	"github.com/freeeve/relic-eclipse/internal/logger"
	"github.com/freeeve/relic-eclipse/internal/middleware"
	"github.com/freeeve/relic-eclipse/internal/repository/postgres"
	redisrepo "github.com/freeeve/relic-eclipse/internal/repository/redis"
	"github.com/freeeve/relic-eclipse/internal/service"
)

func main() {
	cfg := config.Load()
	logger.Init()
	log.Info().
		Str("databaseURL", cfg.DatabaseURL).
		Dur("challengeWindow", cfg.ChallengeWindow).
		Dur("aiThinkDelay", cfg.AIThinkDelay).
		Msg("Config loaded")

	// Database (match archive)
	db, err := postgres.Connect(context.Background(), cfg.DatabaseURL, postgres.ArchivePool())
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis (live sessions)
	redisClient, err := redisrepo.NewClient(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Keyspace notifications drive challenge expiry.
	if err := redisClient.Underlying().ConfigSet(context.Background(), "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to set Redis keyspace notifications (falling back to polling)")
	}

	matchRepo := postgres.NewMatchRepo(db)
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	wsHub := handler.NewHub()
	sched := service.NewScheduler(cfg.SchedulerTick)

	sessions := service.NewSessionService(redisClient, matchRepo, wsHub, sched, service.SessionConfig{
		SessionTTL:      cfg.SessionTTL,
		ChallengeWindow: cfg.ChallengeWindow,
		AIThinkDelay:    cfg.AIThinkDelay,
	})
	timerListener := service.NewTimerListener(redisClient.Underlying(), sessions)

	gameHandler := handler.NewGameHandler(sessions, jwtMgr)
	matchHandler := handler.NewMatchHandler(matchRepo)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	gameHandler.Register(mux, auth.Middleware(jwtMgr))
	matchHandler.Register(mux)
	// Seat token rides on the query string for the upgrade.
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	root := middleware.Chain(mux,
		middleware.Recover,
		middleware.Logger,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.JSON,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reschedule AI turns and open challenge windows left over from a restart.
	if err := sessions.RecoverSessions(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to recover live sessions (non-fatal)")
	}

	go sched.Run(ctx, sessions.RunTask)
	go timerListener.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
