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
	_ "github.com/lib/pq"

	"github.com/dykim-dev/matchboard/brackets"
	"github.com/dykim-dev/matchboard/config"
	"github.com/dykim-dev/matchboard/db"
	"github.com/dykim-dev/matchboard/handlers"
	"github.com/dykim-dev/matchboard/repositories"
	api "github.com/dykim-dev/matchboard/routes"
	"github.com/dykim-dev/matchboard/services"
	"github.com/dykim-dev/matchboard/storage"
)

const schedulerInterval = 1 * time.Hour // How often past tournaments are deactivated

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	bracketRepo := repositories.NewPostgresFinalBracketRepository(dbConn)
	slotRepo := repositories.NewPostgresFinalSlotRepository(dbConn)
	finalMatchRepo := repositories.NewPostgresFinalMatchRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	noticeRepo := repositories.NewPostgresNoticeRepository(dbConn)
	historyRepo := repositories.NewPostgresRatingHistoryRepository(dbConn)
	logger.Info("repositories initialized")

	txRunner := db.NewTxRunner(dbConn)

	authService := services.NewAuthService(playerRepo)
	playerService := services.NewPlayerService(playerRepo, historyRepo, uploader)
	matchService := services.NewMatchService(txRunner, matchRepo, playerRepo, teamRepo, tournamentRepo, historyRepo, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, logger)
	finalsService := services.NewFinalsService(txRunner, bracketRepo, slotRepo, finalMatchRepo, playerRepo, wsHub, logger)
	leagueService := services.NewLeagueService(leagueRepo, playerRepo, logger)
	noticeService := services.NewNoticeService(noticeRepo, uploader)
	teamService := services.NewTeamService(teamRepo, playerRepo)
	dashboardService := services.NewDashboardService(playerRepo, matchRepo, tournamentRepo, noticeRepo)
	logger.Info("services initialized")

	// Periodically deactivate tournaments whose date has passed.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("tournament scheduler started", slog.Duration("interval", schedulerInterval))

		if err := tournamentService.DeactivatePast(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := tournamentService.DeactivatePast(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	playerHandler := handlers.NewPlayerHandler(playerService)
	matchHandler := handlers.NewMatchHandler(matchService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	finalsHandler := handlers.NewFinalsHandler(finalsService)
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	noticeHandler := handlers.NewNoticeHandler(noticeService)
	teamHandler := handlers.NewTeamHandler(teamService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		playerHandler,
		matchHandler,
		tournamentHandler,
		finalsHandler,
		leagueHandler,
		noticeHandler,
		teamHandler,
		dashboardHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
