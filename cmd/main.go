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

	"github.com/matchops/cup-console/brackets"
	"github.com/matchops/cup-console/config"
	"github.com/matchops/cup-console/db"
	"github.com/matchops/cup-console/handlers"
	"github.com/matchops/cup-console/repositories"
	"github.com/matchops/cup-console/routes"
	"github.com/matchops/cup-console/services"
	"github.com/matchops/cup-console/storage"
)

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

	uploader := storage.Disabled()
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize photo storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("photo storage initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("photo storage not configured, photo uploads disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	donationRepo := repositories.NewPostgresDonationRepository(dbConn)
	predictionRepo := repositories.NewPostgresPredictionRepository(dbConn)
	photoRepo := repositories.NewPostgresPhotoRepository(dbConn)
	newsRepo := repositories.NewPostgresNewsRepository(dbConn)

	authService := services.NewAuthService(userRepo, []byte(cfg.JWTSecretKey), logger)
	matchService := services.NewMatchService(matchRepo, teamRepo, wsHub, logger)
	bracketService := services.NewBracketService(matchService, tournamentRepo, logger)
	teamService := services.NewTeamService(teamRepo, tournamentRepo, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, logger)
	donationService := services.NewDonationService(donationRepo, logger)
	predictionService := services.NewPredictionService(predictionRepo, matchService, logger)
	photoService := services.NewPhotoService(photoRepo, uploader, logger)
	newsService := services.NewNewsService(newsRepo, logger)

	// Background poller: feed fresh snapshots to every open bracket session.
	// Sessions with unsaved edits discard the snapshot on their own.
	pollCtx, cancelPoll := context.WithCancel(context.Background())
	defer cancelPoll()
	go func() {
		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()
		logger.Info("bracket poller started", slog.Duration("interval", cfg.PollInterval))
		for {
			select {
			case <-ticker.C:
				bracketService.RefreshAll(pollCtx)
			case <-pollCtx.Done():
				return
			}
		}
	}()

	router := routes.InitRoutes(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Team:       handlers.NewTeamHandler(teamService),
		Match:      handlers.NewMatchHandler(matchService),
		Bracket:    handlers.NewBracketHandler(bracketService),
		Donation:   handlers.NewDonationHandler(donationService),
		Prediction: handlers.NewPredictionHandler(predictionService),
		Photo:      handlers.NewPhotoHandler(photoService),
		News:       handlers.NewNewsHandler(newsService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, logger),
	}, []byte(cfg.JWTSecretKey))

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
