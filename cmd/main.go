package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/Dosada05/camma-system/config"
	"github.com/Dosada05/camma-system/db"
	"github.com/Dosada05/camma-system/feed"
	"github.com/Dosada05/camma-system/handlers"
	"github.com/Dosada05/camma-system/repositories"
	api "github.com/Dosada05/camma-system/routes"
	"github.com/Dosada05/camma-system/services"
	"github.com/Dosada05/camma-system/storage"
)

const (
	dbConnectTimeout = 5 * time.Second
	shutdownTimeout  = 15 * time.Second
)

func main() {
	app := &cli.App{
		Name:  "camma",
		Usage: "combat sports promotion backend",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start HTTP API server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database schema and exit",
				Action: migrate,
			},
		},
		// Без подкоманды запускаем сервер
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func openDB(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	dbConn, err := db.Connect(cfg.DatabaseURL, dbConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")
	return dbConn, nil
}

func migrate(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	dbConn, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.ApplySchema(c.Context, dbConn); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("database schema applied")
	return nil
}

func newUploader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.FileUploader, error) {
	r2cfg := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2cfg.Enabled() {
		logger.Info("using Cloudflare R2 uploader", slog.String("bucket", cfg.R2BucketName))
		return storage.NewCloudflareR2Uploader(ctx, r2cfg)
	}
	logger.Info("using local uploader", slog.String("dir", cfg.UploadDir))
	return storage.NewLocalUploader(cfg.UploadDir)
}

func serve(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Bool("debug", cfg.Debug))

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if cfg.AutoMigrate {
		if err := db.ApplySchema(ctx, dbConn); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		logger.Info("database schema applied")
	}

	uploader, err := newUploader(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize uploader: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewDomainMetrics(registry)

	// WebSocket Hub для live-обновлений боевой карты
	hub := feed.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Репозитории
	tx := repositories.NewTransactor(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	fighterRepo := repositories.NewPostgresFighterRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	promotionRepo := repositories.NewPostgresPromotionRepository(dbConn)
	trainerRepo := repositories.NewPostgresTrainerRepository(dbConn)
	managerRepo := repositories.NewPostgresManagerRepository(dbConn)
	contractRepo := repositories.NewPostgresContractRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	applicationRepo := repositories.NewPostgresApplicationRepository(dbConn)
	fightRepo := repositories.NewPostgresFightRepository(dbConn)
	achievementRepo := repositories.NewPostgresAchievementRepository(dbConn)
	mediaRepo := repositories.NewPostgresMediaRepository(dbConn)
	taskRepo := repositories.NewPostgresTaskRepository(dbConn)

	relations := &services.RelationChecker{
		Clubs:      clubRepo,
		Trainers:   trainerRepo,
		Managers:   managerRepo,
		Promotions: promotionRepo,
		Fighters:   fighterRepo,
		Events:     eventRepo,
		Users:      userRepo,
	}

	// Сервисы
	tokens, err := services.NewTokenService(cfg.JWTSecretKey, cfg.JWTAlgorithm, cfg.AccessTokenExpiry)
	if err != nil {
		return fmt.Errorf("initialize token service: %w", err)
	}
	sms := services.NewSMSSender(services.SMSConfig{
		APIKey:        cfg.SMSAPIKey,
		APIURL:        cfg.SMSAPIURL,
		RatePerSecond: 5,
		Burst:         10,
	}, nil, logger)

	authService := services.NewAuthService(userRepo, sms, tokens, metrics, logger)
	userService := services.NewUserService(userRepo)
	fighterService := services.NewFighterService(services.FighterServiceDeps{
		Tx:              tx,
		FighterRepo:     fighterRepo,
		UserRepo:        userRepo,
		AchievementRepo: achievementRepo,
		Relations:       relations,
		Uploader:        uploader,
		MaxUploadSize:   cfg.MaxUploadSize,
		Metrics:         metrics,
		Logger:          logger,
	})
	orgService := services.NewOrganizationService(clubRepo, promotionRepo, trainerRepo, managerRepo, relations)
	contractService := services.NewContractService(contractRepo, relations)
	eventService := services.NewEventService(services.EventServiceDeps{
		Tx:              tx,
		EventRepo:       eventRepo,
		ApplicationRepo: applicationRepo,
		FightRepo:       fightRepo,
		MediaRepo:       mediaRepo,
		Relations:       relations,
		Uploader:        uploader,
		Notifier:        hub,
		MaxUploadSize:   cfg.MaxUploadSize,
		Metrics:         metrics,
		Logger:          logger,
	})
	taskService := services.NewTaskService(taskRepo, relations)
	dashboardService := services.NewDashboardService(fighterRepo, eventRepo, applicationRepo, contractRepo, taskRepo)
	logger.Info("services initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		System:       handlers.NewSystemHandler(cfg.AppName, cfg.AppVersion),
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(userService),
		Fighter:      handlers.NewFighterHandler(fighterService, cfg.MaxUploadSize),
		Organization: handlers.NewOrganizationHandler(orgService),
		Contract:     handlers.NewContractHandler(contractService),
		Event:        handlers.NewEventHandler(eventService, cfg.MaxUploadSize),
		Task:         handlers.NewTaskHandler(taskService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		WebSocket:    handlers.NewWebSocketHandler(hub, eventService, cfg.CORSOrigins, logger),
	}, api.Options{
		JWTSecret:    cfg.JWTSecretKey,
		JWTAlgorithm: cfg.JWTAlgorithm,
		CORSOrigins:  cfg.CORSOrigins,
		UploadDir:    cfg.UploadDir,
		Debug:        cfg.Debug,
		OTPRateLimit: rate.Every(time.Minute / 5),
		OTPBurst:     5,
		TrustProxy:   cfg.TrustProxy,
		Gatherer:     registry,
		Registerer:   registry,
		Logger:       logger,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
