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

	"github.com/Dosada05/league-engine/brackets"
	"github.com/Dosada05/league-engine/config"
	"github.com/Dosada05/league-engine/db"
	"github.com/Dosada05/league-engine/handlers"
	"github.com/Dosada05/league-engine/metrics"
	"github.com/Dosada05/league-engine/middleware"
	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	api "github.com/Dosada05/league-engine/routes"
	"github.com/Dosada05/league-engine/scheduler"
	"github.com/Dosada05/league-engine/services"
	"github.com/Dosada05/league-engine/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cliApp := &cli.App{
		Name:  "league-engine",
		Usage: "tournament progression engine",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the auto-confirm scheduler",
				Action: func(c *cli.Context) error { return serve(c.Context, logger) },
			},
			{
				Name:   "migrate",
				Usage:  "apply the database schema and River migrations",
				Action: func(c *cli.Context) error { return migrate(c.Context, logger) },
			},
			{
				Name:   "auto-confirm",
				Usage:  "confirm pending reports older than the grace period once and exit",
				Action: func(c *cli.Context) error { return autoConfirmOnce(c.Context, logger) },
			},
			{
				Name:  "issue-token",
				Usage: "sign a bearer token for local testing",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "role", Value: string(models.RolePlayer)},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					token, err := middleware.IssueToken([]byte(cfg.JWTSecretKey), c.Int("user-id"), models.UserRole(c.String("role")), c.Duration("ttl"))
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// app - собранные зависимости движка.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	hub      *brackets.Hub
	metrics  *metrics.EngineMetrics
	uploader storage.FileUploader

	standingsService  services.StandingsService
	bracketService    services.BracketService
	matchService      services.MatchService
	adminService      services.AdminMatchService
	tournamentService services.TournamentService
	attachmentService services.AttachmentService
	statsService      services.StatsService
}

func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	for _, key := range cfg.Tournament.UnknownPointKeys {
		logger.Warn("unknown points key ignored", slog.String("key", key), slog.String("file", cfg.TournamentConfigPath))
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("scheduler", cfg.Scheduler))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader = storage.DisabledUploader{}
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		}, logger)
		if err != nil {
			dbConn.Close()
			return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, screenshot uploads are disabled")
	}

	wsHub := brackets.NewHub(logger)
	engineMetrics := metrics.New(prometheus.NewRegistry())
	notifier := services.MultiNotifier{wsHub, services.LogNotifier{Logger: logger.With(slog.String("component", "audit"))}}
	clock := services.SystemClock{}
	tx := db.NewTransactor(dbConn, logger)

	// Инициализация репозиториев
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	stageRepo := repositories.NewPostgresStageRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	reportRepo := repositories.NewPostgresMatchReportRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)

	// Инициализация сервисов
	standingsService := services.NewStandingsService(
		tx,
		stageRepo,
		matchRepo,
		participantRepo,
		standingRepo,
		cfg.Tournament.Points,
		clock,
		notifier,
		engineMetrics,
		logger,
	)
	bracketService := services.NewBracketService(
		tx,
		tournamentRepo,
		stageRepo,
		matchRepo,
		reportRepo,
		participantRepo,
		standingsService,
		clock,
		notifier,
		engineMetrics,
		logger,
	)
	matchService := services.NewMatchService(
		tx,
		matchRepo,
		reportRepo,
		participantRepo,
		stageRepo,
		standingsService,
		bracketService,
		services.ReportConfig{AutoConfirmAfter: cfg.AutoConfirmAfter},
		clock,
		notifier,
		engineMetrics,
		logger,
	)
	adminService := services.NewAdminMatchService(
		tx,
		matchRepo,
		reportRepo,
		stageRepo,
		standingsService,
		bracketService,
		clock,
		notifier,
		engineMetrics,
		logger,
	)
	tournamentService := services.NewTournamentService(
		tx,
		tournamentRepo,
		stageRepo,
		matchRepo,
		participantRepo,
		standingRepo,
		standingsService,
		logger,
	)
	attachmentService := services.NewAttachmentService(matchRepo, participantRepo, uploader, logger)
	statsService := services.NewStatsService(
		tournamentRepo,
		stageRepo,
		matchRepo,
		reportRepo,
		participantRepo,
		standingRepo,
		clock,
		logger,
	)
	logger.Info("services initialized")

	return &app{
		cfg:               cfg,
		db:                dbConn,
		hub:               wsHub,
		metrics:           engineMetrics,
		uploader:          uploader,
		standingsService:  standingsService,
		bracketService:    bracketService,
		matchService:      matchService,
		adminService:      adminService,
		tournamentService: tournamentService,
		attachmentService: attachmentService,
		statsService:      statsService,
	}, nil
}

func (a *app) close(logger *slog.Logger) {
	if err := a.db.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	logger.Info("database connection closed")
}

func (a *app) newScheduler(ctx context.Context, logger *slog.Logger) (scheduler.Scheduler, error) {
	if a.cfg.Scheduler == config.SchedulerTicker {
		return scheduler.NewTickerScheduler(a.matchService, a.cfg.AutoConfirmInterval, logger), nil
	}
	return scheduler.NewRiverScheduler(ctx, a.cfg.DatabaseURL, a.matchService, a.cfg.AutoConfirmInterval, logger)
}

func serve(ctx context.Context, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	// Запуск WebSocket Hub
	go a.hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Запуск планировщика авто-подтверждения
	sched, err := a.newScheduler(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}

	// Инициализация обработчиков HTTP
	tournamentHandler := handlers.NewTournamentHandler(a.tournamentService, a.standingsService, a.bracketService)
	matchHandler := handlers.NewMatchHandler(a.matchService, a.attachmentService)
	adminHandler := handlers.NewAdminHandler(a.adminService, a.matchService, a.tournamentService, a.standingsService, a.bracketService)
	statsHandler := handlers.NewStatsHandler(a.statsService)
	webSocketHandler := handlers.NewWebSocketHandler(a.hub, logger)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		JWTSecret:      []byte(a.cfg.JWTSecretKey),
		AllowedOrigins: a.cfg.AllowedOrigins,
		Metrics:        a.metrics.Handler(),
	}, tournamentHandler, matchHandler, adminHandler, statsHandler, webSocketHandler)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop scheduler", slog.Any("error", err))
	}
	logger.Info("application exited")
	return serveErr
}

func migrate(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, dbConn); err != nil {
		return err
	}
	logger.Info("schema applied")

	pool, err := scheduler.OpenPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := scheduler.MigrateRiver(ctx, pool); err != nil {
		return err
	}
	logger.Info("River migrations applied")
	return nil
}

func autoConfirmOnce(ctx context.Context, logger *slog.Logger) error {
	a, err := newApp(ctx, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	summary, err := a.matchService.AutoConfirmDue(ctx)
	if err != nil {
		return err
	}
	logger.Info("auto-confirm finished",
		slog.Int("due", summary.Due), slog.Int("confirmed", summary.Confirmed),
		slog.Int("skipped", summary.Skipped), slog.Int("failed", summary.Failed))
	return nil
}
