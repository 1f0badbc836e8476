package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctor-discovery/config"
	deliveryHttp "doctor-discovery/internal/delivery/http"
	"doctor-discovery/internal/delivery/http/handler"
	"doctor-discovery/internal/delivery/http/middleware"
	"doctor-discovery/internal/domain/entity"
	"doctor-discovery/internal/infrastructure/cache"
	"doctor-discovery/internal/infrastructure/database"
	"doctor-discovery/internal/repository"
	"doctor-discovery/internal/service"
	"doctor-discovery/internal/usecase"
	"doctor-discovery/pkg/hasher"
	"doctor-discovery/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	if cfg.DB.Migrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, err
		}
	}
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Redis only backs the doctor listing cache, so the app starts without it
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logrus.Warnf("Redis unavailable, doctor cache disabled: %v", err)
	} else {
		app.RedisClient = redisClient
		logrus.Info("Redis connected successfully")
	}

	// Initialize all layers
	server, err := initializeServer(cfg, db, app.RedisClient)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.InfoLevel)
}

func loadLexicon(path string) (*service.SymptomLexicon, error) {
	if path == "" {
		return service.DefaultSymptomLexicon(), nil
	}
	lexicon, err := service.LoadSymptomLexiconFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load symptom lexicon: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"file":     path,
		"keywords": lexicon.Len(),
	}).Info("Symptom lexicon loaded")
	return lexicon, nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	defaultSort := entity.SortKey(cfg.Search.DefaultSort)
	if !entity.ValidSortKey(defaultSort) {
		return nil, fmt.Errorf("invalid SEARCH_DEFAULT_SORT %q", cfg.Search.DefaultSort)
	}

	location, err := time.LoadLocation(cfg.Schedule.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE: %w", err)
	}

	planner, err := service.NewAppointmentSlotPlanner(cfg.Schedule.Open, cfg.Schedule.Close, cfg.Schedule.SlotMinutes)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	lexicon, err := loadLexicon(cfg.Search.LexiconFile)
	if err != nil {
		return nil, err
	}

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	reviewRepo := repository.NewReviewRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	doctorRepo := repository.NewDoctorRepository()
	if redisClient != nil {
		doctorRepo = repository.NewCachedDoctorRepository(doctorRepo, redisClient, cfg.Search.CacheTTL, log)
	}

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	ranker := service.NewDoctorRanker()
	builder := service.NewDoctorQueryBuilder(lexicon)
	passwordHasher := hasher.NewBcryptHasher(cfg.App.BcryptCost)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, passwordHasher, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, userRepo, ranker, auditService)
	searchUsecase := usecase.NewDoctorSearchUsecase(db, log, doctorRepo, builder, ranker, defaultSort)
	reviewUsecase := usecase.NewReviewUsecase(db, log, reviewRepo, doctorRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorRepo, userRepo, planner, auditService, location)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	searchHandler := handler.NewSearchHandler(searchUsecase)
	reviewHandler := handler.NewReviewHandler(reviewUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		searchHandler,
		reviewHandler,
		appointmentHandler,
		auditLogHandler,
		corsMiddleware,
		loggingMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
