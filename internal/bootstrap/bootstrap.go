package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/emre/seatwise/internal/app/controllers"
	appMigrations "github.com/emre/seatwise/internal/app/migrations"
	appRepos "github.com/emre/seatwise/internal/app/repositories"
	appRoutes "github.com/emre/seatwise/internal/app/routes"
	appServices "github.com/emre/seatwise/internal/app/services"
	"github.com/emre/seatwise/internal/config"
	"github.com/emre/seatwise/internal/db"
	appMiddleware "github.com/emre/seatwise/internal/middleware"
	"github.com/emre/seatwise/internal/pkg/logger"
	"github.com/emre/seatwise/internal/pkg/websocket"
	"github.com/emre/seatwise/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	EnrollmentService appServices.EnrollmentService
	CourseService     appServices.CourseService
	StudentService    appServices.StudentService
	AdminService      appServices.AdminService
	SettingsService   appServices.SettingsService

	CourseController  *appControllers.CourseController
	StudentController *appControllers.StudentController
	AdminController   *appControllers.AdminController
	AllowedController *appControllers.AllowedController

	Hub       *websocket.Hub
	WSHandler *websocket.Handler
	AdminAuth *appMiddleware.AdminAuthMiddleware
	Repos     *appRepos.Repositories
	Logger    zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg.Enrollment.DefaultSeats, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// websocket hub.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// The hub doubles as the seat/global notifier for the services.
	deps.Hub = websocket.NewHub(lgr)
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr)

	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.CourseRepository,
		deps.Repos.StudentRepository,
		deps.Hub,
		cfg.StoreTimeout(),
		lgr,
	)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		cfg.Enrollment.StrictEmailCheck,
		cfg.Enrollment.EmailDomain,
		lgr,
	)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.CourseRepository,
		deps.Repos.StudentRepository,
		deps.Hub,
		cfg.Enrollment.DefaultSeats,
		lgr,
	)
	deps.SettingsService = appServices.NewSettingsService(deps.Repos.SettingsRepository)

	// On-demand statistics for websocket clients come from the admin view.
	deps.Hub.SetStatisticsFunc(func() (interface{}, error) {
		return deps.AdminService.CourseStats(context.Background())
	})

	deps.AdminAuth = appMiddleware.NewAdminAuthMiddleware(cfg.Admin.Secret)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.EnrollmentService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService, deps.SettingsService)
	deps.AllowedController = appControllers.NewAllowedController(deps.SettingsService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.StudentController,
		deps.AdminController,
		deps.AllowedController,
		deps.WSHandler,
		deps.AdminAuth,
	)

	return router
}
