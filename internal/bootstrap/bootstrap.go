package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	appControllers "github.com/eduquest/client/internal/app/controllers"
	appRoutes "github.com/eduquest/client/internal/app/routes"
	appServices "github.com/eduquest/client/internal/app/services"
	"github.com/eduquest/client/internal/config"
	"github.com/eduquest/client/internal/gateway"
	appMiddleware "github.com/eduquest/client/internal/middleware"
	"github.com/eduquest/client/internal/pkg/logger"
	"github.com/eduquest/client/internal/pkg/querycache"
	"github.com/eduquest/client/internal/session"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config          *config.Config
	Logger          zerolog.Logger
	Storage         session.Storage
	StorageCloser   io.Closer
	Store           *session.Store
	Registry        *prometheus.Registry
	Gateway         *gateway.Client
	AuthService     *appServices.AuthService
	LearningService *appServices.LearningService
	Guard           *appMiddleware.Guard
	Controllers     appRoutes.Controllers

	closeOnce sync.Once
	closeErr  error
}

// Close releases the session backend. It is safe to call more than once.
func (d *Dependencies) Close() error {
	if d == nil || d.StorageCloser == nil {
		return nil
	}
	d.closeOnce.Do(func() {
		d.closeErr = d.StorageCloser.Close()
	})
	return d.closeErr
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// BuildDependencies creates and wires all application dependencies.
// Callers must Close the result to release the session backend.
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	storage, closer, err := session.OpenStorage(ctx, cfg, lgr.With().Str("component", "session").Logger())
	if err != nil {
		lgr.Error().Err(err).Str("backend", cfg.Session.Backend).Msg("Failed to open session storage")
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}
	lgr.Debug().Str("backend", cfg.Session.Backend).Str("profile", cfg.Session.Profile).Msg("Session storage opened")

	store := session.NewStore(storage, lgr)

	registry := prometheus.NewRegistry()
	api := gateway.New(gateway.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.APITimeout(),
		UserAgent: cfg.API.UserAgent,
	}, store,
		gateway.WithMetrics(gateway.NewMetrics(registry)),
		gateway.WithLogger(lgr),
	)

	// --- Services ---
	authService := appServices.NewAuthService(api.Auth(), store, lgr)
	learningService := appServices.NewLearningService(api, querycache.New(cfg.CacheTTL()), lgr)

	// --- Controllers ---
	controllers := appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(authService, learningService, lgr),
		Course:     appControllers.NewCourseController(learningService, authService, lgr),
		Enrollment: appControllers.NewEnrollmentController(learningService, lgr),
		Dashboard:  appControllers.NewDashboardController(learningService, lgr),
	}

	return &Dependencies{
		Config:          cfg,
		Logger:          lgr,
		Storage:         storage,
		StorageCloser:   closer,
		Store:           store,
		Registry:        registry,
		Gateway:         api,
		AuthService:     authService,
		LearningService: learningService,
		Guard:           appMiddleware.NewGuard(store),
		Controllers:     controllers,
	}, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(deps.Logger))

	appRoutes.SetupRouter(router, deps.Controllers, deps.Guard, deps.Registry)

	return router
}
