package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/haguru/obito/config"
	"github.com/haguru/obito/internal/interfaces"
	"github.com/haguru/obito/internal/middleware"
	"github.com/haguru/obito/internal/render"
	"github.com/haguru/obito/internal/routes"
	"github.com/haguru/obito/internal/server"
	"github.com/haguru/obito/internal/session"
	"github.com/haguru/obito/internal/uploads"
	mongoUserRepo "github.com/haguru/obito/internal/userrepo/mongo"
	postgresUserRepo "github.com/haguru/obito/internal/userrepo/postgres"
	"github.com/haguru/obito/internal/userservice"
	"github.com/haguru/obito/pkg/databases/mongo"
	"github.com/haguru/obito/pkg/databases/postgres"
	"github.com/haguru/obito/pkg/metrics"
	zerologger "github.com/haguru/obito/pkg/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App represents the main application, containing server and configuration.
// It initializes with a config file, validates settings, and wires the
// session store, upload intake, user repository and route handlers together.
type App struct {
	Server   interfaces.Server
	Config   *config.ServiceConfig
	Logger   interfaces.Logger
	userRepo interfaces.UserRepository
}

// NewApp creates and configures a new App instance.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.ReadLocalConfig(configPath)
	if err != nil {
		return nil, err
	}

	// Validate the configuration
	validator := structValidator.New()
	if err := validator.Struct(cfg); err != nil {
		errors := err.(structValidator.ValidationErrors)
		return nil, fmt.Errorf("validation error: %s", errors)
	}

	logger := zerologger.NewZerologLogger(cfg.ServiceName)
	logger.SetLevel(cfg.LogLevel)

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	serverInstance := server.NewServer(cfg.Host, cfg.Port, logger)
	app.Server = serverInstance

	metricsInstance := app.initializeMetrics()

	dbClient, err := app.initializeDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %v", err)
	}

	userRepo, err := app.initializeUserRepo(dbClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize user repository: %v", err)
	}
	app.userRepo = userRepo

	userService := userservice.NewUserService(userRepo, logger)

	sessions := session.NewManager(cfg.Session.Secret, time.Duration(cfg.Session.TTL))

	intake, err := uploads.NewIntake(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload intake: %v", err)
	}

	renderer, err := render.NewRenderer(cfg.TemplatesDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %v", err)
	}

	route := routes.NewRoute(metricsInstance, userService, sessions, intake, renderer, logger, validator)

	metricsHandler := promhttp.HandlerFor(
		metricsInstance.GetRegistry(),
		promhttp.HandlerOpts{})

	if err := app.Server.AddHandler(routes.MetricsRouteAPI,
		otelhttp.NewHandler(metricsHandler, routes.MetricsRouteAPI)); err != nil {
		return nil, fmt.Errorf("failed to add metrics route: %v", err)
	}

	// Protected routes run behind the session guard.
	handlers := map[string]http.HandlerFunc{
		routes.HomeRouteAPI:   middleware.RequireSession(sessions, route.Home),
		routes.LoginRouteAPI:  route.Login,
		routes.SignupRouteAPI: route.Signup,
		routes.LogoutRouteAPI: route.Logout,
		routes.UploadRouteAPI: middleware.RequireSession(sessions, route.Upload),
	}
	for path, handler := range handlers {
		traced := otelhttp.NewHandler(handler, path)
		if err := app.Server.AddHandler(path, traced); err != nil {
			return nil, fmt.Errorf("failed to add route %s: %v", path, err)
		}
	}

	// Static mounts: uploaded files and public assets.
	if err := app.Server.AddHandler(routes.UploadsMount,
		http.StripPrefix(routes.UploadsMount, http.FileServer(http.Dir(intake.Dir())))); err != nil {
		return nil, fmt.Errorf("failed to mount uploads dir: %v", err)
	}
	if err := app.Server.AddHandler(routes.StaticMount,
		http.StripPrefix(routes.StaticMount, http.FileServer(http.Dir(cfg.PublicDir)))); err != nil {
		return nil, fmt.Errorf("failed to mount public dir: %v", err)
	}

	return app, nil
}

func (app *App) Run() error {
	// start the server
	if err := app.Server.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}

	return nil
}

// Close releases the database connection.
func (app *App) Close(ctx context.Context) error {
	if app.userRepo != nil {
		return app.userRepo.Close(ctx)
	}
	return nil
}

func (app *App) initializeMetrics() interfaces.Metrics {
	appMetrics := metrics.NewMetrics(app.Config.ServiceName)
	appMetrics.RegisterCounter(routes.SignupRequestsTotal, routes.SignupRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.SignupSuccessTotal, routes.SignupSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.SignupErrorsTotal, routes.SignupErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.SignupDurationSeconds,
		routes.SignupDurationSecondsHelp,
		routes.SignupDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.LoginRequestsTotal, routes.LoginRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.LoginSuccessTotal, routes.LoginSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.LoginFailedTotal, routes.LoginFailedTotalHelp)
	appMetrics.RegisterHistogram(
		routes.LoginDurationSeconds,
		routes.LoginDurationSecondsHelp,
		routes.LoginDurationSecondsBuckets)

	appMetrics.RegisterCounter(routes.UploadRequestsTotal, routes.UploadRequestsTotalHelp)
	appMetrics.RegisterCounter(routes.UploadSuccessTotal, routes.UploadSuccessTotalHelp)
	appMetrics.RegisterCounter(routes.UploadErrorsTotal, routes.UploadErrorsTotalHelp)
	appMetrics.RegisterHistogram(
		routes.UploadDurationSeconds,
		routes.UploadDurationSecondsHelp,
		routes.UploadDurationSecondsBuckets)

	return appMetrics
}

func (app *App) initializeDBClient() (interfaces.DBClient, error) {
	switch app.Config.Database.Type {
	case "mongo":
		// Initialize MongoDB client
		dbClient, err := mongo.NewMongoDB(&app.Config.Database.MongoDB, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %v", err)
		}

		// Ensure the MongoDB client is connected
		if err = dbClient.Connect(context.Background(), app.Config.Database.MongoDB.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
		}

		return dbClient, nil

	case "postgres":
		// Create and connect the PostgreSQL database client
		opts := app.Config.Database.Postgres.Options
		dbClient := postgres.NewPostgresDatabaseClient(
			opts.MaxOpenConns, opts.MaxIdleConns, time.Duration(opts.ConnMaxLifetime), app.Logger)

		if err := dbClient.Connect(context.Background(), app.Config.Database.Postgres.DSN); err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
		}

		return dbClient, nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}
}

func (app *App) initializeUserRepo(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	var userRepo interfaces.UserRepository
	var err error

	switch app.Config.Database.Type {
	case "mongo":
		// Initialize MongoDB repository
		userRepo, err = mongoUserRepo.NewMongoUserRepository(dbClient)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB repository: %v", err)
		}

	case "postgres":
		// Initialize PostgreSQL repository
		userRepo, err = postgresUserRepo.NewPostgresUserRepository(dbClient)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL repository: %v", err)
		}

	default:
		return nil, fmt.Errorf("unsupported database type: %s", app.Config.Database.Type)
	}

	// The unique username index/constraint is what keeps concurrent signups
	// from both succeeding.
	if err = userRepo.EnsureIndices(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure indices: %v", err)
	}

	return userRepo, nil
}
