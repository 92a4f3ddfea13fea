package routes

import (
	"net/http"

	"OdontoSystem/cache"
	"OdontoSystem/config"
	"OdontoSystem/controllers"
	"OdontoSystem/database"
	"OdontoSystem/handlers"
	"OdontoSystem/logger"
	"OdontoSystem/middlewares"
	"OdontoSystem/repositories"
	"OdontoSystem/services"
	"OdontoSystem/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies are the process-wide clients built once in main.
type Dependencies struct {
	Config *config.AppConfig
	Store  database.Store
	Cache  cache.Store
	Tokens *utils.TokenMaker
	// Mailer is nil when SMTP is not configured.
	Mailer   utils.Mailer
	Logger   *logger.Logger
	Registry *prometheus.Registry
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(deps Dependencies) http.Handler {
	cfg := deps.Config
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID(deps.Logger))
	router.Use(middlewares.LoggingMiddleware(deps.Logger))
	router.Use(middlewares.NewHTTPMetrics(registry).Middleware())
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(cfg.CorsAllowedOrigins)))
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(deps.Store)
	authService := services.NewAuthService(userRepo, deps.Tokens, deps.Cache, deps.Mailer, deps.Logger, services.AuthConfig{
		LoginAttempts: cfg.LoginAttempts,
		LoginWindow:   cfg.LoginWindow,
	})
	userService := services.NewUserService(userRepo, authService)

	records := controllers.RecordHandlers{
		Patients:     handlers.NewPatientHandler(services.NewPatientService(repositories.NewPatientRepository(deps.Store))),
		Dentists:     handlers.NewDentistHandler(services.NewDentistService(repositories.NewDentistRepository(deps.Store))),
		Procedures:   handlers.NewProcedureHandler(services.NewProcedureService(repositories.NewProcedureRepository(deps.Store))),
		Appointments: handlers.NewAppointmentHandler(services.NewAppointmentService(repositories.NewAppointmentRepository(deps.Store))),
	}
	clinicLedger := handlers.NewLedgerHandler(services.NewClinicLedgerService(
		repositories.NewLedgerRepository(deps.Store, database.TableClinicEntries),
	))
	personalLedger := handlers.NewLedgerHandler(services.NewPersonalLedgerService(
		repositories.NewLedgerRepository(deps.Store, database.TablePersonalEntries),
		repositories.NewGoalRepository(deps.Store),
	))

	// Register routes
	var guards []gin.HandlerFunc
	if cfg.RequireAuthOnRecords {
		guards = append(guards, middlewares.TokenAuthMiddleware(authService))
	}
	controllers.SetupRecordRoutes(router, records, guards...)
	controllers.SetupFinanceRoutes(router, clinicLedger, personalLedger, guards...)

	authController := controllers.NewAuthController(handlers.NewAuthHandler(authService, userService), authService, authService.ResetEnabled())
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router, deps.Store, registry)

	return router
}
