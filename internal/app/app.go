// Package app wires configuration, storage, services and HTTP routes into a
// runnable Fiber application.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"akun/internal/config"
	"akun/internal/database"
	"akun/internal/handlers"
	"akun/internal/middleware"
	"akun/internal/repositories"
	"akun/internal/services"
	"akun/internal/session"
	"akun/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App is a fully wired service.
type App struct {
	Fiber       *fiber.App
	DB          *gorm.DB
	AuthService *services.AuthService

	cfg     *config.Config
	logger  *logrus.Logger
	mq      *rabbitmq.Client
	closers []io.Closer
}

// New builds the application described by cfg.
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db, cfg: cfg, logger: logger}

	sessions, err := a.sessionStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.mq = mq
		a.closers = append(a.closers, mq)
		events = mq
	} else {
		logger.Info("RABBITMQ_URL is empty, domain events are not published")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, sessions, cfg.JWTSecret, cfg.SessionTTL, events, logger)
	profileService := services.NewProfileService(userRepo, authService, sessions, events, logger)
	productService := services.NewProductService(productRepo, events, logger)
	a.AuthService = authService

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger)
	productHandler := handlers.NewProductHandler(productService, logger)

	accessLog := logger.Writer()
	a.closers = append(a.closers, accessLog)

	f := fiber.New(fiber.Config{AppName: cfg.AppName})
	f.Use(fiberlogger.New(fiberlogger.Config{Output: accessLog}))

	f.Get("/health", a.handleHealth)

	apiV1 := f.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService, logger))
	authHandler.RegisterProtectedRoutes(protected)
	profileHandler.RegisterRoutes(protected)
	productHandler.RegisterRoutes(protected)

	a.Fiber = f
	return a, nil
}

func (a *App) sessionStore() (session.Store, error) {
	switch a.cfg.SessionDriver {
	case "redis":
		rdb := session.NewRedisClient(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		a.closers = append(a.closers, rdb)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", a.cfg.RedisAddr, err)
		}
		return session.NewRedisStore(rdb), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "up",
		"rabbitmq": "disabled",
	}
	if a.mq != nil {
		status["rabbitmq"] = "connected"
	}
	if sqlDB, err := a.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		status["status"] = "unhealthy"
		status["database"] = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}

// StartConsumers starts the event consumer when RabbitMQ is configured.
func (a *App) StartConsumers() error {
	if a.mq == nil {
		return nil
	}
	return a.mq.ConsumeEvents(rabbitmq.LogEvent(a.logger))
}

// Listen serves HTTP on the configured port until Shutdown is called.
func (a *App) Listen() error {
	a.logger.WithField("port", a.cfg.AppPort).Info("starting server")
	return a.Fiber.Listen(a.cfg.AppPort)
}

// Shutdown stops the HTTP server and releases every connection.
func (a *App) Shutdown() error {
	var err error
	if a.Fiber != nil {
		err = a.Fiber.Shutdown()
	}
	if closeErr := a.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Close releases the database, broker and session store connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors while closing app: %v", errs)
	}
	return nil
}
