package main

import (
	"context"
	"errors"
	"os"

	"todo-services/internal/auth"
	"todo-services/internal/config"
	"todo-services/internal/controller"
	"todo-services/internal/database"
	"todo-services/internal/queue"
	"todo-services/internal/repository"
	"todo-services/internal/routes"
	"todo-services/internal/server"
	"todo-services/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	ctx := context.Background()
	if err := config.LoadEnvFile(".env"); err != nil {
		logger.Error(ctx, "Failed to read .env", "error", err)
	}
	cfg := config.Get()
	logger.Init("user-service", cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", "error", err)
		return 1
	}

	var (
		users  auth.UserStore
		checks []controller.Check
	)
	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
	switch {
	case err == nil:
		defer db.Close()
		if err := database.Migrate(ctx, db, database.UsersSchema); err != nil {
			logger.Error(ctx, "Schema migration failed", "error", err)
			return 1
		}
		users = repository.NewUserRepository(db)
		checks = append(checks, controller.Check{Name: "database", Ping: db.PingContext})
	case errors.Is(err, database.ErrNoDatabaseURL):
		logger.Warn(ctx, "DATABASE_URL not set; using in-memory user store")
		users = repository.NewMemoryUserStore()
	default:
		logger.Error(ctx, "Database not available; exiting", "error", err)
		return 1
	}

	opts := auth.Options{
		Secret:     []byte(cfg.JWTSecret),
		TokenTTL:   cfg.JWTExpiresIn,
		BcryptCost: cfg.BcryptRounds,
	}
	// Assigned only when configured: a nil *RegistrationPublisher in the
	// interface would not compare equal to nil.
	if n := queue.NewRegistrationPublisher(cfg.RabbitMQURL, cfg.RegisterQueue); n != nil {
		opts.Notifier = n
	}
	issuer, err := auth.NewIssuer(users, opts)
	if err != nil {
		logger.Error(ctx, "Issuer setup failed", "error", err)
		return 1
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg.UserServicePort, routes.UserRouter(issuer, checks...))
	if err := server.Run(ctx, srv); err != nil {
		logger.Error(ctx, "Server error", "error", err)
		return 1
	}
	return 0
}
