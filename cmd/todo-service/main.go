package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-services/internal/cache"
	"todo-services/internal/config"
	"todo-services/internal/controller"
	"todo-services/internal/database"
	"todo-services/internal/queue"
	"todo-services/internal/repository"
	"todo-services/internal/routes"
	"todo-services/internal/server"
	"todo-services/internal/todos"
	"todo-services/internal/worker"
	"todo-services/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	if err := config.LoadEnvFile(".env"); err != nil {
		logger.Error(context.Background(), "Failed to read .env", "error", err)
	}
	cfg := config.Get()
	logger.Init("todo-service", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", "error", err)
		return 1
	}

	var (
		store  todos.Store
		checks []controller.Check
	)
	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
	switch {
	case err == nil:
		defer db.Close()
		if err := database.Migrate(ctx, db, database.TodosSchema); err != nil {
			logger.Error(ctx, "Schema migration failed", "error", err)
			return 1
		}
		store = repository.NewTodoRepository(db)
		checks = append(checks, controller.Check{Name: "database", Ping: db.PingContext})
	case errors.Is(err, database.ErrNoDatabaseURL):
		logger.Warn(ctx, "DATABASE_URL not set; using in-memory todo store")
		store = repository.NewMemoryTodoStore()
	default:
		logger.Error(ctx, "Database not available; exiting", "error", err)
		return 1
	}

	opts := []todos.Option{}

	// Redis is optional; the manager reads straight from the store without it.
	rdb, err := cache.NewClient(ctx, cfg.RedisURL, cfg.RedisPoolSize)
	if err != nil {
		logger.Warn(ctx, "Redis unavailable; list cache disabled", "error", err)
	}
	var todoCache *cache.TodoCache
	if rdb != nil {
		defer rdb.Close()
		todoCache = cache.NewTodoCache(rdb, cfg.CacheTTLDuration())
		opts = append(opts, todos.WithCache(todoCache))
		checks = append(checks, controller.Check{Name: "redis", Ping: todoCache.Ping})
	}

	queue.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaPartitions)
	// Assigned only when configured: a nil *EventPublisher in the
	// interface would not compare equal to nil.
	if pub := queue.NewEventPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic); pub != nil {
		defer pub.Close()
		opts = append(opts, todos.WithPublisher(pub))
	}

	// The worker only repairs cached lists, so it runs only with a cache.
	if todoCache != nil {
		go worker.Run(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, todoCache)
	}

	manager := todos.NewManager(store, opts...)

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg.TodoServicePort, routes.TodoRouter(manager, cfg.JWTSecret, time.Now, checks...))
	if err := server.Run(ctx, srv); err != nil {
		logger.Error(ctx, "Server error", "error", err)
		return 1
	}
	return 0
}
