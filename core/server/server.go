package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"summit-scheduler/core/cache"
	"summit-scheduler/core/config"
	"summit-scheduler/core/constants"
	"summit-scheduler/core/database"
	"summit-scheduler/core/jobs"
	"summit-scheduler/core/logger"
	"summit-scheduler/core/metrics"
	"summit-scheduler/core/middleware"
	"summit-scheduler/core/storage"
	"summit-scheduler/modules/activity"
	"summit-scheduler/modules/event"
	eventService "summit-scheduler/modules/event/service"
	"summit-scheduler/modules/moderation"
	"summit-scheduler/modules/notification"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// HealthCheck checks one dependency for /healthz.
type HealthCheck func(ctx context.Context) error

type Server struct {
	cfg   *config.Config
	echo  *echo.Echo
	db    database.Database
	redis *redis.Client
	jobs  *jobs.Client
}

// New connects every backing service and registers all modules.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := cache.InitRedis(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	jobClient := jobs.NewClient(RedisClientOpt(cfg))
	store := storage.NewS3Storage(storage.S3Config{
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})

	e := NewEcho(map[string]HealthCheck{
		"database": func(ctx context.Context) error { return db.SQLx().PingContext(ctx) },
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	})
	mw := middleware.NewMiddleware(cfg.JWT.Secret)

	event.Init(e, db, cache.NewRedisCache(redisClient), store, mw, EventServiceConfig(cfg))
	moderation.Init(e, db, jobClient, mw)
	activity.Init(e, db, store, mw)
	notification.Init(e, db, mw)

	return &Server{cfg: cfg, echo: e, db: db, redis: redisClient, jobs: jobClient}, nil
}

// NewEcho builds the HTTP engine with the shared middleware stack and the
// operational endpoints. Module routes are added by the caller.
func NewEcho(checks map[string]HealthCheck) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())
	e.Use(metrics.Middleware())
	e.Use(echoMiddleware.BodyLimit(fmt.Sprintf("%dM", constants.MaxResourceSize>>20+1)))

	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		return c.JSON(status, result)
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	return e
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Start", "addr", addr, "env", s.cfg.Env)
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		_ = s.Close()
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		logger.Info("Server:Shutdown", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		logger.Error("Server:Shutdown", err)
	}
	return s.Close()
}

func (s *Server) Close() error {
	if err := s.jobs.Close(); err != nil {
		logger.Warn("Server:Close:Jobs", "error", err)
	}
	if err := s.redis.Close(); err != nil {
		logger.Warn("Server:Close:Redis", "error", err)
	}
	return s.db.Close()
}

// RunWorker consumes moderation notices until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, mux := jobs.NewServer(RedisClientOpt(cfg), cfg.Worker.Concurrency)
	notification.RegisterWorker(mux, db)

	logger.Info("Worker:Start", "concurrency", cfg.Worker.Concurrency)
	return srv.Run(mux)
}

// RunMigrations applies the embedded schema.
func RunMigrations(ctx context.Context, cfg *config.Config) error {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.Migrate(ctx, &db)
}

func OpenDatabase(cfg *config.Config) (database.Database, error) {
	return database.InitDB(database.DatabaseConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
}

func RedisClientOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func EventServiceConfig(cfg *config.Config) eventService.EventServiceConfig {
	return eventService.EventServiceConfig{
		ActivityDuration: time.Duration(cfg.Scheduling.ActivityDurationMinutes) * time.Minute,
		BreakDuration:    time.Duration(cfg.Scheduling.BreakMinutes) * time.Minute,
		MaxEventDuration: time.Duration(cfg.Scheduling.MaxEventHours) * time.Hour,
		SlotCacheTTL:     time.Duration(cfg.Scheduling.SlotCacheTTLSeconds) * time.Second,
	}
}
