package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hub-crm-api/core/cache"
	"hub-crm-api/core/config"
	"hub-crm-api/core/database"
	"hub-crm-api/core/logger"
	mw "hub-crm-api/core/middleware"
	"hub-crm-api/modules/contact"
	"hub-crm-api/modules/event"
	"hub-crm-api/modules/notification"
	"hub-crm-api/modules/reminder"
	reminderTask "hub-crm-api/modules/reminder/task"
	"hub-crm-api/modules/rota"
	"hub-crm-api/modules/signup"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run wires the whole service together and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.App.LogLevel)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	redisCache, err := cache.NewRedisCache(cfg)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	middleware := mw.NewMiddleware(redisCache)

	_, contactRepo := contact.Init(e, db, middleware)
	_, eventRepo := event.Init(e, db, middleware)
	notifier := notification.Init(e, db, middleware)
	_, rotaRepo := rota.Init(e, db, middleware, eventRepo, contactRepo, notifier)
	signup.Init(e, rotaRepo, eventRepo, redisCache)
	reminderSvc := reminder.Init(e, middleware, rotaRepo, eventRepo, contactRepo, notifier)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.Handle(reminderTask.TypeReminderSweep, reminderTask.NewSweepHandler(reminderSvc))
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:AsynqWorker:Error", err)
		}
	}()

	scheduler := asynq.NewScheduler(redisOpt, nil)
	sweepTask, err := reminderTask.NewSweepTask(cfg.App.ReminderDaysAhead)
	if err != nil {
		return fmt.Errorf("build sweep task: %w", err)
	}
	if _, err := scheduler.Register(cfg.App.ReminderCron, sweepTask); err != nil {
		return fmt.Errorf("register reminder schedule: %w", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Server:AsynqScheduler:Error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error", err)
		}
	}()
	logger.Info("Server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	scheduler.Shutdown()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
