// Package app wires configuration, storage and services into a gin engine.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/seat-planner-go/pkg/auth"
	"github.com/arnavshah/seat-planner-go/pkg/autorun"
	"github.com/arnavshah/seat-planner-go/pkg/cache"
	"github.com/arnavshah/seat-planner-go/pkg/config"
	"github.com/arnavshah/seat-planner-go/pkg/database"
	"github.com/arnavshah/seat-planner-go/pkg/events"
	"github.com/arnavshah/seat-planner-go/pkg/handlers"
	"github.com/arnavshah/seat-planner-go/pkg/logging"
	"github.com/arnavshah/seat-planner-go/pkg/metrics"
	"github.com/arnavshah/seat-planner-go/pkg/service"
)

// App holds everything a running server needs
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Router   *gin.Engine
	Service  *service.PlanService
	Consumer *events.Consumer
	AutoRun  *autorun.Runner
}

// New connects to the database and optional redis, then builds the router.
// Background workers are created but not started; see Start.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.AutoRun.Enabled {
		if _, err := autorun.Interval(cfg.AutoRun.Frequency); err != nil {
			return nil, err
		}
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	a := auth.New(cfg.Auth)
	if err := a.EnsureAdminExists(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, logger); err != nil {
		logger.Warn("could not ensure admin user", zap.Error(err))
	}

	rdb := cache.Connect(ctx, cfg.Redis, logger)

	var publisher events.Publisher = events.Noop{}
	notifications := database.NewNotificationStore(db)
	var consumer *events.Consumer
	if cfg.Events.Enabled {
		publisher = events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Queue, logger)
		consumer = events.NewConsumer(cfg.Events.URL, cfg.Events.Queue, notifications, logger)
	}

	rec := metrics.New()
	directory := database.NewDirectoryStore(db)
	plans := database.NewPlanStore(db)
	presets := database.NewPresetStore(db)
	svc := service.New(service.Deps{
		Directory:  directory,
		Plans:      plans,
		Presets:    presets,
		Cache:      cache.NewPlanCache(rdb, cfg.Redis.TTL),
		Publisher:  publisher,
		Metrics:    rec,
		Logger:     logger,
		Strategy:   cfg.Seating.Strategy,
		Workers:    cfg.Seating.Workers,
		Parameters: cfg.Seating.Parameters,
	})

	var runner *autorun.Runner
	if cfg.AutoRun.Enabled {
		runner, err = autorun.New(svc, cfg.AutoRun.Frequency, cfg.AutoRun.Preset, logger)
		if err != nil {
			return nil, err
		}
	}

	h := &handlers.Handler{
		DB:            db,
		Auth:          a,
		Service:       svc,
		Directory:     directory,
		Plans:         plans,
		Presets:       presets,
		Notifications: notifications,
		Metrics:       rec,
		Logger:        logger,
		AdminUsername: cfg.Auth.AdminUsername,
		AdminPassword: cfg.Auth.AdminPassword,
	}

	r := gin.New()
	r.Use(logging.GinLogger(logger), logging.GinRecovery(logger))
	h.Register(r)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Redis:    rdb,
		Router:   r,
		Service:  svc,
		Consumer: consumer,
		AutoRun:  runner,
	}, nil
}

// Start launches the event consumer and the auto-run scheduler when enabled.
// Both stop when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	if a.Consumer != nil {
		go func() {
			if err := a.Consumer.Run(ctx); err != nil && ctx.Err() == nil {
				a.Logger.Error("plan consumer stopped", zap.Error(err))
			}
		}()
	}
	if a.AutoRun != nil {
		go a.AutoRun.Run(ctx)
	}
}

// Close releases the database and redis connections
func (a *App) Close() error {
	var err error
	if a.Redis != nil {
		err = multierr.Append(err, a.Redis.Close())
	}
	if sqlDB, dbErr := a.DB.DB(); dbErr == nil {
		err = multierr.Append(err, sqlDB.Close())
	} else {
		err = multierr.Append(err, dbErr)
	}
	if err != nil {
		return fmt.Errorf("close app: %w", err)
	}
	return nil
}
