package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nobzo-blog/internal/app"
	"nobzo-blog/internal/config"
	mysqlClient "nobzo-blog/internal/platform/mysql"
	rabbitmqClient "nobzo-blog/internal/platform/rabbitmq"
	redisClient "nobzo-blog/internal/platform/redis"
	sqliteClient "nobzo-blog/internal/platform/sqlite"
	"nobzo-blog/internal/repository"
	"nobzo-blog/internal/worker"
)

type App struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Events      app.PostEventPublisher
	EventWorker *worker.PostEventWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig connects every backing service described by cfg. RabbitMQ is
// optional; without it post events are dropped.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Events: app.NopPublisher{}}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := repository.Migrate(db); err != nil {
		_ = a.Close()
		return nil, err
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Redis = redisCli

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.PostEventQueue)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = mqConn
		a.Events = rabbitmqClient.NewPostEventPublisher(mqConn, cfg.RabbitMQ.PostEventQueue)

		eventWorker := worker.NewPostEventWorker(mqConn, repository.NewPostEventRepository(db), cfg.RabbitMQ.PostEventQueue)
		if err := eventWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start post event worker failed: %w", err)
		}
		a.EventWorker = eventWorker
	}

	a.StartedAt = time.Now()
	return a, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.App.Env == config.EnvDevelopment {
		logLevel = logger.Info
	}

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return sqliteClient.New(ctx, cfg.DatabaseDSN(), logLevel)
	case config.DriverMySQL:
		return mysqlClient.New(ctx, cfg.DatabaseDSN(), logLevel)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
