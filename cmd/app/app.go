package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/campsite-api/internal/api"
	"github.com/vietanh2810/campsite-api/internal/cache"
	"github.com/vietanh2810/campsite-api/internal/config"
	"github.com/vietanh2810/campsite-api/internal/db"
	"github.com/vietanh2810/campsite-api/internal/logger"
	"github.com/vietanh2810/campsite-api/internal/notify"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	config.Watch(configPath, conf)

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	deps := api.Dependencies{
		DB:       postgresDB,
		Notifier: notify.LogNotifier{},
		Billing:  notify.LogNotifier{},
	}

	if conf.Redis.Enabled {
		client, err := cache.NewRedisClient(context.Background(), conf.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis -> %w", err)
		}
		defer client.Close()

		deps.Cache = cache.NewCalendarCache(client, conf.Redis.CalendarTTL)
	}

	if conf.RabbitMQ.Enabled {
		publisher, err := notify.Dial(conf.RabbitMQ.URL, conf.RabbitMQ.Exchange)
		if err != nil {
			return fmt.Errorf("failed to initialize rabbitmq -> %w", err)
		}
		defer publisher.Close()

		deps.Notifier = publisher
		deps.Billing = publisher
	}

	s := api.NewServer(conf, deps)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
