package main

import (
	"context"
	"log"

	"appointment-booking/cmd"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/gateway"
	"appointment-booking/internal/notification"
	"appointment-booking/internal/wire"
	"appointment-booking/pkg/cache"
	"appointment-booking/pkg/database"
	"appointment-booking/pkg/queue"
	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	store, err := cache.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	mq, err := queue.NewRabbitMQ(config.RabbitMQ)
	if err != nil {
		logger.Fatal("Failed to connect to rabbitmq", zap.Error(err))
	}
	defer mq.Close()

	repos := repository.NewRepository(db, logger)
	checkout := gateway.NewMercadoPagoClient(config.Payment, logger)
	dispatcher := notification.NewDispatcher(mq, logger)

	app := wire.Wiring(repos, config, store, checkout, dispatcher, logger)

	// Background workers
	consumer := notification.NewConsumer(mq, notification.NewSMTPSender(config.Email), logger)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error("Notification consumer stopped", zap.Error(err))
		}
	}()
	app.Service.Subscription.StartSweeper(ctx)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
