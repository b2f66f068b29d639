package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"web3dir/pkg/auth"
	"web3dir/pkg/logger"
	"web3dir/pkg/ratelimit"
	"web3dir/reviews-service/internal/app/reviews/config"
	"web3dir/reviews-service/internal/app/reviews/handler"
	catalogclient "web3dir/reviews-service/internal/app/reviews/infrastructure/http"
	"web3dir/reviews-service/internal/app/reviews/infrastructure/messaging"
	"web3dir/reviews-service/internal/app/reviews/repository"
	"web3dir/reviews-service/internal/app/reviews/service"
)

const serviceName = "reviews-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.LogLevel)
	if cfg.Logstash != "" {
		if err := logger.InitLogstash(cfg.Logstash, serviceName, cfg.LogLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Logstash).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	reviewEvents := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer reviewEvents.Close()
	decisionQueue := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.ModerationTopic)
	defer decisionQueue.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("moderation_topic", cfg.Kafka.ModerationTopic).
		Msg("Initialized Kafka producers")

	catalog := catalogclient.NewCatalogClient(cfg.Catalog.URL, cfg.Catalog.Timeout)

	reviewRepo := repository.NewReviewRepository(db)
	flagRepo := repository.NewFlagRepository(db)

	reviewService := service.NewReviewService(reviewRepo, catalog, reviewEvents)
	moderationService := service.NewModerationService(flagRepo, reviewRepo, catalog, reviewEvents, decisionQueue)

	writeLimiter := ratelimit.NewKeyedLimiter(cfg.RateLimit.WritesPerMinute, cfg.RateLimit.Burst, 10*time.Minute)

	router := handler.SetupRoutes(
		handler.NewReviewHandler(reviewService, moderationService),
		handler.NewModerationHandler(moderationService),
		auth.NewMiddleware(cfg.JWT.Secret),
		writeLimiter,
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Reviews Service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Reviews Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	// решения модераторов, ушедшие в фон, должны успеть попасть в Kafka
	moderationService.Close()

	logger.Info().Msg("Reviews Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		client, err = tryConnectMongoDB(clientOptions)
		if err == nil {
			return client, nil
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

func tryConnectMongoDB(clientOptions *options.ClientOptions) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
