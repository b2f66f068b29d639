package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	LogLevel  string
	Logstash  string
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8083)
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных
}

type KafkaConfig struct {
	Brokers         []string // Список брокеров Kafka (формат: host:port)
	Topic           string   // REVIEW_CREATED, REVIEW_FLAGGED
	ModerationTopic string   // решения модераторов для background worker
}

type JWTConfig struct {
	Secret string // Секретный ключ провайдера аутентификации
}

// CatalogConfig - клиент Catalog Service (проверка товара и имя для жалоб)
type CatalogConfig struct {
	URL     string
	Timeout time.Duration
}

// RateLimitConfig - лимит на создание отзывов и жалоб
type RateLimitConfig struct {
	WritesPerMinute int
	Burst           int
}

func Load() (*Config, error) {
	catalogTimeout, err := time.ParseDuration(getEnv("CATALOG_SERVICE_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_SERVICE_TIMEOUT value: %w", err)
	}

	perMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_WRITES_PER_MINUTE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WRITES_PER_MINUTE value: %w", err)
	}
	if perMinute <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WRITES_PER_MINUTE value: must be positive")
	}

	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8083"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "reviews_service"),
		},
		Kafka: KafkaConfig{
			Brokers:         strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:           getEnv("KAFKA_TOPIC", "review_events"),
			ModerationTopic: getEnv("KAFKA_MODERATION_TOPIC", "moderation_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Catalog: CatalogConfig{
			URL:     getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"),
			Timeout: catalogTimeout,
		},
		RateLimit: RateLimitConfig{
			WritesPerMinute: perMinute,
			Burst:           burst,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Logstash: getEnv("LOGSTASH_ADDR", ""),
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
