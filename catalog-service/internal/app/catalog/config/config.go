package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки Catalog Service
// Включает конфигурацию для HTTP сервера, PostgreSQL, Redis, Kafka, JWT и лимитов
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	LogLevel  string
	Logstash  string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8081)
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Товары читаются через gorm, сохраненные товары и подборки через pgx
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // disable/require/verify-full
}

// RedisConfig - настройки Redis для кеша сохраненных товаров и списка товаров
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - настройки Kafka для событий каталога
// PRODUCT_SAVED, PRODUCT_UNSAVED, SAVE_FAILED, PRODUCT_UPDATED
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// JWTConfig - секрет для проверки токенов внешнего провайдера аутентификации
type JWTConfig struct {
	Secret string
}

// RateLimitConfig - лимит переключений "сохранить" на пользователя
type RateLimitConfig struct {
	TogglesPerMinute int
	Burst            int
}

// CacheConfig - время жизни кешей в Redis
type CacheConfig struct {
	ProductsTTL time.Duration
	SavedTTL    time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	perMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_TOGGLES_PER_MINUTE", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_TOGGLES_PER_MINUTE value: %w", err)
	}
	if perMinute <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_TOGGLES_PER_MINUTE value: must be positive")
	}

	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST value: %w", err)
	}

	productsTTL, err := time.ParseDuration(getEnv("CACHE_PRODUCTS_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_PRODUCTS_TTL value: %w", err)
	}

	savedTTL, err := time.ParseDuration(getEnv("CACHE_SAVED_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SAVED_TTL value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8081"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "catalog_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "catalog_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		RateLimit: RateLimitConfig{
			TogglesPerMinute: perMinute,
			Burst:            burst,
		},
		Cache: CacheConfig{
			ProductsTTL: productsTTL,
			SavedTTL:    savedTTL,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Logstash: getEnv("LOGSTASH_ADDR", ""),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq (для gorm)
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL возвращает строку подключения в формате postgres:// (для pgxpool)
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
