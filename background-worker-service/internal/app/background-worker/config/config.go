package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config содержит все настройки Background Worker Service
// Включает конфигурацию для PostgreSQL каталога, Redis, Kafka и расписания cron
type Config struct {
	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	CronSchedule CronScheduleConfig
	HealthAddr   string
	LogLevel     string
	Logstash     string
}

// DatabaseConfig - настройки подключения к PostgreSQL Catalog Service.
// Отсюда читаются товары для кеша, сюда пишутся решения модерации
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// RedisConfig - Redis каталога, в который прогревается products:all
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration // TTL прогретого списка товаров
}

// KafkaConfig - подписка на решения модераторов (moderation_events)
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string // ID группы потребителей для распределения нагрузки
	MinBytes int
	MaxBytes int
}

type CronScheduleConfig struct {
	WarmCache string // Расписание прогрева кеша каталога, например "@every 5m"
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("CACHE_PRODUCTS_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_PRODUCTS_TTL value: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	schedule := getEnv("CRON_WARM_CACHE", "@every 5m")
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid CRON_WARM_CACHE value: %w", err)
	}

	return &Config{
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
			TTL:      ttl,
		},
		Kafka: KafkaConfig{
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:    getEnv("KAFKA_TOPIC", "moderation_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "background-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		CronSchedule: CronScheduleConfig{
			WarmCache: schedule,
		},
		HealthAddr: getEnv("HEALTH_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Logstash:   getEnv("LOGSTASH_ADDR", ""),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
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

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
