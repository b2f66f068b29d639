package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
// Пример запроса PromQL: rate(http_requests_total{service="catalog-service"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа (latency_seconds из ТЗ)
// Labels: service, method, path
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты для микросервисов: от 1ms до 10s
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики (redis_ops из ТЗ)
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"}, // operation: get, set, del, etc.
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики (kafka_lag из ТЗ)
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - полученные сообщения
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaConsumeDuration - время обработки сообщения
var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Business Метрики (каталог Web3 инструментов)
// =============================================================================

// --- Catalog Service ---

// CatalogSavedToggles - переключения "сохранено" по исходу
var CatalogSavedToggles = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_saved_toggles_total",
		Help: "Total number of saved-product toggles by outcome",
	},
	[]string{"outcome"}, // saved, unsaved, auth_required
)

// CatalogSaveWriteFailures - неудачные записи save/unsave
var CatalogSaveWriteFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_save_write_failures_total",
		Help: "Total number of failed save/unsave writes",
	},
	[]string{"operation"}, // save, unsave
)

// CatalogStaleDetailDiscards - отброшенные устаревшие ответы карточки товара
var CatalogStaleDetailDiscards = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "catalog_product_detail_stale_discards_total",
		Help: "Total number of product detail results discarded because the selection changed",
	},
)

// CatalogListingRequests - запросы списка товаров по ключу сортировки
var CatalogListingRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_listing_requests_total",
		Help: "Total number of product listing requests",
	},
	[]string{"sort"},
)

// --- Reviews Service ---

// ReviewsCreated - созданные отзывы
var ReviewsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Total number of reviews created",
	},
)

// ReviewsFlagged - жалобы на отзывы по причине
var ReviewsFlagged = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviews_flagged_total",
		Help: "Total number of flagged reviews",
	},
	[]string{"reason"},
)

// ModerationActions - действия модератора
var ModerationActions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "moderation_actions_total",
		Help: "Total number of moderation actions",
	},
	[]string{"action"}, // view, edit, approve, reject
)

// --- Background Worker ---

// WorkerModerationDecisions - обработанные решения модерации
var WorkerModerationDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_moderation_decisions_total",
		Help: "Total number of moderation decisions processed by worker",
	},
	[]string{"status"}, // success, failed, skipped
)

// WorkerCacheWarm - прогревы кеша каталога
var WorkerCacheWarm = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_cache_warm_total",
		Help: "Total number of catalog cache warm runs",
	},
	[]string{"status"}, // success, failed
)

// WorkerCacheWarmDuration - время прогрева кеша
var WorkerCacheWarmDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "worker_cache_warm_duration_seconds",
		Help:    "Duration of catalog cache warm runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	},
)
