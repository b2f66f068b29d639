package metrics

import (
	"time"
)

type RedisOperation string

const (
	RedisOpGet    RedisOperation = "get"
	RedisOpSet    RedisOperation = "set"
	RedisOpDel    RedisOperation = "del"
	RedisOpExists RedisOperation = "exists"
)

type RedisTimer struct {
	service   string
	operation RedisOperation
	start     time.Time
}

func NewRedisTimer(service string, op RedisOperation) *RedisTimer {
	return &RedisTimer{
		service:   service,
		operation: op,
		start:     time.Now(),
	}
}

func (rt *RedisTimer) ObserveDuration() {
	duration := time.Since(rt.start).Seconds()
	RedisOperationDuration.WithLabelValues(rt.service, string(rt.operation)).Observe(duration)
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordKafkaMessageConsumed(service, topic, group string, processingDuration time.Duration) {
	KafkaMessagesConsumed.WithLabelValues(service, topic, group).Inc()
	KafkaConsumeDuration.WithLabelValues(service, topic).Observe(processingDuration.Seconds())
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

// Success учитывает отправленное сообщение и время отправки
func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.service, kt.topic).Inc()
	KafkaProduceDuration.WithLabelValues(kt.service, kt.topic).Observe(time.Since(kt.start).Seconds())
}

func (kt *KafkaProduceTimer) Error() {
	RecordKafkaError(kt.service, kt.topic, "produce")
}

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
	DbOpUpdate DbOperation = "update"
	DbOpDelete DbOperation = "delete"
)

type DbTimer struct {
	service   string
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	duration := time.Since(dt.start).Seconds()
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.table).Observe(duration)
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

// --- Каталог ---

// RecordSavedToggle учитывает исход переключения "сохранить"
func RecordSavedToggle(outcome string) {
	CatalogSavedToggles.WithLabelValues(outcome).Inc()
}

// RecordSaveWriteFailure учитывает отказ хранилища на save/unsave
func RecordSaveWriteFailure(operation string) {
	CatalogSaveWriteFailures.WithLabelValues(operation).Inc()
}

func RecordStaleDetailDiscard() {
	CatalogStaleDetailDiscards.Inc()
}

func RecordListingRequest(sortKey string) {
	CatalogListingRequests.WithLabelValues(sortKey).Inc()
}

// --- Отзывы и модерация ---

func RecordReviewCreated() {
	ReviewsCreated.Inc()
}

func RecordReviewFlagged(reason string) {
	ReviewsFlagged.WithLabelValues(reason).Inc()
}

// RecordModerationAction учитывает действие модератора: view, edit, approve, reject
func RecordModerationAction(action string) {
	ModerationActions.WithLabelValues(action).Inc()
}

// --- Background worker ---

type WorkerStatus string

const (
	WorkerStatusSuccess WorkerStatus = "success"
	WorkerStatusFailed  WorkerStatus = "failed"
	WorkerStatusSkipped WorkerStatus = "skipped"
)

func RecordModerationDecision(status WorkerStatus) {
	WorkerModerationDecisions.WithLabelValues(string(status)).Inc()
}

// CacheWarmTimer измеряет один прогрев кеша каталога
type CacheWarmTimer struct {
	start time.Time
}

func NewCacheWarmTimer() *CacheWarmTimer {
	return &CacheWarmTimer{start: time.Now()}
}

// Done учитывает прогрев с итоговым статусом
func (t *CacheWarmTimer) Done(status WorkerStatus) {
	WorkerCacheWarmDuration.Observe(time.Since(t.start).Seconds())
	WorkerCacheWarm.WithLabelValues(string(status)).Inc()
}
