package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"web3dir/background-worker-service/internal/app/background-worker/entity"
	"web3dir/background-worker-service/internal/app/background-worker/service"
	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "background-worker-service"

// errMalformed - сообщение нельзя разобрать, повторное чтение ничего не изменит
var errMalformed = errors.New("malformed message")

// messageReader - часть kafka.Reader, которой пользуется consumer
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.ReaderStats
	Close() error
}

// Пауза между повторами сообщения, которое не удалось сохранить
const (
	defaultRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff     = 30 * time.Second
)

// KafkaConsumer читает решения модераторов из топика moderation_events
type KafkaConsumer struct {
	reader       messageReader
	topic        string
	groupID      string
	decisionSvc  service.DecisionServiceInterface
	retryBackoff time.Duration
	stopChan     chan struct{}
	doneChan     chan struct{}
}

func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	decisionSvc service.DecisionServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		StartOffset: kafka.FirstOffset, // новая группа читает топик с начала
		// Offset коммитится вручную после обработки
		CommitInterval: 0,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return newKafkaConsumer(reader, topic, groupID, decisionSvc)
}

func newKafkaConsumer(reader messageReader, topic, groupID string, decisionSvc service.DecisionServiceInterface) *KafkaConsumer {
	return &KafkaConsumer{
		reader:       reader,
		topic:        topic,
		groupID:      groupID,
		decisionSvc:  decisionSvc,
		retryBackoff: defaultRetryBackoff,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается текущего сообщения
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Error().Err(err).Msg("Error closing Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(readCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error().Err(err).Msg("Error fetching message")
			metrics.RecordKafkaError(serviceName, c.topic, "fetch")
			time.Sleep(time.Second)
			continue
		}

		if !c.handleWithRetry(ctx, message) {
			return
		}
	}
}

// handleWithRetry повторяет сообщение, пока оно не будет закоммичено.
// Следующее сообщение не читается: коммит более позднего offset
// сдвинул бы группу за несохраненное решение.
// false - consumer остановлен до коммита, сообщение придет снова после рестарта
func (c *KafkaConsumer) handleWithRetry(ctx context.Context, message kafka.Message) bool {
	backoff := c.retryBackoff
	for attempt := 1; ; attempt++ {
		if c.handle(ctx, message) {
			return true
		}

		logger.Warn().
			Int64("offset", message.Offset).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Retrying moderation event")

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-c.stopChan:
			timer.Stop()
			return false
		}

		backoff = min(backoff*2, maxRetryBackoff)
	}
}

// handle обрабатывает сообщение и коммитит offset.
// Битое сообщение коммитится сразу, ошибка хранилища оставляет offset на месте
func (c *KafkaConsumer) handle(ctx context.Context, message kafka.Message) bool {
	start := time.Now()

	err := c.processMessage(ctx, message)
	switch {
	case err == nil:
		metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))
	case errors.Is(err, errMalformed), errors.Is(err, service.ErrInvalidEvent):
		logger.Warn().Err(err).
			Int64("offset", message.Offset).
			Int("partition", message.Partition).
			Msg("Skipping malformed moderation event")
		metrics.RecordKafkaError(serviceName, c.topic, "decode")
	default:
		logger.Error().Err(err).
			Int64("offset", message.Offset).
			Int("partition", message.Partition).
			Msg("Error processing message, offset not committed")
		metrics.RecordKafkaError(serviceName, c.topic, "process")
		return false
	}

	if err := c.reader.CommitMessages(ctx, message); err != nil {
		logger.Error().Err(err).Msg("Error committing message")
		metrics.RecordKafkaError(serviceName, c.topic, "commit")
		return false
	}
	return true
}

func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.ModerationEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("flag_id", event.FlagID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received moderation event")

	if err := c.decisionSvc.ProcessModerationEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process moderation event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
