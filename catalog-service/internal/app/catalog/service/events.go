package service

import (
	"context"
	"encoding/json"
	"fmt"

	"web3dir/catalog-service/internal/app/catalog/util"
)

// publishEvent сериализует событие и отправляет его в Kafka
func publishEvent(ctx context.Context, publisher util.MessagePublisher, key string, event interface{}) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := publisher.PublishMessage(ctx, key, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
