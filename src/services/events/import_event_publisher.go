package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"afvalprofiel/src/domain"
	"afvalprofiel/src/infra/kafka"
)

// ImportEventPublisher notifica sistemas downstream que o dataset de
// afval foi substituído por um novo import.
type ImportEventPublisher struct {
	logger      *slog.Logger
	kafkaClient *kafka.KafkaClient
	topic       string
}

func NewImportEventPublisher(
	logger *slog.Logger,
	kafkaClient *kafka.KafkaClient,
	topic string,
) *ImportEventPublisher {
	return &ImportEventPublisher{
		logger:      logger,
		kafkaClient: kafkaClient,
		topic:       topic,
	}
}

// PublishDatasetReplaced publishes a single dataset replacement event.
// The source path is used as the message key.
func (p *ImportEventPublisher) PublishDatasetReplaced(ctx context.Context, event domain.DatasetReplacedEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ImportEventPublisher.PublishDatasetReplaced - failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   event.Source,
		Value: eventBytes,
	}

	if err := p.kafkaClient.Producer([]kafka.Message{msg}, p.topic); err != nil {
		p.logger.Error("Failed to publish dataset replaced event",
			"error", err,
			"topic", p.topic,
			"source", event.Source)
		return fmt.Errorf("ImportEventPublisher.PublishDatasetReplaced - failed to publish to topic %s: %w", p.topic, err)
	}

	p.logger.Info("Published dataset replaced event",
		"topic", p.topic,
		"source", event.Source,
		"emptying_count", event.EmptyingCount)

	return nil
}
