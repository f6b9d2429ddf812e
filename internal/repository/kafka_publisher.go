package repository

import (
	"context"

	"StockCast/internal/domain/models"
	pkgkafka "StockCast/pkg/kafka"
)

// KafkaForecastPublisher implements ForecastPublisher on a Kafka topic.
// Events are keyed by ticker.
type KafkaForecastPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaForecastPublisher(producer *pkgkafka.Producer, topic string) *KafkaForecastPublisher {
	if topic == "" {
		topic = "stockcast.forecasts"
	}
	return &KafkaForecastPublisher{producer: producer, topic: topic}
}

func (p *KafkaForecastPublisher) Publish(ctx context.Context, ev *models.ForecastEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Ticker), ev)
}

func (p *KafkaForecastPublisher) Close() error {
	return p.producer.Close()
}
