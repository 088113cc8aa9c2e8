package repository

import (
	"context"
	"fmt"

	"NYCalc/internal/domain/models"
	"NYCalc/pkg/kafka"
)

type messagePublisher interface {
	PublishBatch(ctx context.Context, topic string, messages []kafka.Message) error
	Close() error
}

// KafkaResultPublisher writes results to one topic keyed by run id.
// The "type" header is "run" or "batch".
type KafkaResultPublisher struct {
	p     messagePublisher
	topic string
}

func NewKafkaResultPublisher(p *kafka.Producer, topic string) *KafkaResultPublisher {
	return &KafkaResultPublisher{p: p, topic: topic}
}

func (k *KafkaResultPublisher) PublishRun(ctx context.Context, r *models.RunResult) error {
	return k.publish(ctx, "run", r.ID, r)
}

func (k *KafkaResultPublisher) PublishBatch(ctx context.Context, r *models.BatchResult) error {
	return k.publish(ctx, "batch", r.ID, r)
}

func (k *KafkaResultPublisher) publish(ctx context.Context, kind, id string, v interface{}) error {
	err := k.p.PublishBatch(ctx, k.topic, []kafka.Message{{
		Key:     []byte(id),
		Value:   v,
		Headers: map[string]string{"type": kind},
	}})
	if err != nil {
		return fmt.Errorf("publish %s result %s: %w", kind, id, err)
	}
	return nil
}

func (k *KafkaResultPublisher) Close() error {
	return k.p.Close()
}
