package kafka

import (
	"context"
	"encoding/json"
	"time"

	"logreader-backend/config"
	"logreader-backend/internal/model"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

const maxPublishRetries = 3

// AuditPublisher ships mutation events to the audit topic.
type AuditPublisher interface {
	Publish(ctx context.Context, events ...model.MutationEvent) error
	Close() error
}

type kafkaAuditPublisher struct {
	writer *kafka.Writer
	topic  string
}

type noopAuditPublisher struct{}

func (noopAuditPublisher) Publish(context.Context, ...model.MutationEvent) error { return nil }
func (noopAuditPublisher) Close() error                                          { return nil }

// NewAuditPublisher returns a no-op publisher when no brokers are configured.
func NewAuditPublisher(cfg *config.Config) AuditPublisher {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.AuditTopic == "" {
		log.Debug().Msg("Kafka audit trail disabled")
		return noopAuditPublisher{}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.AuditTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.AuditTopic).Msg("Kafka audit publisher initialized")
	return &kafkaAuditPublisher{
		writer: writer,
		topic:  cfg.Kafka.AuditTopic,
	}
}

// ProvideAuditPublisher closes the publisher when the application stops.
func ProvideAuditPublisher(lc fx.Lifecycle, cfg *config.Config) AuditPublisher {
	p := NewAuditPublisher(cfg)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka audit publisher")
			return p.Close()
		},
	})
	return p
}

func (p *kafkaAuditPublisher) Publish(ctx context.Context, events ...model.MutationEvent) error {
	if len(events) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal audit event for Kafka")
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.FilePath),
			Value: value,
		})
	}
	if len(messages) == 0 {
		log.Warn().Msg("No valid audit messages to produce.")
		return nil
	}

	operation := func() error {
		return p.writer.WriteMessages(ctx, messages...)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxPublishRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write audit messages to Kafka")
		return err
	}

	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Successfully produced audit messages to Kafka")
	return nil
}

func (p *kafkaAuditPublisher) Close() error {
	return p.writer.Close()
}
