package kafka

import (
	"Slipboard/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// EventProducer 业务事件投递
type EventProducer interface {
	PublishSlipEvent(ctx context.Context, ev *SlipEvent) error
	PublishActionEvent(ctx context.Context, ev *ActionEvent) error
	Close() error
}

type syncProducer struct {
	producer    sarama.SyncProducer
	slipTopic   string
	actionTopic string
}

// NewEventProducer 未开启 Kafka 时返回空实现
func NewEventProducer(cfg *config.Config) (EventProducer, error) {
	if !cfg.Kafka.Enable {
		log.Info("Kafka disabled, events will not be produced")
		return NewNopProducer(), nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &syncProducer{
		producer:    producer,
		slipTopic:   cfg.Kafka.Producer.SlipEventTopic,
		actionTopic: cfg.Kafka.Producer.SlipActionTopic,
	}, nil
}

func (s *syncProducer) PublishSlipEvent(ctx context.Context, ev *SlipEvent) error {
	return s.send(ctx, s.slipTopic, strconv.FormatUint(ev.SlipID, 10), ev)
}

func (s *syncProducer) PublishActionEvent(ctx context.Context, ev *ActionEvent) error {
	return s.send(ctx, s.actionTopic, strconv.FormatUint(ev.TargetID, 10), ev)
}

func (s *syncProducer) send(ctx context.Context, topic, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		log.ErrorContext(ctx, "kafka produce error", "topic", topic, "key", key, "err", err)
		return err
	}
	log.DebugContext(ctx, "kafka produced", "topic", topic, "partition", partition, "offset", offset)
	return nil
}

func (s *syncProducer) Close() error {
	return s.producer.Close()
}

type nopProducer struct{}

func NewNopProducer() EventProducer {
	return nopProducer{}
}

func (nopProducer) PublishSlipEvent(context.Context, *SlipEvent) error {
	return nil
}

func (nopProducer) PublishActionEvent(context.Context, *ActionEvent) error {
	return nil
}

func (nopProducer) Close() error {
	return nil
}
