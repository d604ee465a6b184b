package kafka

import (
	"Slipboard/internal/api/config"
	"Slipboard/internal/pkg/mongo"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	feedConsumer sarama.ConsumerGroup
	feedHandler  sarama.ConsumerGroupHandler

	sysBoxConsumer sarama.ConsumerGroup
	sysBoxHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数，未开启 Kafka 时返回 nil
func NewConsumerManager(cfg *config.Config, sysBoxRepo mongo.SysBoxRepo) (*ConsumerManager, error) {
	if !cfg.Kafka.Enable {
		return nil, nil
	}
	saramaCfg := newSaramaConfig(cfg.Kafka)

	feedConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaSlipEventConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	sysBoxConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaSlipActionConsumer.GroupID, saramaCfg)
	if err != nil {
		_ = feedConsumer.Close()
		return nil, err
	}

	return &ConsumerManager{
		feedConsumer:   feedConsumer,
		feedHandler:    NewFeedHandler(NewRedisTimeline()),
		sysBoxConsumer: sysBoxConsumer,
		sysBoxHandler:  NewSysBoxHandler(sysBoxRepo),
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	if m == nil {
		<-ctx.Done()
		return nil
	}

	go m.consume(ctx, "Slip feed", cfg.KafkaSlipEventConsumer.Topic, m.feedConsumer, m.feedHandler)
	go m.consume(ctx, "Slip action", cfg.KafkaSlipActionConsumer.Topic, m.sysBoxConsumer, m.sysBoxHandler)

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.feedConsumer.Close(); err != nil {
		log.Error("Failed to close feed consumer", "err", err)
	}
	if err := m.sysBoxConsumer.Close(); err != nil {
		log.Error("Failed to close sysbox consumer", "err", err)
	}
	return nil
}

func (m *ConsumerManager) consume(ctx context.Context, name, topic string, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler) {
	log.Info(name+" consumer started", "topic", topic)
	for {
		if err := group.Consume(ctx, []string{topic}, handler); err != nil {
			log.Error("Error from consumer", "consumer", name, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
