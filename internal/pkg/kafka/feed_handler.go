package kafka

import (
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// TimelineStore 时间线存储
type TimelineStore interface {
	Add(ctx context.Context, key string, score float64, member string, keep int64) error
	Remove(ctx context.Context, key string, member string) error
}

type redisTimeline struct{}

func NewRedisTimeline() TimelineStore {
	return &redisTimeline{}
}

func (s *redisTimeline) Add(ctx context.Context, key string, score float64, member string, keep int64) error {
	return redis.ZAddAndTrim(ctx, key, score, member, keep)
}

func (s *redisTimeline) Remove(ctx context.Context, key string, member string) error {
	return redis.ZRem(ctx, key, member)
}

// FeedHandler 消费注单事件，维护全站与个人时间线
type FeedHandler struct {
	timeline TimelineStore
}

func NewFeedHandler(timeline TimelineStore) *FeedHandler {
	return &FeedHandler{timeline: timeline}
}

func (s *FeedHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("slip feed consumer setup")
	return nil
}

func (s *FeedHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("slip feed consumer cleanup")
	return nil
}

func (s *FeedHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-slip-events consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-slip-events process batch error", "err", err)
		return err
	}
	return nil
}

func (s *FeedHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ev SlipEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil || ev.SlipID == 0 {
		// 无法解析的消息直接跳过，避免阻塞分区
		log.WarnContext(ctx, "skip invalid slip event", "offset", msg.Offset, "err", err)
		return nil
	}

	member := strconv.FormatUint(ev.SlipID, 10)
	userKey := consts.FeedUserKey + strconv.FormatUint(ev.UserID, 10)

	switch ev.Type {
	case SlipCreated:
		score := float64(ev.CreatedAt.UnixMilli())
		if err := s.timeline.Add(ctx, consts.FeedGlobalKey, score, member, consts.FeedGlobalSize); err != nil {
			return err
		}
		if err := s.timeline.Add(ctx, userKey, score, member, consts.FeedUserSize); err != nil {
			return err
		}
		log.InfoContext(ctx, "slip added to timeline", "slipID", ev.SlipID)
	case SlipDeleted:
		if err := s.timeline.Remove(ctx, consts.FeedGlobalKey, member); err != nil {
			return err
		}
		if err := s.timeline.Remove(ctx, userKey, member); err != nil {
			return err
		}
		log.InfoContext(ctx, "slip removed from timeline", "slipID", ev.SlipID)
	}
	return nil
}
