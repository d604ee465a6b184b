package kafka

import (
	"Slipboard/internal/pkg/mongo"
	"context"
	"fmt"
	log "log/slog"
	"time"
	"unicode/utf8"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const commentPreviewLen = 60

// SysBoxHandler 消费用户动作，写入通知收件箱
type SysBoxHandler struct {
	sysBoxRepo mongo.SysBoxRepo
}

func NewSysBoxHandler(sysBox mongo.SysBoxRepo) *SysBoxHandler {
	return &SysBoxHandler{sysBoxRepo: sysBox}
}

func (s *SysBoxHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("slip action consumer setup")
	return nil
}

func (s *SysBoxHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("slip action consumer cleanup")
	return nil
}

func (s *SysBoxHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-slip-actions consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-slip-actions process batch error", "err", err)
		return err
	}
	return nil
}

func (s *SysBoxHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ev ActionEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.WarnContext(ctx, "skip invalid action event", "offset", msg.Offset, "err", err)
		return nil
	}

	notification := buildNotification(&ev)
	if notification == nil {
		return nil
	}
	if err := s.sysBoxRepo.CreateNotification(ctx, notification); err != nil {
		log.ErrorContext(ctx, "failed to create notification", "type", ev.Type, "targetID", ev.TargetID, "err", err)
		return err
	}
	return nil
}

// buildNotification 取消类动作与给自己的动作不产生通知
func buildNotification(ev *ActionEvent) *mongo.SysBoxModel {
	if !ev.Active || ev.OwnerID == 0 || ev.ActorID == ev.OwnerID {
		return nil
	}

	n := &mongo.SysBoxModel{
		ReceiverID: ev.OwnerID,
		SenderID:   ev.ActorID,
		TargetID:   ev.TargetID,
		IsRead:     false,
		CreatedAt:  ev.At,
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	switch ev.Type {
	case ActionLike:
		n.Type = mongo.SysBoxSlipLiked
		n.Content = "点赞了你的注单"
		n.DedupeKey = fmt.Sprintf("like:%d:%d", ev.ActorID, ev.TargetID)
	case ActionSave:
		n.Type = mongo.SysBoxSlipSaved
		n.Content = "收藏了你的注单"
		n.DedupeKey = fmt.Sprintf("save:%d:%d", ev.ActorID, ev.TargetID)
	case ActionComment:
		n.Type = mongo.SysBoxSlipCommented
		n.Content = preview(ev.Content)
		n.Payload = map[string]any{"comment_id": ev.CommentID}
		n.DedupeKey = fmt.Sprintf("comment:%d", ev.CommentID)
	case ActionFollow:
		n.Type = mongo.SysBoxFollowed
		n.Content = "关注了你"
		n.DedupeKey = fmt.Sprintf("follow:%d:%d", ev.ActorID, ev.TargetID)
	default:
		return nil
	}
	return n
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= commentPreviewLen {
		return s
	}
	return string([]rune(s)[:commentPreviewLen]) + "..."
}
