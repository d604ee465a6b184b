package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 通知类型
const (
	SysBoxSlipLiked     int8 = 1
	SysBoxSlipSaved     int8 = 2
	SysBoxSlipCommented int8 = 3
	SysBoxFollowed      int8 = 4
)

// SysBoxModel 系统通知模型
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 消息接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID
	Type       int8               `bson:"type" json:"type"`              // 通知类型: 1-注单点赞, 2-注单收藏, 3-注单评论, 4-被关注
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 关联的目标ID (注单ID或用户ID)
	Content    string             `bson:"content" json:"content"`        // 通知文案预览或评论片段
	Payload    map[string]any     `bson:"payload" json:"payload"`        // 额外元数据，如注单总赔率快照
	DedupeKey  string             `bson:"dedupe_key" json:"-"`           // 消息重复投递时去重
	IsRead     bool               `bson:"is_read" json:"isRead"`         // 是否已读
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`   // 创建时间
}
