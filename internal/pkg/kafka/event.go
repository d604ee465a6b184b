package kafka

import (
	"time"
)

// 注单事件类型
const (
	SlipCreated = "created"
	SlipDeleted = "deleted"
)

// 用户动作类型
const (
	ActionLike    = "like"
	ActionSave    = "save"
	ActionComment = "comment"
	ActionFollow  = "follow"
)

// SlipEvent 注单生命周期事件，key 为注单ID
type SlipEvent struct {
	Type      string    `json:"type"`
	SlipID    uint64    `json:"slip_id"`
	UserID    uint64    `json:"user_id"`
	Source    string    `json:"source"`
	TotalOdds string    `json:"total_odds"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionEvent 点赞、收藏、评论、关注，Active 为 false 表示取消
type ActionEvent struct {
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	ActorID   uint64    `json:"actor_id"`
	TargetID  uint64    `json:"target_id"`
	OwnerID   uint64    `json:"owner_id"`
	CommentID uint64    `json:"comment_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	At        time.Time `json:"at"`
}
