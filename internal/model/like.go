package model

import (
	"time"
)

// Like 点赞记录存在即代表已点赞，slips.likes_count 由其计数维护
type Like struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	SlipID    uint64    `gorm:"primaryKey;index:idx_slip_likes_slip_id" json:"slipId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "slip_likes"
}
