package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Slip struct {
	ID            uint64          `gorm:"primaryKey"`
	UserID        uint64          `gorm:"not null;index:idx_slips_user_id" json:"user_id"`
	Source        string          `gorm:"type:varchar(16);not null" json:"source"` // image / import / ai
	Bookmaker     *string         `gorm:"type:varchar(64)" json:"bookmaker"`
	BookingCode   *string         `gorm:"type:varchar(64)" json:"booking_code"`
	RawText       *string         `gorm:"type:text" json:"raw_text"`
	TotalOdds     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_odds"`
	LikesCount    int             `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int             `gorm:"not null;default:0" json:"comments_count"`
	Version       uint64          `gorm:"not null;default:0" json:"version"` // 每次计数变更提交时 +1，用于实时推送排序
	IsDeleted     bool            `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt     time.Time       `gorm:"index:idx_slips_created_at" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// 关联关系
	User       User            `gorm:"foreignKey:UserID;references:ID"`
	Selections []SlipSelection `gorm:"foreignKey:SlipID;references:ID"`
}

func (Slip) TableName() string {
	return "slips"
}
