package model

import (
	"time"
)

type SlipComment struct {
	ID        uint64    `gorm:"primaryKey"`
	SlipID    uint64    `gorm:"not null;index:idx_slip_comments_slip_id" json:"slipId"`
	UserID    uint64    `gorm:"not null" json:"userId"`
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	IsDeleted bool      `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (SlipComment) TableName() string {
	return "slip_comments"
}
