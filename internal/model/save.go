package model

import "time"

type Save struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	SlipID    uint64    `gorm:"primaryKey;index:idx_slip_saves_slip_id" json:"slipId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Save) TableName() string {
	return "slip_saves"
}
