package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SlipSelection struct {
	ID        uint64              `gorm:"primaryKey"`
	SlipID    uint64              `gorm:"not null;index:idx_slip_selections_slip_id" json:"slip_id"`
	Position  int                 `gorm:"not null;default:0" json:"position"`
	HomeTeam  string              `gorm:"type:varchar(128);not null" json:"home_team"`
	AwayTeam  string              `gorm:"type:varchar(128);not null" json:"away_team"`
	Market    string              `gorm:"type:varchar(128);not null" json:"market"`
	Pick      string              `gorm:"type:varchar(128);not null" json:"pick"`
	Odds      decimal.NullDecimal `gorm:"type:decimal(10,3)" json:"odds"`
	KickoffAt *time.Time          `json:"kickoff_at"`
	League    *string             `gorm:"type:varchar(128)" json:"league"`
}

func (SlipSelection) TableName() string {
	return "slip_selections"
}
