package betslip

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provenance 注单来源
type Provenance string

const (
	ProvenanceImage  Provenance = "image"
	ProvenanceImport Provenance = "import"
	ProvenanceAI     Provenance = "ai"
)

// Valid 是否为已知来源
func (p Provenance) Valid() bool {
	switch p {
	case ProvenanceImage, ProvenanceImport, ProvenanceAI:
		return true
	}
	return false
}

// Selection 单条投注
// Market 与 Pick 为展示用原文，不做词表映射
type Selection struct {
	HomeTeam  string
	AwayTeam  string
	Market    string
	Pick      string
	Odds      decimal.NullDecimal
	KickoffAt *time.Time
	League    *string
}

// Slip 规范化后的注单
type Slip struct {
	ID            uint64
	UserID        uint64
	Selections    []Selection
	TotalOdds     decimal.Decimal
	Provenance    Provenance
	Bookmaker     *string
	BookingCode   *string
	RawText       *string
	CreatedAt     time.Time
	LikeCount     int
	CommentsCount int
}

// Draft 数据源适配器的输出，交给 Normalize
type Draft struct {
	Selections    []Selection
	Provenance    Provenance
	Bookmaker     *string
	BookingCode   *string
	RawText       *string
	DeclaredTotal decimal.NullDecimal
}
