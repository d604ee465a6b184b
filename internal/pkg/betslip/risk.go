package betslip

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier 风险等级
type Tier string

const (
	TierSafe     Tier = "SAFE"
	TierBalanced Tier = "BALANCED"
	TierHighRisk Tier = "HIGH_RISK"
)

// Badge 注单角标
type Badge string

const (
	BadgeLive Badge = "LIVE"
	BadgeAI   Badge = "AI"
)

// Presentation 展示提示
type Presentation struct {
	Label       string
	Color       string
	Description string
}

// RiskLabel 读取时计算，不落库
type RiskLabel struct {
	Tier   Tier
	Badges []Badge
	Hint   Presentation
}

// HasBadge 是否带有指定角标
func (r RiskLabel) HasBadge(b Badge) bool {
	for _, v := range r.Badges {
		if v == b {
			return true
		}
	}
	return false
}

var (
	highRiskOdds = decimal.NewFromInt(10)
	safeOdds     = decimal.NewFromInt(3)
)

const (
	highRiskLegs    = 7
	balancedMinLegs = 3
	balancedMaxLegs = 6
	safeMaxLegs     = 3
)

var presentations = map[Tier]Presentation{
	TierSafe: {
		Label:       "Safe",
		Color:       "#2E7D32",
		Description: "Short odds across a few legs",
	},
	TierBalanced: {
		Label:       "Balanced",
		Color:       "#F9A825",
		Description: "Moderate odds spread over a handful of legs",
	},
	TierHighRisk: {
		Label:       "High Risk",
		Color:       "#C62828",
		Description: "Long odds, many legs or matches already underway",
	},
}

// Classify 根据注单与当前时间计算风险等级，纯函数
func Classify(slip *Slip, now time.Time) RiskLabel {
	var badges []Badge
	live := isLive(slip.Selections, now)
	if live {
		badges = append(badges, BadgeLive)
	}
	if slip.Provenance == ProvenanceAI {
		badges = append(badges, BadgeAI)
	}

	tier := classifyTier(slip.TotalOdds, len(slip.Selections), live)
	return RiskLabel{
		Tier:   tier,
		Badges: badges,
		Hint:   presentations[tier],
	}
}

// classifyTier 按顺序匹配，命中即返回
func classifyTier(odds decimal.Decimal, legs int, live bool) Tier {
	if odds.GreaterThan(highRiskOdds) || legs >= highRiskLegs {
		return TierHighRisk
	}
	if odds.GreaterThan(safeOdds) && odds.LessThanOrEqual(highRiskOdds) &&
		legs >= balancedMinLegs && legs <= balancedMaxLegs && !live {
		return TierBalanced
	}
	if odds.LessThanOrEqual(safeOdds) && legs <= safeMaxLegs && !live {
		return TierSafe
	}
	return TierHighRisk
}

func isLive(selections []Selection, now time.Time) bool {
	for _, s := range selections {
		if s.KickoffAt != nil && s.KickoffAt.Before(now) {
			return true
		}
	}
	return false
}
