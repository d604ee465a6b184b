package source

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Risk 生成注单的风险偏好
type Risk string

const (
	RiskSafe   Risk = "safe"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Policy 场次数与单场赔率的建议区间，只作为提示，不做强制
type Policy struct {
	MinLegs int             `json:"minLegs"`
	MaxLegs int             `json:"maxLegs"`
	MinOdds decimal.Decimal `json:"minOddsPerLeg"`
	MaxOdds decimal.Decimal `json:"maxOddsPerLeg"`
}

var policies = map[Risk]Policy{
	RiskSafe:   {MinLegs: 2, MaxLegs: 3, MinOdds: decimal.RequireFromString("1.20"), MaxOdds: decimal.RequireFromString("1.60")},
	RiskMedium: {MinLegs: 3, MaxLegs: 5, MinOdds: decimal.RequireFromString("1.50"), MaxOdds: decimal.RequireFromString("2.50")},
	RiskHigh:   {MinLegs: 4, MaxLegs: 8, MinOdds: decimal.RequireFromString("2.00"), MaxOdds: decimal.RequireFromString("4.50")},
}

// ParseRisk 大小写不敏感，未知值返回 false
func ParseRisk(s string) (Risk, bool) {
	r := Risk(strings.ToLower(strings.TrimSpace(s)))
	_, ok := policies[r]
	return r, ok
}

// PolicyFor 未知偏好按 medium 处理
func PolicyFor(r Risk) Policy {
	if p, ok := policies[r]; ok {
		return p
	}
	return policies[RiskMedium]
}
