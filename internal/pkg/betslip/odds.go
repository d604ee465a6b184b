package betslip

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// CoerceOdds 将上游返回的任意赔率值转换为十进制数，无法识别时返回空值
func CoerceOdds(v any) decimal.NullDecimal {
	switch t := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(t))
	case float32:
		return CoerceOdds(float64(t))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(t)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(t))
	case json.Number:
		return CoerceOdds(t.String())
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.NullDecimal{}
		}
		// 过滤 NaN/Inf 之类的写法
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NewNullDecimal(decimal.NewFromFloat(f))
		}
		return decimal.NewNullDecimal(d)
	default:
		return decimal.NullDecimal{}
	}
}

// usableOdds 参与连乘的赔率，缺失或非正数按 1 处理
func usableOdds(o decimal.NullDecimal) decimal.Decimal {
	if !o.Valid || !o.Decimal.IsPositive() {
		return one
	}
	return o.Decimal
}

// ProductOdds 各场赔率连乘，空列表为 1
func ProductOdds(selections []Selection) decimal.Decimal {
	total := one
	for _, s := range selections {
		total = total.Mul(usableOdds(s.Odds))
	}
	return total
}

// TotalOdds 优先使用上游给出的正数总赔率，否则连乘
func TotalOdds(declared decimal.NullDecimal, selections []Selection) decimal.Decimal {
	if declared.Valid && declared.Decimal.IsPositive() {
		return declared.Decimal
	}
	return ProductOdds(selections)
}
