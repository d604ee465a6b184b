package bookmaker

import (
	"Slipboard/internal/pkg/betslip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const bizCodeOK = 10000

// shareDocument 分享码接口的响应结构，只解码用到的字段
type shareDocument struct {
	BizCode int    `json:"bizCode"`
	Message string `json:"message"`
	Data    *struct {
		ShareCode string         `json:"shareCode"`
		TotalOdds any            `json:"totalOdds"`
		Outcomes  []shareOutcome `json:"outcomes"`
	} `json:"data"`
}

type shareOutcome struct {
	EventName         string `json:"eventName"`
	HomeTeamName      string `json:"homeTeamName"`
	AwayTeamName      string `json:"awayTeamName"`
	EstimateStartTime int64  `json:"estimateStartTime"`
	Tournament        string `json:"tournament"`
	MarketDesc        string `json:"marketDesc"`
	OutcomeDesc       string `json:"outcomeDesc"`
	Price             *struct {
		Odds any `json:"odds"`
	} `json:"price"`
}

func decodeShareDocument(body []byte) (*shareDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc shareDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &doc, nil
}

func (d *shareDocument) toBooking(code string) (*Booking, error) {
	if d.BizCode != 0 && d.BizCode != bizCodeOK {
		// 业务码非成功且带有 not found 之类提示时视为分享码不存在
		msg := strings.ToLower(d.Message)
		if strings.Contains(msg, "not found") || strings.Contains(msg, "invalid") || strings.Contains(msg, "expired") {
			return nil, ErrCodeNotFound
		}
		return nil, &APIError{StatusCode: d.BizCode, Message: d.Message}
	}
	if d.Data == nil || len(d.Data.Outcomes) == 0 {
		return nil, ErrCodeNotFound
	}

	selections := make([]betslip.Selection, 0, len(d.Data.Outcomes))
	for _, o := range d.Data.Outcomes {
		selections = append(selections, o.toSelection())
	}

	if d.Data.ShareCode != "" {
		code = d.Data.ShareCode
	}
	return &Booking{
		Bookmaker:     NameSportyBet,
		Code:          code,
		DeclaredTotal: betslip.CoerceOdds(d.Data.TotalOdds),
		Selections:    selections,
	}, nil
}

func (o shareOutcome) toSelection() betslip.Selection {
	home, away := strings.TrimSpace(o.HomeTeamName), strings.TrimSpace(o.AwayTeamName)
	if home == "" || away == "" {
		home, away = SplitEventName(o.EventName)
	}

	// 价格缺失或无法解析时按 0 处理，连乘时视为缺失
	odds := decimal.NewNullDecimal(decimal.Zero)
	if o.Price != nil {
		if v := betslip.CoerceOdds(o.Price.Odds); v.Valid {
			odds = v
		}
	}

	s := betslip.Selection{
		HomeTeam: home,
		AwayTeam: away,
		Market:   strings.TrimSpace(o.MarketDesc),
		Pick:     strings.TrimSpace(o.OutcomeDesc),
		Odds:     odds,
	}
	if o.EstimateStartTime > 0 {
		t := time.UnixMilli(o.EstimateStartTime).UTC()
		s.KickoffAt = &t
	}
	if league := strings.TrimSpace(o.Tournament); league != "" {
		s.League = &league
	}
	return s
}

var eventSeparators = []string{" vs. ", " vs ", " VS ", " Vs ", " v ", " V ", " - "}

// SplitEventName 拆分 "Home vs Away"，无法拆分时整体作为主队
func SplitEventName(name string) (string, string) {
	name = strings.TrimSpace(name)
	for _, sep := range eventSeparators {
		if i := strings.Index(name, sep); i > 0 {
			home := strings.TrimSpace(name[:i])
			away := strings.TrimSpace(name[i+len(sep):])
			if home != "" && away != "" {
				return home, away
			}
		}
	}
	return name, ""
}
