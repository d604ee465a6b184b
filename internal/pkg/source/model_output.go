package source

import (
	"Slipboard/internal/pkg/betslip"
	"Slipboard/internal/pkg/llm"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New()

// modelSlip 模型输出的注单结构
type modelSlip struct {
	IsBetSlip   *bool            `json:"isBetSlip"`
	Bets        []map[string]any `json:"bets"`
	Bookmaker   *string          `json:"bookmaker"`
	BookingCode *string          `json:"bookingCode"`
	RawText     *string          `json:"rawText"`
}

// betFields 单条投注的必填校验
type betFields struct {
	HomeTeam string `validate:"required,max=128"`
	AwayTeam string `validate:"required,max=128"`
	Market   string `validate:"required,max=128"`
	Pick     string `validate:"required,max=128"`
}

func decodeModelSlip(content string) (*modelSlip, error) {
	content = llm.CleanJSON(content)
	if !strings.HasPrefix(content, "{") {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrUpstreamMalformed)
	}

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var out modelSlip
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}
	return &out, nil
}

// selections 保留字段齐全的投注，返回被丢弃的数量
func (m *modelSlip) selections(ctx context.Context) ([]betslip.Selection, int) {
	out := make([]betslip.Selection, 0, len(m.Bets))
	dropped := 0
	for i, bet := range m.Bets {
		fields := betFields{
			HomeTeam: stringField(bet, "homeTeam"),
			AwayTeam: stringField(bet, "awayTeam"),
			Market:   stringField(bet, "market"),
			Pick:     stringField(bet, "selection"),
		}
		if err := validate.Struct(fields); err != nil {
			dropped++
			log.InfoContext(ctx, "drop incomplete bet", "index", i, "err", err)
			continue
		}

		s := betslip.Selection{
			HomeTeam: fields.HomeTeam,
			AwayTeam: fields.AwayTeam,
			Market:   fields.Market,
			Pick:     fields.Pick,
			Odds:     betslip.CoerceOdds(bet["odds"]),
		}
		if kickoff := stringField(bet, "kickoff"); kickoff != "" {
			if t, err := time.Parse(time.RFC3339, kickoff); err == nil {
				t = t.UTC()
				s.KickoffAt = &t
			}
		}
		if league := stringField(bet, "league"); league != "" {
			s.League = &league
		}
		out = append(out, s)
	}
	return out, dropped
}

// stringField 只接受字符串值，去掉首尾空白
func stringField(m map[string]any, key string) string {
	v, ok := m[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
