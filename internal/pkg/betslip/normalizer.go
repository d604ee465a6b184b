package betslip

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNoValidSelections = errors.New("no valid bets found")
	ErrUnknownProvenance = errors.New("unknown slip provenance")
)

// Normalize 将适配器输出合并为规范注单
// actingUserID 显式传入，不读取任何会话状态
func Normalize(draft Draft, actingUserID uint64, now time.Time) (*Slip, error) {
	if len(draft.Selections) == 0 {
		return nil, ErrNoValidSelections
	}
	if !draft.Provenance.Valid() {
		return nil, ErrUnknownProvenance
	}

	selections := make([]Selection, len(draft.Selections))
	copy(selections, draft.Selections)

	return &Slip{
		UserID:        actingUserID,
		Selections:    selections,
		TotalOdds:     TotalOdds(draft.DeclaredTotal, selections),
		Provenance:    draft.Provenance,
		Bookmaker:     trimmedOrNil(draft.Bookmaker),
		BookingCode:   trimmedOrNil(draft.BookingCode),
		RawText:       draft.RawText,
		CreatedAt:     now,
		LikeCount:     0,
		CommentsCount: 0,
	}, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
