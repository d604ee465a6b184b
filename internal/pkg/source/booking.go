package source

import (
	"Slipboard/internal/pkg/betslip"
	"Slipboard/internal/pkg/bookmaker"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"
)

// BookingSource 分享码导入
type BookingSource struct {
	clients map[string]bookmaker.Client
	rec     Recorder
}

func NewBookingSource(rec Recorder, clients ...bookmaker.Client) *BookingSource {
	m := make(map[string]bookmaker.Client, len(clients))
	for _, c := range clients {
		m[strings.ToLower(c.Name())] = c
	}
	return &BookingSource{clients: m, rec: rec}
}

// Supported 已支持的博彩公司
func (s *BookingSource) Supported() []string {
	names := make([]string, 0, len(s.clients))
	for _, c := range s.clients {
		names = append(names, c.Name())
	}
	return names
}

// Lookup 查询分享码，不支持的博彩公司不发起请求
func (s *BookingSource) Lookup(ctx context.Context, bookmakerID, code string) (res *Result, err error) {
	start := time.Now()
	defer func() { record(s.rec, sourceBooking, start, res, err) }()

	client, ok := s.clients[strings.ToLower(strings.TrimSpace(bookmakerID))]
	if !ok {
		return nil, ErrUnsupportedBookmaker
	}

	booking, err := client.Lookup(ctx, code)
	if err != nil {
		var apiErr *bookmaker.APIError
		switch {
		case errors.Is(err, bookmaker.ErrCodeNotFound):
			return notApplicable(ReasonNotFound, "booking code not found", nil), nil
		case errors.Is(err, bookmaker.ErrMalformedResponse):
			return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
		case errors.As(err, &apiErr):
			log.WarnContext(ctx, "bookmaker api error", "bookmaker", client.Name(), "status", apiErr.StatusCode)
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
	}
	if len(booking.Selections) == 0 {
		return notApplicable(ReasonNotFound, "booking code not found", nil), nil
	}

	name, bookingCode := booking.Bookmaker, booking.Code
	return &Result{
		Status: StatusOK,
		Draft: &betslip.Draft{
			Selections:    booking.Selections,
			Provenance:    betslip.ProvenanceImport,
			Bookmaker:     &name,
			BookingCode:   &bookingCode,
			DeclaredTotal: booking.DeclaredTotal,
		},
	}, nil
}
