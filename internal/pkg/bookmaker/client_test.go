package bookmaker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SportyBetClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSportyBetClient(WithBaseURL(srv.URL), WithCountry("gh"), WithRateLimit(100, 10))
}

func TestLookupMapsOutcomes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gh/orders/share/ABC123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"bizCode": 10000,
			"data": {
				"shareCode": "ABC123",
				"outcomes": [
					{"eventName": "Arsenal vs Chelsea", "estimateStartTime": 1792152000000, "tournament": "Premier League",
					 "marketDesc": "1X2", "outcomeDesc": "Home", "price": {"odds": "1.85"}},
					{"eventName": "Lyon - Nice", "marketDesc": "Over/Under", "outcomeDesc": "Over 2.5", "price": {"odds": 2.1}},
					{"eventName": "Special Market", "marketDesc": "Winner", "outcomeDesc": "Yes", "price": {"odds": 3}}
				]
			}
		}`))
	})

	booking, err := client.Lookup(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(booking.Selections) != 3 {
		t.Fatalf("got %d selections, want 3", len(booking.Selections))
	}

	first := booking.Selections[0]
	if first.HomeTeam != "Arsenal" || first.AwayTeam != "Chelsea" || first.Pick != "Home" {
		t.Errorf("first selection = %+v", first)
	}
	if first.KickoffAt == nil || first.League == nil || *first.League != "Premier League" {
		t.Errorf("kickoff/league not mapped: %+v", first)
	}
	if booking.Selections[1].HomeTeam != "Lyon" || booking.Selections[1].AwayTeam != "Nice" {
		t.Errorf("dash separator not split: %+v", booking.Selections[1])
	}
	if booking.Selections[2].HomeTeam != "Special Market" || booking.Selections[2].AwayTeam != "" {
		t.Errorf("unsplittable name: %+v", booking.Selections[2])
	}
	if !booking.Selections[1].Odds.Decimal.Equal(decimal.RequireFromString("2.1")) {
		t.Errorf("numeric odds = %s", booking.Selections[1].Odds.Decimal)
	}
	if booking.DeclaredTotal.Valid {
		t.Errorf("declared total should be absent, got %s", booking.DeclaredTotal.Decimal)
	}
}

func TestLookupMissingPriceIsZero(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bizCode":10000,"data":{"totalOdds":"4.20","outcomes":[{"eventName":"A v B","marketDesc":"1X2","outcomeDesc":"1"}]}}`))
	})

	booking, err := client.Lookup(context.Background(), "X")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	odds := booking.Selections[0].Odds
	if !odds.Valid || !odds.Decimal.IsZero() {
		t.Errorf("missing price = %v, want 0", odds)
	}
	if !booking.DeclaredTotal.Valid || !booking.DeclaredTotal.Decimal.Equal(decimal.RequireFromString("4.2")) {
		t.Errorf("declared total = %v", booking.DeclaredTotal)
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		wantMsg string
	}{
		{"not found status", http.StatusNotFound, ``, func(err error) bool { return errors.Is(err, ErrCodeNotFound) }, "ErrCodeNotFound"},
		{"bad request status", http.StatusBadRequest, ``, func(err error) bool { return errors.Is(err, ErrCodeNotFound) }, "ErrCodeNotFound"},
		{"business not found", http.StatusOK, `{"bizCode":4000,"message":"Share code not found"}`, func(err error) bool { return errors.Is(err, ErrCodeNotFound) }, "ErrCodeNotFound"},
		{"empty outcomes", http.StatusOK, `{"bizCode":10000,"data":{"outcomes":[]}}`, func(err error) bool { return errors.Is(err, ErrCodeNotFound) }, "ErrCodeNotFound"},
		{"malformed body", http.StatusOK, `<html>`, func(err error) bool { return errors.Is(err, ErrMalformedResponse) }, "ErrMalformedResponse"},
		{"server error", http.StatusBadGateway, `oops`, func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadGateway
		}, "APIError 502"},
		{"throttled", http.StatusTooManyRequests, ``, func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
		}, "APIError 429"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.Lookup(context.Background(), "CODE")
			if !tt.check(err) {
				t.Errorf("Lookup() error = %v, want %s", err, tt.wantMsg)
			}
		})
	}
}

func TestSplitEventName(t *testing.T) {
	tests := []struct {
		in, home, away string
	}{
		{"Real Madrid vs Barcelona", "Real Madrid", "Barcelona"},
		{"Inter v Milan", "Inter", "Milan"},
		{"Ajax - PSV", "Ajax", "PSV"},
		{"Outright Winner", "Outright Winner", ""},
	}
	for _, tt := range tests {
		home, away := SplitEventName(tt.in)
		if home != tt.home || away != tt.away {
			t.Errorf("SplitEventName(%q) = %q, %q", tt.in, home, away)
		}
	}
}
