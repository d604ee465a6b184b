package source

import (
	"Slipboard/internal/pkg/betslip"
	"Slipboard/internal/pkg/bookmaker"
	"Slipboard/internal/pkg/fixture"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeVision struct {
	content string
	err     error
	calls   int
}

func (f *fakeVision) ScanSlip(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.content, f.err
}

type fakeText struct {
	content string
	err     error
	prompt  string
}

func (f *fakeText) GenerateSlip(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.content, f.err
}

type fakeFixtures struct {
	fixtures []fixture.Fixture
	err      error
}

func (f *fakeFixtures) TodayFixtures(_ context.Context, _ time.Time) ([]fixture.Fixture, error) {
	return f.fixtures, f.err
}

type fakeBookmaker struct {
	booking *bookmaker.Booking
	err     error
	calls   int
}

func (f *fakeBookmaker) Name() string { return bookmaker.NameSportyBet }

func (f *fakeBookmaker) Lookup(_ context.Context, _ string) (*bookmaker.Booking, error) {
	f.calls++
	return f.booking, f.err
}

type countingRecorder struct {
	outcomes []string
}

func (r *countingRecorder) RecordSource(_, outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestImageNotASlip(t *testing.T) {
	rec := &countingRecorder{}
	src := NewImageSource(&fakeVision{content: `{"isBetSlip": false, "bets": [], "rawText": "a selfie"}`}, rec)

	res, err := src.Parse(context.Background(), "http://img")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Status != StatusNotApplicable || res.Reason != ReasonNotSlip {
		t.Fatalf("result = %+v, want not_slip", res)
	}
	if res.Draft != nil {
		t.Error("not-a-slip result carries a draft")
	}
	if res.RawText == nil || *res.RawText != "a selfie" {
		t.Errorf("raw text not preserved: %v", res.RawText)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != "not_slip" {
		t.Errorf("recorded outcomes = %v", rec.outcomes)
	}
}

func TestImageFlagAbsent(t *testing.T) {
	src := NewImageSource(&fakeVision{content: `{"bets": []}`}, nil)
	res, err := src.Parse(context.Background(), "http://img")
	if err != nil || res.Status != StatusNotApplicable {
		t.Fatalf("Parse() = %+v, %v; want not applicable", res, err)
	}
}

func TestImageMalformed(t *testing.T) {
	for _, content := range []string{"I cannot read this image", `{"isBetSlip": tru`, "null"} {
		src := NewImageSource(&fakeVision{content: content}, nil)
		if _, err := src.Parse(context.Background(), "http://img"); !errors.Is(err, ErrUpstreamMalformed) {
			t.Errorf("Parse(%q) error = %v, want ErrUpstreamMalformed", content, err)
		}
	}
}

func TestImageDropsIncompleteBets(t *testing.T) {
	content := "```json\n" + `{
		"isBetSlip": true,
		"bets": [
			{"homeTeam": "Arsenal", "awayTeam": "Chelsea", "market": "1X2", "selection": "1", "odds": 1.85, "league": "Premier League"},
			{"homeTeam": "Lyon", "awayTeam": "", "market": "1X2", "selection": "X", "odds": "3.1"},
			{"homeTeam": 12, "awayTeam": "Nice", "market": "1X2", "selection": "2"},
			{"homeTeam": "Porto", "awayTeam": "Braga", "market": "BTTS", "selection": "Yes", "odds": "n/a"}
		],
		"bookmaker": "SportyBet",
		"bookingCode": "",
		"rawText": "slip"
	}` + "\n```"
	src := NewImageSource(&fakeVision{content: content}, nil)

	res, err := src.Parse(context.Background(), "http://img")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Status != StatusOK || len(res.Draft.Selections) != 2 || res.Dropped != 2 {
		t.Fatalf("result = %+v (selections %d)", res, len(res.Draft.Selections))
	}
	if !res.Draft.Selections[0].Odds.Decimal.Equal(decimal.RequireFromString("1.85")) {
		t.Errorf("odds = %s", res.Draft.Selections[0].Odds.Decimal)
	}
	if res.Draft.Selections[1].Odds.Valid {
		t.Error("unparsable odds should be null")
	}
	if res.Draft.BookingCode != nil {
		t.Error("empty booking code should be nil")
	}
	if res.Draft.Provenance != betslip.ProvenanceImage {
		t.Errorf("provenance = %s", res.Draft.Provenance)
	}
}

func TestImageModelErrors(t *testing.T) {
	if _, err := NewImageSource(nil, nil).Parse(context.Background(), "x"); !errors.Is(err, ErrMisconfigured) {
		t.Errorf("nil model: err = %v", err)
	}
	src := NewImageSource(&fakeVision{err: errors.New("dial tcp: timeout")}, nil)
	if _, err := src.Parse(context.Background(), "x"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("transport error: err = %v", err)
	}
}

func TestBookingUnsupportedMakesNoCall(t *testing.T) {
	bm := &fakeBookmaker{}
	src := NewBookingSource(nil, bm)

	if _, err := src.Lookup(context.Background(), "bet9ja", "ABC"); !errors.Is(err, ErrUnsupportedBookmaker) {
		t.Fatalf("err = %v, want ErrUnsupportedBookmaker", err)
	}
	if bm.calls != 0 {
		t.Errorf("client called %d times", bm.calls)
	}
}

func TestBookingOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus Status
		wantErr    error
	}{
		{"not found", bookmaker.ErrCodeNotFound, StatusNotApplicable, nil},
		{"malformed", bookmaker.ErrMalformedResponse, 0, ErrUpstreamMalformed},
		{"server error", &bookmaker.APIError{StatusCode: 503}, 0, ErrUpstreamUnavailable},
		{"network", errors.New("connection refused"), 0, ErrUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewBookingSource(nil, &fakeBookmaker{err: tt.err})
			res, err := src.Lookup(context.Background(), "SportyBet", "ABC")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || res.Status != tt.wantStatus || res.Reason != ReasonNotFound {
				t.Fatalf("Lookup() = %+v, %v", res, err)
			}
		})
	}
}

func TestBookingNSelectionsProduct(t *testing.T) {
	prices := []string{"1.5", "2", "1.2", "3"}
	booking := &bookmaker.Booking{Bookmaker: bookmaker.NameSportyBet, Code: "ABC"}
	for _, p := range prices {
		booking.Selections = append(booking.Selections, betslip.Selection{
			HomeTeam: "H", AwayTeam: "A", Market: "1X2", Pick: "1",
			Odds: decimal.NewNullDecimal(decimal.RequireFromString(p)),
		})
	}

	res, err := NewBookingSource(nil, &fakeBookmaker{booking: booking}).Lookup(context.Background(), "sportybet", "ABC")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	slip, err := betslip.Normalize(*res.Draft, 9, time.Now())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(slip.Selections) != len(prices) {
		t.Errorf("selections = %d, want %d", len(slip.Selections), len(prices))
	}
	if !slip.TotalOdds.Equal(decimal.RequireFromString("10.8")) {
		t.Errorf("TotalOdds = %s, want 10.8", slip.TotalOdds)
	}
	if slip.Provenance != betslip.ProvenanceImport || *slip.BookingCode != "ABC" {
		t.Errorf("metadata = %+v", slip)
	}
}

func TestBookingEmptyIsNotFound(t *testing.T) {
	src := NewBookingSource(nil, &fakeBookmaker{booking: &bookmaker.Booking{}})
	res, err := src.Lookup(context.Background(), "sportybet", "ABC")
	if err != nil || res.Status != StatusNotApplicable {
		t.Fatalf("Lookup() = %+v, %v", res, err)
	}
}

func fx(home, away, league string, kickoff time.Time) fixture.Fixture {
	return fixture.Fixture{HomeTeam: home, AwayTeam: away, League: league, KickoffAt: kickoff}
}

func TestGenerateSafeSlip(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	later := now.Add(4 * time.Hour)
	provider := &fakeFixtures{fixtures: []fixture.Fixture{
		fx("Inter", "Genoa", "Serie A", later),
		fx("FC Porto", "SC Braga", "Primeira Liga", later),
		fx("Atlético Madrid", "Sevilla", "La Liga", later),
	}}
	model := &fakeText{content: `{"bets": [
		{"homeTeam": "Inter", "awayTeam": "Genoa", "market": "1X2", "selection": "1", "odds": 1.3},
		{"homeTeam": "Porto", "awayTeam": "Braga", "market": "Double Chance", "selection": "1X", "odds": 1.4},
		{"homeTeam": "Made Up", "awayTeam": "Nobody", "market": "1X2", "selection": "1", "odds": 1.5}
	]}`}
	src := NewGenerateSource(model, provider, GenerateOptions{EnforceFixtures: true}, nil)

	res, err := src.Generate(context.Background(), GenerateRequest{
		TargetOdds: decimal.RequireFromString("2"),
		Risk:       RiskSafe,
	}, now)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.Draft.Selections) != 2 || res.Dropped != 1 {
		t.Fatalf("selections = %d dropped = %d", len(res.Draft.Selections), res.Dropped)
	}
	if res.Draft.Selections[1].League == nil || *res.Draft.Selections[1].League != "Primeira Liga" {
		t.Errorf("league not filled from fixture: %+v", res.Draft.Selections[1])
	}

	slip, err := betslip.Normalize(*res.Draft, 1, now)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	label := betslip.Classify(slip, now)
	if !slip.TotalOdds.Equal(decimal.RequireFromString("1.82")) || label.Tier != betslip.TierSafe || !label.HasBadge(betslip.BadgeAI) {
		t.Errorf("total = %s tier = %s badges = %v", slip.TotalOdds, label.Tier, label.Badges)
	}
	if !strings.Contains(model.prompt, `"minLegs":2`) || !strings.Contains(model.prompt, "Genoa") {
		t.Errorf("prompt missing policy or fixtures: %s", model.prompt)
	}
}

func TestGenerateOutcomes(t *testing.T) {
	now := time.Now()
	upcoming := now.Add(time.Hour)

	t.Run("no fixtures", func(t *testing.T) {
		src := NewGenerateSource(&fakeText{}, &fakeFixtures{}, GenerateOptions{}, nil)
		res, err := src.Generate(context.Background(), GenerateRequest{Risk: RiskHigh}, now)
		if err != nil || res.Status != StatusNotApplicable || res.Reason != ReasonNoFixtures {
			t.Fatalf("Generate() = %+v, %v", res, err)
		}
	})
	t.Run("league filter removes all", func(t *testing.T) {
		provider := &fakeFixtures{fixtures: []fixture.Fixture{fx("A", "B", "Serie A", upcoming)}}
		src := NewGenerateSource(&fakeText{}, provider, GenerateOptions{}, nil)
		res, err := src.Generate(context.Background(), GenerateRequest{Risk: RiskHigh, Leagues: []string{"Bundesliga"}}, now)
		if err != nil || res.Status != StatusNotApplicable {
			t.Fatalf("Generate() = %+v, %v", res, err)
		}
	})
	t.Run("provider error", func(t *testing.T) {
		src := NewGenerateSource(&fakeText{}, &fakeFixtures{err: errors.New("boom")}, GenerateOptions{}, nil)
		if _, err := src.Generate(context.Background(), GenerateRequest{}, now); !errors.Is(err, ErrUpstreamUnavailable) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("no usable selections", func(t *testing.T) {
		src := NewGenerateSource(&fakeText{content: `{"bets": [{"homeTeam": "A"}]}`}, nil, GenerateOptions{}, nil)
		if _, err := src.Generate(context.Background(), GenerateRequest{}, now); !errors.Is(err, ErrNoUsableSelections) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("without provider uses model output", func(t *testing.T) {
		src := NewGenerateSource(&fakeText{content: `{"bets": [{"homeTeam": "A", "awayTeam": "B", "market": "1X2", "selection": "1"}]}`}, nil, GenerateOptions{EnforceFixtures: true}, nil)
		res, err := src.Generate(context.Background(), GenerateRequest{}, now)
		if err != nil || len(res.Draft.Selections) != 1 {
			t.Fatalf("Generate() = %+v, %v", res, err)
		}
	})
}

func TestSelectCandidates(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)
	all := []fixture.Fixture{
		fx("Past", "Game", "Ligue 1", now.Add(-2*time.Hour)),
		fx("Late", "Game", "Ligue 1", now.Add(5*time.Hour)),
		fx("Soon", "Game", "LIGUE 1", now.Add(time.Hour)),
		fx("Other", "Game", "Eredivisie", now.Add(time.Hour)),
	}

	got := selectCandidates(all, []string{"ligue"}, now, 2)
	if len(got) != 2 || got[0].HomeTeam != "Soon" || got[1].HomeTeam != "Late" {
		t.Errorf("candidates = %+v", got)
	}
}

func TestFoldName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Atlético Madrid", "atletico madrid"},
		{"FC Porto", "porto"},
		{"  Bayern  München ", "bayern munchen"},
		{"Brighton & Hove", "brighton hove"},
	}
	for _, tt := range tests {
		if got := foldName(tt.in); got != tt.want {
			t.Errorf("foldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if !sameTeam("Porto", "FC Porto") || sameTeam("Inter", "") {
		t.Error("sameTeam mismatch")
	}
}

func TestParseRisk(t *testing.T) {
	if r, ok := ParseRisk(" SAFE "); !ok || r != RiskSafe {
		t.Errorf("ParseRisk(SAFE) = %s, %v", r, ok)
	}
	if _, ok := ParseRisk("yolo"); ok {
		t.Error("unknown risk accepted")
	}
	if p := PolicyFor("yolo"); p.MinLegs != 3 || p.MaxLegs != 5 {
		t.Errorf("fallback policy = %+v", p)
	}
}
