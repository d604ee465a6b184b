package betslip

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func odds(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func legs(n int, price string) []Selection {
	out := make([]Selection, n)
	for i := range out {
		out[i] = Selection{HomeTeam: "Home", AwayTeam: "Away", Market: "1X2", Pick: "1", Odds: odds(price)}
	}
	return out
}

func TestTotalOdds(t *testing.T) {
	tests := []struct {
		name       string
		declared   decimal.NullDecimal
		selections []Selection
		want       string
	}{
		{"product", decimal.NullDecimal{}, []Selection{{Odds: odds("1.3")}, {Odds: odds("1.4")}}, "1.82"},
		{"missing odds count as one", decimal.NullDecimal{}, []Selection{{Odds: odds("2")}, {}}, "2"},
		{"zero price counts as one", decimal.NullDecimal{}, []Selection{{Odds: odds("0")}, {Odds: odds("1.5")}}, "1.5"},
		{"negative price counts as one", decimal.NullDecimal{}, []Selection{{Odds: odds("-3")}}, "1"},
		{"empty list", decimal.NullDecimal{}, nil, "1"},
		{"declared total wins", odds("12.5"), []Selection{{Odds: odds("2")}}, "12.5"},
		{"non positive declared ignored", odds("0"), []Selection{{Odds: odds("2")}, {Odds: odds("3")}}, "6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalOdds(tt.declared, tt.selections)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("TotalOdds() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCoerceOdds(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		valid bool
		want  string
	}{
		{"float", 1.85, true, "1.85"},
		{"numeric string", " 2.10 ", true, "2.1"},
		{"int", 3, true, "3"},
		{"nil", nil, false, ""},
		{"text", "evens", false, ""},
		{"nan string", "NaN", false, ""},
		{"bool", true, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceOdds(tt.in)
			if got.Valid != tt.valid {
				t.Fatalf("CoerceOdds(%v).Valid = %v, want %v", tt.in, got.Valid, tt.valid)
			}
			if tt.valid && !got.Decimal.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("CoerceOdds(%v) = %s, want %s", tt.in, got.Decimal, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	bookmaker := "  SportyBet "

	slip, err := Normalize(Draft{
		Selections: []Selection{
			{HomeTeam: "Arsenal", AwayTeam: "Chelsea", Market: "Over/Under 2.5", Pick: "Over", Odds: odds("1.9")},
			{HomeTeam: "Lyon", AwayTeam: "Nice", Market: "1X2", Pick: "X"},
		},
		Provenance: ProvenanceImport,
		Bookmaker:  &bookmaker,
	}, 42, now)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if slip.UserID != 42 || !slip.CreatedAt.Equal(now) {
		t.Errorf("owner/createdAt not stamped: %+v", slip)
	}
	if slip.LikeCount != 0 || slip.CommentsCount != 0 {
		t.Errorf("counters not zeroed: like=%d comments=%d", slip.LikeCount, slip.CommentsCount)
	}
	if !slip.TotalOdds.Equal(decimal.RequireFromString("1.9")) {
		t.Errorf("TotalOdds = %s, want 1.9", slip.TotalOdds)
	}
	if slip.Selections[0].Market != "Over/Under 2.5" || slip.Selections[1].Pick != "X" {
		t.Errorf("market/pick text was rewritten: %+v", slip.Selections)
	}
	if slip.Bookmaker == nil || *slip.Bookmaker != "SportyBet" {
		t.Errorf("Bookmaker = %v, want SportyBet", slip.Bookmaker)
	}
}

func TestNormalizeRejects(t *testing.T) {
	now := time.Now()
	if _, err := Normalize(Draft{Provenance: ProvenanceImage}, 1, now); err != ErrNoValidSelections {
		t.Errorf("empty selections: err = %v, want %v", err, ErrNoValidSelections)
	}
	if _, err := Normalize(Draft{Selections: legs(1, "2"), Provenance: "fax"}, 1, now); err != ErrUnknownProvenance {
		t.Errorf("bad provenance: err = %v, want %v", err, ErrUnknownProvenance)
	}
}

func TestClassifyTiers(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	past := now.Add(-30 * time.Minute)

	tests := []struct {
		name  string
		total string
		legs  int
		live  bool
		want  Tier
	}{
		{"ten exactly with six legs", "10.0", 6, false, TierBalanced},
		{"just above ten", "10.01", 6, false, TierHighRisk},
		{"seven legs at low odds", "1.5", 7, false, TierHighRisk},
		{"safe", "2.5", 2, false, TierSafe},
		{"three exactly with three legs", "3", 3, false, TierSafe},
		{"live blocks safe", "2.5", 2, true, TierHighRisk},
		{"live blocks balanced", "5", 4, true, TierHighRisk},
		{"gap between tiers", "3.5", 2, false, TierHighRisk},
		{"balanced lower edge", "3.01", 3, false, TierBalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Slip{Selections: legs(tt.legs, "1.1"), TotalOdds: decimal.RequireFromString(tt.total), Provenance: ProvenanceImage}
			if tt.live {
				s.Selections[0].KickoffAt = &past
			}
			got := Classify(s, now)
			if got.Tier != tt.want {
				t.Errorf("Classify() tier = %s, want %s", got.Tier, tt.want)
			}
			if got.HasBadge(BadgeLive) != tt.live {
				t.Errorf("LIVE badge = %v, want %v", got.HasBadge(BadgeLive), tt.live)
			}
			if got.Hint.Label == "" {
				t.Error("presentation hint missing")
			}
		})
	}
}

func TestClassifyAISafeSlip(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	later := now.Add(3 * time.Hour)

	slip, err := Normalize(Draft{
		Selections: []Selection{
			{HomeTeam: "Inter", AwayTeam: "Genoa", Market: "1X2", Pick: "1", Odds: odds("1.3"), KickoffAt: &later},
			{HomeTeam: "Porto", AwayTeam: "Braga", Market: "Double Chance", Pick: "1X", Odds: odds("1.4"), KickoffAt: &later},
		},
		Provenance: ProvenanceAI,
	}, 7, now)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !slip.TotalOdds.Equal(decimal.RequireFromString("1.82")) {
		t.Fatalf("TotalOdds = %s, want 1.82", slip.TotalOdds)
	}

	label := Classify(slip, now)
	if label.Tier != TierSafe {
		t.Errorf("tier = %s, want SAFE", label.Tier)
	}
	if len(label.Badges) != 1 || label.Badges[0] != BadgeAI {
		t.Errorf("badges = %v, want [AI]", label.Badges)
	}
}
