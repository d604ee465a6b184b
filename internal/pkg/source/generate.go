package source

import (
	"Slipboard/internal/pkg/betslip"
	"Slipboard/internal/pkg/fixture"
	"context"
	"fmt"
	log "log/slog"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const defaultMaxFixtureSample = 40

// GenerateRequest 生成参数
type GenerateRequest struct {
	TargetOdds decimal.Decimal
	Risk       Risk
	Leagues    []string
}

// GenerateOptions 生成配置
type GenerateOptions struct {
	MaxFixtureSample int
	// EnforceFixtures 丢弃不在候选赛程中的投注
	EnforceFixtures bool
}

// GenerateSource AI 生成注单
type GenerateSource struct {
	model    TextModel
	fixtures FixtureProvider
	opts     GenerateOptions
	rec      Recorder
}

// NewGenerateSource fixtures 为 nil 时不提供候选赛程
func NewGenerateSource(model TextModel, fixtures FixtureProvider, opts GenerateOptions, rec Recorder) *GenerateSource {
	if opts.MaxFixtureSample <= 0 {
		opts.MaxFixtureSample = defaultMaxFixtureSample
	}
	return &GenerateSource{model: model, fixtures: fixtures, opts: opts, rec: rec}
}

type promptFixture struct {
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	League    string `json:"league"`
	KickoffAt string `json:"kickoff"`
}

type generatePrompt struct {
	TargetOdds string          `json:"targetOdds"`
	Risk       Risk            `json:"risk"`
	Policy     Policy          `json:"policy"`
	Leagues    []string        `json:"leagues,omitempty"`
	Fixtures   []promptFixture `json:"fixtures,omitempty"`
	Today      string          `json:"today"`
}

// Generate 生成注单，配置了赛程源但当天无可用赛程时返回 no_fixtures
func (s *GenerateSource) Generate(ctx context.Context, req GenerateRequest, now time.Time) (res *Result, err error) {
	start := time.Now()
	defer func() { record(s.rec, sourceGenerate, start, res, err) }()

	if s.model == nil {
		return nil, ErrMisconfigured
	}

	var candidates []fixture.Fixture
	if s.fixtures != nil {
		all, err := s.fixtures.TodayFixtures(ctx, now)
		if err != nil {
			log.WarnContext(ctx, "fetch fixtures error", "err", err)
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		candidates = selectCandidates(all, req.Leagues, now, s.opts.MaxFixtureSample)
		if len(candidates) == 0 {
			return notApplicable(ReasonNoFixtures, "no fixtures available today", nil), nil
		}
	}

	prompt, err := buildPrompt(req, candidates, now)
	if err != nil {
		return nil, err
	}

	content, err := s.model.GenerateSlip(ctx, prompt)
	if err != nil {
		return nil, classifyModelError(err)
	}

	out, err := decodeModelSlip(content)
	if err != nil {
		log.WarnContext(ctx, "generated slip response malformed", "err", err)
		return nil, err
	}

	selections, dropped := out.selections(ctx)
	if s.opts.EnforceFixtures && len(candidates) > 0 {
		var unmatched int
		selections, unmatched = matchFixtures(selections, candidates)
		if unmatched > 0 {
			log.InfoContext(ctx, "drop generated bets outside candidate fixtures", "count", unmatched)
		}
		dropped += unmatched
	}
	if len(selections) == 0 {
		return nil, ErrNoUsableSelections
	}

	return &Result{
		Status:  StatusOK,
		Dropped: dropped,
		RawText: nonEmpty(out.RawText),
		Draft: &betslip.Draft{
			Selections: selections,
			Provenance: betslip.ProvenanceAI,
			RawText:    nonEmpty(out.RawText),
		},
	}, nil
}

// selectCandidates 按联赛过滤，未开赛的按开球时间在前，截断到 limit
func selectCandidates(all []fixture.Fixture, leagues []string, now time.Time, limit int) []fixture.Fixture {
	wanted := make([]string, 0, len(leagues))
	for _, l := range leagues {
		if f := foldName(l); f != "" {
			wanted = append(wanted, f)
		}
	}

	out := make([]fixture.Fixture, 0, len(all))
	for _, f := range all {
		if len(wanted) > 0 && !leagueMatches(f.League, wanted) {
			continue
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ui, uj := !out[i].KickoffAt.Before(now), !out[j].KickoffAt.Before(now)
		if ui != uj {
			return ui
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func leagueMatches(league string, wanted []string) bool {
	folded := foldName(league)
	for _, w := range wanted {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}

// matchFixtures 保留能对应到候选赛程的投注，并补全开球时间与联赛
func matchFixtures(selections []betslip.Selection, candidates []fixture.Fixture) ([]betslip.Selection, int) {
	kept := selections[:0:0]
	for _, s := range selections {
		matched := false
		for _, f := range candidates {
			if !sameTeam(s.HomeTeam, f.HomeTeam) || !sameTeam(s.AwayTeam, f.AwayTeam) {
				continue
			}
			kickoff := f.KickoffAt
			s.KickoffAt = &kickoff
			if f.League != "" {
				league := f.League
				s.League = &league
			}
			matched = true
			break
		}
		if matched {
			kept = append(kept, s)
		}
	}
	return kept, len(selections) - len(kept)
}

func buildPrompt(req GenerateRequest, candidates []fixture.Fixture, now time.Time) (string, error) {
	p := generatePrompt{
		TargetOdds: req.TargetOdds.StringFixed(2),
		Risk:       req.Risk,
		Policy:     PolicyFor(req.Risk),
		Leagues:    req.Leagues,
		Today:      now.UTC().Format("2006-01-02"),
	}
	for _, f := range candidates {
		p.Fixtures = append(p.Fixtures, promptFixture{
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			League:    f.League,
			KickoffAt: f.KickoffAt.UTC().Format(time.RFC3339),
		})
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal generate prompt: %w", err)
	}
	return string(data), nil
}
