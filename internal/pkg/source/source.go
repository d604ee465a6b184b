package source

import (
	"Slipboard/internal/pkg/betslip"
	"Slipboard/internal/pkg/fixture"
	"context"
	"errors"
	"time"
)

var (
	ErrUpstreamMalformed    = errors.New("upstream returned a malformed payload")
	ErrUpstreamUnavailable  = errors.New("upstream service unavailable")
	ErrUnsupportedBookmaker = errors.New("unsupported bookmaker")
	ErrMisconfigured        = errors.New("source is not configured")
	ErrNoUsableSelections   = errors.New("AI did not return usable selections")
)

// Status 适配器结果
type Status int

const (
	StatusOK Status = iota
	// StatusNotApplicable 合法的空结果，不是错误
	StatusNotApplicable
)

// Reason 空结果的原因
type Reason string

const (
	ReasonNotSlip    Reason = "not_slip"
	ReasonNotFound   Reason = "not_found"
	ReasonNoFixtures Reason = "no_fixtures"
)

// Result 适配器输出，StatusOK 时 Draft 非空
type Result struct {
	Status  Status
	Reason  Reason
	Message string
	RawText *string
	Draft   *betslip.Draft
	// Dropped 校验未通过被丢弃的条目数
	Dropped int
}

func notApplicable(reason Reason, message string, rawText *string) *Result {
	return &Result{Status: StatusNotApplicable, Reason: reason, Message: message, RawText: rawText}
}

// VisionModel 识图模型，返回 JSON 文本
type VisionModel interface {
	ScanSlip(ctx context.Context, imageURL string) (string, error)
}

// TextModel 文本模型，返回 JSON 文本
type TextModel interface {
	GenerateSlip(ctx context.Context, prompt string) (string, error)
}

// FixtureProvider 当日赛程
type FixtureProvider interface {
	TodayFixtures(ctx context.Context, now time.Time) ([]fixture.Fixture, error)
}

// Recorder 指标记录
type Recorder interface {
	RecordSource(source, outcome string, elapsed time.Duration)
}

const (
	sourceImage    = "image"
	sourceBooking  = "booking"
	sourceGenerate = "generate"
)

func outcomeOf(res *Result, err error) string {
	switch {
	case err == nil && res != nil && res.Status == StatusNotApplicable:
		return string(res.Reason)
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUpstreamMalformed):
		return "malformed"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "unavailable"
	case errors.Is(err, ErrUnsupportedBookmaker):
		return "unsupported"
	case errors.Is(err, ErrMisconfigured):
		return "misconfigured"
	case errors.Is(err, ErrNoUsableSelections):
		return "no_selections"
	default:
		return "error"
	}
}

func record(rec Recorder, source string, start time.Time, res *Result, err error) {
	if rec == nil {
		return
	}
	rec.RecordSource(source, outcomeOf(res, err), time.Since(start))
}
