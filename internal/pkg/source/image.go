package source

import (
	"Slipboard/internal/pkg/betslip"
	"Slipboard/internal/pkg/llm"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"
)

// ImageSource 注单截图识别
type ImageSource struct {
	model VisionModel
	rec   Recorder
}

func NewImageSource(model VisionModel, rec Recorder) *ImageSource {
	return &ImageSource{model: model, rec: rec}
}

// Parse 识别图片中的注单
// isBetSlip 为 false，或缺失且 bets 为空时返回 not_slip
func (s *ImageSource) Parse(ctx context.Context, imageURL string) (res *Result, err error) {
	start := time.Now()
	defer func() { record(s.rec, sourceImage, start, res, err) }()

	if s.model == nil {
		return nil, ErrMisconfigured
	}

	content, err := s.model.ScanSlip(ctx, imageURL)
	if err != nil {
		return nil, classifyModelError(err)
	}

	out, err := decodeModelSlip(content)
	if err != nil {
		log.WarnContext(ctx, "image slip response malformed", "err", err)
		return nil, err
	}

	rawText := nonEmpty(out.RawText)
	if out.IsBetSlip != nil && !*out.IsBetSlip {
		return notApplicable(ReasonNotSlip, "image is not a bet slip", rawText), nil
	}
	if out.IsBetSlip == nil && len(out.Bets) == 0 {
		return notApplicable(ReasonNotSlip, "image is not a bet slip", rawText), nil
	}

	selections, dropped := out.selections(ctx)
	return &Result{
		Status:  StatusOK,
		RawText: rawText,
		Dropped: dropped,
		Draft: &betslip.Draft{
			Selections:  selections,
			Provenance:  betslip.ProvenanceImage,
			Bookmaker:   nonEmpty(out.Bookmaker),
			BookingCode: nonEmpty(out.BookingCode),
			RawText:     rawText,
		},
	}, nil
}

// classifyModelError 模型调用错误归类
func classifyModelError(err error) error {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return fmt.Errorf("%w: %v", ErrMisconfigured, err)
	case errors.Is(err, llm.ErrEmptyResponse), errors.Is(err, llm.ErrContentBlocked):
		return fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
}
