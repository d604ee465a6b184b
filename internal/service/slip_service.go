package service

import (
	"Slipboard/internal/api/dto"
	"Slipboard/internal/pkg/betslip"
	"Slipboard/internal/pkg/kafka"
	"Slipboard/internal/pkg/live"
	"Slipboard/internal/pkg/source"
	"Slipboard/internal/pkg/util"
	"Slipboard/internal/repository"
	"context"
	"errors"
	"io"
	log "log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// ImageParser 识图适配器
type ImageParser interface {
	Parse(ctx context.Context, imageURL string) (*source.Result, error)
}

// BookingLookup 分享码适配器
type BookingLookup interface {
	Lookup(ctx context.Context, bookmakerID, code string) (*source.Result, error)
}

// SlipGenerator AI 生成适配器
type SlipGenerator interface {
	Generate(ctx context.Context, req source.GenerateRequest, now time.Time) (*source.Result, error)
}

// ScanStore 截图存储，返回模型可访问的地址
type ScanStore interface {
	Configured() bool
	Put(ctx context.Context, data []byte, contentType, ext string) (string, error)
}

// SlipRecorder 注单创建指标
type SlipRecorder interface {
	RecordSlipCreated(source string, totalOdds decimal.Decimal)
}

type SlipService interface {
	ScanSlip(ctx context.Context, userID uint64, file io.Reader) (*dto.SlipSourceDTO, error)
	ImportSlip(ctx context.Context, userID uint64, req *dto.ImportSlipReq) (*dto.SlipSourceDTO, error)
	GenerateSlip(ctx context.Context, userID uint64, req *dto.GenerateSlipReq) (*dto.SlipSourceDTO, error)
	DeleteSlip(ctx context.Context, userID, slipID uint64) error
}

type slipServiceImpl struct {
	slipRepo  repository.SlipRepo
	images    ImageParser
	bookings  BookingLookup
	generator SlipGenerator
	scans     ScanStore
	producer  kafka.EventProducer
	publisher live.Publisher
	recorder  SlipRecorder
	now       func() time.Time
}

func NewSlipService(
	slipRepo repository.SlipRepo,
	images ImageParser,
	bookings BookingLookup,
	generator SlipGenerator,
	scans ScanStore,
	producer kafka.EventProducer,
	publisher live.Publisher,
	recorder SlipRecorder,
) SlipService {
	return &slipServiceImpl{
		slipRepo:  slipRepo,
		images:    images,
		bookings:  bookings,
		generator: generator,
		scans:     scans,
		producer:  producer,
		publisher: publisher,
		recorder:  recorder,
		now:       time.Now,
	}
}

// ScanSlip 截图缩放后上传，交给识图模型解析
func (s *slipServiceImpl) ScanSlip(ctx context.Context, userID uint64, file io.Reader) (*dto.SlipSourceDTO, error) {
	if !s.scans.Configured() {
		return nil, ErrServiceMisconfigured
	}
	img, err := util.PrepareScanImage(file, util.MaxScanSide)
	if err != nil {
		if errors.Is(err, util.ErrNotImage) {
			return nil, ErrFileNotSupported
		}
		return nil, err
	}
	url, err := s.scans.Put(ctx, img.Data, img.ContentType, img.Ext)
	if err != nil {
		log.ErrorContext(ctx, "upload scan image failed", "err", err)
		return nil, UnExpectedError
	}

	res, err := s.images.Parse(ctx, url)
	return s.finish(ctx, userID, res, err)
}

// ImportSlip 分享码导入
func (s *slipServiceImpl) ImportSlip(ctx context.Context, userID uint64, req *dto.ImportSlipReq) (*dto.SlipSourceDTO, error) {
	res, err := s.bookings.Lookup(ctx, req.Bookmaker, req.Code)
	return s.finish(ctx, userID, res, err)
}

// GenerateSlip AI 生成
func (s *slipServiceImpl) GenerateSlip(ctx context.Context, userID uint64, req *dto.GenerateSlipReq) (*dto.SlipSourceDTO, error) {
	if req.TargetOdds == nil || req.TargetOdds.LessThanOrEqual(decimal.NewFromInt(1)) {
		return nil, ErrParamInvalid
	}
	risk := source.RiskMedium
	if req.Risk != "" {
		r, ok := source.ParseRisk(req.Risk)
		if !ok {
			return nil, ErrParamInvalid
		}
		risk = r
	}

	res, err := s.generator.Generate(ctx, source.GenerateRequest{
		TargetOdds: *req.TargetOdds,
		Risk:       risk,
		Leagues:    req.Leagues,
	}, s.now())
	return s.finish(ctx, userID, res, err)
}

// finish 三种来源的共同后半段：空结果直接返回，否则规范化、落库、发事件
func (s *slipServiceImpl) finish(ctx context.Context, userID uint64, res *source.Result, err error) (*dto.SlipSourceDTO, error) {
	if err != nil {
		return nil, translateSourceError(ctx, err)
	}
	if res.Status == source.StatusNotApplicable {
		return &dto.SlipSourceDTO{
			Outcome: string(res.Reason),
			Message: res.Message,
			RawText: res.RawText,
		}, nil
	}

	now := s.now()
	slip, err := betslip.Normalize(*res.Draft, userID, now)
	if err != nil {
		if errors.Is(err, betslip.ErrNoValidSelections) {
			return nil, ErrNoValidBets
		}
		return nil, err
	}

	m, err := toModelSlip(slip)
	if err != nil {
		return nil, err
	}
	if err = s.slipRepo.CreateSlip(ctx, m); err != nil {
		if errors.Is(err, repository.ErrEmptySlip) {
			return nil, ErrNoValidBets
		}
		return nil, err
	}
	s.recorder.RecordSlipCreated(m.Source, m.TotalOdds)
	log.InfoContext(ctx, "slip created", "slipID", m.ID, "source", m.Source, "legs", len(m.Selections), "dropped", res.Dropped)

	if err = s.producer.PublishSlipEvent(ctx, &kafka.SlipEvent{
		Type:      kafka.SlipCreated,
		SlipID:    m.ID,
		UserID:    userID,
		Source:    m.Source,
		TotalOdds: m.TotalOdds.String(),
		CreatedAt: m.CreatedAt,
	}); err != nil {
		log.WarnContext(ctx, "publish slip event failed", "slipID", m.ID, "err", err)
	}

	stored, err := s.slipRepo.GetSlipByID(ctx, m.ID)
	if err != nil || stored == nil {
		stored = m
	}
	return &dto.SlipSourceDTO{
		Outcome: "created",
		Dropped: res.Dropped,
		Slip:    toSlipDTO(stored, now, false, false),
	}, nil
}

// DeleteSlip 只能删除自己的注单
func (s *slipServiceImpl) DeleteSlip(ctx context.Context, userID, slipID uint64) error {
	ok, err := s.slipRepo.DeleteSlip(ctx, slipID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlipNotFound
	}

	if counter, err := s.slipRepo.GetSlipCounter(ctx, slipID); err == nil && counter != nil {
		publishLive(ctx, s.publisher, live.SlipDoc(slipID), counter.Version, live.TypeDeleted, nil)
	}
	if err = s.producer.PublishSlipEvent(ctx, &kafka.SlipEvent{
		Type:   kafka.SlipDeleted,
		SlipID: slipID,
		UserID: userID,
	}); err != nil {
		log.WarnContext(ctx, "publish slip event failed", "slipID", slipID, "err", err)
	}
	return nil
}

// translateSourceError 适配器错误转为对外错误，原始错误只记日志
func translateSourceError(ctx context.Context, err error) error {
	var out error
	switch {
	case errors.Is(err, source.ErrUnsupportedBookmaker):
		out = ErrUnsupportedBookmaker
	case errors.Is(err, source.ErrNoUsableSelections):
		out = ErrAINoSelections
	case errors.Is(err, source.ErrUpstreamMalformed):
		out = ErrUpstreamMalformed
	case errors.Is(err, source.ErrUpstreamUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		out = ErrUpstreamUnavailable
	case errors.Is(err, source.ErrMisconfigured):
		out = ErrServiceMisconfigured
	default:
		out = UnExpectedError
	}
	log.WarnContext(ctx, "slip source failed", "err", err, "mapped", out)
	return out
}

// publishLive 提交后发布实时事件，失败只影响推送，订阅端会按缺口重新同步
func publishLive(ctx context.Context, p live.Publisher, doc string, version uint64, typ string, payload any) {
	ev, err := live.NewEvent(doc, version, typ, payload)
	if err == nil {
		err = p.Publish(ctx, ev)
	}
	if err != nil {
		log.WarnContext(ctx, "publish live event failed", "doc", doc, "version", version, "err", err)
	}
}
