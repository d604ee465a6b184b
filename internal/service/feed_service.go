package service

import (
	"Slipboard/internal/api/dto"
	"Slipboard/internal/model"
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/redis"
	"Slipboard/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// Timeline 时间线读取，由注单事件消费者写入
type Timeline interface {
	Range(ctx context.Context, key string, offset, count int) ([]uint64, error)
}

type redisTimeline struct{}

func NewRedisTimeline() Timeline {
	return &redisTimeline{}
}

func (t *redisTimeline) Range(ctx context.Context, key string, offset, count int) ([]uint64, error) {
	members, err := redis.ZRevRange(ctx, key, int64(offset), int64(offset+count-1))
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type FeedService interface {
	GetFeed(ctx context.Context, viewerID uint64, page, pageSize int) (*dto.SlipListDTO, error)
	GetUserSlips(ctx context.Context, viewerID, userID uint64, page, pageSize int) (*dto.SlipListDTO, error)
	GetSlip(ctx context.Context, viewerID, slipID uint64) (*dto.SlipDTO, error)
	GetLikedSlips(ctx context.Context, userID uint64, page, pageSize int) (*dto.SlipListDTO, error)
	GetSavedSlips(ctx context.Context, userID uint64, page, pageSize int) (*dto.SlipListDTO, error)
}

type feedServiceImpl struct {
	slipRepo       repository.SlipRepo
	slipActionRepo repository.SlipActionRepo
	timeline       Timeline
	now            func() time.Time
}

func NewFeedService(slipRepo repository.SlipRepo, slipActionRepo repository.SlipActionRepo, timeline Timeline) FeedService {
	return &feedServiceImpl{
		slipRepo:       slipRepo,
		slipActionRepo: slipActionRepo,
		timeline:       timeline,
		now:            time.Now,
	}
}

type idsFunc func(ctx context.Context, limit, offset int) ([]uint64, error)

// GetFeed 全站时间线，缓存为空或异常时回源数据库
func (s *feedServiceImpl) GetFeed(ctx context.Context, viewerID uint64, page, pageSize int) (*dto.SlipListDTO, error) {
	return s.list(ctx, viewerID, page, pageSize, consts.FeedGlobalKey, s.slipRepo.GetLatestSlipIDs)
}

// GetUserSlips 某个用户发布的注单
func (s *feedServiceImpl) GetUserSlips(ctx context.Context, viewerID, userID uint64, page, pageSize int) (*dto.SlipListDTO, error) {
	key := consts.FeedUserKey + strconv.FormatUint(userID, 10)
	return s.list(ctx, viewerID, page, pageSize, key, func(ctx context.Context, limit, offset int) ([]uint64, error) {
		return s.slipRepo.GetSlipIDsByUserID(ctx, userID, limit, offset)
	})
}

func (s *feedServiceImpl) GetLikedSlips(ctx context.Context, userID uint64, page, pageSize int) (*dto.SlipListDTO, error) {
	return s.list(ctx, userID, page, pageSize, "", func(ctx context.Context, limit, offset int) ([]uint64, error) {
		return s.slipActionRepo.GetLikedSlipIDs(ctx, userID, limit, offset)
	})
}

func (s *feedServiceImpl) GetSavedSlips(ctx context.Context, userID uint64, page, pageSize int) (*dto.SlipListDTO, error) {
	return s.list(ctx, userID, page, pageSize, "", func(ctx context.Context, limit, offset int) ([]uint64, error) {
		return s.slipActionRepo.GetSavedSlipIDs(ctx, userID, limit, offset)
	})
}

// GetSlip 注单详情
func (s *feedServiceImpl) GetSlip(ctx context.Context, viewerID, slipID uint64) (*dto.SlipDTO, error) {
	slip, err := s.slipRepo.GetSlipByID(ctx, slipID)
	if err != nil {
		return nil, err
	}
	if slip == nil {
		return nil, ErrSlipNotFound
	}
	list, err := s.assemble(ctx, viewerID, []*model.Slip{slip})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// list 多取一条判断是否还有下一页
func (s *feedServiceImpl) list(ctx context.Context, viewerID uint64, page, pageSize int, key string, fallback idsFunc) (*dto.SlipListDTO, error) {
	offset := (page - 1) * pageSize
	var ids []uint64
	if key != "" {
		cached, err := s.timeline.Range(ctx, key, offset, pageSize+1)
		if err != nil {
			log.WarnContext(ctx, "timeline read failed, fallback to db", "key", key, "err", err)
		}
		ids = cached
	}
	if len(ids) == 0 {
		var err error
		if ids, err = fallback(ctx, pageSize+1, offset); err != nil {
			return nil, err
		}
	}

	hasMore := len(ids) > pageSize
	if hasMore {
		ids = ids[:pageSize]
	}
	slips, err := s.slipRepo.GetSlipsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items, err := s.assemble(ctx, viewerID, slips)
	if err != nil {
		return nil, err
	}
	return &dto.SlipListDTO{List: items, HasMore: hasMore}, nil
}

// assemble 附加风险标签与当前用户的点赞/收藏状态
func (s *feedServiceImpl) assemble(ctx context.Context, viewerID uint64, slips []*model.Slip) ([]*dto.SlipDTO, error) {
	ids := make([]uint64, 0, len(slips))
	for _, v := range slips {
		ids = append(ids, v.ID)
	}

	var liked, saved []uint64
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		liked, err = s.slipActionRepo.FilterLikedSlipIDs(gCtx, viewerID, ids)
		return err
	})
	g.Go(func() error {
		var err error
		saved, err = s.slipActionRepo.FilterSavedSlipIDs(gCtx, viewerID, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	likedSet := toSet(liked)
	savedSet := toSet(saved)

	now := s.now()
	out := make([]*dto.SlipDTO, 0, len(slips))
	for _, v := range slips {
		_, isLiked := likedSet[v.ID]
		_, isSaved := savedSet[v.ID]
		out = append(out, toSlipDTO(v, now, isLiked, isSaved))
	}
	return out, nil
}

func toSet(ids []uint64) map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
