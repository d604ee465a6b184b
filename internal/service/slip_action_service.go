package service

import (
	"Slipboard/internal/api/dto"
	"Slipboard/internal/model"
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/kafka"
	"Slipboard/internal/pkg/live"
	"Slipboard/internal/pkg/redis"
	"Slipboard/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// CounterRepairQueue 记录计数可能落后的注单，由定时任务重算
type CounterRepairQueue interface {
	MarkDirty(ctx context.Context, slipID uint64) error
}

type redisRepairQueue struct{}

func NewRedisRepairQueue() CounterRepairQueue {
	return &redisRepairQueue{}
}

func (q *redisRepairQueue) MarkDirty(ctx context.Context, slipID uint64) error {
	return redis.SAdd(ctx, consts.SlipCommentDirtyKey, strconv.FormatUint(slipID, 10))
}

// CounterRecorder 计数延后修正指标
type CounterRecorder interface {
	RecordCounterDeferred(counter string)
}

// SlipActionOptions 交互配置
type SlipActionOptions struct {
	// StrictCommentCount 评论与计数放在同一事务
	StrictCommentCount bool
}

type SlipActionService interface {
	ToggleLike(ctx context.Context, userID, slipID uint64) (*dto.ToggleDTO, error)
	ToggleSave(ctx context.Context, userID, slipID uint64) (*dto.ToggleDTO, error)
	GetActionState(ctx context.Context, userID, slipID uint64) (*dto.SlipActionStateDTO, error)
	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateReq) (*dto.CommentDTO, error)
	GetComments(ctx context.Context, slipID uint64, page, pageSize int) ([]*dto.CommentDTO, error)
	RecountComments(ctx context.Context, slipID uint64) error
}

type slipActionServiceImpl struct {
	slipRepo       repository.SlipRepo
	slipActionRepo repository.SlipActionRepo
	repairs        CounterRepairQueue
	producer       kafka.EventProducer
	publisher      live.Publisher
	recorder       CounterRecorder
	opts           SlipActionOptions
}

func NewSlipActionService(
	slipRepo repository.SlipRepo,
	slipActionRepo repository.SlipActionRepo,
	repairs CounterRepairQueue,
	producer kafka.EventProducer,
	publisher live.Publisher,
	recorder CounterRecorder,
	opts SlipActionOptions,
) SlipActionService {
	return &slipActionServiceImpl{
		slipRepo:       slipRepo,
		slipActionRepo: slipActionRepo,
		repairs:        repairs,
		producer:       producer,
		publisher:      publisher,
		recorder:       recorder,
		opts:           opts,
	}
}

type counterPayload struct {
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	ActorID       uint64 `json:"actor_id,omitempty"`
	Active        *bool  `json:"active,omitempty"`
}

// ToggleLike 点赞/取消点赞，提交后推送实时事件
func (s *slipActionServiceImpl) ToggleLike(ctx context.Context, userID, slipID uint64) (*dto.ToggleDTO, error) {
	res, err := s.slipActionRepo.ToggleLike(ctx, slipID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSlipNotFound
		}
		return nil, err
	}

	publishLive(ctx, s.publisher, live.SlipDoc(slipID), res.Version, live.TypeLike, &counterPayload{
		LikesCount:    res.Likes,
		CommentsCount: res.Comments,
		ActorID:       userID,
		Active:        &res.Active,
	})
	s.publishAction(ctx, &kafka.ActionEvent{
		Type:     kafka.ActionLike,
		Active:   res.Active,
		ActorID:  userID,
		TargetID: slipID,
		OwnerID:  res.OwnerID,
		At:       time.Now(),
	})
	return &dto.ToggleDTO{Active: res.Active, LikesCount: res.Likes, Version: res.Version}, nil
}

// ToggleSave 收藏/取消收藏，不影响计数与版本号
func (s *slipActionServiceImpl) ToggleSave(ctx context.Context, userID, slipID uint64) (*dto.ToggleDTO, error) {
	res, err := s.slipActionRepo.ToggleSave(ctx, slipID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSlipNotFound
		}
		return nil, err
	}
	s.publishAction(ctx, &kafka.ActionEvent{
		Type:     kafka.ActionSave,
		Active:   res.Active,
		ActorID:  userID,
		TargetID: slipID,
		OwnerID:  res.OwnerID,
		At:       time.Now(),
	})
	return &dto.ToggleDTO{Active: res.Active, LikesCount: res.Likes, Version: res.Version}, nil
}

// GetActionState 计数与当前用户的点赞/收藏状态
func (s *slipActionServiceImpl) GetActionState(ctx context.Context, userID, slipID uint64) (*dto.SlipActionStateDTO, error) {
	var (
		counter *model.Slip
		liked   bool
		saved   bool
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counter, err = s.slipRepo.GetSlipCounter(gCtx, slipID)
		return err
	})
	g.Go(func() error {
		var err error
		liked, err = s.slipActionRepo.CheckLikeExists(gCtx, userID, slipID)
		return err
	})
	g.Go(func() error {
		var err error
		saved, err = s.slipActionRepo.CheckSaveExists(gCtx, userID, slipID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if counter == nil || counter.IsDeleted {
		return nil, ErrSlipNotFound
	}
	return &dto.SlipActionStateDTO{
		LikesCount:    counter.LikesCount,
		CommentsCount: counter.CommentsCount,
		IsLiked:       liked,
		IsSaved:       saved,
		Version:       counter.Version,
	}, nil
}

// CreateComment 默认两步写入：评论落库即成功，计数失败记入待修正集合
func (s *slipActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateReq) (*dto.CommentDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrParamInvalid
	}
	comment := &model.SlipComment{SlipID: req.SlipID, UserID: userID, Content: content}

	var res *repository.CounterResult
	var err error
	if s.opts.StrictCommentCount {
		res, err = s.slipActionRepo.CreateCommentWithCount(ctx, comment)
	} else {
		if err = s.slipActionRepo.CreateComment(ctx, comment); err == nil {
			res = s.incrCommentCount(ctx, req.SlipID)
		}
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSlipNotFound
		}
		return nil, err
	}

	ownerID := uint64(0)
	if res != nil {
		ownerID = res.OwnerID
		publishLive(ctx, s.publisher, live.SlipDoc(req.SlipID), res.Version, live.TypeComment, &counterPayload{
			LikesCount:    res.Likes,
			CommentsCount: res.Comments,
			ActorID:       userID,
		})
	} else if counter, cErr := s.slipRepo.GetSlipCounter(ctx, req.SlipID); cErr == nil && counter != nil {
		ownerID = counter.UserID
	}
	s.publishAction(ctx, &kafka.ActionEvent{
		Type:      kafka.ActionComment,
		Active:    true,
		ActorID:   userID,
		TargetID:  req.SlipID,
		OwnerID:   ownerID,
		CommentID: comment.ID,
		Content:   content,
		At:        comment.CreatedAt,
	})
	return toCommentDTO(comment), nil
}

// incrCommentCount 第二步失败不影响评论本身
func (s *slipActionServiceImpl) incrCommentCount(ctx context.Context, slipID uint64) *repository.CounterResult {
	res, err := s.slipActionRepo.IncrCommentCount(ctx, slipID)
	if err == nil {
		return res
	}
	log.ErrorContext(ctx, "comment counter update failed, deferred to recount", "slipID", slipID, "err", err)
	s.recorder.RecordCounterDeferred("comments")
	if mErr := s.repairs.MarkDirty(ctx, slipID); mErr != nil {
		log.ErrorContext(ctx, "mark comment counter dirty failed", "slipID", slipID, "err", mErr)
	}
	return nil
}

// GetComments 分页获取评论
func (s *slipActionServiceImpl) GetComments(ctx context.Context, slipID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	comments, err := s.slipActionRepo.GetCommentsBySlipID(ctx, slipID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentDTO(c))
	}
	return out, nil
}

// RecountComments 重算评论数，有变化时推送
func (s *slipActionServiceImpl) RecountComments(ctx context.Context, slipID uint64) error {
	res, err := s.slipActionRepo.RecountComments(ctx, slipID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}
	if res.Active {
		log.InfoContext(ctx, "comment counter repaired", "slipID", slipID, "comments", res.Comments)
		publishLive(ctx, s.publisher, live.SlipDoc(slipID), res.Version, live.TypeRecount, &counterPayload{
			LikesCount:    res.Likes,
			CommentsCount: res.Comments,
		})
	}
	return nil
}

func (s *slipActionServiceImpl) publishAction(ctx context.Context, ev *kafka.ActionEvent) {
	if err := s.producer.PublishActionEvent(ctx, ev); err != nil {
		logPublishFailure(ctx, ev.Type, ev.TargetID, err)
	}
}

func logPublishFailure(ctx context.Context, typ string, targetID uint64, err error) {
	log.WarnContext(ctx, "publish action event failed", "type", typ, "targetID", targetID, "err", err)
}
