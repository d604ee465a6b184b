package job

import (
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/logger"
	"Slipboard/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const recountLockTTL = 5 * time.Minute

// CommentRecounter 按评论表重算计数
type CommentRecounter interface {
	RecountComments(ctx context.Context, slipID uint64) error
}

// SlipCommentJob 修正两步写入中没能更新的评论数
type SlipCommentJob struct {
	recounter CommentRecounter
}

func NewSlipCommentJob(recounter CommentRecounter) *SlipCommentJob {
	return &SlipCommentJob{
		recounter: recounter,
	}
}

func (s *SlipCommentJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-slip-comment")

	// 多实例部署时只允许一个实例处理
	lockValue := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.SlipRecountLock, lockValue, recountLockTTL, 0)
	if err != nil {
		log.ErrorContext(ctx, "acquire recount lock error", "err", err)
		return
	}
	if !ok {
		return
	}
	defer redis.UnLock(ctx, consts.SlipRecountLock, lockValue)

	// 上次中断遗留的 processing 集合先处理完，避免被覆盖
	processingKey := consts.SlipCommentDirtyKey + ":processing"
	pending, err := redis.Exists(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "check comment processing set error", "err", err)
		return
	}
	if !pending {
		// 脏集合不存在时 RENAME 报错，说明没有待修正的注单
		if err = redis.Rename(ctx, consts.SlipCommentDirtyKey, processingKey); err != nil {
			return
		}
	}

	members, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get comment dirty set error", "err", err)
		return
	}

	log.InfoContext(ctx, "start recounting slip comments", "count", len(members))
	success, failed := s.recount(ctx, members)

	// 失败的放回脏集合，下一轮重试
	if len(failed) > 0 {
		retry := make([]interface{}, len(failed))
		for i, id := range failed {
			retry[i] = id
		}
		if err = redis.SAdd(ctx, consts.SlipCommentDirtyKey, retry...); err != nil {
			log.ErrorContext(ctx, "requeue dirty slips error", "err", err)
		}
	}
	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete comment processing set error", "err", err)
	}

	log.InfoContext(ctx, "recount slip comments done",
		"total_count", len(members),
		"success_count", success,
		"failed_count", len(failed))
}

// recount 非法成员直接丢弃，返回成功数与需要重试的注单
func (s *SlipCommentJob) recount(ctx context.Context, members []string) (int, []uint64) {
	success := 0
	var failed []uint64
	for _, m := range members {
		slipID, err := strconv.ParseUint(m, 10, 64)
		if err != nil || slipID == 0 {
			log.WarnContext(ctx, "drop invalid dirty slip id", "member", m)
			continue
		}
		if err = s.recounter.RecountComments(ctx, slipID); err != nil {
			log.ErrorContext(ctx, "recount slip comments error", "slipID", slipID, "err", err)
			failed = append(failed, slipID)
			continue
		}
		success++
	}
	return success, failed
}
