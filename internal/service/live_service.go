package service

import (
	"Slipboard/internal/pkg/live"
	"Slipboard/internal/repository"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// LiveService 实时订阅的快照来源
type LiveService interface {
	live.Snapshotter
}

type liveServiceImpl struct {
	slipRepo       repository.SlipRepo
	userRepo       repository.UserRepo
	userFollowRepo repository.UserFollowRepo
}

func NewLiveService(slipRepo repository.SlipRepo, userRepo repository.UserRepo, userFollowRepo repository.UserFollowRepo) LiveService {
	return &liveServiceImpl{
		slipRepo:       slipRepo,
		userRepo:       userRepo,
		userFollowRepo: userFollowRepo,
	}
}

type slipSnapshot struct {
	LikesCount    int  `json:"likes_count"`
	CommentsCount int  `json:"comments_count"`
	Deleted       bool `json:"deleted"`
}

type userSnapshot struct {
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

// Snapshot 读取文档当前计数与版本号，不存在的注单以已删除快照返回
func (s *liveServiceImpl) Snapshot(ctx context.Context, doc string) (live.Event, error) {
	kind, id, err := live.ParseDoc(doc)
	if err != nil {
		return live.Event{}, err
	}

	if live.IsSlipDoc(kind) {
		counter, err := s.slipRepo.GetSlipCounter(ctx, id)
		if err != nil {
			return live.Event{}, err
		}
		if counter == nil {
			return live.NewEvent(doc, 0, live.TypeSnapshot, &slipSnapshot{Deleted: true})
		}
		return live.NewEvent(doc, counter.Version, live.TypeSnapshot, &slipSnapshot{
			LikesCount:    counter.LikesCount,
			CommentsCount: counter.CommentsCount,
			Deleted:       counter.IsDeleted,
		})
	}

	// 先读版本号再统计，统计结果不早于该版本
	version, err := s.userRepo.GetRelationVersion(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return live.Event{}, fmt.Errorf("%w: %s", ErrUserNotFound, doc)
		}
		return live.Event{}, err
	}
	snap := &userSnapshot{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.FollowerCount, err = s.userFollowRepo.GetUserFollowerCount(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		snap.FollowingCount, err = s.userFollowRepo.GetUserFollowingCount(gCtx, id)
		return err
	})
	if err = g.Wait(); err != nil {
		return live.Event{}, err
	}
	return live.NewEvent(doc, version, live.TypeSnapshot, snap)
}
