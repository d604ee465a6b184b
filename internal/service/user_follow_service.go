package service

import (
	"Slipboard/internal/api/dto"
	"Slipboard/internal/model"
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/kafka"
	"Slipboard/internal/pkg/live"
	"Slipboard/internal/pkg/minio"
	"Slipboard/internal/repository"
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type UserFollowService interface {
	ToggleFollow(ctx context.Context, userID, followingID uint64) (*dto.FollowToggleDTO, error)
	GetFollowCounts(ctx context.Context, viewerID, userID uint64) (*dto.FollowCountsDTO, error)
	GetUserFollowers(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.FollowUserDTO, error)
	GetUserFollowing(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.FollowUserDTO, error)
}

type UserFollowServiceImpl struct {
	userFollowRepo repository.UserFollowRepo
	userRepo       repository.UserRepo
	producer       kafka.EventProducer
	publisher      live.Publisher
}

func NewUserFollowService(
	userFollowRepo repository.UserFollowRepo,
	userRepo repository.UserRepo,
	producer kafka.EventProducer,
	publisher live.Publisher,
) UserFollowService {
	return &UserFollowServiceImpl{
		userFollowRepo: userFollowRepo,
		userRepo:       userRepo,
		producer:       producer,
		publisher:      publisher,
	}
}

type followPayload struct {
	FollowerID     uint64 `json:"follower_id"`
	FollowingID    uint64 `json:"following_id"`
	Following      bool   `json:"following"`
	FollowerCount  *int64 `json:"follower_count,omitempty"`
	FollowingCount *int64 `json:"following_count,omitempty"`
}

// ToggleFollow 关注/取消关注，不能关注自己
func (s *UserFollowServiceImpl) ToggleFollow(ctx context.Context, userID, followingID uint64) (*dto.FollowToggleDTO, error) {
	if userID == followingID {
		return nil, ErrUserFollowSelf
	}
	res, err := s.userFollowRepo.ToggleFollow(ctx, userID, followingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 双方文档各推送一次，只携带各自变化的计数
	publishLive(ctx, s.publisher, live.UserDoc(followingID), res.TargetVersion, live.TypeFollow, &followPayload{
		FollowerID:    userID,
		FollowingID:   followingID,
		Following:     res.Following,
		FollowerCount: &res.FollowerCount,
	})
	publishLive(ctx, s.publisher, live.UserDoc(userID), res.FollowerVersion, live.TypeFollow, &followPayload{
		FollowerID:     userID,
		FollowingID:    followingID,
		Following:      res.Following,
		FollowingCount: &res.FollowingCount,
	})

	if err = s.producer.PublishActionEvent(ctx, &kafka.ActionEvent{
		Type:     kafka.ActionFollow,
		Active:   res.Following,
		ActorID:  userID,
		TargetID: followingID,
		OwnerID:  followingID,
		At:       time.Now(),
	}); err != nil {
		logPublishFailure(ctx, kafka.ActionFollow, followingID, err)
	}

	return &dto.FollowToggleDTO{
		Following:      res.Following,
		FollowerCount:  res.FollowerCount,
		FollowingCount: res.FollowingCount,
	}, nil
}

// GetFollowCounts 粉丝数与关注数，读取时统计；viewerID 为 0 时不查询关注状态
func (s *UserFollowServiceImpl) GetFollowCounts(ctx context.Context, viewerID, userID uint64) (*dto.FollowCountsDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	out := &dto.FollowCountsDTO{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.FollowerCount, err = s.userFollowRepo.GetUserFollowerCount(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.FollowingCount, err = s.userFollowRepo.GetUserFollowingCount(gCtx, userID)
		return err
	})
	if viewerID != 0 && viewerID != userID {
		g.Go(func() error {
			follow, err := s.userFollowRepo.GetUserFollow(gCtx, viewerID, userID)
			out.IsFollowing = follow != nil
			return err
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserFollowServiceImpl) GetUserFollowers(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.FollowUserDTO, error) {
	follows, err := s.userFollowRepo.GetUserFollowers(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.toFollowUsers(ctx, follows, func(f *model.UserFollow) uint64 { return f.FollowerID })
}

func (s *UserFollowServiceImpl) GetUserFollowing(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.FollowUserDTO, error) {
	follows, err := s.userFollowRepo.GetUserFollowing(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.toFollowUsers(ctx, follows, func(f *model.UserFollow) uint64 { return f.FollowingID })
}

// toFollowUsers 补全对方资料，保持关注时间顺序
func (s *UserFollowServiceImpl) toFollowUsers(ctx context.Context, follows []*model.UserFollow, other func(*model.UserFollow) uint64) ([]*dto.FollowUserDTO, error) {
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, other(f))
	}
	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]*dto.FollowUserDTO, 0, len(follows))
	for _, f := range follows {
		id := other(f)
		item := &dto.FollowUserDTO{
			UserID:    id,
			AvatarURL: minio.GetPublicURL(consts.DefaultAvatarURL),
			CreatedAt: f.CreatedAt.Format(timeLayout),
		}
		if u, ok := byID[id]; ok {
			item.Nickname = u.UserDetail.Nickname
			if u.UserDetail.AvatarURL != "" {
				item.AvatarURL = minio.GetPublicURL(u.UserDetail.AvatarURL)
			}
		}
		out = append(out, item)
	}
	return out, nil
}
