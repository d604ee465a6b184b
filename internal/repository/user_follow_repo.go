package repository

import (
	"Slipboard/internal/model"
	"context"
	"slices"

	"gorm.io/gorm"
)

// FollowResult 关注切换提交后的状态
type FollowResult struct {
	Following       bool
	FollowerCount   int64 // 被关注者的粉丝数
	FollowingCount  int64 // 发起者的关注数
	FollowerVersion uint64
	TargetVersion   uint64
}

type UserFollowRepo interface {
	ToggleFollow(ctx context.Context, followerID, followingID uint64) (*FollowResult, error)
	GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error)
	GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetUserFollow(ctx context.Context, userID uint64, followingID uint64) (*model.UserFollow, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

// ToggleFollow 按 id 升序锁定双方用户行，切换关注边并更新双方关系版本号
// 目标用户不存在时返回 gorm.ErrRecordNotFound
func (s *UserFollowRepoImpl) ToggleFollow(ctx context.Context, followerID, followingID uint64) (*FollowResult, error) {
	var res *FollowResult
	err := runTx(ctx, s.db, "follow", func(tx *gorm.DB) error {
		ids := []uint64{followerID, followingID}
		slices.Sort(ids)

		var users []*model.User
		if err := tx.Clauses(forUpdate).
			Select("id", "relation_version").
			Where("id IN ? AND is_delete = ?", ids, false).
			Order("id ASC").
			Find(&users).Error; err != nil {
			return err
		}
		versions := make(map[uint64]uint64, len(users))
		for _, u := range users {
			versions[u.ID] = u.RelationVersion
		}
		if _, ok := versions[followingID]; !ok {
			return gorm.ErrRecordNotFound
		}

		edge := &model.UserFollow{FollowerID: followerID, FollowingID: followingID}
		result := tx.Delete(edge)
		if result.Error != nil {
			return result.Error
		}
		following := result.RowsAffected == 0
		if following {
			if err := tx.Create(edge).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.User{}).
			Where("id IN ?", ids).
			Update("relation_version", gorm.Expr("relation_version + 1")).Error; err != nil {
			return err
		}

		res = &FollowResult{
			Following:       following,
			FollowerVersion: versions[followerID] + 1,
			TargetVersion:   versions[followingID] + 1,
		}
		if err := tx.Model(&model.UserFollow{}).
			Where("following_id = ?", followingID).
			Count(&res.FollowerCount).Error; err != nil {
			return err
		}
		return tx.Model(&model.UserFollow{}).
			Where("follower_id = ?", followerID).
			Count(&res.FollowingCount).Error
	})
	return res, err
}

// GetUserFollowers 获取用户的粉丝列表
func (s *UserFollowRepoImpl) GetUserFollowers(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	var userFollows []*model.UserFollow
	result := s.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&userFollows)

	if result.Error != nil {
		return nil, result.Error
	}
	return userFollows, nil
}

// GetUserFollowing 获取用户的关注列表
func (s *UserFollowRepoImpl) GetUserFollowing(ctx context.Context, userID uint64, limit, offset int) ([]*model.UserFollow, error) {
	var userFollows []*model.UserFollow
	result := s.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&userFollows)

	if result.Error != nil {
		return nil, result.Error
	}
	return userFollows, nil
}

// GetUserFollowerCount 粉丝数实时统计
func (s *UserFollowRepoImpl) GetUserFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where("following_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetUserFollowingCount 关注数实时统计
func (s *UserFollowRepoImpl) GetUserFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where("follower_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// GetUserFollow 获取用户的关注关系，不存在时返回 nil
func (s *UserFollowRepoImpl) GetUserFollow(ctx context.Context, userID uint64, followingID uint64) (*model.UserFollow, error) {
	var userFollows []*model.UserFollow
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", userID, followingID).
		Limit(1).
		Find(&userFollows)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(userFollows) == 0 {
		return nil, nil
	}
	return userFollows[0], nil
}
