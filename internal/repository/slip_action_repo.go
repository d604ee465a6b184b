package repository

import (
	"Slipboard/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// CounterResult 计数事务提交后的状态
// Active 对点赞、收藏表示切换后的状态，对评论计数表示本次是否写入
type CounterResult struct {
	Active   bool
	Likes    int
	Comments int
	Version  uint64
	OwnerID  uint64
}

type SlipActionRepo interface {
	ToggleLike(ctx context.Context, slipID, userID uint64) (*CounterResult, error)
	ToggleSave(ctx context.Context, slipID, userID uint64) (*CounterResult, error)
	CheckLikeExists(ctx context.Context, userID, slipID uint64) (bool, error)
	CheckSaveExists(ctx context.Context, userID, slipID uint64) (bool, error)
	FilterLikedSlipIDs(ctx context.Context, userID uint64, slipIDs []uint64) ([]uint64, error)
	FilterSavedSlipIDs(ctx context.Context, userID uint64, slipIDs []uint64) ([]uint64, error)
	GetLikedSlipIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)
	GetSavedSlipIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)

	CreateComment(ctx context.Context, comment *model.SlipComment) error
	CreateCommentWithCount(ctx context.Context, comment *model.SlipComment) (*CounterResult, error)
	IncrCommentCount(ctx context.Context, slipID uint64) (*CounterResult, error)
	RecountComments(ctx context.Context, slipID uint64) (*CounterResult, error)
	GetCommentsBySlipID(ctx context.Context, slipID uint64, limit, offset int) ([]*model.SlipComment, error)
}

type SlipActionRepoImpl struct {
	db *gorm.DB
}

func NewSlipActionRepo(db *gorm.DB) SlipActionRepo {
	return &SlipActionRepoImpl{db: db}
}

// lockSlip 锁定注单行，已删除的注单视为不存在
func lockSlip(tx *gorm.DB, slipID uint64) (*model.Slip, error) {
	slip := &model.Slip{}
	err := tx.Clauses(forUpdate).
		Select("id", "user_id", "likes_count", "comments_count", "version").
		Where("id = ? AND is_deleted = ?", slipID, false).
		First(slip).Error
	return slip, err
}

// ToggleLike 点赞与取消在同一事务内完成：锁注单行、增删点赞记录、调整计数、版本号 +1
func (s *SlipActionRepoImpl) ToggleLike(ctx context.Context, slipID, userID uint64) (*CounterResult, error) {
	var res *CounterResult
	err := runTx(ctx, s.db, "like", func(tx *gorm.DB) error {
		slip, err := lockSlip(tx, slipID)
		if err != nil {
			return err
		}

		var exists int64
		if err = tx.Model(&model.Like{}).
			Where("user_id = ? AND slip_id = ?", userID, slipID).
			Count(&exists).Error; err != nil {
			return err
		}

		count := slip.LikesCount
		if exists > 0 {
			if err = tx.Where("user_id = ? AND slip_id = ?", userID, slipID).
				Delete(&model.Like{}).Error; err != nil {
				return err
			}
			count = max(count-1, 0)
		} else {
			if err = tx.Create(&model.Like{UserID: userID, SlipID: slipID}).Error; err != nil {
				return err
			}
			count++
		}

		version := slip.Version + 1
		if err = tx.Model(&model.Slip{}).Where("id = ?", slipID).
			Updates(map[string]any{"likes_count": count, "version": version}).Error; err != nil {
			return err
		}
		res = &CounterResult{
			Active:   exists == 0,
			Likes:    count,
			Version:  version,
			OwnerID:  slip.UserID,
			Comments: slip.CommentsCount,
		}
		return nil
	})
	return res, err
}

// ToggleSave 收藏不维护计数，只锁行保证并发切换结果一致
func (s *SlipActionRepoImpl) ToggleSave(ctx context.Context, slipID, userID uint64) (*CounterResult, error) {
	var res *CounterResult
	err := runTx(ctx, s.db, "save", func(tx *gorm.DB) error {
		slip, err := lockSlip(tx, slipID)
		if err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND slip_id = ?", userID, slipID).Delete(&model.Save{})
		if result.Error != nil {
			return result.Error
		}
		active := result.RowsAffected == 0
		if active {
			if err = tx.Create(&model.Save{UserID: userID, SlipID: slipID}).Error; err != nil {
				return err
			}
		}
		res = &CounterResult{
			Active:   active,
			Likes:    slip.LikesCount,
			Version:  slip.Version,
			OwnerID:  slip.UserID,
			Comments: slip.CommentsCount,
		}
		return nil
	})
	return res, err
}

func (s *SlipActionRepoImpl) CheckLikeExists(ctx context.Context, userID, slipID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND slip_id = ?", userID, slipID).
		Count(&count).Error
	return count > 0, err
}

func (s *SlipActionRepoImpl) CheckSaveExists(ctx context.Context, userID, slipID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Save{}).
		Where("user_id = ? AND slip_id = ?", userID, slipID).
		Count(&count).Error
	return count > 0, err
}

// FilterLikedSlipIDs 返回 slipIDs 中该用户点过赞的部分
func (s *SlipActionRepoImpl) FilterLikedSlipIDs(ctx context.Context, userID uint64, slipIDs []uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if userID == 0 || len(slipIDs) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND slip_id IN ?", userID, slipIDs).
		Pluck("slip_id", &ids).Error
	return ids, err
}

func (s *SlipActionRepoImpl) FilterSavedSlipIDs(ctx context.Context, userID uint64, slipIDs []uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if userID == 0 || len(slipIDs) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).Model(&model.Save{}).
		Where("user_id = ? AND slip_id IN ?", userID, slipIDs).
		Pluck("slip_id", &ids).Error
	return ids, err
}

func (s *SlipActionRepoImpl) GetLikedSlipIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var slipIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck("slip_id", &slipIDs).Error
	return slipIDs, err
}

func (s *SlipActionRepoImpl) GetSavedSlipIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var slipIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.Save{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck("slip_id", &slipIDs).Error
	return slipIDs, err
}

// CreateComment 只写评论本身，计数由调用方另行维护
func (s *SlipActionRepoImpl) CreateComment(ctx context.Context, comment *model.SlipComment) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Slip{}).
		Where("id = ? AND is_deleted = ?", comment.SlipID, false).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return s.db.WithContext(ctx).Omit("User").Create(comment).Error
}

// CreateCommentWithCount 评论与计数同一事务
func (s *SlipActionRepoImpl) CreateCommentWithCount(ctx context.Context, comment *model.SlipComment) (*CounterResult, error) {
	var res *CounterResult
	err := runTx(ctx, s.db, "comment", func(tx *gorm.DB) error {
		slip, err := lockSlip(tx, comment.SlipID)
		if err != nil {
			return err
		}
		comment.ID = 0
		if err = tx.Omit("User").Create(comment).Error; err != nil {
			return err
		}
		res, err = setCommentCount(tx, slip, slip.CommentsCount+1)
		return err
	})
	return res, err
}

// IncrCommentCount 评论计数 +1
func (s *SlipActionRepoImpl) IncrCommentCount(ctx context.Context, slipID uint64) (*CounterResult, error) {
	var res *CounterResult
	err := runTx(ctx, s.db, "comment_count", func(tx *gorm.DB) error {
		slip, err := lockSlip(tx, slipID)
		if err != nil {
			return err
		}
		res, err = setCommentCount(tx, slip, slip.CommentsCount+1)
		return err
	})
	return res, err
}

// RecountComments 按评论表重新统计，修正两步写入遗留的偏差
func (s *SlipActionRepoImpl) RecountComments(ctx context.Context, slipID uint64) (*CounterResult, error) {
	var res *CounterResult
	err := runTx(ctx, s.db, "comment_recount", func(tx *gorm.DB) error {
		slip, err := lockSlip(tx, slipID)
		if err != nil {
			return err
		}
		var actual int64
		if err = tx.Model(&model.SlipComment{}).
			Where("slip_id = ? AND is_deleted = ?", slipID, false).
			Count(&actual).Error; err != nil {
			return err
		}
		if int(actual) == slip.CommentsCount {
			res = &CounterResult{Likes: slip.LikesCount, Comments: slip.CommentsCount, Version: slip.Version, OwnerID: slip.UserID}
			return nil
		}
		res, err = setCommentCount(tx, slip, int(actual))
		return err
	})
	return res, err
}

func setCommentCount(tx *gorm.DB, slip *model.Slip, comments int) (*CounterResult, error) {
	version := slip.Version + 1
	err := tx.Model(&model.Slip{}).Where("id = ?", slip.ID).
		Updates(map[string]any{"comments_count": comments, "version": version}).Error
	if err != nil {
		return nil, err
	}
	return &CounterResult{
		Active:   true,
		Likes:    slip.LikesCount,
		Version:  version,
		OwnerID:  slip.UserID,
		Comments: comments,
	}, nil
}

// GetCommentsBySlipID 分页获取评论，最新在前
func (s *SlipActionRepoImpl) GetCommentsBySlipID(ctx context.Context, slipID uint64, limit, offset int) ([]*model.SlipComment, error) {
	var comments []*model.SlipComment
	err := s.db.WithContext(ctx).
		Preload("User.UserDetail").
		Where("slip_id = ? AND is_deleted = ?", slipID, false).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// IsNotFound 注单不存在或已删除
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
