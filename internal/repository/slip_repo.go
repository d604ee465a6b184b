package repository

import (
	"Slipboard/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type SlipRepo interface {
	CreateSlip(ctx context.Context, slip *model.Slip) error
	GetSlipByID(ctx context.Context, id uint64) (*model.Slip, error)
	GetSlipsByIDs(ctx context.Context, ids []uint64) ([]*model.Slip, error)
	GetSlipCounter(ctx context.Context, id uint64) (*model.Slip, error)
	GetLatestSlipIDs(ctx context.Context, limit, offset int) ([]uint64, error)
	GetSlipIDsByUserID(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)
	DeleteSlip(ctx context.Context, id, userID uint64) (bool, error)
}

type SlipRepoImpl struct {
	db *gorm.DB
}

func NewSlipRepo(db *gorm.DB) SlipRepo {
	return &SlipRepoImpl{db: db}
}

// CreateSlip 注单与投注明细同一事务写入，没有明细的注单不落库
func (s *SlipRepoImpl) CreateSlip(ctx context.Context, slip *model.Slip) error {
	if len(slip.Selections) == 0 {
		return ErrEmptySlip
	}
	for i := range slip.Selections {
		slip.Selections[i].Position = i
	}
	// 明细作为关联一并插入，gorm 默认包在同一事务内
	return s.db.WithContext(ctx).Omit("User").Create(slip).Error
}

func (s *SlipRepoImpl) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Preload("Selections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// GetSlipByID 已删除或不存在时返回 nil
func (s *SlipRepoImpl) GetSlipByID(ctx context.Context, id uint64) (*model.Slip, error) {
	slip := &model.Slip{}
	err := s.preloaded(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(slip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return slip, nil
}

// GetSlipsByIDs 结果顺序与 ids 一致，缺失的跳过
func (s *SlipRepoImpl) GetSlipsByIDs(ctx context.Context, ids []uint64) ([]*model.Slip, error) {
	if len(ids) == 0 {
		return []*model.Slip{}, nil
	}
	var slips []*model.Slip
	err := s.preloaded(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&slips).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]*model.Slip, len(slips))
	for _, v := range slips {
		byID[v.ID] = v
	}
	ordered := make([]*model.Slip, 0, len(slips))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

// GetSlipCounter 只读取计数与版本号，用于实时推送快照
func (s *SlipRepoImpl) GetSlipCounter(ctx context.Context, id uint64) (*model.Slip, error) {
	slip := &model.Slip{}
	err := s.db.WithContext(ctx).
		Select("id", "user_id", "likes_count", "comments_count", "version", "is_deleted").
		First(slip, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return slip, nil
}

// GetLatestSlipIDs 时间线缓存不可用时的回源查询
func (s *SlipRepoImpl) GetLatestSlipIDs(ctx context.Context, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Slip{}).
		Where("is_deleted = ?", false).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Pluck("id", &ids).Error
	return ids, err
}

func (s *SlipRepoImpl) GetSlipIDsByUserID(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.Slip{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteSlip 软删除，只能删除自己的注单
func (s *SlipRepoImpl) DeleteSlip(ctx context.Context, id, userID uint64) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Slip{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Updates(map[string]any{
			"is_deleted": true,
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected > 0, result.Error
}
