package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrRewardNotFound = errors.New("reward not found")
	ErrOutOfStock     = errors.New("reward is out of stock")
)

type RewardRepository struct {
	*pg.DB
}

func NewRewardRepository(db *pg.DB) *RewardRepository {
	return &RewardRepository{
		db,
	}
}

func (r *RewardRepository) Create(ctx context.Context, reward *model.Reward) (*model.Reward, error) {
	entity := toRewardEntity(reward)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toRewardModel(entity), nil
}

func (r *RewardRepository) GetByID(ctx context.Context, id int64) (*model.Reward, error) {
	var entity RewardEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return toRewardModel(&entity), nil
}

func (r *RewardRepository) List(ctx context.Context) ([]*model.Reward, error) {
	var entities []*RewardEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("points_required ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toRewardModels(entities), nil
}

// Update applies the given column set. Returns the fresh row.
func (r *RewardRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Reward, error) {
	fields["updated_at"] = time.Now().UTC()

	result := r.Write(ctx).WithContext(ctx).
		Model(&RewardEntity{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRewardNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *RewardRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&RewardEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRewardNotFound
	}
	return nil
}

// DecrementStock takes one unit off a finite-stock reward. The stock guard
// lives in the WHERE clause so concurrent redemptions of the last unit can't
// both succeed; callers must not invoke it for unlimited (-1) stock.
func (r *RewardRepository) DecrementStock(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&RewardEntity{}).
		Where("id = ? AND stock_quantity > 0", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - 1"),
			"updated_at":     time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var entity RewardEntity
		err := r.Write(ctx).WithContext(ctx).
			Where("id = ?", id).
			First(&entity).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}
		return ErrOutOfStock
	}

	return nil
}
