package repository

import (
	"context"
	"testing"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardRepository_CRUD(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewRewardRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Reward{
		Name:           "Coffee Voucher",
		Category:       "food",
		PointsRequired: decimal.NewFromInt(50),
		StockQuantity:  10,
		IsActive:       true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Coffee Voucher", got.Name)
		assert.True(t, got.PointsRequired.Equal(decimal.NewFromInt(50)))

		_, err = repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrRewardNotFound)
	})

	t.Run("list ordered by price", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.Reward{
			Name:           "Gift Card",
			PointsRequired: decimal.NewFromInt(10),
			StockQuantity:  model.UnlimitedStock,
			IsActive:       true,
		})
		require.NoError(t, err)

		rewards, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, rewards, 2)
		assert.Equal(t, "Gift Card", rewards[0].Name)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := repo.Update(ctx, created.ID, map[string]interface{}{
			"points_required": decimal.NewFromInt(75),
			"is_active":       false,
		})
		require.NoError(t, err)
		assert.True(t, updated.PointsRequired.Equal(decimal.NewFromInt(75)))
		assert.False(t, updated.IsActive)

		_, err = repo.Update(ctx, 999, map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, ErrRewardNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrRewardNotFound)
	})
}

func TestRewardRepository_DecrementStock(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewRewardRepository(db)
	ctx := context.Background()

	reward, err := repo.Create(ctx, &model.Reward{
		Name:           "Mug",
		PointsRequired: decimal.NewFromInt(20),
		StockQuantity:  2,
		IsActive:       true,
	})
	require.NoError(t, err)

	t.Run("decrements down to zero", func(t *testing.T) {
		require.NoError(t, repo.DecrementStock(ctx, reward.ID))
		require.NoError(t, repo.DecrementStock(ctx, reward.ID))

		got, err := repo.GetByID(ctx, reward.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.StockQuantity)
	})

	t.Run("empty stock is classified", func(t *testing.T) {
		err := repo.DecrementStock(ctx, reward.ID)
		assert.ErrorIs(t, err, ErrOutOfStock)
	})

	t.Run("unknown reward is classified", func(t *testing.T) {
		err := repo.DecrementStock(ctx, 999)
		assert.ErrorIs(t, err, ErrRewardNotFound)
	})
}
