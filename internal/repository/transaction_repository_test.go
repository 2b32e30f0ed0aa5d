package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("create earned transaction", func(t *testing.T) {
		txn := &model.PointTransaction{
			UserID:      1,
			Type:        model.TransactionEarned,
			Points:      decimal.NewFromFloat(25.50),
			Description: "purchase",
			ReferenceID: "order-100",
			Status:      model.TransactionCompleted,
		}

		created, err := repo.Create(ctx, txn)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, txn.UserID, created.UserID)
		assert.True(t, created.Points.Equal(decimal.NewFromFloat(25.50)))
		assert.Equal(t, model.TransactionCompleted, created.Status)
		assert.Nil(t, created.AppID)
	})

	t.Run("create with app id", func(t *testing.T) {
		txn := &model.PointTransaction{
			UserID: 2,
			AppID:  ptr(int64(7)),
			Type:   model.TransactionEarned,
			Points: decimal.NewFromInt(10),
			Status: model.TransactionCompleted,
		}

		created, err := repo.Create(ctx, txn)
		require.NoError(t, err)
		assert.Equal(t, int64(7), *created.AppID)
	})
}

func TestTransactionRepository_List(t *testing.T) {
	tdb := setupTestDB(t)
	repo := NewTransactionRepository(tdb.DB)
	ctx := context.Background()

	user := &UserEntity{Username: "jdoe", Email: "jdoe@example.com", PasswordHash: "x", FirstName: "Jane", LastName: "Doe", Role: "user", IsActive: true}
	require.NoError(t, tdb.rawDB.Create(user).Error)
	app := &AppEntity{Name: "shop", APIKey: "key-1", PointsMultiplier: decimal.NewFromInt(2), IsActive: true}
	require.NoError(t, tdb.rawDB.Create(app).Error)

	for i := 0; i < 25; i++ {
		txn := &model.PointTransaction{
			UserID:      user.ID,
			AppID:       &app.ID,
			Type:        model.TransactionEarned,
			Points:      decimal.NewFromInt(int64(i + 1)),
			Description: fmt.Sprintf("grant %d", i+1),
			Status:      model.TransactionCompleted,
		}
		_, err := repo.Create(ctx, txn)
		require.NoError(t, err)
	}
	other := &model.PointTransaction{
		UserID: user.ID + 100,
		Type:   model.TransactionEarned,
		Points: decimal.NewFromInt(5),
		Status: model.TransactionCompleted,
	}
	_, err := repo.Create(ctx, other)
	require.NoError(t, err)

	t.Run("second page of a filtered list", func(t *testing.T) {
		txns, total, err := repo.List(ctx, model.TransactionFilter{
			UserID: &user.ID,
			Page:   model.Page{Number: 2, Size: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		require.Len(t, txns, 10)
		// Newest first: page 2 holds grants 15 down to 6.
		assert.True(t, txns[0].Points.Equal(decimal.NewFromInt(15)))
		assert.True(t, txns[9].Points.Equal(decimal.NewFromInt(6)))
	})

	t.Run("last page is short", func(t *testing.T) {
		txns, total, err := repo.List(ctx, model.TransactionFilter{
			UserID: &user.ID,
			Page:   model.Page{Number: 3, Size: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		assert.Len(t, txns, 5)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		txns, total, err := repo.List(ctx, model.TransactionFilter{
			UserID: &user.ID,
			Page:   model.Page{Number: 9, Size: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		assert.Empty(t, txns)
	})

	t.Run("resolves display names via joins", func(t *testing.T) {
		txns, _, err := repo.List(ctx, model.TransactionFilter{
			UserID: &user.ID,
			Page:   model.Page{Number: 1, Size: 1},
		})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, "Jane Doe", txns[0].UserName)
		assert.Equal(t, "shop", txns[0].AppName)
	})

	t.Run("missing join targets come back empty, not an error", func(t *testing.T) {
		userID := user.ID + 100
		txns, _, err := repo.List(ctx, model.TransactionFilter{
			UserID: &userID,
			Page:   model.Page{Number: 1, Size: 10},
		})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Empty(t, txns[0].UserName)
		assert.Empty(t, txns[0].AppName)
	})

	t.Run("filter by app", func(t *testing.T) {
		_, total, err := repo.List(ctx, model.TransactionFilter{
			AppID: &app.ID,
			Page:  model.Page{Number: 1, Size: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
	})
}

func ptr(i int64) *int64 {
	return &i
}
