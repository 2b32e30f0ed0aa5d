package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewWalletRepository(db)
	ctx := context.Background()

	created, err := repo.CreateForUser(ctx, 1)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Balance.IsZero())
	assert.True(t, created.TotalEarned.IsZero())
	assert.True(t, created.TotalRedeemed.IsZero())

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestWalletRepository_Credit(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewWalletRepository(db)
	ctx := context.Background()

	_, err := repo.CreateForUser(ctx, 1)
	require.NoError(t, err)

	t.Run("credit moves balance and total_earned", func(t *testing.T) {
		err := repo.Credit(ctx, 1, decimal.NewFromFloat(150.50))
		require.NoError(t, err)

		wallet, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.True(t, wallet.Balance.Equal(decimal.NewFromFloat(150.50)))
		assert.True(t, wallet.TotalEarned.Equal(decimal.NewFromFloat(150.50)))
		assert.True(t, wallet.TotalRedeemed.IsZero())
	})

	t.Run("credit unknown wallet", func(t *testing.T) {
		err := repo.Credit(ctx, 999, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestWalletRepository_Debit(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewWalletRepository(db)
	ctx := context.Background()

	_, err := repo.CreateForUser(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Credit(ctx, 1, decimal.NewFromInt(100)))

	t.Run("debit spends balance", func(t *testing.T) {
		err := repo.Debit(ctx, 1, decimal.NewFromInt(30))
		require.NoError(t, err)

		wallet, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(70)))
		assert.True(t, wallet.TotalRedeemed.Equal(decimal.NewFromInt(30)))
		// Invariant: balance == total_earned - total_redeemed
		assert.True(t, wallet.Balance.Equal(wallet.TotalEarned.Sub(wallet.TotalRedeemed)))
	})

	t.Run("insufficient balance", func(t *testing.T) {
		err := repo.Debit(ctx, 1, decimal.NewFromInt(1000))
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		wallet, err := repo.Get(ctx, 1)
		require.NoError(t, err)
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(70)))
	})

	t.Run("debit unknown wallet", func(t *testing.T) {
		err := repo.Debit(ctx, 999, decimal.NewFromInt(5))
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestWalletRepository_ConcurrentDebits(t *testing.T) {
	db := setupPostgresTestDB(t).DB
	repo := NewWalletRepository(db)
	ctx := context.Background()

	_, err := repo.CreateForUser(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Credit(ctx, 1, decimal.NewFromInt(100)))

	// 10 goroutines each try to spend 30; at most 3 can win.
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Debit(ctx, 1, decimal.NewFromInt(30)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, succeeded, 3)

	wallet, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, wallet.Balance.IsNegative())
	assert.True(t, wallet.Balance.Equal(wallet.TotalEarned.Sub(wallet.TotalRedeemed)))
}
