package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrConcurrentUpdate    = errors.New("concurrent update detected")
	ErrMaxRetriesExceeded  = errors.New("max retries exceeded")
)

type WalletRepository struct {
	*pg.DB
}

func NewWalletRepository(db *pg.DB) *WalletRepository {
	return &WalletRepository{
		db,
	}
}

// CreateForUser opens a zero-balance wallet. One wallet per user, enforced
// by the unique index on user_id.
func (r *WalletRepository) CreateForUser(ctx context.Context, userID int64) (*model.Wallet, error) {
	entity := &WalletEntity{
		UserID:        userID,
		Balance:       decimal.Zero,
		TotalEarned:   decimal.Zero,
		TotalRedeemed: decimal.Zero,
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toWalletModel(entity), nil
}

func (r *WalletRepository) Get(ctx context.Context, userID int64) (*model.Wallet, error) {
	var entity WalletEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return toWalletModel(&entity), nil
}

// Credit moves balance and total_earned forward by amount in one UPDATE, so
// balance == total_earned - total_redeemed holds on every committed row.
// Retries transient failures with exponential backoff.
func (r *WalletRepository) Credit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	const maxRetries = 3
	const baseDelay = 2 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := r.creditAttempt(ctx, userID, amount)

		if err == nil {
			return nil
		}

		if errors.Is(err, ErrWalletNotFound) {
			return err
		}

		if attempt < maxRetries {
			delay := baseDelay * time.Duration(1<<attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}

	return fmt.Errorf("%w: failed after %d attempts", ErrMaxRetriesExceeded, maxRetries+1)
}

func (r *WalletRepository) creditAttempt(ctx context.Context, userID int64, amount decimal.Decimal) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&WalletEntity{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", amount),
			"total_earned": gorm.Expr("total_earned + ?", amount),
			"updated_at":   time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}

	return nil
}

// Debit atomically spends amount. The balance guard lives in the WHERE
// clause, so two concurrent debits can never both drain the same points:
// the loser matches zero rows.
func (r *WalletRepository) Debit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	const maxRetries = 3
	const baseDelay = 2 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := r.debitAttempt(ctx, userID, amount)

		if err == nil {
			return nil
		}

		// Don't retry on permanent errors
		if errors.Is(err, ErrWalletNotFound) ||
			errors.Is(err, ErrInsufficientBalance) {
			return err
		}

		if attempt < maxRetries {
			delay := baseDelay * time.Duration(1<<attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}

	return fmt.Errorf("%w: failed after %d attempts", ErrMaxRetriesExceeded, maxRetries+1)
}

func (r *WalletRepository) debitAttempt(ctx context.Context, userID int64, amount decimal.Decimal) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&WalletEntity{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":        gorm.Expr("balance - ?", amount),
			"total_redeemed": gorm.Expr("total_redeemed + ?", amount),
			"updated_at":     time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.checkDebitFailureReason(ctx, userID, amount)
	}

	return nil
}

// checkDebitFailureReason determines why the conditional debit matched no rows.
func (r *WalletRepository) checkDebitFailureReason(ctx context.Context, userID int64, amount decimal.Decimal) error {
	var entity WalletEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWalletNotFound
		}
		return err
	}

	if entity.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	// Balance was sufficient but update matched nothing - concurrent change
	return ErrConcurrentUpdate
}
