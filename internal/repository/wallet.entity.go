package repository

import (
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/shopspring/decimal"
)

type WalletEntity struct {
	ID            int64           `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	UserID        int64           `db:"user_id"        gorm:"column:user_id;not null;uniqueIndex"`
	Balance       decimal.Decimal `db:"balance"        gorm:"column:balance;type:decimal(10,2);not null"`
	TotalEarned   decimal.Decimal `db:"total_earned"   gorm:"column:total_earned;type:decimal(10,2);not null"`
	TotalRedeemed decimal.Decimal `db:"total_redeemed" gorm:"column:total_redeemed;type:decimal(10,2);not null"`
	CreatedAt     time.Time       `db:"created_at"     gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `db:"updated_at"     gorm:"column:updated_at;autoUpdateTime"`
}

func (WalletEntity) TableName() string {
	return "wallets"
}

func toWalletEntity(m *model.Wallet) *WalletEntity {
	if m == nil {
		return nil
	}
	return &WalletEntity{
		ID:            m.ID,
		UserID:        m.UserID,
		Balance:       m.Balance,
		TotalEarned:   m.TotalEarned,
		TotalRedeemed: m.TotalRedeemed,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toWalletModel(e *WalletEntity) *model.Wallet {
	if e == nil {
		return nil
	}
	return &model.Wallet{
		ID:            e.ID,
		UserID:        e.UserID,
		Balance:       e.Balance,
		TotalEarned:   e.TotalEarned,
		TotalRedeemed: e.TotalRedeemed,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
