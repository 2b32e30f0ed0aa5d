package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is the per-user materialized balance over the point ledger.
// balance == total_earned - total_redeemed at all times; the three columns
// are only ever moved together inside one storage transaction.
type Wallet struct {
	ID            int64           `json:"id"             db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	UserID        int64           `json:"user_id"        db:"user_id"        gorm:"column:user_id;not null;uniqueIndex"`
	Balance       decimal.Decimal `json:"balance"        db:"balance"        gorm:"column:balance;type:decimal(10,2);not null"`
	TotalEarned   decimal.Decimal `json:"total_earned"   db:"total_earned"   gorm:"column:total_earned;type:decimal(10,2);not null"`
	TotalRedeemed decimal.Decimal `json:"total_redeemed" db:"total_redeemed" gorm:"column:total_redeemed;type:decimal(10,2);not null"`
	CreatedAt     time.Time       `json:"created_at"     db:"created_at"     gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at"     db:"updated_at"     gorm:"column:updated_at;autoUpdateTime"`
}

func (Wallet) TableName() string { return "wallets" }

// WalletSummary is the wallet plus the most recent ledger activity.
type WalletSummary struct {
	UserID             int64               `json:"user_id"`
	UserName           string              `json:"user_name"`
	Balance            decimal.Decimal     `json:"balance"`
	TotalEarned        decimal.Decimal     `json:"total_earned"`
	TotalRedeemed      decimal.Decimal     `json:"total_redeemed"`
	RecentTransactions []*PointTransaction `json:"recent_transactions"`
}
