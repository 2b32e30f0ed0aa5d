package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a ledger entry. Stored point
// amounts are always positive; the type implies the sign.
type TransactionType string

const (
	TransactionEarned   TransactionType = "earned"
	TransactionRedeemed TransactionType = "redeemed"
	TransactionAdjusted TransactionType = "adjusted"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// PointTransaction is an append-only ledger entry. Rows are never updated or
// deleted once written.
type PointTransaction struct {
	ID                    int64             `json:"id"          db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	UserID                int64             `json:"user_id"     db:"user_id"     gorm:"column:user_id;not null;index"`
	AppID                 *int64            `json:"app_id"      db:"app_id"      gorm:"column:app_id;index"`
	Type                  TransactionType   `json:"type"        db:"type"        gorm:"column:type;not null"`
	Points                decimal.Decimal   `json:"points"      db:"points"      gorm:"column:points;type:decimal(10,2);not null"`
	Description           string            `json:"description" db:"description" gorm:"column:description"`
	ReferenceID           string            `json:"reference_id,omitempty" db:"reference_id" gorm:"column:reference_id;index"`
	ExternalTransactionID string            `json:"external_transaction_id,omitempty" db:"external_transaction_id" gorm:"column:external_transaction_id"`
	Status                TransactionStatus `json:"status"      db:"status"      gorm:"column:status;not null"`
	CreatedAt             time.Time         `json:"created_at"  db:"created_at"  gorm:"column:created_at;autoCreateTime"`

	// Resolved display names, populated on reads via joins.
	UserName string `json:"user_name,omitempty" gorm:"-"`
	AppName  string `json:"app_name,omitempty"  gorm:"-"`
}

func (PointTransaction) TableName() string { return "point_transactions" }

// AddPointsRequest is the input for a single earning grant.
type AddPointsRequest struct {
	UserID                int64           `json:"user_id"`
	Points                decimal.Decimal `json:"points"`
	Description           string          `json:"description"`
	ReferenceID           string          `json:"reference_id"`
	ExternalTransactionID string          `json:"external_transaction_id"`
	AppID                 *int64          `json:"app_id"`
}

func (r AddPointsRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user_id is required")
	}
	if !r.Points.IsPositive() {
		return errors.New("points must be positive")
	}
	return nil
}

// BulkEntry is one (user, points) pair of a bulk grant.
type BulkEntry struct {
	UserID int64           `json:"user_id"`
	Points decimal.Decimal `json:"points"`
}

// BulkPointsRequest grants points to many users in one atomic batch.
type BulkPointsRequest struct {
	AppID       *int64      `json:"app_id"`
	Description string      `json:"description"`
	ReferenceID string      `json:"reference_id"`
	Entries     []BulkEntry `json:"entries"`
}

func (r BulkPointsRequest) Validate() error {
	if len(r.Entries) == 0 {
		return errors.New("entries are required")
	}
	for _, e := range r.Entries {
		if e.UserID == 0 {
			return errors.New("every entry needs a user_id")
		}
		if !e.Points.IsPositive() {
			return errors.New("every entry needs positive points")
		}
	}
	return nil
}

// BulkEntryOutcome reports what happened to a single bulk entry. Entries for
// unknown users are skipped, not failed, so callers can tell "credited zero"
// apart from "not in the request".
type BulkEntryOutcome struct {
	UserID      int64             `json:"user_id"`
	Skipped     bool              `json:"skipped"`
	Transaction *PointTransaction `json:"transaction,omitempty"`
}

// TransactionFilter controls ledger history queries.
type TransactionFilter struct {
	UserID *int64
	AppID  *int64
	Type   *TransactionType
	Status *TransactionStatus
	From   *time.Time
	To     *time.Time
	Page   Page
}

// TransactionHistory is one page of ledger entries, newest first.
type TransactionHistory struct {
	Transactions []*PointTransaction `json:"transactions"`
	TotalCount   int64               `json:"total_count"`
	PageNumber   int                 `json:"page_number"`
	PageSize     int                 `json:"page_size"`
	TotalPages   int                 `json:"total_pages"`
}
