package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionApproved  RedemptionStatus = "approved"
	RedemptionDelivered RedemptionStatus = "delivered"
	RedemptionCancelled RedemptionStatus = "cancelled"
)

// redemptionTransitions is the allowed-transition table. Delivered and
// Cancelled are terminal. Cancelling does not refund the wallet or restock
// the reward.
var redemptionTransitions = map[RedemptionStatus][]RedemptionStatus{
	RedemptionPending:  {RedemptionApproved, RedemptionDelivered, RedemptionCancelled},
	RedemptionApproved: {RedemptionDelivered, RedemptionCancelled},
}

// CanTransition reports whether a redemption may move from -> to.
func CanTransition(from, to RedemptionStatus) bool {
	for _, s := range redemptionTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s RedemptionStatus) Valid() bool {
	switch s {
	case RedemptionPending, RedemptionApproved, RedemptionDelivered, RedemptionCancelled:
		return true
	}
	return false
}

// Redemption records a user exchanging points for a reward. PointsUsed is a
// snapshot of the reward price at redemption time and never changes when the
// catalog price does.
type Redemption struct {
	ID             int64            `json:"id"              db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	UserID         int64            `json:"user_id"         db:"user_id"         gorm:"column:user_id;not null;index"`
	RewardID       int64            `json:"reward_id"       db:"reward_id"       gorm:"column:reward_id;not null;index"`
	PointsUsed     decimal.Decimal  `json:"points_used"     db:"points_used"     gorm:"column:points_used;type:decimal(10,2);not null"`
	Status         RedemptionStatus `json:"status"          db:"status"          gorm:"column:status;not null"`
	RedemptionCode string           `json:"redemption_code" db:"redemption_code" gorm:"column:redemption_code;not null;uniqueIndex"`
	Notes          string           `json:"notes"           db:"notes"           gorm:"column:notes"`
	ProcessedBy    *int64           `json:"processed_by"    db:"processed_by"    gorm:"column:processed_by"`
	ProcessedAt    *time.Time       `json:"processed_at"    db:"processed_at"    gorm:"column:processed_at"`
	CreatedAt      time.Time        `json:"created_at"      db:"created_at"      gorm:"column:created_at;autoCreateTime"`

	// Resolved display names, populated on reads via joins.
	UserName   string `json:"user_name,omitempty"   gorm:"-"`
	RewardName string `json:"reward_name,omitempty" gorm:"-"`
}

func (Redemption) TableName() string { return "redemptions" }

type RedeemRequest struct {
	RewardID int64  `json:"reward_id"`
	Notes    string `json:"notes"`
}

func (r RedeemRequest) Validate() error {
	if r.RewardID == 0 {
		return errors.New("reward_id is required")
	}
	return nil
}

// ProcessRequest is the administrative status update for a redemption.
type ProcessRequest struct {
	Status         RedemptionStatus `json:"status"`
	Notes          string           `json:"notes"`
	RedemptionCode string           `json:"redemption_code"`
}

func (r ProcessRequest) Validate() error {
	if !r.Status.Valid() {
		return errors.New("status must be one of pending, approved, delivered, cancelled")
	}
	return nil
}

// RedemptionFilter controls redemption history queries.
type RedemptionFilter struct {
	UserID   *int64
	RewardID *int64
	Status   *RedemptionStatus
	From     *time.Time
	To       *time.Time
	Page     Page
}

// RedemptionHistory is one page of redemptions, newest first.
type RedemptionHistory struct {
	Redemptions []*Redemption `json:"redemptions"`
	TotalCount  int64         `json:"total_count"`
	PageNumber  int           `json:"page_number"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
}
