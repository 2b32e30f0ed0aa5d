package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// UnlimitedStock marks a reward whose stock is never decremented.
const UnlimitedStock = -1

type Reward struct {
	ID             int64           `json:"id"              db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	Name           string          `json:"name"            db:"name"            gorm:"column:name;not null"`
	Description    string          `json:"description"     db:"description"     gorm:"column:description"`
	Category       string          `json:"category"        db:"category"        gorm:"column:category;index"`
	PointsRequired decimal.Decimal `json:"points_required" db:"points_required" gorm:"column:points_required;type:decimal(10,2);not null"`
	StockQuantity  int             `json:"stock_quantity"  db:"stock_quantity"  gorm:"column:stock_quantity;not null;default:-1"`
	ImageURL       string          `json:"image_url"       db:"image_url"       gorm:"column:image_url"`
	IsActive       bool            `json:"is_active"       db:"is_active"       gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `json:"created_at"      db:"created_at"      gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at"      db:"updated_at"      gorm:"column:updated_at;autoUpdateTime"`
}

func (Reward) TableName() string { return "rewards" }

func (r *Reward) InStock() bool {
	return r.StockQuantity == UnlimitedStock || r.StockQuantity > 0
}

func (r *Reward) Available() bool {
	return r.IsActive && r.InStock()
}

type CreateRewardRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	PointsRequired decimal.Decimal `json:"points_required"`
	StockQuantity  int             `json:"stock_quantity"`
	ImageURL       string          `json:"image_url"`
	IsActive       bool            `json:"is_active"`
}

func (r CreateRewardRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !r.PointsRequired.IsPositive() {
		return errors.New("points_required must be positive")
	}
	if r.StockQuantity < UnlimitedStock {
		return errors.New("stock_quantity must be -1 (unlimited) or >= 0")
	}
	return nil
}

// UpdateRewardRequest carries optional field updates; nil means keep current.
type UpdateRewardRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Category       *string          `json:"category"`
	PointsRequired *decimal.Decimal `json:"points_required"`
	StockQuantity  *int             `json:"stock_quantity"`
	ImageURL       *string          `json:"image_url"`
	IsActive       *bool            `json:"is_active"`
}
