package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// App is a partner integration that reports earning events. Its multiplier
// scales every grant it submits before the wallet is credited.
type App struct {
	ID               int64           `json:"id"                db:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	Name             string          `json:"name"              db:"name"              gorm:"column:name;not null;index"`
	APIKey           string          `json:"-"                 db:"api_key"           gorm:"column:api_key;not null;unique"`
	PointsMultiplier decimal.Decimal `json:"points_multiplier" db:"points_multiplier" gorm:"column:points_multiplier;type:decimal(5,2);not null"`
	IsActive         bool            `json:"is_active"         db:"is_active"         gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time       `json:"created_at"        db:"created_at"        gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `json:"updated_at"        db:"updated_at"        gorm:"column:updated_at;autoUpdateTime"`
}

func (App) TableName() string { return "apps" }
