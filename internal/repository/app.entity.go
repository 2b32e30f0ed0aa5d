package repository

import (
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/shopspring/decimal"
)

type AppEntity struct {
	ID               int64           `db:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	Name             string          `db:"name"              gorm:"column:name;not null;index"`
	APIKey           string          `db:"api_key"           gorm:"column:api_key;not null;unique"`
	PointsMultiplier decimal.Decimal `db:"points_multiplier" gorm:"column:points_multiplier;type:decimal(5,2);not null"`
	IsActive         bool            `db:"is_active"         gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time       `db:"created_at"        gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `db:"updated_at"        gorm:"column:updated_at;autoUpdateTime"`
}

func (AppEntity) TableName() string {
	return "apps"
}

func toAppEntity(m *model.App) *AppEntity {
	if m == nil {
		return nil
	}
	return &AppEntity{
		ID:               m.ID,
		Name:             m.Name,
		APIKey:           m.APIKey,
		PointsMultiplier: m.PointsMultiplier,
		IsActive:         m.IsActive,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toAppModel(e *AppEntity) *model.App {
	if e == nil {
		return nil
	}
	return &model.App{
		ID:               e.ID,
		Name:             e.Name,
		APIKey:           e.APIKey,
		PointsMultiplier: e.PointsMultiplier,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
