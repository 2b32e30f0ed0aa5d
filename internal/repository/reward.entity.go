package repository

import (
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/shopspring/decimal"
)

type RewardEntity struct {
	ID             int64           `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	Name           string          `db:"name"            gorm:"column:name;not null"`
	Description    string          `db:"description"     gorm:"column:description"`
	Category       string          `db:"category"        gorm:"column:category;index"`
	PointsRequired decimal.Decimal `db:"points_required" gorm:"column:points_required;type:decimal(10,2);not null"`
	StockQuantity  int             `db:"stock_quantity"  gorm:"column:stock_quantity;not null;default:-1"`
	ImageURL       string          `db:"image_url"       gorm:"column:image_url"`
	IsActive       bool            `db:"is_active"       gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `db:"created_at"      gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `db:"updated_at"      gorm:"column:updated_at;autoUpdateTime"`
}

func (RewardEntity) TableName() string {
	return "rewards"
}

func toRewardEntity(m *model.Reward) *RewardEntity {
	if m == nil {
		return nil
	}
	return &RewardEntity{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		Category:       m.Category,
		PointsRequired: m.PointsRequired,
		StockQuantity:  m.StockQuantity,
		ImageURL:       m.ImageURL,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toRewardModel(e *RewardEntity) *model.Reward {
	if e == nil {
		return nil
	}
	return &model.Reward{
		ID:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		Category:       e.Category,
		PointsRequired: e.PointsRequired,
		StockQuantity:  e.StockQuantity,
		ImageURL:       e.ImageURL,
		IsActive:       e.IsActive,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toRewardModels(entities []*RewardEntity) []*model.Reward {
	if entities == nil {
		return nil
	}
	models := make([]*model.Reward, len(entities))
	for i, e := range entities {
		models[i] = toRewardModel(e)
	}
	return models
}
