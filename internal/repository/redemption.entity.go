package repository

import (
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/shopspring/decimal"
)

type RedemptionEntity struct {
	ID             int64           `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	UserID         int64           `db:"user_id"         gorm:"column:user_id;not null;index"`
	RewardID       int64           `db:"reward_id"       gorm:"column:reward_id;not null;index"`
	PointsUsed     decimal.Decimal `db:"points_used"     gorm:"column:points_used;type:decimal(10,2);not null"`
	Status         string          `db:"status"          gorm:"column:status;not null;index"`
	RedemptionCode string          `db:"redemption_code" gorm:"column:redemption_code;not null;uniqueIndex"`
	Notes          string          `db:"notes"           gorm:"column:notes"`
	ProcessedBy    *int64          `db:"processed_by"    gorm:"column:processed_by"`
	ProcessedAt    *time.Time      `db:"processed_at"    gorm:"column:processed_at"`
	CreatedAt      time.Time       `db:"created_at"      gorm:"column:created_at;autoCreateTime"`
}

func (RedemptionEntity) TableName() string {
	return "redemptions"
}

// redemptionRow is the joined read shape: a redemption plus display names.
type redemptionRow struct {
	RedemptionEntity
	UserName   string `gorm:"column:user_name"`
	RewardName string `gorm:"column:reward_name"`
}

func toRedemptionEntity(m *model.Redemption) *RedemptionEntity {
	if m == nil {
		return nil
	}
	return &RedemptionEntity{
		ID:             m.ID,
		UserID:         m.UserID,
		RewardID:       m.RewardID,
		PointsUsed:     m.PointsUsed,
		Status:         string(m.Status),
		RedemptionCode: m.RedemptionCode,
		Notes:          m.Notes,
		ProcessedBy:    m.ProcessedBy,
		ProcessedAt:    m.ProcessedAt,
		CreatedAt:      m.CreatedAt,
	}
}

func toRedemptionModel(e *RedemptionEntity) *model.Redemption {
	if e == nil {
		return nil
	}
	return &model.Redemption{
		ID:             e.ID,
		UserID:         e.UserID,
		RewardID:       e.RewardID,
		PointsUsed:     e.PointsUsed,
		Status:         model.RedemptionStatus(e.Status),
		RedemptionCode: e.RedemptionCode,
		Notes:          e.Notes,
		ProcessedBy:    e.ProcessedBy,
		ProcessedAt:    e.ProcessedAt,
		CreatedAt:      e.CreatedAt,
	}
}

func toRedemptionModels(rows []*redemptionRow) []*model.Redemption {
	if rows == nil {
		return nil
	}
	models := make([]*model.Redemption, len(rows))
	for i, row := range rows {
		m := toRedemptionModel(&row.RedemptionEntity)
		m.UserName = row.UserName
		m.RewardName = row.RewardName
		models[i] = m
	}
	return models
}
