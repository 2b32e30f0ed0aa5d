package repository

import (
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/shopspring/decimal"
)

type TransactionEntity struct {
	ID                    int64           `db:"id"                      gorm:"primaryKey;autoIncrement;column:id"`
	UserID                int64           `db:"user_id"                 gorm:"column:user_id;not null;index"`
	AppID                 *int64          `db:"app_id"                  gorm:"column:app_id;index"`
	Type                  string          `db:"type"                    gorm:"column:type;not null"`
	Points                decimal.Decimal `db:"points"                  gorm:"column:points;type:decimal(10,2);not null"`
	Description           string          `db:"description"             gorm:"column:description"`
	ReferenceID           string          `db:"reference_id"            gorm:"column:reference_id;index"`
	ExternalTransactionID string          `db:"external_transaction_id" gorm:"column:external_transaction_id"`
	Status                string          `db:"status"                  gorm:"column:status;not null"`
	CreatedAt             time.Time       `db:"created_at"              gorm:"column:created_at;autoCreateTime"`
}

func (TransactionEntity) TableName() string {
	return "point_transactions"
}

// transactionRow is the joined read shape: a ledger row plus display names.
type transactionRow struct {
	TransactionEntity
	UserName string `gorm:"column:user_name"`
	AppName  string `gorm:"column:app_name"`
}

func toTransactionEntity(m *model.PointTransaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:                    m.ID,
		UserID:                m.UserID,
		AppID:                 m.AppID,
		Type:                  string(m.Type),
		Points:                m.Points,
		Description:           m.Description,
		ReferenceID:           m.ReferenceID,
		ExternalTransactionID: m.ExternalTransactionID,
		Status:                string(m.Status),
		CreatedAt:             m.CreatedAt,
	}
}

func toTransactionModel(e *TransactionEntity) *model.PointTransaction {
	if e == nil {
		return nil
	}
	return &model.PointTransaction{
		ID:                    e.ID,
		UserID:                e.UserID,
		AppID:                 e.AppID,
		Type:                  model.TransactionType(e.Type),
		Points:                e.Points,
		Description:           e.Description,
		ReferenceID:           e.ReferenceID,
		ExternalTransactionID: e.ExternalTransactionID,
		Status:                model.TransactionStatus(e.Status),
		CreatedAt:             e.CreatedAt,
	}
}

func toTransactionModels(rows []*transactionRow) []*model.PointTransaction {
	if rows == nil {
		return nil
	}
	models := make([]*model.PointTransaction, len(rows))
	for i, row := range rows {
		m := toTransactionModel(&row.TransactionEntity)
		m.UserName = row.UserName
		m.AppName = row.AppName
		models[i] = m
	}
	return models
}
