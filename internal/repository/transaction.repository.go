package repository

import (
	"context"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
	"gorm.io/gorm"
)

// TransactionRepository persists the append-only point ledger. There is no
// update or delete path: a written row is immutable.
type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.PointTransaction) (*model.PointTransaction, error) {
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}

// List returns one page of ledger entries newest first, with resolved user
// and app display names, plus the unpaginated total.
func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.PointTransaction, int64, error) {
	q := r.buildTransactionQuery(ctx)

	if f.UserID != nil {
		q = q.Where("t.user_id = ?", *f.UserID)
	}
	if f.AppID != nil {
		q = q.Where("t.app_id = ?", *f.AppID)
	}
	if f.Type != nil {
		q = q.Where("t.type = ?", string(*f.Type))
	}
	if f.Status != nil {
		q = q.Where("t.status = ?", string(*f.Status))
	}
	if f.From != nil {
		q = q.Where("t.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("t.created_at < ?", *f.To)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*transactionRow
	err := q.Order("t.created_at DESC, t.id DESC").
		Limit(f.Page.Size).
		Offset(f.Page.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toTransactionModels(rows), total, nil
}

func (r *TransactionRepository) buildTransactionQuery(ctx context.Context) *gorm.DB {
	return r.Read(ctx).WithContext(ctx).
		Table("point_transactions AS t").
		Select(`
            t.*,
            COALESCE(u.first_name || ' ' || u.last_name, '') AS user_name,
            COALESCE(a.name, '')                             AS app_name
        `).
		Joins("LEFT JOIN users AS u ON u.id = t.user_id").
		Joins("LEFT JOIN apps AS a ON a.id = t.app_id")
}
