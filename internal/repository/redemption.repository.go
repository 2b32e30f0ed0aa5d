package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrRedemptionNotFound    = errors.New("redemption not found")
	ErrStaleRedemptionStatus = errors.New("redemption status changed")
)

type RedemptionRepository struct {
	*pg.DB
}

func NewRedemptionRepository(db *pg.DB) *RedemptionRepository {
	return &RedemptionRepository{
		db,
	}
}

func (r *RedemptionRepository) Create(ctx context.Context, red *model.Redemption) (*model.Redemption, error) {
	entity := toRedemptionEntity(red)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toRedemptionModel(entity), nil
}

func (r *RedemptionRepository) GetByID(ctx context.Context, id int64) (*model.Redemption, error) {
	var row redemptionRow
	err := r.buildRedemptionQuery(ctx).
		Where("r.id = ?", id).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}

	m := toRedemptionModel(&row.RedemptionEntity)
	m.UserName = row.UserName
	m.RewardName = row.RewardName
	return m, nil
}

// SetProcessed records an administrative status transition. The UPDATE is
// guarded by the status the caller validated against, so a transition that
// committed in between matches zero rows instead of overwriting a terminal
// state. It never touches points_used, the wallet, or the reward stock.
func (r *RedemptionRepository) SetProcessed(ctx context.Context, id int64, from, to model.RedemptionStatus, notes, code string, processedBy int64, processedAt time.Time) error {
	fields := map[string]interface{}{
		"status":       string(to),
		"notes":        notes,
		"processed_by": processedBy,
		"processed_at": processedAt,
	}
	if code != "" {
		fields["redemption_code"] = code
	}

	result := r.Write(ctx).WithContext(ctx).
		Model(&RedemptionEntity{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Zero rows is either a missing redemption or a status that moved
		// underneath us. Look again to tell them apart.
		var count int64
		err := r.Write(ctx).WithContext(ctx).
			Model(&RedemptionEntity{}).
			Where("id = ?", id).
			Count(&count).
			Error
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrRedemptionNotFound
		}
		return ErrStaleRedemptionStatus
	}
	return nil
}

// List returns one page of redemptions newest first, with resolved user and
// reward display names, plus the unpaginated total.
func (r *RedemptionRepository) List(ctx context.Context, f model.RedemptionFilter) ([]*model.Redemption, int64, error) {
	q := r.buildRedemptionQuery(ctx)

	if f.UserID != nil {
		q = q.Where("r.user_id = ?", *f.UserID)
	}
	if f.RewardID != nil {
		q = q.Where("r.reward_id = ?", *f.RewardID)
	}
	if f.Status != nil {
		q = q.Where("r.status = ?", string(*f.Status))
	}
	if f.From != nil {
		q = q.Where("r.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("r.created_at < ?", *f.To)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*redemptionRow
	err := q.Order("r.created_at DESC, r.id DESC").
		Limit(f.Page.Size).
		Offset(f.Page.Offset()).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toRedemptionModels(rows), total, nil
}

func (r *RedemptionRepository) buildRedemptionQuery(ctx context.Context) *gorm.DB {
	return r.Read(ctx).WithContext(ctx).
		Table("redemptions AS r").
		Select(`
            r.*,
            COALESCE(u.first_name || ' ' || u.last_name, '') AS user_name,
            COALESCE(w.name, '')                             AS reward_name
        `).
		Joins("LEFT JOIN users AS u ON u.id = r.user_id").
		Joins("LEFT JOIN rewards AS w ON w.id = r.reward_id")
}
