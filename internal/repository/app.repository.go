package repository

import (
	"context"
	"errors"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
	"gorm.io/gorm"
)

var ErrAppNotFound = errors.New("app not found")

// AppRepository stores partner integrations and their point multipliers.
type AppRepository struct {
	*pg.DB
}

func NewAppRepository(db *pg.DB) *AppRepository {
	return &AppRepository{
		db,
	}
}

func (r *AppRepository) Create(ctx context.Context, app *model.App) (*model.App, error) {
	entity := toAppEntity(app)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toAppModel(entity), nil
}

func (r *AppRepository) GetByID(ctx context.Context, id int64) (*model.App, error) {
	var entity AppEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, err
	}
	return toAppModel(&entity), nil
}

func (r *AppRepository) GetByAPIKey(ctx context.Context, apiKey string) (*model.App, error) {
	var entity AppEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("api_key = ?", apiKey).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, err
	}
	return toAppModel(&entity), nil
}
