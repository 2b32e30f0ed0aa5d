package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/pg"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	*pg.DB
}

func NewUserRepository(db *pg.DB) *UserRepository {
	return &UserRepository{
		db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	entity := toUserEntity(user)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toUserModel(entity), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var entity UserEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserModel(&entity), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var entity UserEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("email = ?", email).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserModel(&entity), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&UserEntity{}).
		Where("email = ?", email).
		Count(&count).
		Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&UserEntity{}).
		Where("username = ?", username).
		Count(&count).
		Error
	return count > 0, err
}

// Update applies the given column set. Returns the fresh row.
func (r *UserRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.User, error) {
	fields["updated_at"] = time.Now().UTC()

	result := r.Write(ctx).WithContext(ctx).
		Model(&UserEntity{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&UserEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, page model.Page) ([]*model.User, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&UserEntity{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entities []*UserEntity
	err := q.Order("created_at DESC, id DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&entities).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toUserModels(entities), total, nil
}
