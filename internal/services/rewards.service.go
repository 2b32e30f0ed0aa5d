package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/internal/repository"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/prom"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RewardRepository interface {
	Create(ctx context.Context, reward *model.Reward) (*model.Reward, error)
	GetByID(ctx context.Context, id int64) (*model.Reward, error)
	List(ctx context.Context) ([]*model.Reward, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Reward, error)
	Delete(ctx context.Context, id int64) error
	DecrementStock(ctx context.Context, id int64) error
}

type RedemptionRepository interface {
	Create(ctx context.Context, red *model.Redemption) (*model.Redemption, error)
	GetByID(ctx context.Context, id int64) (*model.Redemption, error)
	SetProcessed(ctx context.Context, id int64, from, to model.RedemptionStatus, notes, code string, processedBy int64, processedAt time.Time) error
	List(ctx context.Context, f model.RedemptionFilter) ([]*model.Redemption, int64, error)
}

// RewardsService owns the reward catalog and the redemption engine.
type RewardsService struct {
	rewardRepo     RewardRepository
	redemptionRepo RedemptionRepository
	walletRepo     WalletRepository
	userRepo       UserReader
}

func NewRewardsService(rewardRepo RewardRepository, redemptionRepo RedemptionRepository, walletRepo WalletRepository, userRepo UserReader) *RewardsService {
	return &RewardsService{
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		walletRepo:     walletRepo,
		userRepo:       userRepo,
	}
}

func (s *RewardsService) CreateReward(ctx context.Context, p model.CreateRewardRequest) (*model.Reward, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	reward := &model.Reward{
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		PointsRequired: p.PointsRequired,
		StockQuantity:  p.StockQuantity,
		ImageURL:       p.ImageURL,
		IsActive:       p.IsActive,
	}
	return s.rewardRepo.Create(ctx, reward)
}

func (s *RewardsService) GetReward(ctx context.Context, id int64) (*model.Reward, error) {
	reward, err := s.rewardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRewardNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return reward, nil
}

func (s *RewardsService) ListRewards(ctx context.Context) ([]*model.Reward, error) {
	return s.rewardRepo.List(ctx)
}

// UpdateReward applies the non-nil fields. Changing the price never rewrites
// points_used on past redemptions.
func (s *RewardsService) UpdateReward(ctx context.Context, id int64, p model.UpdateRewardRequest) (*model.Reward, error) {
	fields := map[string]interface{}{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Category != nil {
		fields["category"] = *p.Category
	}
	if p.PointsRequired != nil {
		if !p.PointsRequired.IsPositive() {
			return nil, errors.New("points_required must be positive")
		}
		fields["points_required"] = *p.PointsRequired
	}
	if p.StockQuantity != nil {
		if *p.StockQuantity < model.UnlimitedStock {
			return nil, errors.New("stock_quantity must be -1 (unlimited) or >= 0")
		}
		fields["stock_quantity"] = *p.StockQuantity
	}
	if p.ImageURL != nil {
		fields["image_url"] = *p.ImageURL
	}
	if p.IsActive != nil {
		fields["is_active"] = *p.IsActive
	}
	if len(fields) == 0 {
		return s.GetReward(ctx, id)
	}

	reward, err := s.rewardRepo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrRewardNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return reward, nil
}

func (s *RewardsService) DeleteReward(ctx context.Context, id int64) error {
	err := s.rewardRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrRewardNotFound) {
		return ErrRewardNotFound
	}
	return err
}

// RedeemReward exchanges points for a reward. The wallet debit, the stock
// decrement, and the pending redemption record commit or roll back together.
// PointsUsed snapshots the catalog price at redemption time.
func (s *RewardsService) RedeemReward(ctx context.Context, userID int64, p model.RedeemRequest) (*model.Redemption, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var created *model.Redemption
	err := s.walletRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		reward, err := s.rewardRepo.GetByID(ctx, p.RewardID)
		if err != nil {
			if errors.Is(err, repository.ErrRewardNotFound) {
				return ErrRewardNotFound
			}
			return fmt.Errorf("load reward: %w", err)
		}
		if !reward.Available() {
			return ErrRewardUnavailable
		}

		if err := s.debitWallet(ctx, userID, reward.PointsRequired); err != nil {
			return err
		}

		if reward.StockQuantity != model.UnlimitedStock {
			err := s.rewardRepo.DecrementStock(ctx, p.RewardID)
			if err != nil {
				if errors.Is(err, repository.ErrOutOfStock) {
					return ErrRewardUnavailable
				}
				return fmt.Errorf("decrement stock: %w", err)
			}
		}

		redemption := &model.Redemption{
			UserID:         userID,
			RewardID:       p.RewardID,
			PointsUsed:     reward.PointsRequired,
			Status:         model.RedemptionPending,
			RedemptionCode: uuid.NewString(),
			Notes:          p.Notes,
		}
		created, err = s.redemptionRepo.Create(ctx, redemption)
		if err != nil {
			return fmt.Errorf("create redemption: %w", err)
		}

		created.UserName = user.FullName()
		created.RewardName = reward.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncRedemptionCreated()
	return created, nil
}

// ProcessRedemption moves a redemption through its lifecycle. Only forward
// transitions are allowed; delivered and cancelled are terminal. Cancelling
// never refunds the wallet or restocks the reward.
func (s *RewardsService) ProcessRedemption(ctx context.Context, id, adminID int64, p model.ProcessRequest) (*model.Redemption, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := s.walletRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.redemptionRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrRedemptionNotFound) {
				return ErrRedemptionNotFound
			}
			return err
		}

		if !model.CanTransition(current.Status, p.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, p.Status)
		}

		err = s.redemptionRepo.SetProcessed(ctx, id, current.Status, p.Status, p.Notes, p.RedemptionCode, adminID, time.Now().UTC())
		if errors.Is(err, repository.ErrStaleRedemptionStatus) {
			return fmt.Errorf("%w: redemption status changed concurrently", ErrConflict)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	prom.IncRedemptionProcessed(string(p.Status))
	return s.redemptionRepo.GetByID(ctx, id)
}

func (s *RewardsService) GetRedemption(ctx context.Context, id int64) (*model.Redemption, error) {
	red, err := s.redemptionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRedemptionNotFound) {
			return nil, ErrRedemptionNotFound
		}
		return nil, err
	}
	return red, nil
}

// GetRedemptionHistory pages one user's redemptions, newest first.
func (s *RewardsService) GetRedemptionHistory(ctx context.Context, userID int64, page model.Page) (*model.RedemptionHistory, error) {
	page = page.Clamp(defaultHistoryPageSize)
	return s.listRedemptions(ctx, model.RedemptionFilter{UserID: &userID, Page: page})
}

// GetAllRedemptions pages the system-wide redemption log for administrators.
func (s *RewardsService) GetAllRedemptions(ctx context.Context, f model.RedemptionFilter) (*model.RedemptionHistory, error) {
	f.Page = f.Page.Clamp(defaultAdminPageSize)
	return s.listRedemptions(ctx, f)
}

func (s *RewardsService) listRedemptions(ctx context.Context, f model.RedemptionFilter) (*model.RedemptionHistory, error) {
	reds, total, err := s.redemptionRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.RedemptionHistory{
		Redemptions: reds,
		TotalCount:  total,
		PageNumber:  f.Page.Number,
		PageSize:    f.Page.Size,
		TotalPages:  model.TotalPages(total, f.Page.Size),
	}, nil
}

func (s *RewardsService) debitWallet(ctx context.Context, userID int64, amount decimal.Decimal) error {
	err := s.walletRepo.Debit(ctx, userID, amount)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrInsufficientBalance), errors.Is(err, repository.ErrWalletNotFound):
		return ErrInsufficientBalance
	case errors.Is(err, repository.ErrMaxRetriesExceeded):
		return ErrConflict
	default:
		return fmt.Errorf("debit wallet: %w", err)
	}
}
