package services

import (
	"context"
	"testing"
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) Create(ctx context.Context, reward *model.Reward) (*model.Reward, error) {
	args := m.Called(ctx, reward)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reward), args.Error(1)
}

func (m *MockRewardRepository) GetByID(ctx context.Context, id int64) (*model.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reward), args.Error(1)
}

func (m *MockRewardRepository) List(ctx context.Context) ([]*model.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Reward), args.Error(1)
}

func (m *MockRewardRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.Reward, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reward), args.Error(1)
}

func (m *MockRewardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRewardRepository) DecrementStock(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) Create(ctx context.Context, red *model.Redemption) (*model.Redemption, error) {
	args := m.Called(ctx, red)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) GetByID(ctx context.Context, id int64) (*model.Redemption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) SetProcessed(ctx context.Context, id int64, from, to model.RedemptionStatus, notes, code string, processedBy int64, processedAt time.Time) error {
	args := m.Called(ctx, id, from, to, notes, code, processedBy, processedAt)
	return args.Error(0)
}

func (m *MockRedemptionRepository) List(ctx context.Context, f model.RedemptionFilter) ([]*model.Redemption, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Redemption), args.Get(1).(int64), args.Error(2)
}

func availableReward() *model.Reward {
	return &model.Reward{
		ID:             5,
		Name:           "Mug",
		PointsRequired: decimal.NewFromInt(40),
		StockQuantity:  3,
		IsActive:       true,
	}
}

func TestRewardsService_RedeemReward(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	redemptionRepo := new(MockRedemptionRepository)
	walletRepo := new(MockWalletRepository)
	userRepo := new(MockUserRepository)
	ctx := context.Background()

	service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

	walletRepo.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	userRepo.On("GetByID", mock.Anything, int64(1)).Return(testUser(1), nil)
	rewardRepo.On("GetByID", mock.Anything, int64(5)).Return(availableReward(), nil)
	walletRepo.On("Debit", mock.Anything, int64(1), decimal.NewFromInt(40)).Return(nil)
	rewardRepo.On("DecrementStock", mock.Anything, int64(5)).Return(nil)
	redemptionRepo.On("Create", mock.Anything, mock.MatchedBy(func(red *model.Redemption) bool {
		return red.Status == model.RedemptionPending &&
			red.PointsUsed.Equal(decimal.NewFromInt(40)) &&
			red.RedemptionCode != ""
	})).Return(&model.Redemption{ID: 9, UserID: 1, RewardID: 5, PointsUsed: decimal.NewFromInt(40), Status: model.RedemptionPending, RedemptionCode: "c"}, nil)

	red, err := service.RedeemReward(ctx, 1, model.RedeemRequest{RewardID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(9), red.ID)
	assert.Equal(t, "Mug", red.RewardName)

	rewardRepo.AssertExpectations(t)
	redemptionRepo.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
}

func TestRewardsService_RedeemReward_UnlimitedStockSkipsDecrement(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	redemptionRepo := new(MockRedemptionRepository)
	walletRepo := new(MockWalletRepository)
	userRepo := new(MockUserRepository)
	ctx := context.Background()

	service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

	reward := availableReward()
	reward.StockQuantity = model.UnlimitedStock

	walletRepo.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	userRepo.On("GetByID", mock.Anything, int64(1)).Return(testUser(1), nil)
	rewardRepo.On("GetByID", mock.Anything, int64(5)).Return(reward, nil)
	walletRepo.On("Debit", mock.Anything, int64(1), decimal.NewFromInt(40)).Return(nil)
	redemptionRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Redemption")).
		Return(&model.Redemption{ID: 9}, nil)

	_, err := service.RedeemReward(ctx, 1, model.RedeemRequest{RewardID: 5})
	require.NoError(t, err)

	rewardRepo.AssertNotCalled(t, "DecrementStock")
}

func TestRewardsService_RedeemReward_InsufficientBalance(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	redemptionRepo := new(MockRedemptionRepository)
	walletRepo := new(MockWalletRepository)
	userRepo := new(MockUserRepository)
	ctx := context.Background()

	service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

	walletRepo.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	userRepo.On("GetByID", mock.Anything, int64(1)).Return(testUser(1), nil)
	rewardRepo.On("GetByID", mock.Anything, int64(5)).Return(availableReward(), nil)
	walletRepo.On("Debit", mock.Anything, int64(1), decimal.NewFromInt(40)).Return(repository.ErrInsufficientBalance)

	red, err := service.RedeemReward(ctx, 1, model.RedeemRequest{RewardID: 5})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Nil(t, red)
	redemptionRepo.AssertNotCalled(t, "Create")
}

func TestRewardsService_RedeemReward_Unavailable(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	redemptionRepo := new(MockRedemptionRepository)
	walletRepo := new(MockWalletRepository)
	userRepo := new(MockUserRepository)
	ctx := context.Background()

	service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

	t.Run("inactive reward", func(t *testing.T) {
		reward := availableReward()
		reward.IsActive = false

		walletRepo.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		userRepo.On("GetByID", mock.Anything, int64(1)).Return(testUser(1), nil)
		rewardRepo.On("GetByID", mock.Anything, int64(5)).Return(reward, nil).Once()

		_, err := service.RedeemReward(ctx, 1, model.RedeemRequest{RewardID: 5})
		assert.ErrorIs(t, err, ErrRewardUnavailable)
	})

	t.Run("out of stock", func(t *testing.T) {
		reward := availableReward()
		reward.StockQuantity = 0

		rewardRepo.On("GetByID", mock.Anything, int64(5)).Return(reward, nil).Once()

		_, err := service.RedeemReward(ctx, 1, model.RedeemRequest{RewardID: 5})
		assert.ErrorIs(t, err, ErrRewardUnavailable)
	})

	walletRepo.AssertNotCalled(t, "Debit")
}

func TestRewardsService_ProcessRedemption_Transitions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		from    model.RedemptionStatus
		to      model.RedemptionStatus
		allowed bool
	}{
		{"pending to approved", model.RedemptionPending, model.RedemptionApproved, true},
		{"pending to delivered", model.RedemptionPending, model.RedemptionDelivered, true},
		{"pending to cancelled", model.RedemptionPending, model.RedemptionCancelled, true},
		{"approved to delivered", model.RedemptionApproved, model.RedemptionDelivered, true},
		{"delivered is terminal", model.RedemptionDelivered, model.RedemptionCancelled, false},
		{"cancelled is terminal", model.RedemptionCancelled, model.RedemptionApproved, false},
		{"no going back", model.RedemptionApproved, model.RedemptionPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rewardRepo := new(MockRewardRepository)
			redemptionRepo := new(MockRedemptionRepository)
			walletRepo := new(MockWalletRepository)
			userRepo := new(MockUserRepository)
			service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

			current := &model.Redemption{ID: 9, Status: tc.from, PointsUsed: decimal.NewFromInt(40)}
			walletRepo.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
			redemptionRepo.On("GetByID", mock.Anything, int64(9)).Return(current, nil)

			if tc.allowed {
				redemptionRepo.On("SetProcessed", mock.Anything, int64(9), tc.from, tc.to, "ok", "", int64(42), mock.AnythingOfType("time.Time")).Return(nil)
			}

			_, err := service.ProcessRedemption(ctx, 9, 42, model.ProcessRequest{Status: tc.to, Notes: "ok"})
			if tc.allowed {
				require.NoError(t, err)
				redemptionRepo.AssertExpectations(t)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				redemptionRepo.AssertNotCalled(t, "SetProcessed")
			}
		})
	}
}

func TestRewardsService_ProcessRedemption_NoRefundOnCancel(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	redemptionRepo := new(MockRedemptionRepository)
	walletRepo := new(MockWalletRepository)
	userRepo := new(MockUserRepository)
	ctx := context.Background()

	service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

	current := &model.Redemption{ID: 9, UserID: 1, Status: model.RedemptionPending, PointsUsed: decimal.NewFromInt(40)}
	walletRepo.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	redemptionRepo.On("GetByID", mock.Anything, int64(9)).Return(current, nil)
	redemptionRepo.On("SetProcessed", mock.Anything, int64(9), model.RedemptionPending, model.RedemptionCancelled, "", "", int64(42), mock.AnythingOfType("time.Time")).Return(nil)

	_, err := service.ProcessRedemption(ctx, 9, 42, model.ProcessRequest{Status: model.RedemptionCancelled})
	require.NoError(t, err)

	walletRepo.AssertNotCalled(t, "Credit")
	rewardRepo.AssertNotCalled(t, "Update")
}

func TestRewardsService_ProcessRedemption_ConcurrentStatusChange(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	redemptionRepo := new(MockRedemptionRepository)
	walletRepo := new(MockWalletRepository)
	userRepo := new(MockUserRepository)
	ctx := context.Background()

	service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

	// Validated against pending, but another admin got there first.
	current := &model.Redemption{ID: 9, Status: model.RedemptionPending, PointsUsed: decimal.NewFromInt(40)}
	walletRepo.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	redemptionRepo.On("GetByID", mock.Anything, int64(9)).Return(current, nil)
	redemptionRepo.On("SetProcessed", mock.Anything, int64(9), model.RedemptionPending, model.RedemptionApproved, "", "", int64(42), mock.AnythingOfType("time.Time")).
		Return(repository.ErrStaleRedemptionStatus)

	_, err := service.ProcessRedemption(ctx, 9, 42, model.ProcessRequest{Status: model.RedemptionApproved})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRewardsService_UpdateReward_PriceDoesNotTouchRedemptions(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	redemptionRepo := new(MockRedemptionRepository)
	walletRepo := new(MockWalletRepository)
	userRepo := new(MockUserRepository)
	ctx := context.Background()

	service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

	price := decimal.NewFromInt(80)
	rewardRepo.On("Update", ctx, int64(5), mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, ok := fields["points_required"]
		return ok && len(fields) == 1
	})).Return(&model.Reward{ID: 5, PointsRequired: price}, nil)

	updated, err := service.UpdateReward(ctx, 5, model.UpdateRewardRequest{PointsRequired: &price})
	require.NoError(t, err)
	assert.True(t, updated.PointsRequired.Equal(price))

	redemptionRepo.AssertNotCalled(t, "SetProcessed")
	rewardRepo.AssertExpectations(t)
}

func TestRewardsService_GetAllRedemptions_ClampsPage(t *testing.T) {
	rewardRepo := new(MockRewardRepository)
	redemptionRepo := new(MockRedemptionRepository)
	walletRepo := new(MockWalletRepository)
	userRepo := new(MockUserRepository)
	ctx := context.Background()

	service := NewRewardsService(rewardRepo, redemptionRepo, walletRepo, userRepo)

	redemptionRepo.On("List", ctx, mock.MatchedBy(func(f model.RedemptionFilter) bool {
		return f.Page.Number == 1 && f.Page.Size == defaultAdminPageSize
	})).Return([]*model.Redemption{}, int64(45), nil)

	history, err := service.GetAllRedemptions(ctx, model.RedemptionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, history.TotalPages)
	assert.Equal(t, defaultAdminPageSize, history.PageSize)
}
