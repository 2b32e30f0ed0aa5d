package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/internal/repository"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/prom"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryPageSize = 10
	defaultAdminPageSize   = 20
	recentTransactionCount = 10
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type AppReader interface {
	GetByID(ctx context.Context, id int64) (*model.App, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.PointTransaction) (*model.PointTransaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.PointTransaction, int64, error)
}

type WalletRepository interface {
	CreateForUser(ctx context.Context, userID int64) (*model.Wallet, error)
	Get(ctx context.Context, userID int64) (*model.Wallet, error)
	Credit(ctx context.Context, userID int64, amount decimal.Decimal) error
	Debit(ctx context.Context, userID int64, amount decimal.Decimal) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PointsService is the earning engine: it turns earning events into
// completed ledger entries and keeps wallets in step with them.
type PointsService struct {
	userRepo   UserReader
	appRepo    AppReader
	txnRepo    TransactionRepository
	walletRepo WalletRepository
	refGuard   *ReferenceGuard
}

func NewPointsService(userRepo UserReader, appRepo AppReader, txnRepo TransactionRepository, walletRepo WalletRepository, refGuard *ReferenceGuard) *PointsService {
	return &PointsService{
		userRepo:   userRepo,
		appRepo:    appRepo,
		txnRepo:    txnRepo,
		walletRepo: walletRepo,
		refGuard:   refGuard,
	}
}

// AddPoints credits a single user. The ledger insert and the wallet credit
// commit or roll back together.
func (s *PointsService) AddPoints(ctx context.Context, p model.AddPointsRequest) (*model.PointTransaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if s.refGuard != nil && p.ReferenceID != "" {
		acquired, err := s.refGuard.Acquire(ctx, p.ReferenceID)
		if err == nil && !acquired {
			return nil, ErrDuplicateReference
		}
		// Guard errors are advisory: the ledger stays correct without it.
	}

	var created *model.PointTransaction
	err := s.walletRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		app, err := s.resolveApp(ctx, p.AppID)
		if err != nil {
			return err
		}

		points := applyMultiplier(p.Points, app)

		txn := &model.PointTransaction{
			UserID:                p.UserID,
			AppID:                 p.AppID,
			Type:                  model.TransactionEarned,
			Points:                points,
			Description:           p.Description,
			ReferenceID:           p.ReferenceID,
			ExternalTransactionID: p.ExternalTransactionID,
			Status:                model.TransactionCompleted,
		}
		created, err = s.txnRepo.Create(ctx, txn)
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		if err := s.creditWallet(ctx, p.UserID, points); err != nil {
			return err
		}

		created.UserName = user.FullName()
		if app != nil {
			created.AppName = app.Name
		}
		return nil
	})
	if err != nil {
		if s.refGuard != nil && p.ReferenceID != "" {
			s.refGuard.Release(ctx, p.ReferenceID)
		}
		return nil, err
	}

	prom.AddPointsCredited(created.Points.InexactFloat64())
	return created, nil
}

// AddBulkPoints credits many users in one atomic batch. Entries whose user
// id does not resolve are skipped, not failed: the rest of the batch still
// commits. An unknown or inactive app fails the whole batch.
func (s *PointsService) AddBulkPoints(ctx context.Context, p model.BulkPointsRequest) ([]model.BulkEntryOutcome, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	outcomes := make([]model.BulkEntryOutcome, 0, len(p.Entries))
	err := s.walletRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		app, err := s.resolveApp(ctx, p.AppID)
		if err != nil {
			return err
		}

		for _, entry := range p.Entries {
			user, err := s.userRepo.GetByID(ctx, entry.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					outcomes = append(outcomes, model.BulkEntryOutcome{UserID: entry.UserID, Skipped: true})
					continue
				}
				return fmt.Errorf("load user: %w", err)
			}

			points := applyMultiplier(entry.Points, app)

			txn := &model.PointTransaction{
				UserID:      entry.UserID,
				AppID:       p.AppID,
				Type:        model.TransactionEarned,
				Points:      points,
				Description: p.Description,
				ReferenceID: p.ReferenceID,
				Status:      model.TransactionCompleted,
			}
			created, err := s.txnRepo.Create(ctx, txn)
			if err != nil {
				return fmt.Errorf("create transaction: %w", err)
			}

			if err := s.creditWallet(ctx, entry.UserID, points); err != nil {
				return err
			}

			created.UserName = user.FullName()
			if app != nil {
				created.AppName = app.Name
			}
			outcomes = append(outcomes, model.BulkEntryOutcome{UserID: entry.UserID, Transaction: created})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, o := range outcomes {
		if o.Transaction != nil {
			prom.AddPointsCredited(o.Transaction.Points.InexactFloat64())
		}
	}
	return outcomes, nil
}

// GetWallet returns the wallet summary plus the most recent ledger entries.
func (s *PointsService) GetWallet(ctx context.Context, userID int64) (*model.WalletSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	wallet, err := s.walletRepo.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrWalletNotFound) {
		return nil, err
	}

	recent, _, err := s.txnRepo.List(ctx, model.TransactionFilter{
		UserID: &userID,
		Page:   model.Page{Number: 1, Size: recentTransactionCount},
	})
	if err != nil {
		return nil, err
	}

	summary := &model.WalletSummary{
		UserID:             userID,
		UserName:           user.FullName(),
		Balance:            decimal.Zero,
		TotalEarned:        decimal.Zero,
		TotalRedeemed:      decimal.Zero,
		RecentTransactions: recent,
	}
	if wallet != nil {
		summary.Balance = wallet.Balance
		summary.TotalEarned = wallet.TotalEarned
		summary.TotalRedeemed = wallet.TotalRedeemed
	}
	return summary, nil
}

// GetTransactionHistory pages one user's ledger, newest first.
func (s *PointsService) GetTransactionHistory(ctx context.Context, userID int64, page model.Page) (*model.TransactionHistory, error) {
	page = page.Clamp(defaultHistoryPageSize)
	txns, total, err := s.txnRepo.List(ctx, model.TransactionFilter{UserID: &userID, Page: page})
	if err != nil {
		return nil, err
	}
	return &model.TransactionHistory{
		Transactions: txns,
		TotalCount:   total,
		PageNumber:   page.Number,
		PageSize:     page.Size,
		TotalPages:   model.TotalPages(total, page.Size),
	}, nil
}

// GetAllTransactions pages the system-wide ledger for administrators.
func (s *PointsService) GetAllTransactions(ctx context.Context, f model.TransactionFilter) (*model.TransactionHistory, error) {
	f.Page = f.Page.Clamp(defaultAdminPageSize)
	txns, total, err := s.txnRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.TransactionHistory{
		Transactions: txns,
		TotalCount:   total,
		PageNumber:   f.Page.Number,
		PageSize:     f.Page.Size,
		TotalPages:   model.TotalPages(total, f.Page.Size),
	}, nil
}

func (s *PointsService) resolveApp(ctx context.Context, appID *int64) (*model.App, error) {
	if appID == nil {
		return nil, nil
	}
	app, err := s.appRepo.GetByID(ctx, *appID)
	if err != nil {
		if errors.Is(err, repository.ErrAppNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("load app: %w", err)
	}
	if !app.IsActive {
		return nil, ErrAppInactive
	}
	return app, nil
}

// creditWallet moves the wallet forward, opening it first if the user was
// created before wallets existed.
func (s *PointsService) creditWallet(ctx context.Context, userID int64, amount decimal.Decimal) error {
	err := s.walletRepo.Credit(ctx, userID, amount)
	if errors.Is(err, repository.ErrWalletNotFound) {
		if _, err := s.walletRepo.CreateForUser(ctx, userID); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		err = s.walletRepo.Credit(ctx, userID, amount)
	}
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	return nil
}

// applyMultiplier scales points by the app's multiplier, rounded to the
// ledger's 2-decimal precision. A nil app leaves points untouched.
func applyMultiplier(points decimal.Decimal, app *model.App) decimal.Decimal {
	if app == nil {
		return points.Round(2)
	}
	return points.Mul(app.PointsMultiplier).Round(2)
}
