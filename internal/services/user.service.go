package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayushi2311/loyalty-rewards-api/internal/model"
	"github.com/ayushi2311/loyalty-rewards-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*model.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page model.Page) ([]*model.User, int64, error)
}

// UserService owns accounts and credentials. Every new account gets an
// empty wallet in the same transaction.
type UserService struct {
	userRepo   UserRepository
	walletRepo WalletRepository
}

func NewUserService(userRepo UserRepository, walletRepo WalletRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		walletRepo: walletRepo,
	}
}

func (s *UserService) Register(ctx context.Context, p model.RegisterRequest) (*model.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if taken, err := s.userRepo.ExistsByEmail(ctx, p.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.userRepo.ExistsByUsername(ctx, p.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *model.User
	err = s.walletRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.userRepo.Create(ctx, &model.User{
			Username:     p.Username,
			Email:        p.Email,
			PasswordHash: string(hash),
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			Role:         model.RoleUser,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		if _, err := s.walletRepo.CreateForUser(ctx, created.ID); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Authenticate checks the credentials and returns the account. Inactive
// accounts fail the same way as bad credentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if len(next) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.userRepo.Update(ctx, userID, map[string]interface{}{
		"password_hash": string(hash),
	})
	return err
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, p model.UpdateUserRequest) (*model.User, error) {
	fields := map[string]interface{}{}
	if p.Username != nil {
		if taken, err := s.userRepo.ExistsByUsername(ctx, *p.Username); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameTaken
		}
		fields["username"] = *p.Username
	}
	if p.Email != nil {
		if taken, err := s.userRepo.ExistsByEmail(ctx, *p.Email); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailTaken
		}
		fields["email"] = *p.Email
	}
	if p.FirstName != nil {
		fields["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		fields["last_name"] = *p.LastName
	}
	if p.Role != nil {
		if *p.Role != model.RoleUser && *p.Role != model.RoleAdmin {
			return nil, errors.New("role must be user or admin")
		}
		fields["role"] = string(*p.Role)
	}
	if p.IsActive != nil {
		fields["is_active"] = *p.IsActive
	}
	if len(fields) == 0 {
		return s.GetByID(ctx, id)
	}

	user, err := s.userRepo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *UserService) List(ctx context.Context, page model.Page) ([]*model.User, int64, error) {
	return s.userRepo.List(ctx, page.Clamp(defaultAdminPageSize))
}
