package services

import "errors"

// Classified service errors. Handlers map these onto transport responses:
// not-found, invalid-argument, conflict. Anything else is internal.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAppNotFound        = errors.New("app not found")
	ErrAppInactive        = errors.New("app is not active")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRedemptionNotFound = errors.New("redemption not found")

	ErrRewardUnavailable   = errors.New("reward is not available")
	ErrInsufficientBalance = errors.New("insufficient points balance")
	ErrInvalidTransition   = errors.New("redemption status transition not allowed")
	ErrDuplicateReference  = errors.New("reference id already processed")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrConflict = errors.New("concurrent update, retry the operation")
)
