package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrUsernameRequired    = errors.New("username is required")
	ErrUsernameTooLong     = errors.New("username exceeds maximum length")
	ErrZeroAmount          = errors.New("amount must not be zero")
	ErrCategoryRequired    = errors.New("category is required")
	ErrCategoryTooLong     = errors.New("category exceeds maximum length")
	ErrNoteTooLong         = errors.New("note exceeds maximum length")
	ErrFutureDate          = errors.New("date must not be in the future")
	ErrInvalidWindow       = errors.New("invalid evaluation window")
	ErrInvalidLimit        = errors.New("budget limit must be positive")
	ErrInvalidPeriod       = errors.New("invalid budget period")
	ErrInvalidCSV          = errors.New("invalid csv")
)

// Validation constants
const (
	MaxUsernameLength = 50
	MaxCategoryLength = 100
	MaxNoteLength     = 500
)
