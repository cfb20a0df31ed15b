package domain

import "errors"

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must be positive")

	ErrProviderFailure  = errors.New("rate provider reported failure")
	ErrUnexpectedStatus = errors.New("unexpected provider status")
	ErrRatesUnavailable = errors.New("rates unavailable")

	ErrSnapshotNotFound = errors.New("rate snapshot not found")
	ErrSessionNotFound  = errors.New("session not found")
)
