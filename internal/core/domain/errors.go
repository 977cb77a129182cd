package domain

import "errors"

var (
	ErrPoolNotFound       = errors.New("pool not found")
	ErrEmptyPool          = errors.New("pool has no members")
	ErrStorageUnavailable = errors.New("ledger storage unavailable")
	ErrCorruptLedger      = errors.New("stored ledger is corrupt")
	ErrInvalidIdentity    = errors.New("identity requires a user id")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidBonusRate   = errors.New("founder bonus rate must be within 0 and 10000 bps")
	ErrUnauthorized       = errors.New("unauthorized")
)
