package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrUnauthorized               = errors.Register(ModuleName, 1, "unauthorized")
	ErrPoolPaused                 = errors.Register(ModuleName, 2, "pool is paused")
	ErrInvalidAmount              = errors.Register(ModuleName, 3, "invalid amount")
	ErrInvalidAsset               = errors.Register(ModuleName, 4, "asset not accepted by the pool")
	ErrInsufficientBalance        = errors.Register(ModuleName, 5, "insufficient LP balance")
	ErrInsufficientVaultLiquidity = errors.Register(ModuleName, 6, "insufficient vault liquidity")
	ErrInsufficientRewardVault    = errors.Register(ModuleName, 7, "insufficient reward vault balance")
	ErrOverflow                   = errors.Register(ModuleName, 8, "arithmetic overflow")
	ErrPriceUnavailable           = errors.Register(ModuleName, 9, "oracle price unavailable")
	ErrStalePrice                 = errors.Register(ModuleName, 10, "oracle price too old")
	ErrAlreadyInitialized         = errors.Register(ModuleName, 11, "pool already initialized")
	ErrNotInitialized             = errors.Register(ModuleName, 12, "pool not initialized")
	ErrInvalidRate                = errors.Register(ModuleName, 13, "invalid reward rate")
	ErrZeroValueDeposit           = errors.Register(ModuleName, 14, "deposit value rounds to zero LP tokens")
	ErrNotEmpty                   = errors.Register(ModuleName, 15, "record still holds value")
	ErrUserNotFound               = errors.Register(ModuleName, 16, "user record not found")
	ErrInvalidParams              = errors.Register(ModuleName, 17, "invalid module parameters")
)
