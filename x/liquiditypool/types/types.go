package types

import (
	gomath "math"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "liquiditypool"
	StoreKey   = ModuleName

	// RewardVaultName is the module account holding the reward token stream,
	// kept separate from the main vault so reward solvency checks cannot be
	// satisfied by depositor funds.
	RewardVaultName = ModuleName + "_rewards"
)

// UsdScale is the fixed-point scale for USD accounting (6 decimals, micro-USD).
const UsdScale = 1_000_000

var (
	// MaxLpSupply bounds the total LP supply to the raw token width.
	MaxLpSupply = math.NewIntFromUint64(gomath.MaxUint64)

	usdScaleInt = math.NewInt(UsdScale)
)

// AssetVault tracks a single accepted asset inside the pool.
type AssetVault struct {
	Denom     string         `json:"denom"`
	Decimals  uint32         `json:"decimals"`
	Balance   math.Int       `json:"balance"`    // raw units held in the vault account
	Deposited math.Int       `json:"deposited"`  // cumulative raw units deposited by users
	LastPrice math.LegacyDec `json:"last_price"` // cached USD price per whole token, informational only
	PricedAt  int64          `json:"priced_at"`  // unix time of the cached price
}

// NewAssetVault creates an empty vault entry for an accepted asset.
func NewAssetVault(denom string, decimals uint32) *AssetVault {
	return &AssetVault{
		Denom:     denom,
		Decimals:  decimals,
		Balance:   math.ZeroInt(),
		Deposited: math.ZeroInt(),
		LastPrice: math.LegacyZeroDec(),
	}
}

// PoolState is the singleton pool record.
type PoolState struct {
	Admin  string                 `json:"admin"`
	Assets map[string]*AssetVault `json:"assets"`

	// Share ledger
	LpSupply math.Int `json:"lp_supply"`
	AumUsd   math.Int `json:"aum_usd"` // micro-USD

	// Reward stream
	RewardDenom           string   `json:"reward_denom"`
	RewardVaultBalance    math.Int `json:"reward_vault_balance"`
	TokensPerInterval     math.Int `json:"tokens_per_interval"` // raw reward units per second
	RewardStartTime       int64    `json:"reward_start_time"`
	RewardEndTime         int64    `json:"reward_end_time"`
	TotalRewardsDeposited math.Int `json:"total_rewards_deposited"`
	TotalRewardsClaimed   math.Int `json:"total_rewards_claimed"`

	Paused    bool  `json:"paused"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPoolState creates a zeroed pool owned by admin.
func NewPoolState(admin, rewardDenom string, now int64) *PoolState {
	return &PoolState{
		Admin:                 admin,
		Assets:                make(map[string]*AssetVault),
		LpSupply:              math.ZeroInt(),
		AumUsd:                math.ZeroInt(),
		RewardDenom:           rewardDenom,
		RewardVaultBalance:    math.ZeroInt(),
		TokensPerInterval:     math.ZeroInt(),
		TotalRewardsDeposited: math.ZeroInt(),
		TotalRewardsClaimed:   math.ZeroInt(),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// Vault returns the vault entry for denom, or nil if the asset is not accepted.
func (p *PoolState) Vault(denom string) *AssetVault {
	if p.Assets == nil {
		return nil
	}
	return p.Assets[denom]
}

// RewardsActive reports whether a reward stream window is configured.
func (p *PoolState) RewardsActive() bool {
	return p.RewardStartTime > 0 && p.RewardEndTime > p.RewardStartTime
}

// ClampToRewardWindow clamps t into [RewardStartTime, RewardEndTime].
func (p *PoolState) ClampToRewardWindow(t int64) int64 {
	if t < p.RewardStartTime {
		return p.RewardStartTime
	}
	if t > p.RewardEndTime {
		return p.RewardEndTime
	}
	return t
}

// IsEmpty reports whether the pool carries no user funds or obligations.
func (p *PoolState) IsEmpty() bool {
	if !p.LpSupply.IsZero() {
		return false
	}
	for _, v := range p.Assets {
		if !v.Balance.IsZero() {
			return false
		}
	}
	return p.RewardVaultBalance.IsZero()
}

// UserState is the per-depositor record.
type UserState struct {
	Owner          string   `json:"owner"`
	LpBalance      math.Int `json:"lp_balance"`
	LastClaimTime  int64    `json:"last_claim_time"` // reward accrual checkpoint
	PendingRewards math.Int `json:"pending_rewards"` // raw reward units accrued but unclaimed
	CreatedAt      int64    `json:"created_at"`
}

// NewUserState creates an empty user record checkpointed at now.
func NewUserState(owner string, now int64) *UserState {
	return &UserState{
		Owner:          owner,
		LpBalance:      math.ZeroInt(),
		LastClaimTime:  now,
		PendingRewards: math.ZeroInt(),
		CreatedAt:      now,
	}
}

// IsEmpty reports whether the record can be closed without losing value.
func (u *UserState) IsEmpty() bool {
	return u.LpBalance.IsZero() && u.PendingRewards.IsZero()
}

// AssetConfig declares an accepted asset at pool initialization.
type AssetConfig struct {
	Denom    string `json:"denom"`
	Decimals uint32 `json:"decimals"`
}

// Params holds module policy knobs.
type Params struct {
	MaxPriceAgeSeconds int64         `json:"max_price_age_seconds"`
	DefaultAssets      []AssetConfig `json:"default_assets"`
	RewardDenom        string        `json:"reward_denom"`
}

// DefaultParams returns the default module parameters.
func DefaultParams() Params {
	return Params{
		MaxPriceAgeSeconds: 300,
		DefaultAssets: []AssetConfig{
			{Denom: "wsol", Decimals: 9},
			{Denom: "usdc", Decimals: 6},
		},
		RewardDenom: "usdc",
	}
}

// Validate checks params for internal consistency.
func (p Params) Validate() error {
	if p.MaxPriceAgeSeconds <= 0 {
		return ErrInvalidParams
	}
	if p.RewardDenom == "" {
		return ErrInvalidParams
	}
	seen := make(map[string]bool, len(p.DefaultAssets))
	for _, a := range p.DefaultAssets {
		if a.Denom == "" || seen[a.Denom] {
			return ErrInvalidParams
		}
		seen[a.Denom] = true
	}
	return nil
}

// UsdValue converts a raw token amount into micro-USD at price (USD per whole
// token), truncating toward zero so rounding always favors the pool.
func UsdValue(amount math.Int, price math.LegacyDec, decimals uint32) math.Int {
	if amount.IsZero() || price.IsZero() {
		return math.ZeroInt()
	}
	scale := math.NewIntWithDecimal(1, int(decimals))
	return price.MulInt(amount).MulInt(usdScaleInt).QuoInt(scale).TruncateInt()
}

// AmountFromUsd converts micro-USD back into raw token units at price,
// truncating toward zero.
func AmountFromUsd(usd math.Int, price math.LegacyDec, decimals uint32) math.Int {
	if usd.IsZero() || price.IsZero() {
		return math.ZeroInt()
	}
	scale := math.NewIntWithDecimal(1, int(decimals))
	return math.LegacyNewDecFromInt(usd).MulInt(scale).Quo(price).QuoInt(usdScaleInt).TruncateInt()
}
