package types

import (
	"context"
	"time"
)

// PoolStatus describes the pool-wide state in API responses
type PoolStatus struct {
	Admin                 string        `json:"admin"`
	Paused                bool          `json:"paused"`
	AumUsd                string        `json:"aum_usd"`
	LpSupply              string        `json:"lp_supply"`
	Assets                []AssetStatus `json:"assets"`
	RewardDenom           string        `json:"reward_denom"`
	RewardVaultBalance    string        `json:"reward_vault_balance"`
	TokensPerInterval     string        `json:"tokens_per_interval"`
	RewardStartTime       int64         `json:"reward_start_time"`
	RewardEndTime         int64         `json:"reward_end_time"`
	TotalRewardsDeposited string        `json:"total_rewards_deposited"`
	TotalRewardsClaimed   string        `json:"total_rewards_claimed"`
	UpdatedAt             int64         `json:"updated_at"`
}

// AssetStatus describes a single whitelisted asset vault
type AssetStatus struct {
	Denom     string `json:"denom"`
	Decimals  uint32 `json:"decimals"`
	Balance   string `json:"balance"`
	Deposited string `json:"deposited"`
	LastPrice string `json:"last_price"`
	PricedAt  int64  `json:"priced_at"`
}

// UserStatus describes a single provider's position
type UserStatus struct {
	Owner          string `json:"owner"`
	LpBalance      string `json:"lp_balance"`
	PendingRewards string `json:"pending_rewards"`
	LastClaimTime  int64  `json:"last_claim_time"`
	CreatedAt      int64  `json:"created_at"`
}

// DepositRequest is the body for POST /v1/pool/deposit
type DepositRequest struct {
	Depositor string `json:"depositor"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
}

// DepositResponse is the result of a deposit
type DepositResponse struct {
	ReceiptID string `json:"receipt_id"`
	Depositor string `json:"depositor"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
	LpMinted  string `json:"lp_minted"`
	UsdValue  string `json:"usd_value"`
	Timestamp int64  `json:"timestamp"`
}

// WithdrawRequest is the body for POST /v1/pool/withdraw
type WithdrawRequest struct {
	Withdrawer string `json:"withdrawer"`
	Denom      string `json:"denom"`
	LpAmount   string `json:"lp_amount"`
}

// WithdrawResponse is the result of a withdrawal
type WithdrawResponse struct {
	ReceiptID  string `json:"receipt_id"`
	Withdrawer string `json:"withdrawer"`
	Denom      string `json:"denom"`
	LpBurned   string `json:"lp_burned"`
	AmountOut  string `json:"amount_out"`
	UsdValue   string `json:"usd_value"`
	Timestamp  int64  `json:"timestamp"`
}

// ClaimRequest is the body for POST /v1/pool/rewards/claim
type ClaimRequest struct {
	Claimer string `json:"claimer"`
}

// ClaimResponse is the result of a reward claim
type ClaimResponse struct {
	ReceiptID string `json:"receipt_id"`
	Claimer   string `json:"claimer"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// DepositEstimate previews the LP shares a deposit would mint
type DepositEstimate struct {
	Denom    string `json:"denom"`
	Amount   string `json:"amount"`
	UsdValue string `json:"usd_value"`
	LpMinted string `json:"lp_minted"`
}

// WithdrawEstimate previews the assets a redemption would return
type WithdrawEstimate struct {
	Denom     string `json:"denom"`
	LpAmount  string `json:"lp_amount"`
	UsdValue  string `json:"usd_value"`
	AmountOut string `json:"amount_out"`
}

// PriceStatus describes an aggregated oracle price
type PriceStatus struct {
	Denom       string `json:"denom"`
	Price       string `json:"price"`
	PublishedAt int64  `json:"published_at"`
}

// SubmitPriceRequest is the body for POST /v1/prices
type SubmitPriceRequest struct {
	SourceID string `json:"source_id"`
	Denom    string `json:"denom"`
	Price    string `json:"price"`
}

// PoolService exposes pool state and operations to the HTTP layer
type PoolService interface {
	GetPool(ctx context.Context) (*PoolStatus, error)
	GetUser(ctx context.Context, address string) (*UserStatus, error)
	Deposit(ctx context.Context, req *DepositRequest) (*DepositResponse, error)
	Withdraw(ctx context.Context, req *WithdrawRequest) (*WithdrawResponse, error)
	ClaimRewards(ctx context.Context, req *ClaimRequest) (*ClaimResponse, error)
	EstimateDeposit(ctx context.Context, denom, amount string) (*DepositEstimate, error)
	EstimateWithdraw(ctx context.Context, denom, lpAmount string) (*WithdrawEstimate, error)
}

// PriceService exposes oracle prices to the HTTP layer
type PriceService interface {
	GetPrice(ctx context.Context, denom string) (*PriceStatus, error)
	SubmitPrice(ctx context.Context, req *SubmitPriceRequest) (*PriceStatus, error)
}

// NowMillis returns the current time in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
