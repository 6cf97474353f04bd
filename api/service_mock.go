package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openalpha/liquidity-pool/api/types"
)

// MockService implements PoolService and PriceService with canned data for
// frontend development. No state machine is involved; numbers are plausible
// but not internally consistent.
type MockService struct {
	mu     sync.Mutex
	users  map[string]*types.UserStatus
	prices map[string]*types.PriceStatus
}

// NewMockService creates a new MockService
func NewMockService() *MockService {
	now := time.Now().Unix()
	return &MockService{
		users: map[string]*types.UserStatus{},
		prices: map[string]*types.PriceStatus{
			"usdc": {Denom: "usdc", Price: "1.000000000000000000", PublishedAt: now},
			"wsol": {Denom: "wsol", Price: "150.000000000000000000", PublishedAt: now},
		},
	}
}

func (m *MockService) GetPool(ctx context.Context) (*types.PoolStatus, error) {
	now := time.Now().Unix()
	return &types.PoolStatus{
		Admin:    "cosmos1admin000000000000000000000000000000000",
		Paused:   false,
		AumUsd:   "125000000000",
		LpSupply: "118500000000",
		Assets: []types.AssetStatus{
			{Denom: "usdc", Decimals: 6, Balance: "75000000000", Deposited: "80000000000", LastPrice: "1.000000000000000000", PricedAt: now},
			{Denom: "wsol", Decimals: 9, Balance: "333000000000", Deposited: "350000000000", LastPrice: "150.000000000000000000", PricedAt: now},
		},
		RewardDenom:           "usdc",
		RewardVaultBalance:    "4200000000",
		TokensPerInterval:     "1000",
		RewardStartTime:       now - 86400,
		RewardEndTime:         now + 6*86400,
		TotalRewardsDeposited: "10000000000",
		TotalRewardsClaimed:   "5800000000",
		UpdatedAt:             now,
	}, nil
}

func (m *MockService) GetUser(ctx context.Context, address string) (*types.UserStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[address]; ok {
		return user, nil
	}
	user := &types.UserStatus{
		Owner:          address,
		LpBalance:      "2500000000",
		PendingRewards: "13750000",
		LastClaimTime:  time.Now().Unix() - 3600,
		CreatedAt:      time.Now().Unix() - 30*86400,
	}
	m.users[address] = user
	return user, nil
}

func (m *MockService) Deposit(ctx context.Context, req *types.DepositRequest) (*types.DepositResponse, error) {
	return &types.DepositResponse{
		ReceiptID: uuid.New().String(),
		Depositor: req.Depositor,
		Denom:     req.Denom,
		Amount:    req.Amount,
		LpMinted:  req.Amount,
		UsdValue:  req.Amount,
		Timestamp: time.Now().Unix(),
	}, nil
}

func (m *MockService) Withdraw(ctx context.Context, req *types.WithdrawRequest) (*types.WithdrawResponse, error) {
	return &types.WithdrawResponse{
		ReceiptID:  uuid.New().String(),
		Withdrawer: req.Withdrawer,
		Denom:      req.Denom,
		LpBurned:   req.LpAmount,
		AmountOut:  req.LpAmount,
		UsdValue:   req.LpAmount,
		Timestamp:  time.Now().Unix(),
	}, nil
}

func (m *MockService) ClaimRewards(ctx context.Context, req *types.ClaimRequest) (*types.ClaimResponse, error) {
	return &types.ClaimResponse{
		ReceiptID: uuid.New().String(),
		Claimer:   req.Claimer,
		Denom:     "usdc",
		Amount:    "13750000",
		Timestamp: time.Now().Unix(),
	}, nil
}

func (m *MockService) EstimateDeposit(ctx context.Context, denom, amount string) (*types.DepositEstimate, error) {
	return &types.DepositEstimate{
		Denom:    denom,
		Amount:   amount,
		UsdValue: amount,
		LpMinted: amount,
	}, nil
}

func (m *MockService) EstimateWithdraw(ctx context.Context, denom, lpAmount string) (*types.WithdrawEstimate, error) {
	return &types.WithdrawEstimate{
		Denom:     denom,
		LpAmount:  lpAmount,
		UsdValue:  lpAmount,
		AmountOut: lpAmount,
	}, nil
}

func (m *MockService) GetPrice(ctx context.Context, denom string) (*types.PriceStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	price, ok := m.prices[denom]
	if !ok {
		return nil, fmt.Errorf("no price for denom: %s", denom)
	}
	return price, nil
}

func (m *MockService) SubmitPrice(ctx context.Context, req *types.SubmitPriceRequest) (*types.PriceStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	price := &types.PriceStatus{
		Denom:       req.Denom,
		Price:       req.Price,
		PublishedAt: time.Now().Unix(),
	}
	m.prices[req.Denom] = price
	return price, nil
}
