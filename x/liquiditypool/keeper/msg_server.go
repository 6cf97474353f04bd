package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// MsgServer defines the liquiditypool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

func parseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("cannot parse %q", s)
	}
	return amount, nil
}

// Initialize handles MsgInitialize
func (m *MsgServer) Initialize(ctx context.Context, msg *types.MsgInitialize) (*types.MsgInitializeResponse, error) {
	pool, err := m.keeper.InitializePool(ctx, msg.Admin, msg.RewardDenom, msg.Assets)
	if err != nil {
		return nil, err
	}

	assets := make([]string, 0, len(pool.Assets))
	for denom := range pool.Assets {
		assets = append(assets, denom)
	}
	return &types.MsgInitializeResponse{Assets: assets}, nil
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	lp, usd, err := m.keeper.Deposit(ctx, msg.Depositor, msg.Denom, amount)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := m.keeper.GetPool(sdkCtx)
	user := m.keeper.GetUser(sdkCtx, msg.Depositor)

	return &types.MsgDepositResponse{
		LpMinted:   lp.String(),
		LpBalance:  user.LpBalance.String(),
		UsdValue:   usd.String(),
		LpSupply:   pool.LpSupply.String(),
		PoolAumUsd: pool.AumUsd.String(),
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	lpAmount, err := parseAmount(msg.LpAmount)
	if err != nil {
		return nil, err
	}

	out, usd, err := m.keeper.Withdraw(ctx, msg.Withdrawer, msg.Denom, lpAmount)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := m.keeper.GetPool(sdkCtx)
	user := m.keeper.GetUser(sdkCtx, msg.Withdrawer)

	return &types.MsgWithdrawResponse{
		AmountOut:  out.String(),
		UsdValue:   usd.String(),
		LpBalance:  user.LpBalance.String(),
		LpSupply:   pool.LpSupply.String(),
		PoolAumUsd: pool.AumUsd.String(),
	}, nil
}

// StartRewards handles MsgStartRewards
func (m *MsgServer) StartRewards(ctx context.Context, msg *types.MsgStartRewards) (*types.MsgStartRewardsResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	rate, err := parseAmount(msg.TokensPerInterval)
	if err != nil {
		return nil, err
	}

	start, end, err := m.keeper.StartRewards(ctx, msg.Admin, amount, rate)
	if err != nil {
		return nil, err
	}

	return &types.MsgStartRewardsResponse{StartTime: start, EndTime: end}, nil
}

// ClaimRewards handles MsgClaimRewards
func (m *MsgServer) ClaimRewards(ctx context.Context, msg *types.MsgClaimRewards) (*types.MsgClaimRewardsResponse, error) {
	amount, err := m.keeper.ClaimRewards(ctx, msg.Claimer)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := m.keeper.GetPool(sdkCtx)

	return &types.MsgClaimRewardsResponse{
		Amount: amount.String(),
		Denom:  pool.RewardDenom,
	}, nil
}

// AdminDeposit handles MsgAdminDeposit
func (m *MsgServer) AdminDeposit(ctx context.Context, msg *types.MsgAdminDeposit) (*types.MsgAdminDepositResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	aum, err := m.keeper.AdminDeposit(ctx, msg.Admin, msg.Denom, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgAdminDepositResponse{PoolAumUsd: aum.String()}, nil
}

// AdminWithdraw handles MsgAdminWithdraw
func (m *MsgServer) AdminWithdraw(ctx context.Context, msg *types.MsgAdminWithdraw) (*types.MsgAdminWithdrawResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}

	balance, err := m.keeper.AdminWithdraw(ctx, msg.Admin, msg.Denom, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgAdminWithdrawResponse{VaultBalance: balance.String()}, nil
}

// SetPause handles MsgSetPause
func (m *MsgServer) SetPause(ctx context.Context, msg *types.MsgSetPause) (*types.MsgSetPauseResponse, error) {
	if err := m.keeper.SetPause(ctx, msg.Admin, msg.Paused); err != nil {
		return nil, err
	}
	return &types.MsgSetPauseResponse{Paused: msg.Paused}, nil
}

// ClosePool handles MsgClosePool
func (m *MsgServer) ClosePool(ctx context.Context, msg *types.MsgClosePool) (*types.MsgClosePoolResponse, error) {
	if err := m.keeper.ClosePool(ctx, msg.Admin); err != nil {
		return nil, err
	}
	return &types.MsgClosePoolResponse{}, nil
}

// CloseUserState handles MsgCloseUserState
func (m *MsgServer) CloseUserState(ctx context.Context, msg *types.MsgCloseUserState) (*types.MsgCloseUserStateResponse, error) {
	if err := m.keeper.CloseUserState(ctx, msg.Caller, msg.Owner); err != nil {
		return nil, err
	}
	return &types.MsgCloseUserStateResponse{}, nil
}
