package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// QueryPool returns the pool singleton.
func (k *Keeper) QueryPool(ctx sdk.Context) (*types.PoolState, error) {
	pool := k.GetPool(ctx)
	if pool == nil {
		return nil, types.ErrNotInitialized
	}
	return pool, nil
}

// QueryUser returns the record for owner together with live pending rewards.
func (k *Keeper) QueryUser(ctx sdk.Context, owner string) (*types.UserState, math.Int, error) {
	user := k.GetUser(ctx, owner)
	if user == nil {
		return nil, math.Int{}, types.ErrUserNotFound.Wrapf("owner %s", owner)
	}
	return user, k.PendingRewards(ctx, owner), nil
}

// EstimateDeposit returns the LP tokens a deposit would mint at current
// prices, without mutating state.
func (k *Keeper) EstimateDeposit(ctx sdk.Context, denom string, amount math.Int) (lp, usd math.Int, err error) {
	pool := k.GetPool(ctx)
	if pool == nil {
		return math.Int{}, math.Int{}, types.ErrNotInitialized
	}
	vault := pool.Vault(denom)
	if vault == nil {
		return math.Int{}, math.Int{}, types.ErrInvalidAsset.Wrapf("denom %s", denom)
	}
	if !amount.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrapf("amount %s", amount)
	}

	usd, _, err = k.AssetValueUsd(ctx, vault, amount)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	lp, err = lpForDeposit(pool, usd)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return lp, usd, nil
}

// EstimateWithdraw returns the payout a burn of lpAmount would produce at
// current prices, without mutating state.
func (k *Keeper) EstimateWithdraw(ctx sdk.Context, denom string, lpAmount math.Int) (amountOut, usd math.Int, err error) {
	pool := k.GetPool(ctx)
	if pool == nil {
		return math.Int{}, math.Int{}, types.ErrNotInitialized
	}
	vault := pool.Vault(denom)
	if vault == nil {
		return math.Int{}, math.Int{}, types.ErrInvalidAsset.Wrapf("denom %s", denom)
	}
	if !lpAmount.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrapf("lp amount %s", lpAmount)
	}

	usd = usdForRedemption(pool, lpAmount)
	amountOut, _, err = k.AssetAmountFromUsd(ctx, vault, usd)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return amountOut, usd, nil
}
