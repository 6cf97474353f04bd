package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// Withdraw burns lpAmount LP tokens and pays out the proportional USD value in
// the requested asset at the current oracle price.
func (k *Keeper) Withdraw(ctx context.Context, withdrawer, denom string, lpAmount math.Int) (amountOut, usdValue math.Int, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx)
	if pool == nil {
		return math.Int{}, math.Int{}, types.ErrNotInitialized
	}
	if pool.Paused {
		return math.Int{}, math.Int{}, types.ErrPoolPaused
	}
	vault := pool.Vault(denom)
	if vault == nil {
		return math.Int{}, math.Int{}, types.ErrInvalidAsset.Wrapf("denom %s", denom)
	}
	if !lpAmount.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrapf("lp amount %s", lpAmount)
	}
	user := k.GetUser(sdkCtx, withdrawer)
	if user == nil {
		return math.Int{}, math.Int{}, types.ErrUserNotFound.Wrapf("owner %s", withdrawer)
	}
	if user.LpBalance.LT(lpAmount) {
		return math.Int{}, math.Int{}, types.ErrInsufficientBalance.Wrapf("have %s, need %s", user.LpBalance, lpAmount)
	}

	now := sdkCtx.BlockTime().Unix()
	accrueRewards(pool, user, now)

	usd := usdForRedemption(pool, lpAmount)
	out, price, err := k.AssetAmountFromUsd(sdkCtx, vault, usd)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if out.IsZero() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrap("withdrawal rounds to zero output")
	}
	if vault.Balance.LT(out) {
		return math.Int{}, math.Int{}, types.ErrInsufficientVaultLiquidity.Wrapf("vault %s holds %s, need %s", denom, vault.Balance, out)
	}

	withdrawerAddr, err := sdk.AccAddressFromBech32(withdrawer)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(denom, out))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, withdrawerAddr, coins); err != nil {
		return math.Int{}, math.Int{}, err
	}

	if err := burnShares(pool, user, lpAmount); err != nil {
		return math.Int{}, math.Int{}, err
	}
	vault.Balance = vault.Balance.Sub(out)
	pool.AumUsd = pool.AumUsd.Sub(usd)
	pool.UpdatedAt = now

	k.SetUser(sdkCtx, user)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_withdraw",
			sdk.NewAttribute("withdrawer", withdrawer),
			sdk.NewAttribute("denom", denom),
			sdk.NewAttribute("lp_burned", lpAmount.String()),
			sdk.NewAttribute("amount_out", out.String()),
			sdk.NewAttribute("usd_value", usd.String()),
			sdk.NewAttribute("price", price.String()),
		),
	)

	k.logger.Info("Withdrawal processed",
		"withdrawer", withdrawer,
		"denom", denom,
		"lp_burned", lpAmount.String(),
		"amount_out", out.String(),
		"usd_value", usd.String(),
	)

	return out, usd, nil
}
