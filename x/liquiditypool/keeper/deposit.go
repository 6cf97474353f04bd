package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// Deposit moves amount of an accepted asset from depositor into the pool vault
// and mints LP tokens pro-rata against the pre-deposit AUM.
func (k *Keeper) Deposit(ctx context.Context, depositor, denom string, amount math.Int) (lpMinted, usdValue math.Int, err error) {
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
	if !amount.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrapf("amount %s", amount)
	}

	usd, price, err := k.AssetValueUsd(sdkCtx, vault, amount)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	now := sdkCtx.BlockTime().Unix()
	user := k.GetUser(sdkCtx, depositor)
	if user == nil {
		user = types.NewUserState(depositor, now)
	}

	// Settle the reward stream against the pre-deposit balance so the new
	// shares do not earn for time they were not in the pool.
	accrueRewards(pool, user, now)

	lp, err := lpForDeposit(pool, usd)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	depositorAddr, err := sdk.AccAddressFromBech32(depositor)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositorAddr, types.ModuleName, coins); err != nil {
		return math.Int{}, math.Int{}, err
	}

	mintShares(pool, user, lp)
	vault.Balance = vault.Balance.Add(amount)
	vault.Deposited = vault.Deposited.Add(amount)
	pool.AumUsd = pool.AumUsd.Add(usd)
	pool.UpdatedAt = now

	k.SetUser(sdkCtx, user)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_deposit",
			sdk.NewAttribute("depositor", depositor),
			sdk.NewAttribute("denom", denom),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("usd_value", usd.String()),
			sdk.NewAttribute("lp_minted", lp.String()),
			sdk.NewAttribute("price", price.String()),
		),
	)

	k.logger.Info("Deposit processed",
		"depositor", depositor,
		"denom", denom,
		"amount", amount.String(),
		"usd_value", usd.String(),
		"lp_minted", lp.String(),
	)

	return lp, usd, nil
}
