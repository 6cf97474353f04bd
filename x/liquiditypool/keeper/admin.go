package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// InitializePool creates the pool singleton with admin as its owner. Assets
// and the reward denom default to the module params when not supplied.
func (k *Keeper) InitializePool(ctx context.Context, admin, rewardDenom string, assets []types.AssetConfig) (*types.PoolState, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if k.GetPool(sdkCtx) != nil {
		return nil, types.ErrAlreadyInitialized
	}

	params := k.GetParams(sdkCtx)
	if rewardDenom == "" {
		rewardDenom = params.RewardDenom
	}
	if len(assets) == 0 {
		assets = params.DefaultAssets
	}

	now := sdkCtx.BlockTime().Unix()
	pool := types.NewPoolState(admin, rewardDenom, now)
	for _, a := range assets {
		pool.Assets[a.Denom] = types.NewAssetVault(a.Denom, a.Decimals)
	}
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_initialized",
			sdk.NewAttribute("admin", admin),
			sdk.NewAttribute("reward_denom", rewardDenom),
		),
	)

	k.logger.Info("Pool initialized",
		"admin", admin,
		"reward_denom", rewardDenom,
		"assets", len(pool.Assets),
	)

	return pool, nil
}

// SetPause toggles the pool pause flag. Paused pools reject deposits,
// withdrawals and reward claims; admin operations stay available.
func (k *Keeper) SetPause(ctx context.Context, admin string, paused bool) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx)
	if pool == nil {
		return types.ErrNotInitialized
	}
	if admin != pool.Admin {
		return types.ErrUnauthorized.Wrapf("caller %s is not the pool admin", admin)
	}

	pool.Paused = paused
	pool.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_pause_set",
			sdk.NewAttribute("admin", admin),
			sdk.NewAttribute("paused", strconv.FormatBool(paused)),
		),
	)

	k.logger.Info("Pool pause flag set", "admin", admin, "paused", paused)
	return nil
}

// AdminWithdraw moves vault funds to the admin without adjusting AUM or LP
// supply. The share price drops for remaining holders until the funds come
// back via AdminDeposit; this is the operational escape hatch, not a
// redemption path.
func (k *Keeper) AdminWithdraw(ctx context.Context, admin, denom string, amount math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx)
	if pool == nil {
		return math.Int{}, types.ErrNotInitialized
	}
	if admin != pool.Admin {
		return math.Int{}, types.ErrUnauthorized.Wrapf("caller %s is not the pool admin", admin)
	}
	vault := pool.Vault(denom)
	if vault == nil {
		return math.Int{}, types.ErrInvalidAsset.Wrapf("denom %s", denom)
	}
	if !amount.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("amount %s", amount)
	}
	if vault.Balance.LT(amount) {
		return math.Int{}, types.ErrInsufficientVaultLiquidity.Wrapf("vault %s holds %s, need %s", denom, vault.Balance, amount)
	}

	adminAddr, err := sdk.AccAddressFromBech32(admin)
	if err != nil {
		return math.Int{}, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, adminAddr, coins); err != nil {
		return math.Int{}, err
	}

	vault.Balance = vault.Balance.Sub(amount)
	pool.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_admin_withdraw",
			sdk.NewAttribute("admin", admin),
			sdk.NewAttribute("denom", denom),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("vault_balance", vault.Balance.String()),
		),
	)

	k.logger.Info("Admin withdrawal processed",
		"admin", admin,
		"denom", denom,
		"amount", amount.String(),
		"vault_balance", vault.Balance.String(),
	)

	return vault.Balance, nil
}

// AdminDeposit tops the vault up from the admin account and adds the oracle
// value of the funds to AUM, raising the share price for all holders.
func (k *Keeper) AdminDeposit(ctx context.Context, admin, denom string, amount math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx)
	if pool == nil {
		return math.Int{}, types.ErrNotInitialized
	}
	if admin != pool.Admin {
		return math.Int{}, types.ErrUnauthorized.Wrapf("caller %s is not the pool admin", admin)
	}
	vault := pool.Vault(denom)
	if vault == nil {
		return math.Int{}, types.ErrInvalidAsset.Wrapf("denom %s", denom)
	}
	if !amount.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount.Wrapf("amount %s", amount)
	}

	usd, _, err := k.AssetValueUsd(sdkCtx, vault, amount)
	if err != nil {
		return math.Int{}, err
	}

	adminAddr, err := sdk.AccAddressFromBech32(admin)
	if err != nil {
		return math.Int{}, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, adminAddr, types.ModuleName, coins); err != nil {
		return math.Int{}, err
	}

	vault.Balance = vault.Balance.Add(amount)
	pool.AumUsd = pool.AumUsd.Add(usd)
	pool.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_admin_deposit",
			sdk.NewAttribute("admin", admin),
			sdk.NewAttribute("denom", denom),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("usd_value", usd.String()),
		),
	)

	k.logger.Info("Admin deposit processed",
		"admin", admin,
		"denom", denom,
		"amount", amount.String(),
		"usd_value", usd.String(),
	)

	return pool.AumUsd, nil
}

// ClosePool deletes the pool singleton. Refused while any vault, the reward
// vault or the LP supply still holds value.
func (k *Keeper) ClosePool(ctx context.Context, admin string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx)
	if pool == nil {
		return types.ErrNotInitialized
	}
	if admin != pool.Admin {
		return types.ErrUnauthorized.Wrapf("caller %s is not the pool admin", admin)
	}
	if !pool.IsEmpty() {
		return types.ErrNotEmpty.Wrap("pool still holds funds or outstanding LP tokens")
	}

	k.DeletePool(sdkCtx)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_closed",
			sdk.NewAttribute("admin", admin),
		),
	)

	k.logger.Info("Pool closed", "admin", admin)
	return nil
}

// CloseUserState deletes an empty user record. The record owner or the pool
// admin may close it.
func (k *Keeper) CloseUserState(ctx context.Context, caller, owner string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx)
	if pool == nil {
		return types.ErrNotInitialized
	}
	if caller != owner && caller != pool.Admin {
		return types.ErrUnauthorized.Wrapf("caller %s may not close records for %s", caller, owner)
	}
	user := k.GetUser(sdkCtx, owner)
	if user == nil {
		return types.ErrUserNotFound.Wrapf("owner %s", owner)
	}
	if !user.IsEmpty() {
		return types.ErrNotEmpty.Wrapf("owner %s still holds %s LP and %s pending rewards", owner, user.LpBalance, user.PendingRewards)
	}

	k.DeleteUser(sdkCtx, owner)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_user_closed",
			sdk.NewAttribute("caller", caller),
			sdk.NewAttribute("owner", owner),
		),
	)

	k.logger.Info("User record closed", "caller", caller, "owner", owner)
	return nil
}
