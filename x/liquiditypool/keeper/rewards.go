package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// accrueRewards settles the reward stream for user up to now and advances the
// claim checkpoint. Accrual is linear in time and pro-rata by LP share, with
// both endpoints clamped into the active window.
func accrueRewards(pool *types.PoolState, user *types.UserState, now int64) {
	if pool.RewardsActive() && !pool.LpSupply.IsZero() && user.LpBalance.IsPositive() {
		from := pool.ClampToRewardWindow(user.LastClaimTime)
		to := pool.ClampToRewardWindow(now)
		if to > from {
			elapsed := math.NewInt(to - from)
			accrued := pool.TokensPerInterval.Mul(elapsed).Mul(user.LpBalance).Quo(pool.LpSupply)
			user.PendingRewards = user.PendingRewards.Add(accrued)
		}
	}
	user.LastClaimTime = now
}

// StartRewards funds the reward vault with amount of the reward denom and
// opens a stream paying tokensPerInterval per second. The window length is
// amount/rate, floored. Restarting while a stream is active first settles
// every user against the old window so nothing already earned is lost.
func (k *Keeper) StartRewards(ctx context.Context, admin string, amount, tokensPerInterval math.Int) (startTime, endTime int64, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx)
	if pool == nil {
		return 0, 0, types.ErrNotInitialized
	}
	if admin != pool.Admin {
		return 0, 0, types.ErrUnauthorized.Wrapf("caller %s is not the pool admin", admin)
	}
	if !tokensPerInterval.IsPositive() {
		return 0, 0, types.ErrInvalidRate.Wrapf("rate %s", tokensPerInterval)
	}
	if !amount.IsPositive() {
		return 0, 0, types.ErrInvalidAmount.Wrapf("amount %s", amount)
	}
	duration := amount.Quo(tokensPerInterval)
	if duration.IsZero() {
		return 0, 0, types.ErrInvalidRate.Wrapf("rate %s exceeds funding %s", tokensPerInterval, amount)
	}

	now := sdkCtx.BlockTime().Unix()

	// Settle the outgoing window before overwriting it.
	if pool.RewardsActive() {
		for _, user := range k.GetAllUsers(sdkCtx) {
			accrueRewards(pool, user, now)
			k.SetUser(sdkCtx, user)
		}
	}

	adminAddr, err := sdk.AccAddressFromBech32(admin)
	if err != nil {
		return 0, 0, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.RewardDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, adminAddr, types.RewardVaultName, coins); err != nil {
		return 0, 0, err
	}

	pool.RewardStartTime = now
	pool.RewardEndTime = now + duration.Int64()
	pool.TokensPerInterval = tokensPerInterval
	pool.RewardVaultBalance = pool.RewardVaultBalance.Add(amount)
	pool.TotalRewardsDeposited = pool.TotalRewardsDeposited.Add(amount)
	pool.UpdatedAt = now
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_rewards_started",
			sdk.NewAttribute("admin", admin),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("tokens_per_interval", tokensPerInterval.String()),
			sdk.NewAttribute("start_time", math.NewInt(pool.RewardStartTime).String()),
			sdk.NewAttribute("end_time", math.NewInt(pool.RewardEndTime).String()),
		),
	)

	k.logger.Info("Reward stream started",
		"admin", admin,
		"amount", amount.String(),
		"tokens_per_interval", tokensPerInterval.String(),
		"end_time", pool.RewardEndTime,
	)

	return pool.RewardStartTime, pool.RewardEndTime, nil
}

// ClaimRewards settles the stream for claimer and pays out the full pending
// amount. A shortfall in the reward vault fails the whole claim; claiming with
// nothing pending succeeds as a no-op.
func (k *Keeper) ClaimRewards(ctx context.Context, claimer string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx)
	if pool == nil {
		return math.Int{}, types.ErrNotInitialized
	}
	if pool.Paused {
		return math.Int{}, types.ErrPoolPaused
	}
	user := k.GetUser(sdkCtx, claimer)
	if user == nil {
		return math.Int{}, types.ErrUserNotFound.Wrapf("owner %s", claimer)
	}

	now := sdkCtx.BlockTime().Unix()
	accrueRewards(pool, user, now)

	pending := user.PendingRewards
	if pending.IsZero() {
		k.SetUser(sdkCtx, user)
		return math.ZeroInt(), nil
	}
	if pool.RewardVaultBalance.LT(pending) {
		return math.Int{}, types.ErrInsufficientRewardVault.Wrapf("vault holds %s, owed %s", pool.RewardVaultBalance, pending)
	}

	claimerAddr, err := sdk.AccAddressFromBech32(claimer)
	if err != nil {
		return math.Int{}, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.RewardDenom, pending))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.RewardVaultName, claimerAddr, coins); err != nil {
		return math.Int{}, err
	}

	user.PendingRewards = math.ZeroInt()
	pool.RewardVaultBalance = pool.RewardVaultBalance.Sub(pending)
	pool.TotalRewardsClaimed = pool.TotalRewardsClaimed.Add(pending)
	pool.UpdatedAt = now

	k.SetUser(sdkCtx, user)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pool_rewards_claimed",
			sdk.NewAttribute("claimer", claimer),
			sdk.NewAttribute("amount", pending.String()),
			sdk.NewAttribute("denom", pool.RewardDenom),
		),
	)

	k.logger.Info("Rewards claimed",
		"claimer", claimer,
		"amount", pending.String(),
		"denom", pool.RewardDenom,
	)

	return pending, nil
}

// PendingRewards returns the rewards owner would receive if they claimed at
// the current block time, without mutating state.
func (k *Keeper) PendingRewards(ctx sdk.Context, owner string) math.Int {
	pool := k.GetPool(ctx)
	if pool == nil {
		return math.ZeroInt()
	}
	user := k.GetUser(ctx, owner)
	if user == nil {
		return math.ZeroInt()
	}
	accrueRewards(pool, user, ctx.BlockTime().Unix())
	return user.PendingRewards
}
