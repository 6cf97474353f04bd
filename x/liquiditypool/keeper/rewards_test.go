package keeper

import (
	"errors"
	"testing"

	"cosmossdk.io/math"

	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

func TestRewardStreamProRataClaim(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	// Two equal depositors split the stream 50/50.
	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, _, err := k.Deposit(ctx, addrBob, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// 1000 reward units at 10/s give a 100s window.
	start, end, err := k.StartRewards(ctx, addrAdmin, math.NewInt(1000), math.NewInt(10))
	if err != nil {
		t.Fatalf("start rewards: %v", err)
	}
	if end-start != 100 {
		t.Errorf("expected 100s window, got %d", end-start)
	}

	// Halfway through, each holder has earned 250.
	ctx = advance(ctx, 50)
	claimed, err := k.ClaimRewards(ctx, addrAlice)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed.Equal(math.NewInt(250)) {
		t.Errorf("expected claim of 250, got %s", claimed)
	}
	if pending := k.PendingRewards(ctx, addrBob); !pending.Equal(math.NewInt(250)) {
		t.Errorf("expected bob pending 250, got %s", pending)
	}

	pool := k.GetPool(ctx)
	if !pool.RewardVaultBalance.Equal(math.NewInt(750)) {
		t.Errorf("expected reward vault 750, got %s", pool.RewardVaultBalance)
	}
	if !pool.TotalRewardsClaimed.Equal(math.NewInt(250)) {
		t.Errorf("expected total claimed 250, got %s", pool.TotalRewardsClaimed)
	}
}

func TestClaimSplittingEquivalence(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, _, err := k.Deposit(ctx, addrBob, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.NewInt(1000), math.NewInt(10)); err != nil {
		t.Fatalf("start rewards: %v", err)
	}

	// Alice claims twice, Bob once over the same interval.
	ctx20 := advance(ctx, 20)
	first, err := k.ClaimRewards(ctx20, addrAlice)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	ctx50 := advance(ctx, 50)
	second, err := k.ClaimRewards(ctx50, addrAlice)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	single, err := k.ClaimRewards(ctx50, addrBob)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	if !first.Add(second).Equal(single) {
		t.Errorf("split claims %s+%s should equal single claim %s", first, second, single)
	}
}

func TestRewardAccrualClampsAtWindowEnd(t *testing.T) {
	k, ctx, oracle, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.NewInt(1000), math.NewInt(10)); err != nil {
		t.Fatalf("start rewards: %v", err)
	}

	// Well past the window end the sole holder earns exactly the funding.
	ctx = advance(ctx, 500)
	oracle.setPrice("usdc", "1.0", baseTime+500)
	claimed, err := k.ClaimRewards(ctx, addrAlice)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed.Equal(math.NewInt(1000)) {
		t.Errorf("expected claim capped at 1000, got %s", claimed)
	}

	// A second claim after the window pays nothing.
	again, err := k.ClaimRewards(advance(ctx, 10), addrAlice)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !again.IsZero() {
		t.Errorf("expected zero follow-up claim, got %s", again)
	}
}

func TestDepositDoesNotEarnRetroactively(t *testing.T) {
	k, ctx, oracle, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.NewInt(1000), math.NewInt(10)); err != nil {
		t.Fatalf("start rewards: %v", err)
	}

	// Bob joins halfway through with an equal stake.
	ctx50 := advance(ctx, 50)
	oracle.setPrice("usdc", "1.0", baseTime+50)
	if _, _, err := k.Deposit(ctx50, addrBob, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	ctx100 := advance(ctx, 100)
	if pending := k.PendingRewards(ctx100, addrAlice); !pending.Equal(math.NewInt(750)) {
		t.Errorf("expected alice pending 500+250=750, got %s", pending)
	}
	if pending := k.PendingRewards(ctx100, addrBob); !pending.Equal(math.NewInt(250)) {
		t.Errorf("expected bob pending 250, got %s", pending)
	}
}

func TestStartRewardsValidation(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.StartRewards(ctx, addrAlice, math.NewInt(1000), math.NewInt(10)); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.NewInt(1000), math.ZeroInt()); !errors.Is(err, types.ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate for zero rate, got %v", err)
	}
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.ZeroInt(), math.NewInt(10)); !errors.Is(err, types.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero funding, got %v", err)
	}
	// A rate larger than the funding floors the window to zero seconds.
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.NewInt(5), math.NewInt(10)); !errors.Is(err, types.ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate for zero-length window, got %v", err)
	}
}

func TestRestartPreservesAccruedRewards(t *testing.T) {
	k, ctx, oracle, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.NewInt(1000), math.NewInt(10)); err != nil {
		t.Fatalf("start rewards: %v", err)
	}

	// Restart mid-window: the 500 earned so far must survive the overwrite.
	ctx = advance(ctx, 50)
	oracle.setPrice("usdc", "1.0", baseTime+50)
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.NewInt(2000), math.NewInt(20)); err != nil {
		t.Fatalf("restart rewards: %v", err)
	}

	user := k.GetUser(ctx, addrAlice)
	if !user.PendingRewards.Equal(math.NewInt(500)) {
		t.Errorf("expected 500 pending after restart, got %s", user.PendingRewards)
	}

	// The new stream accrues on top at the new rate.
	ctx = advance(ctx, 10)
	if pending := k.PendingRewards(ctx, addrAlice); !pending.Equal(math.NewInt(700)) {
		t.Errorf("expected 500+200 pending, got %s", pending)
	}
}

func TestClaimFailsOnRewardVaultShortfall(t *testing.T) {
	k, ctx, oracle, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, _, err := k.StartRewards(ctx, addrAdmin, math.NewInt(1000), math.NewInt(10)); err != nil {
		t.Fatalf("start rewards: %v", err)
	}

	// Force a tracked shortfall.
	pool := k.GetPool(ctx)
	pool.RewardVaultBalance = math.NewInt(1)
	k.SetPool(ctx, pool)

	ctx = advance(ctx, 50)
	oracle.setPrice("usdc", "1.0", baseTime+50)
	_, err := k.ClaimRewards(ctx, addrAlice)
	if !errors.Is(err, types.ErrInsufficientRewardVault) {
		t.Errorf("expected ErrInsufficientRewardVault, got %v", err)
	}

	// The failed claim must not advance the checkpoint or zero the pending amount.
	user := k.GetUser(ctx, addrAlice)
	if user.LastClaimTime != baseTime {
		t.Errorf("expected checkpoint unchanged at %d, got %d", baseTime, user.LastClaimTime)
	}
	if !user.PendingRewards.IsZero() {
		t.Errorf("expected stored pending unchanged at 0, got %s", user.PendingRewards)
	}
}

func TestClaimWithNothingPendingIsNoOp(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	claimed, err := k.ClaimRewards(ctx, addrAlice)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed.IsZero() {
		t.Errorf("expected zero claim with no stream, got %s", claimed)
	}
}

func TestClaimRejectedWhenPaused(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := k.SetPause(ctx, addrAdmin, true); err != nil {
		t.Fatalf("set pause: %v", err)
	}

	_, err := k.ClaimRewards(ctx, addrAlice)
	if !errors.Is(err, types.ErrPoolPaused) {
		t.Errorf("expected ErrPoolPaused, got %v", err)
	}
}
