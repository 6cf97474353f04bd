package keeper

import (
	"errors"
	"testing"

	"cosmossdk.io/math"

	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

func TestFirstDepositParity(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	// 10 USDC at $1 is 10_000_000 micro-USD and must mint LP 1:1.
	lp, usd, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if !lp.Equal(math.NewInt(10_000_000)) {
		t.Errorf("expected 10000000 LP, got %s", lp)
	}
	if !usd.Equal(math.NewInt(10_000_000)) {
		t.Errorf("expected usd value 10000000, got %s", usd)
	}

	pool := k.GetPool(ctx)
	if !pool.LpSupply.Equal(lp) {
		t.Errorf("expected supply %s, got %s", lp, pool.LpSupply)
	}
	if !pool.AumUsd.Equal(usd) {
		t.Errorf("expected AUM %s, got %s", usd, pool.AumUsd)
	}

	user := k.GetUser(ctx, addrAlice)
	if user == nil {
		t.Fatal("expected user record to be created")
	}
	if !user.LpBalance.Equal(lp) {
		t.Errorf("expected LP balance %s, got %s", lp, user.LpBalance)
	}
}

func TestSecondDepositEqualValueEqualShares(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("first deposit: %v", err)
	}
	lp, _, err := k.Deposit(ctx, addrBob, "usdc", math.NewInt(10_000_000))
	if err != nil {
		t.Fatalf("second deposit: %v", err)
	}
	if !lp.Equal(math.NewInt(10_000_000)) {
		t.Errorf("expected equal-value deposit to mint 10000000 LP, got %s", lp)
	}

	pool := k.GetPool(ctx)
	if !pool.LpSupply.Equal(math.NewInt(20_000_000)) {
		t.Errorf("expected supply 20000000, got %s", pool.LpSupply)
	}
}

func TestDepositProRataAfterAumGrowth(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	// Admin deposit doubles AUM without minting shares.
	if _, err := k.AdminDeposit(ctx, addrAdmin, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("admin deposit: %v", err)
	}

	// Same USD value now buys half the shares.
	lp, _, err := k.Deposit(ctx, addrBob, "usdc", math.NewInt(10_000_000))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !lp.Equal(math.NewInt(5_000_000)) {
		t.Errorf("expected 5000000 LP after AUM doubled, got %s", lp)
	}
}

func TestDepositCrossAssetValuation(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	// 1 wSOL at $100 and 9 decimals values at 100_000_000 micro-USD.
	lp, usd, err := k.Deposit(ctx, addrAlice, "wsol", math.NewInt(1_000_000_000))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !usd.Equal(math.NewInt(100_000_000)) {
		t.Errorf("expected usd value 100000000, got %s", usd)
	}
	if !lp.Equal(math.NewInt(100_000_000)) {
		t.Errorf("expected 100000000 LP, got %s", lp)
	}
}

func TestDepositRejectsUnknownAsset(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	before := k.GetPool(ctx)
	_, _, err := k.Deposit(ctx, addrAlice, "doge", math.NewInt(1_000_000))
	if !errors.Is(err, types.ErrInvalidAsset) {
		t.Errorf("expected ErrInvalidAsset, got %v", err)
	}

	after := k.GetPool(ctx)
	if !after.LpSupply.Equal(before.LpSupply) || !after.AumUsd.Equal(before.AumUsd) {
		t.Error("expected pool state unchanged after rejected deposit")
	}
	if k.GetUser(ctx, addrAlice) != nil {
		t.Error("expected no user record after rejected deposit")
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	for _, amount := range []math.Int{math.ZeroInt(), math.NewInt(-5)} {
		_, _, err := k.Deposit(ctx, addrAlice, "usdc", amount)
		if !errors.Is(err, types.ErrInvalidAmount) {
			t.Errorf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestDepositRejectedWhenPaused(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if err := k.SetPause(ctx, addrAdmin, true); err != nil {
		t.Fatalf("set pause: %v", err)
	}
	_, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(1_000_000))
	if !errors.Is(err, types.ErrPoolPaused) {
		t.Errorf("expected ErrPoolPaused, got %v", err)
	}
}

func TestDepositStalePriceRejected(t *testing.T) {
	k, ctx, oracle, _ := setupKeeper(t)
	initPool(t, k, ctx)

	oracle.setPrice("usdc", "1.0", baseTime-600)
	_, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(1_000_000))
	if !errors.Is(err, types.ErrStalePrice) {
		t.Errorf("expected ErrStalePrice, got %v", err)
	}
}

func TestDepositMissingPriceRejected(t *testing.T) {
	k, ctx, oracle, _ := setupKeeper(t)
	initPool(t, k, ctx)

	delete(oracle.prices, "usdc")
	_, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(1_000_000))
	if !errors.Is(err, types.ErrPriceUnavailable) {
		t.Errorf("expected ErrPriceUnavailable, got %v", err)
	}
}

func TestZeroValueDepositRejected(t *testing.T) {
	k, ctx, oracle, _ := setupKeeper(t)
	initPool(t, k, ctx)

	// 1 raw unit of a 9-decimal asset at a dust price truncates to zero USD.
	oracle.setPrice("wsol", "0.000001", baseTime)
	_, _, err := k.Deposit(ctx, addrAlice, "wsol", math.NewInt(1))
	if !errors.Is(err, types.ErrZeroValueDeposit) {
		t.Errorf("expected ErrZeroValueDeposit, got %v", err)
	}
}

func TestDepositUninitializedPool(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)

	_, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(1_000_000))
	if !errors.Is(err, types.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}
