package keeper

import (
	"errors"
	"testing"

	"cosmossdk.io/math"

	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

func TestInitializeOnlyOnce(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)

	pool, err := k.InitializePool(ctx, addrAdmin, "usdc", nil)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if len(pool.Assets) != 2 {
		t.Errorf("expected 2 default assets, got %d", len(pool.Assets))
	}
	if pool.Vault("wsol") == nil || pool.Vault("usdc") == nil {
		t.Error("expected wsol and usdc vaults")
	}
	if pool.Paused {
		t.Error("expected pool to start unpaused")
	}

	if _, err := k.InitializePool(ctx, addrAdmin, "usdc", nil); !errors.Is(err, types.ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestInitializeCustomAssets(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)

	assets := []types.AssetConfig{{Denom: "weth", Decimals: 18}}
	pool, err := k.InitializePool(ctx, addrAdmin, "weth", assets)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if pool.Vault("weth") == nil {
		t.Error("expected weth vault")
	}
	if pool.RewardDenom != "weth" {
		t.Errorf("expected reward denom weth, got %s", pool.RewardDenom)
	}
}

func TestSetPauseAuthority(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if err := k.SetPause(ctx, addrAlice, true); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	if err := k.SetPause(ctx, addrAdmin, true); err != nil {
		t.Fatalf("set pause: %v", err)
	}
	if !k.GetPool(ctx).Paused {
		t.Error("expected pool paused")
	}

	if err := k.SetPause(ctx, addrAdmin, false); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if k.GetPool(ctx).Paused {
		t.Error("expected pool unpaused")
	}
}

func TestAdminWithdrawLeavesAumUntouched(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	balance, err := k.AdminWithdraw(ctx, addrAdmin, "usdc", math.NewInt(4_000_000))
	if err != nil {
		t.Fatalf("admin withdraw: %v", err)
	}
	if !balance.Equal(math.NewInt(6_000_000)) {
		t.Errorf("expected vault balance 6000000, got %s", balance)
	}

	pool := k.GetPool(ctx)
	if !pool.AumUsd.Equal(math.NewInt(10_000_000)) {
		t.Errorf("expected AUM unchanged at 10000000, got %s", pool.AumUsd)
	}
	if !pool.LpSupply.Equal(math.NewInt(10_000_000)) {
		t.Errorf("expected supply unchanged at 10000000, got %s", pool.LpSupply)
	}
}

func TestAdminWithdrawValidation(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, err := k.AdminWithdraw(ctx, addrAlice, "usdc", math.NewInt(1)); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := k.AdminWithdraw(ctx, addrAdmin, "doge", math.NewInt(1)); !errors.Is(err, types.ErrInvalidAsset) {
		t.Errorf("expected ErrInvalidAsset, got %v", err)
	}
	if _, err := k.AdminWithdraw(ctx, addrAdmin, "usdc", math.NewInt(1)); !errors.Is(err, types.ErrInsufficientVaultLiquidity) {
		t.Errorf("expected ErrInsufficientVaultLiquidity on empty vault, got %v", err)
	}
}

func TestAdminDepositRaisesAum(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(10_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	aum, err := k.AdminDeposit(ctx, addrAdmin, "usdc", math.NewInt(5_000_000))
	if err != nil {
		t.Fatalf("admin deposit: %v", err)
	}
	if !aum.Equal(math.NewInt(15_000_000)) {
		t.Errorf("expected AUM 15000000, got %s", aum)
	}

	pool := k.GetPool(ctx)
	if !pool.LpSupply.Equal(math.NewInt(10_000_000)) {
		t.Errorf("expected supply unchanged, got %s", pool.LpSupply)
	}
	if !pool.Assets["usdc"].Balance.Equal(math.NewInt(15_000_000)) {
		t.Errorf("expected vault balance 15000000, got %s", pool.Assets["usdc"].Balance)
	}
}

func TestClosePoolRequiresEmpty(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(1_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := k.ClosePool(ctx, addrAdmin); !errors.Is(err, types.ErrNotEmpty) {
		t.Errorf("expected ErrNotEmpty, got %v", err)
	}

	// Drain and close.
	if _, _, err := k.Withdraw(ctx, addrAlice, "usdc", math.NewInt(1_000_000)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if err := k.ClosePool(ctx, addrAlice); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := k.ClosePool(ctx, addrAdmin); err != nil {
		t.Fatalf("close pool: %v", err)
	}
	if k.GetPool(ctx) != nil {
		t.Error("expected pool record deleted")
	}
}

func TestCloseUserState(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	if _, _, err := k.Deposit(ctx, addrAlice, "usdc", math.NewInt(1_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// Non-empty records cannot be closed.
	if err := k.CloseUserState(ctx, addrAlice, addrAlice); !errors.Is(err, types.ErrNotEmpty) {
		t.Errorf("expected ErrNotEmpty, got %v", err)
	}

	if _, _, err := k.Withdraw(ctx, addrAlice, "usdc", math.NewInt(1_000_000)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	// A third party may not close someone else's record.
	if err := k.CloseUserState(ctx, addrBob, addrAlice); !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	// The owner may close their own empty record.
	if err := k.CloseUserState(ctx, addrAlice, addrAlice); err != nil {
		t.Fatalf("close user: %v", err)
	}
	if k.GetUser(ctx, addrAlice) != nil {
		t.Error("expected user record deleted")
	}

	if err := k.CloseUserState(ctx, addrAlice, addrAlice); !errors.Is(err, types.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCloseUserStateByAdmin(t *testing.T) {
	k, ctx, _, _ := setupKeeper(t)
	initPool(t, k, ctx)

	user := types.NewUserState(addrBob, baseTime)
	k.SetUser(ctx, user)

	if err := k.CloseUserState(ctx, addrAdmin, addrBob); err != nil {
		t.Fatalf("admin close: %v", err)
	}
	if k.GetUser(ctx, addrBob) != nil {
		t.Error("expected user record deleted")
	}
}
