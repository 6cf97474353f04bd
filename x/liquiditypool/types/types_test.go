package types

import (
	"testing"

	"cosmossdk.io/math"
)

func TestUsdValue(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		price    string
		decimals uint32
		want     int64
	}{
		{"one whole stable at par", 1_000_000, "1.0", 6, 1_000_000},
		{"nine decimal asset", 1_000_000_000, "100.0", 9, 100_000_000},
		{"fractional price", 2_000_000, "0.5", 6, 1_000_000},
		{"truncates toward zero", 1, "1.5", 6, 1},
		{"dust truncates to zero", 1, "0.000001", 9, 0},
		{"zero amount", 0, "100.0", 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UsdValue(math.NewInt(tt.amount), math.LegacyMustNewDecFromStr(tt.price), tt.decimals)
			if !got.Equal(math.NewInt(tt.want)) {
				t.Errorf("expected %d, got %s", tt.want, got)
			}
		})
	}
}

func TestAmountFromUsd(t *testing.T) {
	tests := []struct {
		name     string
		usd      int64
		price    string
		decimals uint32
		want     int64
	}{
		{"par stable", 1_000_000, "1.0", 6, 1_000_000},
		{"nine decimal asset", 100_000_000, "100.0", 9, 1_000_000_000},
		{"truncates toward zero", 1, "3.0", 6, 0},
		{"partial unit", 10_000_000, "100.0", 9, 100_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountFromUsd(math.NewInt(tt.usd), math.LegacyMustNewDecFromStr(tt.price), tt.decimals)
			if !got.Equal(math.NewInt(tt.want)) {
				t.Errorf("expected %d, got %s", tt.want, got)
			}
		})
	}
}

func TestClampToRewardWindow(t *testing.T) {
	pool := &PoolState{RewardStartTime: 100, RewardEndTime: 200}

	if got := pool.ClampToRewardWindow(50); got != 100 {
		t.Errorf("expected clamp to start 100, got %d", got)
	}
	if got := pool.ClampToRewardWindow(150); got != 150 {
		t.Errorf("expected passthrough 150, got %d", got)
	}
	if got := pool.ClampToRewardWindow(250); got != 200 {
		t.Errorf("expected clamp to end 200, got %d", got)
	}
}

func TestPoolIsEmpty(t *testing.T) {
	pool := NewPoolState("admin", "usdc", 0)
	pool.Assets["usdc"] = NewAssetVault("usdc", 6)
	if !pool.IsEmpty() {
		t.Error("expected fresh pool to be empty")
	}

	pool.Assets["usdc"].Balance = math.NewInt(1)
	if pool.IsEmpty() {
		t.Error("expected pool with vault funds to be non-empty")
	}

	pool.Assets["usdc"].Balance = math.ZeroInt()
	pool.RewardVaultBalance = math.NewInt(1)
	if pool.IsEmpty() {
		t.Error("expected pool with reward funds to be non-empty")
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("default params should validate, got %v", err)
	}

	p := DefaultParams()
	p.MaxPriceAgeSeconds = 0
	if err := p.Validate(); err == nil {
		t.Error("expected error for zero max price age")
	}

	p = DefaultParams()
	p.DefaultAssets = append(p.DefaultAssets, AssetConfig{Denom: "usdc", Decimals: 6})
	if err := p.Validate(); err == nil {
		t.Error("expected error for duplicate asset")
	}
}
