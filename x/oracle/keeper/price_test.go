package keeper

import (
	"errors"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/liquidity-pool/x/oracle/types"
)

func setupKeeper(t *testing.T) (*Keeper, sdk.Context) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	ctx = ctx.WithBlockTime(time.Unix(1_700_000_000, 0))

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	k := NewKeeper(cdc, storeKey, log.NewNopLogger())
	k.InitDefaultSources(ctx)
	return k, ctx
}

func TestSubmitAndGetPrice(t *testing.T) {
	k, ctx := setupKeeper(t)

	if err := k.SubmitPrice(ctx, "pyth", "wsol", math.LegacyNewDec(100)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	price, publishedAt, err := k.GetPrice(ctx, "wsol")
	if err != nil {
		t.Fatalf("get price: %v", err)
	}
	if !price.Equal(math.LegacyNewDec(100)) {
		t.Errorf("expected price 100, got %s", price)
	}
	if publishedAt != ctx.BlockTime().Unix() {
		t.Errorf("expected publish time %d, got %d", ctx.BlockTime().Unix(), publishedAt)
	}
}

func TestGetPriceUnknownDenom(t *testing.T) {
	k, ctx := setupKeeper(t)

	_, _, err := k.GetPrice(ctx, "doge")
	if !errors.Is(err, types.ErrPriceUnavailable) {
		t.Errorf("expected ErrPriceUnavailable, got %v", err)
	}
}

func TestSubmitRejectsUnknownSource(t *testing.T) {
	k, ctx := setupKeeper(t)

	err := k.SubmitPrice(ctx, "nobody", "wsol", math.LegacyNewDec(100))
	if !errors.Is(err, types.ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestSubmitRejectsInactiveSource(t *testing.T) {
	k, ctx := setupKeeper(t)

	source := k.GetSource(ctx, "pyth")
	source.IsActive = false
	k.SetSource(ctx, source)

	err := k.SubmitPrice(ctx, "pyth", "wsol", math.LegacyNewDec(100))
	if !errors.Is(err, types.ErrSourceInactive) {
		t.Errorf("expected ErrSourceInactive, got %v", err)
	}
}

func TestSubmitRejectsNonPositivePrice(t *testing.T) {
	k, ctx := setupKeeper(t)

	err := k.SubmitPrice(ctx, "pyth", "wsol", math.LegacyZeroDec())
	if !errors.Is(err, types.ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestAggregationWeightsSources(t *testing.T) {
	k, ctx := setupKeeper(t)

	// pyth weight 3 at 101, switchboard weight 2 at 99, chainlink weight 2 at 100.
	if err := k.SubmitPrice(ctx, "pyth", "wsol", math.LegacyNewDec(101)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := k.SubmitPrice(ctx, "switchboard", "wsol", math.LegacyNewDec(99)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := k.SubmitPrice(ctx, "chainlink", "wsol", math.LegacyNewDec(100)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	price, _, err := k.GetPrice(ctx, "wsol")
	if err != nil {
		t.Fatalf("get price: %v", err)
	}
	// (101*3 + 99*2 + 100*2) / 7
	want := math.LegacyNewDec(701).QuoInt64(7)
	if !price.Equal(want) {
		t.Errorf("expected weighted price %s, got %s", want, price)
	}
}

func TestAggregationDropsOutliers(t *testing.T) {
	k, ctx := setupKeeper(t)

	if err := k.SubmitPrice(ctx, "pyth", "wsol", math.LegacyNewDec(100)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := k.SubmitPrice(ctx, "chainlink", "wsol", math.LegacyNewDec(100)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// A 50% outlier must not move the aggregate.
	if err := k.SubmitPrice(ctx, "switchboard", "wsol", math.LegacyNewDec(150)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	price, _, err := k.GetPrice(ctx, "wsol")
	if err != nil {
		t.Fatalf("get price: %v", err)
	}
	if !price.Equal(math.LegacyNewDec(100)) {
		t.Errorf("expected outlier-filtered price 100, got %s", price)
	}
}

func TestAggregationSkipsStaleSubmissions(t *testing.T) {
	k, ctx := setupKeeper(t)

	if err := k.SubmitPrice(ctx, "pyth", "wsol", math.LegacyNewDec(90)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Ten minutes later only the fresh submission counts.
	later := ctx.WithBlockTime(ctx.BlockTime().Add(10 * time.Minute))
	if err := k.SubmitPrice(later, "chainlink", "wsol", math.LegacyNewDec(110)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	price, _, err := k.GetPrice(later, "wsol")
	if err != nil {
		t.Fatalf("get price: %v", err)
	}
	if !price.Equal(math.LegacyNewDec(110)) {
		t.Errorf("expected fresh-only price 110, got %s", price)
	}
}

func TestAggregationRequiresMinSources(t *testing.T) {
	k, ctx := setupKeeper(t)

	config := k.GetConfig(ctx)
	config.MinSources = 2
	k.SetConfig(ctx, config)

	if err := k.SubmitPrice(ctx, "pyth", "wsol", math.LegacyNewDec(100)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// One source is below quorum, so no aggregate is published yet.
	_, _, err := k.GetPrice(ctx, "wsol")
	if !errors.Is(err, types.ErrPriceUnavailable) {
		t.Errorf("expected ErrPriceUnavailable below quorum, got %v", err)
	}

	if err := k.SubmitPrice(ctx, "chainlink", "wsol", math.LegacyNewDec(100)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, _, err := k.GetPrice(ctx, "wsol"); err != nil {
		t.Errorf("expected price after quorum, got %v", err)
	}
}
