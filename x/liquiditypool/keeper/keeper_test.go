package keeper

import (
	"context"
	"fmt"
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

	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

const baseTime = int64(1_700_000_000)

var (
	addrAdmin = sdk.AccAddress([]byte("admin_______________")).String()
	addrAlice = sdk.AccAddress([]byte("alice_______________")).String()
	addrBob   = sdk.AccAddress([]byte("bob_________________")).String()
)

type mockPrice struct {
	price       math.LegacyDec
	publishedAt int64
}

// mockOracleKeeper serves prices from a settable map.
type mockOracleKeeper struct {
	prices map[string]mockPrice
}

func newMockOracle() *mockOracleKeeper {
	return &mockOracleKeeper{prices: make(map[string]mockPrice)}
}

func (m *mockOracleKeeper) setPrice(denom, price string, publishedAt int64) {
	m.prices[denom] = mockPrice{price: math.LegacyMustNewDecFromStr(price), publishedAt: publishedAt}
}

func (m *mockOracleKeeper) GetPrice(ctx sdk.Context, denom string) (math.LegacyDec, int64, error) {
	p, ok := m.prices[denom]
	if !ok {
		return math.LegacyDec{}, 0, fmt.Errorf("no price for %s", denom)
	}
	return p.price, p.publishedAt, nil
}

// mockBankKeeper records transfers without moving real balances.
type mockBankKeeper struct {
	toModule  []sdk.Coins
	toAccount []sdk.Coins
	failSend  bool
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	if m.failSend {
		return fmt.Errorf("send failed")
	}
	m.toModule = append(m.toModule, amt)
	return nil
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	if m.failSend {
		return fmt.Errorf("send failed")
	}
	m.toAccount = append(m.toAccount, amt)
	return nil
}

// setupKeeper creates a test keeper backed by an in-memory IAVL store.
func setupKeeper(t *testing.T) (*Keeper, sdk.Context, *mockOracleKeeper, *mockBankKeeper) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	ctx = ctx.WithBlockTime(time.Unix(baseTime, 0))

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	oracle := newMockOracle()
	oracle.setPrice("usdc", "1.0", baseTime)
	oracle.setPrice("wsol", "100.0", baseTime)

	bank := &mockBankKeeper{}
	k := NewKeeper(cdc, storeKey, oracle, bank, addrAdmin, log.NewNopLogger())

	return k, ctx, oracle, bank
}

// initPool initializes the pool with the default asset set.
func initPool(t *testing.T, k *Keeper, ctx sdk.Context) {
	t.Helper()
	if _, err := k.InitializePool(ctx, addrAdmin, "usdc", nil); err != nil {
		t.Fatalf("initialize pool: %v", err)
	}
}

// advance returns a context with the block time moved forward by d seconds.
func advance(ctx sdk.Context, d int64) sdk.Context {
	return ctx.WithBlockTime(ctx.BlockTime().Add(time.Duration(d) * time.Second))
}
