package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// Store key prefixes
var (
	PoolKey       = []byte{0x01}
	UserKeyPrefix = []byte{0x02}
	ParamsKey     = []byte{0x03}
)

// OracleKeeper defines the expected interface for the price oracle module
type OracleKeeper interface {
	GetPrice(ctx sdk.Context, denom string) (price math.LegacyDec, publishedAt int64, err error)
}

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// Keeper manages the liquiditypool module state
type Keeper struct {
	cdc          codec.BinaryCodec
	storeKey     storetypes.StoreKey
	oracleKeeper OracleKeeper
	bankKeeper   BankKeeper
	logger       log.Logger
	authority    string
}

// NewKeeper creates a new liquiditypool keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	oracleKeeper OracleKeeper,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	k := &Keeper{
		cdc:          cdc,
		storeKey:     storeKey,
		oracleKeeper: oracleKeeper,
		bankKeeper:   bankKeeper,
		authority:    authority,
		logger:       logger.With("module", "x/liquiditypool"),
	}
	return k
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Pool Operations ============

// SetPool saves the pool singleton to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.PoolState) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pool)
	store.Set(PoolKey, bz)
}

// GetPool retrieves the pool singleton, or nil if not initialized
func (k *Keeper) GetPool(ctx sdk.Context) *types.PoolState {
	store := k.GetStore(ctx)
	bz := store.Get(PoolKey)
	if bz == nil {
		return nil
	}
	var pool types.PoolState
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// DeletePool removes the pool singleton
func (k *Keeper) DeletePool(ctx sdk.Context) {
	store := k.GetStore(ctx)
	store.Delete(PoolKey)
}

// ============ User Operations ============

// userKey generates the key for a user record
func userKey(owner string) []byte {
	return append(UserKeyPrefix, []byte(owner)...)
}

// SetUser saves a user record to the store
func (k *Keeper) SetUser(ctx sdk.Context, user *types.UserState) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(user)
	store.Set(userKey(user.Owner), bz)
}

// GetUser retrieves a user record, or nil if absent
func (k *Keeper) GetUser(ctx sdk.Context, owner string) *types.UserState {
	store := k.GetStore(ctx)
	bz := store.Get(userKey(owner))
	if bz == nil {
		return nil
	}
	var user types.UserState
	if err := json.Unmarshal(bz, &user); err != nil {
		return nil
	}
	return &user
}

// DeleteUser removes a user record
func (k *Keeper) DeleteUser(ctx sdk.Context, owner string) {
	store := k.GetStore(ctx)
	store.Delete(userKey(owner))
}

// GetAllUsers returns all user records
func (k *Keeper) GetAllUsers(ctx sdk.Context) []*types.UserState {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, UserKeyPrefix)
	defer iterator.Close()

	var users []*types.UserState
	for ; iterator.Valid(); iterator.Next() {
		var user types.UserState
		if err := json.Unmarshal(iterator.Value(), &user); err != nil {
			continue
		}
		users = append(users, &user)
	}
	return users
}

// ============ Params Operations ============

// SetParams saves module params to the store
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(params)
	store.Set(ParamsKey, bz)
}

// GetParams retrieves module params, falling back to defaults
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	store := k.GetStore(ctx)
	bz := store.Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}
