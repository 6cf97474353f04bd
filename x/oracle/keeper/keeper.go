package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/oracle/types"
)

// Store key prefixes
var (
	SourceKeyPrefix      = []byte{0x01}
	SourcePriceKeyPrefix = []byte{0x02}
	PriceKeyPrefix       = []byte{0x03}
	ConfigKey            = []byte{0x04}
)

// Keeper manages the oracle module state
type Keeper struct {
	cdc      codec.BinaryCodec
	storeKey storetypes.StoreKey
	logger   log.Logger
}

// NewKeeper creates a new oracle keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:      cdc,
		storeKey: storeKey,
		logger:   logger.With("module", "x/oracle"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Config Operations ============

// SetConfig saves oracle configuration
func (k *Keeper) SetConfig(ctx sdk.Context, config types.Config) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(config)
	store.Set(ConfigKey, bz)
}

// GetConfig retrieves oracle configuration, falling back to defaults
func (k *Keeper) GetConfig(ctx sdk.Context) types.Config {
	store := k.GetStore(ctx)
	bz := store.Get(ConfigKey)
	if bz == nil {
		return types.DefaultConfig()
	}
	var config types.Config
	if err := json.Unmarshal(bz, &config); err != nil {
		return types.DefaultConfig()
	}
	return config
}

// ============ Source Operations ============

// SetSource saves a price source
func (k *Keeper) SetSource(ctx sdk.Context, source *types.Source) {
	store := k.GetStore(ctx)
	key := append(SourceKeyPrefix, []byte(source.SourceID)...)
	bz, _ := json.Marshal(source)
	store.Set(key, bz)
}

// GetSource retrieves a price source
func (k *Keeper) GetSource(ctx sdk.Context, sourceID string) *types.Source {
	store := k.GetStore(ctx)
	key := append(SourceKeyPrefix, []byte(sourceID)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var source types.Source
	if err := json.Unmarshal(bz, &source); err != nil {
		return nil
	}
	return &source
}

// GetAllSources retrieves all price sources
func (k *Keeper) GetAllSources(ctx sdk.Context) []*types.Source {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, SourceKeyPrefix)
	defer iterator.Close()

	var sources []*types.Source
	for ; iterator.Valid(); iterator.Next() {
		var source types.Source
		if err := json.Unmarshal(iterator.Value(), &source); err != nil {
			continue
		}
		sources = append(sources, &source)
	}
	return sources
}

// InitDefaultSources registers the configured default sources
func (k *Keeper) InitDefaultSources(ctx sdk.Context) {
	config := k.GetConfig(ctx)
	for sourceID, weight := range config.SourceWeights {
		if k.GetSource(ctx, sourceID) != nil {
			continue
		}
		k.SetSource(ctx, &types.Source{
			SourceID: sourceID,
			Weight:   weight,
			IsActive: true,
		})
		k.logger.Info("Registered oracle source", "source", sourceID, "weight", weight)
	}
}
