package keeper

import (
	"encoding/json"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/oracle/types"
)

// weightedPrice pairs a submission with its source weight for aggregation
type weightedPrice struct {
	price  math.LegacyDec
	weight int
}

// SubmitPrice records a price submission from a registered source and
// refreshes the aggregated price for the denom.
func (k *Keeper) SubmitPrice(ctx sdk.Context, sourceID, denom string, price math.LegacyDec) error {
	source := k.GetSource(ctx, sourceID)
	if source == nil {
		return types.ErrSourceNotFound.Wrapf("source %s", sourceID)
	}
	if !source.IsActive {
		return types.ErrSourceInactive.Wrapf("source %s", sourceID)
	}
	if price.IsNil() || !price.IsPositive() {
		return types.ErrInvalidPrice.Wrapf("source %s denom %s", sourceID, denom)
	}

	source.LastPrice = price
	source.LastUpdate = ctx.BlockTime()
	k.SetSource(ctx, source)

	k.setSourcePrice(ctx, &types.SourcePrice{
		SourceID:  sourceID,
		Denom:     denom,
		Price:     price,
		Timestamp: ctx.BlockTime(),
	})

	aggregated, err := k.aggregate(ctx, denom)
	if err != nil {
		// Not enough fresh sources yet; keep the last aggregate.
		k.logger.Debug("aggregation deferred", "denom", denom, "err", err)
		return nil
	}
	k.setPrice(ctx, &types.PriceInfo{
		Denom:       denom,
		Price:       aggregated,
		PublishedAt: ctx.BlockTime().Unix(),
	})

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"oracle_price_submitted",
			sdk.NewAttribute("source", sourceID),
			sdk.NewAttribute("denom", denom),
			sdk.NewAttribute("price", price.String()),
			sdk.NewAttribute("aggregated", aggregated.String()),
		),
	)

	return nil
}

// setSourcePrice stores a source submission for aggregation
func (k *Keeper) setSourcePrice(ctx sdk.Context, sp *types.SourcePrice) {
	store := k.GetStore(ctx)
	key := append(SourcePriceKeyPrefix, []byte(sp.SourceID+":"+sp.Denom)...)
	bz, _ := json.Marshal(sp)
	store.Set(key, bz)
}

// getSourcePrice retrieves a stored source submission
func (k *Keeper) getSourcePrice(ctx sdk.Context, sourceID, denom string) *types.SourcePrice {
	store := k.GetStore(ctx)
	key := append(SourcePriceKeyPrefix, []byte(sourceID+":"+denom)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var sp types.SourcePrice
	if err := json.Unmarshal(bz, &sp); err != nil {
		return nil
	}
	return &sp
}

// setPrice stores the aggregated price for a denom
func (k *Keeper) setPrice(ctx sdk.Context, info *types.PriceInfo) {
	store := k.GetStore(ctx)
	key := append(PriceKeyPrefix, []byte(info.Denom)...)
	bz, _ := json.Marshal(info)
	store.Set(key, bz)
}

// GetPrice returns the aggregated price and its publish time for a denom.
// Staleness policy is left to the consumer.
func (k *Keeper) GetPrice(ctx sdk.Context, denom string) (math.LegacyDec, int64, error) {
	store := k.GetStore(ctx)
	key := append(PriceKeyPrefix, []byte(denom)...)
	bz := store.Get(key)
	if bz == nil {
		return math.LegacyDec{}, 0, types.ErrPriceUnavailable.Wrapf("denom %s", denom)
	}
	var info types.PriceInfo
	if err := json.Unmarshal(bz, &info); err != nil {
		return math.LegacyDec{}, 0, types.ErrPriceUnavailable.Wrapf("denom %s", denom)
	}
	return info.Price, info.PublishedAt, nil
}

// aggregate combines fresh source submissions into a weighted average around
// the median, dropping stale submissions and outliers.
func (k *Keeper) aggregate(ctx sdk.Context, denom string) (math.LegacyDec, error) {
	config := k.GetConfig(ctx)
	now := ctx.BlockTime()

	var valid []weightedPrice
	for _, source := range k.GetAllSources(ctx) {
		if !source.IsActive {
			continue
		}
		sp := k.getSourcePrice(ctx, source.SourceID, denom)
		if sp == nil {
			continue
		}
		if now.Sub(sp.Timestamp) > config.MaxPriceAge {
			continue
		}
		valid = append(valid, weightedPrice{price: sp.Price, weight: source.Weight})
	}

	if len(valid) < config.MinSources {
		return math.LegacyDec{}, types.ErrInsufficientSources.Wrapf("%d < %d required", len(valid), config.MinSources)
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].price.LT(valid[j].price)
	})
	median := valid[len(valid)/2].price

	totalWeight := 0
	weightedSum := math.LegacyZeroDec()
	for _, wp := range valid {
		deviation := wp.price.Sub(median).Abs().Quo(median)
		if deviation.GT(config.MaxDeviation) {
			continue
		}
		weightedSum = weightedSum.Add(wp.price.MulInt64(int64(wp.weight)))
		totalWeight += wp.weight
	}
	if totalWeight == 0 {
		return math.LegacyDec{}, types.ErrAllPricesFiltered
	}

	return weightedSum.QuoInt64(int64(totalWeight)), nil
}
