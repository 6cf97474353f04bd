package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// AssetPrice reads the oracle price for denom and enforces the module's
// staleness policy against the current block time.
func (k *Keeper) AssetPrice(ctx sdk.Context, denom string) (math.LegacyDec, int64, error) {
	price, publishedAt, err := k.oracleKeeper.GetPrice(ctx, denom)
	if err != nil {
		return math.LegacyDec{}, 0, types.ErrPriceUnavailable.Wrapf("denom %s: %v", denom, err)
	}
	if price.IsNil() || !price.IsPositive() {
		return math.LegacyDec{}, 0, types.ErrPriceUnavailable.Wrapf("denom %s", denom)
	}
	maxAge := k.GetParams(ctx).MaxPriceAgeSeconds
	if age := ctx.BlockTime().Unix() - publishedAt; age > maxAge {
		return math.LegacyDec{}, 0, types.ErrStalePrice.Wrapf("denom %s: price is %ds old, max %ds", denom, age, maxAge)
	}
	return price, publishedAt, nil
}

// AssetValueUsd converts a raw amount of an accepted asset into micro-USD at
// the current oracle price. Truncation favors the pool.
func (k *Keeper) AssetValueUsd(ctx sdk.Context, vault *types.AssetVault, amount math.Int) (math.Int, math.LegacyDec, error) {
	price, publishedAt, err := k.AssetPrice(ctx, vault.Denom)
	if err != nil {
		return math.Int{}, math.LegacyDec{}, err
	}
	vault.LastPrice = price
	vault.PricedAt = publishedAt
	return types.UsdValue(amount, price, vault.Decimals), price, nil
}

// AssetAmountFromUsd converts micro-USD into raw units of an accepted asset at
// the current oracle price. Truncation favors the pool.
func (k *Keeper) AssetAmountFromUsd(ctx sdk.Context, vault *types.AssetVault, usd math.Int) (math.Int, math.LegacyDec, error) {
	price, publishedAt, err := k.AssetPrice(ctx, vault.Denom)
	if err != nil {
		return math.Int{}, math.LegacyDec{}, err
	}
	vault.LastPrice = price
	vault.PricedAt = publishedAt
	return types.AmountFromUsd(usd, price, vault.Decimals), price, nil
}
