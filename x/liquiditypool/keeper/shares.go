package keeper

import (
	"cosmossdk.io/math"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// lpForDeposit returns the LP tokens to mint for a deposit worth usd micro-USD.
// An empty pool mints 1:1 against USD value; otherwise the mint is pro-rata
// against the pre-deposit supply and AUM, floored.
func lpForDeposit(pool *types.PoolState, usd math.Int) (math.Int, error) {
	if usd.IsZero() {
		return math.Int{}, types.ErrZeroValueDeposit
	}

	var minted math.Int
	if pool.LpSupply.IsZero() || pool.AumUsd.IsZero() {
		minted = usd
	} else {
		minted = usd.Mul(pool.LpSupply).Quo(pool.AumUsd)
	}
	if minted.IsZero() {
		return math.Int{}, types.ErrZeroValueDeposit
	}
	if pool.LpSupply.Add(minted).GT(types.MaxLpSupply) {
		return math.Int{}, types.ErrOverflow
	}
	return minted, nil
}

// usdForRedemption returns the micro-USD value a burn of lp LP tokens redeems,
// floored against the pre-withdrawal supply and AUM.
func usdForRedemption(pool *types.PoolState, lp math.Int) math.Int {
	if pool.LpSupply.IsZero() {
		return math.ZeroInt()
	}
	return lp.Mul(pool.AumUsd).Quo(pool.LpSupply)
}

// mintShares credits lp to the user record and the pool supply.
func mintShares(pool *types.PoolState, user *types.UserState, lp math.Int) {
	user.LpBalance = user.LpBalance.Add(lp)
	pool.LpSupply = pool.LpSupply.Add(lp)
}

// burnShares debits lp from the user record and the pool supply.
func burnShares(pool *types.PoolState, user *types.UserState, lp math.Int) error {
	if user.LpBalance.LT(lp) {
		return types.ErrInsufficientBalance.Wrapf("have %s, need %s", user.LpBalance, lp)
	}
	user.LpBalance = user.LpBalance.Sub(lp)
	pool.LpSupply = pool.LpSupply.Sub(lp)
	return nil
}
