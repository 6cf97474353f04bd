package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"

	"github.com/openalpha/liquidity-pool/api/types"
	"github.com/openalpha/liquidity-pool/metrics"
	lpkeeper "github.com/openalpha/liquidity-pool/x/liquiditypool/keeper"
	lptypes "github.com/openalpha/liquidity-pool/x/liquiditypool/types"
	oraclekeeper "github.com/openalpha/liquidity-pool/x/oracle/keeper"
)

// KeeperService implements PoolService and PriceService against real keepers
// backed by an in-memory store. It is the standalone mode of the API server:
// the same state machine as the chain, without consensus.
type KeeperService struct {
	poolKeeper   *lpkeeper.Keeper
	oracleKeeper *oraclekeeper.Keeper
	ctx          sdk.Context
	mu           sync.Mutex
}

// memoryBank satisfies the pool keeper's bank interface. Vault balances are
// tracked by the pool records themselves, so transfers only need to be
// acknowledged here.
type memoryBank struct {
	mu        sync.Mutex
	transfers []string
}

func (b *memoryBank) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transfers = append(b.transfers, fmt.Sprintf("%s->%s:%s", senderAddr, recipientModule, amt))
	return nil
}

func (b *memoryBank) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transfers = append(b.transfers, fmt.Sprintf("%s->%s:%s", senderModule, recipientAddr, amt))
	return nil
}

// NewKeeperService creates a KeeperService with an initialized pool and the
// default oracle sources registered.
func NewKeeperService(admin string) (*KeeperService, error) {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	poolStoreKey := storetypes.NewKVStoreKey(lptypes.StoreKey)
	oracleStoreKey := storetypes.NewKVStoreKey("oracle")
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), storemetrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(poolStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(oracleStoreKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Time:   time.Now(),
		Height: 1,
	}, false, log.NewNopLogger())

	oracleK := oraclekeeper.NewKeeper(cdc, oracleStoreKey, log.NewNopLogger())
	oracleK.InitDefaultSources(ctx)

	poolK := lpkeeper.NewKeeper(
		cdc,
		poolStoreKey,
		oracleK,
		&memoryBank{},
		admin,
		log.NewNopLogger(),
	)

	if _, err := poolK.InitializePool(ctx, admin, "usdc", nil); err != nil {
		return nil, fmt.Errorf("failed to initialize pool: %w", err)
	}

	return &KeeperService{
		poolKeeper:   poolK,
		oracleKeeper: oracleK,
		ctx:          ctx,
	}, nil
}

// now returns an sdk context carrying the current wall-clock time, so reward
// accrual tracks real elapsed time in standalone mode.
func (s *KeeperService) now() sdk.Context {
	return s.ctx.WithBlockTime(time.Now())
}

// ============ PoolService ============

func (s *KeeperService) GetPool(ctx context.Context) (*types.PoolStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.poolKeeper.QueryPool(s.now())
	if err != nil {
		return nil, err
	}
	return poolToStatus(pool), nil
}

func (s *KeeperService) GetUser(ctx context.Context, address string) (*types.UserStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, pending, err := s.poolKeeper.QueryUser(s.now(), address)
	if err != nil {
		return nil, err
	}
	return &types.UserStatus{
		Owner:          user.Owner,
		LpBalance:      user.LpBalance.String(),
		PendingRewards: pending.String(),
		LastClaimTime:  user.LastClaimTime,
		CreatedAt:      user.CreatedAt,
	}, nil
}

func (s *KeeperService) Deposit(ctx context.Context, req *types.DepositRequest) (*types.DepositResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, ok := math.NewIntFromString(req.Amount)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", req.Amount)
	}

	sdkCtx := s.now()
	timer := metrics.NewTimer()
	lpMinted, usdValue, err := s.poolKeeper.Deposit(sdkCtx, req.Depositor, req.Denom, amount)
	if err != nil {
		metrics.GetCollector().RecordDepositError(req.Denom)
		return nil, err
	}

	mc := metrics.GetCollector()
	mc.RecordDeposit(req.Denom, intToFloat(usdValue), intToFloat(lpMinted))
	mc.RecordDepositLatency(req.Denom, timer.ElapsedMs())

	return &types.DepositResponse{
		ReceiptID: uuid.New().String(),
		Depositor: req.Depositor,
		Denom:     req.Denom,
		Amount:    amount.String(),
		LpMinted:  lpMinted.String(),
		UsdValue:  usdValue.String(),
		Timestamp: sdkCtx.BlockTime().Unix(),
	}, nil
}

func (s *KeeperService) Withdraw(ctx context.Context, req *types.WithdrawRequest) (*types.WithdrawResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lpAmount, ok := math.NewIntFromString(req.LpAmount)
	if !ok {
		return nil, fmt.Errorf("invalid lp amount: %s", req.LpAmount)
	}

	sdkCtx := s.now()
	timer := metrics.NewTimer()
	amountOut, usdValue, err := s.poolKeeper.Withdraw(sdkCtx, req.Withdrawer, req.Denom, lpAmount)
	if err != nil {
		metrics.GetCollector().RecordWithdrawalError(req.Denom)
		return nil, err
	}

	mc := metrics.GetCollector()
	mc.RecordWithdrawal(req.Denom, intToFloat(usdValue), intToFloat(lpAmount))
	mc.RecordWithdrawalLatency(req.Denom, timer.ElapsedMs())

	return &types.WithdrawResponse{
		ReceiptID:  uuid.New().String(),
		Withdrawer: req.Withdrawer,
		Denom:      req.Denom,
		LpBurned:   lpAmount.String(),
		AmountOut:  amountOut.String(),
		UsdValue:   usdValue.String(),
		Timestamp:  sdkCtx.BlockTime().Unix(),
	}, nil
}

func (s *KeeperService) ClaimRewards(ctx context.Context, req *types.ClaimRequest) (*types.ClaimResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sdkCtx := s.now()
	claimed, err := s.poolKeeper.ClaimRewards(sdkCtx, req.Claimer)
	if err != nil {
		return nil, err
	}

	pool := s.poolKeeper.GetPool(sdkCtx)
	denom := ""
	if pool != nil {
		denom = pool.RewardDenom
	}

	if claimed.IsPositive() {
		metrics.GetCollector().RecordRewardClaim(intToFloat(claimed))
	}

	return &types.ClaimResponse{
		ReceiptID: uuid.New().String(),
		Claimer:   req.Claimer,
		Denom:     denom,
		Amount:    claimed.String(),
		Timestamp: sdkCtx.BlockTime().Unix(),
	}, nil
}

func (s *KeeperService) EstimateDeposit(ctx context.Context, denom, amountStr string) (*types.DepositEstimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, ok := math.NewIntFromString(amountStr)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amountStr)
	}

	lp, usd, err := s.poolKeeper.EstimateDeposit(s.now(), denom, amount)
	if err != nil {
		return nil, err
	}
	return &types.DepositEstimate{
		Denom:    denom,
		Amount:   amount.String(),
		UsdValue: usd.String(),
		LpMinted: lp.String(),
	}, nil
}

func (s *KeeperService) EstimateWithdraw(ctx context.Context, denom, lpAmountStr string) (*types.WithdrawEstimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lpAmount, ok := math.NewIntFromString(lpAmountStr)
	if !ok {
		return nil, fmt.Errorf("invalid lp amount: %s", lpAmountStr)
	}

	amountOut, usd, err := s.poolKeeper.EstimateWithdraw(s.now(), denom, lpAmount)
	if err != nil {
		return nil, err
	}
	return &types.WithdrawEstimate{
		Denom:     denom,
		LpAmount:  lpAmount.String(),
		UsdValue:  usd.String(),
		AmountOut: amountOut.String(),
	}, nil
}

// ============ PriceService ============

func (s *KeeperService) GetPrice(ctx context.Context, denom string) (*types.PriceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, publishedAt, err := s.oracleKeeper.GetPrice(s.now(), denom)
	if err != nil {
		return nil, err
	}
	return &types.PriceStatus{
		Denom:       denom,
		Price:       price.String(),
		PublishedAt: publishedAt,
	}, nil
}

func (s *KeeperService) SubmitPrice(ctx context.Context, req *types.SubmitPriceRequest) (*types.PriceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, err := math.LegacyNewDecFromStr(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %s", req.Price)
	}

	sdkCtx := s.now()
	if err := s.oracleKeeper.SubmitPrice(sdkCtx, req.SourceID, req.Denom, price); err != nil {
		metrics.GetCollector().RecordOracleRejection(req.SourceID, "rejected")
		return nil, err
	}
	metrics.GetCollector().RecordOracleSubmission(req.SourceID, req.Denom)

	aggregated, publishedAt, err := s.oracleKeeper.GetPrice(sdkCtx, req.Denom)
	if err != nil {
		// Below quorum; echo the raw submission.
		return &types.PriceStatus{
			Denom:       req.Denom,
			Price:       price.String(),
			PublishedAt: sdkCtx.BlockTime().Unix(),
		}, nil
	}
	return &types.PriceStatus{
		Denom:       req.Denom,
		Price:       aggregated.String(),
		PublishedAt: publishedAt,
	}, nil
}

// intToFloat converts an Int for gauge/counter use; precision loss is fine
// for metrics.
func intToFloat(v math.Int) float64 {
	f, err := math.LegacyNewDecFromInt(v).Float64()
	if err != nil {
		return 0
	}
	return f
}

// poolToStatus converts pool state to the API response shape
func poolToStatus(pool *lptypes.PoolState) *types.PoolStatus {
	assets := make([]types.AssetStatus, 0, len(pool.Assets))
	for _, vault := range pool.Assets {
		assets = append(assets, types.AssetStatus{
			Denom:     vault.Denom,
			Decimals:  vault.Decimals,
			Balance:   vault.Balance.String(),
			Deposited: vault.Deposited.String(),
			LastPrice: vault.LastPrice.String(),
			PricedAt:  vault.PricedAt,
		})
	}

	return &types.PoolStatus{
		Admin:                 pool.Admin,
		Paused:                pool.Paused,
		AumUsd:                pool.AumUsd.String(),
		LpSupply:              pool.LpSupply.String(),
		Assets:                assets,
		RewardDenom:           pool.RewardDenom,
		RewardVaultBalance:    pool.RewardVaultBalance.String(),
		TokensPerInterval:     pool.TokensPerInterval.String(),
		RewardStartTime:       pool.RewardStartTime,
		RewardEndTime:         pool.RewardEndTime,
		TotalRewardsDeposited: pool.TotalRewardsDeposited.String(),
		TotalRewardsClaimed:   pool.TotalRewardsClaimed.String(),
		UpdatedAt:             pool.UpdatedAt,
	}
}
