package liquiditypool

import (
	"encoding/json"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/openalpha/liquidity-pool/x/liquiditypool/keeper"
	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for liquiditypool
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgInitialize{}, "liquiditypool/MsgInitialize", nil)
	cdc.RegisterConcrete(&types.MsgDeposit{}, "liquiditypool/MsgDeposit", nil)
	cdc.RegisterConcrete(&types.MsgWithdraw{}, "liquiditypool/MsgWithdraw", nil)
	cdc.RegisterConcrete(&types.MsgStartRewards{}, "liquiditypool/MsgStartRewards", nil)
	cdc.RegisterConcrete(&types.MsgClaimRewards{}, "liquiditypool/MsgClaimRewards", nil)
	cdc.RegisterConcrete(&types.MsgAdminDeposit{}, "liquiditypool/MsgAdminDeposit", nil)
	cdc.RegisterConcrete(&types.MsgAdminWithdraw{}, "liquiditypool/MsgAdminWithdraw", nil)
	cdc.RegisterConcrete(&types.MsgSetPause{}, "liquiditypool/MsgSetPause", nil)
	cdc.RegisterConcrete(&types.MsgClosePool{}, "liquiditypool/MsgClosePool", nil)
	cdc.RegisterConcrete(&types.MsgCloseUserState{}, "liquiditypool/MsgCloseUserState", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&types.MsgInitialize{},
		&types.MsgDeposit{},
		&types.MsgWithdraw{},
		&types.MsgStartRewards{},
		&types.MsgClaimRewards{},
		&types.MsgAdminDeposit{},
		&types.MsgAdminWithdraw{},
		&types.MsgSetPause{},
		&types.MsgClosePool{},
		&types.MsgCloseUserState{},
	)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	return nil
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	return nil
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
}

// AppModule implements an application module for the liquiditypool module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services
func (am AppModule) RegisterServices(cfg module.Configurator) {
	_ = keeper.NewMsgServerImpl(am.keeper)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}
