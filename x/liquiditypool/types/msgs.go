package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgInitialize     = "initialize"
	TypeMsgDeposit        = "deposit"
	TypeMsgWithdraw       = "withdraw"
	TypeMsgStartRewards   = "start_rewards"
	TypeMsgClaimRewards   = "claim_rewards"
	TypeMsgAdminDeposit   = "admin_deposit"
	TypeMsgAdminWithdraw  = "admin_withdraw"
	TypeMsgSetPause       = "set_pause"
	TypeMsgClosePool      = "close_pool"
	TypeMsgCloseUserState = "close_user_state"
)

// MsgInitialize defines the Initialize message
type MsgInitialize struct {
	Admin       string        `json:"admin"`
	RewardDenom string        `json:"reward_denom"`
	Assets      []AssetConfig `json:"assets,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgInitialize) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgInitialize) Type() string { return TypeMsgInitialize }

// ValidateBasic implements sdk.Msg
func (msg MsgInitialize) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return err
	}
	seen := make(map[string]bool, len(msg.Assets))
	for _, a := range msg.Assets {
		if a.Denom == "" || seen[a.Denom] {
			return ErrInvalidAsset
		}
		seen[a.Denom] = true
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgInitialize) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgInitialize) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgInitialize) Reset() { *msg = MsgInitialize{} }

// String implements proto.Message
func (msg MsgInitialize) String() string {
	return fmt.Sprintf("MsgInitialize{Admin: %s, RewardDenom: %s}", msg.Admin, msg.RewardDenom)
}

// MsgInitializeResponse defines the Initialize response
type MsgInitializeResponse struct {
	Assets []string `json:"assets"`
}

// MsgDeposit defines the Deposit message
type MsgDeposit struct {
	Depositor string `json:"depositor"`
	Denom     string `json:"denom"`
	Amount    string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgDeposit) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDeposit) Type() string { return TypeMsgDeposit }

// ValidateBasic implements sdk.Msg
func (msg MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Depositor); err != nil {
		return err
	}
	if msg.Denom == "" {
		return ErrInvalidAsset
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgDeposit) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Depositor)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgDeposit) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDeposit) Reset() { *msg = MsgDeposit{} }

// String implements proto.Message
func (msg MsgDeposit) String() string {
	return fmt.Sprintf("MsgDeposit{Depositor: %s, Denom: %s, Amount: %s}", msg.Depositor, msg.Denom, msg.Amount)
}

// MsgDepositResponse defines the Deposit response
type MsgDepositResponse struct {
	LpMinted   string `json:"lp_minted"`
	LpBalance  string `json:"lp_balance"`
	UsdValue   string `json:"usd_value"`
	LpSupply   string `json:"lp_supply"`
	PoolAumUsd string `json:"pool_aum_usd"`
}

// MsgWithdraw defines the Withdraw message
type MsgWithdraw struct {
	Withdrawer string `json:"withdrawer"`
	Denom      string `json:"denom"`
	LpAmount   string `json:"lp_amount"`
}

// Route implements sdk.Msg
func (msg MsgWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Withdrawer); err != nil {
		return err
	}
	if msg.Denom == "" {
		return ErrInvalidAsset
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Withdrawer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdraw) Reset() { *msg = MsgWithdraw{} }

// String implements proto.Message
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Withdrawer: %s, Denom: %s, LpAmount: %s}", msg.Withdrawer, msg.Denom, msg.LpAmount)
}

// MsgWithdrawResponse defines the Withdraw response
type MsgWithdrawResponse struct {
	AmountOut  string `json:"amount_out"`
	UsdValue   string `json:"usd_value"`
	LpBalance  string `json:"lp_balance"`
	LpSupply   string `json:"lp_supply"`
	PoolAumUsd string `json:"pool_aum_usd"`
}

// MsgStartRewards defines the StartRewards message
type MsgStartRewards struct {
	Admin             string `json:"admin"`
	Amount            string `json:"amount"`
	TokensPerInterval string `json:"tokens_per_interval"`
}

// Route implements sdk.Msg
func (msg MsgStartRewards) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgStartRewards) Type() string { return TypeMsgStartRewards }

// ValidateBasic implements sdk.Msg
func (msg MsgStartRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgStartRewards) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgStartRewards) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgStartRewards) Reset() { *msg = MsgStartRewards{} }

// String implements proto.Message
func (msg MsgStartRewards) String() string {
	return fmt.Sprintf("MsgStartRewards{Admin: %s, Amount: %s, Rate: %s}", msg.Admin, msg.Amount, msg.TokensPerInterval)
}

// MsgStartRewardsResponse defines the StartRewards response
type MsgStartRewardsResponse struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
}

// MsgClaimRewards defines the ClaimRewards message
type MsgClaimRewards struct {
	Claimer string `json:"claimer"`
}

// Route implements sdk.Msg
func (msg MsgClaimRewards) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimRewards) Type() string { return TypeMsgClaimRewards }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Claimer); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimRewards) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Claimer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaimRewards) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimRewards) Reset() { *msg = MsgClaimRewards{} }

// String implements proto.Message
func (msg MsgClaimRewards) String() string {
	return fmt.Sprintf("MsgClaimRewards{Claimer: %s}", msg.Claimer)
}

// MsgClaimRewardsResponse defines the ClaimRewards response
type MsgClaimRewardsResponse struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

// MsgAdminDeposit defines the AdminDeposit message
type MsgAdminDeposit struct {
	Admin  string `json:"admin"`
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgAdminDeposit) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAdminDeposit) Type() string { return TypeMsgAdminDeposit }

// ValidateBasic implements sdk.Msg
func (msg MsgAdminDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return err
	}
	if msg.Denom == "" {
		return ErrInvalidAsset
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgAdminDeposit) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAdminDeposit) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAdminDeposit) Reset() { *msg = MsgAdminDeposit{} }

// String implements proto.Message
func (msg MsgAdminDeposit) String() string {
	return fmt.Sprintf("MsgAdminDeposit{Admin: %s, Denom: %s, Amount: %s}", msg.Admin, msg.Denom, msg.Amount)
}

// MsgAdminDepositResponse defines the AdminDeposit response
type MsgAdminDepositResponse struct {
	PoolAumUsd string `json:"pool_aum_usd"`
}

// MsgAdminWithdraw defines the AdminWithdraw message
type MsgAdminWithdraw struct {
	Admin  string `json:"admin"`
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgAdminWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAdminWithdraw) Type() string { return TypeMsgAdminWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgAdminWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return err
	}
	if msg.Denom == "" {
		return ErrInvalidAsset
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgAdminWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAdminWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAdminWithdraw) Reset() { *msg = MsgAdminWithdraw{} }

// String implements proto.Message
func (msg MsgAdminWithdraw) String() string {
	return fmt.Sprintf("MsgAdminWithdraw{Admin: %s, Denom: %s, Amount: %s}", msg.Admin, msg.Denom, msg.Amount)
}

// MsgAdminWithdrawResponse defines the AdminWithdraw response
type MsgAdminWithdrawResponse struct {
	VaultBalance string `json:"vault_balance"`
}

// MsgSetPause defines the SetPause message
type MsgSetPause struct {
	Admin  string `json:"admin"`
	Paused bool   `json:"paused"`
}

// Route implements sdk.Msg
func (msg MsgSetPause) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetPause) Type() string { return TypeMsgSetPause }

// ValidateBasic implements sdk.Msg
func (msg MsgSetPause) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetPause) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetPause) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetPause) Reset() { *msg = MsgSetPause{} }

// String implements proto.Message
func (msg MsgSetPause) String() string {
	return fmt.Sprintf("MsgSetPause{Admin: %s, Paused: %v}", msg.Admin, msg.Paused)
}

// MsgSetPauseResponse defines the SetPause response
type MsgSetPauseResponse struct {
	Paused bool `json:"paused"`
}

// MsgClosePool defines the ClosePool message
type MsgClosePool struct {
	Admin string `json:"admin"`
}

// Route implements sdk.Msg
func (msg MsgClosePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClosePool) Type() string { return TypeMsgClosePool }

// ValidateBasic implements sdk.Msg
func (msg MsgClosePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClosePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClosePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClosePool) Reset() { *msg = MsgClosePool{} }

// String implements proto.Message
func (msg MsgClosePool) String() string {
	return fmt.Sprintf("MsgClosePool{Admin: %s}", msg.Admin)
}

// MsgClosePoolResponse defines the ClosePool response
type MsgClosePoolResponse struct{}

// MsgCloseUserState defines the CloseUserState message
type MsgCloseUserState struct {
	Caller string `json:"caller"`
	Owner  string `json:"owner"`
}

// Route implements sdk.Msg
func (msg MsgCloseUserState) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCloseUserState) Type() string { return TypeMsgCloseUserState }

// ValidateBasic implements sdk.Msg
func (msg MsgCloseUserState) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCloseUserState) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCloseUserState) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCloseUserState) Reset() { *msg = MsgCloseUserState{} }

// String implements proto.Message
func (msg MsgCloseUserState) String() string {
	return fmt.Sprintf("MsgCloseUserState{Caller: %s, Owner: %s}", msg.Caller, msg.Owner)
}

// MsgCloseUserStateResponse defines the CloseUserState response
type MsgCloseUserStateResponse struct{}

// Ensure all messages implement sdk.Msg interface
var (
	_ sdk.Msg = &MsgInitialize{}
	_ sdk.Msg = &MsgDeposit{}
	_ sdk.Msg = &MsgWithdraw{}
	_ sdk.Msg = &MsgStartRewards{}
	_ sdk.Msg = &MsgClaimRewards{}
	_ sdk.Msg = &MsgAdminDeposit{}
	_ sdk.Msg = &MsgAdminWithdraw{}
	_ sdk.Msg = &MsgSetPause{}
	_ sdk.Msg = &MsgClosePool{}
	_ sdk.Msg = &MsgCloseUserState{}
)
