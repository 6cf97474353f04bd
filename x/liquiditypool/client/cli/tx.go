package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/openalpha/liquidity-pool/x/liquiditypool/types"
)

// GetTxCmd returns the transaction commands for the liquiditypool module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "liquiditypool",
		Short:                      "Liquidity pool transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdInitialize(),
		CmdDeposit(),
		CmdWithdraw(),
		CmdStartRewards(),
		CmdClaimRewards(),
		CmdSetPause(),
	)

	return cmd
}

// CmdInitialize returns the command to initialize the pool
func CmdInitialize() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize [reward-denom]",
		Short: "Initialize the liquidity pool with the default asset set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			rewardDenom := ""
			if len(args) == 1 {
				rewardDenom = args[0]
			}

			msg := &types.MsgInitialize{
				Admin:       clientCtx.GetFromAddress().String(),
				RewardDenom: rewardDenom,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDeposit returns the command to deposit into the pool
func CmdDeposit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [denom] [amount]",
		Short: "Deposit an accepted asset and receive LP tokens",
		Long: `Deposit an accepted asset and receive LP tokens pro-rata by USD value.

Examples:
  lpoold tx liquiditypool deposit usdc 10000000 --from alice
  lpoold tx liquiditypool deposit wsol 1000000000 --from bob`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgDeposit{
				Depositor: clientCtx.GetFromAddress().String(),
				Denom:     args[0],
				Amount:    args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdraw returns the command to withdraw from the pool
func CmdWithdraw() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [denom] [lp-amount]",
		Short: "Burn LP tokens and withdraw the proportional value in an asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgWithdraw{
				Withdrawer: clientCtx.GetFromAddress().String(),
				Denom:      args[0],
				LpAmount:   args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdStartRewards returns the command to fund and start a reward stream
func CmdStartRewards() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-rewards [amount] [tokens-per-interval]",
		Short: "Fund the reward vault and start a reward stream (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgStartRewards{
				Admin:             clientCtx.GetFromAddress().String(),
				Amount:            args[0],
				TokensPerInterval: args[1],
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimRewards returns the command to claim pending rewards
func CmdClaimRewards() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim-rewards",
		Short: "Claim all pending rewards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := &types.MsgClaimRewards{
				Claimer: clientCtx.GetFromAddress().String(),
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetPause returns the command to pause or resume the pool
func CmdSetPause() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-pause [true|false]",
		Short: "Pause or resume user operations (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			paused, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("invalid pause flag: %v", err)
			}

			msg := &types.MsgSetPause{
				Admin:  clientCtx.GetFromAddress().String(),
				Paused: paused,
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
