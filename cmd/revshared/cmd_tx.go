package main

import (
	"fmt"
	"strconv"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/app"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/x/distribution"
	"github.com/spf13/cobra"
)

// The commands of this file change the ledger state. Each of them is
// signed with the signer key.

func newInitializeCmd(root *rootOptions) *cobra.Command {
	var (
		treasury, feeCollector, policy string
		feeBps                         uint32
	)
	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Create the distributor with the signer as its authority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := root.signer()
			if err != nil {
				return err
			}
			return root.withLedger(cmd, func(l *app.Ledger, conf *Config) error {
				msg := distribution.InitializeMsg{
					Authority: signer.Address(),
					Treasury:  signer.Address(),
					FeeBps:    conf.Ledger.FeeBps,
				}
				if treasury != "" {
					if msg.Treasury, err = revshare.ParseAddress(treasury); err != nil {
						return errors.Wrap(err, "treasury")
					}
				}
				if msg.FeeCollector, err = revshare.ParseAddress(feeCollector); err != nil {
					return errors.Wrap(err, "fee collector")
				}
				if cmd.Flags().Changed("fee-bps") {
					msg.FeeBps = feeBps
				}
				if !cmd.Flags().Changed("remainder-policy") {
					policy = conf.Ledger.RemainderPolicy
				}
				if msg.RemainderPolicy, err = distribution.ParseRemainderPolicy(policy); err != nil {
					return err
				}
				if err := l.Initialize(cmd.Context(), signer, &msg); err != nil {
					return err
				}
				d, err := l.GetDistributor()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), d)
			})
		},
	}
	cmd.Flags().StringVar(&treasury, "treasury", "", "account paying all distributions (default signer address)")
	cmd.Flags().StringVar(&feeCollector, "fee-collector", "", "account receiving the platform fee")
	cmd.Flags().Uint32Var(&feeBps, "fee-bps", distribution.DefaultFeeBps, "platform fee in basis points (default from config)")
	cmd.Flags().StringVar(&policy, "remainder-policy", "", "retain or last_holder (default from config)")
	_ = cmd.MarkFlagRequired("fee-collector")
	return cmd
}

func newRegisterCmd(root *rootOptions) *cobra.Command {
	var endpoint, model string
	cmd := &cobra.Command{
		Use:   "register <collection-id>",
		Short: "Register a new active collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := root.signer()
			if err != nil {
				return err
			}
			rm, err := distribution.ParseRevenueModel(model)
			if err != nil {
				return err
			}
			msg := distribution.RegisterCollectionMsg{
				CollectionID:   args[0],
				PayoutEndpoint: endpoint,
				RevenueModel:   rm,
			}
			return root.withLedger(cmd, func(l *app.Ledger, _ *Config) error {
				if err := l.RegisterCollection(cmd.Context(), signer, &msg); err != nil {
					return err
				}
				c, err := l.GetStats(msg.CollectionID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), c)
			})
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "payout endpoint of the collection")
	cmd.Flags().StringVar(&model, "model", distribution.Equal.String(), "revenue model (equal|weighted|creator_split)")
	_ = cmd.MarkFlagRequired("endpoint")
	return cmd
}

// newActivateCmd returns the activate or the deactivate command.
func newActivateCmd(root *rootOptions, active bool) *cobra.Command {
	use, short := "activate", "Enable distributions to a collection"
	if !active {
		use, short = "deactivate", "Disable distributions to a collection"
	}
	return &cobra.Command{
		Use:   use + " <collection-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := root.signer()
			if err != nil {
				return err
			}
			return root.withLedger(cmd, func(l *app.Ledger, _ *Config) error {
				return l.SetCollectionActive(cmd.Context(), signer, args[0], active)
			})
		},
	}
}

func newDistributeCmd(root *rootOptions) *cobra.Command {
	var (
		amount     uint64
		holders    []string
		weights    []string
		creator    string
		creatorBps uint32
	)
	cmd := &cobra.Command{
		Use:   "distribute <collection-id>",
		Short: "Split a payment between the holders of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := root.signer()
			if err != nil {
				return err
			}
			msg := distribution.DistributePaymentMsg{
				CollectionID: args[0],
				GrossAmount:  amount,
				CreatorBps:   creatorBps,
			}
			if msg.Holders, err = parseAddresses("holder", holders); err != nil {
				return err
			}
			if msg.Weights, err = parseAmounts("weight", weights); err != nil {
				return err
			}
			if creator != "" {
				if msg.Creator, err = revshare.ParseAddress(creator); err != nil {
					return errors.Wrap(err, "creator")
				}
			}
			return root.withLedger(cmd, func(l *app.Ledger, _ *Config) error {
				e, err := l.DistributePayment(cmd.Context(), signer, &msg)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}
	cmd.Flags().Uint64Var(&amount, "amount", 0, "gross amount of the payment")
	cmd.Flags().StringSliceVar(&holders, "holders", nil, "comma separated holder addresses")
	cmd.Flags().StringSliceVar(&weights, "weights", nil, "comma separated holder weights (weighted model)")
	cmd.Flags().StringVar(&creator, "creator", "", "creator address (creator_split model)")
	cmd.Flags().Uint32Var(&creatorBps, "creator-bps", 0, "creator share in basis points (creator_split model)")
	return cmd
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	var (
		accounts   []string
		amounts    []string
		bestEffort bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Pay a list of accounts from the treasury",
		Long: `Pay each account the amount at the same position. By default either
all transfers succeed or none is made. With --best-effort failed transfers
are reported and the others are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := root.signer()
			if err != nil {
				return err
			}
			accts, err := parseAddresses("account", accounts)
			if err != nil {
				return err
			}
			amnts, err := parseAmounts("amount", amounts)
			if err != nil {
				return err
			}
			return root.withLedger(cmd, func(l *app.Ledger, _ *Config) error {
				if !bestEffort {
					msg := distribution.DistributeBatchMsg{Amounts: amnts, Accounts: accts}
					if err := l.DistributeBatch(cmd.Context(), signer, &msg); err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Paid %d accounts\n", len(accts))
					return nil
				}
				msg := distribution.DistributeBatchBestEffortMsg{Amounts: amnts, Accounts: accts}
				report, err := l.DistributeBatchBestEffort(cmd.Context(), signer, &msg)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringSliceVar(&accounts, "accounts", nil, "comma separated account addresses")
	cmd.Flags().StringSliceVar(&amounts, "amounts", nil, "comma separated amounts")
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "keep successful transfers when some fail")
	return cmd
}

func parseAmounts(name string, values []string) ([]uint64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	res := make([]uint64, len(values))
	for i, v := range values {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "%s %d: %q", name, i, v)
		}
		res[i] = n
	}
	return res, nil
}
