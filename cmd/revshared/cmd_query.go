package main

import (
	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/app"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/x/distribution"
	"github.com/spf13/cobra"
)

// newStatsCmd prints the aggregates of one collection, or of the
// distributor and all collections when no collection is given.
func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [collection-id]",
		Short: "Print distribution aggregates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withLedger(cmd, func(l *app.Ledger, _ *Config) error {
				if len(args) == 1 {
					c, err := l.GetStats(args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), c)
				}
				d, err := l.GetDistributor()
				if err != nil {
					return err
				}
				cs, err := l.ListCollections()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), struct {
					Distributor *distribution.Distributor        `json:"distributor"`
					Collections []*distribution.CollectionConfig `json:"collections"`
				}{d, cs})
			})
		},
	}
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <collection-id>",
		Short: "Print distributions of a collection, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.Wrap(errors.ErrInput, "limit must not be negative")
			}
			return root.withLedger(cmd, func(l *app.Ledger, _ *Config) error {
				events, err := l.ListDistributions(args[0], limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), events)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "print only the most recent distributions, 0 prints all")
	return cmd
}

func newBalanceCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Print the balance of an account (default signer address)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr revshare.Address
			if len(args) == 1 {
				a, err := revshare.ParseAddress(args[0])
				if err != nil {
					return err
				}
				addr = a
			} else {
				signer, err := root.signer()
				if err != nil {
					return err
				}
				addr = signer.Address()
			}
			return root.withLedger(cmd, func(l *app.Ledger, _ *Config) error {
				amount, err := l.Balance(addr)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), struct {
					Address revshare.Address `json:"address"`
					Balance uint64           `json:"balance"`
				}{addr, amount})
			})
		},
	}
}
