package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/app"
	"github.com/iov-one/revshare/crypto"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/store/iavl"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Home string
	Key  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "revshared",
		Short:         "Revenue distribution ledger",
		Long:          "revshared splits payments between the holders of registered collections and keeps an auditable record of every distribution.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".revshare")
	cmd.PersistentFlags().StringVar(&opts.Home, "home", defaultHome, "directory to store files under")
	cmd.PersistentFlags().StringVar(&opts.Key, "key", "", "signer key file (default <home>/"+keyFile+")")

	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newKeysCmd(opts))
	cmd.AddCommand(newInitializeCmd(opts))
	cmd.AddCommand(newRegisterCmd(opts))
	cmd.AddCommand(newActivateCmd(opts, true))
	cmd.AddCommand(newActivateCmd(opts, false))
	cmd.AddCommand(newDistributeCmd(opts))
	cmd.AddCommand(newBatchCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newBalanceCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (o *rootOptions) keyPath() string {
	if o.Key != "" {
		return o.Key
	}
	return filepath.Join(o.Home, keyFile)
}

// signer returns the condition of the configured signer key.
func (o *rootOptions) signer() (revshare.Condition, error) {
	key, err := crypto.LoadKey(o.keyPath())
	if err != nil {
		return nil, errors.Wrap(err, "signer")
	}
	return key.PublicKey().Condition(), nil
}

// openLedger opens the ledger stored in the home directory. On first use
// the genesis file is loaded. The caller must close the ledger.
func (o *rootOptions) openLedger(logOut io.Writer) (*app.Ledger, *Config, error) {
	conf, err := LoadConfig(o.Home)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(conf.Log, logOut)
	if err != nil {
		return nil, nil, err
	}

	kv, err := iavl.NewCommitStore(conf.DB.Backend, inHome(o.Home, conf.DB.Dir), dbName)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := app.NewLedger(kv, app.WithLogger(logger))
	if err != nil {
		kv.Close()
		return nil, nil, err
	}

	id, err := ledger.LedgerID()
	if err != nil {
		ledger.Close()
		return nil, nil, err
	}
	if id == "" {
		gen, err := app.LoadGenesis(inHome(o.Home, conf.Ledger.Genesis))
		if err != nil {
			ledger.Close()
			return nil, nil, err
		}
		if err := ledger.InitGenesis(gen); err != nil {
			ledger.Close()
			return nil, nil, err
		}
	}
	return ledger, conf, nil
}

// withLedger runs fn with an open ledger and closes it afterwards.
func (o *rootOptions) withLedger(cmd *cobra.Command, fn func(*app.Ledger, *Config) error) error {
	ledger, conf, err := o.openLedger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer ledger.Close()
	return fn(ledger, conf)
}

// printJSON writes the indented JSON representation of v.
func printJSON(w io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize")
	}
	_, err = w.Write(append(raw, '\n'))
	return err
}

// parseAddresses decodes every value using revshare.ParseAddress.
func parseAddresses(name string, values []string) ([]revshare.Address, error) {
	addrs := make([]revshare.Address, 0, len(values))
	for i, v := range values {
		a, err := revshare.ParseAddress(v)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %d", name, i)
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}
