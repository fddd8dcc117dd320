package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/app"
	"github.com/iov-one/revshare/crypto"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/x/cash"
	"github.com/spf13/cobra"
)

type initOptions struct {
	LedgerID      string
	Backend       string
	TreasuryFunds uint64
}

// newInitCmd initializes all files of the home directory. Files that
// already exist are kept.
func newInitCmd(root *rootOptions) *cobra.Command {
	opts := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the signer key, configuration and genesis files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.LedgerID, "ledger-id", "revshare-local", "ledger id written to the genesis file")
	cmd.Flags().StringVar(&opts.Backend, "db", DefaultConfig().DB.Backend, "database backend (goleveldb|memdb)")
	cmd.Flags().Uint64Var(&opts.TreasuryFunds, "treasury-funds", 0, "genesis balance of the signer account")
	return cmd
}

func runInit(cmd *cobra.Command, root *rootOptions, opts *initOptions) error {
	out := cmd.ErrOrStderr()
	if err := os.MkdirAll(root.Home, 0755); err != nil {
		return errors.Wrap(err, "create home directory")
	}

	keyPath := root.keyPath()
	if fileExists(keyPath) {
		fmt.Fprintf(out, "Found signer key %s\n", keyPath)
	} else {
		key, err := crypto.GenPrivateKey()
		if err != nil {
			return err
		}
		if err := crypto.SaveKey(keyPath, key); err != nil {
			return err
		}
		fmt.Fprintf(out, "Generated signer key %s\n", keyPath)
	}
	signer, err := root.signer()
	if err != nil {
		return err
	}

	conf := DefaultConfig()
	conf.DB.Backend = opts.Backend
	if err := conf.Validate(); err != nil {
		return err
	}
	if path := filepath.Join(root.Home, configFile); fileExists(path) {
		fmt.Fprintf(out, "Found config file %s\n", path)
	} else {
		if err := SaveConfig(root.Home, conf); err != nil {
			return err
		}
		fmt.Fprintf(out, "Generated config file %s\n", path)
	}

	genPath := inHome(root.Home, conf.Ledger.Genesis)
	if fileExists(genPath) {
		fmt.Fprintf(out, "Found genesis file %s\n", genPath)
		return nil
	}
	gen, err := genesis(opts.LedgerID, signer.Address(), opts.TreasuryFunds)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize genesis")
	}
	if err := ioutil.WriteFile(genPath, raw, 0600); err != nil {
		return errors.Wrap(err, "write genesis file")
	}
	fmt.Fprintf(out, "Generated genesis file %s\n", genPath)
	return nil
}

// genesis funds the treasury account. The distributor is created later
// with the initialize command.
func genesis(ledgerID string, treasury revshare.Address, funds uint64) (*app.Genesis, error) {
	var accounts []cash.GenesisAccount
	if funds > 0 {
		accounts = append(accounts, cash.GenesisAccount{Address: treasury, Balance: funds})
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize accounts")
	}
	return &app.Genesis{
		LedgerID:   ledgerID,
		AppOptions: revshare.Options{"cash": raw},
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
