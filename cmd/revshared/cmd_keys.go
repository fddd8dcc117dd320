package main

import (
	"encoding/hex"
	"fmt"

	"github.com/iov-one/revshare/crypto"
	"github.com/iov-one/revshare/errors"
	"github.com/spf13/cobra"
)

func newKeysCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the signer key",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate a new ed25519 signer key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.GenPrivateKey()
			if err != nil {
				return err
			}
			if err := crypto.SaveKey(root.keyPath(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Generated signer key %s\n", root.keyPath())
			return printKey(cmd, key.PublicKey())
		},
	})
	var seed, path string
	derive := &cobra.Command{
		Use:   "derive",
		Short: "Derive the signer key from a hex encoded master seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(seed)
			if err != nil {
				return errors.Wrap(errors.ErrInput, "seed is not hex encoded")
			}
			key, err := crypto.DeriveKey(raw, path)
			if err != nil {
				return err
			}
			if err := crypto.SaveKey(root.keyPath(), key); err != nil {
				return err
			}
			return printKey(cmd, key.PublicKey())
		},
	}
	derive.Flags().StringVar(&seed, "seed", "", "hex encoded master seed")
	derive.Flags().StringVar(&path, "path", crypto.DefaultPath, "SLIP-0010 derivation path")
	_ = derive.MarkFlagRequired("seed")
	cmd.AddCommand(derive)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the address of the signer key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.LoadKey(root.keyPath())
			if err != nil {
				return err
			}
			return printKey(cmd, key.PublicKey())
		},
	})
	return cmd
}

func printKey(cmd *cobra.Command, pub crypto.PublicKey) error {
	addr := pub.Address()
	bech, err := addr.Bech32()
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]string{
		"address":   addr.String(),
		"bech32":    bech,
		"condition": pub.Condition().String(),
	})
}
