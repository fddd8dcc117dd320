package main

import (
	"fmt"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/api"
	"github.com/iov-one/revshare/app"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API",
		Long: `Serve the read-only HTTP API. The database is locked while the
server is running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withLedger(cmd, func(l *app.Ledger, conf *Config) error {
				logger, err := newLogger(conf.Log, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				srv := api.NewServer(l, logger)
				if conf.API.Metrics {
					srv.EnableMetrics()
				}
				if listen == "" {
					listen = conf.API.Listen
				}
				return srv.ListenAndServe(listen)
			})
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from config)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), revshare.VersionString())
		},
	}
}
