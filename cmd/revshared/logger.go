package main

import (
	"io"

	"github.com/iov-one/revshare/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// newLogger returns a logger writing to w in the configured format,
// filtered to the configured level.
func newLogger(conf LogConfig, w io.Writer) (log.Logger, error) {
	var logger log.Logger
	switch conf.Format {
	case "json":
		logger = log.NewTMJSONLogger(log.NewSyncWriter(w))
	default:
		logger = log.NewTMLogger(log.NewSyncWriter(w))
	}
	allow, err := log.AllowLevel(conf.Level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, allow).With("module", "revshare"), nil
}
