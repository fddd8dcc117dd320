package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/revshare/errors"
	"github.com/iov-one/revshare/store/iavl"
	"github.com/iov-one/revshare/x/distribution"
)

const (
	configFile  = "config.toml"
	genesisFile = "genesis.json"
	keyFile     = "signer.key"
	dbName      = "ledger"
)

// Config is the content of the config.toml file stored in the home
// directory.
type Config struct {
	DB     DBConfig     `toml:"db"`
	Log    LogConfig    `toml:"log"`
	API    APIConfig    `toml:"api"`
	Ledger LedgerConfig `toml:"ledger"`
}

type DBConfig struct {
	// Backend is either goleveldb or memdb. The memdb state is lost when
	// the process exits.
	Backend string `toml:"backend"`
	// Dir is relative to the home directory unless absolute.
	Dir string `toml:"dir"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type APIConfig struct {
	Listen  string `toml:"listen"`
	Metrics bool   `toml:"metrics"`
}

// LedgerConfig holds defaults of the distributor created by the
// initialize command.
type LedgerConfig struct {
	FeeBps          uint32 `toml:"fee_bps"`
	RemainderPolicy string `toml:"remainder_policy"`
	// Genesis is relative to the home directory unless absolute.
	Genesis string `toml:"genesis"`
}

// DefaultConfig returns the configuration written by the init command.
func DefaultConfig() Config {
	return Config{
		DB: DBConfig{
			Backend: iavl.GoLevelDB,
			Dir:     "data",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "plain",
		},
		API: APIConfig{
			Listen:  "127.0.0.1:8080",
			Metrics: true,
		},
		Ledger: LedgerConfig{
			FeeBps:          distribution.DefaultFeeBps,
			RemainderPolicy: distribution.Retain.String(),
			Genesis:         genesisFile,
		},
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	var errs error
	switch c.DB.Backend {
	case iavl.GoLevelDB:
		if c.DB.Dir == "" {
			errs = errors.AppendField(errs, "DB.Dir", errors.ErrEmpty)
		}
	case iavl.MemDB:
	default:
		errs = errors.AppendField(errs, "DB.Backend", errors.Wrapf(errors.ErrInput, "unknown backend %q", c.DB.Backend))
	}
	switch c.Log.Format {
	case "plain", "json":
	default:
		errs = errors.AppendField(errs, "Log.Format", errors.Wrapf(errors.ErrInput, "unknown format %q", c.Log.Format))
	}
	switch c.Log.Level {
	case "debug", "info", "error", "none":
	default:
		errs = errors.AppendField(errs, "Log.Level", errors.Wrapf(errors.ErrInput, "unknown level %q", c.Log.Level))
	}
	if c.API.Listen == "" {
		errs = errors.AppendField(errs, "API.Listen", errors.ErrEmpty)
	}
	if c.Ledger.FeeBps > distribution.BasisPoints {
		errs = errors.AppendField(errs, "Ledger.FeeBps", errors.Wrapf(errors.ErrInput, "more than %d", distribution.BasisPoints))
	}
	if _, err := distribution.ParseRemainderPolicy(c.Ledger.RemainderPolicy); err != nil {
		errs = errors.AppendField(errs, "Ledger.RemainderPolicy", err)
	}
	return errs
}

// LoadConfig reads the config.toml file of the home directory. Values
// missing from the file keep their defaults.
func LoadConfig(home string) (*Config, error) {
	conf := DefaultConfig()
	path := filepath.Join(home, configFile)
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "config %s: %s", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return &conf, nil
}

// SaveConfig writes the configuration into the home directory. An
// existing file is not overwritten.
func SaveConfig(home string, conf Config) error {
	path := filepath.Join(home, configFile)
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "create config file")
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}

// inHome resolves a configured path against the home directory.
func inHome(home, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, path)
}
