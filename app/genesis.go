package app

import (
	"encoding/json"
	"io/ioutil"
	"regexp"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

// Genesis file format. Each extension reads its own key of AppOptions.
type Genesis struct {
	LedgerID   string           `json:"ledger_id"`
	AppOptions revshare.Options `json:"app_options"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	if !isLedgerID(gen.LedgerID) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid ledger id %q", gen.LedgerID)
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...revshare.Initializer) revshare.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []revshare.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts revshare.Options, kv revshare.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

//------- storing ledgerID ---------

// The slash keeps this key out of any orm bucket namespace.
const ledgerIDKey = "_meta/ledger_id"

var isLedgerID = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{4,32}$`).MatchString

// loadLedgerID returns the ledger id stored if any
func loadLedgerID(kv revshare.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(ledgerIDKey))
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// saveLedgerID stores a ledger id in the kv store.
// Returns error if already set, or invalid name
func saveLedgerID(kv revshare.KVStore, ledgerID string) error {
	if !isLedgerID(ledgerID) {
		return errors.Wrapf(errors.ErrInput, "invalid ledger id %q", ledgerID)
	}
	k := []byte(ledgerIDKey)
	switch exists, err := kv.Has(k); {
	case err != nil:
		return err
	case exists:
		return errors.Wrap(errors.ErrDuplicate, "genesis already loaded")
	}
	return kv.Set(k, []byte(ledgerID))
}
