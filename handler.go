package revshare

import (
	"encoding/json"
)

// Handler is a core engine that can process a few specific messages.
// This could represent "register a collection" or "distribute a payment".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction
// without altering the state. It is its own interface to allow better type
// controls in the next arguments in Decorator.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction. It is its own
// interface to allow better type controls in the next arguments in
// Decorator.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like logging,
// panic recovery or savepoints to many Handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// CheckResult captures any non-error information from checking a
// transaction.
type CheckResult struct {
	// Log is human-readable informational string
	Log string
}

// DeliverResult captures any non-error information from executing a
// transaction.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the key of a created
	// record or the serialized event of a distribution.
	Data []byte
	// Log is human-readable informational string
	Log string
}

// Registry is an interface to register your handler, the setup side of a
// Router.
type Registry interface {
	Handle(m Msg, h Handler)
}

// Options are the app options. Each extension can look up it's key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the
// json into the given obj. Returns an error if it cannot parse. Noop and no
// error if key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize extensions from the
// genesis file contents.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
