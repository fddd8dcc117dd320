package revsharetest

import "github.com/iov-one/revshare"

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg revshare.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ revshare.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (revshare.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message with a configurable path.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by the Validate call.
	Err error
}

var _ revshare.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
