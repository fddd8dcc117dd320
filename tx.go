package revshare

import (
	"reflect"

	"github.com/iov-one/revshare/errors"
)

// Msg is a request to take an action (make a state transition). It is just
// the request, and must be validated by the Handlers. All authentication
// information is carried by the context the message is delivered with.
type Msg interface {
	// Path returns the message path. This is used by the Router to locate
	// the proper Handler. Msg should be created alongside the Handler that
	// corresponds to them.
	//
	// Must be alphanumeric with slashes [0-9A-Za-z_/]+
	Path() string

	// Validate performs a sanity check of the message content that does
	// not require access to the state.
	Validate() error
}

// Tx represent the data sent from the caller to the ledger. It wraps the
// actual message.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	res := reflect.ValueOf(msg)
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	if res.Type() != dest.Type() {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", msg, destination)
	}
	dest.Elem().Set(res.Elem())
	return nil
}
