/*
Package bech32 renders ledger addresses in the human friendly bech32 form
(BIP-173), for example rev1qyq... for the "rev" human readable part.
*/
package bech32

import (
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/revshare/errors"
)

// Decode converts given bech32 encoded representation into the human
// readable part and the raw payload.
func Decode(raw string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(strings.ToLower(raw))
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, "convert bits")
	}
	return hrp, payload, nil
}

// Encode converts given payload into bech32 encoded representation using
// hrp as the human readable part.
func Encode(hrp string, payload []byte) ([]byte, error) {
	if hrp == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "human readable part")
	}
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "convert bits")
	}
	raw, err := bech32.Encode(hrp, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return []byte(raw), nil
}
