package orm

import (
	"encoding/binary"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
)

// Sequence maintains a counter, and generates a series of keys. Each key
// is greater than the last, both as a number and when compared with
// bytes.Compare.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter stored under _s.<bucket>
func NewSequence(bucket string) Sequence {
	return Sequence{id: []byte("_s." + bucket)}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db revshare.KVStore) ([]byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load sequence")
	}
	val := DecodeSequence(raw) + 1
	raw = EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return nil, errors.Wrap(err, "cannot save sequence")
	}
	return raw, nil
}

// Latest returns the recently returned value of the sequence without
// modifying it. Zero means no value was ever handed out.
func (s Sequence) Latest(db revshare.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load sequence")
	}
	return DecodeSequence(raw), nil
}

// DecodeSequence reads the number from its key representation.
func DecodeSequence(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// EncodeSequence returns the key representation of given number.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

// ValidateSequence returns an error if this is not an 8-byte key as
// produced by a sequence.
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInput, "sequence is invalid length (expect 8 bytes)")
	}
	return nil
}
