package crypto

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/revshare/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	key, err := GenPrivateKey()
	require.NoError(t, err)

	msg := []byte("distribute 1000 to collection c1")
	sig := key.Sign(msg)
	pub := key.PublicKey()

	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("distribute 9999"), sig))
}

func TestConditionIsStable(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)
	b, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)

	assert.Equal(t, a.PublicKey().Condition(), b.PublicKey().Condition())
	assert.NoError(t, a.PublicKey().Condition().Validate())
	assert.NoError(t, a.PublicKey().Address().Validate())

	_, err = PrivateKeyFromSeed([]byte("short"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestSaveLoadKey(t *testing.T) {
	dir, err := ioutil.TempDir("", "revshare-key")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	key, err := GenPrivateKey()
	require.NoError(t, err)
	path := filepath.Join(dir, "signer.key")
	require.NoError(t, SaveKey(path, key))

	loaded, err := LoadKey(path)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), loaded.PublicKey())

	// Existing key files are never overwritten.
	assert.Error(t, SaveKey(path, key))
}
