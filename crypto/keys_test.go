package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	msg := []byte("fund the escrow")

	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	sig, err := priv.Sign(msg)
	require.NoError(t, err)
	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("other"), sig))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))
	assert.False(t, pub.Verify(msg, nil))

	// the signature survives serialization
	bz, err := timelock.Marshal(sig)
	require.NoError(t, err)
	var loaded Signature
	require.NoError(t, timelock.Unmarshal(bz, &loaded))
	assert.True(t, pub.Verify(msg, &loaded))
}

func TestCondition(t *testing.T) {
	pub := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{7}, 32)).PublicKey()

	cond := pub.Condition()
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, pub.Ed25519, data)
	assert.Equal(t, cond.Address(), pub.Address())
	assert.Len(t, pub.Address(), timelock.AddressLength)

	assert.True(t, errors.ErrInput.Is((&PublicKey{Ed25519: []byte{1}}).Validate()))
}

func TestSeedIsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{3}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	assert.Equal(t, a.PublicKey(), b.PublicKey())
}

func TestDerivePrivKey(t *testing.T) {
	seed, err := hex.DecodeString("d34c1970ae90acf3405f2d99dcaca16d0c7db379f4beafcfdf667b9d69ce350d27f5fb440509dfa79ec883a0510bc9a9614c3d44188881f0c5e402898b4bf3c9")
	require.NoError(t, err)

	a, err := DerivePrivKeyEd25519(seed, "m/44'/234'/0'")
	require.NoError(t, err)
	b, err := DerivePrivKeyEd25519(seed, "m/44'/234'/0'")
	require.NoError(t, err)
	c, err := DerivePrivKeyEd25519(seed, "m/44'/234'/1'")
	require.NoError(t, err)

	assert.Equal(t, a.PublicKey(), b.PublicKey())
	assert.NotEqual(t, a.PublicKey(), c.PublicKey())

	_, err = DerivePrivKeyEd25519(seed, "not a path")
	assert.True(t, errors.ErrInput.Is(err))
}
