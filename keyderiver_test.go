package bury

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// S1: key derivation determinism for password "saddroPs".
func TestDeriveKey_S1Determinism(t *testing.T) {
	password := []byte("saddroPs")
	d := sha256.Sum256(password)

	pdp, err := DeriveKey(password)
	require.NoError(t, err)

	require.Equal(t, d[0], pdp.Offset)
	require.Equal(t, 2+int(d[3])%14, pdp.MaxStride)
	require.Equal(t, (int(d[1])<<8|int(d[2]))%9000, pdp.rounds)

	pdp2, err := DeriveKey(password)
	require.NoError(t, err)
	require.Equal(t, pdp, pdp2)
}

func TestDeriveKey_ShortPasswordFails(t *testing.T) {
	_, err := DeriveKey([]byte("short"))
	require.ErrorIs(t, err, ErrShortPassword)
}

// Property 1: derivation is a deterministic, pure function of the
// password bytes, for any password of at least 8 bytes.
func TestDeriveKey_DeterministicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		password := []byte(rapid.StringN(8, 64, -1).Draw(t, "password"))

		a, err := DeriveKey(password)
		require.NoError(t, err)
		b, err := DeriveKey(password)
		require.NoError(t, err)

		require.Equal(t, a, b)
		require.GreaterOrEqual(t, a.MaxStride, 2)
		require.LessOrEqual(t, a.MaxStride, 15)
	})
}
