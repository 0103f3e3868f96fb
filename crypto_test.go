package bury

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testPDP() PDP {
	pdp, err := DeriveKey([]byte("saddroPs"))
	if err != nil {
		panic(err)
	}
	return pdp
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	pdp := testPDP()
	plaintext := []byte("This is a silly test message.")

	res, err := Encrypt(plaintext, "", Options{}, pdp)
	require.NoError(t, err)

	out, err := Decrypt(res.Framed, res.MsgParams, pdp)
	require.NoError(t, err)
	require.Equal(t, plaintext, out.Message)
	require.False(t, out.HasName)
}

func TestEncryptDecrypt_WithCompress(t *testing.T) {
	pdp := testPDP()
	plaintext := bytes.Repeat([]byte("ab"), 2048)

	res, err := Encrypt(plaintext, "", Options{Compress: true}, pdp)
	require.NoError(t, err)
	require.Less(t, len(res.Framed), len(plaintext))

	out, err := Decrypt(res.Framed, res.MsgParams, pdp)
	require.NoError(t, err)
	require.Equal(t, plaintext, out.Message)
}

func TestEncryptDecrypt_WithFilename(t *testing.T) {
	pdp := testPDP()
	plaintext := []byte("body bytes")

	res, err := Encrypt(plaintext, "/tmp/Rage_face.png", Options{StoreFilename: true}, pdp)
	require.NoError(t, err)

	out, err := Decrypt(res.Framed, res.MsgParams, pdp)
	require.NoError(t, err)
	require.True(t, out.HasName)
	require.Equal(t, "/tmp/Rage_face.png", out.Filename) // last 32 bytes
	require.Equal(t, plaintext, out.Message)
}

func TestPadFilename_LeftPadsWithSpaces(t *testing.T) {
	padded := padFilename("Rage_face.png")
	require.Equal(t, 32, len(padded))
	require.Equal(t, bytes.Repeat([]byte(" "), 19), padded[:19])
	require.Equal(t, "Rage_face.png", string(padded[19:]))
	require.Equal(t, "Rage_face.png", trimFilename(padded))
}

func TestDecrypt_BadChecksum(t *testing.T) {
	pdp := testPDP()
	res, err := Encrypt([]byte("msg"), "", Options{}, pdp)
	require.NoError(t, err)

	tampered := append([]byte(nil), res.Framed...)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = Decrypt(tampered, res.MsgParams, pdp)
	require.ErrorIs(t, err, ErrBadChecksum)
}

func TestEncryptDecrypt_PropertyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		password := []byte(rapid.StringN(8, 32, -1).Draw(t, "password"))
		pdp, err := DeriveKey(password)
		require.NoError(t, err)

		message := []byte(rapid.StringN(0, 200, -1).Draw(t, "message"))
		opts := Options{
			Compress:      rapid.Bool().Draw(t, "compress"),
			StoreFilename: rapid.Bool().Draw(t, "storeFilename"),
		}

		res, err := Encrypt(message, "note.txt", opts, pdp)
		require.NoError(t, err)

		out, err := Decrypt(res.Framed, res.MsgParams, pdp)
		require.NoError(t, err)
		require.Equal(t, message, out.Message)
	})
}
