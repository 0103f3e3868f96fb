package bury

import (
	"crypto/sha256"

	"github.com/pkg/errors"
)

// maxStrideRounds bounds the variable-round key-stretch at 9000, per
// spec §4.1 step 3. The round count itself is derived from the
// password's digest, so it is not a tunable here.
const maxStrideRounds = 9000

// PDP is the password-derived parameter tuple: a pure function of the
// password bytes. Identical passwords yield identical PDP; no raster
// dimensions enter its derivation.
type PDP struct {
	// Offset is the linear pixel index, row-major, at which the
	// channel-spec pixel lives and from which the stride walk begins.
	Offset uint8

	// MaxStride bounds the per-step pixel increment, range [2, 15].
	MaxStride int

	// StrideSeed seeds the StrideGenerator.
	StrideSeed uint32

	// CipherKey is 32 bytes of key material; see spec §9 Open Question 1
	// on AES-128 vs AES-256 — this codec uses the first 16 bytes for
	// AES-128-CBC.
	CipherKey [32]byte

	// rounds is the internal SHA-256 iteration count used to stretch the
	// digest into CipherKey. Not persisted; recoverable from the same
	// password.
	rounds int
}

// DeriveKey computes the password-derived parameter tuple per spec §4.1.
// password must be at least 8 bytes, otherwise ErrShortPassword.
func DeriveKey(password []byte) (PDP, error) {
	if len(password) < 8 {
		return PDP{}, errors.Wrap(ErrShortPassword, "deriving key")
	}

	h := sha256.Sum256(password)

	var pdp PDP
	pdp.Offset = h[0]
	pdp.rounds = (int(h[1])<<8 | int(h[2])) % maxStrideRounds
	pdp.MaxStride = 2 + int(h[3])%14

	var t [4]byte
	for i := 0; i < 7; i++ {
		t[0] ^= h[4+i]
		t[1] ^= h[11+i]
		t[2] ^= h[18+i]
		t[3] ^= h[25+i]
	}
	pdp.StrideSeed = (uint32(t[0])*16777216)%128 + uint32(t[1])*65536 + uint32(t[2])*256 + uint32(t[3])

	digest := h
	for i := 0; i < pdp.rounds; i++ {
		digest = sha256.Sum256(digest[:])
	}
	pdp.CipherKey = digest

	debugLog("derived password parameters", "offset", pdp.Offset, "max_stride", pdp.MaxStride, "rounds", pdp.rounds)

	return pdp, nil
}
