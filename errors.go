package bury

import "errors"

// Error kinds, tagged per the failure taxonomy. All are fatal to the
// operation in progress; none are retried internally. Call sites wrap
// these with github.com/pkg/errors to add context while keeping the
// sentinel comparable via errors.Is.
var (
	// ErrShortPassword is returned when a password is shorter than 8 bytes.
	ErrShortPassword = errors.New("bury: password must be at least 8 bytes")

	// ErrUnsupportedCarrier is returned for an unreadable, non-raster, or
	// zero-area carrier.
	ErrUnsupportedCarrier = errors.New("bury: unsupported or empty carrier")

	// ErrBadGeometry is returned when a pixel index falls outside the
	// raster's bounds.
	ErrBadGeometry = errors.New("bury: pixel index out of raster bounds")

	// ErrNoChannels is returned when all three channel flags are disabled.
	ErrNoChannels = errors.New("bury: at least one of R, G, B channels must be enabled")

	// ErrPayloadTooLarge is returned when the framed payload exceeds the
	// carrier's capacity under the derived stride schedule.
	ErrPayloadTooLarge = errors.New("bury: payload exceeds carrier capacity")

	// ErrHeaderOverflow is returned when a payload size would not fit in
	// the header's 32-bit PAYLOAD_SIZE field.
	ErrHeaderOverflow = errors.New("bury: payload size exceeds 32 bits")

	// ErrBadVersion is returned when a decoded header's VERSION field does
	// not match the version this codec writes.
	ErrBadVersion = errors.New("bury: unrecognized header version")

	// ErrShortHeader is returned when fewer than 9 bytes were demodulated
	// for the header.
	ErrShortHeader = errors.New("bury: fewer than 9 header bytes recovered")

	// ErrBadChecksum is returned when MD5(ciphertext) does not match the
	// checksum carried in the payload — wrong password, truncated
	// carrier, or a lossily re-encoded carrier.
	ErrBadChecksum = errors.New("bury: checksum mismatch")

	// ErrDecryptFailure is returned for a padding check failure or a
	// cipher-library error during decryption.
	ErrDecryptFailure = errors.New("bury: decryption failed")

	// ErrDecompressFailure is returned when the BZip2 stream is malformed.
	ErrDecompressFailure = errors.New("bury: decompression failed")

	// ErrFilenameInvalid is returned by callers who choose to enforce that
	// a decoded filename is plain ASCII with no path separators.
	ErrFilenameInvalid = errors.New("bury: decoded filename is invalid")

	// ErrAlreadyUsed is returned when a BuryOp instance is reused for a
	// second Encode/Decode call. Reuse risks IV/cursor reuse (see spec
	// §4.8's one-shot instance policy) and is refused outright.
	ErrAlreadyUsed = errors.New("bury: this BuryOp instance already performed an operation")

	// errNotEnoughPasswords is returned by AreCompatible when fewer than
	// two passwords are given; compatibility is undefined for a single
	// password.
	errNotEnoughPasswords = errors.New("bury: AreCompatible requires at least two passwords")
)
