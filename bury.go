package bury

import (
	"fmt"

	"github.com/pkg/errors"
)

// opState is BuryOp's one-shot lifecycle state (spec §9 Design Notes:
// "the one-shot policy is enforced by a state enum {Fresh, Encoded,
// Decoded, Poisoned}"). A single instance performs exactly one directed
// operation; reusing one risks IV or stride-cursor reuse (spec §4.8).
type opState int

const (
	stateFresh opState = iota
	stateEncoded
	stateDecoded
	statePoisoned
)

func (s opState) String() string {
	switch s {
	case stateFresh:
		return "fresh"
	case stateEncoded:
		return "encoded"
	case stateDecoded:
		return "decoded"
	case statePoisoned:
		return "poisoned"
	default:
		return "unknown"
	}
}

// BuryOp binds one mutable RGB raster, one password-derived parameter
// set, and a one-shot lifecycle state together. The stride schedule and
// the plaintext/ciphertext buffers are built inside Encode or Decode and
// are not kept on the instance. A single instance performs exactly one
// directed operation.
type BuryOp struct {
	raster   *NRGBARaster
	password []byte
	pdp      PDP
	state    opState
}

// NewBuryOp derives the password's parameters and binds them to carrier.
// It fails with ErrShortPassword if password is under 8 bytes, and
// ErrUnsupportedCarrier if carrier is nil.
func NewBuryOp(carrier *NRGBARaster, password []byte) (*BuryOp, error) {
	if carrier == nil {
		return nil, errors.Wrap(ErrUnsupportedCarrier, "nil carrier")
	}
	pdp, err := DeriveKey(password)
	if err != nil {
		return nil, err
	}
	return &BuryOp{raster: carrier, password: password, pdp: pdp, state: stateFresh}, nil
}

// State reports the instance's current lifecycle state.
func (op *BuryOp) State() string { return op.state.String() }

func (op *BuryOp) startOperation() error {
	if op.state != stateFresh {
		return errors.Wrapf(ErrAlreadyUsed, "instance is %s", op.state)
	}
	return nil
}

// EncodeResult is the output of Encode: the mutated carrier raster and
// the stride schedule actually used (useful for diagnostics/tests; not
// required for decode, which recomputes its own schedule from the
// password and the resulting carrier's dimensions).
type EncodeResult struct {
	Raster  *NRGBARaster
	Strides []int
}

// Encode runs the full encode pipeline (spec §4.8): validate, derive,
// encrypt+frame, capacity-check against the original carrier, optionally
// rescale, write the channel spec, modulate the framed bytes, and fill
// the remainder.
func (op *BuryOp) Encode(message []byte, filename string, opts Options) (EncodeResult, error) {
	if err := op.startOperation(); err != nil {
		return EncodeResult{}, err
	}
	op.state = statePoisoned // pessimistic; flipped to stateEncoded on success

	if err := opts.Validate(); err != nil {
		return EncodeResult{}, err
	}
	channels := opts.Channels()
	bpp := channels.BitsPerPixel()

	originalTotalPixels := op.raster.Width() * op.raster.Height()
	originalStrides := Schedule(op.pdp.Offset, op.pdp.MaxStride, op.pdp.StrideSeed, originalTotalPixels)

	encRes, err := Encrypt(message, filename, opts, op.pdp)
	if err != nil {
		return EncodeResult{}, err
	}

	header, err := PackHeader(Version, encRes.MsgParams, uint64(len(encRes.Framed)))
	if err != nil {
		return EncodeResult{}, err
	}
	framed := append(header[:], encRes.Framed...)

	maxPayload := bpp * len(originalStrides) / 8
	if len(framed) > maxPayload {
		return EncodeResult{}, errors.Wrapf(ErrPayloadTooLarge, "framed %d bytes, capacity %d bytes", len(framed), maxPayload)
	}

	raster := op.raster
	strides := originalStrides
	rescaled := false
	if opts.RescaleCarrier {
		if out, ok := Rescale(op.raster, op.pdp, channels, len(framed)*8); ok {
			raster = out
			strides = Schedule(op.pdp.Offset, op.pdp.MaxStride, op.pdp.StrideSeed, raster.Width()*raster.Height())
			rescaled = true
		}
	}

	if err := WriteChannelSpec(raster, op.pdp.Offset, channels); err != nil {
		return EncodeResult{}, err
	}
	if err := Modulate(raster, strides, channels, framed, opts.VisibleResult); err != nil {
		return EncodeResult{}, err
	}

	op.raster = raster
	op.state = stateEncoded

	debugLog("encode complete", "framed_bytes", len(framed), "strides", len(strides), "rescaled", rescaled)

	return EncodeResult{Raster: raster, Strides: strides}, nil
}

// Decode runs the full decode pipeline (spec §4.8): read the channel
// spec at the offset pixel, demarcate strides, demodulate, parse the
// header, slice the payload, verify the checksum, decrypt, decompress,
// and split the filename.
func (op *BuryOp) Decode() (DecryptResult, error) {
	if err := op.startOperation(); err != nil {
		return DecryptResult{}, err
	}
	op.state = statePoisoned // pessimistic; flipped to stateDecoded on success

	channels, err := ReadChannelSpec(op.raster, op.pdp.Offset)
	if err != nil {
		return DecryptResult{}, err
	}
	// A wrong password reads an arbitrary channel spec and header, so
	// failures to interpret them are also reported as ErrBadChecksum.
	if err := channels.validate(); err != nil {
		return DecryptResult{}, fmt.Errorf("%w: %w", ErrBadChecksum, err)
	}

	totalPixels := op.raster.Width() * op.raster.Height()
	strides := Schedule(op.pdp.Offset, op.pdp.MaxStride, op.pdp.StrideSeed, totalPixels)

	buf, err := Demodulate(op.raster, strides, channels)
	if err != nil {
		return DecryptResult{}, err
	}
	if len(buf) < headerSize {
		return DecryptResult{}, fmt.Errorf("%w: %w", ErrBadChecksum, errors.Wrapf(ErrShortHeader, "demodulated only %d bytes", len(buf)))
	}

	header, err := ParseHeader(buf[:headerSize])
	if err != nil {
		return DecryptResult{}, fmt.Errorf("%w: %w", ErrBadChecksum, err)
	}

	payloadEnd := headerSize + int(header.PayloadSize)
	if payloadEnd > len(buf) {
		return DecryptResult{}, errors.Wrap(ErrBadChecksum, "demodulated capacity shorter than declared payload size")
	}
	payload := buf[headerSize:payloadEnd]

	result, err := Decrypt(payload, header.MsgParams, op.pdp)
	if err != nil {
		return DecryptResult{}, err
	}

	op.state = stateDecoded
	debugLog("decode complete", "payload_bytes", len(payload), "message_bytes", len(result.Message))

	return result, nil
}
