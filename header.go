package bury

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Version is this codec's wire-format version. It does not interoperate
// with the PHP ancestor implementation by design (spec §1 Non-goals).
const Version uint16 = 0x0002

// headerSize is the fixed size, in bytes, of the packed header (spec §3).
const headerSize = 9

// MsgParams bit flags, per spec §3's MSG_PARAMS byte.
const (
	msgParamCompressed = 1 << 0
	msgParamEncrypted  = 1 << 1
	msgParamFilename   = 1 << 2
)

// Header is the fixed 9-byte frame header: VERSION (little-endian u16,
// offset 0), one reserved byte (offset 2), MSG_PARAMS (offset 3), one
// reserved byte (offset 4), PAYLOAD_SIZE (big-endian u32, offset 5). The
// little/big endian asymmetry is spec.md §3's, preserved per §9 Open
// Question 4 rather than normalized.
type Header struct {
	Version     uint16
	MsgParams   byte
	PayloadSize uint32
}

// Compressed reports whether MSG_PARAMS bit0 (compressed) is set.
func (h Header) Compressed() bool { return h.MsgParams&msgParamCompressed != 0 }

// FilenamePrepended reports whether MSG_PARAMS bit2 (filename-prepended)
// is set.
func (h Header) FilenamePrepended() bool { return h.MsgParams&msgParamFilename != 0 }

// PackHeader assembles the 9-byte header per spec §3/§4.5. It fails with
// ErrHeaderOverflow if payloadSize does not fit in 32 bits; payloadSize
// is a uint64 so that an oversized payload is rejected here instead of
// being silently truncated to the 32-bit field.
func PackHeader(version uint16, msgParams byte, payloadSize uint64) ([headerSize]byte, error) {
	var buf [headerSize]byte
	if payloadSize > 0xFFFFFFFF {
		return buf, errors.Wrapf(ErrHeaderOverflow, "payload size %d", payloadSize)
	}

	binary.LittleEndian.PutUint16(buf[0:2], version)
	// buf[2] reserved
	buf[3] = msgParams
	// buf[4] reserved
	binary.BigEndian.PutUint32(buf[5:9], uint32(payloadSize))

	return buf, nil
}

// ParseHeader inverts PackHeader. It fails with ErrShortHeader if b has
// fewer than 9 bytes, and ErrBadVersion if the decoded VERSION field does
// not match Version.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < headerSize {
		return Header{}, errors.Wrapf(ErrShortHeader, "got %d bytes", len(b))
	}

	version := binary.LittleEndian.Uint16(b[0:2])
	if version != Version {
		return Header{}, errors.Wrapf(ErrBadVersion, "got 0x%04x, want 0x%04x", version, Version)
	}

	return Header{
		Version:     version,
		MsgParams:   b[3],
		PayloadSize: binary.BigEndian.Uint32(b[5:9]),
	}, nil
}

// WriteChannelSpec sets pixel p_0 (=offset)'s RGB LSBs to record which
// channels carry payload bits, per spec §4.5. The upper 7 bits of each
// channel are preserved.
func WriteChannelSpec(raster RasterView, offset uint8, channels Channels) error {
	r, g, b, err := raster.GetPixelByIndex(int(offset))
	if err != nil {
		return errors.Wrap(err, "write channel spec: reading offset pixel")
	}

	r = setChannelSpecBit(r, channels.R)
	g = setChannelSpecBit(g, channels.G)
	b = setChannelSpecBit(b, channels.B)

	if err := raster.SetPixelByIndex(int(offset), r, g, b); err != nil {
		return errors.Wrap(err, "write channel spec: writing offset pixel")
	}
	return nil
}

func setChannelSpecBit(v uint8, enabled bool) uint8 {
	if enabled {
		return v&^1 | 1
	}
	return v &^ 1
}

// ReadChannelSpec inverts WriteChannelSpec.
func ReadChannelSpec(raster RasterView, offset uint8) (Channels, error) {
	r, g, b, err := raster.GetPixelByIndex(int(offset))
	if err != nil {
		return Channels{}, errors.Wrap(err, "read channel spec: reading offset pixel")
	}
	return Channels{R: r&1 == 1, G: g&1 == 1, B: b&1 == 1}, nil
}
