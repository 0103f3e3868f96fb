package bury

import (
	"crypto/rand"

	"github.com/pkg/errors"
)

// Channels selects which RGB channels of a pixel carry buried bits. At
// least one must be true; NoChannels covers the all-false case.
type Channels struct {
	R, G, B bool
}

// BitsPerPixel returns the number of enabled channels (1, 2, or 3).
func (c Channels) BitsPerPixel() int {
	n := 0
	if c.R {
		n++
	}
	if c.G {
		n++
	}
	if c.B {
		n++
	}
	return n
}

func (c Channels) validate() error {
	if !c.R && !c.G && !c.B {
		return errors.WithStack(ErrNoChannels)
	}
	return nil
}

// channelSlot names one of a pixel's three channels, in the wire-format
// order this codec always iterates them: R, then B, then G (spec §4.4 —
// this ordering is part of the wire format and must be preserved).
type channelSlot int

const (
	slotR channelSlot = iota
	slotB
	slotG
)

func (c Channels) order() []channelSlot {
	var order []channelSlot
	if c.R {
		order = append(order, slotR)
	}
	if c.B {
		order = append(order, slotB)
	}
	if c.G {
		order = append(order, slotG)
	}
	return order
}

func getSlot(r, g, b uint8, slot channelSlot) uint8 {
	switch slot {
	case slotR:
		return r
	case slotB:
		return b
	default:
		return g
	}
}

func setSlot(r, g, b *uint8, slot channelSlot, v uint8) {
	switch slot {
	case slotR:
		*r = v
	case slotB:
		*b = v
	default:
		*g = v
	}
}

// randomBit draws a single uniform random bit from the OS CSPRNG, used
// to fill channel LSBs past the end of the written payload so the
// LSB-plane does not exhibit a conspicuous all-zero/constant tail.
func randomBit() byte {
	var buf [1]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read failing is exceptional; fall back to a fixed
		// bit rather than panicking mid-modulation.
		return 0
	}
	return buf[0] & 1
}

// Modulate writes the LSB stream data into the pixel sequence named by
// strides (p_0/offset is never touched here — callers write the channel
// spec there separately via WriteChannelSpec). Bit k of data lands at
// byte k/8, bit k%8 counted from the LSB. Once data is exhausted,
// remaining enabled-channel slots are filled with uniform random bits.
// In visible mode every enabled channel of every stride pixel, payload
// and fill alike, is set to 0xFF for a 1 bit or 0x00 for a 0 bit: the
// LSB still carries the bit, and the coverage is visible to the eye
// (debug use only; breaks the carrier's "indistinguishable from the
// original" property).
func Modulate(raster RasterView, strides []int, channels Channels, data []byte, visible bool) error {
	if err := channels.validate(); err != nil {
		return err
	}
	order := channels.order()
	totalBits := len(data) * 8

	bitIndex := 0
	for _, idx := range strides {
		r, g, b, err := raster.GetPixelByIndex(idx)
		if err != nil {
			return errors.Wrapf(err, "modulate: reading pixel at stride index %d", idx)
		}

		for _, slot := range order {
			var bit byte
			if bitIndex < totalBits {
				byteIdx := bitIndex / 8
				bitInByte := uint(bitIndex % 8)
				bit = (data[byteIdx] >> bitInByte) & 1
			} else {
				bit = randomBit()
			}

			cur := getSlot(r, g, b, slot)
			var next uint8
			if visible {
				if bit == 1 {
					next = 0xFE | bit
				} else {
					next = 0x00 | bit
				}
			} else {
				next = (cur &^ 1) | bit
			}
			setSlot(&r, &g, &b, slot, next)
			bitIndex++
		}

		if err := raster.SetPixelByIndex(idx, r, g, b); err != nil {
			return errors.Wrapf(err, "modulate: writing pixel at stride index %d", idx)
		}
	}

	debugLog("modulated bit stream", "bytes", len(data), "pixels", len(strides), "bpp", channels.BitsPerPixel(), "visible", visible)
	return nil
}

// Demodulate reads the enabled channels of each pixel in strides, in the
// same R, B, G order Modulate uses, and reconstructs bytes LSB-first: a
// new byte starts every 8 extracted bits. Output length is
// ceil(BitsPerPixel * len(strides) / 8).
func Demodulate(raster RasterView, strides []int, channels Channels) ([]byte, error) {
	if err := channels.validate(); err != nil {
		return nil, err
	}
	order := channels.order()

	result := make([]byte, 0, (channels.BitsPerPixel()*len(strides)+7)/8)
	var acc uint8
	count := 0

	for _, idx := range strides {
		r, g, b, err := raster.GetPixelByIndex(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "demodulate: reading pixel at stride index %d", idx)
		}

		for _, slot := range order {
			bit := getSlot(r, g, b, slot) & 1
			acc = acc>>1 | (bit << 7)
			count++
			if count == 8 {
				result = append(result, acc)
				acc = 0
				count = 0
			}
		}
	}

	if count > 0 {
		acc >>= uint(8 - count)
		result = append(result, acc)
	}

	return result, nil
}
