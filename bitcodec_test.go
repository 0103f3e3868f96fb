package bury

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func stridesForCount(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i + 1
	}
	return s
}

func TestModulateDemodulate_RoundTrip(t *testing.T) {
	raster := NewBlankNRGBARaster(16, 16)
	channels := Channels{R: true, G: true, B: true}
	data := []byte("hello, arrhythmic stride")

	strides := stridesForCount(64)
	require.NoError(t, Modulate(raster, strides, channels, data, false))

	out, err := Demodulate(raster, strides, channels)
	require.NoError(t, err)
	require.Equal(t, data, out[:len(data)])
}

// Property 5: re-modulating the same stream does not change pixel bytes.
func TestModulate_Idempotent(t *testing.T) {
	raster := NewBlankNRGBARaster(16, 16)
	channels := Channels{R: true, B: true}
	data := []byte("idempotent payload")
	// 72 pixels x 2 channels = 144 bits, exactly the 18-byte stream, so no
	// slot receives a random fill bit.
	strides := stridesForCount(72)

	require.NoError(t, Modulate(raster, strides, channels, data, false))
	before := append([]byte(nil), raster.Image().Pix...)

	require.NoError(t, Modulate(raster, strides, channels, data, false))
	after := raster.Image().Pix

	require.Equal(t, before, after)
}

// Property 7: upper 7 bits of untouched channels, and of pixels outside
// p0/strides, are unchanged.
func TestModulate_PreservesUpperBits(t *testing.T) {
	raster := NewBlankNRGBARaster(4, 4)
	// Seed every channel with a known non-zero upper-7-bit pattern.
	for i := 0; i < 16; i++ {
		require.NoError(t, raster.SetPixelByIndex(i, 0xAA, 0xAA, 0xAA))
	}

	channels := Channels{R: true}
	strides := []int{5, 6, 7}
	data := []byte{0xFF}

	require.NoError(t, Modulate(raster, strides, channels, data, false))

	r, g, b, err := raster.GetPixelByIndex(5)
	require.NoError(t, err)
	require.Equal(t, uint8(0xAA)&^1|1, r) // LSB forced to the written bit
	require.Equal(t, uint8(0xAA), g)      // untouched channel fully preserved
	require.Equal(t, uint8(0xAA), b)

	// A pixel never in strides/p0 must be completely untouched.
	ur, ug, ub, err := raster.GetPixelByIndex(2)
	require.NoError(t, err)
	require.Equal(t, uint8(0xAA), ur)
	require.Equal(t, uint8(0xAA), ug)
	require.Equal(t, uint8(0xAA), ub)
}

func TestModulate_RejectsNoChannels(t *testing.T) {
	raster := NewBlankNRGBARaster(4, 4)
	err := Modulate(raster, []int{1}, Channels{}, []byte{0}, false)
	require.ErrorIs(t, err, ErrNoChannels)
}

func TestModulateDemodulate_PropertyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.Bool().Draw(t, "r")
		g := rapid.Bool().Draw(t, "g")
		b := rapid.Bool().Draw(t, "b")
		if !r && !g && !b {
			r = true
		}
		channels := Channels{R: r, G: g, B: b}

		data := []byte(rapid.StringN(1, 40, -1).Draw(t, "data"))
		need := (len(data)*8 + channels.BitsPerPixel() - 1) / channels.BitsPerPixel()
		raster := NewBlankNRGBARaster(need+8, 1)
		strides := stridesForCount(need)

		require.NoError(t, Modulate(raster, strides, channels, data, false))
		out, err := Demodulate(raster, strides, channels)
		require.NoError(t, err)
		require.Equal(t, data, out[:len(data)])
	})
}
