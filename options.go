package bury

import "github.com/pkg/errors"

// Options is the explicit, enumerated configuration surface for
// Encode/Decode (spec §6, §9 Design Notes: "replace [a dynamic options
// bag] with an explicit Options record whose fields enumerate exactly
// the recognized options; unknown options are a caller-side error, not
// silently ignored" — a plain Go struct with named fields gives that
// property for free: there is no way to pass an "unknown option").
type Options struct {
	// EnableRed, EnableGreen, EnableBlue select which channels carry
	// buried bits. At least one must be true.
	EnableRed   bool
	EnableGreen bool
	EnableBlue  bool

	// Compress BZip2-compresses the plaintext before encryption.
	Compress bool

	// RescaleCarrier shrinks the carrier to the minimum size that still
	// fits the payload under the derived stride schedule.
	RescaleCarrier bool

	// StoreFilename prepends a 32-byte filename field to the plaintext
	// (encode only).
	StoreFilename bool

	// WriteFile is a caller hint (decode only) that a decoded filename
	// should be honored by the external collaborator writing the
	// message to disk. The core codec does not act on it directly.
	WriteFile bool

	// VisibleResult sets each modulated channel to 0xFF or 0x00 by the
	// bit it carries, for visualizing coverage; the LSBs still hold the
	// data. Debug use only — it defeats the carrier's indistinguishability
	// property.
	VisibleResult bool
}

// Channels projects the three channel flags into a Channels value.
func (o Options) Channels() Channels {
	return Channels{R: o.EnableRed, G: o.EnableGreen, B: o.EnableBlue}
}

// Validate returns ErrNoChannels if every channel flag is false.
func (o Options) Validate() error {
	if err := o.Channels().validate(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
