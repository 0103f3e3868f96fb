package bury

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Profile is a named, reusable Options value. It exists purely as a
// convenience for callers (e.g. a future CLI, out of this module's
// scope) that want to load a set of options from a config file instead
// of constructing Options literally; it never bypasses Options.Validate.
type Profile struct {
	Name    string  `yaml:"name"`
	Options Options `yaml:"options"`
}

type profileOptionsYAML struct {
	EnableRed      bool `yaml:"enable_red"`
	EnableGreen    bool `yaml:"enable_green"`
	EnableBlue     bool `yaml:"enable_blue"`
	Compress       bool `yaml:"compress"`
	RescaleCarrier bool `yaml:"rescale_carrier"`
	StoreFilename  bool `yaml:"store_filename"`
	WriteFile      bool `yaml:"write_file"`
	VisibleResult  bool `yaml:"visible_result"`
}

type profileYAML struct {
	Name    string             `yaml:"name"`
	Options profileOptionsYAML `yaml:"options"`
}

// LoadProfileYAML reads a single named option profile from r.
func LoadProfileYAML(r io.Reader) (Profile, error) {
	var raw profileYAML
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Profile{}, errors.Wrap(err, "loading option profile")
	}

	p := Profile{
		Name: raw.Name,
		Options: Options{
			EnableRed:      raw.Options.EnableRed,
			EnableGreen:    raw.Options.EnableGreen,
			EnableBlue:     raw.Options.EnableBlue,
			Compress:       raw.Options.Compress,
			RescaleCarrier: raw.Options.RescaleCarrier,
			StoreFilename:  raw.Options.StoreFilename,
			WriteFile:      raw.Options.WriteFile,
			VisibleResult:  raw.Options.VisibleResult,
		},
	}
	if err := p.Options.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// SaveProfileYAML writes a named option profile to w.
func SaveProfileYAML(w io.Writer, p Profile) error {
	raw := profileYAML{
		Name: p.Name,
		Options: profileOptionsYAML{
			EnableRed:      p.Options.EnableRed,
			EnableGreen:    p.Options.EnableGreen,
			EnableBlue:     p.Options.EnableBlue,
			Compress:       p.Options.Compress,
			RescaleCarrier: p.Options.RescaleCarrier,
			StoreFilename:  p.Options.StoreFilename,
			WriteFile:      p.Options.WriteFile,
			VisibleResult:  p.Options.VisibleResult,
		},
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(raw); err != nil {
		return errors.Wrap(err, "saving option profile")
	}
	return nil
}
