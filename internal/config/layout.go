package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/tone"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/zone"
)

// ZoneEntry is one zone of a layout file. Fractions are of the screen size;
// offsets and size adjustments are pixels.
type ZoneEntry struct {
	Name    string     `yaml:"name"`
	Type    string     `yaml:"type"`
	Tag     object.Tag `yaml:"tag,omitempty"`
	X       float64    `yaml:"x"`
	Y       float64    `yaml:"y"`
	W       float64    `yaml:"w"`
	H       float64    `yaml:"h"`
	OffsetX float64    `yaml:"offset_x,omitempty"`
	OffsetY float64    `yaml:"offset_y,omitempty"`
	AddW    float64    `yaml:"add_w,omitempty"`
	AddH    float64    `yaml:"add_h,omitempty"`
}

// Layout is the document read by LoadLayout.
type Layout struct {
	Zones []ZoneEntry `yaml:"zones"`
}

// DefaultLayout returns the installation layout: four waveform zones and
// the arrangement zone below the first two.
func DefaultLayout() []zone.Def {
	wavegen := func(tag object.Tag, x, y float64) zone.Def {
		return zone.Def{
			Name: string(tag), Type: zone.WaveGen, Tag: tag,
			ScaledX: x, ScaledY: y, ScaledW: 0.31, ScaledH: 0.47,
			OffsetX: 40, AddW: -40,
		}
	}
	return []zone.Def{
		wavegen(object.Star, 0.02, 0.02),
		wavegen(object.Circle, 0.35, 0.02),
		wavegen(object.Square, 0.68, 0.02),
		wavegen(object.Triangle, 0.68, 0.51),
		{
			Name: "arrangement", Type: zone.Arrangement,
			ScaledX: 0.02, ScaledY: 0.51, ScaledW: 0.64, ScaledH: 0.47,
		},
	}
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) ([]zone.Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(data []byte) ([]zone.Def, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if len(l.Zones) == 0 {
		return nil, errors.New("layout has no zones")
	}
	defs := make([]zone.Def, 0, len(l.Zones))
	for i, e := range l.Zones {
		d, err := e.def()
		if err != nil {
			return nil, fmt.Errorf("zone %d (%s): %w", i, e.Name, err)
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func (e ZoneEntry) def() (zone.Def, error) {
	d := zone.Def{
		Name:    e.Name,
		ScaledX: e.X, ScaledY: e.Y, ScaledW: e.W, ScaledH: e.H,
		OffsetX: e.OffsetX, OffsetY: e.OffsetY, AddW: e.AddW, AddH: e.AddH,
	}
	switch e.Type {
	case "wavegen":
		if _, ok := tone.ShapeFor(e.Tag); !ok {
			return d, fmt.Errorf("tag %q has no wave shape", e.Tag)
		}
		d.Type = zone.WaveGen
		d.Tag = e.Tag
	case "arrangement":
		d.Type = zone.Arrangement
	default:
		return d, fmt.Errorf("unknown zone type %q", e.Type)
	}
	for _, f := range []float64{e.X, e.Y, e.W, e.H} {
		if f < 0 || f > 1 {
			return d, fmt.Errorf("fraction %v outside [0,1]", f)
		}
	}
	if e.W == 0 || e.H == 0 {
		return d, errors.New("zero size")
	}
	if d.Name == "" {
		d.Name = e.Type
		if e.Tag != "" {
			d.Name = string(e.Tag)
		}
	}
	return d, nil
}
