package analysis

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"combatlog_check/analysis/efficiency"
	"combatlog_check/analysis/suggestion"
	"combatlog_check/wow"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type Preset struct {
	Title string `toml:"title" json:"title"`

	Feeder      int `toml:"feeder" json:"feeder"`
	Target      int `toml:"target" json:"target"`
	ReductionMs int `toml:"reduction_ms" json:"reduction_ms"`

	ResourceType      int    `toml:"resource_type" json:"resource_type"`
	ResourceName      string `toml:"resource_name" json:"resource_name"`
	ResourceThreshold int    `toml:"resource_threshold" json:"resource_threshold"`

	Efficiency  *suggestion.Bands `toml:"efficiency" json:"efficiency"`
	WastedCasts *suggestion.Bands `toml:"wasted_casts" json:"wasted_casts"`
}

type Presets map[string]*Preset

var (
	//go:embed presets.toml
	presetsTOML []byte

	DefaultPresets Presets
)

func init() {
	var err error
	DefaultPresets, err = LoadPresets(presetsTOML)
	if err != nil {
		panic(err)
	}
}

// PresetsData is the embedded presets file.
func PresetsData() []byte {
	return presetsTOML
}

func LoadPresetsFile(path string) (Presets, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	p, err := LoadPresets(data)
	return p, data, err
}

func LoadPresets(data []byte) (Presets, error) {
	var file struct {
		Presets Presets `toml:"presets"`
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parse presets")
	}

	// requests are matched lowercased
	presets := make(Presets, len(file.Presets))
	for name, p := range file.Presets {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := presets[key]; ok {
			return nil, errors.Errorf("preset %s: duplicate name", name)
		}
		presets[key] = p

		switch {
		case p.Feeder <= 0:
			return nil, errors.Errorf("preset %s: feeder is required", name)
		case p.Target <= 0:
			return nil, errors.Errorf("preset %s: target is required", name)
		case p.ReductionMs <= 0:
			return nil, errors.Errorf("preset %s: reduction_ms must be positive", name)
		}

		if p.Title == "" {
			p.Title = name
		}
		if p.Efficiency == nil {
			b := efficiency.DefaultEfficiencyBands
			p.Efficiency = &b
		}
		if p.WastedCasts == nil {
			b := efficiency.DefaultWastedCastsBands
			p.WastedCasts = &b
		}
	}

	return presets, nil
}

// Lookup finds a preset by name, ignoring case.
func (p Presets) Lookup(name string) (*Preset, bool) {
	v, ok := p[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Preset) Config(abilities wow.Abilities) efficiency.Config {
	return efficiency.Config{
		Feeder:            p.Feeder,
		FeederName:        abilities.Name(p.Feeder),
		Target:            p.Target,
		TargetName:        abilities.Name(p.Target),
		ReductionMs:       p.ReductionMs,
		ResourceType:      p.ResourceType,
		ResourceName:      p.ResourceName,
		ResourceThreshold: p.ResourceThreshold,
		Efficiency:        *p.Efficiency,
		WastedCasts:       *p.WastedCasts,
	}
}
