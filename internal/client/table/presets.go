package table

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Preset is the stored configuration of one table.
type Preset struct {
	Title      string            `yaml:"title"`
	IDKey      string            `yaml:"id_key"`
	PageSize   int               `yaml:"page_size"`
	Infinite   bool              `yaml:"infinite"`
	StorageKey string            `yaml:"storage_key"`
	Extra      map[string]string `yaml:"extra"`
	Columns    []Column          `yaml:"columns"`
}

// Presets are keyed by table name.
type Presets map[string]Preset

// Config turns p into a model configuration.
func (p Preset) Config() Config {
	cfg := Config{
		Columns:  append([]Column(nil), p.Columns...),
		IDKey:    p.IDKey,
		PageSize: p.PageSize,
	}
	if p.Infinite {
		cfg.Mode = Infinite
	}
	if len(p.Extra) > 0 {
		cfg.Extra = url.Values{}
		for k, v := range p.Extra {
			cfg.Extra.Set(k, v)
		}
	}
	for i, c := range cfg.Columns {
		if c.Kind == "" {
			cfg.Columns[i].Kind = KindText
		}
	}
	return cfg
}

func ParsePresets(data []byte) (Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse table presets: %w", err)
	}
	return p, nil
}

// DefaultPresets are the built-in tables.
func DefaultPresets() Presets {
	p, err := ParsePresets(defaultPresets)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadPresets overlays the tables defined in path on the defaults. A
// missing file yields the defaults.
func LoadPresets(path string) (Presets, error) {
	presets := DefaultPresets()
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return presets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table presets: %w", err)
	}

	custom, err := ParsePresets(data)
	if err != nil {
		return nil, err
	}
	for name, p := range custom {
		presets[name] = p
	}
	return presets, nil
}
