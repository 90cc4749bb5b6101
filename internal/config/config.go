package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/geoirb/proposal-binder/internal/binding"
	"github.com/geoirb/proposal-binder/internal/format"
)

// ErrInvalid is returned for configurations that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

type nameValidator interface {
	ValidName(name string) bool
}

// Mapping of one placeholder in the configuration file.
type Mapping struct {
	// Cell is a coordinate, range or defined name.
	Cell string `yaml:"cell,omitempty" json:"cell,omitempty"`
	// Value is a literal used instead of a cell.
	Value   *string  `yaml:"value,omitempty" json:"value,omitempty"`
	Format  string   `yaml:"format,omitempty" json:"format,omitempty"`
	Default string   `yaml:"default,omitempty" json:"default,omitempty"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Config of bindings. YAML and JSON files are accepted.
type Config struct {
	Sheet    string             `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Locale   string             `yaml:"locale,omitempty" json:"locale,omitempty"`
	Fallback string             `yaml:"fallback,omitempty" json:"fallback,omitempty"`
	Mappings map[string]Mapping `yaml:"mappings,omitempty" json:"mappings,omitempty"`
}

// Default ...
func Default() Config {
	return Config{
		Locale:   format.DefaultLocale,
		Mappings: map[string]Mapping{},
	}
}

// Load reads configuration from path over the defaults.
// An empty path returns the defaults.
func Load(path string) (cfg Config, err error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("read config: %w", err)
		return
	}
	return Parse(data)
}

// Parse configuration over the defaults.
func Parse(data []byte) (cfg Config, err error) {
	var loaded Config
	if err = yaml.Unmarshal(data, &loaded); err != nil {
		err = fmt.Errorf("%w: %s", ErrInvalid, err)
		return
	}

	cfg = Default()
	if err = mergo.Merge(&cfg, loaded, mergo.WithOverride); err != nil {
		err = fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return
}

// Table validates the mappings and returns the binding table.
// Aliases become keys sharing the mapping of their placeholder.
func (c Config) Table(names nameValidator) (table binding.Table, err error) {
	keys := make([]string, 0, len(c.Mappings))
	for name := range c.Mappings {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	table = make(binding.Table, len(c.Mappings))
	owners := make(map[string]string, len(c.Mappings))
	for _, name := range keys {
		m := c.Mappings[name]

		var mapping binding.Mapping
		if mapping, err = m.binding(); err != nil {
			err = fmt.Errorf("%w: mapping %s: %s", ErrInvalid, name, err)
			return nil, err
		}

		for _, key := range append([]string{name}, m.Aliases...) {
			if !names.ValidName(key) {
				err = fmt.Errorf("%w: mapping %s: invalid placeholder name %q", ErrInvalid, name, key)
				return nil, err
			}
			if owner, isExist := owners[key]; isExist {
				err = fmt.Errorf("%w: placeholder %s is mapped by %s and %s", ErrInvalid, key, owner, name)
				return nil, err
			}
			owners[key] = name
			table[key] = mapping
		}
	}
	return
}

func (m Mapping) binding() (mapping binding.Mapping, err error) {
	cell := strings.TrimSpace(m.Cell)
	switch {
	case cell == "" && m.Value == nil:
		err = errors.New("cell or value is required")
		return
	case cell != "" && m.Value != nil:
		err = errors.New("cell and value are exclusive")
		return
	}

	// no rule lets the placeholder hint decide.
	if strings.TrimSpace(m.Format) != "" {
		if mapping.Rule, err = format.Parse(m.Format); err != nil {
			return
		}
	}
	mapping.Spec = cell
	mapping.Default = m.Default
	if m.Value != nil {
		mapping.Literal = *m.Value
	}
	return
}
