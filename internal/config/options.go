package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var defaultOptionsYAML []byte

// TextureOther is the texture choice that defers to the free-text texture field.
const TextureOther = "Otro"

// Options lists the dropdown choices of the material form and the default suppliers.
type Options struct {
	Types     []string `yaml:"types"`
	Stones    []string `yaml:"stones"`
	Shapes    []string `yaml:"shapes"`
	Textures  []string `yaml:"textures"`
	Suppliers []string `yaml:"suppliers"`
}

// DefaultOptions returns the built-in option lists.
func DefaultOptions() Options {
	opts, err := parseOptions(defaultOptionsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded options.yaml is invalid: %v", err))
	}
	return opts
}

// LoadOptions reads option lists from path. Lists missing from the file keep their defaults.
// An empty path returns DefaultOptions.
func LoadOptions(path string) (Options, error) {
	if path == "" {
		return DefaultOptions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options file: %w", err)
	}

	override, err := parseOptions(data)
	if err != nil {
		return Options{}, fmt.Errorf("parse options file %s: %w", path, err)
	}

	opts := DefaultOptions()
	if len(override.Types) > 0 {
		opts.Types = override.Types
	}
	if len(override.Stones) > 0 {
		opts.Stones = override.Stones
	}
	if len(override.Shapes) > 0 {
		opts.Shapes = override.Shapes
	}
	if len(override.Textures) > 0 {
		opts.Textures = override.Textures
	}
	if len(override.Suppliers) > 0 {
		opts.Suppliers = override.Suppliers
	}
	return opts, nil
}

func parseOptions(data []byte) (Options, error) {
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, err
	}
	opts.Types = cleanList(opts.Types)
	opts.Stones = cleanList(opts.Stones)
	opts.Shapes = cleanList(opts.Shapes)
	opts.Textures = cleanList(opts.Textures)
	opts.Suppliers = cleanList(opts.Suppliers)
	return opts, nil
}

// cleanList trims entries and drops blanks and repeats, keeping order.
func cleanList(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
