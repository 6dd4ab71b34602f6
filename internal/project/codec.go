// Package project reads and writes CaseCut job files, cabinet template
// stores, tool racks and run manifests. Files are TOML, YAML or JSON chosen
// by extension.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/CaseCut/internal/errors"
)

// Format is a supported file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor returns the format implied by the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Newf("unsupported file extension %q (want .toml, .yaml, .yml or .json)", filepath.Ext(path))
	}
}

func decode(format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

func encode(format Format, v any) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(v)
	case FormatYAML:
		return yaml.Marshal(v)
	default:
		return json.MarshalIndent(v, "", "  ")
	}
}

// readFile decodes path into v using the format of its extension.
func readFile(path string, v any) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	if err := decode(format, data, v); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}

// writeFile encodes v to path, creating parent directories as needed.
func writeFile(path string, v any) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := encode(format, v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "failed to write %s", path)
}
