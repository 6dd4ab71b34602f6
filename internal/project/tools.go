package project

import (
	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// ToolRack is the on-disk form of a tool catalog.
type ToolRack struct {
	Tools []model.Tool `json:"tools" toml:"tools" yaml:"tools"`
}

// SaveTools writes the catalog's tools sorted by id.
func SaveTools(path string, catalog model.ToolCatalog) error {
	return writeFile(path, ToolRack{Tools: catalog.Tools()})
}

// LoadTools reads a tool rack and merges it onto the default catalog.
func LoadTools(path string) (model.ToolCatalog, error) {
	var rack ToolRack
	if err := readFile(path, &rack); err != nil {
		return model.ToolCatalog{}, err
	}
	for i, t := range rack.Tools {
		if err := validateTool(t); err != nil {
			return model.ToolCatalog{}, errors.Wrapf(err, "%s: tool %d", path, i+1)
		}
	}
	return MergeTools(model.DefaultToolCatalog(), rack.Tools), nil
}

// MergeTools returns base with tools added. A tool with an existing id
// replaces the catalog entry.
func MergeTools(base model.ToolCatalog, tools []model.Tool) model.ToolCatalog {
	for _, t := range tools {
		base = base.With(t)
	}
	return base
}

func validateTool(t model.Tool) error {
	if t.ID == "" {
		return errors.New("tool has no id")
	}
	if t.Diameter <= 0 || t.FeedRate <= 0 || t.PlungeRate <= 0 {
		return errors.Wrapf(errors.ErrInvalidDimension,
			"tool %s: diameter, feed rate and plunge rate must be positive", t.ID)
	}
	return nil
}
