package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/importer"
	"github.com/piwi3910/CaseCut/internal/model"
)

// TemplateRef instantiates a stored cabinet template under a new name.
type TemplateRef struct {
	Template string `json:"template" toml:"template" yaml:"template"`
	Name     string `json:"name" toml:"name" yaml:"name"`
}

// PanelRef is an extra machined panel read from a DXF drawing. Width and
// Height are only used when the drawing has no outline. Banding takes the
// edge notation of the cut list ("front", "top,left", "T+B").
type PanelRef struct {
	Name      string  `json:"name" toml:"name" yaml:"name"`
	File      string  `json:"file" toml:"file" yaml:"file"`
	Width     float64 `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
	Height    float64 `json:"height,omitempty" toml:"height,omitempty" yaml:"height,omitempty"`
	Thickness float64 `json:"thickness" toml:"thickness" yaml:"thickness"`
	Material  string  `json:"material,omitempty" toml:"material,omitempty" yaml:"material,omitempty"`
	Banding   string  `json:"banding,omitempty" toml:"banding,omitempty" yaml:"banding,omitempty"`
}

// Job is a batch of cabinets and panels manufactured in one run. Stock,
// Kerf, Algorithm and Pricing override the configuration when set.
type Job struct {
	Name      string                `json:"name" toml:"name" yaml:"name"`
	Cabinets  []model.CabinetDesign `json:"cabinets,omitempty" toml:"cabinets,omitempty" yaml:"cabinets,omitempty"`
	Templates []TemplateRef         `json:"templates,omitempty" toml:"templates,omitempty" yaml:"templates,omitempty"`
	Imports   []string              `json:"imports,omitempty" toml:"imports,omitempty" yaml:"imports,omitempty"`
	Panels    []PanelRef            `json:"panels,omitempty" toml:"panels,omitempty" yaml:"panels,omitempty"`
	Tools     []model.Tool          `json:"tools,omitempty" toml:"tools,omitempty" yaml:"tools,omitempty"`
	Stock     *model.StockSheet     `json:"stock,omitempty" toml:"stock,omitempty" yaml:"stock,omitempty"`
	Kerf      *float64              `json:"kerf,omitempty" toml:"kerf,omitempty" yaml:"kerf,omitempty"`
	Algorithm string                `json:"algorithm,omitempty" toml:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Pricing   *model.Pricing        `json:"pricing,omitempty" toml:"pricing,omitempty" yaml:"pricing,omitempty"`

	// Directory that relative import and panel paths resolve against
	dir string
}

// LoadJob reads a job file. Relative paths inside it resolve against the
// file's directory.
func LoadJob(path string) (Job, error) {
	var job Job
	if err := readFile(path, &job); err != nil {
		return Job{}, err
	}
	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	job.dir = filepath.Dir(path)
	return job, nil
}

// NewJob captures a batch of cabinets with the nesting and pricing it ran
// with, so the run can be repeated from a job file.
func NewJob(name string, cabinets []model.CabinetDesign, settings model.NestingSettings, pricing model.Pricing) Job {
	stock, kerf := settings.Stock, settings.Kerf
	return Job{
		Name:      name,
		Cabinets:  append([]model.CabinetDesign(nil), cabinets...),
		Stock:     &stock,
		Kerf:      &kerf,
		Algorithm: string(settings.Algorithm),
		Pricing:   &pricing,
	}
}

// SaveJob writes a job file in the format implied by path.
func SaveJob(path string, job Job) error {
	return writeFile(path, job)
}

func (j Job) resolve(path string) string {
	if filepath.IsAbs(path) || j.dir == "" {
		return path
	}
	return filepath.Join(j.dir, path)
}

// Designs expands the job into its cabinet designs: inline cabinets, then
// template instances, then every imported batch file in order. Warnings
// from the importer are returned alongside; any import error fails the job.
func (j Job) Designs(store model.TemplateStore) ([]model.CabinetDesign, []string, error) {
	designs := append([]model.CabinetDesign(nil), j.Cabinets...)
	var warnings []string

	for _, ref := range j.Templates {
		tmpl := store.FindByName(ref.Template)
		if tmpl == nil {
			return nil, nil, errors.WithHintf(
				errors.Newf("job %q: unknown cabinet template %q", j.Name, ref.Template),
				"available templates: %s", strings.Join(store.Names(), ", "))
		}
		designs = append(designs, tmpl.ToDesign(ref.Name))
	}

	for _, file := range j.Imports {
		path := j.resolve(file)
		result := importer.Import(path)
		for _, w := range result.Warnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", filepath.Base(path), w))
		}
		if len(result.Errors) > 0 {
			return nil, warnings, errors.Newf("import %s: %s", path, strings.Join(result.Errors, "; "))
		}
		designs = append(designs, result.Designs...)
	}

	seen := make(map[string]bool, len(designs))
	for _, d := range designs {
		if seen[d.Name] {
			return nil, warnings, errors.Newf("job %q: duplicate cabinet name %q", j.Name, d.Name)
		}
		seen[d.Name] = true
	}
	return designs, warnings, nil
}

// Components reads the job's DXF panels into machinable components.
func (j Job) Components() ([]model.ComponentDimensions, []string, error) {
	var (
		components []model.ComponentDimensions
		warnings   []string
	)
	for _, ref := range j.Panels {
		path := j.resolve(ref.File)
		base := model.ComponentDimensions{
			Name:        ref.Name,
			Width:       ref.Width,
			Height:      ref.Height,
			Thickness:   ref.Thickness,
			Material:    ref.Material,
			EdgeBanding: model.ParseEdgeBanding(ref.Banding),
		}
		if base.Name == "" {
			base.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if base.Material == "" {
			base.Material = importer.DefaultMaterial
		}

		result := importer.ImportDXF(path, base)
		for _, w := range result.Warnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", filepath.Base(path), w))
		}
		if len(result.Errors) > 0 {
			return nil, warnings, errors.Newf("panel %s: %s", path, strings.Join(result.Errors, "; "))
		}
		components = append(components, result.Component)
	}
	return components, warnings, nil
}

// ToolCatalog returns base with the job's tools added or replacing entries
// of the same id.
func (j Job) ToolCatalog(base model.ToolCatalog) model.ToolCatalog {
	return MergeTools(base, j.Tools)
}

// ApplyNesting overrides the nesting settings named in the job.
func (j Job) ApplyNesting(settings model.NestingSettings) (model.NestingSettings, error) {
	if j.Stock != nil {
		settings.Stock = *j.Stock
	}
	if j.Kerf != nil {
		settings.Kerf = *j.Kerf
	}
	if j.Algorithm != "" {
		algo, err := model.ParseAlgorithm(j.Algorithm)
		if err != nil {
			return settings, errors.Wrapf(err, "job %q", j.Name)
		}
		settings.Algorithm = algo
	}
	return settings, nil
}

// ApplyPricing overrides the pricing when the job sets one.
func (j Job) ApplyPricing(pricing model.Pricing) model.Pricing {
	if j.Pricing != nil {
		return *j.Pricing
	}
	return pricing
}
