package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/importer"
	"github.com/piwi3910/CaseCut/internal/model"
)

// designFlags describe a single cabinet on the command line, either from a
// template or from explicit dimensions. Explicit flags override the template.
type designFlags struct {
	cmd *cobra.Command

	name      string
	template  string
	width     float64
	height    float64
	depth     float64
	thickness float64
	style     string
	doors     int
	shelves   int
	noBack    bool
	material  string
}

func bindDesignFlags(cmd *cobra.Command) *designFlags {
	df := &designFlags{cmd: cmd}
	f := cmd.Flags()
	f.StringVar(&df.name, "name", "", "Cabinet name (default: template name or \"Cabinet\")")
	f.StringVarP(&df.template, "template", "t", "", "Start from a stored cabinet template")
	f.Float64VarP(&df.width, "width", "W", 600, "Outer width in mm")
	f.Float64VarP(&df.height, "height", "H", 720, "Outer height in mm")
	f.Float64VarP(&df.depth, "depth", "D", 560, "Outer depth in mm")
	f.Float64Var(&df.thickness, "thickness", importer.DefaultThickness, "Carcass material thickness in mm")
	f.StringVar(&df.style, "style", string(model.StyleEuro), "Construction style: euro, inset, faceframe")
	f.IntVar(&df.doors, "doors", 1, "Number of doors")
	f.IntVar(&df.shelves, "shelves", 1, "Number of adjustable shelves")
	f.BoolVar(&df.noBack, "no-back", false, "Omit the back panel")
	f.StringVar(&df.material, "material", importer.DefaultMaterial, "Sheet material")
	return df
}

func (df *designFlags) changed(name string) bool {
	return df.cmd.Flags().Changed(name)
}

// design resolves the flags into a validated cabinet design.
func (df *designFlags) design(store model.TemplateStore) (model.CabinetDesign, error) {
	var d model.CabinetDesign
	useFlag := func(string) bool { return true }

	if df.template != "" {
		tmpl := store.FindByName(df.template)
		if tmpl == nil {
			return d, errors.WithHintf(
				errors.Newf("unknown cabinet template %q", df.template),
				"available templates: %s", strings.Join(store.Names(), ", "))
		}
		d = tmpl.ToDesign("")
		useFlag = df.changed
	} else {
		d.Name = "Cabinet"
	}

	if df.name != "" {
		d.Name = df.name
	}
	if useFlag("width") {
		d.Dimensions.Width = df.width
	}
	if useFlag("height") {
		d.Dimensions.Height = df.height
	}
	if useFlag("depth") {
		d.Dimensions.Depth = df.depth
	}
	if useFlag("thickness") {
		d.Dimensions.Thickness = df.thickness
	}
	if useFlag("style") {
		style, err := model.ParseStyle(df.style)
		if err != nil {
			return d, err
		}
		d.Style = style
	}
	if useFlag("doors") {
		d.DoorCount = df.doors
	}
	if useFlag("shelves") {
		d.ShelfCount = df.shelves
	}
	if useFlag("no-back") {
		d.IncludeBack = !df.noBack
	}
	if useFlag("material") {
		d.Material = df.material
	}

	return d, d.Validate()
}
