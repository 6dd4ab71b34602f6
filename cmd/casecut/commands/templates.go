package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/piwi3910/CaseCut/internal/project"
)

// TemplatesCmd manages cabinet templates
var TemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List and save cabinet templates",
	Long: `Cabinet templates are named designs that job files and the --template flag
can start from. Built-in templates are always available; templates saved in
the store (pipeline.templates, default ~/.casecut/templates.toml) replace
built-ins of the same name.`,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE:  runTemplatesList,
}

var templatesSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a cabinet design as a template",
	Long: `Save the cabinet described by the design flags into the template store.

Examples:
  casecut templates save base-450 -W 450 --description "Narrow base unit"
  casecut templates save deep-sink --template sink-1000 -D 600`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplatesSave,
}

var (
	templateDesign      *designFlags
	templateDescription string
)

func init() {
	templateDesign = bindDesignFlags(templatesSaveCmd)
	templatesSaveCmd.Flags().StringVar(&templateDescription, "description", "", "Template description")

	TemplatesCmd.AddCommand(templatesListCmd)
	TemplatesCmd.AddCommand(templatesSaveCmd)
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	store, err := project.LoadTemplates(templatePath())
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Name", "Size (W x H x D)", "Style", "Doors", "Shelves", "Description"}}
	for _, t := range store.Templates {
		d := t.Design.Dimensions
		data = append(data, []string{
			t.Name,
			mm(d.Width) + " x " + mm(d.Height) + " x " + mm(d.Depth),
			string(t.Design.Style),
			strconv.Itoa(t.Design.DoorCount),
			strconv.Itoa(t.Design.ShelfCount),
			t.Description,
		})
	}
	return renderTable(data)
}

func runTemplatesSave(cmd *cobra.Command, args []string) error {
	path := templatePath()
	store, err := project.LoadTemplates(path)
	if err != nil {
		return err
	}

	name := args[0]
	if templateDesign.name == "" {
		templateDesign.name = name
	}
	design, err := templateDesign.design(store)
	if err != nil {
		return err
	}

	if existing := store.FindByName(name); existing != nil {
		store.Remove(existing.ID)
	}
	store.Add(model.NewCabinetTemplate(name, templateDescription, design))

	if err := project.SaveTemplates(path, store); err != nil {
		return err
	}
	pterm.Success.Printf("Saved template %q to %s\n", name, path)
	return nil
}
