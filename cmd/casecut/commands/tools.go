package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/gcode"
	"github.com/piwi3910/CaseCut/internal/project"
)

// ToolsCmd shows the tool catalog
var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show the tool catalog",
	Long: `List the tools available to machining and G-code generation: the default
rack merged with pipeline.tools when configured.

Examples:
  casecut tools
  casecut tools --save rack.toml    # write the catalog as a starting rack file`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

var toolsSave string

func init() {
	ToolsCmd.Flags().StringVar(&toolsSave, "save", "", "Write the catalog to a tool rack file (.toml, .yaml, .json)")
}

func runTools(cmd *cobra.Command, args []string) error {
	opts, err := pipelineOptions()
	if err != nil {
		return err
	}

	data := pterm.TableData{{"T", "ID", "Name", "Diameter", "RPM", "Feed", "Plunge", "Step down"}}
	for _, t := range opts.Catalog.Tools() {
		data = append(data, []string{
			"T" + strconv.Itoa(gcode.ToolNumber(t.ID)), t.ID, t.Name, mm(t.Diameter),
			strconv.Itoa(t.RPM), mm(t.FeedRate), mm(t.PlungeRate), mm(t.StepDown),
		})
	}
	if err := renderTable(data); err != nil {
		return err
	}

	if toolsSave != "" {
		if err := project.SaveTools(toolsSave, opts.Catalog); err != nil {
			return err
		}
		pterm.Success.Printf("Wrote %s\n", toolsSave)
	}
	return nil
}
