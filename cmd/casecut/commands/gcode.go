package commands

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/gcode"
	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/piwi3910/CaseCut/internal/pipeline"
)

// GcodeCmd generates CNC programs for every panel
var GcodeCmd = &cobra.Command{
	Use:   "gcode [job-file]",
	Short: "Generate G-code programs",
	Long: `Build the machining job and G-code program for every panel.

Without --out-dir all programs are printed to stdout in job-id order.

Examples:
  casecut gcode --template base-600 > base.nc
  casecut gcode kitchen.toml -o programs/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGcode,
}

var (
	gcodeDesign *designFlags
	gcodeOutDir string
)

func init() {
	gcodeDesign = bindDesignFlags(GcodeCmd)
	GcodeCmd.Flags().StringVarP(&gcodeOutDir, "out-dir", "o", "", "Write one .nc file per panel into this directory")
}

func runGcode(cmd *cobra.Command, args []string) error {
	b, err := loadBatch(args, gcodeDesign)
	if err != nil {
		return err
	}

	p := pipeline.New(b.Options)
	cl, err := p.CutList(cmd.Context(), b.Input.Designs)
	if err != nil {
		return err
	}
	components := append(cl.Components, b.Input.Panels...)
	mr, err := p.Machine(cmd.Context(), components)
	if err != nil {
		return err
	}

	if gcodeOutDir == "" {
		_, err := cmd.OutOrStdout().Write([]byte(gcode.RenderAll(mr.Programs)))
		printWarnings(append(b.Warnings, mr.Warnings...))
		return errors.Wrap(err, "failed to write programs")
	}

	paths, err := writePrograms(gcodeOutDir, mr.Programs)
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Job", "Drill", "Route", "Pocket", "Contour", "Tools", "Est. time", "File"}}
	for i, prog := range mr.Programs {
		row := []string{prog.JobID}
		for _, t := range model.OperationTypes {
			row = append(row, strconv.Itoa(mr.Jobs[i].OperationCount(t)))
		}
		row = append(row, strconv.Itoa(len(prog.ToolChanges())), prog.EstimatedTime.Round(time.Second).String(), paths[i])
		data = append(data, row)
	}
	pterm.DefaultSection.Printf("G-code: %s", b.Name)
	if err := renderTable(data); err != nil {
		return err
	}
	pterm.Success.Printf("Wrote %d programs to %s\n", len(paths), gcodeOutDir)
	printWarnings(append(b.Warnings, mr.Warnings...))
	return nil
}

// writePrograms renders each program into dir and returns the file paths in
// program order.
func writePrograms(dir string, programs []gcode.Program) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", dir)
	}
	paths := make([]string, 0, len(programs))
	for _, prog := range programs {
		path := filepath.Join(dir, gcode.FileName(prog.Name))
		if err := os.WriteFile(path, []byte(gcode.Render(prog)), 0644); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
