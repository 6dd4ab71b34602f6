package commands

import (
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/export"
	"github.com/piwi3910/CaseCut/internal/logger"
	"github.com/piwi3910/CaseCut/internal/pipeline"
	"github.com/piwi3910/CaseCut/internal/project"
)

// Artifact file names inside the output directory.
const (
	programDir   = "gcode"
	cutListFile  = "cutlist.csv"
	workbookFile = "report.xlsx"
	layoutFile   = "layout.pdf"
	labelsFile   = "labels.pdf"
)

// RunCmd runs the whole pipeline and writes every artifact
var RunCmd = &cobra.Command{
	Use:   "run [job-file]",
	Short: "Run the full pipeline and write all outputs",
	Long: `Generate cut lists, nest them, build machining jobs and G-code, and price the
batch. Writes into the output directory:

  gcode/*.nc      one program per panel
  cutlist.csv     the cut list
  report.xlsx     cut list, sheet statistics and cost
  layout.pdf      nested sheet layouts with a summary page
  labels.pdf      QR part labels
  manifest.json   run id and the list of files written

Examples:
  casecut run kitchen.toml
  casecut run kitchen.yaml -o out/kitchen --workers 4
  casecut run --template sink-1000 --save-job sink.toml   # keep the flags as a job file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var (
	runDesign  *designFlags
	runOutDir  string
	runSaveJob string
)

func init() {
	runDesign = bindDesignFlags(RunCmd)
	RunCmd.Flags().StringVarP(&runOutDir, "out-dir", "o", "", "Output directory (default: pipeline.output_dir)")
	RunCmd.Flags().StringVar(&runSaveJob, "save-job", "", "Also write the cabinets and settings as a job file (.toml, .yaml, .json); DXF panels are not included")
}

func runRun(cmd *cobra.Command, args []string) error {
	b, err := loadBatch(args, runDesign)
	if err != nil {
		return err
	}
	dir := runOutDir
	if dir == "" {
		dir = cfg.Pipeline.OutputDir
	}

	spinner, _ := pterm.DefaultSpinner.Start("Running pipeline...")
	res, err := pipeline.New(b.Options).Run(cmd.Context(), b.Input)
	if err != nil {
		spinner.Fail("Pipeline failed")
		return err
	}
	res.Warnings = append(b.Warnings, res.Warnings...)

	manifest, err := writeArtifacts(dir, b.Name, res, b.Options)
	if err != nil {
		spinner.Fail("Writing outputs failed")
		return err
	}
	spinner.Success("Pipeline complete")

	if runSaveJob != "" {
		job := project.NewJob(b.Name, b.Input.Designs, b.Options.Nesting, b.Options.Pricing)
		if err := project.SaveJob(runSaveJob, job); err != nil {
			return err
		}
		pterm.Success.Printf("Wrote job file %s\n", runSaveJob)
	}

	pterm.DefaultSection.Printf("Run %s", manifest.RunID)
	if err := renderTable(costTable(res.Cost, b.Options.Pricing)); err != nil {
		return err
	}
	pterm.Info.Printf("%d cabinets, %d parts, %d sheets, %d programs in %s\n",
		len(res.Cabinets), len(res.Items), len(res.Sheets), len(res.Programs), res.Duration.Round(time.Millisecond))
	pterm.Success.Printf("Wrote %d files to %s\n", len(manifest.Files)+1, dir)
	printWarnings(res.Warnings)
	return nil
}

// writeArtifacts writes programs, exports and the manifest into dir. Exports
// that need a nested layout are skipped when the batch has no sheet parts.
func writeArtifacts(dir, name string, res pipeline.Result, opts pipeline.Options) (project.RunManifest, error) {
	log := logger.Named("cli")
	m := project.NewRunManifest(name)
	m.Cabinets = res.Cabinets
	m.Sheets = len(res.Sheets)
	m.Programs = len(res.Programs)
	m.Cost = res.Cost
	m.Warnings = res.Warnings

	paths, err := writePrograms(filepath.Join(dir, programDir), res.Programs)
	if err != nil {
		return m, err
	}
	for _, p := range paths {
		m.AddFile(project.KindGCode, dir, p)
	}

	if len(res.Items) > 0 {
		path := filepath.Join(dir, cutListFile)
		if err := export.ExportCutListCSV(path, res.Items); err != nil {
			return m, err
		}
		m.AddFile(project.KindCutList, dir, path)

		report := export.Report{
			Title:   name,
			Items:   res.Items,
			Sheets:  res.Sheets,
			Stock:   opts.Nesting.Stock,
			Kerf:    opts.Nesting.Kerf,
			Cost:    res.Cost,
			Pricing: opts.Pricing,
		}

		path = filepath.Join(dir, workbookFile)
		if err := export.ExportExcel(path, report); err != nil {
			return m, err
		}
		m.AddFile(project.KindWorkbook, dir, path)

		path = filepath.Join(dir, layoutFile)
		if err := export.ExportPDF(path, report); err != nil {
			return m, err
		}
		m.AddFile(project.KindLayout, dir, path)

		path = filepath.Join(dir, labelsFile)
		if err := export.ExportLabels(path, res.Sheets, res.Items); err != nil {
			return m, err
		}
		m.AddFile(project.KindLabels, dir, path)
	}

	manifestPath, err := project.WriteManifest(dir, m)
	if err != nil {
		return m, err
	}
	log.Infow("Wrote run outputs",
		logger.FieldRunID, m.RunID,
		logger.FieldFile, manifestPath,
		logger.FieldCount, len(m.Files),
	)
	return m, nil
}
