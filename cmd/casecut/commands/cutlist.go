package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/export"
	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/piwi3910/CaseCut/internal/pipeline"
)

// CutlistCmd prints the cut list for a cabinet or a job file
var CutlistCmd = &cobra.Command{
	Use:   "cutlist [job-file]",
	Short: "Generate the cut list",
	Long: `Decompose cabinets into flat rectangular parts.

Without a job file a single cabinet is built from the design flags.

Examples:
  casecut cutlist -W 600 -H 720 -D 560 --doors 1
  casecut cutlist --template base-800 --format csv
  casecut cutlist kitchen.toml --out cutlist.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCutlist,
}

var (
	cutlistDesign  *designFlags
	cutlistFormat  string
	cutlistOut     string
	cutlistBanding float64
	cutlistPerItem bool
)

func init() {
	cutlistDesign = bindDesignFlags(CutlistCmd)
	CutlistCmd.Flags().StringVar(&cutlistFormat, "format", formatTable, "Output format: table, csv, json")
	CutlistCmd.Flags().StringVarP(&cutlistOut, "out", "o", "", "Also write the cut list to a CSV file")
	CutlistCmd.Flags().Float64Var(&cutlistBanding, "banding-waste", 10, "Edge banding waste allowance in percent")
	CutlistCmd.Flags().BoolVar(&cutlistPerItem, "banding-detail", false, "List edge banding length per cut list row")
}

func runCutlist(cmd *cobra.Command, args []string) error {
	b, err := loadBatch(args, cutlistDesign)
	if err != nil {
		return err
	}
	cl, err := pipeline.New(b.Options).CutList(cmd.Context(), b.Input.Designs)
	if err != nil {
		return err
	}

	if cutlistOut != "" {
		if err := export.ExportCutListCSV(cutlistOut, cl.Items); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch cutlistFormat {
	case formatCSV:
		return export.WriteCutListCSV(out, cl.Items)
	case formatJSON:
		return writeJSON(out, cl.Items)
	case formatTable:
	default:
		return errors.Newf("unsupported format: %s (supported: table, csv, json)", cutlistFormat)
	}

	pterm.DefaultSection.Printf("Cut list: %s", b.Name)
	if err := renderTable(cutListTable(cl.Items)); err != nil {
		return err
	}

	banding := model.CalculateEdgeBanding(cl.Items, cutlistBanding)
	pterm.Info.Printf("Parts: %d  Edge banding: %.2f m (%.2f m with %.0f%% waste) on %d edges\n",
		model.TotalQuantity(cl.Items), banding.TotalLinearM, banding.TotalWithWasteM, banding.WastePercent, banding.EdgeCount)
	if cutlistPerItem {
		if err := renderTable(bandingTable(model.CalculatePerItemEdgeBanding(cl.Items))); err != nil {
			return err
		}
	}
	if cutlistOut != "" {
		pterm.Success.Printf("Wrote %s\n", cutlistOut)
	}
	printWarnings(b.Warnings)
	return nil
}
