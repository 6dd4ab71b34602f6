package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/engine"
	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/export"
	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/piwi3910/CaseCut/internal/pipeline"
)

// NestCmd packs the cut list onto stock sheets
var NestCmd = &cobra.Command{
	Use:   "nest [job-file]",
	Short: "Nest the cut list onto stock sheets",
	Long: `Pack every part onto as few stock sheets as possible.

Examples:
  casecut nest --template tall-600
  casecut nest kitchen.toml --algorithm guillotine --pdf layout.pdf
  casecut nest kitchen.toml --compare`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNest,
}

var (
	nestDesign    *designFlags
	nestAlgorithm string
	nestPDF       string
	nestCompare   bool
	nestOffcuts   bool
	nestJSON      bool
)

func init() {
	nestDesign = bindDesignFlags(NestCmd)
	NestCmd.Flags().StringVarP(&nestAlgorithm, "algorithm", "a", "", "Override the nesting algorithm: shelf, guillotine, genetic")
	NestCmd.Flags().StringVar(&nestPDF, "pdf", "", "Write the sheet layouts to a PDF file")
	NestCmd.Flags().BoolVar(&nestCompare, "compare", false, "Compare the other algorithms and kerf settings")
	NestCmd.Flags().BoolVar(&nestOffcuts, "offcuts", false, "List reusable offcuts")
	NestCmd.Flags().BoolVar(&nestJSON, "json", false, "Print the sheets as JSON")
}

func runNest(cmd *cobra.Command, args []string) error {
	b, err := loadBatch(args, nestDesign)
	if err != nil {
		return err
	}
	if nestAlgorithm != "" {
		algo, err := model.ParseAlgorithm(nestAlgorithm)
		if err != nil {
			return err
		}
		b.Options.Nesting.Algorithm = algo
	}

	p := pipeline.New(b.Options)
	cl, err := p.CutList(cmd.Context(), b.Input.Designs)
	if err != nil {
		return err
	}
	sheets, err := p.Nest(cl.Items)
	if err != nil {
		return err
	}

	if nestJSON {
		return writeJSON(cmd.OutOrStdout(), sheets)
	}

	pterm.DefaultSection.Printf("Nesting: %s (%s)", b.Name, b.Options.Nesting.Algorithm)
	if err := renderTable(sheetTable(sheets)); err != nil {
		return err
	}
	pterm.Info.Printf("%d parts on %d sheets\n", model.CountParts(sheets), len(sheets))

	if nestOffcuts {
		offcuts := model.DetectAllOffcuts(sheets, b.Options.Nesting.Kerf, b.Options.Pricing)
		data := pterm.TableData{{"Offcut", "Sheet", "Size", "Value"}}
		for _, o := range offcuts {
			data = append(data, []string{o.ID, strconv.Itoa(o.SheetIndex + 1), mm(o.Width) + " x " + mm(o.Height), money(o.Value)})
		}
		pterm.DefaultSection.Println("Reusable offcuts")
		if err := renderTable(data); err != nil {
			return err
		}
	}

	if nestCompare {
		if err := printComparison(b.Options.Nesting, cl.Items); err != nil {
			return err
		}
	}

	if nestPDF != "" {
		cost := model.CalculateCost(cl.Items, sheets, b.Options.Nesting.Stock, b.Options.Pricing, cl.DoorCount)
		report := export.Report{
			Title:   b.Name,
			Items:   cl.Items,
			Sheets:  sheets,
			Stock:   b.Options.Nesting.Stock,
			Kerf:    b.Options.Nesting.Kerf,
			Cost:    cost,
			Pricing: b.Options.Pricing,
		}
		if err := export.ExportPDF(nestPDF, report); err != nil {
			return err
		}
		pterm.Success.Printf("Wrote %s\n", nestPDF)
	}
	printWarnings(b.Warnings)
	return nil
}

func printComparison(base model.NestingSettings, items []model.CutListItem) error {
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(base), items)
	data := pterm.TableData{{"Scenario", "Algorithm", "Kerf", "Sheets", "Parts", "Waste"}}
	for _, r := range results {
		if r.Err != nil {
			data = append(data, []string{r.Scenario.Name, string(r.Scenario.Settings.Algorithm), mm(r.Scenario.Settings.Kerf), "-", "-", errors.UnwrapAll(r.Err).Error()})
			continue
		}
		data = append(data, []string{
			r.Scenario.Name, string(r.Scenario.Settings.Algorithm), mm(r.Scenario.Settings.Kerf),
			strconv.Itoa(r.SheetsUsed), strconv.Itoa(r.PartsPlaced), percent(r.WastePercent),
		})
	}
	pterm.DefaultSection.Println("Scenario comparison")
	return renderTable(data)
}
