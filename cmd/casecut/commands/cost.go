package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/piwi3910/CaseCut/internal/pipeline"
)

// CostCmd prices a nested cut list
var CostCmd = &cobra.Command{
	Use:   "cost [job-file]",
	Short: "Estimate material and hardware cost",
	Long: `Nest the cut list and price whole sheets plus hinges and handles.

Examples:
  casecut cost --template base-800 --sheet-price 24.5
  casecut cost kitchen.toml --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCost,
}

var (
	costDesign *designFlags
	costSheet  float64
	costHinge  float64
	costHandle float64
	costJSON   bool
	costExtra  float64
)

func init() {
	costDesign = bindDesignFlags(CostCmd)
	CostCmd.Flags().Float64Var(&costSheet, "sheet-price", 0, "Override the price per m² of sheet material")
	CostCmd.Flags().Float64Var(&costHinge, "hinge-price", 0, "Override the price per hinge")
	CostCmd.Flags().Float64Var(&costHandle, "handle-price", 0, "Override the price per handle")
	CostCmd.Flags().BoolVar(&costJSON, "json", false, "Print the breakdown as JSON")
	CostCmd.Flags().Float64Var(&costExtra, "purchase-waste", 15, "Extra material percentage for the pre-nesting purchase estimate")
}

func runCost(cmd *cobra.Command, args []string) error {
	b, err := loadBatch(args, costDesign)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("sheet-price") {
		b.Options.Pricing.PricePerSquareMeter = costSheet
	}
	if cmd.Flags().Changed("hinge-price") {
		b.Options.Pricing.HingePrice = costHinge
	}
	if cmd.Flags().Changed("handle-price") {
		b.Options.Pricing.HandlePrice = costHandle
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
	cost := model.CalculateCost(cl.Items, sheets, b.Options.Nesting.Stock, b.Options.Pricing, cl.DoorCount)

	if costJSON {
		return writeJSON(cmd.OutOrStdout(), cost)
	}
	pterm.DefaultSection.Printf("Cost: %s", b.Name)
	if err := renderTable(costTable(cost, b.Options.Pricing)); err != nil {
		return err
	}
	pterm.Info.Printf("%d doors: %d hinges, %d handles\n", cl.DoorCount, cl.DoorCount*model.HingesPerDoor, cl.DoorCount)

	est := model.CalculatePurchaseEstimate(cl.Items, b.Options.Nesting.Stock, b.Options.Nesting.Kerf, costExtra, b.Options.Pricing)
	pterm.Info.Printf("Area estimate: %s sheets of parts, buy %d with %s%% extra (%s); nesting uses %d\n",
		mm(round1(est.SheetsNeededExact)), est.SheetsWithWaste, mm(est.WastePercent), money(est.EstimatedCost), cost.SheetCount)
	printWarnings(b.Warnings)
	return nil
}
