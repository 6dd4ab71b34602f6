package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Workbook sheet names.
const (
	SheetCutList = "Cut List"
	SheetNesting = "Nesting"
	SheetCost    = "Cost"
)

// Report is everything the workbook and PDF summary show for one run.
type Report struct {
	Title   string
	Items   []model.CutListItem
	Sheets  []model.NestingSheet
	Stock   model.StockSheet
	Kerf    float64
	Cost    model.CostBreakdown
	Pricing model.Pricing
}

// ExportExcel writes a workbook with the cut list, the sheet layout
// statistics and the cost breakdown.
func ExportExcel(path string, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCutList); err != nil {
		return errors.Wrap(err, "failed to rename default sheet")
	}
	if err := writeCutListSheet(f, r.Items); err != nil {
		return err
	}
	if err := writeNestingSheet(f, r.Sheets); err != nil {
		return err
	}
	if err := writeCostSheet(f, r); err != nil {
		return err
	}

	return errors.Wrapf(f.SaveAs(path), "failed to save workbook %s", path)
}

func writeCutListSheet(f *excelize.File, items []model.CutListItem) error {
	header := make([]any, len(CutListHeader))
	for i, h := range CutListHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetCutList, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write cut list header")
	}

	for i, it := range items {
		row := []any{it.Name, it.Width, it.Height, it.Thickness, it.Quantity, it.Material, it.EdgeBanding.String()}
		if err := f.SetSheetRow(SheetCutList, cell(1, i+2), &row); err != nil {
			return errors.Wrapf(err, "failed to write cut list row %d", i+1)
		}
	}
	return boldHeader(f, SheetCutList, len(CutListHeader))
}

func writeNestingSheet(f *excelize.File, sheets []model.NestingSheet) error {
	if _, err := f.NewSheet(SheetNesting); err != nil {
		return errors.Wrap(err, "failed to add nesting sheet")
	}
	header := []any{"Sheet", "Part", "Name", "Material", "X (mm)", "Y (mm)", "Width (mm)", "Height (mm)", "Sheet Waste (%)"}
	if err := f.SetSheetRow(SheetNesting, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write nesting header")
	}

	row := 2
	for _, s := range sheets {
		for _, p := range s.Parts {
			values := []any{s.Index + 1, p.ID, p.Name, p.Material, p.X, p.Y, p.Width, p.Height, round1(s.WastePercentage)}
			if err := f.SetSheetRow(SheetNesting, cell(1, row), &values); err != nil {
				return errors.Wrapf(err, "failed to write placement %s", p.ID)
			}
			row++
		}
	}
	return boldHeader(f, SheetNesting, len(header))
}

func writeCostSheet(f *excelize.File, r Report) error {
	if _, err := f.NewSheet(SheetCost); err != nil {
		return errors.Wrap(err, "failed to add cost sheet")
	}
	rows := [][]any{
		{"Item", "Value"},
		{"Sheets Used", r.Cost.SheetCount},
		{"Sheet Size (mm)", fmt.Sprintf("%.0f x %.0f", r.Stock.Width, r.Stock.Height)},
		{"Price per m²", r.Pricing.PricePerSquareMeter},
		{"Material Cost", round2(r.Cost.MaterialCost)},
		{"Hardware Cost", round2(r.Cost.HardwareCost)},
		{"Total Cost", round2(r.Cost.TotalCost)},
		{"Average Waste (%)", round1(r.Cost.WastePercentage)},
	}
	for i, values := range rows {
		if err := f.SetSheetRow(SheetCost, cell(1, i+1), &values); err != nil {
			return errors.Wrapf(err, "failed to write cost row %d", i+1)
		}
	}
	return boldHeader(f, SheetCost, 2)
}

func boldHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}
	return errors.Wrapf(f.SetCellStyle(sheet, "A1", cell(cols, 1), style), "failed to style %s header", sheet)
}

// cell returns the A1 reference for a 1-based column and row.
func cell(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
