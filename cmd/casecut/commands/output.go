package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func renderTable(data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to encode JSON")
}

func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	pterm.Println()
	for _, w := range warnings {
		pterm.Warning.Println(w)
	}
}

func cutListTable(items []model.CutListItem) pterm.TableData {
	data := pterm.TableData{{"ID", "Part", "Width", "Height", "Thick", "Qty", "Material", "Banding"}}
	for _, it := range items {
		data = append(data, []string{
			it.ID, it.Name, mm(it.Width), mm(it.Height), mm(it.Thickness),
			strconv.Itoa(it.Quantity), it.Material, it.EdgeBanding.String(),
		})
	}
	return data
}

func bandingTable(rows []model.PerItemEdgeBanding) pterm.TableData {
	data := pterm.TableData{{"Part", "Size", "Qty", "Edges", "Per piece (mm)", "Total (mm)"}}
	for _, r := range rows {
		data = append(data, []string{
			r.Name, mm(r.Width) + " x " + mm(r.Height), strconv.Itoa(r.Quantity),
			r.Edges, mm(r.LengthPerUnit), mm(r.TotalLength),
		})
	}
	return data
}

func sheetTable(sheets []model.NestingSheet) pterm.TableData {
	data := pterm.TableData{{"Sheet", "Material", "Size", "Parts", "Waste"}}
	for _, s := range sheets {
		material := ""
		if len(s.Parts) > 0 {
			material = s.Parts[0].Material
		}
		data = append(data, []string{
			strconv.Itoa(s.Index + 1), material,
			fmt.Sprintf("%s x %s", mm(s.Width), mm(s.Height)),
			strconv.Itoa(len(s.Parts)), percent(s.WastePercentage),
		})
	}
	return data
}

func costTable(c model.CostBreakdown, p model.Pricing) pterm.TableData {
	return pterm.TableData{
		{"Item", "Value"},
		{"Sheets", strconv.Itoa(c.SheetCount)},
		{"Price per m²", money(p.PricePerSquareMeter)},
		{"Material", money(c.MaterialCost)},
		{"Hardware", money(c.HardwareCost)},
		{"Total", money(c.TotalCost)},
		{"Mean waste", percent(c.WastePercentage)},
	}
}
