// Package export writes pipeline results to CSV, Excel, PDF and label files.
package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

type partColor struct {
	R, G, B int
}

// partColors cycles per cut list item so repeated parts share a colour.
var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// A4 landscape, all values in mm.
const (
	pageW       = 297.0
	pageH       = 210.0
	margin      = 15.0
	titleH      = 12.0
	legendSpace = 20.0
	boardTop    = margin + titleH + 5.0
	contentW    = pageW - 2*margin
	hatchStep   = 4.0
	fontFamily  = "Helvetica"
)

// ExportPDF renders one page per nested sheet with its layout diagram and
// reusable offcuts, followed by a summary page.
func ExportPDF(path string, r Report) error {
	if len(r.Sheets) == 0 {
		return errors.New("no sheets to export")
	}

	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetAutoPageBreak(false, margin)
	w := &pdfWriter{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}

	colors := itemColors(r.Sheets)
	var offcuts []model.Offcut
	for _, sheet := range r.Sheets {
		found := model.DetectOffcuts(sheet, r.Kerf, r.Pricing)
		offcuts = append(offcuts, found...)
		doc.AddPage()
		w.sheetPage(sheet, found, colors)
	}

	doc.AddPage()
	w.summaryPage(r, offcuts)

	return errors.Wrapf(doc.OutputFileAndClose(path), "failed to write PDF %s", path)
}

// itemColors assigns a colour to each cut list item in first-placed order.
func itemColors(sheets []model.NestingSheet) map[string]partColor {
	colors := make(map[string]partColor)
	for _, s := range sheets {
		for _, p := range s.Parts {
			if _, ok := colors[p.ItemID]; !ok {
				colors[p.ItemID] = partColors[len(colors)%len(partColors)]
			}
		}
	}
	return colors
}

func sheetMaterial(s model.NestingSheet) string {
	if len(s.Parts) == 0 {
		return ""
	}
	return s.Parts[0].Material
}

type pdfWriter struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

// text writes s left-aligned in a box at (x, y).
func (w *pdfWriter) text(x, y, width, height float64, s string) {
	w.doc.SetXY(x, y)
	w.doc.CellFormat(width, height, w.tr(s), "", 0, "L", false, 0, "")
}

// centered writes s centred on cx when it is narrower than room.
func (w *pdfWriter) centered(cx, y, room float64, s string) {
	sw := w.doc.GetStringWidth(s)
	if sw >= room {
		return
	}
	w.doc.SetXY(cx-sw/2, y)
	w.doc.CellFormat(sw, 4, s, "", 0, "C", false, 0, "")
}

// sheetCanvas maps sheet millimetres onto the page.
type sheetCanvas struct {
	scale, x0, y0, w, h float64
}

func newSheetCanvas(sheet model.NestingSheet) sheetCanvas {
	availH := pageH - boardTop - margin - legendSpace
	scale := math.Min(contentW/sheet.Width, availH/sheet.Height)
	c := sheetCanvas{scale: scale, w: sheet.Width * scale, h: sheet.Height * scale}
	c.x0 = margin + (contentW-c.w)/2
	c.y0 = boardTop
	return c
}

// rect converts a sheet rectangle to page coordinates.
func (c sheetCanvas) rect(x, y, width, height float64) (float64, float64, float64, float64) {
	return c.x0 + x*c.scale, c.y0 + y*c.scale, width * c.scale, height * c.scale
}

func (w *pdfWriter) sheetPage(sheet model.NestingSheet, offcuts []model.Offcut, colors map[string]partColor) {
	doc := w.doc

	doc.SetFont(fontFamily, "B", 14)
	w.text(margin, margin, contentW, titleH,
		fmt.Sprintf("Sheet %d: %s (%.0f x %.0f mm)", sheet.Index+1, sheetMaterial(sheet), sheet.Width, sheet.Height))
	doc.SetFont(fontFamily, "", 10)
	w.text(margin, margin+titleH, contentW, 5,
		fmt.Sprintf("Parts: %d | Used area: %.3f m² | Sheet area: %.3f m² | Efficiency: %.1f%% | Waste: %.1f%%",
			len(sheet.Parts), sheet.UsedArea()/1e6, sheet.Area()/1e6, sheet.Efficiency(), sheet.WastePercentage))

	c := newSheetCanvas(sheet)

	// board
	doc.SetFillColor(210, 180, 140)
	doc.SetDrawColor(100, 100, 100)
	doc.SetLineWidth(0.5)
	doc.Rect(c.x0, c.y0, c.w, c.h, "FD")

	for _, o := range offcuts {
		w.offcut(c, o)
	}
	for _, p := range sheet.Parts {
		w.part(c, p, colors[p.ItemID])
	}
	w.sheetDimensions(c, sheet)
	w.legend(sheet, colors, c.y0+c.h+5)
}

func (w *pdfWriter) part(c sheetCanvas, p model.NestingPart, col partColor) {
	doc := w.doc
	x, y, pw, ph := c.rect(p.X, p.Y, p.Width, p.Height)

	doc.SetFillColor(col.R, col.G, col.B)
	doc.SetDrawColor(30, 30, 30)
	doc.SetLineWidth(0.3)
	doc.Rect(x, y, pw, ph, "FD")

	if pw <= 15 || ph <= 8 {
		return
	}
	doc.SetFont(fontFamily, "", labelFontSize(pw, ph))
	doc.SetTextColor(0, 0, 0)
	w.centered(x+pw/2, y+ph/2-4, pw-2, w.tr(p.Name))
	if ph > 14 {
		w.centered(x+pw/2, y+ph/2, pw-2, fmt.Sprintf("%.0fx%.0f", p.Width, p.Height))
	}
}

func (w *pdfWriter) offcut(c sheetCanvas, o model.Offcut) {
	doc := w.doc
	x, y, ow, oh := c.rect(o.X, o.Y, o.Width, o.Height)

	doc.SetFillColor(235, 220, 190)
	doc.SetDrawColor(120, 90, 40)
	doc.SetLineWidth(0.2)
	doc.Rect(x, y, ow, oh, "FD")

	// diagonal hatch
	doc.SetLineWidth(0.15)
	for d := hatchStep; d < ow+oh; d += hatchStep {
		doc.Line(x+math.Max(0, d-oh), y+math.Min(oh, d), x+math.Min(ow, d), y+math.Max(0, d-ow))
	}

	if ow > 20 && oh > 8 {
		doc.SetFont(fontFamily, "B", 6)
		doc.SetTextColor(120, 90, 40)
		w.centered(x+ow/2, y+oh/2-2, ow-2, fmt.Sprintf("OFFCUT %.0fx%.0f", o.Width, o.Height))
	}
	doc.SetTextColor(0, 0, 0)
}

// sheetDimensions labels the board width below it and the height, rotated,
// on its left.
func (w *pdfWriter) sheetDimensions(c sheetCanvas, sheet model.NestingSheet) {
	doc := w.doc
	doc.SetFont(fontFamily, "", 8)
	doc.SetTextColor(80, 80, 80)

	w.centered(c.x0+c.w/2, c.y0+c.h+1, c.w, fmt.Sprintf("%.0f mm", sheet.Width))

	midY := c.y0 + c.h/2
	doc.TransformBegin()
	doc.TransformRotate(90, c.x0-3, midY)
	w.centered(c.x0-3, midY-2, c.h, fmt.Sprintf("%.0f mm", sheet.Height))
	doc.TransformEnd()

	doc.SetTextColor(0, 0, 0)
}

// legend lists each distinct item on the sheet with its count, wrapping at
// the right margin.
func (w *pdfWriter) legend(sheet model.NestingSheet, colors map[string]partColor, y float64) {
	if len(sheet.Parts) == 0 {
		return
	}

	var order []string
	counts := make(map[string]int)
	first := make(map[string]model.NestingPart)
	for _, p := range sheet.Parts {
		if counts[p.ItemID] == 0 {
			order = append(order, p.ItemID)
			first[p.ItemID] = p
		}
		counts[p.ItemID]++
	}

	doc := w.doc
	doc.SetFont(fontFamily, "B", 8)
	doc.SetTextColor(0, 0, 0)
	w.text(margin, y, 30, 4, "Parts placed:")

	doc.SetFont(fontFamily, "", 7)
	x := margin + 32
	for _, id := range order {
		p := first[id]
		label := w.tr(fmt.Sprintf("%s (%.0fx%.0f) x%d", p.Name, p.Width, p.Height, counts[id]))
		width := doc.GetStringWidth(label) + 6
		if x+width > pageW-margin {
			x, y = margin, y+5
		}

		col := colors[id]
		doc.SetFillColor(col.R, col.G, col.B)
		doc.Rect(x, y+0.5, 3, 3, "F")
		doc.SetXY(x+4, y)
		doc.CellFormat(width-4, 4, label, "", 0, "L", false, 0, "")
		x += width + 2
	}
}

// summaryTableFloor is the lowest Y the sheet table may reach before the
// remaining rows are elided.
const summaryTableFloor = pageH - margin - 60

func (w *pdfWriter) summaryPage(r Report, offcuts []model.Offcut) {
	doc := w.doc

	title := "Nesting Summary"
	if r.Title != "" {
		title = r.Title + " - " + title
	}
	doc.SetFont(fontFamily, "B", 16)
	w.text(margin, margin, contentW, 10, title)
	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(0.5)
	doc.Line(margin, margin+12, pageW-margin, margin+12)

	y := w.keyValues(margin+18, "Overall Statistics", [][2]string{
		{"Sheets Used", strconv.Itoa(len(r.Sheets))},
		{"Parts Placed", strconv.Itoa(model.CountParts(r.Sheets))},
		{"Part Area", fmt.Sprintf("%.3f m²", model.TotalPlacedArea(r.Sheets)/1e6)},
		{"Average Waste", fmt.Sprintf("%.1f%%", r.Cost.WastePercentage)},
		{"Kerf", fmt.Sprintf("%.1f mm", r.Kerf)},
	})

	y = w.sheetTable(y+5, r.Sheets)

	y = w.keyValues(y+5, "Cost", [][2]string{
		{"Material", fmt.Sprintf("%.2f", r.Cost.MaterialCost)},
		{"Hardware", fmt.Sprintf("%.2f", r.Cost.HardwareCost)},
		{"Total", fmt.Sprintf("%.2f", r.Cost.TotalCost)},
	})

	if len(offcuts) > 0 {
		doc.SetFont(fontFamily, "", 9)
		w.text(margin, y+3, 200, 5,
			fmt.Sprintf("Reusable offcuts: %d, %.3f m² total", len(offcuts), model.TotalOffcutArea(offcuts)/1e6))
	}

	doc.SetFont(fontFamily, "I", 8)
	doc.SetTextColor(120, 120, 120)
	doc.SetXY(margin, pageH-margin)
	doc.CellFormat(contentW, 4, "Generated by CaseCut - cabinet CNC pipeline", "", 0, "C", false, 0, "")
	doc.SetTextColor(0, 0, 0)
}

// sheetTable draws the per-sheet breakdown starting at y and returns the
// next free Y. Rows that would run into the cost section are summarised in
// a single line; the workbook carries the full list.
func (w *pdfWriter) sheetTable(y float64, sheets []model.NestingSheet) float64 {
	doc := w.doc
	widths := []float64{20, 60, 50, 30, 35, 50}

	row := func(cells []string, fill bool) {
		x := margin
		for i, s := range cells {
			doc.SetXY(x, y)
			doc.CellFormat(widths[i], 6, w.tr(s), "1", 0, "C", fill, 0, "")
			x += widths[i]
		}
		y += 6
	}

	doc.SetFont(fontFamily, "B", 12)
	w.text(margin, y, 100, 7, "Sheet Breakdown")
	y += 9

	doc.SetFont(fontFamily, "B", 9)
	doc.SetFillColor(230, 230, 230)
	row([]string{"Sheet", "Material", "Dimensions", "Parts", "Waste", "Used / Total m²"}, true)

	doc.SetFont(fontFamily, "", 9)
	for i, s := range sheets {
		shade := 255
		if i%2 == 0 {
			shade = 245
		}
		doc.SetFillColor(shade, shade, shade)
		row([]string{
			strconv.Itoa(s.Index + 1),
			sheetMaterial(s),
			fmt.Sprintf("%.0f x %.0f mm", s.Width, s.Height),
			strconv.Itoa(len(s.Parts)),
			fmt.Sprintf("%.1f%%", s.WastePercentage),
			fmt.Sprintf("%.3f / %.3f", s.UsedArea()/1e6, s.Area()/1e6),
		}, true)

		if rest := len(sheets) - i - 1; y > summaryTableFloor && rest > 0 {
			w.text(margin, y, 100, 5, fmt.Sprintf("... %d more sheets", rest))
			y += 6
			break
		}
	}
	return y
}

// keyValues writes a heading followed by label/value rows and returns the
// next free Y.
func (w *pdfWriter) keyValues(y float64, heading string, rows [][2]string) float64 {
	doc := w.doc
	doc.SetFont(fontFamily, "B", 12)
	w.text(margin, y, 100, 7, heading)
	y += 9

	for _, kv := range rows {
		doc.SetFont(fontFamily, "", 10)
		w.text(margin+5, y, 60, 6, kv[0]+":")
		doc.SetFont(fontFamily, "B", 10)
		doc.CellFormat(40, 6, w.tr(kv[1]), "", 0, "L", false, 0, "")
		y += 7
	}
	doc.SetFont(fontFamily, "", 10)
	return y
}

// labelFontSize picks a font size that fits the smaller side of a part.
func labelFontSize(w, h float64) float64 {
	switch side := math.Min(w, h); {
	case side > 40:
		return 8
	case side > 20:
		return 7
	default:
		return 6
	}
}
