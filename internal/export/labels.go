package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// LabelInfo holds the data encoded into each part label's QR code.
type LabelInfo struct {
	PartID      string  `json:"id"`
	Name        string  `json:"name"`
	Width       float64 `json:"width_mm"`
	Height      float64 `json:"height_mm"`
	Thickness   float64 `json:"thickness_mm,omitempty"`
	Material    string  `json:"material"`
	EdgeBanding string  `json:"edge_banding,omitempty"`
	Sheet       int     `json:"sheet"` // 1-based
	X           float64 `json:"x_mm"`
	Y           float64 `json:"y_mm"`
}

// Avery 5160 layout on US Letter: 3 columns by 10 rows of 66.7 x 25.4 mm.
const (
	labelTop      = 12.7
	labelLeft     = 4.8
	labelW        = 66.7
	labelH        = 25.4
	labelCols     = 3
	labelsPerPage = labelCols * 10
	qrSide        = 20.0
	labelPad      = 2.0
)

// CollectLabelInfos builds one label per placed part, in sheet order. Items
// supplies thickness and edge banding for parts whose item is known.
func CollectLabelInfos(sheets []model.NestingSheet, items []model.CutListItem) []LabelInfo {
	byID := make(map[string]model.CutListItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	var labels []LabelInfo
	for _, sheet := range sheets {
		for _, p := range sheet.Parts {
			info := LabelInfo{
				PartID:   p.ID,
				Name:     p.Name,
				Width:    p.Width,
				Height:   p.Height,
				Material: p.Material,
				Sheet:    sheet.Index + 1,
				X:        p.X,
				Y:        p.Y,
			}
			if it, ok := byID[p.ItemID]; ok {
				info.Thickness = it.Thickness
				if it.EdgeBanding.HasAny() {
					info.EdgeBanding = it.EdgeBanding.String()
				}
			}
			labels = append(labels, info)
		}
	}
	return labels
}

// ExportLabels writes a PDF of QR-coded labels for every placed part on a
// standard label sheet (Avery 5160, 3 x 10 on US Letter).
func ExportLabels(path string, sheets []model.NestingSheet, items []model.CutListItem) error {
	labels := CollectLabelInfos(sheets, items)
	if len(labels) == 0 {
		return errors.New("no parts placed to generate labels for")
	}

	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	w := &pdfWriter{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}

	for i, info := range labels {
		slot := i % labelsPerPage
		if slot == 0 {
			doc.AddPage()
		}
		x := labelLeft + float64(slot%labelCols)*labelW
		y := labelTop + float64(slot/labelCols)*labelH
		if err := w.label(x, y, info); err != nil {
			return errors.Wrapf(err, "failed to render label for %q", info.PartID)
		}
	}

	return errors.Wrapf(doc.OutputFileAndClose(path), "failed to write labels %s", path)
}

// labelLine is one row of text beside the QR code.
type labelLine struct {
	style   string
	size    float64
	color   partColor
	offset  float64
	height  float64
	text    string
	clipped bool
}

func labelLines(info LabelInfo) []labelLine {
	lines := []labelLine{
		{style: "B", size: 9, offset: 0, height: 4.5, text: info.Name, clipped: true},
		{size: 7, offset: 5, height: 3.5, text: fmt.Sprintf("%.0f x %.0f x %.0f mm", info.Width, info.Height, info.Thickness)},
		{size: 6, color: partColor{100, 100, 100}, offset: 9, height: 3, text: fmt.Sprintf("Sheet %d @ (%.0f, %.0f)", info.Sheet, info.X, info.Y)},
	}
	if info.EdgeBanding != "" {
		lines = append(lines, labelLine{style: "I", size: 6, color: partColor{150, 100, 0}, offset: 12.5, height: 3, text: "Band: " + info.EdgeBanding, clipped: true})
	}
	return lines
}

// label draws one label: a light cutting guide, the QR code on the right
// and the text lines on the left.
func (w *pdfWriter) label(x, y float64, info LabelInfo) error {
	doc := w.doc
	doc.SetDrawColor(200, 200, 200)
	doc.SetLineWidth(0.1)
	doc.Rect(x, y, labelW, labelH, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "failed to marshal label info")
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return errors.Wrap(err, "failed to generate QR code")
	}

	// part ids are unique within a run
	img := "qr_" + info.PartID
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(img, opts, bytes.NewReader(png))
	doc.ImageOptions(img, x+labelW-qrSide-labelPad, y+(labelH-qrSide)/2, qrSide, qrSide, false, opts, 0, "")

	textW := labelW - qrSide - 3*labelPad
	for _, l := range labelLines(info) {
		doc.SetFont(fontFamily, l.style, l.size)
		doc.SetTextColor(l.color.R, l.color.G, l.color.B)
		text := l.text
		if l.clipped {
			text = truncate(doc, w.tr(text), textW)
		}
		doc.SetXY(x+labelPad, y+labelPad+l.offset)
		doc.CellFormat(textW, l.height, text, "", 0, "L", false, 0, "")
	}
	doc.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width at the current font.
func truncate(doc *fpdf.Fpdf, s string, width float64) string {
	if doc.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && doc.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
