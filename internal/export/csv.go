package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// CutListHeader is the first row of an exported cut list.
var CutListHeader = []string{
	"Part Name", "Width (mm)", "Height (mm)", "Thickness (mm)", "Quantity", "Material", "Edge Banding",
}

// WriteCutListCSV writes one row per cut list item. The edge banding column
// lists the banded edges comma-joined, so the writer quotes it.
func WriteCutListCSV(w io.Writer, items []model.CutListItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CutListHeader); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	for _, it := range items {
		if err := cw.Write(cutListRow(it)); err != nil {
			return errors.Wrapf(err, "failed to write CSV row for %q", it.Name)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

// ExportCutListCSV writes the cut list to a CSV file.
func ExportCutListCSV(path string, items []model.CutListItem) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := WriteCutListCSV(f, items); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}

func cutListRow(it model.CutListItem) []string {
	edges := make([]string, 0, 4)
	for _, e := range it.EdgeBanding.Edges() {
		edges = append(edges, string(e))
	}
	return []string{
		it.Name,
		formatMM(it.Width),
		formatMM(it.Height),
		formatMM(it.Thickness),
		strconv.Itoa(it.Quantity),
		it.Material,
		strings.Join(edges, ","),
	}
}

// formatMM prints a length in its shortest exact form, e.g. 560 or 396.5.
func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
