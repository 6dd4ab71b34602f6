// Package importer reads batches of cabinet designs from CSV and Excel files
// and panel machining features from DXF drawings. It supports automatic
// delimiter detection, flexible column mapping, and case-insensitive header
// recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CaseCut/internal/model"
)

// Values used for optional columns that are absent or blank.
const (
	DefaultThickness = 18.0
	DefaultMaterial  = "Melamine"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Designs  []model.CabinetDesign
	Errors   []string
	Warnings []string
}

// Column roles recognised in a header row.
const (
	colName      = "name"
	colWidth     = "width"
	colHeight    = "height"
	colDepth     = "depth"
	colThickness = "thickness"
	colStyle     = "style"
	colDoors     = "doors"
	colShelves   = "shelves"
	colBack      = "back"
	colMaterial  = "material"
)

// positionalOrder is the column order assumed when the file has no header.
var positionalOrder = []string{
	colName, colWidth, colHeight, colDepth, colThickness,
	colStyle, colDoors, colShelves, colBack, colMaterial,
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	colName:      {"name", "cabinet", "cabinet name", "label", "description", "item"},
	colWidth:     {"width", "w", "width (mm)"},
	colHeight:    {"height", "h", "height (mm)"},
	colDepth:     {"depth", "d", "depth (mm)"},
	colThickness: {"thickness", "t", "thk", "thickness (mm)", "board"},
	colStyle:     {"style", "construction", "type"},
	colDoors:     {"doors", "door count", "door_count", "door"},
	colShelves:   {"shelves", "shelf count", "shelf_count", "shelf"},
	colBack:      {"back", "include back", "include_back", "back panel"},
	colMaterial:  {"material", "mat", "board material"},
}

// ColumnMapping maps column roles to their indices in the data. A missing
// role has index -1.
type ColumnMapping map[string]int

// Index returns the column index for role, or -1.
func (m ColumnMapping) Index(role string) int {
	if i, ok := m[role]; ok {
		return i
	}
	return -1
}

// newCSVReader tolerates stray quotes and ragged rows; short rows are
// reported per line by parseRow.
func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := newCSVReader(bytes.NewReader(data), delim).ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{}
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			if _, taken := mapping[role]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					mapping[role] = i
					break
				}
			}
		}
	}

	if len(mapping) == 0 {
		positional := ColumnMapping{}
		for i, role := range positionalOrder {
			positional[role] = i
		}
		return positional, false
	}
	return mapping, true
}

// parseBool accepts yes/no style flags.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x":
		return true, true
	case "no", "n", "false", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowParser accumulates the first error found while reading one row.
type rowParser struct {
	row      []string
	mapping  ColumnMapping
	rowLabel string
	err      string
}

func (p *rowParser) cell(role string) string {
	return getCell(p.row, p.mapping.Index(role))
}

func (p *rowParser) requiredFloat(role, label string) float64 {
	if p.err != "" {
		return 0
	}
	s := p.cell(role)
	if s == "" {
		p.err = fmt.Sprintf("%s: Missing %s value", p.rowLabel, label)
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !model.Finite(v) {
		p.err = fmt.Sprintf("%s: Invalid %s '%s'", p.rowLabel, label, s)
		return 0
	}
	return v
}

func (p *rowParser) optionalFloat(role, label string, def float64) float64 {
	if p.err != "" || p.cell(role) == "" {
		return def
	}
	return p.requiredFloat(role, label)
}

func (p *rowParser) optionalInt(role, label string) int {
	s := p.cell(role)
	if p.err != "" || s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		p.err = fmt.Sprintf("%s: Invalid %s '%s'", p.rowLabel, label, s)
	}
	return v
}

// parseRow extracts a CabinetDesign from a row using the given column mapping.
// Returns the design, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, designCount int) (model.CabinetDesign, string, []string) {
	p := &rowParser{row: row, mapping: mapping, rowLabel: rowLabel}

	name := p.cell(colName)
	if name == "" {
		name = fmt.Sprintf("Cabinet %d", designCount+1)
	}

	design := model.CabinetDesign{
		Name: name,
		Dimensions: model.Dimensions{
			Width:     p.requiredFloat(colWidth, "width"),
			Height:    p.requiredFloat(colHeight, "height"),
			Depth:     p.requiredFloat(colDepth, "depth"),
			Thickness: p.optionalFloat(colThickness, "thickness", DefaultThickness),
		},
		Style:       model.StyleEuro,
		DoorCount:   p.optionalInt(colDoors, "door count"),
		ShelfCount:  p.optionalInt(colShelves, "shelf count"),
		IncludeBack: true,
		Material:    DefaultMaterial,
	}
	if p.err != "" {
		return model.CabinetDesign{}, p.err, nil
	}
	if err := design.Validate(); err != nil {
		return model.CabinetDesign{}, fmt.Sprintf("%s: %v", rowLabel, err), nil
	}

	var warnings []string
	if s := p.cell(colStyle); s != "" {
		style, err := model.ParseStyle(s)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown style '%s', defaulting to euro", rowLabel, s))
		} else {
			design.Style = style
		}
	}
	if s := p.cell(colBack); s != "" {
		back, ok := parseBool(s)
		if ok {
			design.IncludeBack = back
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown back panel flag '%s', defaulting to yes", rowLabel, s))
		}
	}
	if s := p.cell(colMaterial); s != "" {
		design.Material = s
	}

	return design, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports cabinet designs from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	result = ImportCSVFromReader(bytes.NewReader(data), delimiter)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportCSVFromReader imports designs from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := newCSVReader(reader, delimiter).ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports designs from the first sheet of an Excel (.xlsx) file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// Import dispatches on the file extension: .xlsx and .xlsm read as Excel,
// everything else as CSV.
func Import(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		for _, role := range []string{colWidth, colHeight, colDepth} {
			if mapping.Index(role) == -1 {
				missing = append(missing, strings.ToUpper(role[:1])+role[1:])
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		// Non-numeric width in an unrecognised first row is treated as a header
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		design, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Designs))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		if first, dup := seen[design.Name]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate cabinet name '%s' (first on %s)", rowLabel, design.Name, first))
			continue
		}
		seen[design.Name] = rowLabel

		result.Designs = append(result.Designs, design)
	}

	return result
}
