package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CaseCut/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Width,Height,Depth\nBase,600,720,560\nWall,600,720,320\n", ','},
		{"semicolon", "Name;Width;Height;Depth\nBase;600;720;560\nWall;600;720;320\n", ';'},
		{"tab", "Name\tWidth\tHeight\tDepth\nBase\t600\t720\t560\n", '\t'},
		{"pipe", "Name|Width|Height|Depth\nBase|600|720|560\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Name", "Width", "Height", "Depth", "Thickness", "Style", "Doors", "Shelves", "Back", "Material"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	for i, role := range positionalOrder {
		if got := mapping.Index(role); got != i {
			t.Errorf("expected %s at %d, got %d", role, i, got)
		}
	}
}

func TestDetectColumns_AliasesAndCase(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"CABINET", "D", "W", "H", "Door Count"})

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Index(colName) != 0 || mapping.Index(colDepth) != 1 || mapping.Index(colWidth) != 2 ||
		mapping.Index(colHeight) != 3 || mapping.Index(colDoors) != 4 {
		t.Errorf("unexpected mapping %v", mapping)
	}
	if mapping.Index(colMaterial) != -1 {
		t.Errorf("expected no material column, got %d", mapping.Index(colMaterial))
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Base 600", "600", "720", "560"})

	if isHeader {
		t.Error("expected no header to be detected")
	}
	if mapping.Index(colWidth) != 1 || mapping.Index(colMaterial) != 9 {
		t.Errorf("expected positional mapping, got %v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Name,Width,Height,Depth,Thickness,Style,Doors,Shelves,Back,Material\n" +
		"Base 600,600,720,560,18,euro,1,1,yes,Melamine\n" +
		"Sink 1000,1000,720,560,19,inset,2,0,no,Birch Ply\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Designs) != 2 {
		t.Fatalf("expected 2 designs, got %d", len(result.Designs))
	}

	want := model.CabinetDesign{
		Name:        "Base 600",
		Dimensions:  model.Dimensions{Width: 600, Height: 720, Depth: 560, Thickness: 18},
		Style:       model.StyleEuro,
		DoorCount:   1,
		ShelfCount:  1,
		IncludeBack: true,
		Material:    "Melamine",
	}
	if result.Designs[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Designs[0])
	}

	sink := result.Designs[1]
	if sink.Style != model.StyleInset || sink.IncludeBack || sink.Material != "Birch Ply" || sink.Dimensions.Thickness != 19 {
		t.Errorf("unexpected sink design %+v", sink)
	}
}

func TestImportCSVFromReader_Defaults(t *testing.T) {
	data := "Name,Width,Height,Depth\nWall,600,720,320\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Designs) != 1 {
		t.Fatalf("expected 1 design, got %d (errors: %v)", len(result.Designs), result.Errors)
	}
	d := result.Designs[0]
	if d.Dimensions.Thickness != DefaultThickness || d.Material != DefaultMaterial {
		t.Errorf("expected default thickness and material, got %+v", d)
	}
	if d.Style != model.StyleEuro || !d.IncludeBack || d.DoorCount != 0 || d.ShelfCount != 0 {
		t.Errorf("unexpected defaults %+v", d)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Base 600,600,720,560\nWall 600,600,720,320,18,euro,1,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Designs) != 2 {
		t.Fatalf("expected 2 designs, got %d (errors: %v)", len(result.Designs), result.Errors)
	}
	if result.Designs[1].ShelfCount != 2 || result.Designs[1].DoorCount != 1 {
		t.Errorf("unexpected positional parse %+v", result.Designs[1])
	}
}

func TestImportCSVFromReader_UnrecognisedHeaderSkipped(t *testing.T) {
	data := "Cab,Breite,Hoehe,Tiefe\nBase,600,720,560\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Designs) != 1 {
		t.Fatalf("expected 1 design, got %d (errors: %v)", len(result.Designs), result.Errors)
	}
}

func TestImportCSVFromReader_ReorderedColumns(t *testing.T) {
	data := "Depth,Height,Width,Name\n560,720,800,Base 800\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Designs) != 1 {
		t.Fatalf("expected 1 design, got %d (errors: %v)", len(result.Designs), result.Errors)
	}
	dims := result.Designs[0].Dimensions
	if dims.Width != 800 || dims.Height != 720 || dims.Depth != 560 {
		t.Errorf("unexpected dimensions %+v", dims)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"invalid width", "Base,abc,720,560", "Invalid width"},
		{"not a number width", "Bad,NaN,720,560,18,1,1", "Invalid width 'NaN'"},
		{"infinite depth", "Base,600,720,+Inf", "Invalid depth '+Inf'"},
		{"infinite thickness", "Base,600,720,560,inf", "Invalid thickness 'inf'"},
		{"missing depth", "Base,600,720,", "Missing depth"},
		{"zero height", "Base,600,0,560", "height must be positive"},
		{"negative doors", "Base,600,720,560,18,euro,-1", "door count -1 is negative"},
		{"invalid shelves", "Base,600,720,560,18,euro,1,many", "Invalid shelf count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := "Name,Width,Height,Depth,Thickness,Style,Doors,Shelves\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',')
			if len(result.Designs) != 0 {
				t.Errorf("expected no designs, got %d", len(result.Designs))
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, result.Errors)
			}
			if len(result.Errors) == 1 && !strings.HasPrefix(result.Errors[0], "Line 2:") {
				t.Errorf("expected error to name the line, got %q", result.Errors[0])
			}
		})
	}
}

func TestImportCSVFromReader_Warnings(t *testing.T) {
	data := "Name,Width,Height,Depth,Style,Back\nBase,600,720,560,shaker,maybe\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Designs) != 1 {
		t.Fatalf("expected 1 design, got %d (errors: %v)", len(result.Designs), result.Errors)
	}
	var styleWarn, backWarn bool
	for _, w := range result.Warnings {
		styleWarn = styleWarn || strings.Contains(w, "Unknown style 'shaker'")
		backWarn = backWarn || strings.Contains(w, "Unknown back panel flag 'maybe'")
	}
	if !styleWarn || !backWarn {
		t.Errorf("expected style and back warnings, got %v", result.Warnings)
	}
	if result.Designs[0].Style != model.StyleEuro || !result.Designs[0].IncludeBack {
		t.Errorf("expected defaults after warnings, got %+v", result.Designs[0])
	}
}

func TestImportCSVFromReader_DuplicateNames(t *testing.T) {
	data := "Name,Width,Height,Depth\nBase,600,720,560\nBase,800,720,560\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Designs) != 1 {
		t.Fatalf("expected 1 design, got %d", len(result.Designs))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Duplicate cabinet name 'Base'") {
		t.Errorf("expected duplicate name error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyLabelAndRows(t *testing.T) {
	data := "Name,Width,Height,Depth\n,600,720,560\n,,,\n,800,720,560\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Designs) != 2 {
		t.Fatalf("expected 2 designs, got %d (errors: %v)", len(result.Designs), result.Errors)
	}
	if result.Designs[0].Name != "Cabinet 1" || result.Designs[1].Name != "Cabinet 2" {
		t.Errorf("expected generated names, got %q and %q", result.Designs[0].Name, result.Designs[1].Name)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Name,Width,Height\nBase,600,720\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Required columns not found in header: Depth") {
		t.Errorf("expected missing Depth error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── File Import Tests ─────────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cabinets.csv")
	content := "Name;Width;Height;Depth\nBase;600;720;560\nWall;600;720;320\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := Import(path)

	if len(result.Designs) != 2 {
		t.Errorf("expected 2 designs, got %d (errors: %v)", len(result.Designs), result.Errors)
	}
	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileErrors(t *testing.T) {
	if result := ImportCSV("/nonexistent/path/file.csv"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if result := ImportCSV(path); len(result.Errors) == 0 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

func createTestExcel(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cabinets.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]any{
		{"Cabinet", "Width", "Height", "Depth", "Doors", "Shelves"},
		{"Tall 600", 600, 2100, 560, 2, 4},
		{"Wall 600", 600, 720, 320, 1, 2},
	})

	result := Import(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Designs) != 2 {
		t.Fatalf("expected 2 designs, got %d", len(result.Designs))
	}
	tall := result.Designs[0]
	if tall.Name != "Tall 600" || tall.Dimensions.Height != 2100 || tall.DoorCount != 2 || tall.ShelfCount != 4 {
		t.Errorf("unexpected design %+v", tall)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	if result := ImportExcel("/nonexistent/file.xlsx"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]any{
		{"Name", "Width", "Height", "Depth"},
		{"Base", "abc", 720, 560},
	})

	result := ImportExcel(path)

	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 2:") {
		t.Errorf("expected row error, got %v", result.Errors)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{"yes", true, true},
		{"Y", true, true},
		{"TRUE", true, true},
		{"1", true, true},
		{"no", false, true},
		{"0", false, true},
		{" false ", false, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		got, ok := parseBool(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseBool(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
