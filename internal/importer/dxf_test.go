package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/yofu/dxf"

	"github.com/piwi3910/CaseCut/internal/model"
)

// writeTestDXF draws a 560 x 720 side panel offset to (100, 50) with shelf-pin
// and hinge holes, a dado, a back panel groove and a hinge plate pocket.
func writeTestDXF(t *testing.T) string {
	t.Helper()
	d := dxf.NewDrawing()

	layer := func(name string) {
		if _, err := d.AddLayer(name, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			t.Fatalf("failed to add layer %s: %v", name, err)
		}
	}
	line := func(x1, y1, x2, y2 float64) {
		if _, err := d.Line(x1, y1, 0, x2, y2, 0); err != nil {
			t.Fatalf("failed to add line: %v", err)
		}
	}
	circle := func(x, y, r float64) {
		if _, err := d.Circle(x, y, 0, r); err != nil {
			t.Fatalf("failed to add circle: %v", err)
		}
	}

	layer(LayerOutline)
	line(100, 50, 660, 50)
	line(660, 50, 660, 770)
	line(660, 770, 100, 770)
	line(100, 770, 100, 50)

	layer(LayerShelfPin)
	circle(137, 150, 2.5)
	circle(137, 182, 2.5)

	layer("HINGE_13")
	circle(122.5, 150, 17.5)

	layer("DADO_9")
	line(100, 400, 660, 400)
	line(100, 100, 200, 200)

	layer(LayerBackPanel)
	line(110, 770, 110, 50)

	layer(LayerPocket)
	if _, err := d.LwPolyline(true, []float64{200, 100}, []float64{245, 100}, []float64{245, 112}, []float64{200, 112}); err != nil {
		t.Fatalf("failed to add polyline: %v", err)
	}

	path := filepath.Join(t.TempDir(), "side.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}
	return path
}

func TestImportDXF_PanelFeatures(t *testing.T) {
	base := model.ComponentDimensions{Name: "Side", Thickness: 18, Material: "Melamine"}
	result := ImportDXF(writeTestDXF(t), base)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	c := result.Component
	if c.Name != "Side" || c.Thickness != 18 || c.Material != "Melamine" {
		t.Errorf("base fields not kept: %+v", c)
	}
	if c.Width != 560 || c.Height != 720 || !c.Contour {
		t.Errorf("expected 560 x 720 contour panel, got %.1f x %.1f contour=%v", c.Width, c.Height, c.Contour)
	}

	wantHoles := []model.HolePattern{
		{Type: model.HoleShelfPin, X: 37, Y: 100, Diameter: 5, Depth: 12},
		{Type: model.HoleShelfPin, X: 37, Y: 132, Diameter: 5, Depth: 12},
		{Type: model.HoleHinge, X: 22.5, Y: 100, Diameter: 35, Depth: 13},
	}
	if len(c.Holes) != len(wantHoles) {
		t.Fatalf("expected %d holes, got %d", len(wantHoles), len(c.Holes))
	}
	for i, want := range wantHoles {
		if c.Holes[i] != want {
			t.Errorf("hole %d: expected %+v, got %+v", i, want, c.Holes[i])
		}
	}

	wantGrooves := []model.Groove{
		{Type: model.GrooveDado, Orientation: model.Horizontal, X: 0, Y: 350, Length: 560, Depth: 9},
		{Type: model.GrooveBackPanel, Orientation: model.Vertical, X: 10, Y: 0, Length: 720, Depth: 6},
	}
	if len(c.Grooves) != len(wantGrooves) {
		t.Fatalf("expected %d grooves, got %d", len(wantGrooves), len(c.Grooves))
	}
	for i, want := range wantGrooves {
		if c.Grooves[i] != want {
			t.Errorf("groove %d: expected %+v, got %+v", i, want, c.Grooves[i])
		}
	}

	want := model.Pocket{Name: "pocket 1", X: 100, Y: 50, Width: 45, Height: 12, Depth: 2}
	if len(c.Pockets) != 1 || c.Pockets[0] != want {
		t.Errorf("expected pocket %+v, got %+v", want, c.Pockets)
	}

	diagonal := false
	for _, w := range result.Warnings {
		diagonal = diagonal || strings.Contains(w, "non axis-aligned LINE")
	}
	if !diagonal {
		t.Errorf("expected a warning for the diagonal dado, got %v", result.Warnings)
	}
}

func TestImportDXF_NoOutlineUsesBaseSize(t *testing.T) {
	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerShelfPin, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		t.Fatalf("failed to add layer: %v", err)
	}
	if _, err := d.Circle(37, 100, 0, 2.5); err != nil {
		t.Fatalf("failed to add circle: %v", err)
	}
	path := filepath.Join(t.TempDir(), "holes.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}

	result := ImportDXF(path, model.ComponentDimensions{Name: "Shelf", Width: 560, Height: 300, Thickness: 18})
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Component.Contour || result.Component.Width != 560 {
		t.Errorf("expected base size without contour, got %+v", result.Component)
	}
	if len(result.Component.Holes) != 1 || result.Component.Holes[0].X != 37 {
		t.Errorf("expected the hole at absolute coordinates, got %+v", result.Component.Holes)
	}

	result = ImportDXF(path, model.ComponentDimensions{Name: "Shelf", Thickness: 18})
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "No panel outline") {
		t.Errorf("expected missing size error, got %v", result.Errors)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	if result := ImportDXF("/nonexistent/file.dxf", model.ComponentDimensions{}); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestSplitLayer(t *testing.T) {
	tests := []struct {
		in        string
		wantKind  string
		wantDepth float64
	}{
		{"SHELF_PIN", "SHELF_PIN", 0},
		{"shelf_pin_10", "SHELF_PIN", 10},
		{"HINGE_13", "HINGE", 13},
		{"BACK_PANEL_6.5", "BACK_PANEL", 6.5},
		{"DADO", "DADO", 0},
		{"0", "0", 0},
	}
	for _, tt := range tests {
		kind, depth := splitLayer(tt.in)
		if kind != tt.wantKind || depth != tt.wantDepth {
			t.Errorf("splitLayer(%q) = %q, %g; want %q, %g", tt.in, kind, depth, tt.wantKind, tt.wantDepth)
		}
	}
}

func TestChainSegments(t *testing.T) {
	square := []segment{
		{model.Pt(0, 0), model.Pt(10, 0)},
		{model.Pt(0, 10), model.Pt(10, 10)}, // reversed
		{model.Pt(10, 0), model.Pt(10, 10)},
		{model.Pt(0, 10), model.Pt(0, 0)},
		{model.Pt(50, 50), model.Pt(60, 50)}, // open
	}
	outlines := chainSegments(square, pointTolerance)
	if len(outlines) != 1 {
		t.Fatalf("expected 1 closed outline, got %d", len(outlines))
	}
	if len(outlines[0]) != 4 {
		t.Errorf("expected 4 corners, got %d", len(outlines[0]))
	}
	if area := outlineArea(outlines[0]); area != 100 {
		t.Errorf("expected area 100, got %f", area)
	}
}

func TestBulgeArcPoints_Semicircle(t *testing.T) {
	pts := bulgeArcPoints(model.Pt(0, 0), model.Pt(10, 0), 1, 16)
	if len(pts) != 17 {
		t.Fatalf("expected 17 points, got %d", len(pts))
	}
	box := model.BoundingBox(pts)
	if round3(box.Height()) != 5 || round3(box.Width()) != 10 {
		t.Errorf("expected a 10 x 5 semicircle, got %.3f x %.3f", box.Width(), box.Height())
	}
}
