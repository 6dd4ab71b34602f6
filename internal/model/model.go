package model

import (
	"fmt"
	"strings"

	"github.com/piwi3910/CaseCut/internal/errors"
)

// Style is the cabinet construction style.
type Style string

const (
	StyleEuro      Style = "euro"      // Frameless, full-overlay doors
	StyleInset     Style = "inset"     // Doors sit inside the carcass opening
	StyleFaceFrame Style = "faceframe" // Doors mount on a face frame
)

// ParseStyle converts a string to a Style. Matching is case-insensitive.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euro", "frameless":
		return StyleEuro, nil
	case "inset":
		return StyleInset, nil
	case "faceframe", "face-frame", "face frame":
		return StyleFaceFrame, nil
	default:
		return "", errors.Newf("unknown cabinet style %q", s)
	}
}

// Dimensions are the outer cabinet dimensions in mm. Thickness is the carcass
// material thickness.
type Dimensions struct {
	Width     float64 `json:"width" toml:"width" yaml:"width"`
	Height    float64 `json:"height" toml:"height" yaml:"height"`
	Depth     float64 `json:"depth" toml:"depth" yaml:"depth"`
	Thickness float64 `json:"thickness" toml:"thickness" yaml:"thickness"`
}

// CabinetDesign is the input to the manufacturing pipeline.
type CabinetDesign struct {
	Name        string     `json:"name" toml:"name" yaml:"name"`
	Dimensions  Dimensions `json:"dimensions" toml:"dimensions" yaml:"dimensions"`
	Style       Style      `json:"style" toml:"style" yaml:"style"`
	DoorCount   int        `json:"door_count" toml:"door_count" yaml:"door_count"`
	ShelfCount  int        `json:"shelf_count" toml:"shelf_count" yaml:"shelf_count"`
	IncludeBack bool       `json:"include_back" toml:"include_back" yaml:"include_back"`
	Material    string     `json:"material" toml:"material" yaml:"material"`
}

// Validate checks the design before any part is generated.
func (d CabinetDesign) Validate() error {
	dims := []struct {
		name  string
		value float64
	}{
		{"width", d.Dimensions.Width},
		{"height", d.Dimensions.Height},
		{"depth", d.Dimensions.Depth},
		{"thickness", d.Dimensions.Thickness},
	}
	for _, dim := range dims {
		if !Positive(dim.value) {
			return errors.WithDetailf(
				errors.Wrapf(errors.ErrInvalidDimension, "cabinet %q: %s must be positive", d.Name, dim.name),
				"%s=%g", dim.name, dim.value)
		}
	}
	if d.DoorCount < 0 {
		return errors.Wrapf(errors.ErrInvalidCount, "cabinet %q: door count %d is negative", d.Name, d.DoorCount)
	}
	if d.ShelfCount < 0 {
		return errors.Wrapf(errors.ErrInvalidCount, "cabinet %q: shelf count %d is negative", d.Name, d.ShelfCount)
	}
	return nil
}

// Slug returns a filename- and id-safe version of the cabinet name.
func (d CabinetDesign) Slug() string {
	return Slugify(d.Name)
}

// Slugify lower-cases s and replaces runs of non-alphanumerics with '-'.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// CutListItem is one row of a cut list: a rectangular part and how many of it.
type CutListItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Width       float64     `json:"width"`     // mm
	Height      float64     `json:"height"`    // mm
	Thickness   float64     `json:"thickness"` // mm
	Quantity    int         `json:"quantity"`
	Material    string      `json:"material"`
	EdgeBanding EdgeBanding `json:"edge_banding"`
}

// Area returns the face area of a single piece in mm².
func (c CutListItem) Area() float64 {
	return c.Width * c.Height
}

// Validate checks the invariants of a cut-list row.
func (c CutListItem) Validate() error {
	if !Positive(c.Width) || !Positive(c.Height) || !Positive(c.Thickness) {
		return errors.Wrapf(errors.ErrInvalidDimension, "part %q: %.1f x %.1f x %.1f", c.Name, c.Width, c.Height, c.Thickness)
	}
	if c.Quantity < 1 {
		return errors.Wrapf(errors.ErrInvalidCount, "part %q: quantity %d", c.Name, c.Quantity)
	}
	return nil
}

// String returns a compact "Name WxHxT xQty" description.
func (c CutListItem) String() string {
	return fmt.Sprintf("%s %.1fx%.1fx%.1f x%d", c.Name, c.Width, c.Height, c.Thickness, c.Quantity)
}

// StockSheet is the fixed-size raw board parts are nested onto.
type StockSheet struct {
	Width  float64 `json:"width" toml:"width" yaml:"width"`    // mm
	Height float64 `json:"height" toml:"height" yaml:"height"` // mm
}

// Area returns the sheet area in mm².
func (s StockSheet) Area() float64 {
	return s.Width * s.Height
}

// AreaM2 returns the sheet area in m².
func (s StockSheet) AreaM2() float64 {
	return s.Area() / 1e6
}

// Default stock and saw settings.
const (
	DefaultSheetWidth  = 2440.0
	DefaultSheetHeight = 1220.0
	DefaultKerf        = 3.0
)

// DefaultStockSheet returns the standard 2440 x 1220 mm board.
func DefaultStockSheet() StockSheet {
	return StockSheet{Width: DefaultSheetWidth, Height: DefaultSheetHeight}
}

// Algorithm selects the nesting strategy.
type Algorithm string

const (
	AlgorithmShelf      Algorithm = "shelf"      // First-fit-decreasing row packer
	AlgorithmGuillotine Algorithm = "guillotine" // Maximal-rectangles best-area-fit
	AlgorithmGenetic    Algorithm = "genetic"    // Order search decoded by the shelf packer
)

// ParseAlgorithm converts a string to an Algorithm. Empty means shelf.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AlgorithmShelf, nil
	case AlgorithmShelf, AlgorithmGuillotine, AlgorithmGenetic:
		return a, nil
	default:
		return "", errors.Newf("unknown nesting algorithm %q", s)
	}
}

// NestingSettings configures the nesting optimizer.
type NestingSettings struct {
	Algorithm Algorithm  `json:"algorithm"`
	Stock     StockSheet `json:"stock"`
	Kerf      float64    `json:"kerf"` // Saw blade width in mm
}

// DefaultNestingSettings returns shelf packing on the default sheet with a 3 mm kerf.
func DefaultNestingSettings() NestingSettings {
	return NestingSettings{
		Algorithm: AlgorithmShelf,
		Stock:     DefaultStockSheet(),
		Kerf:      DefaultKerf,
	}
}

// NestingPart is one physical piece placed on a sheet.
type NestingPart struct {
	ID       string  `json:"id"`      // "<itemId>-<index>"
	ItemID   string  `json:"item_id"` // Source CutListItem ID
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	X        float64 `json:"x"`        // Position from left edge (mm)
	Y        float64 `json:"y"`        // Position from top edge (mm)
	Rotation int     `json:"rotation"` // 0 or 90 degrees
	Material string  `json:"material"`
}

// Area returns the part area in mm².
func (p NestingPart) Area() float64 {
	return p.Width * p.Height
}

// NestingSheet is one stock sheet with its placed parts.
type NestingSheet struct {
	Index           int           `json:"index"`
	Width           float64       `json:"width"`
	Height          float64       `json:"height"`
	Parts           []NestingPart `json:"parts"`
	WastePercentage float64       `json:"waste_percentage"`
}

// Area returns the sheet area in mm².
func (s NestingSheet) Area() float64 {
	return s.Width * s.Height
}

// UsedArea returns the total area covered by placed parts.
func (s NestingSheet) UsedArea() float64 {
	var total float64
	for _, p := range s.Parts {
		total += p.Area()
	}
	return total
}

// Efficiency returns the usage percentage.
func (s NestingSheet) Efficiency() float64 {
	if s.Area() == 0 {
		return 0
	}
	return s.UsedArea() / s.Area() * 100.0
}

// TotalPlacedArea sums the part area across sheets.
func TotalPlacedArea(sheets []NestingSheet) float64 {
	var total float64
	for _, s := range sheets {
		total += s.UsedArea()
	}
	return total
}

// CountParts returns the number of placed parts across sheets.
func CountParts(sheets []NestingSheet) int {
	n := 0
	for _, s := range sheets {
		n += len(s.Parts)
	}
	return n
}

// TotalQuantity returns the number of individual parts a cut list describes.
func TotalQuantity(items []CutListItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
