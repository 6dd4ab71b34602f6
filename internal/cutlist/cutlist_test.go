package cutlist

import (
	"testing"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDesign() model.CabinetDesign {
	return model.CabinetDesign{
		Name:        "Base 600",
		Dimensions:  model.Dimensions{Width: 600, Height: 720, Depth: 560, Thickness: 18},
		Style:       model.StyleEuro,
		DoorCount:   1,
		ShelfCount:  1,
		IncludeBack: true,
		Material:    "Melamine",
	}
}

func findItem(t *testing.T, items []model.CutListItem, id string) model.CutListItem {
	t.Helper()
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %q not found", id)
	return model.CutListItem{}
}

func TestGenerateRoundTrip(t *testing.T) {
	items, err := Generate(baseDesign())
	require.NoError(t, err)
	require.Len(t, items, 5, "sides, top/bottom, back, shelf, door")

	tests := []struct {
		id                       string
		width, height, thickness float64
		qty                      int
		banding                  string
	}{
		{IDSide, 560, 720, 18, 2, "front"},
		{IDTopBottom, 564, 560, 18, 2, "front"},
		{IDBack, 564, 684, 9, 1, "none"},
		{IDShelf, 560, 556, 18, 1, "front"},
		{IDDoor, 596, 712, 18, 1, "all"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			it := findItem(t, items, tt.id)
			assert.Equal(t, tt.width, it.Width)
			assert.Equal(t, tt.height, it.Height)
			assert.Equal(t, tt.thickness, it.Thickness)
			assert.Equal(t, tt.qty, it.Quantity)
			assert.Equal(t, tt.banding, it.EdgeBanding.String())
			assert.Equal(t, "Melamine", it.Material)
		})
	}
}

func TestGenerateRowCounts(t *testing.T) {
	for doors := 0; doors <= 3; doors++ {
		for shelves := 0; shelves <= 3; shelves++ {
			for _, back := range []bool{true, false} {
				d := baseDesign()
				d.DoorCount, d.ShelfCount, d.IncludeBack = doors, shelves, back

				items, err := Generate(d)
				require.NoError(t, err)
				assert.Len(t, items, DistinctRows(d))
				assert.Equal(t, len(items), cap(items), "rows are sized up front")

				want := 2 // sides and top/bottom, two pieces each
				if back {
					want++
				}
				if shelves > 0 {
					want++
				}
				if doors > 0 {
					want++
				}
				assert.Equal(t, want, len(items))

				for _, it := range items {
					switch it.ID {
					case IDShelf:
						assert.Equal(t, shelves, it.Quantity)
					case IDDoor:
						assert.Equal(t, doors, it.Quantity)
					}
				}
			}
		}
	}
}

func TestGenerateDoorStyles(t *testing.T) {
	tests := []struct {
		style         model.Style
		doors         int
		width, height float64
	}{
		{model.StyleEuro, 2, 296, 712},
		{model.StyleInset, 2, 294, 716},
		{model.StyleFaceFrame, 1, 594, 712},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			d := baseDesign()
			d.Style, d.DoorCount = tt.style, tt.doors
			items, err := Generate(d)
			require.NoError(t, err)
			door := findItem(t, items, IDDoor)
			assert.Equal(t, tt.width, door.Width)
			assert.Equal(t, tt.height, door.Height)
		})
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.CabinetDesign)
		wantErr error
	}{
		{"zero width", func(d *model.CabinetDesign) { d.Dimensions.Width = 0 }, errors.ErrInvalidDimension},
		{"negative depth", func(d *model.CabinetDesign) { d.Dimensions.Depth = -10 }, errors.ErrInvalidDimension},
		{"negative doors", func(d *model.CabinetDesign) { d.DoorCount = -1 }, errors.ErrInvalidCount},
		{"negative shelves", func(d *model.CabinetDesign) { d.ShelfCount = -1 }, errors.ErrInvalidCount},
		{"thickness too large", func(d *model.CabinetDesign) { d.Dimensions.Thickness = 300 }, errors.ErrInvalidDimension},
		{"shelf collapses", func(d *model.CabinetDesign) {
			d.Dimensions.Width = 40
			d.Dimensions.Thickness = 18
		}, errors.ErrInvalidDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := baseDesign()
			tt.mutate(&d)
			items, err := Generate(d)
			require.Error(t, err)
			assert.Nil(t, items)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestGenerateDoesNotMutateDesign(t *testing.T) {
	d := baseDesign()
	before := d
	_, err := Generate(d)
	require.NoError(t, err)
	assert.Equal(t, before, d)
}

func TestWithPrefix(t *testing.T) {
	items, err := Generate(baseDesign())
	require.NoError(t, err)

	prefixed := WithPrefix(items, "base-600")
	assert.Equal(t, "base-600-side", prefixed[0].ID)
	assert.Equal(t, IDSide, items[0].ID, "original slice must be untouched")
	assert.Equal(t, items, WithPrefix(items, ""))
}
