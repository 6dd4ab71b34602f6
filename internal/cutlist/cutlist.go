// Package cutlist decomposes a cabinet design into flat rectangular parts.
package cutlist

import (
	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Item ids of the generated rows.
const (
	IDSide      = "side"
	IDTopBottom = "top-bottom"
	IDBack      = "back"
	IDShelf     = "shelf"
	IDDoor      = "door"
)

// Clearances and gaps in mm.
const (
	ShelfClearance   = 4.0 // Per dimension, so shelves stay adjustable
	EuroDoorGap      = 4.0
	DefaultDoorGap   = 6.0
	InsetDoorReveal  = 4.0
	OverlayDoorInset = 8.0
)

// Generate returns the cut list for one cabinet. Rows are ordered sides,
// top/bottom, back, shelves, doors; optional rows are omitted when absent.
func Generate(design model.CabinetDesign) ([]model.CutListItem, error) {
	if err := design.Validate(); err != nil {
		return nil, err
	}

	d := design.Dimensions
	t := d.Thickness
	innerWidth := d.Width - 2*t

	items := make([]model.CutListItem, 0, DistinctRows(design))
	items = append(items,
		model.CutListItem{
			ID: IDSide, Name: "Side Panel",
			Width: d.Depth, Height: d.Height, Thickness: t,
			Quantity: 2, Material: design.Material,
			EdgeBanding: model.BandFront(),
		},
		model.CutListItem{
			ID: IDTopBottom, Name: "Top/Bottom Panel",
			Width: innerWidth, Height: d.Depth, Thickness: t,
			Quantity: 2, Material: design.Material,
			EdgeBanding: model.BandFront(),
		},
	)

	if design.IncludeBack {
		items = append(items, model.CutListItem{
			ID: IDBack, Name: "Back Panel",
			Width: innerWidth, Height: d.Height - 2*t, Thickness: t / 2,
			Quantity: 1, Material: design.Material,
		})
	}

	if design.ShelfCount > 0 {
		items = append(items, model.CutListItem{
			ID: IDShelf, Name: "Shelf",
			Width: innerWidth - ShelfClearance, Height: d.Depth - ShelfClearance, Thickness: t,
			Quantity: design.ShelfCount, Material: design.Material,
			EdgeBanding: model.BandFront(),
		})
	}

	if design.DoorCount > 0 {
		gap := DefaultDoorGap
		if design.Style == model.StyleEuro {
			gap = EuroDoorGap
		}
		doorHeight := d.Height - OverlayDoorInset
		if design.Style == model.StyleInset {
			doorHeight = d.Height - InsetDoorReveal
		}
		items = append(items, model.CutListItem{
			ID: IDDoor, Name: "Door",
			Width: d.Width/float64(design.DoorCount) - gap, Height: doorHeight, Thickness: t,
			Quantity: design.DoorCount, Material: design.Material,
			EdgeBanding: model.BandAll(),
		})
	}

	// Derived sizes collapse when the carcass material is too thick for the cabinet
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, errors.WithDetailf(
				errors.Wrapf(err, "cabinet %q", design.Name),
				"thickness=%g width=%g height=%g depth=%g", t, d.Width, d.Height, d.Depth)
		}
	}
	return items, nil
}

// WithPrefix returns a copy of items whose ids are prefixed with "<prefix>-".
// Batch runs use the cabinet slug so ids stay unique across cabinets.
func WithPrefix(items []model.CutListItem, prefix string) []model.CutListItem {
	out := make([]model.CutListItem, len(items))
	copy(out, items)
	if prefix == "" {
		return out
	}
	for i := range out {
		out[i].ID = prefix + "-" + out[i].ID
	}
	return out
}

// DistinctRows reports the number of rows Generate produces for design.
func DistinctRows(design model.CabinetDesign) int {
	n := 2
	if design.IncludeBack {
		n++
	}
	if design.ShelfCount > 0 {
		n++
	}
	if design.DoorCount > 0 {
		n++
	}
	return n
}
