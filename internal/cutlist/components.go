package cutlist

import (
	"math"
	"strings"

	"github.com/piwi3910/CaseCut/internal/model"
)

// 32 mm system hardware constants (mm).
const (
	SystemPitch        = 32.0
	ShelfPinSetback    = 37.0 // From front and back edges
	ShelfPinStart      = 100.0
	ShelfPinDiameter   = 5.0
	ShelfPinDepth      = 12.0
	HingeCupDiameter   = 35.0
	HingeCupDepth      = 13.0
	HingeEdgeDistance  = 22.5 // Cup centre to the hinge-side door edge
	HingeEndDistance   = 100.0
	BackGrooveInset    = 12.0 // Groove centreline from the rear edge
	FingerPullWidth    = 120.0
	FingerPullHeight   = 20.0
	FingerPullDepth    = 8.0
	FingerPullEdgeDist = 30.0
)

// Options controls optional machining added by Components.
type Options struct {
	// Contour adds an outside-perimeter cut-out to every component.
	Contour bool
}

// Components derives the machinable panels for a generated cut list: one
// ComponentDimensions per row. Names are prefixed with the cabinet name so
// they stay unique in batch runs.
func Components(design model.CabinetDesign, items []model.CutListItem, opts Options) []model.ComponentDimensions {
	t := design.Dimensions.Thickness
	components := make([]model.ComponentDimensions, 0, len(items))

	for _, it := range items {
		c := model.ComponentDimensions{
			Name:        componentName(design, it),
			Width:       it.Width,
			Height:      it.Height,
			Thickness:   it.Thickness,
			Material:    it.Material,
			Contour:     opts.Contour,
			EdgeBanding: it.EdgeBanding,
		}

		switch baseID(it.ID) {
		case IDSide:
			if design.ShelfCount > 0 {
				c.Holes = shelfPinLines(it.Width, it.Height)
			}
			if design.IncludeBack {
				c.Grooves = append(c.Grooves, model.Groove{
					Type:        model.GrooveBackPanel,
					Orientation: model.Vertical,
					X:           it.Width - BackGrooveInset,
					Y:           0,
					Length:      it.Height,
					Depth:       t / 2,
				})
			}
		case IDTopBottom:
			if design.IncludeBack {
				c.Grooves = append(c.Grooves, model.Groove{
					Type:        model.GrooveBackPanel,
					Orientation: model.Horizontal,
					X:           0,
					Y:           it.Height - BackGrooveInset,
					Length:      it.Width,
					Depth:       t / 2,
				})
			}
		case IDDoor:
			c.Holes = hingeBores(it.Height)
			if design.Style == model.StyleInset {
				c.Pockets = append(c.Pockets, model.Pocket{
					Name:   "finger pull",
					X:      (it.Width - FingerPullWidth) / 2,
					Y:      FingerPullEdgeDist,
					Width:  FingerPullWidth,
					Height: FingerPullHeight,
					Depth:  FingerPullDepth,
				})
			}
		}

		components = append(components, c)
	}
	return components
}

// shelfPinLines returns two vertical lines of shelf-pin holes, one near the
// front edge and one near the back.
func shelfPinLines(width, height float64) []model.HolePattern {
	usable := height - 2*ShelfPinStart
	if usable < 0 {
		return nil
	}
	count := int(math.Floor(usable/SystemPitch)) + 1

	var holes []model.HolePattern
	for _, x := range []float64{ShelfPinSetback, width - ShelfPinSetback} {
		holes = append(holes, model.HolePattern{
			Type:     model.HoleShelfPin,
			X:        x,
			Y:        ShelfPinStart,
			Diameter: ShelfPinDiameter,
			Depth:    ShelfPinDepth,
			Count:    count,
			Spacing:  SystemPitch,
		})
	}
	return holes
}

// hingeBores returns two cup bores per door, or one centred bore on doors too
// short for two.
func hingeBores(height float64) []model.HolePattern {
	bore := func(y float64) model.HolePattern {
		return model.HolePattern{
			Type:     model.HoleHinge,
			X:        HingeEdgeDistance,
			Y:        y,
			Diameter: HingeCupDiameter,
			Depth:    HingeCupDepth,
		}
	}
	if height < 2*HingeEndDistance+HingeCupDiameter {
		return []model.HolePattern{bore(height / 2)}
	}
	return []model.HolePattern{bore(HingeEndDistance), bore(height - HingeEndDistance)}
}

func componentName(design model.CabinetDesign, it model.CutListItem) string {
	if design.Name == "" {
		return it.Name
	}
	return design.Name + " " + it.Name
}

// baseID strips a batch prefix added by WithPrefix.
func baseID(id string) string {
	for _, known := range []string{IDTopBottom, IDSide, IDBack, IDShelf, IDDoor} {
		if id == known || strings.HasSuffix(id, "-"+known) {
			return known
		}
	}
	return id
}
