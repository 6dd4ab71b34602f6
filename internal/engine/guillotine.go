package engine

import (
	"github.com/piwi3910/CaseCut/internal/logger"
	"github.com/piwi3910/CaseCut/internal/model"
)

// eps absorbs floating point noise when comparing panel edges.
const eps = 0.001

// packGuillotine opens sheets one after another. Each sheet takes every
// remaining part the free-rectangle packer can place; the rest carry over.
// Parts are never rotated.
func (o *Optimizer) packGuillotine(parts []model.NestingPart) []model.NestingSheet {
	stock := o.Settings.Stock

	var sheets []model.NestingSheet
	for pending := parts; len(pending) > 0; {
		sheet := model.NestingSheet{Width: stock.Width, Height: stock.Height}
		gp := newGuillotinePacker(stock.Width, stock.Height, o.Settings.Kerf)

		carry := pending[:0:0]
		for _, part := range pending {
			ok, x, y := gp.insert(part.Width, part.Height)
			if !ok {
				carry = append(carry, part)
				continue
			}
			part.X, part.Y, part.Rotation = x, y, 0
			sheet.Parts = append(sheet.Parts, part)
		}

		if len(sheet.Parts) == 0 {
			// Oversized parts are rejected before packing starts
			o.log.Errorw("Guillotine packer placed nothing on an empty sheet", logger.FieldParts, len(pending))
			break
		}
		sheets = append(sheets, closeSheet(sheet))
		pending = carry
	}
	return sheets
}

type rect struct {
	x, y, w, h float64
}

func (r rect) right() float64  { return r.x + r.w }
func (r rect) bottom() float64 { return r.y + r.h }

// fits reports whether a w by h block fits inside r.
func (r rect) fits(w, h float64) bool {
	return w <= r.w+eps && h <= r.h+eps
}

// overlaps is true when the interiors intersect; shared edges do not count.
func (r rect) overlaps(o rect) bool {
	return r.x < o.right()-eps && o.x < r.right()-eps &&
		r.y < o.bottom()-eps && o.y < r.bottom()-eps
}

// contains is true when o lies entirely inside r.
func (r rect) contains(o rect) bool {
	return r.x <= o.x+eps && r.y <= o.y+eps &&
		r.right() >= o.right()-eps && r.bottom() >= o.bottom()-eps
}

// remainders returns the maximal strips of r left free once used is taken out.
func (r rect) remainders(used rect) []rect {
	var out []rect
	if used.x > r.x+eps {
		out = append(out, rect{r.x, r.y, used.x - r.x, r.h})
	}
	if used.right() < r.right()-eps {
		out = append(out, rect{used.right(), r.y, r.right() - used.right(), r.h})
	}
	if used.y > r.y+eps {
		out = append(out, rect{r.x, r.y, r.w, used.y - r.y})
	}
	if used.bottom() < r.bottom()-eps {
		out = append(out, rect{r.x, used.bottom(), r.w, r.bottom() - used.bottom()})
	}
	return out
}

// guillotinePacker tracks the maximal free rectangles of a single sheet.
// Every placement reserves the part plus one kerf on its right and bottom.
type guillotinePacker struct {
	freeRects []rect
	kerf      float64
}

func newGuillotinePacker(width, height, kerf float64) *guillotinePacker {
	return &guillotinePacker{freeRects: []rect{{0, 0, width, height}}, kerf: kerf}
}

// insert places a w by h part in the free rectangle that leaves the least
// area over (best area fit) and returns its top-left corner. The earliest
// rectangle wins a tie.
func (gp *guillotinePacker) insert(w, h float64) (bool, float64, float64) {
	reserved := rect{w: w + gp.kerf, h: h + gp.kerf}

	best, bestWaste := -1, 0.0
	for i, free := range gp.freeRects {
		if !free.fits(reserved.w, reserved.h) {
			continue
		}
		if waste := free.w*free.h - w*h; best < 0 || waste < bestWaste {
			best, bestWaste = i, waste
		}
	}
	if best < 0 {
		return false, 0, 0
	}

	reserved.x, reserved.y = gp.freeRects[best].x, gp.freeRects[best].y
	gp.reserve(reserved)
	return true, reserved.x, reserved.y
}

// reserve carves used out of every free rectangle it touches.
func (gp *guillotinePacker) reserve(used rect) {
	next := make([]rect, 0, len(gp.freeRects)+4)
	for _, free := range gp.freeRects {
		if free.overlaps(used) {
			next = append(next, free.remainders(used)...)
		} else {
			next = append(next, free)
		}
	}
	gp.freeRects = pruneContained(next)
}

// pruneContained drops rectangles that lie inside another one. Of two equal
// rectangles only the first survives.
func pruneContained(rects []rect) []rect {
	if len(rects) < 2 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, r := range rects {
		if !swallowed(rects, i, r) {
			kept = append(kept, r)
		}
	}
	return kept
}

func swallowed(rects []rect, i int, r rect) bool {
	for j, other := range rects {
		if j == i || !other.contains(r) {
			continue
		}
		// equal rectangles: the earlier index is kept
		if r.contains(other) && j > i {
			continue
		}
		return true
	}
	return false
}
