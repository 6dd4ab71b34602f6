package engine

import "github.com/piwi3910/CaseCut/internal/model"

// packShelf is the first-fit-decreasing row packer. Parts are placed left to
// right along a row; a part that does not fit horizontally starts a new row
// below the tallest part of the current one, and a part that does not fit
// vertically closes the sheet. Parts are never rotated.
func (o *Optimizer) packShelf(parts []model.NestingPart) []model.NestingSheet {
	return shelfPack(parts, o.Settings.Stock, o.Settings.Kerf)
}

func shelfPack(parts []model.NestingPart, stock model.StockSheet, kerf float64) []model.NestingSheet {
	if len(parts) == 0 {
		return nil
	}

	var sheets []model.NestingSheet
	current := model.NestingSheet{Width: stock.Width, Height: stock.Height}
	var x, y, rowHeight float64

	for _, p := range parts {
		if x+p.Width+kerf > stock.Width {
			x = 0
			y += rowHeight + kerf
			rowHeight = 0
		}
		if y+p.Height+kerf > stock.Height {
			sheets = append(sheets, closeSheet(current))
			current = model.NestingSheet{Width: stock.Width, Height: stock.Height}
			x, y, rowHeight = 0, 0, 0
		}

		p.X, p.Y, p.Rotation = x, y, 0
		current.Parts = append(current.Parts, p)

		x += p.Width + kerf
		rowHeight = max(rowHeight, p.Height)
	}

	return append(sheets, closeSheet(current))
}
