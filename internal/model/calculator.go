package model

import "math"

// Pricing holds the unit prices used by the cost model. Units are
// currency-agnostic.
type Pricing struct {
	PricePerSquareMeter float64 `json:"price_per_square_meter" toml:"price_per_square_meter" yaml:"price_per_square_meter"`
	HingePrice          float64 `json:"hinge_price" toml:"hinge_price" yaml:"hinge_price"`
	HandlePrice         float64 `json:"handle_price" toml:"handle_price" yaml:"handle_price"`
}

// DefaultPricing returns typical melamine board and hardware prices.
func DefaultPricing() Pricing {
	return Pricing{PricePerSquareMeter: 20, HingePrice: 3, HandlePrice: 5}
}

// HingesPerDoor is the number of hinges fitted to each door.
const HingesPerDoor = 2

// CostBreakdown is the result of the cost model.
type CostBreakdown struct {
	MaterialCost    float64 `json:"material_cost"`
	HardwareCost    float64 `json:"hardware_cost"`
	TotalCost       float64 `json:"total_cost"`
	SheetCount      int     `json:"sheet_count"`
	WastePercentage float64 `json:"waste_percentage"` // Mean of per-sheet waste
}

// CalculateCost prices a nested cut list. Material is charged per whole sheet
// used, never per part, so the cut list itself does not affect the price.
// Waste is the unweighted mean of the sheets' waste percentages.
func CalculateCost(_ []CutListItem, sheets []NestingSheet, stock StockSheet, pricing Pricing, doorCount int) CostBreakdown {
	sheetCount := len(sheets)
	materialCost := float64(sheetCount) * stock.AreaM2() * pricing.PricePerSquareMeter
	hardwareCost := float64(doorCount*HingesPerDoor)*pricing.HingePrice + float64(doorCount)*pricing.HandlePrice

	var waste float64
	if sheetCount > 0 {
		for _, s := range sheets {
			waste += s.WastePercentage
		}
		waste /= float64(sheetCount)
	}

	return CostBreakdown{
		MaterialCost:    materialCost,
		HardwareCost:    hardwareCost,
		TotalCost:       materialCost + hardwareCost,
		SheetCount:      sheetCount,
		WastePercentage: waste,
	}
}

// PurchaseEstimate holds the results of a sheet purchasing calculation.
type PurchaseEstimate struct {
	TotalPartArea     float64 `json:"total_part_area"`     // Total area of all parts (sq mm)
	TotalBoardFeet    float64 `json:"total_board_feet"`    // Total area in board feet (1 bf = 144 sq in = 92903.04 sq mm)
	SheetArea         float64 `json:"sheet_area"`          // Area of one sheet (sq mm)
	SheetsNeededExact float64 `json:"sheets_needed_exact"` // Exact fractional number of sheets
	SheetsNeededMin   int     `json:"sheets_needed_min"`   // Minimum sheets (ceiling of exact)
	SheetsWithWaste   int     `json:"sheets_with_waste"`   // Recommended sheets including waste factor
	WastePercent      float64 `json:"waste_percent"`       // Waste factor applied (e.g., 15 for 15%)
	EstimatedCost     float64 `json:"estimated_cost"`      // Total cost at the per-sheet price
	PricePerSheet     float64 `json:"price_per_sheet"`
	KerfWidth         float64 `json:"kerf_width"`
}

// sqmmPerBoardFoot is the number of square millimeters in one board foot.
// 1 board foot = 12" x 12" x 1" (area) = 144 sq inches = 144 * 645.16 sq mm = 92903.04 sq mm.
const sqmmPerBoardFoot = 92903.04

// CalculatePurchaseEstimate computes how many sheets to buy before nesting.
// It accounts for kerf waste and an additional waste percentage factor; the
// sheet price is derived from the per-square-meter price.
func CalculatePurchaseEstimate(items []CutListItem, stock StockSheet, kerf, wastePercent float64, pricing Pricing) PurchaseEstimate {
	var totalPartArea float64
	for _, it := range items {
		totalPartArea += (it.Width + kerf) * (it.Height + kerf) * float64(it.Quantity)
	}

	sheetArea := stock.Area()
	if sheetArea <= 0 {
		return PurchaseEstimate{
			TotalPartArea:  totalPartArea,
			TotalBoardFeet: totalPartArea / sqmmPerBoardFoot,
			WastePercent:   wastePercent,
		}
	}

	exactSheets := totalPartArea / sheetArea
	minSheets := int(math.Ceil(exactSheets))

	sheetsWithWaste := int(math.Ceil(exactSheets * (1.0 + wastePercent/100.0)))
	if sheetsWithWaste < minSheets {
		sheetsWithWaste = minSheets
	}

	pricePerSheet := stock.AreaM2() * pricing.PricePerSquareMeter

	return PurchaseEstimate{
		TotalPartArea:     totalPartArea,
		TotalBoardFeet:    totalPartArea / sqmmPerBoardFoot,
		SheetArea:         sheetArea,
		SheetsNeededExact: exactSheets,
		SheetsNeededMin:   minSheets,
		SheetsWithWaste:   sheetsWithWaste,
		WastePercent:      wastePercent,
		EstimatedCost:     float64(sheetsWithWaste) * pricePerSheet,
		PricePerSheet:     pricePerSheet,
		KerfWidth:         kerf,
	}
}
