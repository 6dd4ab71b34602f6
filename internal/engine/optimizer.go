package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/logger"
	"github.com/piwi3910/CaseCut/internal/model"
)

// Optimizer nests cut-list parts onto stock sheets.
type Optimizer struct {
	Settings model.NestingSettings
	Genetic  GeneticConfig
	log      *zap.SugaredLogger
}

func New(settings model.NestingSettings) *Optimizer {
	return &Optimizer{
		Settings: settings,
		Genetic:  DefaultGeneticConfig(),
		log:      logger.Named("nesting"),
	}
}

// Optimize expands items into individual parts and packs them onto as many
// sheets as needed. Parts of different materials never share a sheet; groups
// are packed in order of first appearance. Zero items yields no sheets.
func (o *Optimizer) Optimize(items []model.CutListItem) ([]model.NestingSheet, error) {
	if !model.Positive(o.Settings.Stock.Width) || !model.Positive(o.Settings.Stock.Height) {
		return nil, errors.Wrapf(errors.ErrInvalidDimension, "stock sheet %.1f x %.1f", o.Settings.Stock.Width, o.Settings.Stock.Height)
	}
	if !model.NonNegative(o.Settings.Kerf) {
		return nil, errors.Wrapf(errors.ErrInvalidDimension, "kerf %.2f", o.Settings.Kerf)
	}

	parts, err := o.expand(items)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return []model.NestingSheet{}, nil
	}

	var sheets []model.NestingSheet
	for _, group := range groupByMaterial(parts) {
		var packed []model.NestingSheet
		switch o.Settings.Algorithm {
		case model.AlgorithmGuillotine:
			packed = o.packGuillotine(group)
		case model.AlgorithmGenetic:
			packed = o.packGenetic(group)
		case model.AlgorithmShelf, "":
			packed = o.packShelf(group)
		default:
			return nil, errors.Newf("unknown nesting algorithm %q", o.Settings.Algorithm)
		}
		sheets = append(sheets, packed...)
	}

	for i := range sheets {
		sheets[i].Index = i
	}

	o.log.Infow("Nesting complete",
		logger.FieldParts, len(parts),
		logger.FieldSheets, len(sheets),
		logger.FieldWaste, fmt.Sprintf("%.1f", averageWaste(sheets)),
		"algorithm", o.Settings.Algorithm,
	)
	return sheets, nil
}

// expand turns each item into quantity parts, validates them against the
// stock and returns them stable-sorted by area descending.
func (o *Optimizer) expand(items []model.CutListItem) ([]model.NestingPart, error) {
	sheetW, sheetH, kerf := o.Settings.Stock.Width, o.Settings.Stock.Height, o.Settings.Kerf

	var parts []model.NestingPart
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		// The packer needs room for one trailing kerf on an empty sheet
		if it.Width+kerf > sheetW || it.Height+kerf > sheetH {
			return nil, errors.WithDetailf(
				errors.Wrapf(errors.ErrPartExceedsSheet, "part %q %.1f x %.1f plus %.1f mm kerf on %.1f x %.1f sheet",
					it.Name, it.Width, it.Height, kerf, sheetW, sheetH),
				"item=%s kerf=%g: part plus one kerf must fit the sheet", it.ID, kerf)
		}
		for i := 0; i < it.Quantity; i++ {
			parts = append(parts, model.NestingPart{
				ID:       fmt.Sprintf("%s-%d", it.ID, i),
				ItemID:   it.ID,
				Name:     it.Name,
				Width:    it.Width,
				Height:   it.Height,
				Material: it.Material,
			})
		}
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].Area() > parts[j].Area()
	})
	return parts, nil
}

// groupByMaterial splits parts by material, keeping first-seen group order
// and the relative order of parts within each group.
func groupByMaterial(parts []model.NestingPart) [][]model.NestingPart {
	index := make(map[string]int)
	var groups [][]model.NestingPart
	for _, p := range parts {
		i, ok := index[p.Material]
		if !ok {
			i = len(groups)
			index[p.Material] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], p)
	}
	return groups
}

// closeSheet finalises the waste percentage of a sheet.
func closeSheet(s model.NestingSheet) model.NestingSheet {
	area := s.Area()
	if area > 0 {
		s.WastePercentage = (area - s.UsedArea()) / area * 100
	}
	return s
}

func averageWaste(sheets []model.NestingSheet) float64 {
	if len(sheets) == 0 {
		return 0
	}
	var total float64
	for _, s := range sheets {
		total += s.WastePercentage
	}
	return total / float64(len(sheets))
}
