package engine

import (
	"fmt"

	"github.com/piwi3910/CaseCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.NestingSettings
}

// ComparisonResult holds the nesting result and statistics for one scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Sheets       []model.NestingSheet
	SheetsUsed   int
	PartsPlaced  int
	WastePercent float64 // Mean of per-sheet waste
	Err          error
}

// CompareScenarios nests the same cut list under each scenario and returns
// the results in scenario order. A scenario that fails records its error and
// does not stop the others.
func CompareScenarios(scenarios []ComparisonScenario, items []model.CutListItem) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		sheets, err := New(scenario.Settings).Optimize(items)
		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Sheets:       sheets,
			SheetsUsed:   len(sheets),
			PartsPlaced:  model.CountParts(sheets),
			WastePercent: averageWaste(sheets),
			Err:          err,
		})
	}
	return results
}

// BuildDefaultScenarios generates what-if variants of the base settings: the
// other packing algorithms and a half-width kerf.
func BuildDefaultScenarios(base model.NestingSettings) []ComparisonScenario {
	if base.Algorithm == "" {
		base.Algorithm = model.AlgorithmShelf
	}
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	for _, algo := range []model.Algorithm{model.AlgorithmShelf, model.AlgorithmGuillotine, model.AlgorithmGenetic} {
		if algo == base.Algorithm {
			continue
		}
		alt := base
		alt.Algorithm = algo
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("%s algorithm", algo),
			Settings: alt,
		})
	}

	if base.Kerf > 1.0 {
		tight := base
		tight.Kerf = base.Kerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %.1fmm (half)", tight.Kerf),
			Settings: tight,
		})
	}

	return scenarios
}
