package engine

import (
	"testing"

	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expandedParts(t *testing.T, items []model.CutListItem) []model.NestingPart {
	t.Helper()
	parts, err := New(defaultTestSettings()).expand(items)
	require.NoError(t, err)
	return parts
}

func TestGenetic_OrderCrossoverIsPermutation(t *testing.T) {
	parts := expandedParts(t, cabinetItems())
	g := newGeneticOptimizer(DefaultGeneticConfig(), parts, model.DefaultStockSheet(), 3)

	p1 := g.identity()
	p2 := chromosome{order: g.rng.Perm(len(parts))}
	for i := 0; i < 20; i++ {
		child := g.orderCrossover(p1, p2)
		g.mutate(&child)

		seen := make(map[int]bool)
		for _, idx := range child.order {
			assert.False(t, seen[idx], "index %d repeated", idx)
			seen[idx] = true
		}
		assert.Len(t, seen, len(parts))
	}
}

func TestGenetic_SmallInputUsesIncomingOrder(t *testing.T) {
	parts := expandedParts(t, []model.CutListItem{item("a", 300, 300, 1), item("b", 200, 200, 1)})
	sheets := newGeneticOptimizer(DefaultGeneticConfig(), parts, model.DefaultStockSheet(), 3).optimize()
	require.Len(t, sheets, 1)
	assert.Equal(t, "a-0", sheets[0].Parts[0].ID)
	assert.Equal(t, "b-0", sheets[0].Parts[1].ID)
}
