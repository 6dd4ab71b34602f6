package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/CaseCut/internal/model"
)

// GeneticConfig holds parameters for the genetic order search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64 // Fixed so runs are reproducible
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 40,
		Generations:    80,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// chromosome is a candidate packing order: a permutation of part indexes.
type chromosome struct {
	order   []int
	fitness float64
}

// geneticOptimizer searches part orders and decodes each with the shelf
// packer. The area-descending order is always in the initial population and
// elitism keeps the best order, so the result is never worse than plain shelf
// packing.
type geneticOptimizer struct {
	config GeneticConfig
	parts  []model.NestingPart
	stock  model.StockSheet
	kerf   float64
	rng    *rand.Rand
}

func newGeneticOptimizer(config GeneticConfig, parts []model.NestingPart, stock model.StockSheet, kerf float64) *geneticOptimizer {
	return &geneticOptimizer{
		config: config,
		parts:  parts,
		stock:  stock,
		kerf:   kerf,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// packGenetic runs the order search for one material group.
func (o *Optimizer) packGenetic(parts []model.NestingPart) []model.NestingSheet {
	config := o.Genetic
	// Scale generations for larger problems
	if len(parts) > 20 {
		config.Generations = max(config.Generations, 120)
	}
	if len(parts) > 50 {
		config.PopulationSize = max(config.PopulationSize, 60)
	}
	return newGeneticOptimizer(config, parts, o.Settings.Stock, o.Settings.Kerf).optimize()
}

func (g *geneticOptimizer) optimize() []model.NestingSheet {
	if len(g.parts) == 0 {
		return nil
	}
	if len(g.parts) <= 2 || g.config.PopulationSize < 2 {
		return g.decode(g.identity())
	}

	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		next := make([]chromosome, 0, g.config.PopulationSize)
		for i := 0; i < min(g.config.EliteCount, len(population)); i++ {
			next = append(next, g.copyChromosome(population[i]))
		}
		for len(next) < g.config.PopulationSize {
			child := g.orderCrossover(g.tournamentSelect(population), g.tournamentSelect(population))
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			next = append(next, child)
		}
		population = next
	}

	sortByFitness(population)
	return g.decode(population[0])
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// identity is the incoming order, which is already area-descending.
func (g *geneticOptimizer) identity() chromosome {
	order := make([]int, len(g.parts))
	for i := range order {
		order[i] = i
	}
	return chromosome{order: order}
}

func (g *geneticOptimizer) initPopulation() []chromosome {
	population := make([]chromosome, g.config.PopulationSize)
	population[0] = g.identity()
	for i := 1; i < len(population); i++ {
		population[i] = chromosome{order: g.rng.Perm(len(g.parts))}
	}
	return population
}

func (g *geneticOptimizer) decode(c chromosome) []model.NestingSheet {
	ordered := make([]model.NestingPart, len(c.order))
	for i, idx := range c.order {
		ordered[i] = g.parts[idx]
	}
	return shelfPack(ordered, g.stock, g.kerf)
}

// evaluate scores fewer sheets first, then how full the best sheet is, so
// leftover space is concentrated into larger offcuts.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	sheets := g.decode(c)
	if len(sheets) == 0 {
		return 0
	}
	var used, total, bestSheet float64
	for _, s := range sheets {
		used += s.UsedArea()
		total += s.Area()
		bestSheet = max(bestSheet, s.Efficiency()/100)
	}
	efficiency := used / total
	sheetPenalty := float64(len(sheets)-1) * 0.05
	return efficiency - sheetPenalty + 0.01*bestSheet
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.order)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{order: make([]int, n)}
	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.order[i] = parent1.order[i]
		inSegment[parent1.order[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, idx := range parent2.order {
		if !inSegment[idx] {
			child.order[childIdx] = idx
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.order[i], c.order[j] = c.order[j], c.order[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return chromosome{order: order, fitness: c.fitness}
}
