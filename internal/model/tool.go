package model

import (
	"fmt"
	"sort"
)

// Catalog tool ids.
const (
	ToolShelfPinDrill  = "SHELF_PIN_DRILL"
	ToolHingeBore35mm  = "HINGE_BORE_35MM"
	ToolDadoRouter     = "DADO_ROUTER"
	ToolProfileEndmill = "PROFILE_ENDMILL"
	ToolPocketEndmill  = "POCKET_ENDMILL"
)

// Tool is a cutting tool in the machine's rack.
type Tool struct {
	ID         string  `json:"id" toml:"id" yaml:"id"`
	Name       string  `json:"name" toml:"name" yaml:"name"`
	Diameter   float64 `json:"diameter" toml:"diameter" yaml:"diameter"`          // mm
	RPM        int     `json:"rpm" toml:"rpm" yaml:"rpm"`                         // Spindle speed
	FeedRate   float64 `json:"feed_rate" toml:"feed_rate" yaml:"feed_rate"`       // mm/min
	PlungeRate float64 `json:"plunge_rate" toml:"plunge_rate" yaml:"plunge_rate"` // mm/min
	StepDown   float64 `json:"step_down" toml:"step_down" yaml:"step_down"`       // Max depth per pass (mm)
}

// Radius returns half the tool diameter.
func (t Tool) Radius() float64 {
	return t.Diameter / 2
}

// String returns "NAME (Ø6mm)".
func (t Tool) String() string {
	return fmt.Sprintf("%s (Ø%gmm)", t.Name, t.Diameter)
}

// ToolCatalog is the set of tools available to the job generator and the
// G-code serializer, keyed by tool id.
type ToolCatalog struct {
	tools map[string]Tool
}

// NewToolCatalog builds a catalog from the given tools. Later duplicates
// replace earlier ones.
func NewToolCatalog(tools ...Tool) ToolCatalog {
	c := ToolCatalog{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		c.tools[t.ID] = t
	}
	return c
}

// DefaultToolCatalog returns the standard cabinet shop rack.
func DefaultToolCatalog() ToolCatalog {
	return NewToolCatalog(
		Tool{ID: ToolShelfPinDrill, Name: "5mm Shelf Pin Drill", Diameter: 5, RPM: 6000, FeedRate: 1000, PlungeRate: 500, StepDown: 5},
		Tool{ID: ToolHingeBore35mm, Name: "35mm Forstner Hinge Bit", Diameter: 35, RPM: 3000, FeedRate: 800, PlungeRate: 300, StepDown: 13},
		Tool{ID: ToolDadoRouter, Name: "6mm Straight Router Bit", Diameter: 6, RPM: 18000, FeedRate: 2000, PlungeRate: 500, StepDown: 3},
		Tool{ID: ToolProfileEndmill, Name: "6mm Compression End Mill", Diameter: 6, RPM: 18000, FeedRate: 3000, PlungeRate: 600, StepDown: 6},
		Tool{ID: ToolPocketEndmill, Name: "12mm Pocketing End Mill", Diameter: 12, RPM: 16000, FeedRate: 2500, PlungeRate: 500, StepDown: 4},
	)
}

// Lookup returns the tool with the given id.
func (c ToolCatalog) Lookup(id string) (Tool, bool) {
	t, ok := c.tools[id]
	return t, ok
}

// With returns a copy of the catalog with t added or replaced.
func (c ToolCatalog) With(t Tool) ToolCatalog {
	out := ToolCatalog{tools: make(map[string]Tool, len(c.tools)+1)}
	for id, existing := range c.tools {
		out.tools[id] = existing
	}
	out.tools[t.ID] = t
	return out
}

// Tools returns every tool sorted by id.
func (c ToolCatalog) Tools() []Tool {
	tools := make([]Tool, 0, len(c.tools))
	for _, t := range c.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].ID < tools[j].ID })
	return tools
}

// Len returns the number of tools in the catalog.
func (c ToolCatalog) Len() int {
	return len(c.tools)
}

// IDGenerator hands out monotonically increasing operation ids within one
// pipeline session. It is not safe for concurrent use; give each worker its own.
type IDGenerator struct {
	next int
}

// NewIDGenerator returns a generator whose first id ends in 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// NextID returns "<prefix>-<n>".
func (g *IDGenerator) NextID(prefix string) string {
	g.next++
	return fmt.Sprintf("%s-%d", prefix, g.next)
}
