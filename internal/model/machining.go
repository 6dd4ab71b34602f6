package model

import "time"

// HoleType is the kind of drilled feature.
type HoleType string

const (
	HoleShelfPin HoleType = "shelf-pin"
	HoleHinge    HoleType = "hinge"
)

// HolePattern describes a set of holes requested on a component. Shelf-pin
// patterns expand into Count holes spaced along Y; hinge patterns are single
// bores.
type HolePattern struct {
	Type     HoleType `json:"type"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Diameter float64  `json:"diameter"`
	Depth    float64  `json:"depth"`
	Count    int      `json:"count,omitempty"`
	Spacing  float64  `json:"spacing,omitempty"`
	Through  bool     `json:"through,omitempty"`
}

// DrillHole is a single hole to drill.
type DrillHole struct {
	Position    Point3D `json:"position"`
	Diameter    float64 `json:"diameter"`
	Depth       float64 `json:"depth"`
	ThroughHole bool    `json:"through_hole"`
}

// DrillingPattern is a group of holes of one type drilled with one tool.
type DrillingPattern struct {
	Type  HoleType    `json:"type"`
	Holes []DrillHole `json:"holes"`
	Tool  string      `json:"tool"`
}

// GrooveType is the kind of routed slot.
type GrooveType string

const (
	GrooveDado      GrooveType = "dado"
	GrooveRabbet    GrooveType = "rabbet"
	GrooveBackPanel GrooveType = "back-panel"
)

// Orientation is the direction a groove runs in panel space.
type Orientation string

const (
	Horizontal Orientation = "horizontal" // Along X
	Vertical   Orientation = "vertical"   // Along Y
)

// Groove describes a groove requested on a component. Width zero means
// the router bit diameter.
type Groove struct {
	Type        GrooveType  `json:"type"`
	Orientation Orientation `json:"orientation"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Length      float64     `json:"length"`
	Width       float64     `json:"width,omitempty"`
	Depth       float64     `json:"depth"`
}

// Pocket is a rectangular area cleared to a flat depth, such as a hinge
// plate recess.
type Pocket struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// PathType labels a routing path.
type PathType string

const (
	PathDado      PathType = PathType(GrooveDado)
	PathRabbet    PathType = PathType(GrooveRabbet)
	PathBackPanel PathType = PathType(GrooveBackPanel)
	PathPocket    PathType = "pocket"
	PathContour   PathType = "contour"
)

// RoutingPath is a toolpath cut in one or more depth passes.
type RoutingPath struct {
	Type   PathType  `json:"type"`
	Path   []Point3D `json:"path"`
	Tool   string    `json:"tool"`
	Depth  float64   `json:"depth"`
	Passes int       `json:"passes"`
	Closed bool      `json:"closed"`
}

// DepthPerPass returns the depth removed by each pass.
func (r RoutingPath) DepthPerPass() float64 {
	if r.Passes <= 0 {
		return r.Depth
	}
	return r.Depth / float64(r.Passes)
}

// Length returns the path length of one pass.
func (r RoutingPath) Length() float64 {
	return PathLength(r.Path, r.Closed)
}

// ComponentDimensions is one machinable panel with its features.
type ComponentDimensions struct {
	Name        string        `json:"name"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	Thickness   float64       `json:"thickness"`
	Material    string        `json:"material"`
	Holes       []HolePattern `json:"holes,omitempty"`
	Grooves     []Groove      `json:"grooves,omitempty"`
	Pockets     []Pocket      `json:"pockets,omitempty"`
	Contour     bool          `json:"contour,omitempty"` // Cut the panel out along its perimeter
	EdgeBanding EdgeBanding   `json:"edge_banding"`
}

// HasMachining reports whether the component needs any CNC operation.
func (c ComponentDimensions) HasMachining() bool {
	return len(c.Holes) > 0 || len(c.Grooves) > 0 || len(c.Pockets) > 0 || c.Contour
}

// OperationType is the closed set of CNC operation kinds.
type OperationType string

const (
	OpDrill   OperationType = "drill"
	OpRoute   OperationType = "route"
	OpPocket  OperationType = "pocket"
	OpContour OperationType = "contour"
)

// OperationTypes lists every operation kind in execution order.
var OperationTypes = []OperationType{OpDrill, OpRoute, OpPocket, OpContour}

// CNCOperation is one toolpath the serializer turns into a G-code block.
type CNCOperation struct {
	ID            string        `json:"id"`
	Type          OperationType `json:"type"`
	Tool          string        `json:"tool"`
	StartPoint    Point3D       `json:"start_point"`
	Path          []Point3D     `json:"path,omitempty"`
	Closed        bool          `json:"closed,omitempty"`
	Depth         float64       `json:"depth"`
	Passes        int           `json:"passes"`
	Name          string        `json:"name"`
	EstimatedTime time.Duration `json:"estimated_time"`
}

// DepthPerPass returns the depth removed by each pass.
func (o CNCOperation) DepthPerPass() float64 {
	if o.Passes <= 0 {
		return o.Depth
	}
	return o.Depth / float64(o.Passes)
}

// ManufacturingJob is everything needed to machine and band one component.
type ManufacturingJob struct {
	ID               string               `json:"id"`
	Component        ComponentDimensions  `json:"component"`
	Operations       []CNCOperation       `json:"operations"`
	DrillingPatterns []DrillingPattern    `json:"drilling_patterns"`
	RoutingPaths     []RoutingPath        `json:"routing_paths"`
	EdgeBanding      *EdgeBandingSequence `json:"edge_banding,omitempty"`
	SetupTime        time.Duration        `json:"setup_time"`
	MachiningTime    time.Duration        `json:"machining_time"`
	EdgeBandingTime  time.Duration        `json:"edge_banding_time"`
	TotalTime        time.Duration        `json:"total_time"`
	Warnings         []string             `json:"warnings,omitempty"`
}

// OperationCount returns the number of operations of type t.
func (j ManufacturingJob) OperationCount(t OperationType) int {
	n := 0
	for _, op := range j.Operations {
		if op.Type == t {
			n++
		}
	}
	return n
}

// ToolsUsed returns the tool ids in first-use order.
func (j ManufacturingJob) ToolsUsed() []string {
	seen := make(map[string]bool)
	var tools []string
	for _, op := range j.Operations {
		if !seen[op.Tool] {
			seen[op.Tool] = true
			tools = append(tools, op.Tool)
		}
	}
	return tools
}
