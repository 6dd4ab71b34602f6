package machining

import (
	"math"
	"testing"
	"time"

	"github.com/piwi3910/CaseCut/internal/cutlist"
	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator() *Generator {
	return New(model.DefaultToolCatalog(), model.NewIDGenerator(), nil)
}

func panel(name string) model.ComponentDimensions {
	return model.ComponentDimensions{Name: name, Width: 560, Height: 720, Thickness: 18, Material: "Melamine"}
}

func TestGenerate_ShelfPinExpansion(t *testing.T) {
	c := panel("Side")
	c.Holes = []model.HolePattern{{Type: model.HoleShelfPin, X: 37, Y: 100, Diameter: 5, Depth: 12, Count: 3, Spacing: 32}}

	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)
	require.Len(t, job.DrillingPatterns, 1)

	p := job.DrillingPatterns[0]
	assert.Equal(t, model.ToolShelfPinDrill, p.Tool)
	require.Len(t, p.Holes, 3)
	for i, want := range []float64{100, 132, 164} {
		assert.Equal(t, 37.0, p.Holes[i].Position.X)
		assert.Equal(t, want, p.Holes[i].Position.Y)
	}
	assert.Equal(t, 3, job.OperationCount(model.OpDrill))
}

func TestGenerate_GroupsHolesByTypeInFirstSeenOrder(t *testing.T) {
	c := panel("Door")
	c.Holes = []model.HolePattern{
		{Type: model.HoleHinge, X: 22.5, Y: 100, Diameter: 35, Depth: 13},
		{Type: model.HoleShelfPin, X: 37, Y: 100, Diameter: 5, Depth: 12, Count: 2, Spacing: 32},
		{Type: model.HoleHinge, X: 22.5, Y: 620, Diameter: 35, Depth: 13},
	}

	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)
	require.Len(t, job.DrillingPatterns, 2)
	assert.Equal(t, model.HoleHinge, job.DrillingPatterns[0].Type)
	assert.Equal(t, model.ToolHingeBore35mm, job.DrillingPatterns[0].Tool)
	assert.Len(t, job.DrillingPatterns[0].Holes, 2)
	assert.Equal(t, model.HoleShelfPin, job.DrillingPatterns[1].Type)
	assert.Len(t, job.DrillingPatterns[1].Holes, 2)
}

func TestGenerate_OperationOrderAndIDs(t *testing.T) {
	c := panel("Top")
	c.Contour = true
	c.Pockets = []model.Pocket{{Name: "pull", X: 200, Y: 30, Width: 120, Height: 20, Depth: 8}}
	c.Grooves = []model.Groove{{Type: model.GrooveDado, Orientation: model.Horizontal, X: 0, Y: 300, Length: 560, Depth: 6}}
	c.Holes = []model.HolePattern{{Type: model.HoleHinge, X: 22.5, Y: 100, Diameter: 35, Depth: 13}}

	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)
	require.Len(t, job.Operations, 4)

	var types []model.OperationType
	var ids []string
	for _, op := range job.Operations {
		types = append(types, op.Type)
		ids = append(ids, op.ID)
	}
	assert.Equal(t, model.OperationTypes, types)
	assert.Equal(t, []string{"op-1", "op-2", "op-3", "op-4"}, ids)
	assert.Equal(t, "top", job.ID)
	assert.Equal(t, []string{model.ToolHingeBore35mm, model.ToolDadoRouter, model.ToolPocketEndmill, model.ToolProfileEndmill}, job.ToolsUsed())
}

func TestGenerate_IDsContinueAcrossJobs(t *testing.T) {
	g := newTestGenerator()
	c := panel("Side")
	c.Holes = []model.HolePattern{{Type: model.HoleHinge, X: 22.5, Y: 100, Diameter: 35, Depth: 13}}

	first, err := g.Generate(c)
	require.NoError(t, err)
	second, err := g.Generate(c)
	require.NoError(t, err)
	assert.Equal(t, "op-1", first.Operations[0].ID)
	assert.Equal(t, "op-2", second.Operations[0].ID)
}

func TestGenerate_GroovePaths(t *testing.T) {
	c := panel("Side")
	c.Grooves = []model.Groove{
		{Type: model.GrooveBackPanel, Orientation: model.Vertical, X: 548, Y: 0, Length: 720, Depth: 9},
		{Type: model.GrooveDado, Orientation: model.Horizontal, X: 0, Y: 360, Length: 560, Depth: 6},
		{Type: model.GrooveRabbet, Orientation: model.Horizontal, X: 0, Y: 0, Length: 560, Depth: 9},
	}

	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)
	require.Len(t, job.RoutingPaths, 3)

	back := job.RoutingPaths[0]
	assert.Equal(t, model.PathBackPanel, back.Type)
	assert.Equal(t, []model.Point3D{model.Pt(548, 0), model.Pt(548, 720)}, back.Path)
	assert.False(t, back.Closed)
	assert.Equal(t, 3, back.Passes)

	dado := job.RoutingPaths[1]
	assert.Equal(t, []model.Point3D{model.Pt(0, 360), model.Pt(560, 360)}, dado.Path)
	assert.Equal(t, 2, dado.Passes)

	rabbet := job.RoutingPaths[2]
	assert.True(t, rabbet.Closed)
	require.Len(t, rabbet.Path, 4)
	// Width defaults to the router diameter
	box := model.BoundingBox(rabbet.Path)
	assert.Equal(t, 560.0, box.Width())
	assert.Equal(t, 6.0, box.Height())
}

func TestGenerate_ContourIsOffsetByToolRadius(t *testing.T) {
	c := panel("Shelf")
	c.Contour = true

	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)
	require.Len(t, job.RoutingPaths, 1)

	contour := job.RoutingPaths[0]
	assert.Equal(t, model.PathContour, contour.Type)
	assert.Equal(t, model.ToolProfileEndmill, contour.Tool)
	assert.Equal(t, 18.0, contour.Depth)
	assert.Equal(t, 3, contour.Passes)
	assert.Equal(t, model.Pt(-3, -3), contour.Path[0])
	assert.Equal(t, model.Pt(563, 723), contour.Path[2])
}

func TestGenerate_DepthExceedsThickness(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *model.ComponentDimensions)
	}{
		{"groove equal to thickness", func(c *model.ComponentDimensions) {
			c.Grooves = []model.Groove{{Type: model.GrooveDado, Orientation: model.Horizontal, Length: 100, Depth: 18}}
		}},
		{"blind hole equal to thickness", func(c *model.ComponentDimensions) {
			c.Holes = []model.HolePattern{{Type: model.HoleHinge, X: 22.5, Y: 100, Diameter: 35, Depth: 18}}
		}},
		{"through hole deeper than thickness", func(c *model.ComponentDimensions) {
			c.Holes = []model.HolePattern{{Type: model.HoleShelfPin, X: 37, Y: 100, Diameter: 5, Depth: 19, Through: true}}
		}},
		{"pocket deeper than thickness", func(c *model.ComponentDimensions) {
			c.Pockets = []model.Pocket{{Name: "recess", X: 10, Y: 10, Width: 50, Height: 50, Depth: 20}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := panel("Side")
			tt.edit(&c)
			_, err := newTestGenerator().Generate(c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrDepthExceedsThickness), "got %v", err)
		})
	}
}

func TestGenerate_ThroughHoleMayEqualThickness(t *testing.T) {
	c := panel("Side")
	c.Holes = []model.HolePattern{{Type: model.HoleShelfPin, X: 37, Y: 100, Diameter: 5, Depth: 18, Through: true}}
	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)
	assert.True(t, job.DrillingPatterns[0].Holes[0].ThroughHole)
}

func TestGenerate_UnknownToolReference(t *testing.T) {
	catalog := model.NewToolCatalog(model.Tool{ID: model.ToolShelfPinDrill, Diameter: 5, PlungeRate: 500})
	c := panel("Side")
	c.Grooves = []model.Groove{{Type: model.GrooveDado, Orientation: model.Horizontal, Length: 100, Depth: 6}}

	_, err := New(catalog, nil, nil).Generate(c)
	assert.True(t, errors.Is(err, errors.ErrUnknownToolReference), "got %v", err)
}

func TestGenerate_MalformedGeometry(t *testing.T) {
	c := panel("Side")
	c.Grooves = []model.Groove{{Type: model.GrooveDado, Orientation: model.Horizontal, Length: 0, Depth: 6}}
	_, err := newTestGenerator().Generate(c)
	assert.True(t, errors.Is(err, errors.ErrMalformedGeometry), "got %v", err)

	c = panel("Side")
	c.Pockets = []model.Pocket{{Name: "flat", Width: 0, Height: 10, Depth: 2}}
	_, err = newTestGenerator().Generate(c)
	assert.True(t, errors.Is(err, errors.ErrMalformedGeometry), "got %v", err)
}

func TestGenerate_NonFiniteGeometry(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		mutate func(c *model.ComponentDimensions)
	}{
		{"hole x", func(c *model.ComponentDimensions) {
			c.Holes = []model.HolePattern{{Type: model.HoleShelfPin, X: nan, Y: 100, Diameter: 5, Depth: 12}}
		}},
		{"hole spacing", func(c *model.ComponentDimensions) {
			c.Holes = []model.HolePattern{{Type: model.HoleShelfPin, X: 37, Y: 100, Diameter: 5, Depth: 12, Count: 3, Spacing: math.Inf(1)}}
		}},
		{"hole depth", func(c *model.ComponentDimensions) {
			c.Holes = []model.HolePattern{{Type: model.HoleShelfPin, X: 37, Y: 100, Diameter: 5, Depth: nan}}
		}},
		{"groove y", func(c *model.ComponentDimensions) {
			c.Grooves = []model.Groove{{Type: model.GrooveDado, Orientation: model.Horizontal, Y: nan, Length: 100, Depth: 6}}
		}},
		{"groove length", func(c *model.ComponentDimensions) {
			c.Grooves = []model.Groove{{Type: model.GrooveDado, Orientation: model.Horizontal, Length: math.Inf(1), Depth: 6}}
		}},
		{"pocket depth", func(c *model.ComponentDimensions) {
			c.Pockets = []model.Pocket{{Name: "hinge", X: 20, Y: 20, Width: 35, Height: 35, Depth: nan}}
		}},
		{"pocket x", func(c *model.ComponentDimensions) {
			c.Pockets = []model.Pocket{{Name: "hinge", X: nan, Y: 20, Width: 35, Height: 35, Depth: 2}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := panel("Side")
			tt.mutate(&c)
			_, err := newTestGenerator().Generate(c)
			assert.True(t, errors.Is(err, errors.ErrMalformedGeometry), "got %v", err)
		})
	}
}

func TestGenerate_InvalidComponent(t *testing.T) {
	c := panel("Side")
	c.Thickness = 0
	_, err := newTestGenerator().Generate(c)
	assert.True(t, errors.Is(err, errors.ErrInvalidDimension))

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		c = panel("Side")
		c.Width = v
		_, err = newTestGenerator().Generate(c)
		assert.True(t, errors.Is(err, errors.ErrInvalidDimension), "width %v: %v", v, err)
	}
}

func TestGenerate_UnknownTypesBecomeWarnings(t *testing.T) {
	c := panel("Side")
	c.Holes = []model.HolePattern{{Type: "cam-lock", X: 10, Y: 10, Diameter: 15, Depth: 12}}
	c.Grooves = []model.Groove{{Type: "dovetail", Orientation: model.Horizontal, Length: 100, Depth: 6}}

	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)
	assert.Empty(t, job.Operations)
	require.Len(t, job.Warnings, 2)
	assert.Contains(t, job.Warnings[0], "cam-lock")
	assert.Contains(t, job.Warnings[1], "dovetail")
}

func TestGenerate_EdgeBandingAndTimes(t *testing.T) {
	c := panel("Shelf")
	c.EdgeBanding = model.EdgeBanding{Top: true, Left: true}
	c.Holes = []model.HolePattern{{Type: model.HoleShelfPin, X: 37, Y: 100, Diameter: 5, Depth: 12}}

	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)

	require.NotNil(t, job.EdgeBanding)
	assert.Equal(t, []model.Edge{model.EdgeTop, model.EdgeLeft}, job.EdgeBanding.Edges)
	assert.Equal(t, "PVC", job.EdgeBanding.Material)
	assert.Equal(t, 0.5, job.EdgeBanding.Thickness)
	assert.True(t, job.EdgeBanding.TrimRequired)

	assert.Equal(t, 5*time.Minute, job.SetupTime)
	assert.Equal(t, 6*time.Minute, job.EdgeBandingTime)
	assert.InDelta(t, 4.16, job.MachiningTime.Seconds(), 1e-6)
	assert.Equal(t, job.SetupTime+job.MachiningTime+job.EdgeBandingTime, job.TotalTime)
}

func TestGenerate_NoBandingNoSequence(t *testing.T) {
	job, err := newTestGenerator().Generate(panel("Back"))
	require.NoError(t, err)
	assert.Nil(t, job.EdgeBanding)
	assert.Equal(t, time.Duration(0), job.EdgeBandingTime)
	assert.Equal(t, SetupTime, job.TotalTime)
}

func TestGenerate_DoesNotMutateComponent(t *testing.T) {
	c := panel("Side")
	c.Grooves = []model.Groove{{Type: model.GrooveDado, Orientation: model.Horizontal, Y: 100, Length: 560, Depth: 6}}
	before := c.Grooves[0]

	job, err := newTestGenerator().Generate(c)
	require.NoError(t, err)
	job.Operations[0].Path[0].X = 999
	assert.Equal(t, before, c.Grooves[0])
	assert.Equal(t, 0.0, job.RoutingPaths[0].Path[0].X)
}

func TestGenerate_CabinetComponents(t *testing.T) {
	design := model.CabinetDesign{
		Name:        "Base 600",
		Dimensions:  model.Dimensions{Width: 600, Height: 720, Depth: 560, Thickness: 18},
		Style:       model.StyleInset,
		DoorCount:   2,
		ShelfCount:  1,
		IncludeBack: true,
		Material:    "Melamine",
	}
	items, err := cutlist.Generate(design)
	require.NoError(t, err)

	g := newTestGenerator()
	for _, c := range cutlist.Components(design, items, cutlist.Options{Contour: true}) {
		job, err := g.Generate(c)
		require.NoError(t, err, c.Name)
		assert.Empty(t, job.Warnings, c.Name)
		assert.Equal(t, 1, job.OperationCount(model.OpContour), c.Name)
		assert.Greater(t, job.TotalTime, job.SetupTime)
	}
}
