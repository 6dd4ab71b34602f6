package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeBandingString(t *testing.T) {
	tests := []struct {
		eb   EdgeBanding
		want string
	}{
		{BandAll(), "all"},
		{BandFront(), "front"},
		{EdgeBanding{}, "none"},
		{EdgeBanding{Top: true, Left: true}, "top,left"},
		{EdgeBanding{Bottom: true, Right: true}, "bottom,right"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.eb.String())
		assert.Equal(t, tt.eb, ParseEdgeBanding(tt.want), "round trip %q", tt.want)
	}
}

func TestParseEdgeBandingShortForm(t *testing.T) {
	assert.Equal(t, EdgeBanding{Top: true, Bottom: true, Left: true}, ParseEdgeBanding("T+B+L"))
	assert.Equal(t, EdgeBanding{}, ParseEdgeBanding(""))
}

func TestEdgeBandingEdgesOrder(t *testing.T) {
	e := EdgeBanding{Right: true, Top: true, Bottom: true}
	assert.Equal(t, []Edge{EdgeTop, EdgeBottom, EdgeRight}, e.Edges())
	assert.Equal(t, 3, e.EdgeCount())
	assert.Equal(t, 100.0+100.0+50.0, e.LinearLength(100, 50))
}

func TestNewEdgeBandingSequence(t *testing.T) {
	assert.Nil(t, NewEdgeBandingSequence(EdgeBanding{}))

	seq := NewEdgeBandingSequence(EdgeBanding{Top: true, Left: true})
	require.NotNil(t, seq)
	assert.Equal(t, []Edge{EdgeTop, EdgeLeft}, seq.Edges)
	assert.Equal(t, "PVC", seq.Material)
	assert.Equal(t, 0.5, seq.Thickness)
	assert.True(t, seq.TrimRequired)
}

func TestCalculateEdgeBanding(t *testing.T) {
	items := []CutListItem{
		{Name: "Side", Width: 560, Height: 720, Thickness: 18, Quantity: 2, EdgeBanding: BandFront()},
		{Name: "Back", Width: 564, Height: 684, Thickness: 9, Quantity: 1},
		{Name: "Door", Width: 596, Height: 712, Thickness: 18, Quantity: 1, EdgeBanding: BandAll()},
	}
	sum := CalculateEdgeBanding(items, 10)

	wantMM := 560.0*2 + (596*2 + 712*2)
	assert.InDelta(t, wantMM, sum.TotalLinearMM, 1e-9)
	assert.InDelta(t, wantMM/1000, sum.TotalLinearM, 1e-9)
	assert.Equal(t, 3, sum.PartCount)
	assert.Equal(t, 2+4, sum.EdgeCount)
	assert.GreaterOrEqual(t, sum.TotalWithWasteMM, wantMM*1.1)

	per := CalculatePerItemEdgeBanding(items)
	require.Len(t, per, 2)
	assert.Equal(t, "front", per[0].Edges)
	assert.Equal(t, 1120.0, per[0].TotalLength)
}
