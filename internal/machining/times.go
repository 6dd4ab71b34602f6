package machining

import (
	"time"

	"github.com/piwi3910/CaseCut/internal/model"
)

// Fixed allowances used by the time model.
const (
	SetupTime          = 5 * time.Minute
	EdgeBandingPerEdge = 3 * time.Minute
	DrillDwell         = 2 * time.Second
	PassOverhead       = 3 * time.Second // Retract and reposition between passes
)

// minutes converts a fractional minute count to a Duration.
func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

// DrillTime estimates one peck: plunge at the tool's plunge rate, retract at
// twice that, plus a dwell.
func DrillTime(depth float64, t model.Tool) time.Duration {
	if t.PlungeRate <= 0 {
		return DrillDwell
	}
	return minutes(depth/t.PlungeRate) + minutes(depth/(2*t.PlungeRate)) + DrillDwell
}

// RouteTime estimates a multi-pass toolpath of the given per-pass length.
func RouteTime(length, depth float64, passes int, t model.Tool) time.Duration {
	if passes < 1 {
		passes = 1
	}
	p := float64(passes)
	var d time.Duration
	if t.FeedRate > 0 {
		d += minutes(length / t.FeedRate * p)
	}
	if t.PlungeRate > 0 {
		d += minutes(p * (depth / p) / t.PlungeRate)
	}
	return d + time.Duration(passes)*PassOverhead
}

// aggregateTimes fills the job's time totals from its operations and edge
// banding.
func aggregateTimes(job *model.ManufacturingJob) {
	job.SetupTime = SetupTime
	job.MachiningTime = 0
	for _, op := range job.Operations {
		job.MachiningTime += op.EstimatedTime
	}
	job.EdgeBandingTime = 0
	if job.EdgeBanding != nil {
		job.EdgeBandingTime = time.Duration(len(job.EdgeBanding.Edges)) * EdgeBandingPerEdge
	}
	job.TotalTime = job.SetupTime + job.MachiningTime + job.EdgeBandingTime
}
