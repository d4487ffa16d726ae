// Package profile builds 2D section-view surface profiles by sampling
// elevation surfaces along a section line.
//
// A trace is the raw sample run in map space; gaps (positions where the
// surface has no data) split the trace into parts, and each part becomes
// one profile polyline in display space with summary elevation statistics.
package profile

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/strata-data/xsection/internal/geometry"
	"github.com/strata-data/xsection/internal/section"
)

// sampleEpsilon merges stations closer together than this when the
// interval grid and the line's own vertices nearly coincide.
const sampleEpsilon = 1e-9

// Sample is one sampled elevation along the section line.
type Sample struct {
	// Measure is the arc length from the line's first vertex.
	Measure float64

	// Point is the sample's map position on the line.
	Point geometry.Point

	// Z is the surface elevation at Point. NaN marks a gap.
	Z float64
}

// Trace is the ordered sample run for one surface along one line.
type Trace struct {
	Surface string
	Samples []Sample
}

// Stats summarises the elevations of one profile part.
type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Count  int     `json:"count"`
}

// Profile is one drawable section-view polyline for a surface. Surfaces
// interrupted by gaps produce several parts, numbered from zero in station
// order.
type Profile struct {
	Surface string                   `json:"surface"`
	Part    int                      `json:"part"`
	Points  []section.ProjectedPoint `json:"points"`
	Stats   Stats                    `json:"stats"`
}

// SampleLine walks the section line at the given ground-unit interval and
// samples the surface at every step and at every line vertex. Interval
// must be positive and no larger than the line.
func SampleLine(s Surface, line section.Line, interval float64) (Trace, error) {
	if err := line.Validate(); err != nil {
		return Trace{}, err
	}
	length := line.Length()
	if interval <= 0 || math.IsNaN(interval) {
		return Trace{}, fmt.Errorf("sample interval must be positive, got %g", interval)
	}
	if interval > length {
		return Trace{}, fmt.Errorf("sample interval %g exceeds line length %g", interval, length)
	}

	measures := []float64{0}
	for m := interval; m < length; m += interval {
		measures = append(measures, m)
	}
	measures = append(measures, length)

	// Vertex measures keep sharp bends in the trace even when the
	// interval strides past them.
	var cum float64
	for i := 1; i < len(line.Vertices)-1; i++ {
		cum += line.Vertices[i-1].DistanceTo(line.Vertices[i])
		measures = append(measures, cum)
	}
	sort.Float64s(measures)

	trace := Trace{Surface: s.Name()}
	var last float64
	for i, m := range measures {
		if i > 0 && m-last <= sampleEpsilon {
			continue
		}
		last = m
		pt, err := geometry.PointAtMeasure(line.Vertices, m)
		if err != nil {
			return Trace{}, fmt.Errorf("sample at measure %g: %w", m, err)
		}
		z, ok := s.ElevationAt(pt)
		if !ok {
			z = math.NaN()
		}
		trace.Samples = append(trace.Samples, Sample{Measure: m, Point: pt, Z: z})
	}
	return trace, nil
}

// Build converts a trace into display-space profiles, splitting at gaps.
// Parts with fewer than two samples cannot form a polyline and are
// dropped.
func Build(proj *section.Projector, trace Trace) []Profile {
	var profiles []Profile
	var run []Sample
	flush := func() {
		if len(run) >= 2 {
			profiles = append(profiles, buildPart(proj, trace.Surface, run))
		}
		run = nil
	}
	for _, s := range trace.Samples {
		if math.IsNaN(s.Z) {
			flush()
			continue
		}
		run = append(run, s)
	}
	flush()

	// Parts come out ordered by measure; renumber in station order so
	// part zero is always the westernmost piece, whichever end the line
	// was digitised from.
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Points[0].X < profiles[j].Points[0].X
	})
	for i := range profiles {
		profiles[i].Part = i
		id := fmt.Sprintf("%s/%d", trace.Surface, i)
		for j := range profiles[i].Points {
			profiles[i].Points[j].FeatureID = id
		}
	}
	return profiles
}

func buildPart(proj *section.Projector, surface string, run []Sample) Profile {
	points := make([]section.ProjectedPoint, 0, len(run))
	zs := make([]float64, 0, len(run))
	for _, s := range run {
		station := proj.StationAtMeasure(s.Measure)
		points = append(points, section.ProjectedPoint{
			X:       proj.DisplayX(station),
			Y:       s.Z,
			Station: station,
		})
		zs = append(zs, s.Z)
	}

	// Display order runs west to east; a line digitised from the east
	// comes out reversed.
	sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })

	return Profile{
		Surface: surface,
		Points:  points,
		Stats:   summarise(zs),
	}
}

func summarise(zs []float64) Stats {
	if len(zs) == 0 {
		return Stats{}
	}
	sorted := make([]float64, len(zs))
	copy(sorted, zs)
	sort.Float64s(sorted)

	return Stats{
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   stat.Mean(sorted, nil),
		StdDev: stdDevOrZero(sorted),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Count:  len(sorted),
	}
}

// stdDevOrZero avoids the NaN gonum returns for a single sample.
func stdDevOrZero(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// FromSurfaces samples every surface along the line and builds its
// profiles, concatenated in input surface order.
func FromSurfaces(proj *section.Projector, surfaces []Surface, interval float64) ([]Profile, error) {
	var out []Profile
	for _, s := range surfaces {
		trace, err := SampleLine(s, proj.Line(), interval)
		if err != nil {
			return nil, fmt.Errorf("surface %s: %w", s.Name(), err)
		}
		out = append(out, Build(proj, trace)...)
	}
	return out, nil
}
