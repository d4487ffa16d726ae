package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDegenerateLine indicates a polyline with fewer than two distinct
// vertices, which has no usable length or direction.
var ErrDegenerateLine = errors.New("degenerate polyline")

// crossingEpsilon bounds how close two crossings may sit along a line before
// they are treated as the same crossing. Adjacent segments sharing a vertex
// on the target line would otherwise report the vertex twice.
const crossingEpsilon = 1e-9

// Length returns the total arc length of the polyline.
func Length(pts []Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].DistanceTo(pts[i])
	}
	return total
}

// Measure is the result of projecting a point onto a polyline.
type Measure struct {
	// Distance is the along-line arc length from the first vertex to the
	// nearest point.
	Distance float64

	// Offset is the perpendicular distance from the input point to the
	// nearest point on the polyline.
	Offset float64

	// Closest is the nearest point on the polyline.
	Closest Point

	// Segment is the index of the segment holding Closest (0-based,
	// segment i spans vertices i and i+1).
	Segment int
}

// MeasureOnLine projects p onto the polyline and returns its linear
// reference: the arc length from the first vertex to the nearest point on
// the line, plus the offset distance. When two segments are equally near,
// the earlier segment wins, so results are deterministic for points on
// shared vertices.
func MeasureOnLine(pts []Point, p Point) (Measure, error) {
	if len(pts) < 2 {
		return Measure{}, fmt.Errorf("%w: need at least 2 vertices, got %d", ErrDegenerateLine, len(pts))
	}
	if Length(pts) == 0 {
		return Measure{}, fmt.Errorf("%w: zero total length", ErrDegenerateLine)
	}

	best := Measure{Offset: math.Inf(1)}
	var cum float64
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := a.DistanceTo(b)
		if segLen == 0 {
			continue
		}

		dir := b.Sub(a)
		t := p.Sub(a).Dot(dir) / (segLen * segLen)
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		closest := a.Add(dir.Scale(t))
		d := p.DistanceTo(closest)
		if d < best.Offset {
			best = Measure{
				Distance: cum + t*segLen,
				Offset:   d,
				Closest:  closest,
				Segment:  i - 1,
			}
		}
		cum += segLen
	}
	return best, nil
}

// PointAtMeasure returns the point at arc length m from the first vertex.
// Measures outside [0, Length] clamp to the nearer endpoint.
func PointAtMeasure(pts []Point, m float64) (Point, error) {
	if len(pts) < 2 {
		return Point{}, fmt.Errorf("%w: need at least 2 vertices, got %d", ErrDegenerateLine, len(pts))
	}
	if m <= 0 {
		return pts[0], nil
	}

	var cum float64
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := a.DistanceTo(b)
		if segLen == 0 {
			continue
		}
		if m <= cum+segLen {
			t := (m - cum) / segLen
			return a.Add(b.Sub(a).Scale(t)), nil
		}
		cum += segLen
	}
	return pts[len(pts)-1], nil
}

// DistanceTo returns the distance from p to the nearest point on the
// polyline.
func DistanceTo(pts []Point, p Point) (float64, error) {
	m, err := MeasureOnLine(pts, p)
	if err != nil {
		return 0, err
	}
	return m.Offset, nil
}

// Crossing is an intersection with a polyline, located both in map space
// and as an arc-length measure along that polyline.
type Crossing struct {
	Point   Point
	Measure float64
}

// Crossings returns every intersection between polylines a and b, ordered
// by measure along a. Collinear overlaps contribute their shared vertices
// only where segment endpoints touch; a segment of b lying exactly along a
// does not produce a continuum of crossings.
func Crossings(a, b []Point) []Crossing {
	var out []Crossing
	var cum float64
	for i := 1; i < len(a); i++ {
		p, q := a[i-1], a[i]
		segLen := p.DistanceTo(q)
		if segLen == 0 {
			continue
		}
		r := q.Sub(p)
		for j := 1; j < len(b); j++ {
			u, v := b[j-1], b[j]
			s := v.Sub(u)
			denom := r.Cross(s)
			if denom == 0 {
				continue // parallel or collinear
			}
			w := u.Sub(p)
			t := w.Cross(s) / denom
			g := w.Cross(r) / denom
			if t < 0 || t > 1 || g < 0 || g > 1 {
				continue
			}
			out = append(out, Crossing{
				Point:   p.Add(r.Scale(t)),
				Measure: cum + t*segLen,
			})
		}
		cum += segLen
	}
	return dedupeCrossings(out)
}

// EastingCrossings returns the points where the vertical line x = easting
// crosses the polyline, ordered by measure. A vertex exactly on the easting
// counts once; segments collinear with the easting are skipped.
func EastingCrossings(pts []Point, easting float64) []Crossing {
	var out []Crossing
	var cum float64
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := a.DistanceTo(b)
		if segLen == 0 {
			continue
		}
		d1 := a.X - easting
		d2 := b.X - easting
		if d1 == 0 && d2 == 0 {
			cum += segLen // runs along the easting
			continue
		}
		if d1*d2 <= 0 {
			t := d1 / (d1 - d2)
			out = append(out, Crossing{
				Point:   a.Add(b.Sub(a).Scale(t)),
				Measure: cum + t*segLen,
			})
		}
		cum += segLen
	}
	return dedupeCrossings(out)
}

// dedupeCrossings sorts by measure and drops crossings closer together than
// crossingEpsilon, keeping the first.
func dedupeCrossings(cs []Crossing) []Crossing {
	if len(cs) < 2 {
		return cs
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].Measure < cs[j].Measure })
	out := cs[:1]
	for _, c := range cs[1:] {
		if c.Measure-out[len(out)-1].Measure > crossingEpsilon {
			out = append(out, c)
		}
	}
	return out
}
