// Package raycast finds the distance from a point to the nearest occupied cell
// of an occupancy grid along a ray.
//
// A cast runs two DDA-style sweeps: one stepping across vertical grid lines
// (x = integer) and one across horizontal grid lines (y = integer). Each sweep
// stops at the first line whose cell ahead is occupied, or when the ray leaves
// the grid. The nearer of the two stopping points is the hit.
package raycast

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the magnitude below which a direction component is treated as
// exactly zero. Axis-aligned rays skip the sweep that would divide by it.
const Epsilon = 1e-12

// Grid is the read-only view of an occupancy grid the caster needs.
type Grid interface {
	Width() int
	Height() int
	BlockAt(x, y int) (bool, error)
}

// Hit is where a cast stopped.
type Hit struct {
	Point    r2.Vec
	Distance float64
}

// Cast returns the distance from (x, y) along angle (radians) to the nearest
// occupied cell edge, or to the point where the ray leaves the grid. The result
// is always finite and non-negative.
func Cast(g Grid, x, y, angle float64) float64 {
	return CastRay(g, r2.Vec{X: x, Y: y}, angle).Distance
}

// CastRay is Cast, also returning the stopping point.
func CastRay(g Grid, origin r2.Vec, angle float64) Hit {
	if !finite(origin.X) || !finite(origin.Y) || !finite(angle) {
		return Hit{Point: origin}
	}

	cos, sin := math.Cos(angle), math.Sin(angle)
	if math.Abs(cos) < Epsilon {
		cos = 0
	}
	if math.Abs(sin) < Epsilon {
		sin = 0
	}

	width, height := g.Width(), g.Height()
	best := Hit{Point: origin, Distance: math.Inf(1)}

	if cos != 0 {
		// Vertical grid lines: x is the stepped axis.
		m, c, d := sweep(origin.X, origin.Y, cos, sin, width, height, func(cell, row int) bool {
			return occupied(g, cell, row)
		})
		if d < best.Distance {
			best = Hit{Point: r2.Vec{X: m, Y: c}, Distance: d}
		}
	}

	if sin != 0 {
		// Horizontal grid lines: y is the stepped axis.
		m, c, d := sweep(origin.Y, origin.X, sin, cos, height, width, func(row, cell int) bool {
			return occupied(g, cell, row)
		})
		if d < best.Distance {
			best = Hit{Point: r2.Vec{X: c, Y: m}, Distance: d}
		}
	}

	// Unreachable for finite angles since cos and sin cannot both vanish.
	if math.IsInf(best.Distance, 1) {
		return Hit{Point: origin}
	}
	return best
}

// sweep walks the grid lines perpendicular to the main axis. om/oc are the
// origin's main and cross coordinates, dm/dc the direction components (dm is
// non-zero). mainLimit/crossLimit are the grid extents along each axis.
// It returns the stopping point and its distance from the origin.
func sweep(om, oc, dm, dc float64, mainLimit, crossLimit int, blocked func(mainCell, crossCell int) bool) (float64, float64, float64) {
	step := 1.0
	m := math.Ceil(om)
	if dm < 0 {
		step = -1
		m = math.Floor(om)
	}

	slope := dc / dm
	c := oc + slope*(m-om)
	cStep := slope * step

	mainMax, crossMax := float64(mainLimit), float64(crossLimit)

	// m moves by exactly one unit per iteration, so the loop runs at most
	// mainLimit+1 times.
	for m >= 0 && m < mainMax && c >= 0 && c < crossMax {
		cell := int(m)
		if step < 0 {
			cell--
		}
		if cell < 0 {
			break
		}
		if blocked(cell, int(c)) {
			break
		}
		m += step
		c += cStep
	}

	return m, c, math.Hypot(m-om, c-oc)
}

// occupied treats a failed lookup as solid so a sweep can never walk past it.
func occupied(g Grid, x, y int) bool {
	block, err := g.BlockAt(x, y)
	if err != nil {
		return true
	}
	return block
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
