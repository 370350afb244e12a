// Package world holds the occupancy grid and the observer standing in it.
package world

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrOutOfBounds is returned when a grid coordinate falls outside the world.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Pose is the observer's continuous position (in grid units) and facing angle
// (in radians). The angle is never wrapped.
type Pose struct {
	Pos   r2.Vec
	Angle float64
}

// X returns the horizontal position.
func (p Pose) X() float64 { return p.Pos.X }

// Y returns the vertical position.
func (p Pose) Y() float64 { return p.Pos.Y }

// Direction returns the unit vector the pose is facing.
func (p Pose) Direction() r2.Vec {
	return r2.Vec{X: math.Cos(p.Angle), Y: math.Sin(p.Angle)}
}

// World is a fixed-size occupancy grid plus the observer's pose.
type World struct {
	width  int
	height int
	blocks []bool // row-major, blocks[y*width+x]
	pose   Pose

	revision uint64
}

// New creates an all-free world of the given dimensions with the observer at
// the origin facing angle 0.
func New(width, height int) *World {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &World{
		width:  width,
		height: height,
		blocks: make([]bool, width*height),
	}
}

// Width returns the number of columns in the grid.
func (w *World) Width() int { return w.width }

// Height returns the number of rows in the grid.
func (w *World) Height() int { return w.height }

func (w *World) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.width && y < w.height
}

func (w *World) boundsError(x, y int) error {
	return fmt.Errorf("%w: (%d, %d) for world with width %d and height %d",
		ErrOutOfBounds, x, y, w.width, w.height)
}

// BlockAt reports whether the cell at (x, y) is occupied.
func (w *World) BlockAt(x, y int) (bool, error) {
	if !w.inBounds(x, y) {
		return false, w.boundsError(x, y)
	}
	return w.blocks[y*w.width+x], nil
}

// SetBlock marks the cell at (x, y) as occupied or free.
func (w *World) SetBlock(x, y int, occupied bool) error {
	if !w.inBounds(x, y) {
		return w.boundsError(x, y)
	}
	if w.blocks[y*w.width+x] != occupied {
		w.blocks[y*w.width+x] = occupied
		w.revision++
	}
	return nil
}

// Revision changes whenever SetBlock changes a cell. Observer moves do not
// change it.
func (w *World) Revision() uint64 { return w.revision }

// EachBlock calls fn for every occupied cell in row-major order.
func (w *World) EachBlock(fn func(x, y int)) {
	for i, occupied := range w.blocks {
		if occupied {
			fn(i%w.width, i/w.width)
		}
	}
}

// Rotate turns the observer by delta radians. Positive values turn toward
// increasing y.
func (w *World) Rotate(delta float64) {
	w.pose.Angle += delta
}

// MoveBy translates the observer along its facing direction. Negative amounts
// move backward. No collision test is made.
func (w *World) MoveBy(amount float64) {
	w.pose.Pos = r2.Add(w.pose.Pos, r2.Scale(amount, w.pose.Direction()))
}

// SetPose places the observer.
func (w *World) SetPose(p Pose) {
	w.pose = p
}

// Pose returns a snapshot of the observer's pose.
func (w *World) Pose() Pose { return w.pose }

// X returns the observer's horizontal position.
func (w *World) X() float64 { return w.pose.Pos.X }

// Y returns the observer's vertical position.
func (w *World) Y() float64 { return w.pose.Pos.Y }

// Angle returns the observer's facing angle in radians.
func (w *World) Angle() float64 { return w.pose.Angle }
