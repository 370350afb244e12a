// Package projection turns a fan of ray casts into the per-column slice heights
// of a flat pseudo-3D view.
package projection

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"chosenoffset.com/raycaster/internal/core/raycast"
	"chosenoffset.com/raycaster/internal/world"
)

// MinDistance is the corrected distance at or below which a slice is drawn at
// MaxSliceHeight instead of dividing by (nearly) zero.
const MinDistance = 1e-9

// ErrInvalidProjection is returned by NewProjector for unusable parameters.
var ErrInvalidProjection = errors.New("invalid projection")

// Column is one vertical slice of the projected view.
type Column struct {
	Offset    float64 // angle from the view direction, radians
	Angle     float64 // absolute ray angle, radians
	Distance  float64 // raw cast distance
	Corrected float64 // Distance * cos(Offset)
	Height    float64 // slice height in screen rows
	Margin    float64 // blank rows above and below the slice
}

// Span returns the first and last screen rows covered by the slice.
func (c Column) Span(screenHeight int) (top, bottom int) {
	top = int(c.Margin)
	bottom = screenHeight - top
	return top, bottom
}

// Ray is one line of the debug ray fan.
type Ray struct {
	Angle    float64
	Distance float64
	End      r2.Vec
}

// Projector maps casts to columns.
type Projector struct {
	FOV            float64 // field of view, radians
	Columns        int
	ScreenHeight   float64
	MaxSliceHeight float64
	// Workers > 1 casts columns concurrently.
	Workers int
}

// NewProjector validates its inputs and clamps slices to the screen height.
func NewProjector(fov float64, columns int, screenHeight float64) (*Projector, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidProjection, columns)
	}
	if !(screenHeight > 0) || math.IsInf(screenHeight, 0) {
		return nil, fmt.Errorf("%w: screen height must be positive, got %v", ErrInvalidProjection, screenHeight)
	}
	if !(fov > 0 && fov < 2*math.Pi) {
		return nil, fmt.Errorf("%w: field of view must be in (0, 2π), got %v", ErrInvalidProjection, fov)
	}
	return &Projector{
		FOV:            fov,
		Columns:        columns,
		ScreenHeight:   screenHeight,
		MaxSliceHeight: screenHeight,
	}, nil
}

// OffsetAngle returns the angle of column i relative to the view direction.
func (p *Projector) OffsetAngle(i int) float64 {
	return p.FOV * (float64(i)/float64(p.Columns) - 0.5)
}

// Column computes a single column. It only reads g and pose.
func (p *Projector) Column(g raycast.Grid, pose world.Pose, i int) Column {
	offset := p.OffsetAngle(i)
	angle := pose.Angle + offset
	dist := raycast.Cast(g, pose.X(), pose.Y(), angle)
	corrected := dist * math.Cos(offset)

	height := p.sliceHeight(corrected)
	margin := math.Max(0, (p.ScreenHeight-height)/2)

	return Column{
		Offset:    offset,
		Angle:     angle,
		Distance:  dist,
		Corrected: corrected,
		Height:    height,
		Margin:    margin,
	}
}

func (p *Projector) sliceHeight(corrected float64) float64 {
	limit := p.MaxSliceHeight
	if limit <= 0 {
		limit = p.ScreenHeight
	}
	if corrected <= MinDistance {
		return limit
	}
	return math.Min(p.ScreenHeight/corrected, limit)
}

// Project computes every column for the given pose.
func (p *Projector) Project(ctx context.Context, g raycast.Grid, pose world.Pose) ([]Column, error) {
	return p.ProjectInto(ctx, nil, g, pose)
}

// ProjectInto is Project reusing dst when it has enough capacity. It stops
// early with ctx's error once ctx is done; dst is then only partly filled.
func (p *Projector) ProjectInto(ctx context.Context, dst []Column, g raycast.Grid, pose world.Pose) ([]Column, error) {
	if p.Columns <= 0 {
		return dst[:0], nil
	}
	if cap(dst) < p.Columns {
		dst = make([]Column, p.Columns)
	}
	dst = dst[:p.Columns]

	if p.Workers <= 1 {
		return dst, p.fill(ctx, dst, g, pose, 0, p.Columns)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.Workers)
	chunk := (p.Columns + p.Workers - 1) / p.Workers
	for start := 0; start < p.Columns; start += chunk {
		start, end := start, min(start+chunk, p.Columns)
		eg.Go(func() error {
			return p.fill(ctx, dst, g, pose, start, end)
		})
	}
	return dst, eg.Wait()
}

func (p *Projector) fill(ctx context.Context, dst []Column, g raycast.Grid, pose world.Pose, start, end int) error {
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst[i] = p.Column(g, pose, i)
	}
	return nil
}

// Rays casts count evenly spaced rays across the field of view, starting at
// the left edge. They are meant for drawing the overhead debug view.
func (p *Projector) Rays(g raycast.Grid, pose world.Pose, count int) []Ray {
	if count <= 0 {
		return nil
	}
	rays := make([]Ray, 0, count)
	step := p.FOV / float64(count)
	start := pose.Angle - p.FOV/2
	for i := 0; i < count; i++ {
		angle := start + float64(i)*step
		hit := raycast.CastRay(g, pose.Pos, angle)
		rays = append(rays, Ray{
			Angle:    angle,
			Distance: hit.Distance,
			End:      hit.Point,
		})
	}
	return rays
}
