package projection

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"chosenoffset.com/raycaster/internal/core/raycast"
	"chosenoffset.com/raycaster/internal/world"
)

const fov60 = 60 * math.Pi / 180

func ringWorld(t *testing.T, size int) *world.World {
	t.Helper()
	w := world.New(size, size)
	for i := 0; i < size; i++ {
		require.NoError(t, w.SetBlock(i, 0, true))
		require.NoError(t, w.SetBlock(i, size-1, true))
		require.NoError(t, w.SetBlock(0, i, true))
		require.NoError(t, w.SetBlock(size-1, i, true))
	}
	return w
}

func centerPose() world.Pose {
	return world.Pose{Pos: r2.Vec{X: 5, Y: 5}}
}

func TestNewProjectorValidation(t *testing.T) {
	tests := []struct {
		name    string
		fov     float64
		columns int
		height  float64
	}{
		{"zero columns", fov60, 0, 100},
		{"negative columns", fov60, -4, 100},
		{"zero height", fov60, 10, 0},
		{"NaN height", fov60, 10, math.NaN()},
		{"zero fov", 0, 10, 100},
		{"full circle fov", 2 * math.Pi, 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProjector(tt.fov, tt.columns, tt.height)
			assert.ErrorIs(t, err, ErrInvalidProjection)
		})
	}

	p, err := NewProjector(fov60, 100, 300)
	require.NoError(t, err)
	assert.Equal(t, 300.0, p.MaxSliceHeight)
	assert.Equal(t, 0, p.Workers)
}

func TestCenterColumnHasNoFisheyeCorrection(t *testing.T) {
	w := ringWorld(t, 10)
	p, err := NewProjector(fov60, 100, 300)
	require.NoError(t, err)

	c := p.Column(w, centerPose(), 50)
	assert.Zero(t, c.Offset)
	assert.Equal(t, c.Distance, c.Corrected)
	assert.True(t, scalar.EqualWithinAbs(c.Distance, 4, 1e-9))
	assert.True(t, scalar.EqualWithinAbs(c.Height, 75, 1e-9))
	assert.True(t, scalar.EqualWithinAbs(c.Margin, 112.5, 1e-9))

	top, bottom := c.Span(300)
	assert.Equal(t, 112, top)
	assert.Equal(t, 188, bottom)

	near := p.Column(w, centerPose(), 49)
	assert.Less(t, math.Abs(near.Offset), fov60/100+1e-12)
	assert.True(t, scalar.EqualWithinAbs(near.Corrected, near.Distance, 1e-3))
}

func TestOffsetsSweepAcrossFOV(t *testing.T) {
	p, err := NewProjector(fov60, 100, 300)
	require.NoError(t, err)

	assert.True(t, scalar.EqualWithinAbs(p.OffsetAngle(0), -fov60/2, 1e-12))
	assert.True(t, scalar.EqualWithinAbs(p.OffsetAngle(100), fov60/2, 1e-12))
	for i := 1; i < 100; i++ {
		assert.Greater(t, p.OffsetAngle(i), p.OffsetAngle(i-1))
	}
}

func TestFisheyeCorrectionFlattensWall(t *testing.T) {
	// Facing a straight wall, every corrected distance equals the
	// perpendicular distance to it.
	w := ringWorld(t, 40)
	p, err := NewProjector(fov60, 64, 200)
	require.NoError(t, err)

	pose := world.Pose{Pos: r2.Vec{X: 20, Y: 20}}
	cols, err := p.Project(context.Background(), w, pose)
	require.NoError(t, err)
	for _, c := range cols {
		assert.True(t, scalar.EqualWithinAbs(c.Corrected, 19, 1e-6), "offset %v corrected %v", c.Offset, c.Corrected)
		assert.GreaterOrEqual(t, c.Distance, c.Corrected)
	}
}

func TestZeroDistanceClampsHeight(t *testing.T) {
	w := world.New(4, 4)
	require.NoError(t, w.SetBlock(2, 1, true))

	p, err := NewProjector(fov60, 10, 120)
	require.NoError(t, err)

	// Standing on the wall's left edge, facing it.
	c := p.Column(w, world.Pose{Pos: r2.Vec{X: 2, Y: 1.5}}, 5)
	assert.Zero(t, c.Distance)
	assert.Equal(t, 120.0, c.Height)
	assert.Zero(t, c.Margin)

	p.MaxSliceHeight = 1000
	c = p.Column(w, world.Pose{Pos: r2.Vec{X: 2, Y: 1.5}}, 5)
	assert.Equal(t, 1000.0, c.Height)
	assert.Zero(t, c.Margin, "margin never goes negative")
}

func TestFarWallsAreShorter(t *testing.T) {
	w := ringWorld(t, 20)
	p, err := NewProjector(fov60, 20, 400)
	require.NoError(t, err)

	near := p.Column(w, world.Pose{Pos: r2.Vec{X: 15, Y: 10}}, 10)
	far := p.Column(w, world.Pose{Pos: r2.Vec{X: 3, Y: 10}}, 10)
	assert.Greater(t, near.Height, far.Height)
	assert.Less(t, near.Margin, far.Margin)
}

func TestParallelMatchesSequential(t *testing.T) {
	w := ringWorld(t, 30)
	for i := 5; i < 15; i++ {
		require.NoError(t, w.SetBlock(i, i+10, true))
		require.NoError(t, w.SetBlock(i+10, i, true))
	}
	pose := world.Pose{Pos: r2.Vec{X: 12.3, Y: 7.9}, Angle: 0.8}

	seq, err := NewProjector(fov60, 333, 600)
	require.NoError(t, err)
	par := *seq
	par.Workers = 7

	want, err := seq.Project(context.Background(), w, pose)
	require.NoError(t, err)
	got, err := par.Project(context.Background(), w, pose)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("parallel projection mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectIntoReusesBuffer(t *testing.T) {
	w := ringWorld(t, 10)
	p, err := NewProjector(fov60, 16, 100)
	require.NoError(t, err)

	buf := make([]Column, 0, 32)
	out, err := p.ProjectInto(context.Background(), buf, w, centerPose())
	require.NoError(t, err)
	require.Len(t, out, 16)
	assert.Equal(t, &buf[:1][0], &out[0])
}

func TestRaysMatchCasts(t *testing.T) {
	w := ringWorld(t, 10)
	p, err := NewProjector(fov60, 100, 300)
	require.NoError(t, err)

	pose := world.Pose{Pos: r2.Vec{X: 4.5, Y: 6.25}, Angle: 2}
	rays := p.Rays(w, pose, 12)
	require.Len(t, rays, 12)

	assert.True(t, scalar.EqualWithinAbs(rays[0].Angle, 2-fov60/2, 1e-12))
	for _, r := range rays {
		assert.Less(t, r.Angle, 2+fov60/2)
		want := raycast.Cast(w, pose.X(), pose.Y(), r.Angle)
		assert.Equal(t, want, r.Distance)
		assert.Equal(t, raycast.CastRay(w, pose.Pos, r.Angle).Point, r.End)
		assert.True(t, scalar.EqualWithinAbs(r2.Norm(r2.Sub(r.End, pose.Pos)), r.Distance, 1e-9))
	}

	assert.Nil(t, p.Rays(w, pose, 0))
}

func TestProjectStopsWhenCancelled(t *testing.T) {
	w := ringWorld(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		p, err := NewProjector(fov60, 64, 100)
		require.NoError(t, err)
		p.Workers = workers

		_, err = p.Project(ctx, w, centerPose())
		assert.ErrorIs(t, err, context.Canceled, "workers %d", workers)
	}
}
