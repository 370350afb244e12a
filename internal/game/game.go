package game

import (
	"context"
	"fmt"

	"chosenoffset.com/raycaster/internal/config"
	"chosenoffset.com/raycaster/internal/core/projection"
	"chosenoffset.com/raycaster/internal/core/raycast"
	"chosenoffset.com/raycaster/internal/render"
	"chosenoffset.com/raycaster/internal/world"
)

// DistanceObserver is told the forward cast distance every frame.
type DistanceObserver interface {
	Observe(distance float64)
}

// Game holds the world and turns input into projected frames.
type Game struct {
	World     *world.World
	Projector *projection.Projector
	Config    *config.Config

	// Presentation (nil for frontends that draw frames themselves)
	Renderer render.Renderer
	InputMgr render.InputManager

	// Optional proximity listener
	Proximity DistanceObserver

	// Pane size in pixels; the window is two panes wide
	PaneWidth  int
	PaneHeight int

	ShowRays bool

	// Overhead map cache, rebuilt when the grid or pane size changes
	mapLayer    render.Image
	mapRevision uint64

	frame      Frame
	FrameCount int
}

// New creates a game whose projection covers a pane of paneWidth x paneHeight
// with one column per horizontal pixel.
func New(cfg *config.Config, w *world.World, paneWidth, paneHeight int) (*Game, error) {
	p, err := projection.NewProjector(cfg.FOV(), paneWidth, float64(paneHeight))
	if err != nil {
		return nil, fmt.Errorf("failed to create projector: %w", err)
	}
	p.Workers = cfg.View.Workers

	return &Game{
		World:      w,
		Projector:  p,
		Config:     cfg,
		PaneWidth:  paneWidth,
		PaneHeight: paneHeight,
		ShowRays:   true,
	}, nil
}

// Resize rebuilds the projector for a new pane size, keeping the worker count.
func (g *Game) Resize(paneWidth, paneHeight int) error {
	p, err := projection.NewProjector(g.Config.FOV(), paneWidth, float64(paneHeight))
	if err != nil {
		return fmt.Errorf("failed to resize projector: %w", err)
	}
	p.Workers = g.Projector.Workers
	g.Projector = p
	g.PaneWidth, g.PaneHeight = paneWidth, paneHeight
	return nil
}

// Apply mutates the world for one intent. IntentQuit returns render.ErrQuit.
func (g *Game) Apply(intent Intent) error {
	switch intent {
	case IntentRotateLeft:
		g.World.Rotate(-g.Config.Controls.DeltaAngle)
	case IntentRotateRight:
		g.World.Rotate(g.Config.Controls.DeltaAngle)
	case IntentForward:
		g.World.MoveBy(g.Config.Controls.MoveSpeed)
	case IntentBack:
		g.World.MoveBy(-g.Config.Controls.MoveSpeed)
	case IntentToggleRays:
		g.ShowRays = !g.ShowRays
	case IntentQuit:
		return render.ErrQuit
	}
	return nil
}

// Step projects the current pose. Input must not be applied while a step runs.
// A cancelled ctx abandons the step; the frame's columns are then incomplete.
func (g *Game) Step(ctx context.Context) (Frame, error) {
	pose := g.World.Pose()

	columns, err := g.Projector.ProjectInto(ctx, g.frame.Columns, g.World, pose)
	g.frame.Columns = columns
	if err != nil {
		return g.frame, fmt.Errorf("failed to project frame: %w", err)
	}
	g.frame.Pose = pose
	g.frame.Forward = raycast.Cast(g.World, pose.X(), pose.Y(), pose.Angle)
	g.frame.Rays = nil
	if g.ShowRays {
		count := g.Config.View.DebugRays
		if count == 0 {
			count = g.Projector.Columns
		}
		g.frame.Rays = g.Projector.Rays(g.World, pose, count)
	}

	if g.Proximity != nil {
		g.Proximity.Observe(g.frame.Forward)
	}
	g.FrameCount++
	return g.frame, nil
}

// Frame returns the most recent step.
func (g *Game) Frame() Frame {
	return g.frame
}

// Intents reads the held and just-pressed keys into intents.
func (g *Game) Intents() []Intent {
	if g.InputMgr == nil {
		return nil
	}
	in := g.InputMgr
	var intents []Intent

	if in.IsKeyJustPressed(render.KeyEscape) || in.IsKeyJustPressed(render.KeyQ) {
		intents = append(intents, IntentQuit)
	}
	if in.IsKeyJustPressed(render.KeyTab) {
		intents = append(intents, IntentToggleRays)
	}
	if in.IsKeyPressed(render.KeyLeft) || in.IsKeyPressed(render.KeyA) {
		intents = append(intents, IntentRotateLeft)
	}
	if in.IsKeyPressed(render.KeyRight) || in.IsKeyPressed(render.KeyD) {
		intents = append(intents, IntentRotateRight)
	}
	if in.IsKeyPressed(render.KeyUp) || in.IsKeyPressed(render.KeyW) {
		intents = append(intents, IntentForward)
	}
	if in.IsKeyPressed(render.KeyDown) || in.IsKeyPressed(render.KeyS) {
		intents = append(intents, IntentBack)
	}
	return intents
}

// Update handles one tick: input, then projection.
func (g *Game) Update() error {
	for _, intent := range g.Intents() {
		if err := g.Apply(intent); err != nil {
			return err
		}
	}
	_, err := g.Step(context.Background())
	return err
}

// Layout returns a fixed size: overhead map on the left, projection on the right.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 2 * g.PaneWidth, g.PaneHeight
}
