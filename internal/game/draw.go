package game

import (
	"fmt"
	"image/color"

	"chosenoffset.com/raycaster/internal/render"
)

var (
	colorBackground = color.Black
	colorBlock      = color.RGBA{G: 0xff, A: 0xff}
	colorRay        = color.RGBA{G: 0x80, A: 0xff}
	colorSlice      = color.RGBA{B: 0xff, A: 0xff}
	colorObserver   = color.RGBA{R: 0xff, A: 0xff}
	colorText       = color.White
	colorHUD        = color.RGBA{A: 0xc0}
)

const hudPadding = 4

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	if g.Renderer == nil {
		return
	}
	screen.Fill(colorBackground)

	frame := g.frame
	screen.DrawImage(g.mapSurface(), nil)
	if g.ShowRays {
		g.drawRays(screen, frame)
	}
	g.drawObserver(screen, frame)
	g.drawSlices(screen, frame)
	g.drawHUD(screen, frame)
}

func (g *Game) blockSize() float32 {
	return float32(g.Config.World.BlockSize)
}

// mapSurface returns the overhead map with every block outlined, redrawing it
// only after the grid or the pane size changed.
func (g *Game) mapSurface() render.Image {
	revision := g.World.Revision()
	if g.mapLayer != nil {
		w, h := g.mapLayer.Size()
		if revision == g.mapRevision && w == g.PaneWidth && h == g.PaneHeight {
			return g.mapLayer
		}
		g.mapLayer.Dispose()
	}

	layer := g.Renderer.NewImage(g.PaneWidth, g.PaneHeight)
	layer.Clear()
	size := g.blockSize()
	g.World.EachBlock(func(x, y int) {
		g.Renderer.StrokeRect(layer, float32(x)*size, float32(y)*size, size, size, 1, colorBlock)
	})
	g.mapLayer, g.mapRevision = layer, revision
	return layer
}

func (g *Game) drawRays(screen render.Image, frame Frame) {
	size := g.blockSize()
	x0 := float32(frame.Pose.X()) * size
	y0 := float32(frame.Pose.Y()) * size
	for _, ray := range frame.Rays {
		g.Renderer.StrokeLine(screen, x0, y0, float32(ray.End.X)*size, float32(ray.End.Y)*size, 1, colorRay)
	}
}

func (g *Game) drawObserver(screen render.Image, frame Frame) {
	size := g.blockSize()
	x := (float32(frame.Pose.X()) - 0.5) * size
	y := (float32(frame.Pose.Y()) - 0.5) * size
	g.Renderer.StrokeRect(screen, x, y, size, size, 1, colorObserver)
}

// drawSlices draws one vertical line per column in the right-hand pane.
func (g *Game) drawSlices(screen render.Image, frame Frame) {
	if len(frame.Columns) == 0 {
		return
	}
	offset := float32(g.PaneWidth)
	colWidth := float32(g.PaneWidth) / float32(len(frame.Columns))
	for i, col := range frame.Columns {
		top, bottom := col.Span(g.PaneHeight)
		x := offset + float32(i)*colWidth
		g.Renderer.StrokeLine(screen, x, float32(top), x, float32(bottom), colWidth, colorSlice)
	}
}

func (g *Game) drawHUD(screen render.Image, frame Frame) {
	text := fmt.Sprintf("x %.2f  y %.2f  angle %.2f  ahead %.2f",
		frame.Pose.X(), frame.Pose.Y(), frame.Pose.Angle, frame.Forward)
	w, h := g.Renderer.MeasureText(text, 1)

	// Top-right corner of the projection pane, on a dark box
	x := screen.Bounds().Max.X - w - 2*hudPadding
	y := 2 * hudPadding
	g.Renderer.FillRect(screen, float32(x-hudPadding), float32(y-hudPadding),
		float32(w+2*hudPadding), float32(h+2*hudPadding), colorHUD)
	g.Renderer.DrawText(screen, text, x, y, colorText, 1)
}
