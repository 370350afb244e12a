// Package terminal draws projected frames on a character-cell screen.
//
// Every screen column is one projection column; a slice is drawn as a run of
// block glyphs whose density falls off with distance. The bottom row is a
// status line.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/raycaster/internal/core/projection"
	"chosenoffset.com/raycaster/internal/game"
)

// shade is one distance band of wall glyphs.
type shade struct {
	within float64 // corrected distance upper bound
	glyph  rune
	color  tcell.Color
}

var shades = []shade{
	{within: 2, glyph: '█', color: tcell.ColorWhite},
	{within: 4, glyph: '▓', color: tcell.ColorSilver},
	{within: 8, glyph: '▒', color: tcell.ColorGray},
	{within: 16, glyph: '░', color: tcell.ColorGray},
}

const (
	floorGlyph = '.'
	farGlyph   = '·'
)

// ShadeFor returns the glyph and style used for a wall at the given corrected
// distance.
func ShadeFor(distance float64) (rune, tcell.Style) {
	for _, s := range shades {
		if distance < s.within {
			return s.glyph, tcell.StyleDefault.Foreground(s.color)
		}
	}
	return farGlyph, tcell.StyleDefault.Foreground(tcell.ColorDimGray)
}

// View renders frames onto a tcell screen.
type View struct {
	screen tcell.Screen
}

// NewView wraps an initialized screen.
func NewView(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// PaneSize is the area available for the projection: the screen minus the
// status line.
func (v *View) PaneSize() (width, height int) {
	w, h := v.screen.Size()
	if h > 1 {
		h--
	}
	return w, h
}

// Draw paints the frame. Columns beyond the screen width are ignored.
func (v *View) Draw(frame game.Frame) {
	v.screen.Clear()
	width, height := v.PaneSize()

	for x, col := range frame.Columns {
		if x >= width {
			break
		}
		v.drawColumn(x, height, col)
	}

	status := fmt.Sprintf("x %.2f y %.2f angle %.2f ahead %.2f  [arrows/wasd move, q quits]",
		frame.Pose.X(), frame.Pose.Y(), frame.Pose.Angle, frame.Forward)
	_, screenHeight := v.screen.Size()
	v.drawText(0, screenHeight-1, status, tcell.StyleDefault.Reverse(true))
}

func (v *View) drawColumn(x, height int, col projection.Column) {
	top, bottom := col.Span(height)
	glyph, style := ShadeFor(col.Corrected)
	floor := tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)

	for y := 0; y < height; y++ {
		switch {
		case y < top:
			// ceiling stays blank
		case y < bottom:
			v.screen.SetContent(x, y, glyph, nil, style)
		default:
			v.screen.SetContent(x, y, floorGlyph, nil, floor)
		}
	}
}

func (v *View) drawText(x, y int, text string, style tcell.Style) {
	width, _ := v.screen.Size()
	for _, r := range text {
		if x >= width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// IntentFor maps a key event to a game intent.
func IntentFor(ev *tcell.EventKey) game.Intent {
	switch ev.Key() {
	case tcell.KeyLeft:
		return game.IntentRotateLeft
	case tcell.KeyRight:
		return game.IntentRotateRight
	case tcell.KeyUp:
		return game.IntentForward
	case tcell.KeyDown:
		return game.IntentBack
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.IntentQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A':
			return game.IntentRotateLeft
		case 'd', 'D':
			return game.IntentRotateRight
		case 'w', 'W':
			return game.IntentForward
		case 's', 'S':
			return game.IntentBack
		case 'q', 'Q':
			return game.IntentQuit
		}
	}
	return game.IntentNone
}
