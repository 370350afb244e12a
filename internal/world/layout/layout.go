// Package layout populates worlds, either from the built-in test arena or from
// a JSON layout file.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"chosenoffset.com/raycaster/internal/world"
)

// Wall marks an occupied cell in a layout row. Any other byte is free space.
const Wall = '#'

// ErrInvalidLayout is returned for layouts that cannot describe a grid.
var ErrInvalidLayout = errors.New("invalid layout")

// SpawnPoint defines where the observer starts.
type SpawnPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// Layout is a rectangular grid description. Rows are indexed [y][x].
type Layout struct {
	Name  string      `json:"name"`
	Rows  []string    `json:"rows"`
	Spawn *SpawnPoint `json:"spawn,omitempty"`
}

// Load reads and validates a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file %s: %w", path, err)
	}

	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("layout file %s: %w", path, err)
	}
	return l, nil
}

// Parse decodes and validates a JSON layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks that the rows form a non-empty rectangle and the spawn point
// lies inside it.
func (l *Layout) Validate() error {
	if len(l.Rows) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	width := len(l.Rows[0])
	if width == 0 {
		return fmt.Errorf("%w: empty first row", ErrInvalidLayout)
	}
	for y, row := range l.Rows {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has width %d, expected %d", ErrInvalidLayout, y, len(row), width)
		}
	}
	if s := l.Spawn; s != nil {
		if s.X < 0 || s.Y < 0 || s.X >= float64(width) || s.Y >= float64(len(l.Rows)) {
			return fmt.Errorf("%w: spawn (%v, %v) outside %dx%d grid", ErrInvalidLayout, s.X, s.Y, width, len(l.Rows))
		}
	}
	return nil
}

// Width returns the number of columns.
func (l *Layout) Width() int {
	if len(l.Rows) == 0 {
		return 0
	}
	return len(l.Rows[0])
}

// Height returns the number of rows.
func (l *Layout) Height() int { return len(l.Rows) }

// Build creates a world from the layout and places the observer at the spawn
// point, or at the grid center when none is set.
func (l *Layout) Build() (*world.World, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	w := world.New(l.Width(), l.Height())
	for y, row := range l.Rows {
		for x := 0; x < len(row); x++ {
			if row[x] != Wall {
				continue
			}
			if err := w.SetBlock(x, y, true); err != nil {
				return nil, err
			}
		}
	}

	pose := world.Pose{Pos: r2.Vec{X: float64(l.Width()) / 2, Y: float64(l.Height()) / 2}}
	if s := l.Spawn; s != nil {
		pose = world.Pose{Pos: r2.Vec{X: s.X, Y: s.Y}, Angle: s.Angle}
	}
	w.SetPose(pose)
	return w, nil
}

// Arena returns the built-in test layout: a solid border ring plus two
// diagonal runs of blocks, one below and one above the main diagonal.
func Arena(width, height int) *Layout {
	if width <= 0 || height <= 0 {
		return &Layout{Name: "arena"}
	}

	cells := make([][]byte, height)
	for y := range cells {
		cells[y] = []byte(strings.Repeat(".", width))
	}
	set := func(x, y int) {
		if x >= 0 && y >= 0 && x < width && y < height {
			cells[y][x] = Wall
		}
	}

	for i := width / 6; i < width/2; i++ {
		set(i, i+height/3)
		set(i+width/3, i)
	}
	for y := 0; y < height; y++ {
		set(0, y)
		set(width-1, y)
	}
	for x := 0; x < width; x++ {
		set(x, 0)
		set(x, height-1)
	}

	rows := make([]string, height)
	for y, row := range cells {
		rows[y] = string(row)
	}
	return &Layout{Name: "arena", Rows: rows}
}

// String renders the layout one row per line.
func (l *Layout) String() string {
	return strings.Join(l.Rows, "\n")
}
