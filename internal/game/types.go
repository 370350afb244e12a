package game

import (
	"chosenoffset.com/raycaster/internal/core/projection"
	"chosenoffset.com/raycaster/internal/world"
)

// Intent is one frame's worth of player input.
type Intent int

const (
	IntentNone Intent = iota
	IntentRotateLeft
	IntentRotateRight
	IntentForward
	IntentBack
	IntentToggleRays
	IntentQuit
)

var intentNames = map[Intent]string{
	IntentNone:        "none",
	IntentRotateLeft:  "rotate-left",
	IntentRotateRight: "rotate-right",
	IntentForward:     "forward",
	IntentBack:        "back",
	IntentToggleRays:  "toggle-rays",
	IntentQuit:        "quit",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

// Frame is everything a frontend needs to draw one frame. It is computed from
// a single pose snapshot after input has been applied.
type Frame struct {
	Pose    world.Pose
	Columns []projection.Column
	Rays    []projection.Ray
	// Forward is the cast distance straight ahead of the observer.
	Forward float64
}
