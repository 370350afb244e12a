package terminal

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/raycaster/internal/game"
	"chosenoffset.com/raycaster/internal/render"
)

// Run drives g at tps frames per second until a quit intent arrives or ctx is
// cancelled. Key presses received between ticks are applied in order at the
// next tick. The caller owns screen initialization and Fini.
func Run(ctx context.Context, screen tcell.Screen, g *game.Game, tps int) error {
	view := NewView(screen)
	if err := g.Resize(view.PaneSize()); err != nil {
		return err
	}

	// Releases the event goroutine when Run returns on its own.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 100)
	go pollEvents(ctx, screen, events)

	if tps <= 0 {
		tps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	var pending []game.Intent
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if intent := IntentFor(ev); intent != game.IntentNone {
					pending = append(pending, intent)
				}
			case *tcell.EventResize:
				screen.Sync()
				if err := g.Resize(view.PaneSize()); err != nil {
					log.Printf("Ignoring resize: %v", err)
				}
			}

		case <-ticker.C:
			for _, intent := range pending {
				if err := g.Apply(intent); err != nil {
					if errors.Is(err, render.ErrQuit) {
						return nil
					}
					return err
				}
			}
			pending = pending[:0]

			frame, err := g.Step(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			view.Draw(frame)
			screen.Show()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or ctx is
// done.
func pollEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
