package game

import (
	"fmt"
	"log"

	"chosenoffset.com/raycaster/internal/config"
	"chosenoffset.com/raycaster/internal/render"
	"chosenoffset.com/raycaster/internal/world"
	"chosenoffset.com/raycaster/internal/world/layout"
)

// LoadWorld builds the world named by the config: the layout file when one is
// set, otherwise the built-in arena at the configured size.
func LoadWorld(cfg *config.Config) (*world.World, error) {
	l := layout.Arena(cfg.World.Width, cfg.World.Height)
	if cfg.World.LayoutPath != "" {
		loaded, err := layout.Load(cfg.World.LayoutPath)
		if err != nil {
			return nil, err
		}
		l = loaded
		log.Printf("Loaded layout %q (%dx%d) from %s:\n%s", l.Name, l.Width(), l.Height(), cfg.World.LayoutPath, l)
	}

	w, err := l.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build layout %q: %w", l.Name, err)
	}
	return w, nil
}

// NewWindowed creates a game wired to a graphics backend. Each pane is the
// world's size in blocks times the configured block size.
func NewWindowed(cfg *config.Config, r render.Renderer, input render.InputManager) (*Game, error) {
	w, err := LoadWorld(cfg)
	if err != nil {
		return nil, err
	}

	paneWidth, paneHeight := cfg.PaneSize(w.Width(), w.Height())
	g, err := New(cfg, w, paneWidth, paneHeight)
	if err != nil {
		return nil, err
	}
	g.Renderer = r
	g.InputMgr = input
	if cfg.View.Workers > 1 {
		log.Printf("Casting columns with %d workers", cfg.View.Workers)
	}
	return g, nil
}
