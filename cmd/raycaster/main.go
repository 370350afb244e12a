package main

import (
	"flag"
	"log"

	"chosenoffset.com/raycaster/internal/audio"
	"chosenoffset.com/raycaster/internal/config"
	"chosenoffset.com/raycaster/internal/game"
	ebitenrender "chosenoffset.com/raycaster/internal/render/ebiten"
)

var (
	configPath = flag.String("config", "raycaster.json", "path to the JSON config file")
	layoutPath = flag.String("layout", "", "JSON layout file (overrides the config)")
	workers    = flag.Int("workers", -1, "cast columns with this many goroutines (overrides the config)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *layoutPath != "" {
		cfg.World.LayoutPath = *layoutPath
	}
	if *workers >= 0 {
		cfg.View.Workers = *workers
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	g, err := game.NewWindowed(cfg, renderer, inputMgr)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	if cfg.Audio.Enabled {
		beeper, err := audio.NewBeeper()
		if err != nil {
			log.Printf("Audio initialization failed: %v", err)
		} else {
			g.Proximity = audio.NewCue(cfg.Audio.Threshold, cfg.Audio.ToneHz, beeper)
		}
	}

	// Set up the window
	width, height := g.Layout(0, 0)
	engine.SetWindowSize(width, height)
	engine.SetWindowTitle("Raycasting")
	engine.SetWindowResizable(false)
	engine.SetTPS(cfg.View.TPS)

	log.Println("Starting raycaster...")
	if err := engine.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
