package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/raycaster/internal/audio"
	"chosenoffset.com/raycaster/internal/config"
	"chosenoffset.com/raycaster/internal/game"
	"chosenoffset.com/raycaster/internal/render/terminal"
)

var (
	configPath = flag.String("config", "raycaster.json", "path to the JSON config file")
	layoutPath = flag.String("layout", "", "JSON layout file (overrides the config)")
	logPath    = flag.String("log", "", "write log output to this file instead of discarding it")
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

	// The screen owns the terminal, so log lines would corrupt it.
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	w, err := game.LoadWorld(cfg)
	if err != nil {
		log.Fatalf("Failed to load world: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}
	width, height := terminal.NewView(screen).PaneSize()
	g, err := game.New(cfg, w, width, height)
	if err != nil {
		screen.Fini()
		log.Fatalf("Failed to create game: %v", err)
	}
	g.ShowRays = false

	if cfg.Audio.Enabled {
		beeper, err := audio.NewBeeper()
		if err != nil {
			// Non-fatal, runs without sound
			log.Printf("Audio initialization failed: %v", err)
		} else {
			g.Proximity = audio.NewCue(cfg.Audio.Threshold, cfg.Audio.ToneHz, beeper)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *logPath == "" {
		log.SetOutput(io.Discard)
	}
	runErr := terminal.Run(ctx, screen, g, cfg.View.TPS)
	screen.Fini()
	if *logPath == "" {
		log.SetOutput(os.Stderr)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
