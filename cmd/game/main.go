package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tatianab/dark-path/internal/catalog"
	"github.com/tatianab/dark-path/internal/config"
	"github.com/tatianab/dark-path/internal/engine"
	"github.com/tatianab/dark-path/internal/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	cat, err := catalog.Default()
	if err != nil {
		fmt.Printf("Error loading encounters: %v\n", err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	game := engine.NewGame(cat)
	game.Start(seed)

	if err := tui.Run(game, cfg); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if cfg.TranscriptDir != "" {
		path, err := game.Transcript().Save(cfg.TranscriptDir)
		if err != nil {
			fmt.Printf("Error saving transcript: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Transcript saved to %s\n", path)
	}
}
