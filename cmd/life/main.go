//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"gpu-life/internal/app"
	_ "gpu-life/internal/compute/cpu"
	_ "gpu-life/internal/compute/kage"
	_ "gpu-life/internal/compute/parallel"
	"gpu-life/internal/core"
	"gpu-life/internal/life"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	simCfg, err := cfg.Life()
	if err != nil {
		log.Fatal(err)
	}
	backend, err := core.NewBackend(cfg.Backend)
	if err != nil {
		log.Fatal(err)
	}

	sim := life.New(simCfg, backend)
	game, err := app.New(sim, cfg.HUD)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowTitle("gpu-life: " + backend.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
