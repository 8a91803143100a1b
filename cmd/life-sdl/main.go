//go:build sdl

package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"gpu-life/internal/app"
	_ "gpu-life/internal/compute/cpu"
	_ "gpu-life/internal/compute/parallel"
	"gpu-life/internal/core"
	"gpu-life/internal/life"
	"gpu-life/internal/render/sdlview"
)

func init() {
	// SDL must be driven from the main thread.
	runtime.LockOSThread()
}

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
	defer sim.Shutdown()

	w, err := sdlview.NewWindow("gpu-life: "+backend.Name(), cfg.Width, cfg.Height)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Destroy()

	frame := time.Second / 60
	if cfg.TPS > 0 {
		frame = time.Second / time.Duration(cfg.TPS)
	}
	if err := sdlview.Run(w, sim, life.NewResizePolicy(simCfg), frame); err != nil {
		log.Print(err)
	}
}
