package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	_ "gpu-life/internal/compute/cpu"
	_ "gpu-life/internal/compute/parallel"
	"gpu-life/internal/core"
	"gpu-life/internal/life"
	"gpu-life/internal/render"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("override %q is not key=value", value)
	}
	*l = append(*l, value)
	return nil
}

func (l kvList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		parts := strings.SplitN(kv, "=", 2)
		out[parts[0]] = parts[1]
	}
	return out
}

func main() {
	ticks := flag.Int("ticks", 600, "number of ticks to run")
	dt := flag.Float64("dt", 1.0/60, "seconds of simulated time per tick")
	width := flag.Int("w", 256, "grid width")
	height := flag.Int("h", 256, "grid height")
	seed := flag.Int64("seed", 1, "seed for the initial grid")
	backendName := flag.String("backend", "parallel", fmt.Sprintf("compute backend %v", core.Backends()))
	every := flag.Int("log", 60, "log the population every N ticks (0 disables)")
	brush := flag.String("brush", "", "x,y grid position painted on every tick")
	out := flag.String("out", "", "write the final generation to this PGM file")
	var overrides kvList
	flag.Var(&overrides, "set", "simulation override in key=value form (repeatable): step, alive, radius, boundary, seed")
	flag.Parse()

	cfg := life.FromMap(overrides.Map())
	backend, err := core.NewBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	sim := life.New(cfg, backend)
	defer sim.Shutdown()

	var pos life.Point
	painting := *brush != ""
	if painting {
		if pos, err = parsePoint(*brush); err != nil {
			log.Fatal(err)
		}
	}

	steps := 0
	for i := 0; i < *ticks; i++ {
		res, err := sim.Tick(life.StepRequest{
			IsResize:      i == 0,
			Width:         *width,
			Height:        *height,
			RandomSeed:    *seed,
			InputEnabled:  painting,
			InputPosition: pos,
			DeltaTime:     *dt,
		})
		if err != nil {
			log.Fatalf("tick %d: %v", i, err)
		}
		if res.Resized {
			log.Printf("grid %dx%d on %s, seed %d, boundary %s", res.Size.W, res.Size.H, backend.Name(), res.Seed, cfg.Boundary)
		}
		if res.Stepped {
			steps++
		}
		if *every > 0 && (i+1)%*every == 0 {
			pop, err := sim.Population()
			if err != nil {
				log.Fatal(err)
			}
			log.Printf("tick %d generation %d population %d", i+1, res.Generation, pop)
		}
	}
	log.Printf("%d ticks, %d generations", *ticks, steps)

	if *out != "" {
		if err := writeSnapshot(sim, *out); err != nil {
			log.Fatal(err)
		}
	}
}

func parsePoint(s string) (life.Point, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return life.Point{}, fmt.Errorf("brush %q is not x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return life.Point{}, fmt.Errorf("brush x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return life.Point{}, fmt.Errorf("brush y: %w", err)
	}
	return life.Point{X: x, Y: y}, nil
}

func writeSnapshot(sim *life.Simulation, path string) error {
	cells, err := sim.Cells()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePGM(f, cells, sim.Size()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
