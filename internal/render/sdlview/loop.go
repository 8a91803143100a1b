//go:build sdl

package sdlview

import (
	"log"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"gpu-life/internal/life"
)

const leftButtonMask = 1 << (sdl.BUTTON_LEFT - 1)

// Run drives sim from the window until it is closed or Q/Esc is pressed.
// Space pauses, N steps once, R reseeds with the current seed and S with a
// fresh one.
func Run(w *Window, sim *life.Simulation, policy *life.ResizePolicy, frame time.Duration) error {
	var (
		paused bool
		last   = time.Now()
	)
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				var err error
				switch e.Keysym.Sym {
				case sdl.K_q, sdl.K_ESCAPE:
					return nil
				case sdl.K_SPACE:
					paused = !paused
				case sdl.K_n:
					err = sim.Apply(life.CommandStep)
				case sdl.K_r:
					err = sim.Apply(life.CommandRestart)
				case sdl.K_s:
					err = sim.Apply(life.CommandReseed)
				}
				if err != nil {
					return err
				}
			}
		}

		now := time.Now()
		viewW, viewH := w.Size()
		size, resized := policy.Observe(viewW, viewH)
		mx, my, buttons := sdl.GetMouseState()
		req := life.StepRequest{
			IsResize:     resized,
			Width:        size.W,
			Height:       size.H,
			InputEnabled: buttons&leftButtonMask != 0,
			DeltaTime:    now.Sub(last).Seconds(),
			Paused:       paused,
		}
		req.InputPosition = policy.ToGrid(float64(mx), float64(my), size)
		last = now

		res, err := sim.Tick(req)
		if err != nil {
			return err
		}
		if res.Resized {
			log.Printf("grid %dx%d seed %d", res.Size.W, res.Size.H, res.Seed)
		}
		cells, err := sim.Cells()
		if err != nil {
			return err
		}
		if err := w.Present(cells, res.Size); err != nil {
			return err
		}
		sdl.Delay(uint32(frame / time.Millisecond))
	}
}
