//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"gpu-life/internal/core"
	"gpu-life/internal/life"
	"gpu-life/internal/render"
	"gpu-life/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type imageBuffer interface {
	Image() *ebiten.Image
}

// Game adapts a life.Simulation to the ebiten.Game interface. Every Update
// is one simulation tick; Draw shows the current generation.
type Game struct {
	sim     *life.Simulation
	policy  *life.ResizePolicy
	painter *render.GridPainter
	view    *render.ShaderView
	hud     *ui.HUD
	overlay *ui.Overlay
	clock   core.Stopwatch

	onColor  color.Color
	offColor color.Color

	outW, outH int
	paused     bool
}

// New constructs a Game for the provided simulation. hudWidth of zero hides
// the parameter panel.
func New(sim *life.Simulation, hudWidth int) (*Game, error) {
	g := &Game{
		sim:      sim,
		policy:   life.NewResizePolicy(sim.Config()),
		painter:  render.NewGridPainter(),
		hud:      ui.NewHUD(sim, "life", hudWidth),
		overlay:  ui.NewOverlay(),
		onColor:  color.White,
		offColor: color.Black,
	}
	view, err := render.NewShaderView()
	if err != nil {
		return nil, err
	}
	g.view = view
	return g, nil
}

var commandKeys = map[ebiten.Key]life.Command{
	ebiten.KeyN: life.CommandStep,
	ebiten.KeyR: life.CommandRestart,
	ebiten.KeyS: life.CommandReseed,
}

// Close releases the simulation buffers.
func (g *Game) Close() { g.sim.Shutdown() }

// Update handles input and runs one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	for key, cmd := range commandKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if err := g.sim.Apply(cmd); err != nil {
			return err
		}
	}

	viewW, viewH := g.viewport()
	g.overlay.Update()
	g.hud.Update(viewW)

	size, resized := g.policy.Observe(viewW, viewH)
	mx, my := ebiten.CursorPosition()
	inside := mx >= 0 && my >= 0 && mx < viewW && my < viewH
	req := life.StepRequest{
		IsResize:      resized,
		Width:         size.W,
		Height:        size.H,
		InputEnabled:  inside && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !g.hud.Contains(mx, my),
		InputPosition: g.policy.ToGrid(float64(mx), float64(my), size),
		DeltaTime:     g.deltaTime(),
		Paused:        g.paused,
	}
	res, err := g.sim.Tick(req)
	if err != nil {
		return err
	}
	if res.Resized {
		log.Printf("grid %dx%d on %s, seed %d", res.Size.W, res.Size.H, g.sim.Backend().Name(), res.Seed)
	}
	return nil
}

// Draw renders the current generation, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	viewW, viewH := g.viewport()
	size := g.sim.Size()
	buf := g.sim.Current()
	if buf == nil || size.Cells() == 0 {
		return
	}
	if img, ok := buf.(imageBuffer); ok && img.Image() != nil {
		g.view.Blit(screen, img.Image(), g.onColor, g.offColor, viewW, viewH)
	} else if cells, err := g.sim.Cells(); err == nil {
		g.painter.Blit(screen, cells, size, g.onColor, g.offColor, viewW, viewH)
	}

	mx, my := ebiten.CursorPosition()
	radius := g.sim.Config().InputRadius * float64(viewW) / float64(size.W)
	status := fmt.Sprintf("gen %d", g.sim.Generation())
	if g.paused {
		status += " (paused)"
	}
	g.overlay.Draw(screen, float64(mx), float64(my), radius, status)
	g.hud.Draw(screen, viewW, g.outH)
}

// Layout uses the window size as the logical screen so the grid follows
// window resizes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.outW, g.outH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) viewport() (int, int) {
	return max(1, g.outW-g.hud.Width()), max(1, g.outH)
}

func (g *Game) deltaTime() float64 {
	if tps := ebiten.TPS(); tps > 0 {
		return 1 / float64(tps)
	}
	return g.clock.Lap(time.Now())
}
