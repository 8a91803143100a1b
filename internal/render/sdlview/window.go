//go:build sdl

// Package sdlview displays a simulation in an SDL2 window and drives it from
// SDL input events.
package sdlview

import (
	"fmt"
	"image/color"

	"github.com/veandco/go-sdl2/sdl"

	"gpu-life/internal/core"
	"gpu-life/internal/render"
)

// Window owns the SDL window, renderer and a streaming texture sized to the grid.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	size     core.Size
	pixels   []byte

	On, Off color.Color
}

// NewWindow initialises SDL and opens a resizable window.
func NewWindow(title string, width, height int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}
	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl window: %w", err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl renderer: %w", err)
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "nearest")
	return &Window{window: window, renderer: renderer, On: color.White, Off: color.Black}, nil
}

// Size returns the drawable window size in pixels.
func (w *Window) Size() (int, int) {
	width, height := w.window.GetSize()
	return int(width), int(height)
}

// Present uploads cells and stretches them over the window.
func (w *Window) Present(cells []uint8, size core.Size) error {
	if len(cells) != size.Cells() || size.Cells() == 0 {
		return fmt.Errorf("sdl present: %d cells for %dx%d grid", len(cells), size.W, size.H)
	}
	if w.texture == nil || w.size != size {
		if w.texture != nil {
			w.texture.Destroy()
		}
		tex, err := w.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(size.W), int32(size.H))
		if err != nil {
			w.texture = nil
			return fmt.Errorf("sdl texture %dx%d: %w", size.W, size.H, err)
		}
		w.texture = tex
		w.size = size
		w.pixels = make([]byte, 4*size.Cells())
	}
	render.FillRGBA(w.pixels, cells, w.On, w.Off)
	if err := w.texture.Update(nil, w.pixels, 4*size.W); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return err
	}
	w.renderer.Present()
	return nil
}

// Destroy releases the SDL resources and shuts SDL down.
func (w *Window) Destroy() {
	if w.texture != nil {
		w.texture.Destroy()
	}
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
}
