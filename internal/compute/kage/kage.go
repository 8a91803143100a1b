//go:build ebiten

// Package kage runs the simulation kernels on the GPU as Kage shaders. Each
// buffer is an ebiten image; a step draws the read image through the step
// shader into the write image.
package kage

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"gpu-life/internal/core"
)

// Name is the registry key of this backend.
const Name = "gpu"

// MaxSide is the largest image side the backend will allocate.
const MaxSide = 8192

// Buffer is a GPU-resident cell buffer.
type Buffer struct {
	img      *ebiten.Image
	size     core.Size
	released bool
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() core.Size { return b.size }

// Image exposes the backing image for direct display. It returns nil once
// released.
func (b *Buffer) Image() *ebiten.Image {
	if b.released {
		return nil
	}
	return b.img
}

// Backend holds the compiled kernels.
type Backend struct {
	step   *ebiten.Shader
	inject *ebiten.Shader
	pixels []byte
}

// New compiles both kernels.
func New() (*Backend, error) {
	step, err := ebiten.NewShader(stepSource)
	if err != nil {
		return nil, fmt.Errorf("kage: compile step kernel: %w", err)
	}
	inject, err := ebiten.NewShader(injectSource)
	if err != nil {
		step.Dispose()
		return nil, fmt.Errorf("kage: compile inject kernel: %w", err)
	}
	return &Backend{step: step, inject: inject}, nil
}

// Name identifies the backend.
func (*Backend) Name() string { return Name }

// Alloc creates an unmanaged image filled with dead cells.
func (*Backend) Alloc(size core.Size) (core.Buffer, error) {
	if err := core.ValidateDimensions(size.W, size.H); err != nil {
		return nil, err
	}
	if size.W > MaxSide || size.H > MaxSide {
		return nil, fmt.Errorf("kage: %dx%d exceeds %d texels per side: %w", size.W, size.H, MaxSide, core.ErrAllocation)
	}
	img := ebiten.NewImageWithOptions(image.Rect(0, 0, size.W, size.H), &ebiten.NewImageOptions{Unmanaged: true})
	img.Fill(image.Black)
	return &Buffer{img: img, size: size}, nil
}

// Upload writes 0/1 cells as black/white pixels.
func (b *Backend) Upload(dst core.Buffer, cells []uint8) error {
	buf, err := unwrap(dst)
	if err != nil {
		return err
	}
	if len(cells) != buf.size.Cells() {
		return fmt.Errorf("kage: upload of %d cells into %dx%d buffer", len(cells), buf.size.W, buf.size.H)
	}
	px := b.scratch(len(cells))
	for i, c := range cells {
		v := byte(0)
		if c != 0 {
			v = 0xff
		}
		px[4*i], px[4*i+1], px[4*i+2], px[4*i+3] = v, v, v, 0xff
	}
	buf.img.WritePixels(px)
	return nil
}

// Read downloads the buffer into dst.
func (b *Backend) Read(src core.Buffer, dst []uint8) error {
	buf, err := unwrap(src)
	if err != nil {
		return err
	}
	if len(dst) != buf.size.Cells() {
		return fmt.Errorf("kage: read of %dx%d buffer into %d cells", buf.size.W, buf.size.H, len(dst))
	}
	px := b.scratch(len(dst))
	buf.img.ReadPixels(px)
	for i := range dst {
		dst[i] = 0
		if px[4*i] >= 0x80 {
			dst[i] = 1
		}
	}
	return nil
}

// Step draws read through the step kernel into write.
func (b *Backend) Step(read, write core.Buffer, boundary core.Boundary) error {
	src, err := unwrap(read)
	if err != nil {
		return err
	}
	dst, err := unwrap(write)
	if err != nil {
		return err
	}
	if src == dst {
		return fmt.Errorf("kage: step read and write must be distinct buffers")
	}
	if src.size != dst.size {
		return fmt.Errorf("kage: step between %v and %v buffers", src.size, dst.size)
	}
	wrap := float32(0)
	if boundary == core.BoundaryWrap {
		wrap = 1
	}
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = src.img
	op.Uniforms = map[string]any{"Wrap": wrap}
	dst.img.DrawRectShader(src.size.W, src.size.H, b.step, op)
	return nil
}

// Inject draws the disc kernel over buf.
func (b *Backend) Inject(buf core.Buffer, x, y, radius float64) error {
	dst, err := unwrap(buf)
	if err != nil {
		return err
	}
	if radius < 0 {
		return nil
	}
	op := &ebiten.DrawRectShaderOptions{}
	op.Uniforms = map[string]any{
		"Center": []float32{float32(x), float32(y)},
		"Radius": float32(radius),
	}
	dst.img.DrawRectShader(dst.size.W, dst.size.H, b.inject, op)
	return nil
}

// Release disposes the image.
func (*Backend) Release(buf core.Buffer) {
	if b, ok := buf.(*Buffer); ok && b != nil && !b.released {
		b.img.Dispose()
		b.released = true
	}
}

func (b *Backend) scratch(cells int) []byte {
	if cap(b.pixels) < 4*cells {
		b.pixels = make([]byte, 4*cells)
	}
	return b.pixels[:4*cells]
}

func unwrap(buf core.Buffer) (*Buffer, error) {
	b, ok := buf.(*Buffer)
	if !ok || b == nil {
		return nil, fmt.Errorf("kage: foreign buffer %T", buf)
	}
	if b.released {
		return nil, fmt.Errorf("kage: %w", core.ErrReleased)
	}
	return b, nil
}

func init() {
	core.RegisterBackend(Name, func() (core.Backend, error) { return New() })
}
