//go:build ebiten

package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridShaderSource returns the Kage display shader. It maps the red channel
// of a GPU cell buffer to the on/off colours.
func GridShaderSource() []byte { return gridShaderSource }

var gridShaderSource = []byte(`//kage:unit pixels

package main

var OnColor vec4
var OffColor vec4

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	origin := imageSrc0Origin()
	p := floor(srcPos-origin) + vec2(0.5) + origin
	if imageSrc0At(p).r >= 0.5 {
		return OnColor
	}
	return OffColor
}
`)

// NewGridShader compiles the display shader.
func NewGridShader() (*ebiten.Shader, error) {
	s, err := ebiten.NewShader(gridShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile grid shader: %w", err)
	}
	return s, nil
}

// ShaderView blits a GPU cell buffer to the screen through the grid shader.
type ShaderView struct {
	shader *ebiten.Shader
}

// NewShaderView compiles the grid shader.
func NewShaderView() (*ShaderView, error) {
	s, err := NewGridShader()
	if err != nil {
		return nil, err
	}
	return &ShaderView{shader: s}, nil
}

// Blit draws src stretched over a dstW x dstH area of dst.
func (v *ShaderView) Blit(dst, src *ebiten.Image, on, off color.Color, dstW, dstH int) {
	b := src.Bounds()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = src
	op.Uniforms = map[string]any{
		"OnColor":  colorUniform(on),
		"OffColor": colorUniform(off),
	}
	op.GeoM.Scale(float64(dstW)/float64(b.Dx()), float64(dstH)/float64(b.Dy()))
	dst.DrawRectShader(b.Dx(), b.Dy(), v.shader, op)
}

func colorUniform(c color.Color) []float32 {
	r, g, b, a := c.RGBA()
	return []float32{float32(r) / 0xffff, float32(g) / 0xffff, float32(b) / 0xffff, float32(a) / 0xffff}
}
