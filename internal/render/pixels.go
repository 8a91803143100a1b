// Package render turns cell buffers into pixels.
package render

import (
	"bufio"
	"fmt"
	"image/color"
	"io"

	"gpu-life/internal/core"
)

// FillRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func FillRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// WritePGM encodes cells as a binary PGM image, live cells white.
func WritePGM(w io.Writer, cells []uint8, size core.Size) error {
	if len(cells) != size.Cells() {
		return fmt.Errorf("pgm: %d cells for %dx%d image", len(cells), size.W, size.H)
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", size.W, size.H); err != nil {
		return err
	}
	for _, c := range cells {
		v := byte(0)
		if c != 0 {
			v = 255
		}
		if err := bw.WriteByte(v); err != nil {
			return err
		}
	}
	return bw.Flush()
}
