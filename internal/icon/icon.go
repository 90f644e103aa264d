// Package icon draws the deskshell app icon programmatically so neither
// the tray nor toasts depend on bundled image files.
package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	fill   = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	accent = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Draw renders a size×size icon: a blue disc with a white upward arrow.
func Draw(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	r := c - 1

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			if math.Hypot(dx, dy) <= r {
				img.SetRGBA(x, y, fill)
			}
		}
	}

	// Arrow shaft.
	shaftW := max(1, size/10)
	for y := size * 3 / 8; y < size*3/4; y++ {
		for x := int(c) - shaftW; x < int(c)+shaftW; x++ {
			img.SetRGBA(x, y, accent)
		}
	}
	// Arrow head.
	top, base := size/5, size*2/5
	for y := top; y < base; y++ {
		half := (y - top) * size / 4 / max(1, base-top)
		for x := int(c) - half; x <= int(c)+half; x++ {
			img.SetRGBA(x, y, accent)
		}
	}
	return img
}

// PNG returns Draw(size) encoded as PNG.
func PNG(size int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Draw(size)); err != nil {
		return nil
	}
	return buf.Bytes()
}
