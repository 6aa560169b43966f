// Package palette assigns series colors from a rotating palette.
//
// The rotation index is a single process-wide counter shared by every
// chart instance: two charts drawing from the same palette interleave one
// shared color sequence rather than each starting from the first color.
// Callers must treat color order as a process-wide sequence, not a
// chart-local one.
package palette

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"golang.org/x/image/colornames"
)

// Color is stored as ARGB (0xAARRGGBB).
type Color uint32

// RGBA constructs a Color from red, green, blue, alpha bytes.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB constructs an opaque Color from red, green, blue bytes.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// FromRGBA converts a stdlib non-premultiplied color.
func FromRGBA(c color.RGBA) Color {
	return RGBA(c.R, c.G, c.B, c.A)
}

// RGBAF returns normalized color components (0.0 to 1.0).
func (c Color) RGBAF() (r, g, b, a float64) {
	const maxByte = 255.0
	return float64(uint8(c>>16)) / maxByte,
		float64(uint8(c>>8)) / maxByte,
		float64(uint8(c)) / maxByte,
		float64(uint8(c>>24)) / maxByte
}

// rotation is the shared process-wide rotation counter (see package doc).
var rotation atomic.Uint64

// ResetRotation rewinds the shared rotation counter to the first color.
// Intended for tests that assert on exact color order.
func ResetRotation() {
	rotation.Store(0)
}

// Palette is an ordered set of series colors.
type Palette struct {
	colors []Color
}

// New creates a palette from the given colors.
// New panics if no colors are supplied.
func New(colors ...Color) *Palette {
	if len(colors) == 0 {
		panic("palette: at least one color required")
	}
	return &Palette{colors: append([]Color(nil), colors...)}
}

// ByName builds a palette from SVG 1.1 color names.
func ByName(names ...string) (*Palette, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("palette: at least one color name required")
	}
	colors := make([]Color, len(names))
	for i, name := range names {
		c, ok := colornames.Map[name]
		if !ok {
			return nil, fmt.Errorf("palette: unknown color name %q", name)
		}
		colors[i] = FromRGBA(c)
	}
	return New(colors...), nil
}

// Default returns the stock series palette.
func Default() *Palette {
	return New(
		FromRGBA(colornames.Steelblue),
		FromRGBA(colornames.Crimson),
		FromRGBA(colornames.Seagreen),
		FromRGBA(colornames.Goldenrod),
		FromRGBA(colornames.Mediumpurple),
		FromRGBA(colornames.Darkorange),
		FromRGBA(colornames.Teal),
		FromRGBA(colornames.Palevioletred),
	)
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Color returns the color at index i modulo the palette length.
func (p *Palette) Color(i int) Color {
	return p.colors[i%len(p.colors)]
}

// Next returns the next color in the shared process-wide rotation.
func (p *Palette) Next() Color {
	i := rotation.Add(1) - 1
	return p.colors[i%uint64(len(p.colors))]
}
