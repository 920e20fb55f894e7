package mapping

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// markerSize is the fixed marker radius in pixels.
const markerSize = 5.0

// markerStyle is a parsed marker token: a fill color and a shape.
type markerStyle struct {
	fill  color.Color
	shape byte
}

var markerColors = map[byte]color.Color{
	'r': color.RGBA{R: 0xD6, G: 0x2C, B: 0x28, A: 0xFF},
	'g': color.RGBA{R: 0x2C, G: 0x8A, B: 0x3C, A: 0xFF},
	'b': color.RGBA{R: 0x1D, G: 0x5C, B: 0xC9, A: 0xFF},
	'c': color.RGBA{R: 0x1A, G: 0xA8, B: 0xB8, A: 0xFF},
	'm': color.RGBA{R: 0xB8, G: 0x2C, B: 0xA8, A: 0xFF},
	'y': color.RGBA{R: 0xE0, G: 0xB0, B: 0x10, A: 0xFF},
	'k': color.RGBA{A: 0xFF},
	'w': color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
}

// parseMarkerStyle parses a marker token: a color letter followed by a shape
// letter, e.g. "ro" (red circle), "gs" (green square), "b^" (blue triangle).
// The token "default" is an alias for "ro".
func parseMarkerStyle(token string) (markerStyle, error) {
	if token == "" || token == "default" {
		token = "ro"
	}
	if len(token) != 2 {
		return markerStyle{}, fmt.Errorf("%w: %q", ErrUnknownMarkerStyle, token)
	}

	fill, ok := markerColors[token[0]]
	if !ok {
		return markerStyle{}, fmt.Errorf("%w: %q", ErrUnknownMarkerStyle, token)
	}

	switch token[1] {
	case 'o', 's', '^':
	default:
		return markerStyle{}, fmt.Errorf("%w: %q", ErrUnknownMarkerStyle, token)
	}

	return markerStyle{fill: fill, shape: token[1]}, nil
}

// draw paints the marker centered at (x, y) with a thin dark outline.
func (m markerStyle) draw(dc *gg.Context, x, y float64) {
	switch m.shape {
	case 's':
		dc.DrawRectangle(x-markerSize, y-markerSize, 2*markerSize, 2*markerSize)
	case '^':
		dc.MoveTo(x, y-markerSize)
		dc.LineTo(x+markerSize, y+markerSize)
		dc.LineTo(x-markerSize, y+markerSize)
		dc.ClosePath()
	default: // 'o'
		dc.DrawCircle(x, y, markerSize)
	}

	dc.SetColor(m.fill)
	dc.FillPreserve()
	dc.SetRGBA(0.15, 0.15, 0.15, 1)
	dc.SetLineWidth(1)
	dc.Stroke()
}
