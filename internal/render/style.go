package render

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

func rgba(r, g, b uint8, a float64) drawing.Color {
	return drawing.Color{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}

// Series colors.
var (
	SeriesFill   = rgba(52, 152, 219, 0.7)
	SeriesBorder = rgba(52, 152, 219, 1)
)

// PiePalette is cycled through in category order; categories past the
// fifth reuse it from the start.
var PiePalette = []drawing.Color{
	rgba(52, 152, 219, 0.7),
	rgba(46, 204, 113, 0.7),
	rgba(155, 89, 182, 0.7),
	rgba(241, 196, 15, 0.7),
	rgba(230, 126, 34, 0.7),
}

// BorderWidth is the series border width for every kind.
const BorderWidth = 1

// LineTension is the curve smoothing applied to line series.
const LineTension = 0.4

// FontColor is the legend and tick text color for a mode.
func FontColor(isDark bool) drawing.Color {
	if isDark {
		return drawing.ColorFromHex("e0e0e0")
	}
	return drawing.ColorFromHex("333333")
}

// GridColor is the grid line color for a mode.
func GridColor(isDark bool) drawing.Color {
	if isDark {
		return rgba(255, 255, 255, 0.1)
	}
	return rgba(0, 0, 0, 0.1)
}

// Hex formats c as #rrggbb, dropping alpha, for terminal styles.
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
