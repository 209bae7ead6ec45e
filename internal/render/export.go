package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentExports limits parallel PNG renders.
const maxConcurrentExports = 4

// smoothSteps is the number of interpolated points per line segment.
const smoothSteps = 8

var chartPadding = chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}

// Snapshot copies the live charts in slot order so they can be exported off
// the Update loop.
func (r *Renderer) Snapshot() []Chart {
	live := r.Live()
	out := make([]Chart, len(live))
	for i, c := range live {
		out[i] = c.snapshot()
	}
	return out
}

// Export writes one PNG per chart into dir, concurrently, and returns the
// written paths in slot order. Charts that are not Drawable are skipped.
func Export(ctx context.Context, charts []Chart, dir string, width, height int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	paths := make([]string, len(charts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentExports)

	for i := range charts {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c := &charts[i]
			if !c.Drawable() {
				return nil
			}

			var buf bytes.Buffer
			if err := c.PNG(&buf, width, height); err != nil {
				return fmt.Errorf("render %s: %w", c.Slot.Name, err)
			}
			path := filepath.Join(dir, c.Slot.Name+".png")
			if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.DeleteFunc(paths, func(p string) bool { return p == "" }), nil
}

// Drawable reports whether the chart has something to plot: at least one
// data point, and for pies at least one positive share.
func (c *Chart) Drawable() bool {
	if len(c.Dataset.Data) == 0 {
		return false
	}
	if c.Slot.Kind != KindPie {
		return true
	}
	return slices.ContainsFunc(c.Dataset.Data, func(v float64) bool { return v > 0 })
}

// PNG draws the chart with go-chart.
func (c *Chart) PNG(w io.Writer, width, height int) error {
	switch c.Slot.Kind {
	case KindPie:
		pc := c.pieChart(width, height)
		return pc.Render(chart.PNG, w)
	case KindLine:
		lc := c.lineChart(width, height)
		return lc.Render(chart.PNG, w)
	default:
		bc := c.barChart(width, height)
		return bc.Render(chart.PNG, w)
	}
}

func (c *Chart) titleStyle() chart.Style {
	return chart.Style{FontColor: c.Options.LegendColor, FontSize: 14}
}

func (c *Chart) barChart(width, height int) chart.BarChart {
	n := len(c.Dataset.Data)
	bars := make([]chart.Value, n)
	for i, v := range c.Dataset.Data {
		bars[i] = chart.Value{
			Label: c.Labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   c.FillAt(i),
				StrokeColor: c.Dataset.Border,
				StrokeWidth: c.Dataset.BorderWidth,
			},
		}
	}

	// Keep all bars inside the canvas.
	slot := (width - chartPadding.Left - chartPadding.Right - 60) / max(n, 1)
	barWidth := max(min(slot*2/3, 50), 4)

	return chart.BarChart{
		Title:      c.Slot.Title,
		TitleStyle: c.titleStyle(),
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: max(slot-barWidth, 2),
		Background: chart.Style{Padding: chartPadding},
		XAxis:      chart.Style{FontColor: c.Options.X.TickColor},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: c.Options.Y.TickColor},
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax(c.Dataset.Data)},
			GridMajorStyle: chart.Style{StrokeColor: c.Options.Y.GridColor, StrokeWidth: 1},
		},
		Bars: bars,
	}
}

func (c *Chart) pieChart(width, height int) chart.PieChart {
	values := make([]chart.Value, len(c.Dataset.Data))
	for i, v := range c.Dataset.Data {
		values[i] = chart.Value{
			Label: c.Labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   c.FillAt(i),
				StrokeColor: c.Dataset.Border,
				StrokeWidth: c.Dataset.BorderWidth,
				FontColor:   c.Options.LegendColor,
			},
		}
	}
	return chart.PieChart{
		Title:      c.Slot.Title,
		TitleStyle: c.titleStyle(),
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chartPadding},
		Values:     values,
	}
}

func (c *Chart) lineChart(width, height int) chart.Chart {
	n := len(c.Dataset.Data)
	xs, ys := smooth(c.Dataset.Data, c.Dataset.Tension)
	if n == 1 {
		// go-chart needs two x values; draw a flat segment across the slot.
		xs, ys = []float64{-0.5, 0.5}, []float64{ys[0], ys[0]}
	}

	ticks := make([]chart.Tick, n)
	for i, l := range c.Labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}

	ch := chart.Chart{
		Title:      c.Slot.Title,
		TitleStyle: c.titleStyle(),
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chartPadding},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontColor: c.Options.X.TickColor},
			Range:          &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Ticks:          ticks,
			GridMajorStyle: chart.Style{StrokeColor: c.Options.X.GridColor, StrokeWidth: 1},
		},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: c.Options.Y.TickColor},
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax(ys)},
			GridMajorStyle: chart.Style{StrokeColor: c.Options.Y.GridColor, StrokeWidth: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    c.Dataset.Label,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: c.Dataset.Border,
					StrokeWidth: c.Dataset.BorderWidth * 2,
					FillColor:   c.FillAt(0).WithAlpha(60),
				},
			},
		},
	}
	return ch
}

// yMax leaves headroom above the largest value and never returns a zero
// range, which go-chart rejects.
func yMax(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, v)
	}
	if m <= 0 {
		return 1
	}
	return m * 1.1
}

// smooth interpolates a cardinal spline through values. With zero tension
// or fewer than three points it returns the points unchanged. Interpolated
// values are clamped at zero to match the zero-based y axis.
func smooth(values []float64, tension float64) (xs, ys []float64) {
	n := len(values)
	if tension == 0 || n < 3 {
		xs = make([]float64, n)
		for i := range xs {
			xs[i] = float64(i)
		}
		return xs, slices.Clone(values)
	}

	for i := 0; i < n-1; i++ {
		p0 := values[max(i-1, 0)]
		p1 := values[i]
		p2 := values[i+1]
		p3 := values[min(i+2, n-1)]
		m1 := tension * (p2 - p0)
		m2 := tension * (p3 - p1)

		for s := 0; s < smoothSteps; s++ {
			t := float64(s) / smoothSteps
			t2, t3 := t*t, t*t*t
			y := (2*t3-3*t2+1)*p1 + (t3-2*t2+t)*m1 + (-2*t3+3*t2)*p2 + (t3-t2)*m2
			xs = append(xs, float64(i)+t)
			ys = append(ys, math.Max(y, 0))
		}
	}
	xs = append(xs, float64(n-1))
	ys = append(ys, values[n-1])
	return xs, ys
}
