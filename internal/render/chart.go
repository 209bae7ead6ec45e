package render

import (
	"slices"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/abelbrown/medview/internal/analytics"
)

// Dataset is the single series a chart draws.
type Dataset struct {
	Label string
	Data  []float64
	// Fill has one color for bar and line, one per category for pie.
	Fill        []drawing.Color
	Border      drawing.Color
	BorderWidth float64
	Tension     float64
}

// Axis holds the themed styling of one cartesian axis.
type Axis struct {
	TickColor   drawing.Color
	GridColor   drawing.Color
	BeginAtZero bool
}

// Options are the presentation options of a chart. X and Y are nil for
// pie charts.
type Options struct {
	ShowLegend  bool
	LegendColor drawing.Color
	X, Y        *Axis
}

// Chart is one live chart instance bound to a slot.
type Chart struct {
	Slot    Slot
	Serial  int
	Labels  []string
	Dataset Dataset
	Options Options
	// Revision counts redraws; it starts at 1 and is bumped by ApplyTheme.
	Revision  int
	destroyed bool
}

func newChart(slot Slot, serial int, d *analytics.Distribution, isDark bool) *Chart {
	c := &Chart{
		Slot:     slot,
		Serial:   serial,
		Labels:   slices.Clone(d.Labels),
		Revision: 1,
		Dataset: Dataset{
			Label:       slot.Title,
			Data:        slices.Clone(d.Values),
			Border:      SeriesBorder,
			BorderWidth: BorderWidth,
		},
		Options: Options{
			ShowLegend: slot.Kind == KindPie,
		},
	}

	if slot.Kind == KindPie {
		c.Dataset.Fill = slices.Clone(PiePalette)
	} else {
		c.Dataset.Fill = []drawing.Color{SeriesFill}
		c.Options.X = &Axis{}
		c.Options.Y = &Axis{BeginAtZero: true}
	}
	if slot.Kind == KindLine {
		c.Dataset.Tension = LineTension
	}

	c.style(isDark)
	return c
}

// style sets the mode-dependent colors. Legend color applies to every
// kind, tick and grid colors only to charts with axes.
func (c *Chart) style(isDark bool) {
	font, grid := FontColor(isDark), GridColor(isDark)
	c.Options.LegendColor = font
	for _, ax := range []*Axis{c.Options.X, c.Options.Y} {
		if ax != nil {
			ax.TickColor = font
			ax.GridColor = grid
		}
	}
}

// FillAt returns the fill color of category i. Pie colors cycle.
func (c *Chart) FillAt(i int) drawing.Color {
	return c.Dataset.Fill[i%len(c.Dataset.Fill)]
}

// Destroyed reports whether the instance was replaced.
func (c *Chart) Destroyed() bool {
	return c.destroyed
}

func (c *Chart) destroy() {
	c.destroyed = true
	c.Labels = nil
	c.Dataset.Data = nil
}

// snapshot returns a deep copy safe to hand to another goroutine.
func (c *Chart) snapshot() Chart {
	s := *c
	s.Labels = slices.Clone(c.Labels)
	s.Dataset.Data = slices.Clone(c.Dataset.Data)
	s.Dataset.Fill = slices.Clone(c.Dataset.Fill)
	if c.Options.X != nil {
		x := *c.Options.X
		s.Options.X = &x
	}
	if c.Options.Y != nil {
		y := *c.Options.Y
		s.Options.Y = &y
	}
	return s
}
