package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

const maxLabelWidth = 18

func fg(c drawing.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(c)))
}

// Draw renders the chart as terminal text no wider than width cells.
func (c *Chart) Draw(width int) string {
	var b strings.Builder
	b.WriteString(fg(c.Options.LegendColor).Bold(true).Render(c.Slot.Title))
	b.WriteByte('\n')

	if len(c.Dataset.Data) == 0 {
		b.WriteString(fg(c.Options.LegendColor).Faint(true).Render("no data"))
		return b.String()
	}

	switch c.Slot.Kind {
	case KindPie:
		c.drawPie(&b)
	case KindLine:
		c.drawLine(&b, width)
	default:
		c.drawBars(&b, width)
	}
	return b.String()
}

func (c *Chart) drawBars(b *strings.Builder, width int) {
	labelW := 0
	for _, l := range c.Labels {
		labelW = max(labelW, len([]rune(truncate(l, maxLabelWidth))))
	}
	barMax := max(width-labelW-10, 4)
	top := 0.0
	for _, v := range c.Dataset.Data {
		top = math.Max(top, v)
	}

	tick := fg(c.Options.X.TickColor)
	bar := fg(c.Dataset.Border)
	for i, v := range c.Dataset.Data {
		n := 0
		if top > 0 {
			n = max(int(math.Round(v/top*float64(barMax))), 0)
		}
		label := truncate(c.Labels[i], maxLabelWidth)
		fmt.Fprintf(b, "%s %s %s\n",
			tick.Render(fmt.Sprintf("%-*s", labelW, label)),
			bar.Render(strings.Repeat("█", n)),
			tick.Render(humanize.Ftoa(v)))
	}
}

func (c *Chart) drawPie(b *strings.Builder) {
	total := 0.0
	for _, v := range c.Dataset.Data {
		total += v
	}
	legend := fg(c.Options.LegendColor)
	for i, v := range c.Dataset.Data {
		share := 0.0
		if total > 0 {
			share = v / total * 100
		}
		fmt.Fprintf(b, "%s %s %s\n",
			fg(c.FillAt(i)).Render("●"),
			legend.Render(truncate(c.Labels[i], maxLabelWidth)),
			legend.Faint(true).Render(fmt.Sprintf("%s (%.1f%%)", humanize.Ftoa(v), share)))
	}
}

func (c *Chart) drawLine(b *strings.Builder, width int) {
	data := c.Dataset.Data
	if len(data) > width && width > 0 {
		data = data[len(data)-width:]
	}
	top := 0.0
	for _, v := range data {
		top = math.Max(top, v)
	}

	var line strings.Builder
	for _, v := range data {
		idx := 0
		if top > 0 {
			idx = max(int(math.Round(v/top*float64(len(sparkRunes)-1))), 0)
		}
		line.WriteRune(sparkRunes[idx])
	}
	b.WriteString(fg(c.Dataset.Border).Render(line.String()))
	b.WriteByte('\n')

	tick := fg(c.Options.X.TickColor)
	first, last := c.Labels[len(c.Labels)-len(data)], c.Labels[len(c.Labels)-1]
	fmt.Fprintf(b, "%s … %s  peak %s\n", tick.Render(first), tick.Render(last), tick.Render(humanize.Ftoa(top)))
}

// truncate shortens s to maxLen runes, marking the cut with an ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
