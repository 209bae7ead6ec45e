// Package render owns the dashboard's chart instances.
//
// Each slot is an arena entry: Render destroys the slot's previous instance
// and creates a fresh one, so nothing from an earlier payload stays
// reachable. Theme changes are the one in-place mutation.
package render

import (
	"fmt"
	"time"

	"github.com/abelbrown/medview/internal/analytics"
	"github.com/abelbrown/medview/internal/logging"
	"github.com/abelbrown/medview/internal/otel"
)

// Renderer is the chart-slot table. Only the Update loop touches it.
type Renderer struct {
	slots     map[string]*Chart
	visible   bool
	isDark    bool
	serial    int
	destroyed int
	events    *otel.Logger
}

// New creates an empty, hidden dashboard styled for the given mode.
func New(isDark bool, events *otel.Logger) *Renderer {
	return &Renderer{
		slots:  make(map[string]*Chart, len(Slots)),
		isDark: isDark,
		events: events,
	}
}

// Render replaces every slot with a chart of p. The payload is validated
// before anything changes, so a bad payload leaves the dashboard as it was.
func (r *Renderer) Render(p *analytics.Payload) error {
	if p == nil {
		return fmt.Errorf("%w: empty payload", analytics.ErrMissingField)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	start := time.Now()

	// Visible before creation so sizes are computed against the real layout.
	r.visible = true

	for _, slot := range Slots {
		if prev, ok := r.slots[slot.Name]; ok {
			prev.destroy()
			r.destroyed++
		}
		r.serial++
		r.slots[slot.Name] = newChart(slot, r.serial, p.Field(slot.Field), r.isDark)
	}

	r.events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindRender,
		Comp:  "render",
		Count: len(r.slots),
		Dur:   time.Since(start),
	})
	logging.Debug("render: dashboard rebuilt", "charts", len(r.slots), "total_patients", p.Total())
	return nil
}

// ApplyTheme restyles every live chart in place and bumps its revision.
// Charts created later pick the mode up as well.
func (r *Renderer) ApplyTheme(isDark bool) {
	r.isDark = isDark
	for _, c := range r.slots {
		c.style(isDark)
		c.Revision++
	}
	r.events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindThemeApply,
		Comp:  "render",
		Count: len(r.slots),
		Extra: map[string]any{"dark": isDark},
	})
}

// Live returns the live charts in slot order.
func (r *Renderer) Live() []*Chart {
	out := make([]*Chart, 0, len(r.slots))
	for _, slot := range Slots {
		if c, ok := r.slots[slot.Name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Chart returns the live chart for a slot, or nil.
func (r *Renderer) Chart(slot string) *Chart {
	return r.slots[slot]
}

// Visible reports whether the dashboard has been shown.
func (r *Renderer) Visible() bool {
	return r.visible
}

// IsDark reports the mode new charts are styled with.
func (r *Renderer) IsDark() bool {
	return r.isDark
}

// Created returns how many chart instances have ever been created.
func (r *Renderer) Created() int {
	return r.serial
}

// Destroyed returns how many chart instances have been replaced.
func (r *Renderer) Destroyed() int {
	return r.destroyed
}
