// Package tabs is the input-method selector. Exactly one panel is active
// at any time; the active panel is a single index, so there is never an
// observable state with zero or two active panels.
package tabs

// Panel identifies an input method.
type Panel int

const (
	Upload Panel = iota
	Remote
	Sample
)

var titles = [...]string{
	Upload: "Upload Files",
	Remote: "ROA API",
	Sample: "Sample Data",
}

// Panels lists every panel in display order.
var Panels = []Panel{Upload, Remote, Sample}

func (p Panel) String() string {
	if p < 0 || int(p) >= len(titles) {
		return "unknown"
	}
	return titles[p]
}

// Selector tracks the active panel. The zero value has Upload active.
type Selector struct {
	active Panel
}

// Activate makes p the only active panel. Unknown panels are ignored and
// reported as false.
func (s *Selector) Activate(p Panel) bool {
	if p < 0 || int(p) >= len(Panels) {
		return false
	}
	s.active = p
	return true
}

// Active returns the active panel.
func (s *Selector) Active() Panel {
	return s.active
}

// IsActive reports whether p is the active panel.
func (s *Selector) IsActive(p Panel) bool {
	return s.active == p
}

// Next activates the following panel, wrapping around.
func (s *Selector) Next() {
	s.active = Panel((int(s.active) + 1) % len(Panels))
}

// Prev activates the preceding panel, wrapping around.
func (s *Selector) Prev() {
	s.active = Panel((int(s.active) + len(Panels) - 1) % len(Panels))
}
