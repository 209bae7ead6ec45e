package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/medview/internal/otel"
	"github.com/abelbrown/medview/internal/theme"
)

// debugPanelChrome is the number of terminal lines consumed by the overlay
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if the Overlay style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing event stats and recent events.
// Pure function with no side effects. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, st theme.Styles, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	// --- Stats section (keyed lookups, not map iteration) ---
	var lines []string
	lines = append(lines, st.Title.Render("Dashboard Stats"))
	lines = append(lines, fmt.Sprintf("  Acquisitions: %d started, %d complete, %d errors, %d rejected",
		stats[otel.KindAcquireStart], stats[otel.KindAcquireComplete], stats[otel.KindAcquireError], stats[otel.KindAcquireRejected]))
	lines = append(lines, fmt.Sprintf("  Renders:      %d dashboards, %d theme applies, %d exports",
		stats[otel.KindRender], stats[otel.KindThemeApply], stats[otel.KindExport]))
	lines = append(lines, fmt.Sprintf("  Staging:      %d added, %d rejected, %d removed",
		stats[otel.KindStageAdd], stats[otel.KindStageReject], stats[otel.KindStageRemove]))
	lines = append(lines, fmt.Sprintf("  Notices:      %d shown, %d dismissed",
		stats[otel.KindNotify], stats[otel.KindDismiss]))
	lines = append(lines, fmt.Sprintf("  Buffer:       %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	// --- Recent events section ---
	lines = append(lines, st.Title.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-20s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Flow != "" {
			line += "  " + e.Flow
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Status != 0 {
			line += fmt.Sprintf("  http:%d", e.Status)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by border/padding)
	maxHeight := max(height-debugPanelChrome, 1)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := min(84, width-4)
	panelWidth = max(panelWidth, 20)

	return st.Overlay.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// truncateRunes shortens s to n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(st theme.Styles, width int) string {
	keys := st.Key.Render("D") + st.Muted.Render(":close")
	return st.StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
