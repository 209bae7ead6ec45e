// Package otel records structured dashboard events.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// them asynchronously; an optional RingBuffer keeps the recent ones in memory
// for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Acquisition events
	KindAcquireStart    EventKind = "acquire.start"
	KindAcquireComplete EventKind = "acquire.complete"
	KindAcquireError    EventKind = "acquire.error"
	KindAcquireRejected EventKind = "acquire.rejected"

	// Rendering events
	KindRender      EventKind = "render.complete"
	KindThemeApply  EventKind = "render.theme"
	KindExport      EventKind = "render.export"
	KindExportError EventKind = "render.export_error"

	// Staging events
	KindStageAdd    EventKind = "staging.add"
	KindStageReject EventKind = "staging.reject"
	KindStageRemove EventKind = "staging.remove"

	// Notification events
	KindNotify  EventKind = "notify.show"
	KindDismiss EventKind = "notify.dismiss"

	// Theme / preference events
	KindThemeToggle EventKind = "theme.toggle"
	KindStoreError  EventKind = "store.error"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is the universal record. Every field except Kind and Time is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "coord", "render", "staging", "notify", "theme", "main"
	SessionID string         `json:"session_id,omitempty"`
	Flow      string         `json:"flow,omitempty"`   // "upload", "remote", "sample"
	Source    string         `json:"source,omitempty"` // data-source label
	Status    int            `json:"status,omitempty"` // HTTP status on acquisition errors
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Count     int            `json:"count,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
