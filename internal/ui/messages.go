// Package ui provides the Bubble Tea TUI for medview.
package ui

// exportDone is sent when a chart export finishes.
type exportDone struct {
	Dir   string
	Paths []string
	Err   error
}
