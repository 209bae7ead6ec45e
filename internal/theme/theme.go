// Package theme holds the process-wide light/dark flag.
//
// State is the single writer of the flag: it is read from the preference
// store once at startup and changed only by Toggle, which persists it and
// notifies listeners such as the chart renderer.
package theme

import (
	"fmt"
)

// PrefKey is the preference key the flag is stored under.
const PrefKey = "darkTheme"

// Prefs is the slice of the preference store State needs.
type Prefs interface {
	GetBool(key string) (value bool, ok bool, err error)
	SetBool(key string, value bool) error
}

// Listener receives the new flag after every toggle.
type Listener func(isDark bool)

// State is the theme flag plus its listeners.
type State struct {
	dark      bool
	prefs     Prefs
	listeners []Listener
}

// Initialize reads the persisted flag. A missing preference means light.
// prefs may be nil, in which case nothing is persisted.
func Initialize(prefs Prefs) (*State, error) {
	s := &State{prefs: prefs}
	if prefs == nil {
		return s, nil
	}
	dark, _, err := prefs.GetBool(PrefKey)
	if err != nil {
		return s, fmt.Errorf("read theme preference: %w", err)
	}
	s.dark = dark
	return s, nil
}

// IsDark reports the current mode.
func (s *State) IsDark() bool {
	return s.dark
}

// Subscribe registers a listener called after each toggle.
func (s *State) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Toggle flips the flag, persists it and notifies listeners. A persistence
// failure is returned but the in-memory flip and notification still happen,
// so the screen never disagrees with IsDark.
func (s *State) Toggle() (bool, error) {
	s.dark = !s.dark

	var err error
	if s.prefs != nil {
		if perr := s.prefs.SetBool(PrefKey, s.dark); perr != nil {
			err = fmt.Errorf("persist theme preference: %w", perr)
		}
	}

	for _, l := range s.listeners {
		l(s.dark)
	}
	return s.dark, err
}
