package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/medview/internal/ui/tabs"
)

// binding maps a trigger to an action. when gates the action; a key whose
// predicate fails falls through to the next binding.
type binding struct {
	key  key.Binding
	when func(a *App) bool
	do   func(a *App) tea.Cmd
}

func always(*App) bool { return true }

func onTab(p tabs.Panel) func(a *App) bool {
	return func(a *App) bool { return a.tabs.IsActive(p) }
}

// keyTable is the declarative input wiring. Order matters: the first
// binding whose key matches and whose predicate holds wins.
var keyTable = []binding{
	{
		key:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		when: always,
		do:   func(*App) tea.Cmd { return tea.Quit },
	},
	{
		key:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		when: always,
		do:   func(a *App) tea.Cmd { a.tabs.Next(); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
		when: always,
		do:   func(a *App) tea.Cmd { a.tabs.Prev(); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "upload")),
		when: always,
		do:   func(a *App) tea.Cmd { a.tabs.Activate(tabs.Upload); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "ROA API")),
		when: always,
		do:   func(a *App) tea.Cmd { a.tabs.Activate(tabs.Remote); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sample")),
		when: always,
		do:   func(a *App) tea.Cmd { a.tabs.Activate(tabs.Sample); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add files")),
		when: onTab(tabs.Upload),
		do:   (*App).openPrompt,
	},
	{
		key:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove file")),
		when: func(a *App) bool { return a.tabs.IsActive(tabs.Upload) && a.staging.Len() > 0 },
		do:   (*App).removeSelected,
	},
	{
		key:  key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		when: onTab(tabs.Upload),
		do:   func(a *App) tea.Cmd { a.moveCursor(-1); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		when: onTab(tabs.Upload),
		do:   func(a *App) tea.Cmd { a.moveCursor(1); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload")),
		when: func(a *App) bool { return a.tabs.IsActive(tabs.Upload) && a.staging.SubmitEnabled() },
		do: func(a *App) tea.Cmd {
			return a.acquire(a.coord.SubmitUpload(a.staging.Files()))
		},
	},
	{
		key:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fetch")),
		when: onTab(tabs.Remote),
		do: func(a *App) tea.Cmd {
			return a.acquire(a.coord.FetchRemote(a.Period()))
		},
	},
	{
		key:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load sample")),
		when: onTab(tabs.Sample),
		do: func(a *App) tea.Cmd {
			return a.acquire(a.coord.LoadSample())
		},
	},
	{
		key:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev period")),
		when: onTab(tabs.Remote),
		do:   func(a *App) tea.Cmd { a.shiftPeriod(-1); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next period")),
		when: onTab(tabs.Remote),
		do:   func(a *App) tea.Cmd { a.shiftPeriod(1); return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		when: always,
		do:   (*App).toggleTheme,
	},
	{
		key:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss")),
		when: func(a *App) bool { return a.notify.Len() > 0 },
		do:   func(a *App) tea.Cmd { return a.notify.DismissNewest() },
	},
	{
		key:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export PNG")),
		when: func(a *App) bool { return a.renderer.Visible() },
		do:   (*App).export,
	},
	{
		key:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "debug")),
		when: always,
		do:   func(a *App) tea.Cmd { a.debugVisible = !a.debugVisible; return nil },
	},
	{
		key:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		when: always,
		do:   func(a *App) tea.Cmd { a.showHelp = !a.showHelp; return nil },
	},
}

// dispatch runs the first matching binding. ok is false when nothing
// matched, so the key can go to the dashboard viewport.
func (a *App) dispatch(msg tea.KeyMsg) (cmd tea.Cmd, ok bool) {
	for _, b := range keyTable {
		if key.Matches(msg, b.key) && b.when(a) {
			return b.do(a), true
		}
	}
	return nil, false
}

// keyMap adapts the table to bubbles/help, listing only bindings usable
// right now and each key once.
type keyMap struct {
	app *App
}

func (k keyMap) available() []key.Binding {
	seen := make(map[string]bool)
	var out []key.Binding
	for _, b := range keyTable {
		h := b.key.Help().Key
		if seen[h] || !b.when(k.app) {
			continue
		}
		seen[h] = true
		out = append(out, b.key)
	}
	return out
}

func (k keyMap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, b := range k.available() {
		switch b.Help().Key {
		case "tab", "a", "enter", "t", "?", "q":
			out = append(out, b)
		}
	}
	return out
}

func (k keyMap) FullHelp() [][]key.Binding {
	all := k.available()
	var cols [][]key.Binding
	for len(all) > 0 {
		n := min(len(all), 6)
		cols = append(cols, all[:n])
		all = all[n:]
	}
	return cols
}
