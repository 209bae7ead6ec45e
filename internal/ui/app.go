package ui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/medview/internal/acquire"
	"github.com/abelbrown/medview/internal/coord"
	"github.com/abelbrown/medview/internal/logging"
	"github.com/abelbrown/medview/internal/notify"
	"github.com/abelbrown/medview/internal/otel"
	"github.com/abelbrown/medview/internal/render"
	"github.com/abelbrown/medview/internal/staging"
	"github.com/abelbrown/medview/internal/theme"
	"github.com/abelbrown/medview/internal/ui/tabs"
)

// AppConfig holds the components the root model drives.
type AppConfig struct {
	Ctx      context.Context
	Coord    *coord.Coordinator
	Staging  *staging.List
	Notify   *notify.Channel
	Renderer *render.Renderer
	Theme    *theme.State
	Events   *otel.Logger
	Ring     *otel.RingBuffer

	// Period is the initially selected remote period.
	Period      string
	ExportDir   string
	ChartWidth  int
	ChartHeight int
}

// App is the root Bubble Tea model. It holds no domain state of its own:
// the staging list, coordinator, renderer, notification channel and theme
// are shared components, and App only routes input and messages to them.
type App struct {
	ctx      context.Context
	coord    *coord.Coordinator
	staging  *staging.List
	notify   *notify.Channel
	renderer *render.Renderer
	theme    *theme.State
	events   *otel.Logger
	ring     *otel.RingBuffer

	exportDir   string
	chartWidth  int
	chartHeight int

	tabs    tabs.Selector
	periods []string
	period  int
	cursor  int

	prompt    textinput.Model
	prompting bool
	spinner   spinner.Model
	viewport  viewport.Model
	help      help.Model

	styles       theme.Styles
	showHelp     bool
	debugVisible bool
	width        int
	height       int
	ready        bool
	err          error
}

// NewApp creates the root model and subscribes the renderer to theme
// changes.
func NewApp(cfg AppConfig) App {
	if cfg.Ctx == nil {
		cfg.Ctx = context.Background()
	}
	if cfg.ChartWidth == 0 {
		cfg.ChartWidth = 800
	}
	if cfg.ChartHeight == 0 {
		cfg.ChartHeight = 400
	}

	periods := slices.Clone(acquire.Periods)
	idx := slices.Index(periods, cfg.Period)
	if idx < 0 && cfg.Period != "" {
		periods = append(periods, cfg.Period)
		idx = len(periods) - 1
	}
	idx = max(idx, 0)

	cfg.Theme.Subscribe(cfg.Renderer.ApplyTheme)

	ti := textinput.New()
	ti.Placeholder = "path/to/patient.med (space separated, quote paths with spaces)"
	ti.Prompt = "+ "
	ti.CharLimit = 4096

	s := spinner.New()
	s.Spinner = spinner.Dot

	return App{
		ctx:         cfg.Ctx,
		coord:       cfg.Coord,
		staging:     cfg.Staging,
		notify:      cfg.Notify,
		renderer:    cfg.Renderer,
		theme:       cfg.Theme,
		events:      cfg.Events,
		ring:        cfg.Ring,
		exportDir:   cfg.ExportDir,
		chartWidth:  cfg.ChartWidth,
		chartHeight: cfg.ChartHeight,
		periods:     periods,
		period:      idx,
		prompt:      ti,
		spinner:     s,
		viewport:    viewport.New(80, 10),
		help:        help.New(),
		styles:      theme.NewStyles(cfg.Theme.IsDark()),
	}
}

// Init has nothing to load: the dashboard starts empty.
func (a App) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := a.notify.Update(msg); handled {
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.prompt.Width = max(msg.Width-8, 10)
		a.resizeViewport()
		a.refreshDashboard()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if !a.coord.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case coord.Result:
		cmd, err := a.coord.Finish(msg)
		if err != nil {
			a.err = err
			a.events.Error(otel.KindError, "ui", err)
			logging.Error("fatal payload error", "err", err)
			return a, tea.Quit
		}
		a.cursor = min(a.cursor, max(a.staging.Len()-1, 0))
		a.refreshDashboard()
		return a, cmd

	case exportDone:
		return a, a.finishExport(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.prompting {
		return a.updatePrompt(msg)
	}

	// Dropping files onto the terminal pastes their paths.
	if msg.Paste {
		a.tabs.Activate(tabs.Upload)
		return a, a.addPaths(string(msg.Runes))
	}

	if cmd, ok := a.dispatch(msg); ok {
		return a, cmd
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.closePrompt()
		return a, nil
	case tea.KeyEnter:
		text := a.prompt.Value()
		a.closePrompt()
		return a, a.addPaths(text)
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

func (a *App) openPrompt() tea.Cmd {
	a.prompting = true
	a.prompt.SetValue("")
	return a.prompt.Focus()
}

func (a *App) closePrompt() {
	a.prompting = false
	a.prompt.Blur()
}

// addPaths stages the .med files among the given paths.
func (a *App) addPaths(text string) tea.Cmd {
	added, cmd := a.staging.AddCandidates(staging.CandidatesFromPaste(text))
	if added > 0 {
		logging.Debug("staged files", "added", added, "total", a.staging.Len())
	}
	return cmd
}

func (a *App) removeSelected() tea.Cmd {
	files := a.staging.Files()
	if a.cursor >= len(files) {
		return nil
	}
	a.staging.Remove(files[a.cursor].ID)
	a.cursor = min(a.cursor, max(a.staging.Len()-1, 0))
	return nil
}

func (a *App) moveCursor(delta int) {
	a.cursor = min(max(a.cursor+delta, 0), max(a.staging.Len()-1, 0))
}

func (a *App) shiftPeriod(delta int) {
	n := len(a.periods)
	a.period = (a.period + delta + n) % n
}

// Period returns the selected remote period.
func (a App) Period() string {
	return a.periods[a.period]
}

// acquire starts the spinner alongside an acquisition command. A nil cmd
// means the coordinator rejected the request.
func (a *App) acquire(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *App) toggleTheme() tea.Cmd {
	dark, err := a.theme.Toggle()
	a.styles = theme.NewStyles(dark)
	a.refreshDashboard()
	a.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindThemeToggle, Comp: "ui", Extra: map[string]any{"dark": dark}})
	if err != nil {
		a.events.Error(otel.KindStoreError, "theme", err)
		logging.Warn("theme preference not saved", "err", err)
	}
	return nil
}

func (a *App) export() tea.Cmd {
	charts := a.renderer.Snapshot()
	ctx, dir, w, h := a.ctx, a.exportDir, a.chartWidth, a.chartHeight
	return func() tea.Msg {
		paths, err := render.Export(ctx, charts, dir, w, h)
		return exportDone{Dir: dir, Paths: paths, Err: err}
	}
}

func (a *App) finishExport(msg exportDone) tea.Cmd {
	if msg.Err != nil {
		a.events.Error(otel.KindExportError, "render", msg.Err)
		logging.Warn("chart export failed", "dir", msg.Dir, "err", msg.Err)
		return a.notify.Notify("Error: " + msg.Err.Error())
	}
	a.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindExport, Comp: "render", Count: len(msg.Paths), Msg: msg.Dir})
	return a.notify.Notify(fmt.Sprintf("Exported %d charts to %s", len(msg.Paths), msg.Dir))
}

// Err returns the error that stopped the program, if any.
func (a App) Err() error {
	return a.err
}

// now is replaced in tests.
var now = time.Now
