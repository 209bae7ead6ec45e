package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/medview/internal/acquire"
	"github.com/abelbrown/medview/internal/config"
	"github.com/abelbrown/medview/internal/coord"
	"github.com/abelbrown/medview/internal/logging"
	"github.com/abelbrown/medview/internal/notify"
	"github.com/abelbrown/medview/internal/otel"
	"github.com/abelbrown/medview/internal/render"
	"github.com/abelbrown/medview/internal/staging"
	"github.com/abelbrown/medview/internal/store"
	"github.com/abelbrown/medview/internal/theme"
	"github.com/abelbrown/medview/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "medview: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	// First run: write the defaults so there is a file to edit
	if _, err := os.Stat(config.ConfigPath()); os.IsNotExist(err) {
		if err := config.DefaultConfig().Save(config.ConfigPath()); err != nil {
			log.Printf("Warning: could not write default config: %v", err)
		}
	}

	if err := logging.Init(cfg.DataDir); err != nil {
		log.Printf("Warning: file logging disabled: %v", err)
	}
	defer logging.Close()

	// Event journal + ring buffer for the debug overlay
	eventsFile, err := os.OpenFile(cfg.EventsPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open event journal: %w", err)
	}
	defer eventsFile.Close()
	events := otel.NewLogger(eventsFile)
	defer events.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)
	events.Info(otel.KindStartup, "main", cfg.Backend.BaseURL)

	// Preferences: only the theme flag is persisted
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer st.Close()

	// Theme is read before any chart exists so the first render is styled right.
	th, err := theme.Initialize(st)
	if err != nil {
		logging.Warn("theme preference unreadable, using light", "err", err)
	}

	channel := notify.New(events)
	list := staging.New(channel, events)
	renderer := render.New(th.IsDark(), events)
	client := acquire.NewClient(cfg.Backend.BaseURL, cfg.Timeout(), cfg.MinInterval())
	coordinator := coord.New(ctx, client, channel, renderer, list, events)

	app := ui.NewApp(ui.AppConfig{
		Ctx:         ctx,
		Coord:       coordinator,
		Staging:     list,
		Notify:      channel,
		Renderer:    renderer,
		Theme:       th,
		Events:      events,
		Ring:        ring,
		Period:      cfg.UI.DefaultPeriod,
		ExportDir:   cfg.UI.ExportDir,
		ChartWidth:  cfg.UI.ChartWidth,
		ChartHeight: cfg.UI.ChartHeight,
	})

	logging.Info("starting dashboard", "backend", cfg.Backend.BaseURL, "dark", th.IsDark())

	// Run UI (blocks until quit)
	program := tea.NewProgram(app, tea.WithAltScreen())
	final, err := program.Run()
	events.Info(otel.KindShutdown, "main", "")
	if err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	if m, ok := final.(ui.App); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
