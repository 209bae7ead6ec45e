package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/abelbrown/medview/internal/acquire"
	"github.com/abelbrown/medview/internal/analytics"
	"github.com/abelbrown/medview/internal/config"
	"github.com/abelbrown/medview/internal/otel"
	"github.com/abelbrown/medview/internal/render"
	"github.com/abelbrown/medview/internal/staging"
	"github.com/abelbrown/medview/internal/store"
	"github.com/abelbrown/medview/internal/theme"
)

const exportUsage = "usage: medctl export [-sample | -period P | file" + staging.Extension + " ...] [-out DIR]"

type exportOptions struct {
	period string
	sample bool
	files  []string
	dir    string
	dark   *bool
}

func runExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	period := fs.String("period", "", "ROA API period: day, month, 3months, 6months")
	sample := fs.Bool("sample", false, "Use the backend sample data")
	dir := fs.String("out", "", "Output directory (default: configured export dir)")
	dark := fs.Bool("dark", false, "Force the dark chart style")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), exportUsage)
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := exportOptions{period: *period, sample: *sample, files: fs.Args(), dir: *dir}
	if opts.dir == "" {
		opts.dir = cfg.UI.ExportDir
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "dark" {
			opts.dark = dark
		}
	})
	if opts.dark == nil {
		// Fall back to the dashboard's stored theme
		if st, err := store.Open(cfg.DBPath()); err == nil {
			if th, err := theme.Initialize(st); err == nil {
				d := th.IsDark()
				opts.dark = &d
			}
			st.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := acquire.NewClient(cfg.Backend.BaseURL, cfg.Timeout(), 0)
	paths, source, err := exportCharts(ctx, client, opts, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: wrote %d charts to %s\n", source, len(paths), opts.dir)
	for _, p := range paths {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

// exportCharts acquires one payload, renders it headless and writes the
// non-empty charts as PNG.
func exportCharts(ctx context.Context, client *acquire.Client, opts exportOptions, cfg *config.Config) ([]string, string, error) {
	var (
		payload *analytics.Payload
		source  string
		err     error
	)
	switch {
	case len(opts.files) > 0:
		var files []staging.StagedFile
		for i, path := range opts.files {
			c := staging.FromPath(path)
			if !staging.Valid(c.Name) {
				return nil, "", fmt.Errorf("%s: %s", c.Name, staging.ValidationMessage)
			}
			files = append(files, staging.StagedFile{ID: i + 1, Name: c.Name, Path: c.Path, Size: c.Size})
		}
		payload, err = client.Upload(ctx, files)
		source = acquire.SourceUpload
	case opts.sample:
		payload, err = client.Sample(ctx)
		source = acquire.SourceSample
	default:
		p := opts.period
		if p == "" {
			p = cfg.UI.DefaultPeriod
		}
		payload, err = client.FetchRemote(ctx, p)
		source = acquire.RemoteSource(p)
	}
	if err != nil {
		return nil, "", err
	}

	dark := opts.dark != nil && *opts.dark
	r := render.New(dark, otel.NewNullLogger())
	if err := r.Render(payload); err != nil {
		return nil, "", err
	}
	paths, err := render.Export(ctx, r.Snapshot(), opts.dir, cfg.UI.ChartWidth, cfg.UI.ChartHeight)
	return paths, source, err
}
