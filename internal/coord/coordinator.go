// Package coord runs the dashboard's three acquisition flows.
//
// At most one acquisition is in flight: the loading flag is the mutual
// exclusion signal. Each started flow yields exactly one Result message,
// and Finish is the guaranteed cleanup that clears the flag before routing
// the outcome to the renderer or to the notification channel.
package coord

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/abelbrown/medview/internal/acquire"
	"github.com/abelbrown/medview/internal/analytics"
	"github.com/abelbrown/medview/internal/logging"
	"github.com/abelbrown/medview/internal/notify"
	"github.com/abelbrown/medview/internal/otel"
	"github.com/abelbrown/medview/internal/staging"
)

// Client performs the backend calls (interface for testing).
type Client interface {
	Upload(ctx context.Context, files []staging.StagedFile) (*analytics.Payload, error)
	FetchRemote(ctx context.Context, period string) (*analytics.Payload, error)
	Sample(ctx context.Context) (*analytics.Payload, error)
}

// Renderer receives successful payloads.
type Renderer interface {
	Render(p *analytics.Payload) error
}

// Result is the message every acquisition command yields.
type Result struct {
	Flow    acquire.Flow
	Source  string
	Payload *analytics.Payload
	Err     error
	Dur     time.Duration
	seq     int
}

// Coordinator owns the loading flag and the data-source display.
// Only the Update loop calls its methods.
type Coordinator struct {
	ctx      context.Context
	client   Client
	notifier notify.Notifier
	renderer Renderer
	staging  *staging.List
	events   *otel.Logger
	log      *log.Logger

	loading bool
	seq     int
	source  string
	total   int
}

// New wires a coordinator. ctx bounds every network call; list may be nil,
// otherwise it is cleared after a successful upload.
func New(ctx context.Context, client Client, n notify.Notifier, r Renderer, list *staging.List, events *otel.Logger) *Coordinator {
	return &Coordinator{
		ctx:      ctx,
		client:   client,
		notifier: n,
		renderer: r,
		staging:  list,
		events:   events,
		log:      logging.WithPrefix("coord"),
	}
}

// SubmitUpload starts an upload of files. Returns nil when busy or when
// there is nothing to upload.
func (c *Coordinator) SubmitUpload(files []staging.StagedFile) tea.Cmd {
	if len(files) == 0 {
		c.log.Debug("upload ignored, nothing staged")
		return nil
	}
	return c.start(acquire.FlowUpload, acquire.SourceUpload, func(ctx context.Context) (*analytics.Payload, error) {
		return c.client.Upload(ctx, files)
	})
}

// FetchRemote starts a remote fetch for period. Returns nil when busy.
func (c *Coordinator) FetchRemote(period string) tea.Cmd {
	return c.start(acquire.FlowRemote, acquire.RemoteSource(period), func(ctx context.Context) (*analytics.Payload, error) {
		return c.client.FetchRemote(ctx, period)
	})
}

// LoadSample starts loading the sample dataset. Returns nil when busy.
func (c *Coordinator) LoadSample() tea.Cmd {
	return c.start(acquire.FlowSample, acquire.SourceSample, c.client.Sample)
}

func (c *Coordinator) start(flow acquire.Flow, source string, call func(context.Context) (*analytics.Payload, error)) tea.Cmd {
	if c.loading {
		c.log.Warn("acquisition rejected, another is in flight", "flow", flow)
		c.events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindAcquireRejected, Comp: "coord", Flow: string(flow)})
		return nil
	}

	c.loading = true
	c.seq++
	seq := c.seq
	ctx := c.ctx

	c.log.Info("acquisition started", "flow", flow, "source", source)
	c.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindAcquireStart, Comp: "coord", Flow: string(flow), Source: source})

	return func() (msg tea.Msg) {
		start := time.Now()
		res := Result{Flow: flow, Source: source, seq: seq}
		// The flag is cleared in Finish, so a Result must come back even
		// when the call panics.
		defer func() {
			if r := recover(); r != nil {
				res.Payload = nil
				res.Err = fmt.Errorf("%s: panic: %v", flow, r)
			}
			res.Dur = time.Since(start)
			msg = res
		}()
		res.Payload, res.Err = call(ctx)
		return res
	}
}

// Finish consumes a Result. It clears the loading flag first, then either
// raises one "Error: ..." notification or renders the payload and updates
// the data-source display. A payload that breaks the backend contract is
// returned as an error for the caller to propagate. Stale or repeated
// results are ignored.
func (c *Coordinator) Finish(res Result) (tea.Cmd, error) {
	if !c.loading || res.seq != c.seq {
		return nil, nil
	}
	c.loading = false

	ev := otel.Event{Comp: "coord", Flow: string(res.Flow), Source: res.Source, Dur: res.Dur}

	if res.Err == nil {
		res.Err = c.renderer.Render(res.Payload)
		if res.Err == nil {
			c.source = res.Source
			c.total = res.Payload.Total()
			if res.Flow == acquire.FlowUpload && c.staging != nil {
				c.staging.Clear()
			}
			ev.Level, ev.Kind, ev.Count = otel.LevelInfo, otel.KindAcquireComplete, c.total
			c.events.Emit(ev)
			c.log.Info("acquisition complete", "flow", res.Flow, "total_patients", c.total, "dur", res.Dur)
			return nil, nil
		}
	}

	ev.Level, ev.Kind, ev.Err = otel.LevelError, otel.KindAcquireError, res.Err.Error()
	var aerr *acquire.Error
	if errors.As(res.Err, &aerr) {
		ev.Status = aerr.Status
	}
	c.events.Emit(ev)

	if errors.Is(res.Err, analytics.ErrMissingField) {
		c.log.Error("payload violates contract", "flow", res.Flow, "err", res.Err)
		return nil, res.Err
	}

	c.log.Warn("acquisition failed", "flow", res.Flow, "err", res.Err)
	return c.notifier.Notify("Error: " + res.Err.Error()), nil
}

// Loading reports whether an acquisition is in flight.
func (c *Coordinator) Loading() bool {
	return c.loading
}

// Source is the label of the last successfully rendered dataset.
func (c *Coordinator) Source() string {
	return c.source
}

// TotalPatients is total_patients of the last rendered payload.
func (c *Coordinator) TotalPatients() int {
	return c.total
}
