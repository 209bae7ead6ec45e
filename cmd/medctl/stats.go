package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
)

// flowStats aggregates one acquisition flow.
type flowStats struct {
	Flow      string
	Started   int
	Completed int
	Failed    int
	Rejected  int
	AvgMs     float64
	LastTotal int
	LastSrc   string
	LastAt    time.Time
}

// journalStats is the summary printed by the stats command.
type journalStats struct {
	Events   int
	Sessions int
	First    time.Time
	Last     time.Time
	Flows    []flowStats
	Renders  int
	Exports  int
	Notices  int
	Errors   int
	ByStatus map[int]int
}

func summarize(records []eventRecord) journalStats {
	s := journalStats{Events: len(records), ByStatus: map[int]int{}}
	if len(records) == 0 {
		return s
	}
	s.First, s.Last = records[0].Time, records[len(records)-1].Time
	s.Sessions = lo.CountBy(records, func(ev eventRecord) bool { return ev.Kind == "sys.startup" })

	for _, ev := range records {
		switch ev.Kind {
		case "render.complete":
			s.Renders++
		case "render.export":
			s.Exports++
		case "notify.show":
			s.Notices++
		}
		if ev.Level == "error" {
			s.Errors++
		}
		if ev.Status > 0 {
			s.ByStatus[ev.Status]++
		}
	}

	byFlow := lo.GroupBy(lo.Filter(records, func(ev eventRecord, _ int) bool { return ev.Flow != "" }),
		func(ev eventRecord) string { return ev.Flow })
	for flow, evs := range byFlow {
		fs := flowStats{Flow: flow}
		var totalMs float64
		var timed int
		for _, ev := range evs {
			switch ev.Kind {
			case "acquire.start":
				fs.Started++
			case "acquire.complete":
				fs.Completed++
				fs.LastTotal, fs.LastSrc, fs.LastAt = ev.Count, ev.Source, ev.Time
			case "acquire.error":
				fs.Failed++
			case "acquire.rejected":
				fs.Rejected++
			}
			if ev.DurMs > 0 {
				totalMs += ev.DurMs
				timed++
			}
		}
		if timed > 0 {
			fs.AvgMs = totalMs / float64(timed)
		}
		s.Flows = append(s.Flows, fs)
	}
	sort.Slice(s.Flows, func(i, j int) bool { return s.Flows[i].Flow < s.Flows[j].Flow })
	return s
}

func runStats(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	since := fs.Duration("since", 0, "Only count events newer than this (e.g. 24h)")
	fs.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := os.Open(cfg.EventsPath())
	if err != nil {
		return fmt.Errorf("open event journal: %w", err)
	}
	defer f.Close()

	match := func(eventRecord) bool { return true }
	if *since > 0 {
		cutoff := time.Now().Add(-*since)
		match = func(ev eventRecord) bool { return ev.Time.After(cutoff) }
	}
	lines := readTailLines(f, 0, match)
	records := lo.Map(lines, func(l parsedLine, _ int) eventRecord { return l.ev })

	printStats(out, summarize(records))
	return nil
}

func printStats(out io.Writer, s journalStats) {
	fmt.Fprintf(out, "Events:                %s\n", humanize.Comma(int64(s.Events)))
	if s.Events == 0 {
		return
	}
	fmt.Fprintf(out, "Sessions:              %d\n", s.Sessions)
	fmt.Fprintf(out, "First event:           %s\n", humanize.Time(s.First))
	fmt.Fprintf(out, "Last event:            %s\n", humanize.Time(s.Last))
	fmt.Fprintf(out, "Renders:               %d\n", s.Renders)
	fmt.Fprintf(out, "Exports:               %d\n", s.Exports)
	fmt.Fprintf(out, "Notifications:         %d\n", s.Notices)
	fmt.Fprintf(out, "Errors:                %d\n", s.Errors)

	if len(s.Flows) > 0 {
		fmt.Fprintf(out, "\nAcquisitions (%d flows):\n", len(s.Flows))
		fmt.Fprintf(out, "  %-8s %7s %9s %6s %8s %9s\n", "flow", "started", "completed", "failed", "rejected", "avg")
		for _, f := range s.Flows {
			fmt.Fprintf(out, "  %-8s %7d %9d %6d %8d %7.0fms\n",
				f.Flow, f.Started, f.Completed, f.Failed, f.Rejected, f.AvgMs)
		}
		for _, f := range s.Flows {
			if f.Completed > 0 {
				fmt.Fprintf(out, "  last %s: %s patients from %s (%s)\n",
					f.Flow, humanize.Comma(int64(f.LastTotal)), f.LastSrc, humanize.Time(f.LastAt))
			}
		}
	}

	if len(s.ByStatus) > 0 {
		codes := lo.Keys(s.ByStatus)
		sort.Ints(codes)
		fmt.Fprintln(out, "\nHTTP failures:")
		for _, code := range codes {
			fmt.Fprintf(out, "  %d  %d\n", code, s.ByStatus[code])
		}
	}
}
