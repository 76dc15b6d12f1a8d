package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/maxvaer/goforce/internal/config"
	"github.com/maxvaer/goforce/internal/findings"
	"github.com/maxvaer/goforce/internal/netutil"
	"github.com/maxvaer/goforce/internal/output"
	"github.com/maxvaer/goforce/internal/scanner"
	"github.com/maxvaer/goforce/internal/wordlist"
)

// ProberFactory builds the prober used for one run.
type ProberFactory func(opts config.Options) (scanner.Prober, func(), error)

// Runner drives runs against targets and accumulates findings across
// them. The finding set lives as long as the Runner, so repeated runs
// report each identifier once.
type Runner struct {
	set       *findings.Set
	reporter  output.Reporter
	newProber ProberFactory
}

// Option customizes a Runner.
type Option func(*Runner)

// WithProberFactory replaces the network prober, mainly for tests.
func WithProberFactory(f ProberFactory) Option {
	return func(r *Runner) { r.newProber = f }
}

// New creates a Runner reporting through reporter. A nil reporter
// discards all events.
func New(reporter output.Reporter, opts ...Option) *Runner {
	if reporter == nil {
		reporter = output.Nop{}
	}
	r := &Runner{
		set:       findings.NewSet(),
		reporter:  reporter,
		newProber: defaultProber,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func defaultProber(opts config.Options) (scanner.Prober, func(), error) {
	c := scanner.NewChecker(opts)
	return c, c.Close, nil
}

// Findings returns the set accumulated across every run so far.
func (r *Runner) Findings() *findings.Set { return r.set }

// Run probes every target with every wordlist entry and every probe kind
// using a single pool of opts.Threads workers. It blocks until all
// dispatched probes have returned and then returns a snapshot of the
// accumulated set. A canceled ctx stops dispatch; the snapshot is still
// returned alongside ctx's error.
func (r *Runner) Run(ctx context.Context, opts config.Options) ([]string, error) {
	opts = opts.Clone()

	targets, err := netutil.ResolveTargets(opts.Targets, opts.Ports)
	if err != nil {
		return nil, err
	}

	prober, closeProber, err := r.newProber(opts)
	if err != nil {
		return nil, fmt.Errorf("creating prober: %w", err)
	}
	if closeProber != nil {
		defer closeProber()
	}

	r.reporter.RunStarted(targets)
	start := time.Now()

	items := make(chan scanner.WorkItem, opts.Threads*2)
	go r.dispatch(ctx, opts, targets, items)

	stats := output.Stats{Targets: len(targets)}
	for o := range scanner.RunWorkerPool(ctx, prober, items, scanner.WorkerConfig{Threads: opts.Threads}) {
		stats.Probes++
		if o.Reason.Failed() {
			stats.Errors++
		}
		r.reporter.Probed(o)
		if !o.Found() {
			continue
		}
		if r.set.Add(o.Finding) {
			stats.Findings++
			r.reporter.Found(o.Finding)
		} else {
			stats.Duplicates++
		}
	}

	stats.Duration = time.Since(start)
	if stats.Duration.Seconds() > 0 {
		stats.ProbesPerSec = float64(stats.Probes) / stats.Duration.Seconds()
	}
	r.reporter.RunCompleted(stats)

	return r.set.Snapshot(), ctx.Err()
}

// dispatch enumerates (target, entry, kind) work items in target order.
// The wordlist is read once per target; a target whose wordlist cannot be
// read is reported and skipped while the remaining targets continue.
func (r *Runner) dispatch(ctx context.Context, opts config.Options, targets []string, items chan<- scanner.WorkItem) {
	defer close(items)

	for _, target := range targets {
		entries, err := wordlist.Load(opts.WordlistPath)
		if err != nil {
			r.reporter.TargetFailed(target, err)
			continue
		}
		r.reporter.TargetStarted(target, len(entries)*len(scanner.Kinds))

		for _, item := range expandItems(target, entries) {
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
		}
	}
}

// expandItems returns the cross product of entries and probe kinds for one
// target.
func expandItems(target string, entries []string) []scanner.WorkItem {
	items := make([]scanner.WorkItem, 0, len(entries)*len(scanner.Kinds))
	for _, e := range entries {
		for _, k := range scanner.Kinds {
			items = append(items, scanner.WorkItem{Target: target, Entry: e, Kind: k})
		}
	}
	return items
}

// Execute runs once and, when opts.OutputFile is set, writes the snapshot
// as a JSON report. A failed report write is returned but the findings stay
// in the Runner's set.
func (r *Runner) Execute(ctx context.Context, opts config.Options) ([]string, error) {
	ids, runErr := r.Run(ctx, opts)
	if opts.OutputFile != "" && ids != nil {
		if err := output.WriteJSON(opts.OutputFile, ids); err != nil {
			return ids, fmt.Errorf("saving report: %w", err)
		}
	}
	return ids, runErr
}
