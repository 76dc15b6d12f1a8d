package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/projectdiscovery/gologger"
	"golang.org/x/term"

	"github.com/maxvaer/goforce/internal/scanner"
)

// Console prints findings to stdout and run events through gologger.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	progress *Progress

	found *color.Color
	kind  *color.Color
	value *color.Color
}

// NewConsole creates the terminal reporter. The live progress line is only
// drawn when stderr is a terminal and silent is false.
func NewConsole(out io.Writer, noColor, silent bool) *Console {
	showProgress := !silent && term.IsTerminal(int(os.Stderr.Fd()))

	c := &Console{
		out:      out,
		progress: NewProgress(os.Stderr, showProgress),
		found:    color.New(color.FgGreen, color.Bold),
		kind:     color.New(color.FgCyan),
		value:    color.New(color.FgYellow),
	}
	if noColor {
		for _, col := range []*color.Color{c.found, c.kind, c.value} {
			col.DisableColor()
		}
	}
	return c
}

// Progress exposes the counters behind the status line.
func (c *Console) Progress() *Progress { return c.progress }

func (c *Console) RunStarted(targets []string) {
	c.progress.Start()
	c.progress.Above(func() {
		gologger.Info().Msgf("Starting run against %d target(s)", len(targets))
	})
}

func (c *Console) TargetStarted(target string, probes int) {
	c.progress.AddTotal(probes)
	c.progress.Above(func() {
		gologger.Info().Msgf("Testing %s...", target)
	})
}

func (c *Console) TargetFailed(target string, err error) {
	c.progress.Above(func() {
		gologger.Error().Msgf("Skipping %s: %v", target, err)
	})
}

func (c *Console) Probed(o scanner.Outcome) {
	c.progress.Increment()
	if !o.Reason.Failed() {
		return
	}
	c.progress.IncrementErrors()
	c.progress.Above(func() {
		gologger.Debug().Label(string(o.Reason)).Msgf("%s %s %q: %v", o.Item.Kind, o.Item.Target, o.Item.Entry, o.Err)
	})
}

func (c *Console) Found(f scanner.Finding) {
	c.progress.IncrementFound()

	line := fmt.Sprintf("%s %s %s", c.found.Sprint("Found:"), f.ID, c.kind.Sprintf("[%s]", f.Kind))
	if f.Value != "" {
		line = fmt.Sprintf("%s %s %s - %s", c.found.Sprint("Found:"), f.ID, c.kind.Sprintf("[%s]", f.Kind), c.value.Sprint(f.Value))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress.Above(func() {
		fmt.Fprintln(c.out, line)
	})
}

func (c *Console) RunCompleted(stats Stats) {
	c.progress.Stop()
	gologger.Info().Msgf("Completed: %d probes on %d target(s) | New findings: %d | Errors: %d | Duration: %s | %.1f probes/s",
		stats.Probes,
		stats.Targets,
		stats.Findings,
		stats.Errors,
		stats.Duration.Round(time.Millisecond),
		stats.ProbesPerSec,
	)
}
