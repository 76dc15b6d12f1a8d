package output

import (
	"time"

	"github.com/maxvaer/goforce/internal/scanner"
)

// Stats holds aggregate statistics for one run.
type Stats struct {
	Targets      int
	Probes       int
	Errors       int
	Findings     int // new findings reported during this run
	Duplicates   int // findings already present in the set
	Duration     time.Duration
	ProbesPerSec float64
}

// Reporter is the event sink the runner reports through. Implementations
// must be safe for concurrent use.
type Reporter interface {
	RunStarted(targets []string)
	TargetStarted(target string, probes int)
	TargetFailed(target string, err error)
	Probed(o scanner.Outcome) // every outcome, found or not
	Found(f scanner.Finding)
	RunCompleted(stats Stats)
}

// Nop ignores every event. Embed it to implement only the events you need.
type Nop struct{}

func (Nop) RunStarted([]string) {}
func (Nop) TargetStarted(string, int) {}
func (Nop) TargetFailed(string, error) {}
func (Nop) Probed(scanner.Outcome) {}
func (Nop) Found(scanner.Finding) {}
func (Nop) RunCompleted(Stats) {}

// Multi fans every event out to each reporter in order.
func Multi(reporters ...Reporter) Reporter {
	return multi(reporters)
}

type multi []Reporter

func (m multi) RunStarted(targets []string) {
	for _, r := range m {
		r.RunStarted(targets)
	}
}

func (m multi) TargetStarted(target string, probes int) {
	for _, r := range m {
		r.TargetStarted(target, probes)
	}
}

func (m multi) TargetFailed(target string, err error) {
	for _, r := range m {
		r.TargetFailed(target, err)
	}
}

func (m multi) Probed(o scanner.Outcome) {
	for _, r := range m {
		r.Probed(o)
	}
}

func (m multi) Found(f scanner.Finding) {
	for _, r := range m {
		r.Found(f)
	}
}

func (m multi) RunCompleted(stats Stats) {
	for _, r := range m {
		r.RunCompleted(stats)
	}
}
