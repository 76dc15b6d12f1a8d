package output

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Progress tracks probe counters and, when enabled, keeps a live status
// line at the bottom of w.
type Progress struct {
	total     atomic.Int64
	completed atomic.Int64
	errors    atomic.Int64
	found     atomic.Int64

	mu      sync.Mutex
	w       io.Writer
	enabled bool
	active  bool
	start   time.Time
	done    chan struct{}
	stopped chan struct{}
}

// NewProgress creates a progress tracker. Nothing is drawn unless enabled.
func NewProgress(w io.Writer, enabled bool) *Progress {
	return &Progress{w: w, enabled: enabled}
}

// Start resets the counters and begins periodic redraws.
func (p *Progress) Start() {
	p.total.Store(0)
	p.completed.Store(0)
	p.errors.Store(0)
	p.found.Store(0)

	p.mu.Lock()
	p.start = time.Now()
	if !p.enabled || p.active {
		p.mu.Unlock()
		return
	}
	p.active = true
	p.done = make(chan struct{})
	p.stopped = make(chan struct{})
	done, stopped := p.done, p.stopped
	p.mu.Unlock()

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Redraw()
			case <-done:
				return
			}
		}
	}()
}

// AddTotal grows the expected number of probes.
func (p *Progress) AddTotal(n int) { p.total.Add(int64(n)) }

// Increment records a completed probe.
func (p *Progress) Increment() { p.completed.Add(1) }

// IncrementErrors records a failed probe.
func (p *Progress) IncrementErrors() { p.errors.Add(1) }

// IncrementFound records a new finding.
func (p *Progress) IncrementFound() { p.found.Add(1) }

// Above runs fn with the status line cleared so its output is not
// interleaved with the progress display.
func (p *Progress) Above(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		fmt.Fprint(p.w, "\r\033[K")
	}
	fn()
	if p.active {
		p.draw()
	}
}

// Redraw repaints the status line.
func (p *Progress) Redraw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		p.draw()
	}
}

// Stop ends the live display and clears the status line.
func (p *Progress) Stop() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	close(p.done)
	stopped := p.stopped
	fmt.Fprint(p.w, "\r\033[K")
	p.mu.Unlock()
	<-stopped
}

func (p *Progress) draw() {
	completed := p.completed.Load()
	total := p.total.Load()
	elapsed := time.Since(p.start).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(completed) / elapsed
	}

	pct := float64(0)
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}

	eta := ""
	if rate > 0 && completed < total {
		remaining := float64(total-completed) / rate
		eta = fmt.Sprintf("ETA: %s", time.Duration(remaining*float64(time.Second)).Round(time.Second))
	}

	fmt.Fprintf(p.w, "\r\033[K[%3.0f%%] %d/%d | %.0f probes/s | Found: %d | Errors: %d | %s",
		pct, completed, total, rate,
		p.found.Load(), p.errors.Load(), eta)
}
