package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maxvaer/goforce/internal/config"
	"github.com/maxvaer/goforce/internal/runner"
	"github.com/maxvaer/goforce/internal/scanner"
)

type entryProber struct{}

func (entryProber) Probe(_ context.Context, item scanner.WorkItem) scanner.Outcome {
	if item.Kind != scanner.KindURI {
		return scanner.Outcome{Item: item, Reason: scanner.ReasonNotFound}
	}
	return scanner.Outcome{
		Item:    item,
		Reason:  scanner.ReasonFound,
		Finding: scanner.Finding{ID: item.Target + "/" + item.Entry, Kind: item.Kind, Target: item.Target},
	}
}

func newTestShell(t *testing.T, input string) (*Shell, *bytes.Buffer) {
	t.Helper()
	wl := filepath.Join(t.TempDir(), "wordlist.txt")
	if err := os.WriteFile(wl, []byte("admin\n"), 0644); err != nil {
		t.Fatal(err)
	}
	opts := config.Default()
	opts.Targets = []string{"http://example.test"}
	opts.WordlistPath = wl

	r := runner.New(nil, runner.WithProberFactory(func(config.Options) (scanner.Prober, func(), error) {
		return entryProber{}, nil, nil
	}))
	var out bytes.Buffer
	return New(r, opts, strings.NewReader(input), &out), &out
}

func TestSetters(t *testing.T) {
	s, _ := newTestShell(t, "")
	ctx := context.Background()

	for _, line := range []string{
		"threads 25",
		"timeout 2.5",
		"redirects off",
		"ports 80 8080",
		"auth admin:secret",
		"output report.json",
		"resolver 127.0.0.1:5353",
		"targets a.test b.test",
		"wordlist other.txt",
	} {
		if _, err := s.Exec(ctx, line); err != nil {
			t.Fatalf("Exec(%q): %v", line, err)
		}
	}

	o := s.Options()
	if o.Threads != 25 || o.Timeout != 2500*time.Millisecond || o.FollowRedirects {
		t.Errorf("unexpected performance options: %+v", o)
	}
	if len(o.Ports) != 2 || o.Ports[1] != 8080 {
		t.Errorf("ports = %v", o.Ports)
	}
	if o.Auth != "admin:secret" || o.OutputFile != "report.json" || o.Resolver != "127.0.0.1:5353" {
		t.Errorf("unexpected options: %+v", o)
	}
	if len(o.Targets) != 2 || o.WordlistPath != "other.txt" {
		t.Errorf("unexpected targets/wordlist: %+v", o)
	}

	for _, line := range []string{"ports none", "auth none", "output none", "resolver none"} {
		if _, err := s.Exec(ctx, line); err != nil {
			t.Fatalf("Exec(%q): %v", line, err)
		}
	}
	o = s.Options()
	if o.Ports != nil || o.Auth != "" || o.OutputFile != "" || o.Resolver != "" {
		t.Errorf("expected cleared options, got %+v", o)
	}
}

func TestSetterErrors(t *testing.T) {
	s, _ := newTestShell(t, "")
	for _, line := range []string{
		"threads zero",
		"threads 0",
		"timeout never",
		"redirects maybe",
		"ports http",
		"auth nocolon",
		"targets",
		"bogus",
	} {
		if _, err := s.Exec(context.Background(), line); err == nil {
			t.Errorf("Exec(%q): expected error", line)
		}
	}
}

func TestLoopRunAndResults(t *testing.T) {
	s, out := newTestShell(t, "run\nresults\nrun\nexit\nshow\n")
	if err := s.Loop(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if strings.Count(got, "http://example.test/admin") != 1 {
		t.Errorf("expected the finding listed once by results:\n%s", got)
	}
	if strings.Contains(got, "wordlist ") {
		t.Error("commands after exit should not run")
	}
}

func TestLoopEndOfInput(t *testing.T) {
	s, _ := newTestShell(t, "threads 3\n")
	if err := s.Loop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Options().Threads != 3 {
		t.Errorf("threads = %d, want 3", s.Options().Threads)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	s, _ := newTestShell(t, "")
	s.in = pr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Loop(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Loop returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Loop did not return after cancel")
	}
}

func TestSaveWritesReport(t *testing.T) {
	s, _ := newTestShell(t, "")
	ctx := context.Background()
	if _, err := s.Exec(ctx, "run"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.json")
	if _, err := s.Exec(ctx, "save "+path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "http://example.test/admin") {
		t.Errorf("report missing finding: %s", data)
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	s, _ := newTestShell(t, "")
	ctx := context.Background()
	if _, err := s.Exec(ctx, "wordlist /nonexistent/words.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Exec(ctx, "run"); err == nil {
		t.Fatal("expected run to fail validation")
	}
}

func TestHistoryAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultHistoryFile)
	h := NewHistory(path)

	s, _ := newTestShell(t, "threads 4\nshow\n")
	s.WithHistory(h)
	if err := s.Loop(context.Background()); err != nil {
		t.Fatal(err)
	}
	s2, _ := newTestShell(t, "help\n")
	s2.WithHistory(h)
	if err := s2.Loop(context.Background()); err != nil {
		t.Fatal(err)
	}

	lines, err := h.Lines()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"threads 4", "show", "help"}
	if len(lines) != len(want) {
		t.Fatalf("history = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestHistoryMissingFile(t *testing.T) {
	lines, err := NewHistory(filepath.Join(t.TempDir(), "none")).Lines()
	if err != nil || lines != nil {
		t.Errorf("Lines() = %v, %v; want empty", lines, err)
	}
}
