package findings

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/maxvaer/goforce/internal/scanner"
)

func TestTryAddIdempotent(t *testing.T) {
	s := NewSet()
	if !s.TryAdd("a") {
		t.Fatal("first TryAdd should return true")
	}
	if s.TryAdd("a") {
		t.Fatal("second TryAdd should return false")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestTryAddConcurrentSameID(t *testing.T) {
	s := NewSet()
	const n = 200

	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if s.TryAdd("http://example.test/admin") {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("expected exactly 1 winning TryAdd, got %d", wins.Load())
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestConcurrentStressDistinct(t *testing.T) {
	s := NewSet()
	const workers, distinct = 16, 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < distinct; i++ {
				s.TryAdd(fmt.Sprintf("id-%d", i))
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if len(snap) != distinct {
		t.Fatalf("snapshot has %d entries, want %d", len(snap), distinct)
	}
	seen := make(map[string]bool, len(snap))
	for _, id := range snap {
		if seen[id] {
			t.Errorf("duplicate entry %q in snapshot", id)
		}
		seen[id] = true
	}
}

func TestAddKeepsFirstFinding(t *testing.T) {
	s := NewSet()
	s.Add(scanner.Finding{ID: "dev.example.test", Value: "10.0.0.1", Kind: scanner.KindDNS})
	if s.Add(scanner.Finding{ID: "dev.example.test", Kind: scanner.KindVHost}) {
		t.Fatal("duplicate ID from another kind should not be added")
	}

	got := s.Findings()
	if len(got) != 1 || got[0].Kind != scanner.KindDNS || got[0].Value != "10.0.0.1" {
		t.Errorf("unexpected findings %+v", got)
	}
	if !s.Contains("dev.example.test") || s.Contains("other") {
		t.Error("Contains returned wrong membership")
	}
}

func TestSnapshotSorted(t *testing.T) {
	s := NewSet()
	for _, id := range []string{"c", "a", "b"} {
		s.TryAdd(id)
	}
	snap := s.Snapshot()
	if snap[0] != "a" || snap[1] != "b" || snap[2] != "c" {
		t.Errorf("Snapshot() = %v, want sorted", snap)
	}
}
