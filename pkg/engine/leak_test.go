//go:build test

package engine

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
)

var leakQueries = []string{
	"p", "pa", "par", "pars", "parse",
	"r", "re", "ren", "rend", "render",
	"q", "qu", "que", "quer", "query",
}

func memDelta(baseline runtime.MemStats) int64 {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return int64(m.Alloc) - int64(baseline.Alloc)
}

func baselineStats() (runtime.MemStats, int) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return m, runtime.NumGoroutine()
}

func TestMemoryStableAcrossQueries(t *testing.T) {
	e := newEngine(project(t))
	if _, err := e.Rebuild(); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	for _, iterations := range []int{100, 1000, 5000} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			baseline, goroutines := baselineStats()
			for i := 0; i < iterations; i++ {
				for _, q := range leakQueries {
					_ = e.Complete(q, 10)
				}
			}
			delta := memDelta(baseline)
			ops := iterations * len(leakQueries)
			perOp := float64(delta) / float64(ops)
			t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f", iterations, ops, delta, perOp)

			if perOp > 1000 {
				t.Errorf("excessive memory usage per operation: %.2f bytes", perOp)
			}
			if d := runtime.NumGoroutine() - goroutines; d > 2 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", d)
			}
		})
	}
}

func TestMemoryStableAcrossRebuilds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long-running rebuild test in short mode")
	}
	e := newEngine(project(t))
	if _, err := e.Rebuild(); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	baseline, goroutines := baselineStats()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				_ = e.Complete(leakQueries[i%len(leakQueries)], 10)
			}
		}()
	}
	for cycle := 0; cycle < 50; cycle++ {
		if _, err := e.Rebuild(); err != nil {
			t.Fatalf("rebuild failed: %v", err)
		}
	}
	wg.Wait()

	delta := memDelta(baseline)
	t.Logf("rebuilds=50 mem_delta=%d bytes", delta)
	if delta > 10*1024*1024 {
		t.Errorf("old snapshots retained: %d bytes", delta)
	}
	if d := runtime.NumGoroutine() - goroutines; d > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", d)
	}
}
