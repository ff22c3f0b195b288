package compute

import (
	"sync/atomic"
	"testing"
)

func TestRangeCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 100, MinChunk*2 - 1, MinChunk * 2, 10007} {
		for _, workers := range []int{1, 3, 8} {
			hits := make([]int32, n)
			var chunks atomic.Int32
			NewCPUBackend(workers).Range(n, func(lo, hi int) {
				chunks.Add(1)
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("n=%d workers=%d: index %d visited %d times", n, workers, i, h)
				}
			}
			if n > 0 && chunks.Load() > int32(workers) {
				t.Errorf("n=%d workers=%d: %d chunks", n, workers, chunks.Load())
			}
		}
	}
}

func TestDefaultBackend(t *testing.T) {
	b := GetBackend()
	if b.Name() != "cpu" || b.Workers() < 1 {
		t.Errorf("backend %s with %d workers", b.Name(), b.Workers())
	}

	prev := b
	SetBackend(NewCPUBackend(2))
	defer SetBackend(prev)
	if GetBackend().Workers() != 2 {
		t.Error("SetBackend had no effect")
	}
}
