package compute

import (
	"runtime"
	"sync"
)

// MinChunk is the smallest chunk worth handing to a goroutine.
const MinChunk = 256

type CPUBackend struct {
	workers int
}

// NewCPUBackend uses one worker per CPU when workers is not positive.
func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) Range(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if c.workers == 1 || n < 2*MinChunk {
		fn(0, n)
		return
	}

	chunkSize := max((n+c.workers-1)/c.workers, MinChunk)

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(start, end)
	}
	wg.Wait()
}
