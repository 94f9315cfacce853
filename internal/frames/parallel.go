package frames

import (
	"context"
	"runtime"
	"sync"
)

// LoadAll parses every frame, spreading the files over up to workers
// goroutines. Frames land in the cache as a side effect, so a cache smaller
// than Count keeps only the most recently parsed ones.
func (s *Source) LoadAll(ctx context.Context, workers int) ([]*Frame, error) {
	n := len(s.files)
	out := make([]*Frame, n)
	errs := make([]error, n)

	parallelFor(n, workers, func(start, end int) {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			out[i], errs[i] = s.Load(i)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// parallelFor splits [0, n) into contiguous chunks, one per worker.
func parallelFor(n, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
