package navfunnel

import "sync"

// task runs fn over data on up to workersCount goroutines, one contiguous chunk each, and
// returns once every element is done. fn must only touch its own element.
func task[T any](workersCount int, data []T, fn func(data T)) {
	dataSize := len(data)
	if dataSize == 0 {
		return
	}

	workersCount = min(max(workersCount, 1), dataSize)
	if workersCount == 1 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for start := 0; start < dataSize; start += chunkSize {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, min(start+chunkSize, dataSize))
	}
	wg.Wait()
}
