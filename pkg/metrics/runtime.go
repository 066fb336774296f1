package metrics

import (
	"runtime"
)

// SampleRuntime updates the system gauges from runtime statistics.
// lastNumGC is the GC count seen by the previous call; the new count is returned.
func SampleRuntime(lastNumGC uint32) uint32 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	UpdateSystemMemoryUsage(ms.HeapAlloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// PauseNs is a circular buffer of the most recent 256 pauses.
	n := ms.NumGC - lastNumGC
	if n > uint32(len(ms.PauseNs)) {
		n = uint32(len(ms.PauseNs))
	}
	for i := uint32(0); i < n; i++ {
		idx := (ms.NumGC - i + 255) % uint32(len(ms.PauseNs))
		RecordSystemGCPauseTime(float64(ms.PauseNs[idx]) / 1e6)
	}
	return ms.NumGC
}
