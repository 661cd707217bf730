package common

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/ternarybob/arbor"
)

var (
	spawned atomic.Int64
	running atomic.Int64
)

// GetGoroutineCount returns how many SafeGo goroutines are still running
func GetGoroutineCount() int64 {
	return running.Load()
}

// GetSpawnedCount returns how many goroutines SafeGo has started since launch
func GetSpawnedCount() int64 {
	return spawned.Load()
}

// SafeGo starts fn on its own goroutine. A panic is logged under name and swallowed.
func SafeGo(logger arbor.ILogger, name string, fn func()) {
	spawned.Add(1)
	running.Add(1)

	go func() {
		defer running.Add(-1)
		defer Recover(logger, name)
		fn()
	}()
}

// Recover logs a recovered panic. Call it directly from a defer.
func Recover(logger arbor.ILogger, name string) {
	r := recover()
	if r == nil {
		return
	}

	stack := make([]byte, 4096)
	stack = stack[:runtime.Stack(stack, false)]

	if logger == nil {
		fmt.Fprintf(os.Stderr, "panic in %s: %v\n%s\n", name, r, stack)
		return
	}

	logger.Error().
		Str("goroutine", name).
		Str("panic", fmt.Sprint(r)).
		Str("stack", string(stack)).
		Msg("Goroutine panicked, recovered")
}
