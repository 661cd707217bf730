// Package debounce holds back a rapidly changing value until it has been
// stable for a fixed delay.
package debounce

import (
	"sync"
	"time"
)

// Option configures a Value
type Option[T any] func(*Value[T])

// WithOnSettle registers fn to run, on the timer goroutine, each time a new value settles
func WithOnSettle[T any](fn func(T)) Option[T] {
	return func(v *Value[T]) {
		v.onSettle = fn
	}
}

// Value exposes the last input that stayed unchanged for the configured delay
type Value[T any] struct {
	mu       sync.Mutex
	delay    time.Duration
	pending  T
	settled  T
	timer    *time.Timer
	gen      uint64
	closed   bool
	onSettle func(T)
}

// New creates a debounced value starting settled at initial
func New[T any](delay time.Duration, initial T, opts ...Option[T]) *Value[T] {
	v := &Value[T]{
		delay:   delay,
		pending: initial,
		settled: initial,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Set records a new input. Any pending update is superseded and the delay restarts.
// After Close, Set is ignored.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()

	if v.closed {
		v.mu.Unlock()
		return
	}

	v.pending = value
	v.gen++

	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}

	if v.delay <= 0 {
		v.settled = value
		onSettle := v.onSettle
		v.mu.Unlock()
		if onSettle != nil {
			onSettle(value)
		}
		return
	}

	gen := v.gen
	v.timer = time.AfterFunc(v.delay, func() { v.fire(gen) })
	v.mu.Unlock()
}

// fire settles the pending value unless a later Set or Close superseded this timer
func (v *Value[T]) fire(gen uint64) {
	v.mu.Lock()
	if v.closed || gen != v.gen {
		v.mu.Unlock()
		return
	}
	v.settled = v.pending
	v.timer = nil
	value := v.settled
	onSettle := v.onSettle
	v.mu.Unlock()

	if onSettle != nil {
		onSettle(value)
	}
}

// Settled returns the last settled value
func (v *Value[T]) Settled() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settled
}

// Pending returns the most recent input, settled or not
func (v *Value[T]) Pending() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending
}

// Close cancels the pending update; no settle fires afterwards
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	v.gen++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}
