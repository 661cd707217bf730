package common

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewDocumentID generates a document ID from the upload instant, the filename and a random suffix
// Format: <unix-ms>-<name>-<9 base36 chars>
func NewDocumentID(now time.Time, name string) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + name + "-" + RandomBase36(9)
}

// RandomBase36 returns n random characters from [0-9a-z]
func RandomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
	}
	return string(b)
}

// NewRequestID generates a correlation ID for HTTP requests
func NewRequestID() string {
	return uuid.New().String()
}

// TimeIDSource hands out time-derived IDs that never repeat within a process,
// even when two are requested in the same clock tick.
type TimeIDSource struct {
	mu   sync.Mutex
	last int64
}

// Next returns the nanosecond timestamp of now, bumped past the previous ID if needed
func (s *TimeIDSource) Next(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := now.UnixNano()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return strconv.FormatInt(n, 10)
}
