package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	before := GetSpawnedCount()
	done := make(chan struct{})

	SafeGo(arbor.NewLogger(), "panicking", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not run")
	}

	assert.Equal(t, before+1, GetSpawnedCount())
	assert.Eventually(t, func() bool { return GetGoroutineCount() >= 0 }, time.Second, 10*time.Millisecond)
}
