package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestTask_StopsWhenTickReturnsFalse(t *testing.T) {
	var ticks int32
	task := Every("count", time.Millisecond, arbor.NewLogger(), func() bool {
		return atomic.AddInt32(&ticks, 1) < 5
	})

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not finish")
	}

	assert.Equal(t, int32(5), atomic.LoadInt32(&ticks))

	// Stop after completion is a no-op
	task.Stop()
	task.Stop()
}

func TestTask_StopCancelsFurtherTicks(t *testing.T) {
	var ticks int32
	task := Every("forever", time.Millisecond, arbor.NewLogger(), func() bool {
		atomic.AddInt32(&ticks, 1)
		return true
	})

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&ticks) >= 2 }, time.Second, time.Millisecond)
	task.Stop()
	<-task.Done()

	after := atomic.LoadInt32(&ticks)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&ticks))
}

func TestTask_StopFromInsideTick(t *testing.T) {
	var task *Task
	started := make(chan struct{})
	task = Every("self-stop", time.Millisecond, arbor.NewLogger(), func() bool {
		<-started
		task.Stop()
		return true
	})
	close(started)

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not stop itself")
	}
}

func TestService_TriggerJobRecordsStatus(t *testing.T) {
	service := NewService(arbor.NewLogger())

	var runs int32
	require.NoError(t, service.RegisterJob("storage_maintenance", "0 */6 * * *", "GC", func() error {
		atomic.AddInt32(&runs, 1)
		return nil
	}))
	require.NoError(t, service.RegisterJob("failing", "0 0 * * *", "fails", func() error {
		return errors.New("boom")
	}))

	require.NoError(t, service.Start())
	defer service.Stop()

	require.NoError(t, service.TriggerJob("storage_maintenance"))
	require.NoError(t, service.TriggerJob("failing"))

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	status, err := service.GetJobStatus("storage_maintenance")
	require.NoError(t, err)
	assert.NotNil(t, status.LastRun)
	assert.NotNil(t, status.NextRun)
	assert.Empty(t, status.LastError)

	status, err = service.GetJobStatus("failing")
	require.NoError(t, err)
	assert.Equal(t, "boom", status.LastError)
}

func TestService_RegisterJobRejectsBadSchedule(t *testing.T) {
	service := NewService(arbor.NewLogger())

	assert.Error(t, service.RegisterJob("bad", "not a schedule", "", func() error { return nil }))
	assert.Error(t, service.TriggerJob("missing"))
}

func TestService_PanickingJobIsRecovered(t *testing.T) {
	service := NewService(arbor.NewLogger())
	require.NoError(t, service.RegisterJob("panics", "0 0 * * *", "", func() error { panic("bad") }))

	require.NoError(t, service.TriggerJob("panics"))

	status, err := service.GetJobStatus("panics")
	require.NoError(t, err)
	assert.False(t, status.IsRunning)
	assert.Contains(t, status.LastError, "panicked")
}
