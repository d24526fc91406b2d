package timers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFires(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	var fired atomic.Int32
	r.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) })

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// The handle is gone after firing.
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Cancel("a"))
}

func TestCancelPreventsFire(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	var fired atomic.Int32
	r.Schedule("a", 20*time.Millisecond, func() { fired.Add(1) })

	assert.True(t, r.Cancel("a"))
	assert.Equal(t, 0, r.Len())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestScheduleReplacesSameID(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	var first, second atomic.Int32
	r.Schedule("a", 20*time.Millisecond, func() { first.Add(1) })
	r.Schedule("a", 20*time.Millisecond, func() { second.Add(1) })

	assert.Equal(t, 1, r.Len())

	require.Eventually(t, func() bool {
		return second.Load() == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestCancelAll(t *testing.T) {
	r := NewRegistry()
	defer r.Stop()

	var fired atomic.Int32
	for _, id := range []string{"a", "b", "c"} {
		r.Schedule(id, 20*time.Millisecond, func() { fired.Add(1) })
	}
	require.Equal(t, 3, r.Len())

	r.CancelAll()
	assert.Equal(t, 0, r.Len())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestStopRejectsNewTimers(t *testing.T) {
	r := NewRegistry()

	var fired atomic.Int32
	r.Schedule("a", 20*time.Millisecond, func() { fired.Add(1) })
	r.Stop()

	r.Schedule("b", time.Millisecond, func() { fired.Add(1) })
	assert.Equal(t, 0, r.Len())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
