package routines

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
)

func TestScheduleAndWait(t *testing.T) {
	var workDone [500]atomic.Bool

	pool := NewPool(5)

	for i := range workDone {
		done := &workDone[i]
		pool.Queue(func() {
			done.Store(true)
		})
	}

	pool.Wait()

	for i := range workDone {
		assert.True(t, workDone[i].Load(), "work %d not done", i)
	}
}

func TestConcurrencyIsBounded(t *testing.T) {
	const workers = 3

	var running, maxRunning atomic.Int32

	pool := NewPool(workers)
	for i := 0; i < 30; i++ {
		pool.Queue(func() {
			cur := running.Inc()
			for {
				old := maxRunning.Load()
				if cur <= old || maxRunning.CompareAndSwap(old, cur) {
					break
				}
			}

			time.Sleep(time.Millisecond)
			running.Dec()
		})
	}

	pool.Wait()

	assert.LessOrEqual(t, maxRunning.Load(), int32(workers))
	assert.GreaterOrEqual(t, maxRunning.Load(), int32(1))
}

func TestZeroWorkersRunsSequentially(t *testing.T) {
	var done atomic.Bool

	pool := NewPool(0)
	pool.Queue(func() { done.Store(true) })
	pool.Wait()

	assert.True(t, done.Load())
}

func TestQueuePanicsAfterWait(t *testing.T) {
	pool := NewPool(1)
	pool.Wait()

	assert.Panics(t, func() {
		pool.Queue(func() {})
	})
}

func TestWaitCanBeCalledMultipleTimes(t *testing.T) {
	pool := NewPool(10)
	pool.Wait()
	assert.NotPanics(t, pool.Wait)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
