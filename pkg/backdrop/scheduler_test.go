package backdrop

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualSchedulerOrderAndCancel(t *testing.T) {
	s := NewManualScheduler()
	var order []int
	s.RequestFrame(func() { order = append(order, 1) })
	cancel := s.RequestFrame(func() { order = append(order, 2) })
	s.RequestFrame(func() { order = append(order, 3) })

	cancel()
	cancel() // 重复取消无副作用
	assert.Equal(t, 2, s.Pending())

	assert.Equal(t, 2, s.Advance())
	assert.Equal(t, []int{1, 3}, order)
	assert.Equal(t, 0, s.Pending())
}

func TestManualSchedulerReRequestRunsNextAdvance(t *testing.T) {
	s := NewManualScheduler()
	calls := 0
	var fn func()
	fn = func() {
		calls++
		s.RequestFrame(fn)
	}
	s.RequestFrame(fn)

	assert.Equal(t, 1, s.Advance(), "a frame requested inside a callback waits for the next advance")
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 3, s.Run(3))
	assert.Equal(t, 4, calls)
}

func TestTickerScheduler(t *testing.T) {
	assert.Equal(t, time.Second/60, NewTickerScheduler(0).Interval())
	s := NewTickerScheduler(200)
	assert.Equal(t, 5*time.Millisecond, s.Interval())

	var fired atomic.Int32
	s.RequestFrame(func() { fired.Add(1) })
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)

	cancel := s.RequestFrame(func() { fired.Add(1) })
	cancel()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "cancelled frame must not run")
}
