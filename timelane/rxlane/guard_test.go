package rxlane

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

func Test_guard_fire_OnlyFirstCallerReports(t *testing.T) {
	// arrange
	g := &guard{}
	var reports atomic.Int32
	states := []timelane.EndState{timelane.Completed(), timelane.Errored("x"), timelane.Cancelled()}

	// act
	var wg sync.WaitGroup
	for i := range 60 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.fire(states[i%len(states)], func() { reports.Add(1) })
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), reports.Load())
	assert.False(t, g.terminal().IsZero())
}

func Test_guard_whilePending_SkipsAfterTerminal(t *testing.T) {
	// arrange
	g := &guard{}
	reported := 0

	// act
	g.whilePending(func() { reported++ })
	g.fire(timelane.Cancelled(), func() {})
	g.whilePending(func() { reported++ })

	// assert
	assert.Equal(t, 1, reported)
	assert.Equal(t, "cancelled", g.terminal().String())
}

func Test_guard_fire_ReleasesLockWhenReportPanics(t *testing.T) {
	// arrange
	g := &guard{}

	// act
	assert.Panics(t, func() {
		g.fire(timelane.Completed(), func() { panic("report failed") })
	})

	// assert
	assert.False(t, g.fire(timelane.Cancelled(), func() {}))
	assert.Equal(t, "completed", g.terminal().String())
}
