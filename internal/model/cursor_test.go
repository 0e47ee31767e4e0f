package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoScroll(t *testing.T) {
	t.Run("cursor past 90 percent jumps the view", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})
		m.ZoomLevel = 10
		m.ViewStart, m.ViewEnd = 0, 1

		m.SetPlaybackPosition(0.95)

		assert.Greater(t, m.ViewStart, 0.0)
		// cursor lands at 10% of the new window
		assert.InDelta(t, 0.85, m.ViewStart, 1e-9)
		assert.GreaterOrEqual(t, m.PlaybackPosition, m.ViewStart)
		assert.LessOrEqual(t, m.PlaybackPosition, m.ViewEnd)
	})

	t.Run("jump clamps at the timeline end", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})
		m.ZoomLevel = 10
		m.ViewStart, m.ViewEnd = 8.5, 9.5

		m.SetPlaybackPosition(9.8)

		assert.InDelta(t, 9.0, m.ViewStart, 1e-9)
		assert.InDelta(t, 10.0, m.ViewEnd, 1e-9)
	})

	t.Run("cursor behind the window snaps back", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})
		m.ZoomLevel = 10
		m.ViewStart, m.ViewEnd = 5, 6

		m.SetPlaybackPosition(2)

		assert.InDelta(t, 2.0, m.ViewStart, 1e-9)
		assert.InDelta(t, 3.0, m.ViewEnd, 1e-9)
	})

	t.Run("disabled auto-scroll leaves the window alone", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})
		m.AutoScroll = false
		m.ZoomLevel = 10
		m.ViewStart, m.ViewEnd = 0, 1

		m.SetPlaybackPosition(5)

		assert.Equal(t, 0.0, m.ViewStart)
		assert.Equal(t, 5.0, m.PlaybackPosition)
	})

	t.Run("no scrolling at unity zoom", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})
		m.SetPlaybackPosition(9.9)
		assert.Equal(t, 0.0, m.ViewStart)
	})

	t.Run("steady playback inside the window is silent", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})
		m.ZoomLevel = 10
		m.ViewStart, m.ViewEnd = 0, 1
		calls := 0
		m.OnViewChanged(func() { calls++ })

		m.SetPlaybackPosition(0.2)
		m.SetPlaybackPosition(0.5)
		m.SetPlaybackPosition(0.89)
		assert.Equal(t, 0, calls)

		m.SetPlaybackPosition(0.95)
		assert.Equal(t, 1, calls)
	})

	t.Run("negative positions clamp to zero", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})
		m.SetPlaybackPosition(-1)
		assert.Equal(t, 0.0, m.PlaybackPosition)
	})
}
