package model

import "math"

// SetPlaybackPosition records the engine-reported position and applies
// the auto-scroll policy: when the cursor crosses 90% of the window the
// view jumps so the cursor sits at 10%, and when the cursor falls behind
// the window the view snaps back to it. A notification fires only when
// the window actually moved, so steady playback inside the window never
// triggers waveform re-fetches.
func (m *Model) SetPlaybackPosition(position float64) {
	if position < 0 {
		position = 0
	}
	m.PlaybackPosition = position

	if !m.AutoScroll || m.ZoomLevel <= 1.0 || m.MaxDuration == 0 {
		return
	}
	visible := m.MaxDuration / m.ZoomLevel

	switch {
	case position > m.ViewStart+0.9*visible:
		newStart := clamp(position-0.1*visible, 0, m.MaxDuration-visible)
		if newStart != m.ViewStart {
			m.ViewStart = newStart
			m.ViewEnd = m.ViewStart + visible
			m.notifyViewChanged()
		}
	case position < m.ViewStart:
		newStart := math.Max(0, position)
		if newStart != m.ViewStart {
			m.ViewStart = newStart
			m.ViewEnd = m.ViewStart + visible
			m.notifyViewChanged()
		}
	}
}

// ClearPlaybackPosition rewinds the displayed cursor to the start.
func (m *Model) ClearPlaybackPosition() {
	m.PlaybackPosition = 0
}
