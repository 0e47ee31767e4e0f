package model

import (
	"log"
	"math"
	"time"
)

// Drag updates are applied at most ~30 times a second; pointer-move
// events between applications are dropped, not queued.
const dragThrottle = 33 * time.Millisecond

// BeginTrackDrag starts repositioning a track along the timeline. The
// anchor is the pointer x at the press and the track's offset at that
// moment; all later moves are deltas against it.
func (m *Model) BeginTrackDrag(track, anchorX int) {
	if track < 0 || track >= len(m.Tracks) || m.MaxDuration == 0 {
		return
	}
	m.dragging = true
	m.dragTrack = track
	m.dragAnchorX = anchorX
	m.dragAnchor = m.Tracks[track].Offset
	m.dragLastUpdate = time.Time{} // first move applies immediately
}

// UpdateTrackDrag converts the pointer x into a candidate offset and asks
// the engine to persist it. If the engine rejects the offset the model is
// left untouched for this tick; the next throttled tick retries with a
// fresh candidate.
func (m *Model) UpdateTrackDrag(x int) {
	if !m.dragging || m.WidthPixels <= 0 || m.MaxDuration == 0 {
		return
	}
	now := m.now()
	if !m.dragLastUpdate.IsZero() && now.Sub(m.dragLastUpdate) < dragThrottle {
		return
	}

	visible := m.ViewEnd - m.ViewStart
	delta := float64(x-m.dragAnchorX) / float64(m.WidthPixels) * visible
	candidate := math.Max(0, m.dragAnchor+delta)

	if err := m.eng.SetTrackOffset(m.dragTrack, candidate); err != nil {
		log.Printf("track %d offset %.3f rejected: %v", m.dragTrack, candidate, err)
		return
	}
	m.dragLastUpdate = now

	oldMax := m.MaxDuration
	m.Tracks = m.eng.TrackInfo()
	m.MaxDuration = maxExtent(m.Tracks)

	// Follow the growing extent only when the view was pinned to the old
	// end; otherwise keep the window still so the waveform doesn't jump
	// under the pointer mid-drag.
	if m.MaxDuration > oldMax && nearlyEqual(m.ViewEnd, oldMax) {
		m.ViewEnd = m.MaxDuration
		m.deriveZoom()
		m.notifyViewChanged()
	} else {
		m.deriveZoom()
	}
}

// EndTrackDrag leaves the drag state machine; the last applied offset
// stands as-is. The window is reconciled with the final extent here so
// the clamping invariants hold again after the gesture.
func (m *Model) EndTrackDrag() {
	if !m.dragging {
		return
	}
	m.dragging = false

	oldStart, oldEnd := m.ViewStart, m.ViewEnd
	m.updateViewBounds()
	if m.ViewStart != oldStart || m.ViewEnd != oldEnd {
		m.notifyViewChanged()
	}
}

// Dragging reports whether a track drag gesture is in progress.
func (m *Model) Dragging() bool {
	return m.dragging
}

// DragTrack returns the track being dragged, or -1.
func (m *Model) DragTrack() int {
	if !m.dragging {
		return -1
	}
	return m.dragTrack
}
