package model

import "math"

const (
	zoomStep      = 1.5 // discrete zoom actions
	wheelZoomStep = 1.2 // per wheel tick
)

// MaxZoom keeps at least 100 samples of the densest track visible.
func (m *Model) MaxZoom() float64 {
	if m.MaxDuration == 0 {
		return 1.0
	}
	return math.Max(1.0, float64(m.SampleRate)*m.MaxDuration/100)
}

// ZoomIn zooms by the discrete step, anchored on the selection midpoint
// when a selection exists, otherwise on the view midpoint.
func (m *Model) ZoomIn() {
	m.applyZoom(m.ZoomLevel*zoomStep, m.discreteAnchor(), 0.5)
}

// ZoomOut zooms out by the discrete step.
func (m *Model) ZoomOut() {
	m.applyZoom(m.ZoomLevel/zoomStep, m.discreteAnchor(), 0.5)
}

func (m *Model) discreteAnchor() float64 {
	if sel := m.Selection(); sel != nil {
		return (sel.Start + sel.End) / 2
	}
	return (m.ViewStart + m.ViewEnd) / 2
}

// WheelZoom zooms by one wheel tick anchored on the pointer, so the time
// under the cursor stays put. deltaY > 0 zooms in.
func (m *Model) WheelZoom(x int, deltaY float64) {
	if m.WidthPixels <= 0 {
		return
	}
	newZoom := m.ZoomLevel * wheelZoomStep
	if deltaY < 0 {
		newZoom = m.ZoomLevel / wheelZoomStep
	} else if deltaY == 0 {
		return
	}
	anchor := m.PixelToTime(float64(x))
	fraction := float64(x) / float64(m.WidthPixels)
	m.applyZoom(newZoom, anchor, fraction)
}

// applyZoom clamps the requested level, recomputes the window around the
// anchor time at the given fraction of the viewport, and notifies when the
// window moved. A level unchanged after clamping is a no-op so hitting the
// bounds never fires spurious notifications.
func (m *Model) applyZoom(level, anchor, fraction float64) {
	if m.MaxDuration == 0 {
		return
	}
	level = clamp(level, 1.0, m.MaxZoom())
	if level == m.ZoomLevel {
		return
	}
	m.ZoomLevel = level

	if level == 1.0 {
		m.ViewStart, m.ViewEnd = 0, m.MaxDuration
		m.notifyViewChanged()
		return
	}

	visible := m.MaxDuration / level
	m.ViewStart = clamp(anchor-fraction*visible, 0, m.MaxDuration-visible)
	m.ViewEnd = m.ViewStart + visible
	if m.ViewEnd > m.MaxDuration {
		m.ViewStart = m.MaxDuration - visible
		m.ViewEnd = m.MaxDuration
	}
	m.notifyViewChanged()
}

// ZoomToSelection frames the selection with 10% padding on each side and
// derives the zoom level from the resulting window.
func (m *Model) ZoomToSelection() {
	sel := m.Selection()
	if sel == nil || m.MaxDuration == 0 {
		return
	}
	pad := (sel.End - sel.Start) * 0.1
	start := clamp(sel.Start-pad, 0, m.MaxDuration)
	end := clamp(sel.End+pad, 0, m.MaxDuration)
	visible := end - start
	if visible <= 0 {
		return
	}
	// respect the sample-resolution ceiling
	if m.MaxDuration/visible > m.MaxZoom() {
		visible = m.MaxDuration / m.MaxZoom()
		center := (start + end) / 2
		start = clamp(center-visible/2, 0, m.MaxDuration-visible)
		end = start + visible
	}

	level := math.Max(1.0, m.MaxDuration/visible)
	if level == m.ZoomLevel && start == m.ViewStart && end == m.ViewEnd {
		return
	}
	m.ZoomLevel = level
	m.ViewStart, m.ViewEnd = start, end
	m.notifyViewChanged()
}
