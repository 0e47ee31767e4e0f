package model

import (
	"fmt"
	"math"
	"time"

	"github.com/schollz/wavedeck/internal/types"
)

// Engine is the slice of the audio engine the timeline model needs:
// persisting a track offset during a drag and re-reading the layout
// afterwards. The full client lives in internal/engine; injecting the
// narrow interface keeps the model free of audio concerns.
type Engine interface {
	SetTrackOffset(track int, offset float64) error
	TrackInfo() []types.TrackInfo
}

// Model is the timeline viewport state: zoom, visible window, selection,
// playback cursor and the engine-owned track layout mirror. It has a
// single writer (the event loop) and raises a view-changed notification
// whenever the visible window moves, so the shell can re-fetch waveform
// data for the new window.
type Model struct {
	ZoomLevel        float64
	ViewStart        float64 // seconds
	ViewEnd          float64 // seconds
	MaxDuration      float64 // max(offset+duration) over tracks, 0 when empty
	PlaybackPosition float64
	AutoScroll       bool
	Tracks           []types.TrackInfo
	SampleRate       int // highest track rate, drives the zoom ceiling
	WidthPixels      int // waveform area width in cells

	// selection gesture
	selStart  float64
	selEnd    float64
	selActive bool
	selecting bool
	selTracks map[int]struct{}

	// track drag gesture
	dragging       bool
	dragTrack      int
	dragAnchorX    int
	dragAnchor     float64 // track offset at pointer-down
	dragLastUpdate time.Time

	eng       Engine
	listeners []func()
	now       func() time.Time // swapped out in tests
}

// NewModel returns an empty timeline bound to the given engine client.
func NewModel(eng Engine) *Model {
	return &Model{
		ZoomLevel:  1.0,
		AutoScroll: true,
		SampleRate: 44100,
		selTracks:  map[int]struct{}{},
		eng:        eng,
		now:        time.Now,
	}
}

// OnViewChanged subscribes to visible-window changes. Callbacks run
// synchronously on the event loop.
func (m *Model) OnViewChanged(fn func()) {
	m.listeners = append(m.listeners, fn)
}

func (m *Model) notifyViewChanged() {
	for _, fn := range m.listeners {
		fn()
	}
}

// VisibleDuration is the width of the visible window in seconds.
func (m *Model) VisibleDuration() float64 {
	return m.ViewEnd - m.ViewStart
}

// SetViewWidth records the waveform area width after a resize. The shell
// re-fetches waveform data itself on resize, so no notification fires.
func (m *Model) SetViewWidth(w int) {
	m.WidthPixels = w
}

// RefreshTracks replaces the track layout mirror and reconciles the view
// window with the new timeline extent. Selection and playback position
// persist across refreshes; selection track indices are intersected with
// the surviving tracks.
func (m *Model) RefreshTracks(tracks []types.TrackInfo) {
	oldMax := m.MaxDuration
	oldStart, oldEnd := m.ViewStart, m.ViewEnd

	m.Tracks = append([]types.TrackInfo(nil), tracks...)
	m.MaxDuration = maxExtent(tracks)
	m.SampleRate = maxRate(tracks)

	switch {
	case m.MaxDuration == 0:
		m.ZoomLevel = 1.0
		m.ViewStart, m.ViewEnd = 0, 0

	case oldMax == 0:
		// first non-empty layout: show everything
		m.ZoomLevel = 1.0
		m.ViewStart, m.ViewEnd = 0, m.MaxDuration

	case m.MaxDuration > oldMax:
		visible := m.ViewEnd - m.ViewStart
		if nearlyEqual(m.ViewEnd, oldMax) {
			// view was pinned to the end: follow the growth
			m.ViewEnd = m.MaxDuration
			m.ViewStart = math.Max(0, m.ViewEnd-visible)
		}
		m.deriveZoom()

	default:
		// extent shrank: clamp the window, keep the zoom level even if it
		// leaves the view on a now-empty region (long-standing behavior)
		m.updateViewBounds()
	}

	for ti := range m.selTracks {
		if ti >= len(m.Tracks) {
			delete(m.selTracks, ti)
		}
	}
	if m.dragging && m.dragTrack >= len(m.Tracks) {
		m.dragging = false
	}

	if m.ViewStart != oldStart || m.ViewEnd != oldEnd {
		m.notifyViewChanged()
	}
}

// updateViewBounds clamps the window to [0, MaxDuration] at the current
// zoom level.
func (m *Model) updateViewBounds() {
	if m.MaxDuration == 0 {
		return
	}
	visible := m.MaxDuration / m.ZoomLevel
	if m.ViewStart+visible > m.MaxDuration {
		m.ViewStart = math.Max(0, m.MaxDuration-visible)
	}
	m.ViewEnd = math.Min(m.ViewStart+visible, m.MaxDuration)
}

// deriveZoom recomputes ZoomLevel from the current window so that
// ViewEnd-ViewStart == MaxDuration/ZoomLevel holds after the extent moved
// under a fixed window.
func (m *Model) deriveZoom() {
	visible := m.ViewEnd - m.ViewStart
	if visible <= 0 || m.MaxDuration == 0 {
		return
	}
	m.ZoomLevel = math.Max(1.0, m.MaxDuration/visible)
}

// JogView pans the window left or right by 0.5% of the visible duration
// (5% when fast), clamped to the timeline.
func (m *Model) JogView(direction float64, fast bool) {
	if m.MaxDuration == 0 {
		return
	}
	visible := m.ViewEnd - m.ViewStart
	step := 0.005
	if fast {
		step = 0.05
	}
	oldStart := m.ViewStart

	m.ViewStart += visible * step * direction
	m.ViewEnd += visible * step * direction
	if m.ViewStart < 0 {
		m.ViewStart = 0
		m.ViewEnd = visible
	}
	if m.ViewEnd > m.MaxDuration {
		m.ViewEnd = m.MaxDuration
		m.ViewStart = math.Max(0, m.ViewEnd-visible)
	}
	if m.ViewStart != oldStart {
		m.notifyViewChanged()
	}
}

// FormatTime renders a ruler label; precision grows with zoom so that
// millisecond detail shows up once individual samples are on screen.
func (m *Model) FormatTime(t float64) string {
	hours := int(t) / 3600
	minutes := (int(t) % 3600) / 60
	seconds := math.Mod(t, 60)

	out := ""
	if hours > 0 {
		out += fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		out += fmt.Sprintf("%dm", minutes)
	}
	switch {
	case m.ZoomLevel > 100:
		out += fmt.Sprintf("%.3fs", seconds)
	case m.ZoomLevel > 10:
		out += fmt.Sprintf("%.2fs", seconds)
	case m.ZoomLevel > 1:
		out += fmt.Sprintf("%.1fs", seconds)
	default:
		out += fmt.Sprintf("%ds", int(seconds))
	}
	return out
}

func maxExtent(tracks []types.TrackInfo) float64 {
	var max float64
	for _, t := range tracks {
		if t.End() > max {
			max = t.End()
		}
	}
	return max
}

func maxRate(tracks []types.TrackInfo) int {
	rate := 0
	for _, t := range tracks {
		if t.SampleRate > rate {
			rate = t.SampleRate
		}
	}
	if rate == 0 {
		return 44100
	}
	return rate
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
