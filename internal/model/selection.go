package model

import (
	"math"
	"sort"

	"github.com/schollz/wavedeck/internal/types"
)

// Selections narrower than this are treated as accidental point clicks.
const minSelectionSeconds = 0.001

// BeginSelection starts a selection gesture at the given time on the
// given track. The previous selection, if any, is replaced.
func (m *Model) BeginSelection(t float64, track int) {
	if m.MaxDuration == 0 || track < 0 || track >= len(m.Tracks) {
		return
	}
	m.selecting = true
	m.selActive = true
	m.selStart = t
	m.selEnd = t
	m.selTracks = map[int]struct{}{track: {}}
}

// ExtendSelection moves the selection endpoint during a gesture. The
// track set only ever grows within one gesture: sweeping the pointer
// across lanes accumulates tracks, backtracking does not remove them.
func (m *Model) ExtendSelection(t float64, track int) {
	if !m.selecting {
		return
	}
	m.selEnd = t
	if track >= 0 && track < len(m.Tracks) {
		m.selTracks[track] = struct{}{}
	}
}

// EndSelection finishes the gesture; the selection value is retained
// until explicitly cleared.
func (m *Model) EndSelection() {
	m.selecting = false
}

// Selecting reports whether a selection gesture is in progress.
func (m *Model) Selecting() bool {
	return m.selecting
}

// Selection returns the normalized selection, or nil when there is none
// or it is narrower than the 1ms threshold. The track list is a copy.
func (m *Model) Selection() *types.Selection {
	if !m.selActive || math.Abs(m.selEnd-m.selStart) <= minSelectionSeconds {
		return nil
	}
	tracks := make([]int, 0, len(m.selTracks))
	for ti := range m.selTracks {
		tracks = append(tracks, ti)
	}
	sort.Ints(tracks)
	return &types.Selection{
		Start:  math.Min(m.selStart, m.selEnd),
		End:    math.Max(m.selStart, m.selEnd),
		Tracks: tracks,
	}
}

// ClearSelection drops the selection entirely.
func (m *Model) ClearSelection() {
	m.selActive = false
	m.selecting = false
	m.selStart = 0
	m.selEnd = 0
	m.selTracks = map[int]struct{}{}
}
