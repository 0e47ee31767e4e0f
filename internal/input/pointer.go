package input

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/wavedeck/internal/model"
	"github.com/schollz/wavedeck/internal/types"
)

// Zone classifies where on the timeline view a pointer event landed.
type Zone int

const (
	ZoneOutside Zone = iota
	ZoneRuler
	ZoneHeader // track header column, over the track's audio block
	ZoneBody   // track waveform lane
)

// HitTest maps terminal cell coordinates to a zone, the track lane under
// the pointer (-1 when none) and the x coordinate relative to the
// waveform area.
func HitTest(m *model.Model, x, y int) (Zone, int, int) {
	waveX := x - types.HeaderWidth
	if y < types.RulerHeight {
		return ZoneRuler, -1, waveX
	}
	track := (y - types.RulerHeight) / types.LaneHeight
	if track < 0 || track >= len(m.Tracks) {
		return ZoneOutside, -1, waveX
	}
	if x < types.HeaderWidth {
		return ZoneHeader, track, waveX
	}
	return ZoneBody, track, waveX
}

// HandleMouse dispatches pointer and wheel events to exactly one gesture
// controller. Classification happens at pointer-down: the header-region
// test wins over starting a selection, clicks in the ruler do nothing,
// and pointer-up unconditionally ends whatever gesture is active.
func HandleMouse(m *model.Model, msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.WheelZoom(msg.X-types.HeaderWidth, 1)
		case tea.MouseButtonWheelDown:
			m.WheelZoom(msg.X-types.HeaderWidth, -1)
		case tea.MouseButtonLeft:
			pointerDown(m, msg.X, msg.Y)
		}

	case tea.MouseActionMotion:
		pointerMove(m, msg.X, msg.Y)

	case tea.MouseActionRelease:
		pointerUp(m)
	}
}

func pointerDown(m *model.Model, x, y int) {
	zone, track, waveX := HitTest(m, x, y)
	switch zone {
	case ZoneHeader:
		m.BeginTrackDrag(track, x)
	case ZoneBody:
		m.BeginSelection(m.PixelToTime(float64(waveX)), track)
	}
	// ruler and outside clicks are ignored, matching the widget behavior
}

func pointerMove(m *model.Model, x, y int) {
	if m.Dragging() {
		m.UpdateTrackDrag(x)
		return
	}
	if m.Selecting() {
		_, track, waveX := HitTest(m, x, y)
		m.ExtendSelection(m.PixelToTime(float64(waveX)), track)
	}
}

func pointerUp(m *model.Model) {
	m.EndTrackDrag()
	m.EndSelection()
}
