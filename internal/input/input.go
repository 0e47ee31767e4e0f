package input

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/wavedeck/internal/engine"
	"github.com/schollz/wavedeck/internal/model"
)

// TickMsg is the periodic playback poll, fired every 50ms while the
// program runs (the engine is polled, never pushes).
type TickMsg struct{}

const tickInterval = 50 * time.Millisecond

// Tick schedules the next periodic playback poll.
func Tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// HandlePeriodicTick feeds the engine-reported position into the cursor
// tracker. Auto-scroll and the view-changed notification happen inside
// the model.
func HandlePeriodicTick(m *model.Model, eng engine.Engine) {
	if eng.IsPlaying() {
		m.SetPlaybackPosition(eng.PlaybackPosition())
	}
}

// TogglePlayback pauses a running engine, otherwise starts playback of
// the selection when one exists, or of the whole timeline.
func TogglePlayback(m *model.Model, eng engine.Engine) error {
	if eng.IsPlaying() {
		eng.Pause()
		return nil
	}
	return PlayCurrent(m, eng)
}

// PlayCurrent starts playback of the selection or, absent one, of the
// whole timeline.
func PlayCurrent(m *model.Model, eng engine.Engine) error {
	if sel := m.Selection(); sel != nil {
		return eng.Play(&sel.Start, &sel.End)
	}
	return eng.Play(nil, nil)
}

// Rewind stops playback and parks the displayed cursor at the start.
func Rewind(m *model.Model, eng engine.Engine) {
	eng.Stop()
	m.ClearPlaybackPosition()
}

// SkipToEnd stops playback with the cursor parked at the timeline end.
func SkipToEnd(m *model.Model, eng engine.Engine) {
	eng.SetPlaybackPosition(eng.Duration())
	eng.Stop()
	m.SetPlaybackPosition(eng.Duration())
}

// DeleteSelection removes the selected region from the selected tracks,
// then clears the selection and re-mirrors the layout. On engine failure
// the model is left untouched.
func DeleteSelection(m *model.Model, eng engine.Engine) error {
	sel := m.Selection()
	if sel == nil {
		return nil
	}
	if err := eng.DeleteRegion(sel.Start, sel.End, sel.Tracks); err != nil {
		log.Printf("delete region %.2f-%.2f failed: %v", sel.Start, sel.End, err)
		return err
	}
	m.ClearSelection()
	m.RefreshTracks(eng.TrackInfo())
	return nil
}

// RemoveSelectedTracks drops every track covered by the selection from
// the timeline, highest index first so the remaining indices stay valid.
func RemoveSelectedTracks(m *model.Model, eng engine.Engine) error {
	sel := m.Selection()
	if sel == nil {
		return nil
	}
	for i := len(sel.Tracks) - 1; i >= 0; i-- {
		if err := eng.RemoveTrack(sel.Tracks[i]); err != nil {
			log.Printf("remove track %d failed: %v", sel.Tracks[i], err)
			return err
		}
	}
	m.ClearSelection()
	m.RefreshTracks(eng.TrackInfo())
	return nil
}

// ClearTimeline unloads everything and resets the view.
func ClearTimeline(m *model.Model, eng engine.Engine) {
	eng.Clear()
	m.ClearSelection()
	m.ClearPlaybackPosition()
	m.RefreshTracks(eng.TrackInfo())
}

// Action tells the shell what a timeline key asked for beyond the model
// mutations already applied here.
type Action int

const (
	ActionNone Action = iota
	ActionOpenFiles
	ActionOpenExport
	ActionQuit
)

// HandleTimelineKey processes a key press in the timeline view. It
// mutates the model/engine directly and returns any shell-level action.
func HandleTimelineKey(m *model.Model, eng engine.Engine, msg tea.KeyMsg) (Action, error) {
	switch msg.String() {
	case "ctrl+q", "alt+q":
		return ActionQuit, nil

	case " ":
		return ActionNone, TogglePlayback(m, eng)

	case "enter":
		return ActionNone, PlayCurrent(m, eng)

	case "=", "+":
		m.ZoomIn()
	case "-", "_":
		m.ZoomOut()
	case "z":
		m.ZoomToSelection()

	case "left":
		m.JogView(-1, false)
	case "right":
		m.JogView(1, false)
	case "shift+left":
		m.JogView(-1, true)
	case "shift+right":
		m.JogView(1, true)

	case "delete", "backspace", "d":
		return ActionNone, DeleteSelection(m, eng)
	case "D":
		return ActionNone, RemoveSelectedTracks(m, eng)
	case "ctrl+n":
		ClearTimeline(m, eng)

	case "r":
		Rewind(m, eng)
	case "e":
		SkipToEnd(m, eng)

	case "a":
		m.AutoScroll = !m.AutoScroll
		log.Printf("auto-scroll: %v", m.AutoScroll)

	case "esc":
		m.ClearSelection()

	case "o":
		return ActionOpenFiles, nil
	case "x":
		return ActionOpenExport, nil
	}
	return ActionNone, nil
}
