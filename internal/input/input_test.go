package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/schollz/wavedeck/internal/model"
	"github.com/schollz/wavedeck/internal/types"
)

// stubEngine records transport and edit calls without touching audio.
type stubEngine struct {
	tracks   []types.TrackInfo
	playing  bool
	position float64

	playCalls   [][2]*float64
	deleteCalls int
	deleted     types.Selection
}

func (s *stubEngine) Duration() float64 {
	var max float64
	for _, t := range s.tracks {
		if t.End() > max {
			max = t.End()
		}
	}
	return max
}
func (s *stubEngine) SampleRate() int   { return 44100 }
func (s *stubEngine) ChannelCount() int { return 2 }
func (s *stubEngine) TrackInfo() []types.TrackInfo {
	return append([]types.TrackInfo(nil), s.tracks...)
}
func (s *stubEngine) WaveformForRange(start, end float64, pixelWidth int) [][]types.WaveformBin {
	return make([][]types.WaveformBin, len(s.tracks))
}
func (s *stubEngine) IsPlaying() bool           { return s.playing }
func (s *stubEngine) PlaybackPosition() float64 { return s.position }
func (s *stubEngine) Play(start, end *float64) error {
	s.playCalls = append(s.playCalls, [2]*float64{start, end})
	s.playing = true
	return nil
}
func (s *stubEngine) Pause() { s.playing = false }
func (s *stubEngine) Stop()  { s.playing = false; s.position = 0 }
func (s *stubEngine) SetPlaybackPosition(seconds float64) { s.position = seconds }
func (s *stubEngine) LoadFile(path string) error          { return nil }
func (s *stubEngine) Clear()                              { s.tracks = nil }
func (s *stubEngine) RemoveTrack(index int) error {
	s.tracks = append(s.tracks[:index], s.tracks[index+1:]...)
	return nil
}
func (s *stubEngine) DeleteRegion(start, end float64, tracks []int) error {
	s.deleteCalls++
	s.deleted = types.Selection{Start: start, End: end, Tracks: tracks}
	return nil
}
func (s *stubEngine) SetTrackOffset(track int, offset float64) error {
	s.tracks[track].Offset = offset
	return nil
}
func (s *stubEngine) ExportAudio(path string, start, end *float64, compression, bitrate *int, mode types.ChannelMode) error {
	return nil
}

func newTestSetup(durations ...float64) (*model.Model, *stubEngine) {
	eng := &stubEngine{}
	for i, d := range durations {
		eng.tracks = append(eng.tracks, types.TrackInfo{
			Index: i, Name: "t", SampleRate: 44100, Channels: 2, Duration: d,
		})
	}
	m := model.NewModel(eng)
	m.SetViewWidth(100)
	m.RefreshTracks(eng.TrackInfo())
	return m, eng
}

func TestHitTest(t *testing.T) {
	m, _ := newTestSetup(10, 10)

	t.Run("ruler rows", func(t *testing.T) {
		zone, track, _ := HitTest(m, 50, 0)
		assert.Equal(t, ZoneRuler, zone)
		assert.Equal(t, -1, track)

		zone, _, _ = HitTest(m, 50, types.RulerHeight-1)
		assert.Equal(t, ZoneRuler, zone)
	})

	t.Run("header column of each lane", func(t *testing.T) {
		zone, track, _ := HitTest(m, 3, types.RulerHeight)
		assert.Equal(t, ZoneHeader, zone)
		assert.Equal(t, 0, track)

		zone, track, _ = HitTest(m, 3, types.RulerHeight+types.LaneHeight)
		assert.Equal(t, ZoneHeader, zone)
		assert.Equal(t, 1, track)
	})

	t.Run("waveform body", func(t *testing.T) {
		zone, track, waveX := HitTest(m, types.HeaderWidth+25, types.RulerHeight+1)
		assert.Equal(t, ZoneBody, zone)
		assert.Equal(t, 0, track)
		assert.Equal(t, 25, waveX)
	})

	t.Run("below the last lane", func(t *testing.T) {
		zone, track, _ := HitTest(m, 50, types.RulerHeight+2*types.LaneHeight)
		assert.Equal(t, ZoneOutside, zone)
		assert.Equal(t, -1, track)
	})
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestMouseGestures(t *testing.T) {
	t.Run("press in a header starts a track drag", func(t *testing.T) {
		m, _ := newTestSetup(10)
		HandleMouse(m, press(3, types.RulerHeight+1))

		assert.True(t, m.Dragging())
		assert.False(t, m.Selecting())
	})

	t.Run("press in the body starts a selection", func(t *testing.T) {
		m, _ := newTestSetup(10)
		HandleMouse(m, press(types.HeaderWidth+20, types.RulerHeight+1))

		assert.True(t, m.Selecting())
		assert.False(t, m.Dragging())
	})

	t.Run("press in the ruler does nothing", func(t *testing.T) {
		m, _ := newTestSetup(10)
		HandleMouse(m, press(50, 0))

		assert.False(t, m.Dragging())
		assert.False(t, m.Selecting())
	})

	t.Run("drag select release yields a selection", func(t *testing.T) {
		m, _ := newTestSetup(10, 10)
		HandleMouse(m, press(types.HeaderWidth+10, types.RulerHeight+1))
		HandleMouse(m, motion(types.HeaderWidth+40, types.RulerHeight+types.LaneHeight+1))
		HandleMouse(m, release(types.HeaderWidth+40, types.RulerHeight+types.LaneHeight+1))

		sel := m.Selection()
		assert.NotNil(t, sel)
		assert.InDelta(t, 1.0, sel.Start, 1e-9) // 10 px of a 10 s view
		assert.InDelta(t, 4.0, sel.End, 1e-9)
		assert.Equal(t, []int{0, 1}, sel.Tracks)
		assert.False(t, m.Selecting())
	})

	t.Run("release ends a header drag", func(t *testing.T) {
		m, eng := newTestSetup(10)
		HandleMouse(m, press(3, types.RulerHeight+1))
		HandleMouse(m, motion(23, types.RulerHeight+1))
		HandleMouse(m, release(23, types.RulerHeight+1))

		assert.False(t, m.Dragging())
		assert.InDelta(t, 2.0, eng.tracks[0].Offset, 1e-9)
	})

	t.Run("wheel zooms around the pointer", func(t *testing.T) {
		m, _ := newTestSetup(10)
		HandleMouse(m, tea.MouseMsg{
			X: types.HeaderWidth + 50, Y: 3,
			Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp,
		})
		assert.InDelta(t, 1.2, m.ZoomLevel, 1e-9)

		HandleMouse(m, tea.MouseMsg{
			X: types.HeaderWidth + 50, Y: 3,
			Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown,
		})
		assert.Equal(t, 1.0, m.ZoomLevel)
	})
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTimelineKeys(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		m, eng := newTestSetup(10)
		action, err := HandleTimelineKey(m, eng, tea.KeyMsg{Type: tea.KeyCtrlQ})
		assert.NoError(t, err)
		assert.Equal(t, ActionQuit, action)
	})

	t.Run("zoom keys", func(t *testing.T) {
		m, eng := newTestSetup(10)
		HandleTimelineKey(m, eng, key("="))
		assert.InDelta(t, 1.5, m.ZoomLevel, 1e-9)
		HandleTimelineKey(m, eng, key("-"))
		assert.Equal(t, 1.0, m.ZoomLevel)
	})

	t.Run("space toggles playback", func(t *testing.T) {
		m, eng := newTestSetup(10)
		HandleTimelineKey(m, eng, key(" "))
		assert.True(t, eng.playing)
		HandleTimelineKey(m, eng, key(" "))
		assert.False(t, eng.playing)
	})

	t.Run("playback honors the selection", func(t *testing.T) {
		m, eng := newTestSetup(10)
		m.BeginSelection(2, 0)
		m.ExtendSelection(5, 0)
		m.EndSelection()

		HandleTimelineKey(m, eng, key(" "))
		assert.Len(t, eng.playCalls, 1)
		assert.Equal(t, 2.0, *eng.playCalls[0][0])
		assert.Equal(t, 5.0, *eng.playCalls[0][1])
	})

	t.Run("delete removes the selected region", func(t *testing.T) {
		m, eng := newTestSetup(10)
		m.BeginSelection(2, 0)
		m.ExtendSelection(5, 0)
		m.EndSelection()

		HandleTimelineKey(m, eng, key("d"))
		assert.Equal(t, 1, eng.deleteCalls)
		assert.Equal(t, 2.0, eng.deleted.Start)
		assert.Equal(t, 5.0, eng.deleted.End)
		assert.Equal(t, []int{0}, eng.deleted.Tracks)
		assert.Nil(t, m.Selection())
	})

	t.Run("delete without a selection is a no-op", func(t *testing.T) {
		m, eng := newTestSetup(10)
		HandleTimelineKey(m, eng, key("d"))
		assert.Equal(t, 0, eng.deleteCalls)
	})

	t.Run("shift+d removes the selected tracks", func(t *testing.T) {
		m, eng := newTestSetup(10, 8, 6)
		m.BeginSelection(1, 0)
		m.ExtendSelection(3, 2)
		m.EndSelection() // covers tracks 0 and 2

		HandleTimelineKey(m, eng, key("D"))
		assert.Len(t, eng.tracks, 1)
		assert.Equal(t, 8.0, eng.tracks[0].Duration)
		assert.Equal(t, 8.0, m.MaxDuration)
		assert.Nil(t, m.Selection())
	})

	t.Run("clear empties the timeline", func(t *testing.T) {
		m, eng := newTestSetup(10)
		HandleTimelineKey(m, eng, tea.KeyMsg{Type: tea.KeyCtrlN})
		assert.Empty(t, eng.tracks)
		assert.Equal(t, 0.0, m.MaxDuration)
		assert.Equal(t, 1.0, m.ZoomLevel)
	})

	t.Run("autoscroll toggle", func(t *testing.T) {
		m, eng := newTestSetup(10)
		assert.True(t, m.AutoScroll)
		HandleTimelineKey(m, eng, key("a"))
		assert.False(t, m.AutoScroll)
	})

	t.Run("view switches", func(t *testing.T) {
		m, eng := newTestSetup(10)
		action, _ := HandleTimelineKey(m, eng, key("o"))
		assert.Equal(t, ActionOpenFiles, action)
		action, _ = HandleTimelineKey(m, eng, key("x"))
		assert.Equal(t, ActionOpenExport, action)
	})

	t.Run("escape clears the selection", func(t *testing.T) {
		m, eng := newTestSetup(10)
		m.BeginSelection(2, 0)
		m.ExtendSelection(5, 0)
		m.EndSelection()

		HandleTimelineKey(m, eng, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Nil(t, m.Selection())
	})
}

func TestTransportHelpers(t *testing.T) {
	t.Run("rewind stops and parks the cursor", func(t *testing.T) {
		m, eng := newTestSetup(10)
		eng.playing = true
		eng.position = 5
		m.SetPlaybackPosition(5)

		Rewind(m, eng)
		assert.False(t, eng.playing)
		assert.Equal(t, 0.0, m.PlaybackPosition)
	})

	t.Run("skip to end parks at the timeline end", func(t *testing.T) {
		m, eng := newTestSetup(10)
		SkipToEnd(m, eng)
		assert.Equal(t, 10.0, m.PlaybackPosition)
		assert.False(t, eng.playing)
	})

	t.Run("periodic tick mirrors the engine position", func(t *testing.T) {
		m, eng := newTestSetup(10)
		eng.playing = true
		eng.position = 3.5

		HandlePeriodicTick(m, eng)
		assert.Equal(t, 3.5, m.PlaybackPosition)
	})

	t.Run("tick while stopped leaves the cursor alone", func(t *testing.T) {
		m, eng := newTestSetup(10)
		m.SetPlaybackPosition(2)
		eng.position = 7

		HandlePeriodicTick(m, eng)
		assert.Equal(t, 2.0, m.PlaybackPosition)
	})
}
