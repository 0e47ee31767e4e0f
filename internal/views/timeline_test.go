package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/wavedeck/internal/model"
	"github.com/schollz/wavedeck/internal/types"
)

type fakeEngine struct {
	tracks []types.TrackInfo
}

func (f *fakeEngine) SetTrackOffset(track int, offset float64) error {
	f.tracks[track].Offset = offset
	return nil
}

func (f *fakeEngine) TrackInfo() []types.TrackInfo {
	return append([]types.TrackInfo(nil), f.tracks...)
}

func testModel(tracks ...types.TrackInfo) *model.Model {
	eng := &fakeEngine{tracks: tracks}
	m := model.NewModel(eng)
	m.SetViewWidth(60)
	m.RefreshTracks(eng.TrackInfo())
	return m
}

func rampBins(n int) []types.WaveformBin {
	bins := make([]types.WaveformBin, n)
	for i := range bins {
		v := float32(i+1) / float32(n)
		bins[i] = types.WaveformBin{MinL: -v, MaxL: v, MinR: -v / 2, MaxR: v / 2}
	}
	return bins
}

func TestRenderTimelineView(t *testing.T) {
	stereo := types.TrackInfo{Index: 0, Name: "drums", SampleRate: 44100, Channels: 2, Duration: 10}
	mono := types.TrackInfo{Index: 1, Name: "vocal take", SampleRate: 48000, Channels: 1, Duration: 8}

	t.Run("ruler plus one lane per track", func(t *testing.T) {
		m := testModel(stereo, mono)
		waveforms := [][]types.WaveformBin{rampBins(60), rampBins(60)}

		out := RenderTimelineView(m, waveforms, false, 40, "")
		assert.Contains(t, out, "drums")
		assert.Contains(t, out, "vocal take")
		assert.Contains(t, out, "44.1k 2ch")
		assert.Contains(t, out, "48k 1ch")

		lines := strings.Split(out, "\n")
		assert.GreaterOrEqual(t, len(lines), types.RulerHeight+2*types.LaneHeight)
	})

	t.Run("nil waveforms still render", func(t *testing.T) {
		m := testModel(stereo)
		out := RenderTimelineView(m, nil, false, 40, "")
		assert.Contains(t, out, "drums")
	})

	t.Run("zero width degrades gracefully", func(t *testing.T) {
		m := testModel(stereo)
		m.SetViewWidth(0)
		out := RenderTimelineView(m, nil, false, 40, "")
		assert.NotEmpty(t, out)
	})

	t.Run("status message lands in the footer", func(t *testing.T) {
		m := testModel(stereo)
		out := RenderTimelineView(m, nil, false, 40, "loaded drums.wav")
		assert.Contains(t, out, "loaded drums.wav")
	})
}

func TestChannelRows(t *testing.T) {
	t.Run("rows match the requested height and width", func(t *testing.T) {
		rows := channelRows(rampBins(30), 30, 4, false)
		assert.Len(t, rows, 4)
		for _, row := range rows {
			assert.Len(t, row, 30)
		}
	})

	t.Run("silence renders blank", func(t *testing.T) {
		rows := channelRows(make([]types.WaveformBin, 10), 10, 2, false)
		for _, row := range rows {
			for _, ch := range row {
				assert.Equal(t, " ", ch)
			}
		}
	})

	t.Run("loud columns fill more of the cell", func(t *testing.T) {
		bins := rampBins(20)
		rows := channelRows(bins, 20, 2, false)
		// the loudest column reaches the top row, a quiet one does not
		assert.NotEqual(t, " ", rows[0][19])
		assert.Equal(t, " ", rows[0][0])
	})
}

func TestGeometryHelpers(t *testing.T) {
	t.Run("selection maps to a column range on its tracks", func(t *testing.T) {
		m := testModel(
			types.TrackInfo{Index: 0, SampleRate: 44100, Channels: 2, Duration: 10},
			types.TrackInfo{Index: 1, SampleRate: 44100, Channels: 2, Duration: 10},
		)
		m.BeginSelection(2, 0)
		m.ExtendSelection(5, 0)
		m.EndSelection()

		cols, tracks := selectionColumns(m, m.WidthPixels)
		assert.Equal(t, 12, cols[0]) // 2 s of a 10 s view over 60 px
		assert.Equal(t, 30, cols[1])
		assert.True(t, tracks[0])
		assert.False(t, tracks[1])
	})

	t.Run("no selection yields an empty range", func(t *testing.T) {
		m := testModel(types.TrackInfo{Index: 0, SampleRate: 44100, Channels: 2, Duration: 10})
		cols, tracks := selectionColumns(m, m.WidthPixels)
		assert.Greater(t, cols[0], cols[1])
		assert.Nil(t, tracks)
	})

	t.Run("cursor column follows the playback position", func(t *testing.T) {
		m := testModel(types.TrackInfo{Index: 0, SampleRate: 44100, Channels: 2, Duration: 10})
		m.SetPlaybackPosition(5)
		assert.Equal(t, 30, cursorColumn(m, m.WidthPixels, true))
	})

	t.Run("cursor outside the window is hidden", func(t *testing.T) {
		m := testModel(types.TrackInfo{Index: 0, SampleRate: 44100, Channels: 2, Duration: 10})
		m.ZoomLevel = 2
		m.ViewStart, m.ViewEnd = 0, 5
		m.AutoScroll = false
		m.SetPlaybackPosition(8)
		assert.Equal(t, -1, cursorColumn(m, m.WidthPixels, true))
	})

	t.Run("header column is fixed width", func(t *testing.T) {
		assert.Len(t, padColumn("hi"), types.HeaderWidth)
		assert.Len(t, padColumn("a very long track name"), types.HeaderWidth)
	})

	t.Run("rate formatting", func(t *testing.T) {
		assert.Equal(t, "44k", formatRate(44000))
		assert.Equal(t, "44.1k", formatRate(44100))
		assert.Equal(t, "48k", formatRate(48000))
	})
}
