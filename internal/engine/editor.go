package engine

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/schollz/wavedeck/internal/types"
)

const defaultSampleRate = 44100

type track struct {
	name       string
	path       string    // source file, persisted so sessions can reload it
	samples    []float32 // interleaved
	sampleRate int
	channels   int
	offset     float64 // seconds on the shared timeline
}

func (t *track) frames() int {
	if t.channels == 0 {
		return 0
	}
	return len(t.samples) / t.channels
}

func (t *track) duration() float64 {
	if t.sampleRate == 0 {
		return 0
	}
	return float64(t.frames()) / float64(t.sampleRate)
}

// sampleAt returns the sample for a frame/channel pair, tolerating mono
// tracks and out-of-range frames.
func (t *track) sampleAt(frame, ch int) float32 {
	if frame < 0 || frame >= t.frames() {
		return 0
	}
	if ch >= t.channels {
		ch = t.channels - 1
	}
	return t.samples[frame*t.channels+ch]
}

// Editor is the in-process audio engine. It owns decoded PCM for every
// track and serves the shell synchronously; nothing here blocks on I/O
// after load.
type Editor struct {
	tracks   []*track
	playback *playback
	cursor   float64 // resting playback position while stopped
	noAudio  bool
}

// NewEditor returns an empty engine. With noAudio set, transport calls
// succeed silently without opening an output device (useful for tests and
// headless sessions).
func NewEditor(noAudio bool) *Editor {
	return &Editor{noAudio: noAudio}
}

func (e *Editor) LoadFile(path string) error {
	samples, rate, channels, err := decodeFile(path)
	if err != nil {
		return err
	}
	if rate <= 0 || channels <= 0 {
		return fmt.Errorf("%w: %s reported no format", ErrLoadFailed, filepath.Base(path))
	}
	e.tracks = append(e.tracks, &track{
		name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		path:       path,
		samples:    samples,
		sampleRate: rate,
		channels:   channels,
	})
	log.Printf("loaded %s: %d frames @ %d Hz, %d ch", path, e.tracks[len(e.tracks)-1].frames(), rate, channels)
	return nil
}

func (e *Editor) Clear() {
	e.Stop()
	e.tracks = nil
	e.cursor = 0
}

// RemoveTrack drops one track from the timeline; the rest keep their
// indices compacted.
func (e *Editor) RemoveTrack(index int) error {
	if index < 0 || index >= len(e.tracks) {
		return fmt.Errorf("%w: no track %d", ErrInvalidOffset, index)
	}
	e.tracks = append(e.tracks[:index], e.tracks[index+1:]...)
	log.Printf("removed track %d", index)
	return nil
}

func (e *Editor) Duration() float64 {
	var max float64
	for _, t := range e.tracks {
		if end := t.offset + t.duration(); end > max {
			max = end
		}
	}
	return max
}

func (e *Editor) SampleRate() int {
	rate := 0
	for _, t := range e.tracks {
		if t.sampleRate > rate {
			rate = t.sampleRate
		}
	}
	if rate == 0 {
		return defaultSampleRate
	}
	return rate
}

func (e *Editor) ChannelCount() int {
	if len(e.tracks) == 0 {
		return 2
	}
	for _, t := range e.tracks {
		if t.channels >= 2 {
			return 2
		}
	}
	return 1
}

func (e *Editor) TrackInfo() []types.TrackInfo {
	infos := make([]types.TrackInfo, len(e.tracks))
	for i, t := range e.tracks {
		infos[i] = types.TrackInfo{
			Index:      i,
			Name:       t.name,
			Path:       t.path,
			SampleRate: t.sampleRate,
			Channels:   t.channels,
			Duration:   t.duration(),
			Offset:     t.offset,
		}
	}
	return infos
}

// WaveformForRange summarizes [start, end) into one min/max bin per pixel
// column for every track. Columns outside a track's extent stay zero.
func (e *Editor) WaveformForRange(start, end float64, pixelWidth int) [][]types.WaveformBin {
	out := make([][]types.WaveformBin, len(e.tracks))
	if pixelWidth <= 0 || end <= start {
		for i := range out {
			out[i] = []types.WaveformBin{}
		}
		return out
	}
	secPerPixel := (end - start) / float64(pixelWidth)

	for ti, t := range e.tracks {
		bins := make([]types.WaveformBin, pixelWidth)
		for px := 0; px < pixelWidth; px++ {
			t0 := start + float64(px)*secPerPixel - t.offset
			t1 := t0 + secPerPixel
			f0 := int(math.Floor(t0 * float64(t.sampleRate)))
			f1 := int(math.Ceil(t1 * float64(t.sampleRate)))
			if f1 <= 0 || f0 >= t.frames() {
				continue
			}
			if f0 < 0 {
				f0 = 0
			}
			if f1 > t.frames() {
				f1 = t.frames()
			}
			var bin types.WaveformBin
			for f := f0; f < f1; f++ {
				l := t.sampleAt(f, 0)
				r := t.sampleAt(f, 1)
				if l < bin.MinL {
					bin.MinL = l
				}
				if l > bin.MaxL {
					bin.MaxL = l
				}
				if r < bin.MinR {
					bin.MinR = r
				}
				if r > bin.MaxR {
					bin.MaxR = r
				}
			}
			bins[px] = bin
		}
		out[ti] = bins
	}
	return out
}

func (e *Editor) SetTrackOffset(index int, offset float64) error {
	if index < 0 || index >= len(e.tracks) {
		return fmt.Errorf("%w: no track %d", ErrInvalidOffset, index)
	}
	if offset < 0 || math.IsNaN(offset) || math.IsInf(offset, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidOffset, offset)
	}
	e.tracks[index].offset = offset
	return nil
}

// DeleteRegion removes [start, end) from each named track, in each track's
// local time. Tracks the region does not intersect are left alone.
func (e *Editor) DeleteRegion(start, end float64, tracks []int) error {
	if end <= start {
		return nil
	}
	for _, ti := range tracks {
		if ti < 0 || ti >= len(e.tracks) {
			return fmt.Errorf("%w: no track %d", ErrInvalidOffset, ti)
		}
	}
	for _, ti := range tracks {
		t := e.tracks[ti]
		f0 := int((start - t.offset) * float64(t.sampleRate))
		f1 := int((end - t.offset) * float64(t.sampleRate))
		if f1 <= 0 || f0 >= t.frames() {
			continue
		}
		if f0 < 0 {
			f0 = 0
		}
		if f1 > t.frames() {
			f1 = t.frames()
		}
		s0 := f0 * t.channels
		s1 := f1 * t.channels
		t.samples = append(t.samples[:s0], t.samples[s1:]...)
		log.Printf("deleted %d frames from track %d", f1-f0, ti)
	}
	return nil
}

// mixdown renders [start, end) of the shared timeline to interleaved
// stereo float32 at the given rate, summing overlapping tracks with
// hard clipping. Nearest-frame resampling covers rate mismatches.
func (e *Editor) mixdown(start, end float64, rate int) []float32 {
	if end <= start || rate <= 0 {
		return nil
	}
	frames := int(math.Round((end - start) * float64(rate)))
	out := make([]float32, frames*2)
	for _, t := range e.tracks {
		for f := 0; f < frames; f++ {
			at := start + float64(f)/float64(rate) - t.offset
			if at < 0 {
				continue
			}
			local := int(at * float64(t.sampleRate))
			if local >= t.frames() {
				continue
			}
			out[f*2] += t.sampleAt(local, 0)
			out[f*2+1] += t.sampleAt(local, 1)
		}
	}
	for i, v := range out {
		if v > 1 {
			out[i] = 1
		} else if v < -1 {
			out[i] = -1
		}
	}
	return out
}

func (e *Editor) Play(start, end *float64) error {
	from := e.cursor
	if start != nil {
		from = *start
	}
	to := e.Duration()
	if end != nil {
		to = *end
	}
	if to <= from {
		return nil
	}
	if e.noAudio {
		return nil
	}

	rate := e.SampleRate()
	mix := e.mixdown(from, to, rate)
	if e.playback == nil {
		p, err := newPlayback(rate)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		e.playback = p
	}
	return e.playback.play(mix, from)
}

func (e *Editor) Pause() {
	if e.playback != nil {
		e.playback.pause()
	}
}

func (e *Editor) Stop() {
	if e.playback != nil {
		e.cursor = 0
		e.playback.stop()
	}
}

func (e *Editor) IsPlaying() bool {
	return e.playback != nil && e.playback.isPlaying()
}

func (e *Editor) PlaybackPosition() float64 {
	if e.playback != nil && e.playback.active() {
		return e.playback.position()
	}
	return e.cursor
}

func (e *Editor) SetPlaybackPosition(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	if e.playback != nil {
		e.playback.stop()
	}
	e.cursor = seconds
}

// ExportAudio renders [start, end] (whole timeline when nil) to the named
// file. WAV is encoded natively; FLAC and MP3 requests currently fall back
// to PCM data in the named file, with the compression and bitrate knobs
// accepted for forward compatibility.
func (e *Editor) ExportAudio(path string, start, end *float64, compression, bitrate *int, mode types.ChannelMode) error {
	from := 0.0
	if start != nil {
		from = *start
	}
	to := e.Duration()
	if end != nil {
		to = *end
	}
	if to <= from {
		return fmt.Errorf("%w: empty export range", ErrExportFailed)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
	case ".flac":
		if compression != nil {
			log.Printf("flac export: compression level %d requested, writing PCM", *compression)
		}
	case ".mp3":
		if bitrate != nil {
			log.Printf("mp3 export: %d kbps requested, writing PCM", *bitrate)
		}
	default:
		return fmt.Errorf("%w: unsupported format %q (use .wav, .flac, or .mp3)", ErrExportFailed, filepath.Ext(path))
	}

	rate := e.SampleRate()
	mix := e.mixdown(from, to, rate)

	channels := 2
	if mode == types.ChannelModeMono {
		channels = 1
		mono := make([]float32, len(mix)/2)
		for i := range mono {
			mono[i] = (mix[i*2] + mix[i*2+1]) / 2
		}
		mix = mono
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, len(mix)),
		SourceBitDepth: 16,
	}
	for i, v := range mix {
		buf.Data[i] = int(v * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	log.Printf("exported %.2fs-%.2fs to %s", from, to, path)
	return nil
}
