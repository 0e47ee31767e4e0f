package engine

import (
	"errors"

	"github.com/schollz/wavedeck/internal/types"
)

// Error kinds reported by the engine. Call sites match with errors.Is;
// none of these ever leave the timeline model half-mutated.
var (
	ErrEngineUnavailable = errors.New("audio engine unavailable")
	ErrInvalidOffset     = errors.New("invalid track offset")
	ErrLoadFailed        = errors.New("failed to load audio file")
	ErrExportFailed      = errors.New("failed to export audio")
)

// Engine is the audio collaborator consumed by the editor shell. All
// decoding, mixing and encoding happens behind it; the viewport only does
// time/pixel math against the track layout it reports.
//
// Calls are synchronous and must not block the interaction loop.
type Engine interface {
	// Layout and metadata.
	Duration() float64
	SampleRate() int
	ChannelCount() int
	TrackInfo() []types.TrackInfo

	// WaveformForRange returns, for every track, one bin per pixel column
	// covering [start, end). Bins are aligned one-to-one with columns.
	WaveformForRange(start, end float64, pixelWidth int) [][]types.WaveformBin

	// Transport.
	IsPlaying() bool
	PlaybackPosition() float64
	Play(start, end *float64) error
	Pause()
	Stop()
	SetPlaybackPosition(seconds float64)

	// Edits.
	LoadFile(path string) error
	Clear()
	RemoveTrack(index int) error
	DeleteRegion(start, end float64, tracks []int) error
	SetTrackOffset(track int, offset float64) error
	ExportAudio(path string, start, end *float64, compression, bitrate *int, mode types.ChannelMode) error
}
