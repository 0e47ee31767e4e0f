package types

// ViewMode identifies which top-level view is being rendered
type ViewMode int

const (
	TimelineView ViewMode = iota
	FileView
	ExportView
)

// Layout constants for the timeline view, in terminal cells.
// The waveform area starts after the track header column and below the ruler.
const (
	RulerHeight = 2  // tick row + label row
	HeaderWidth = 14 // track header column (name, rate, offset)
	LaneHeight  = 4  // rows per track lane
)

// TrackInfo mirrors one engine track as placed on the shared timeline.
// It is owned by the engine and refreshed on load/clear/offset changes;
// the viewport never mutates it.
type TrackInfo struct {
	Index      int
	Name       string // display name, basename without extension
	Path       string // source file the track was decoded from
	SampleRate int
	Channels   int
	Duration   float64 // seconds
	Offset     float64 // start time on the shared timeline, seconds
}

// End returns the track's end time on the shared timeline.
func (t TrackInfo) End() float64 {
	return t.Offset + t.Duration
}

// WaveformBin is one pixel column of waveform summary data.
// Mono sources carry the same values in both channel pairs.
type WaveformBin struct {
	MinL, MaxL float32
	MinR, MaxR float32
}

// Selection is a normalized time range plus the tracks it applies to.
type Selection struct {
	Start  float64
	End    float64
	Tracks []int // ascending, no duplicates
}

// ChannelMode selects the export channel layout.
type ChannelMode int

const (
	ChannelModeStereo ChannelMode = iota
	ChannelModeMono
)

// ExportFormat is chosen from the export file extension.
type ExportFormat int

const (
	FormatWAV ExportFormat = iota
	FormatFLAC
	FormatMP3
)
