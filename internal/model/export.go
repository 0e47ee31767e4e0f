package model

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schollz/wavedeck/internal/types"
)

// Export prompt fields, cycled with tab.
const (
	ExportFieldPath = iota
	ExportFieldFormat
	ExportFieldQuality
	ExportFieldMode
	exportFieldCount
)

var mp3Bitrates = []int{128, 192, 256, 320}

// ExportPrompt is the state of the export view: a destination path input
// plus format, quality and channel-mode choices.
type ExportPrompt struct {
	Path        textinput.Model
	Format      types.ExportFormat
	Bitrate     int // mp3 kbps
	Compression int // flac level 0-8
	Mode        types.ChannelMode
	Field       int
}

// NewExportPrompt builds a prompt pre-filled with a destination path.
func NewExportPrompt(defaultPath string) *ExportPrompt {
	ti := textinput.New()
	ti.Placeholder = "output.wav"
	ti.SetValue(defaultPath)
	ti.CharLimit = 255
	ti.Focus()
	return &ExportPrompt{
		Path:        ti,
		Format:      types.FormatWAV,
		Bitrate:     192,
		Compression: 5,
		Mode:        types.ChannelModeStereo,
	}
}

// NextField advances focus; the text input only captures keys while the
// path field has focus.
func (p *ExportPrompt) NextField() {
	p.Field = (p.Field + 1) % exportFieldCount
	if p.Field == ExportFieldPath {
		p.Path.Focus()
	} else {
		p.Path.Blur()
	}
}

// Cycle steps the focused choice field by delta. The path field ignores
// cycling.
func (p *ExportPrompt) Cycle(delta int) {
	switch p.Field {
	case ExportFieldFormat:
		p.Format = types.ExportFormat((int(p.Format) + delta + 3) % 3)
	case ExportFieldQuality:
		switch p.Format {
		case types.FormatMP3:
			idx := 0
			for i, b := range mp3Bitrates {
				if b == p.Bitrate {
					idx = i
				}
			}
			p.Bitrate = mp3Bitrates[(idx+delta+len(mp3Bitrates))%len(mp3Bitrates)]
		case types.FormatFLAC:
			p.Compression = (p.Compression + delta + 9) % 9
		}
	case ExportFieldMode:
		if p.Mode == types.ChannelModeStereo {
			p.Mode = types.ChannelModeMono
		} else {
			p.Mode = types.ChannelModeStereo
		}
	}
}

// Update forwards a message to the path input when it has focus.
func (p *ExportPrompt) Update(msg tea.Msg) tea.Cmd {
	if p.Field != ExportFieldPath {
		return nil
	}
	var cmd tea.Cmd
	p.Path, cmd = p.Path.Update(msg)
	return cmd
}
