package views

import (
	"fmt"
	"strings"

	"github.com/schollz/wavedeck/internal/model"
	"github.com/schollz/wavedeck/internal/types"
)

var formatNames = map[types.ExportFormat]string{
	types.FormatWAV:  "WAV",
	types.FormatFLAC: "FLAC",
	types.FormatMP3:  "MP3",
}

// RenderExportView draws the export prompt. The range line reflects
// whether a selection will be exported or the whole timeline.
func RenderExportView(p *model.ExportPrompt, sel *types.Selection, termHeight int, statusMsg string) string {
	styles := getCommonStyles()
	var content strings.Builder

	content.WriteString(styles.Header.Render("Export Audio"))
	content.WriteString("\n\n")

	quality := "-"
	switch p.Format {
	case types.FormatMP3:
		quality = fmt.Sprintf("%d kbps", p.Bitrate)
	case types.FormatFLAC:
		quality = fmt.Sprintf("level %d", p.Compression)
	}
	mode := "stereo"
	if p.Mode == types.ChannelModeMono {
		mode = "mono"
	}

	fields := []struct {
		label string
		value string
		field int
	}{
		{"Path:", p.Path.View(), model.ExportFieldPath},
		{"Format:", formatNames[p.Format], model.ExportFieldFormat},
		{"Quality:", quality, model.ExportFieldQuality},
		{"Channels:", mode, model.ExportFieldMode},
	}

	for _, f := range fields {
		var value string
		if p.Field == f.field && f.field != model.ExportFieldPath {
			value = styles.Selected.Render(f.value)
		} else {
			value = styles.Normal.Render(f.value)
		}
		content.WriteString(fmt.Sprintf("  %-10s %s\n", styles.Label.Render(f.label), value))
	}

	content.WriteString("\n")
	if sel != nil {
		content.WriteString(styles.Label.Render(
			fmt.Sprintf("Range: selection %.3fs - %.3fs (%d tracks)", sel.Start, sel.End, len(sel.Tracks))))
	} else {
		content.WriteString(styles.Label.Render("Range: whole timeline"))
	}
	content.WriteString("\n")

	help := "tab: next field | ←/→: change | enter: export | esc: cancel"
	content.WriteString(RenderFooter(termHeight, 9, help, statusMsg))
	return content.String()
}
