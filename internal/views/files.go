package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/schollz/gowaveform"

	"github.com/schollz/wavedeck/internal/model"
)

// RenderFileView draws the file browser with a small waveform preview of
// the selected wav file underneath the listing.
func RenderFileView(b *model.FileBrowser, termWidth, termHeight int, statusMsg string) string {
	styles := getCommonStyles()
	var content strings.Builder

	content.WriteString(styles.Header.Render(fmt.Sprintf("Load File: %s", b.Dir)))
	content.WriteString("\n\n")

	previewHeight := 6
	visibleRows := termHeight - previewHeight - 6
	if visibleRows < 4 {
		visibleRows = 4
	}

	lines := 2
	for i := 0; i < visibleRows && i+b.Scroll < len(b.Entries); i++ {
		idx := i + b.Scroll
		arrow := " "
		if b.Cursor == idx {
			arrow = "▶"
		}
		entry := b.Entries[idx]
		var cell string
		switch {
		case b.Cursor == idx:
			cell = styles.Selected.Render(entry)
		case strings.HasSuffix(entry, "/") || entry == "..":
			cell = styles.Dir.Render(entry)
		default:
			cell = styles.Normal.Render(entry)
		}
		content.WriteString(fmt.Sprintf("%s %s\n", arrow, cell))
		lines++
	}

	if preview := renderPreview(b, termWidth-2, previewHeight-2); preview != "" {
		content.WriteString("\n")
		content.WriteString(preview)
		lines += previewHeight
	}

	help := "↑/↓ navigate | enter open/load | esc back"
	content.WriteString(RenderFooter(termHeight, lines, help, statusMsg))
	return content.String()
}

// renderPreview rasterizes the selected wav file across the full width.
// Anything that cannot be previewed (directories, compressed formats,
// unreadable files) just renders nothing.
func renderPreview(b *model.FileBrowser, width, height int) string {
	path, isDir := b.Selected()
	if isDir || path == "" || width < 10 || height < 2 {
		return ""
	}
	if strings.ToLower(filepath.Ext(path)) != ".wav" {
		return ""
	}

	duration, err := wavDuration(path)
	if err != nil || duration <= 0 {
		return ""
	}

	wf, err := gowaveform.LoadWaveform(path)
	if err != nil {
		return ""
	}
	view, err := wf.GenerateView(gowaveform.WaveformOptions{
		Start: 0,
		End:   duration,
		Width: width,
	})
	if err != nil || view == nil || len(view.Data) == 0 {
		return ""
	}

	virtualHeight := height * segmentsPerChar
	grid := make([][]bool, virtualHeight)
	for i := range grid {
		grid[i] = make([]bool, width)
	}

	var maxAbs int16 = 1
	for _, v := range view.Data {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	}

	center := virtualHeight / 2
	for i := 0; i < len(view.Data)/2 && i < width; i++ {
		minY := center - int(float64(view.Data[i*2])/float64(maxAbs)*float64(center))
		maxY := center - int(float64(view.Data[i*2+1])/float64(maxAbs)*float64(center))
		minY = clampInt(minY, 0, virtualHeight-1)
		maxY = clampInt(maxY, 0, virtualHeight-1)
		if minY > maxY {
			minY, maxY = maxY, minY
		}
		for y := minY; y <= maxY; y++ {
			grid[y][i] = true
		}
	}

	styles := getCommonStyles()
	var sb strings.Builder
	centerRow := height / 2
	for y := 0; y < height; y++ {
		var row strings.Builder
		for x := 0; x < width; x++ {
			if y < centerRow {
				row.WriteString(getUpperHalfChar(grid, x, y))
			} else {
				row.WriteString(getLowerHalfChar(grid, x, y))
			}
		}
		sb.WriteString(styles.Dir.Render(row.String()))
		sb.WriteString("\n")
	}
	sb.WriteString(styles.Label.Render(fmt.Sprintf("%s  %.2fs", filepath.Base(path), duration)))
	sb.WriteString("\n")
	return sb.String()
}

func wavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	d, err := wav.NewDecoder(f).Duration()
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}
