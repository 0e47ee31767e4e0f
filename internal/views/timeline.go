package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/schollz/wavedeck/internal/model"
	"github.com/schollz/wavedeck/internal/types"
)

const segmentsPerChar = 8

// RenderTimelineView draws the ruler, one lane per track and the footer.
// waveforms holds one bin slice per track, already fetched for the
// current window at the current width; a nil entry renders an empty
// lane. The view is rendered without container padding so pointer cell
// coordinates line up with the ruler and lane geometry.
func RenderTimelineView(m *model.Model, waveforms [][]types.WaveformBin, playing bool, termHeight int, statusMsg string) string {
	styles := getCommonStyles()
	var content strings.Builder

	width := m.WidthPixels
	if width <= 0 {
		return styles.Label.Render("terminal too narrow")
	}

	content.WriteString(renderRuler(m, styles))

	selCols, selTracks := selectionColumns(m, width)
	cursorCol := cursorColumn(m, width, playing)

	for i := range m.Tracks {
		var bins []types.WaveformBin
		if i < len(waveforms) {
			bins = waveforms[i]
		}
		content.WriteString(renderLane(m, i, bins, selCols, selTracks, cursorCol, styles))
	}

	lines := types.RulerHeight + len(m.Tracks)*types.LaneHeight
	help := "space play/pause | enter play sel | +/- zoom | z zoom sel | d delete | o files | x export | ctrl+q quit"
	content.WriteString(RenderFooter(termHeight, lines, help, statusMsg))
	return content.String()
}

// renderRuler draws the tick row and the label row, indented past the
// header column so tick positions line up with waveform pixels.
func renderRuler(m *model.Model, styles *ViewStyles) string {
	width := m.WidthPixels
	tickLine := blankRunes(width)
	labelLine := blankRunes(width)

	_, ticks := m.Ticks()
	for _, t := range ticks {
		pos := int(m.TimeToPixel(t))
		if pos < 0 || pos >= width {
			continue
		}
		tickLine[pos] = '|'
		placeLabel(labelLine, pos, m.FormatTime(t))
	}

	indent := strings.Repeat(" ", types.HeaderWidth)
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString(styles.Label.Render(string(tickLine)))
	sb.WriteString("\n")
	sb.WriteString(indent)
	sb.WriteString(styles.Label.Render(string(labelLine)))
	sb.WriteString("\n")
	return sb.String()
}

// placeLabel centers label on pos, clamped to the line.
func placeLabel(line []rune, pos int, label string) {
	start := pos - len(label)/2
	if start < 0 {
		start = 0
	}
	if start+len(label) > len(line) {
		start = len(line) - len(label)
	}
	for i, ch := range label {
		if start+i >= 0 && start+i < len(line) {
			line[start+i] = ch
		}
	}
}

// renderLane draws one track: a header column and LaneHeight rows of
// waveform cells. Stereo tracks split the lane into a left and a right
// channel band; mono tracks use the whole lane for the single channel.
func renderLane(m *model.Model, track int, bins []types.WaveformBin, selCols [2]int, selTracks map[int]bool, cursorCol int, styles *ViewStyles) string {
	width := m.WidthPixels
	info := m.Tracks[track]

	var rows [][]string
	if info.Channels >= 2 {
		half := types.LaneHeight / 2
		rows = append(channelRows(bins, width, half, false), channelRows(bins, width, half, true)...)
	} else {
		rows = channelRows(bins, width, types.LaneHeight, false)
	}

	colStyles := columnStyles(bins, width, styles)
	selected := selTracks[track]
	header := laneHeader(m, track, info, styles)

	var sb strings.Builder
	for y := 0; y < types.LaneHeight; y++ {
		sb.WriteString(header[y])
		for x := 0; x < width; x++ {
			ch := rows[y][x]
			switch {
			case x == cursorCol:
				if ch == " " {
					ch = "│"
				}
				sb.WriteString(styles.Cursor.Render(ch))
			case selected && x >= selCols[0] && x <= selCols[1]:
				sb.WriteString(styles.Selected.Render(ch))
			default:
				sb.WriteString(colStyles[x].Render(ch))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// channelRows rasterizes one channel of a bin slice into height rows of
// block characters, 8 vertical segments per row.
func channelRows(bins []types.WaveformBin, width, height int, right bool) [][]string {
	virtualHeight := height * segmentsPerChar
	grid := make([][]bool, virtualHeight)
	for i := range grid {
		grid[i] = make([]bool, width)
	}

	maxAbs := peakAbs(bins)
	center := virtualHeight / 2
	for x := 0; x < width && x < len(bins); x++ {
		lo, hi := bins[x].MinL, bins[x].MaxL
		if right {
			lo, hi = bins[x].MinR, bins[x].MaxR
		}
		minY := center - int(float64(hi)/maxAbs*float64(center))
		maxY := center - int(float64(lo)/maxAbs*float64(center))
		minY = clampInt(minY, 0, virtualHeight-1)
		maxY = clampInt(maxY, 0, virtualHeight-1)
		if minY > maxY {
			minY, maxY = maxY, minY
		}
		for y := minY; y <= maxY; y++ {
			grid[y][x] = true
		}
	}

	rows := make([][]string, height)
	centerRow := height / 2
	for y := 0; y < height; y++ {
		rows[y] = make([]string, width)
		for x := 0; x < width; x++ {
			if y < centerRow {
				rows[y][x] = getUpperHalfChar(grid, x, y)
			} else {
				rows[y][x] = getLowerHalfChar(grid, x, y)
			}
		}
	}
	return rows
}

// peakAbs finds the largest absolute amplitude across both channels, for
// per-lane normalization. Silent lanes normalize against 1 so the grid
// math never divides by zero.
func peakAbs(bins []types.WaveformBin) float64 {
	var peak float64
	for _, b := range bins {
		for _, v := range []float32{b.MinL, b.MaxL, b.MinR, b.MaxR} {
			a := float64(v)
			if a < 0 {
				a = -a
			}
			if a > peak {
				peak = a
			}
		}
	}
	if peak == 0 {
		return 1
	}
	return peak
}

// columnStyles picks a per-column foreground from the amplitude so loud
// regions read brighter. On terminals without truecolor every column
// falls back to the normal lane style.
func columnStyles(bins []types.WaveformBin, width int, styles *ViewStyles) []lipgloss.Style {
	out := make([]lipgloss.Style, width)
	if !trueColor {
		for x := range out {
			out[x] = styles.Normal
		}
		return out
	}
	quiet, _ := colorful.Hex("#3a6ea5")
	loud, _ := colorful.Hex("#7fdbff")
	peak := peakAbs(bins)
	for x := 0; x < width; x++ {
		amp := 0.0
		if x < len(bins) {
			b := bins[x]
			amp = math64Max(float64(b.MaxL), float64(b.MaxR), -float64(b.MinL), -float64(b.MinR)) / peak
		}
		if amp < 0 {
			amp = 0
		} else if amp > 1 {
			amp = 1
		}
		out[x] = lipgloss.NewStyle().Foreground(lipgloss.Color(quiet.BlendLuv(loud, amp).Hex()))
	}
	return out
}

func math64Max(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// laneHeader formats the fixed-width header column: name, format line,
// offset and duration, with a marker while the track is being dragged.
func laneHeader(m *model.Model, track int, info types.TrackInfo, styles *ViewStyles) [types.LaneHeight]string {
	name := info.Name
	if len(name) > types.HeaderWidth-1 {
		name = name[:types.HeaderWidth-1]
	}
	format := fmt.Sprintf("%s %dch", formatRate(info.SampleRate), info.Channels)
	offset := fmt.Sprintf("+%.2fs", info.Offset)
	last := fmt.Sprintf("%.1fs", info.Duration)
	if m.DragTrack() == track {
		last = "◆ moving"
	}

	var out [types.LaneHeight]string
	out[0] = styles.Header.Render(padColumn(name))
	out[1] = styles.Label.Render(padColumn(format))
	out[2] = styles.Label.Render(padColumn(offset))
	out[3] = styles.Label.Render(padColumn(last))
	return out
}

func padColumn(s string) string {
	if len(s) >= types.HeaderWidth {
		return s[:types.HeaderWidth]
	}
	return s + strings.Repeat(" ", types.HeaderWidth-len(s))
}

func formatRate(rate int) string {
	if rate%1000 == 0 {
		return fmt.Sprintf("%dk", rate/1000)
	}
	return fmt.Sprintf("%.1fk", float64(rate)/1000)
}

// selectionColumns maps the active selection into a pixel column range
// and the set of tracks it covers. No selection yields an empty range.
func selectionColumns(m *model.Model, width int) ([2]int, map[int]bool) {
	sel := m.Selection()
	if sel == nil {
		return [2]int{-1, -2}, nil
	}
	start := clampInt(int(m.TimeToPixel(sel.Start)), 0, width-1)
	end := clampInt(int(m.TimeToPixel(sel.End)), 0, width-1)
	tracks := make(map[int]bool, len(sel.Tracks))
	for _, t := range sel.Tracks {
		tracks[t] = true
	}
	return [2]int{start, end}, tracks
}

// cursorColumn maps the playback position into a column, or -1 when the
// cursor is outside the window. The cursor is drawn whenever a position
// is known, playing or paused, matching the widget.
func cursorColumn(m *model.Model, width int, playing bool) int {
	if m.MaxDuration == 0 {
		return -1
	}
	if m.PlaybackPosition < m.ViewStart || m.PlaybackPosition > m.ViewEnd {
		return -1
	}
	if !playing && m.PlaybackPosition == 0 {
		return -1
	}
	return clampInt(int(m.TimeToPixel(m.PlaybackPosition)), 0, width-1)
}

func blankRunes(n int) []rune {
	line := make([]rune, n)
	for i := range line {
		line[i] = ' '
	}
	return line
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// getUpperHalfChar returns the block character for a cell above the lane
// center line, using upper blocks that hang from the top of the cell.
func getUpperHalfChar(grid [][]bool, x, y int) string {
	baseY := y * segmentsPerChar
	lowestFilled := -1
	for i := segmentsPerChar - 1; i >= 0; i-- {
		segY := baseY + i
		if segY < len(grid) && grid[segY][x] {
			lowestFilled = i
			break
		}
	}
	if lowestFilled == -1 {
		return " "
	}
	switch lowestFilled + 1 {
	case 1:
		return "▔"
	case 2:
		return "🮂"
	case 3:
		return "🮃"
	case 4:
		return "▀"
	case 5:
		return "🮄"
	case 6:
		return "🮅"
	case 7:
		return "🮆"
	default:
		return "█"
	}
}

// getLowerHalfChar returns the block character for a cell below the lane
// center line, using lower blocks that grow up from the bottom.
func getLowerHalfChar(grid [][]bool, x, y int) string {
	baseY := y * segmentsPerChar
	highestFilled := -1
	for i := 0; i < segmentsPerChar; i++ {
		segY := baseY + i
		if segY < len(grid) && grid[segY][x] {
			highestFilled = i
			break
		}
	}
	if highestFilled == -1 {
		return " "
	}
	switch segmentsPerChar - highestFilled {
	case 1:
		return "▁"
	case 2:
		return "▂"
	case 3:
		return "▃"
	case 4:
		return "▄"
	case 5:
		return "▅"
	case 6:
		return "▆"
	case 7:
		return "▇"
	default:
		return "█"
	}
}
