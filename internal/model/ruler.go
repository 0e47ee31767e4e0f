package model

import "math"

// Human-friendly ruler intervals, ascending. The planner picks the
// smallest one that keeps roughly 100 pixels between ticks.
var tickIntervals = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1,
	1, 5, 10, 30, 60, 300, 600,
}

// TickInterval chooses the ruler interval for a visible duration rendered
// across width pixels: the smallest fixed interval that is at least half
// the ideal ~100px spacing. Degenerate geometry yields 0 (no ticks).
func TickInterval(visibleDuration float64, width int) float64 {
	if width <= 0 || visibleDuration <= 0 {
		return 0
	}
	ideal := 100 * visibleDuration / float64(width)
	for _, interval := range tickIntervals {
		if interval >= 0.5*ideal {
			return interval
		}
	}
	return tickIntervals[len(tickIntervals)-1]
}

// Ticks returns the chosen interval and the tick times inside the current
// window, starting at the smallest multiple of the interval >= ViewStart.
func (m *Model) Ticks() (float64, []float64) {
	interval := TickInterval(m.VisibleDuration(), m.WidthPixels)
	if interval == 0 {
		return 0, nil
	}
	ticks := []float64{}
	t := math.Ceil(m.ViewStart/interval-1e-9) * interval
	for t <= m.ViewEnd+1e-9 {
		ticks = append(ticks, t)
		t += interval
	}
	return interval, ticks
}
