package model

// TimeToPixel maps a timeline time to an x coordinate in the waveform
// area. Times outside the window map outside [0, WidthPixels).
func (m *Model) TimeToPixel(t float64) float64 {
	if m.ViewEnd == m.ViewStart {
		return 0
	}
	fraction := (t - m.ViewStart) / (m.ViewEnd - m.ViewStart)
	return fraction * float64(m.WidthPixels)
}

// PixelToTime maps an x coordinate in the waveform area to a timeline
// time. With a zero-width area it degrades to ViewStart.
func (m *Model) PixelToTime(x float64) float64 {
	if m.WidthPixels == 0 {
		return m.ViewStart
	}
	fraction := x / float64(m.WidthPixels)
	return m.ViewStart + fraction*(m.ViewEnd-m.ViewStart)
}
