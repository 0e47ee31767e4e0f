package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickInterval(t *testing.T) {
	cases := []struct {
		name     string
		visible  float64
		width    int
		interval float64
	}{
		{"whole song", 60, 120, 30},
		{"ten seconds wide", 10, 100, 5},
		{"one second wide", 1, 100, 1},
		{"zoomed to tenths", 0.15, 100, 0.1},
		{"zoomed to hundredths", 0.05, 100, 0.025},
		{"sample level", 0.002, 100, 0.001},
		{"very long timeline", 4000, 100, 600},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.interval, TickInterval(c.visible, c.width))
		})
	}

	t.Run("degenerate geometry yields no ticks", func(t *testing.T) {
		assert.Equal(t, 0.0, TickInterval(10, 0))
		assert.Equal(t, 0.0, TickInterval(0, 100))
	})
}

func TestTicks(t *testing.T) {
	t.Run("ticks are interval multiples inside the window", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})
		m.ZoomLevel = 10.0 / 1.8
		m.ViewStart, m.ViewEnd = 2.2, 4.0

		interval, ticks := m.Ticks()
		assert.Equal(t, 1.0, interval)
		assert.Equal(t, []float64{3, 4}, ticks)
	})

	t.Run("window start on a multiple includes it", func(t *testing.T) {
		m, _ := newTestModel([2]float64{10, 0})

		interval, ticks := m.Ticks()
		assert.Equal(t, 5.0, interval)
		assert.Equal(t, []float64{0, 5, 10}, ticks)
	})

	t.Run("no geometry, no ticks", func(t *testing.T) {
		m := NewModel(&fakeEngine{})
		interval, ticks := m.Ticks()
		assert.Equal(t, 0.0, interval)
		assert.Empty(t, ticks)
	})
}
