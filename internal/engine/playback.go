package engine

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// playback streams a rendered stereo mix through the system output.
// Position is derived from bytes consumed by the device, offset by the
// timeline time the stream started at.
type playback struct {
	ctx    *oto.Context
	rate   int
	player *oto.Player
	src    *countingReader
	base   float64
}

func newPlayback(rate int) (*playback, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create audio context: %w", err)
	}
	<-ready
	return &playback{ctx: ctx, rate: rate}, nil
}

func (p *playback) play(mix []float32, base float64) error {
	p.stop()

	raw := make([]byte, len(mix)*2)
	for i, v := range mix {
		s := int16(v * 32767)
		raw[i*2] = byte(s)
		raw[i*2+1] = byte(s >> 8)
	}
	p.src = &countingReader{r: bytes.NewReader(raw)}
	p.base = base
	p.player = p.ctx.NewPlayer(p.src)
	p.player.Play()
	return nil
}

func (p *playback) pause() {
	if p.player != nil {
		p.player.Pause()
	}
}

func (p *playback) stop() {
	if p.player != nil {
		p.player.Close()
		p.player = nil
		p.src = nil
	}
}

func (p *playback) active() bool {
	return p.player != nil
}

func (p *playback) isPlaying() bool {
	return p.player != nil && p.player.IsPlaying()
}

func (p *playback) position() float64 {
	if p.src == nil {
		return 0
	}
	// 2 channels x 2 bytes per sample
	return p.base + float64(p.src.count())/float64(4*p.rate)
}

// countingReader tracks bytes handed to the output device. The device
// pulls from its own goroutine, so the counter is atomic.
type countingReader struct {
	r *bytes.Reader
	n int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	atomic.AddInt64(&c.n, int64(n))
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (c *countingReader) count() int64 {
	return atomic.LoadInt64(&c.n)
}
