package audio

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Speaker renders audio through the default output device. It
// implements voice.Sink. The oto player pulls from an internal PCM
// buffer via Read, so Write never blocks on the hardware.
type Speaker struct {
	otoCtx *oto.Context

	mu      sync.Mutex
	cond    *sync.Cond
	buf     []byte
	player  *oto.Player
	playing bool
	closed  bool
}

// NewSpeaker creates a speaker over an initialized oto context. The
// player starts lazily on the first Write.
func NewSpeaker(ctx *oto.Context, sampleRate int) *Speaker {
	s := &Speaker{
		otoCtx: ctx,
		buf:    make([]byte, 0, sampleRate*4),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Write queues normalized samples for playback.
func (s *Speaker) Write(samples []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.buf = append(s.buf, samplesToBytes(samples)...)
	if !s.playing {
		s.playing = true
		s.player = s.otoCtx.NewPlayer(s)
		s.player.Play()
	}
	s.cond.Signal()
	return nil
}

// Read implements io.Reader for the oto player. It blocks until data
// is queued or the speaker closes, then drains the buffer.
func (s *Speaker) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}

	if s.closed && len(s.buf) == 0 {
		// Feed silence so oto drains without an error path.
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Close stops playback and releases the player. Idempotent.
func (s *Speaker) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.buf = s.buf[:0]
	player := s.player
	s.player = nil
	s.cond.Broadcast()
	s.mu.Unlock()

	if player != nil {
		return player.Close()
	}
	return nil
}

// samplesToBytes converts normalized float32 samples to s16le PCM.
func samplesToBytes(samples []float32) []byte {
	pcm := make([]byte, 2*len(samples))
	for i, sample := range samples {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		v := int16(sample * 32767)
		pcm[2*i] = byte(v)
		pcm[2*i+1] = byte(v >> 8)
	}
	return pcm
}
