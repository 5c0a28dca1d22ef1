package voice

import (
	"log/slog"
	"sync"
	"time"
)

// Clock provides the output device timeline. Durations are measured
// from an arbitrary fixed epoch and advance monotonically.
type Clock interface {
	Now() time.Duration
}

type monotonicClock struct {
	epoch time.Time
}

func newMonotonicClock() *monotonicClock {
	return &monotonicClock{epoch: time.Now()}
}

func (c *monotonicClock) Now() time.Duration {
	return time.Since(c.epoch)
}

// Sink renders decoded PCM on the output device. Write is invoked at
// each buffer's scheduled start time, strictly sequentially. Close
// releases the device and must be safe to call more than once.
type Sink interface {
	Write(samples []float32) error
	Close() error
}

type playbackSource struct {
	start    time.Duration
	duration time.Duration

	cancelStart func() bool
	cancelDone  func() bool
}

// PlaybackScheduler owns the output device for one session. It accepts
// decoded response buffers arriving out-of-band and schedules them for
// gapless sequential playback: each buffer starts at the later of the
// device clock and the end of the previously scheduled buffer, so
// buffers delivered faster than real time play back-to-back and jitter
// never causes overlap.
type PlaybackScheduler struct {
	sink   Sink
	logger *slog.Logger

	clock    Clock
	schedule func(delay time.Duration, fn func()) func() bool

	onSpeaking func(speaking bool)

	mu      sync.Mutex
	cursor  time.Duration
	active  map[int]*playbackSource
	nextID  int
	stopped bool

	stopOnce sync.Once
}

// NewPlaybackScheduler creates a scheduler over the given sink.
// onSpeaking is invoked on every transition of the "remote speaking"
// signal, which is true exactly while the active-set is non-empty.
func NewPlaybackScheduler(sink Sink, logger *slog.Logger, onSpeaking func(bool)) *PlaybackScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackScheduler{
		sink:       sink,
		logger:     logger,
		clock:      newMonotonicClock(),
		schedule:   scheduleAfter,
		onSpeaking: onSpeaking,
		active:     make(map[int]*playbackSource),
	}
}

func scheduleAfter(delay time.Duration, fn func()) func() bool {
	if delay < 0 {
		delay = 0
	}
	t := time.AfterFunc(delay, fn)
	return t.Stop
}

// Enqueue schedules one decoded buffer of playback audio and returns
// its absolute start time on the device timeline. The start is clamped
// to never precede the end of the previously enqueued buffer.
func (s *PlaybackScheduler) Enqueue(samples []float32) (time.Duration, error) {
	cfg := PlaybackAudioConfig()
	d := time.Duration(len(samples)) * time.Second / time.Duration(cfg.SamplesPerSecond())

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return 0, ErrSessionClosed
	}

	now := s.clock.Now()
	start := s.cursor
	if now > start {
		start = now
	}
	s.cursor = start + d

	id := s.nextID
	s.nextID++
	src := &playbackSource{start: start, duration: d}
	s.active[id] = src
	becameActive := len(s.active) == 1

	src.cancelStart = s.schedule(start-now, func() {
		if err := s.sink.Write(samples); err != nil {
			s.logger.Debug("playback sink write", "error", err)
		}
	})
	src.cancelDone = s.schedule(start+d-now, func() {
		s.complete(id)
	})
	cb := s.onSpeaking
	s.mu.Unlock()

	if becameActive && cb != nil {
		cb(true)
	}
	return start, nil
}

// Speaking reports whether any scheduled source is still rendering.
func (s *PlaybackScheduler) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) > 0
}

// complete removes a finished source from the active-set.
func (s *PlaybackScheduler) complete(id int) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.active, id)
	becameIdle := len(s.active) == 0
	cb := s.onSpeaking
	s.mu.Unlock()

	if becameIdle && cb != nil {
		cb(false)
	}
}

// Stop cancels all scheduled sources and closes the output device.
// Idempotent; the first call's sink error is returned.
func (s *PlaybackScheduler) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		wasSpeaking := len(s.active) > 0
		for id, src := range s.active {
			if src.cancelStart != nil {
				src.cancelStart()
			}
			if src.cancelDone != nil {
				src.cancelDone()
			}
			delete(s.active, id)
		}
		cb := s.onSpeaking
		s.mu.Unlock()

		if wasSpeaking && cb != nil {
			cb(false)
		}
		err = s.sink.Close()
	})
	return err
}
