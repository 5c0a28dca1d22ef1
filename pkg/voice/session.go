package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Callbacks notify the caller of session-observable changes. All
// callbacks are optional and are invoked from session-owned goroutines;
// they must not block.
type Callbacks struct {
	// OnStateChange fires on every session state transition.
	OnStateChange func(state SessionState)
	// OnModelSpeakingChange fires when the remote voice starts or stops
	// rendering audio.
	OnModelSpeakingChange func(speaking bool)
	// OnUserSpeakingChange fires when local speech activity crosses the
	// RMS threshold.
	OnUserSpeakingChange func(speaking bool)
}

// Devices bundles the audio hardware owned by one session. Each device
// is exclusively owned; no two concurrent sessions may share either.
// Release closes the underlying driver contexts after both devices
// stopped and may be nil when the backends need no shared context.
type Devices struct {
	Capture CaptureDevice
	Sink    Sink
	Release func() error
}

// Session orchestrates one live voice check-in: it owns the network
// session to the remote endpoint, wires the capture pipeline, playback
// scheduler, and transcript assembler to the event stream, and
// guarantees resource teardown on every exit path.
type Session struct {
	id     string
	logger *slog.Logger

	transport Transport
	capture   *CapturePipeline
	playback  *PlaybackScheduler
	assembler *TranscriptAssembler
	release   func() error

	callbacks Callbacks

	mu    sync.Mutex
	state SessionState

	started atomic.Bool
	closed  atomic.Bool

	closeOnce   sync.Once
	teardownErr error
}

// NewSession creates a session over the given transport and devices.
func NewSession(transport Transport, devices Devices, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		id:        uuid.NewString(),
		logger:    logger,
		transport: transport,
		assembler: NewTranscriptAssembler(),
		release:   devices.Release,
		state:     StateConnecting,
	}
	s.capture = NewCapturePipeline(devices.Capture, logger)
	s.playback = NewPlaybackScheduler(devices.Sink, logger, nil)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins the session: remote handshake, then local device
// acquisition. The session reaches CONNECTED only when both succeed;
// any failure is terminal and surfaces as ERROR. There is no internal
// retry; recovery is a fresh session.
func (s *Session) Start(ctx context.Context, callbacks Callbacks) error {
	if s.started.Swap(true) {
		return fmt.Errorf("session already started")
	}
	s.callbacks = callbacks
	s.playback.onSpeaking = callbacks.OnModelSpeakingChange

	s.setState(StateConnecting)

	if err := s.transport.Connect(ctx); err != nil {
		s.setState(StateError)
		s.teardown(StateError)
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}

	if err := s.capture.Start(s.transport.SendAudio, callbacks.OnUserSpeakingChange); err != nil {
		s.setState(StateError)
		s.teardown(StateError)
		return err
	}

	go s.eventLoop()

	s.setState(StateConnected)
	s.logger.Info("voice session connected", "session_id", s.id)
	return nil
}

// Finish stops the session, tears down all resources, and returns the
// finalized transcript. The transcript is never empty: a session with
// no transcription events yields SilentSessionTranscript.
func (s *Session) Finish() (string, error) {
	err := s.teardown(StateDisconnected)
	return s.assembler.Finalize(), err
}

// Cancel stops the session, tears down all resources, and discards the
// transcript. Effective immediately, even mid-flight: it does not wait
// for any in-progress network round trip.
func (s *Session) Cancel() error {
	return s.teardown(StateDisconnected)
}

// eventLoop is the single dispatch point for inbound transport events.
func (s *Session) eventLoop() {
	for event := range s.transport.Events() {
		switch e := event.(type) {
		case OpenedEvent:
			// Handshake completion is observed in Connect.
		case AudioChunkEvent:
			s.handleAudioChunk(e.DataB64)
		case InputTranscriptionEvent:
			s.assembler.AddDelta(RoleUser, e.Text)
		case OutputTranscriptionEvent:
			s.assembler.AddDelta(RoleModel, e.Text)
		case TurnCompleteEvent:
			s.assembler.CompleteTurn()
			if s.callbacks.OnModelSpeakingChange != nil {
				s.callbacks.OnModelSpeakingChange(false)
			}
		case TransportErrorEvent:
			s.handleInterrupted(e.Err)
			return
		case ClosedEvent:
			s.handleInterrupted(nil)
			return
		}
	}
	s.handleInterrupted(nil)
}

// handleAudioChunk decodes and schedules one inbound audio chunk. A
// malformed chunk is dropped; it never terminates a healthy session.
func (s *Session) handleAudioChunk(dataB64 string) {
	samples, err := DecodePCM16(dataB64, PlaybackAudioConfig().Channels)
	if err != nil {
		s.logger.Warn("dropping malformed audio chunk", "session_id", s.id, "error", err)
		return
	}
	if _, err := s.playback.Enqueue(samples); err != nil && !errors.Is(err, ErrSessionClosed) {
		s.logger.Warn("schedule playback buffer", "session_id", s.id, "error", err)
	}
}

// handleInterrupted reacts to a transport closure that was not caused
// by an explicit Finish or Cancel.
func (s *Session) handleInterrupted(cause error) {
	if s.closed.Load() {
		return
	}
	if cause == nil {
		cause = ErrTransportInterrupted
	}
	s.logger.Error("transport interrupted", "session_id", s.id, "error", cause)
	s.setState(StateError)
	s.teardown(StateError)
}

// teardown releases every session resource exactly once. All steps run
// even when earlier ones fail: capture pipeline, playback scheduler,
// transport, then the underlying device contexts. Errors are joined.
func (s *Session) teardown(final SessionState) error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		var errs []error
		if err := s.capture.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop capture: %w", err))
		}
		if err := s.playback.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playback: %w", err))
		}
		if err := s.transport.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close transport: %w", err))
		}
		if s.release != nil {
			if err := s.release(); err != nil {
				errs = append(errs, fmt.Errorf("release devices: %w", err))
			}
		}
		s.teardownErr = errors.Join(errs...)

		s.setState(final)
		s.logger.Info("voice session closed", "session_id", s.id, "state", final.String())
	})
	return s.teardownErr
}

// setState transitions the session state. Terminal states are sticky:
// once in ERROR or DISCONNECTED the session never transitions again.
func (s *Session) setState(next SessionState) {
	s.mu.Lock()
	prev := s.state
	if prev == next || prev == StateError || prev == StateDisconnected {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("session state", "session_id", s.id, "from", prev.String(), "to", next.String())
	if s.callbacks.OnStateChange != nil {
		s.callbacks.OnStateChange(next)
	}
}
