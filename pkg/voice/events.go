package voice

import "context"

// TransportEvent is the tagged-variant type for events arriving from
// the remote endpoint. Each inbound callback of the underlying channel
// (open, message, error, close) is re-expressed as one concrete variant
// and consumed by a single dispatch loop in the Session.
type TransportEvent interface {
	transportEventType() string
}

// OpenedEvent signals that the remote handshake completed.
type OpenedEvent struct{}

func (OpenedEvent) transportEventType() string { return "open" }

// AudioChunkEvent carries one base64-encoded PCM chunk of synthesized
// response audio at the playback sample rate.
type AudioChunkEvent struct {
	DataB64 string
}

func (AudioChunkEvent) transportEventType() string { return "audio_chunk" }

// InputTranscriptionEvent carries an incremental transcription delta of
// the user's own speech.
type InputTranscriptionEvent struct {
	Text string
}

func (InputTranscriptionEvent) transportEventType() string { return "input_transcription" }

// OutputTranscriptionEvent carries an incremental transcription delta
// of the model's spoken response.
type OutputTranscriptionEvent struct {
	Text string
}

func (OutputTranscriptionEvent) transportEventType() string { return "output_transcription" }

// TurnCompleteEvent marks the boundary of one conversation turn. It has
// no payload.
type TurnCompleteEvent struct{}

func (TurnCompleteEvent) transportEventType() string { return "turn_complete" }

// TransportErrorEvent reports a transport-level failure.
type TransportErrorEvent struct {
	Err error
}

func (TransportErrorEvent) transportEventType() string { return "error" }

// ClosedEvent signals that the remote channel closed. Without a
// preceding Finish or Cancel this is treated as an interruption.
type ClosedEvent struct{}

func (ClosedEvent) transportEventType() string { return "close" }

// Transport is the bidirectional event channel to the remote
// conversational endpoint. Connect performs the handshake; SendAudio
// streams one encoded capture block outbound; Events yields inbound
// events until the channel closes.
type Transport interface {
	Connect(ctx context.Context) error
	SendAudio(chunkB64 string) error
	Events() <-chan TransportEvent
	Close() error
}
