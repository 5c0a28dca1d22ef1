package voice

// Fixed protocol constants. The remote endpoint consumes 16 kHz mono
// PCM and produces 24 kHz mono PCM; neither rate is renegotiable.
const (
	// CaptureSampleRate is the microphone sample rate in Hz.
	CaptureSampleRate = 16000

	// PlaybackSampleRate is the response audio sample rate in Hz.
	PlaybackSampleRate = 24000

	// CaptureBlockSamples is the number of samples in one capture block.
	CaptureBlockSamples = 4096

	// SpeechActivityThreshold is the RMS amplitude above which a capture
	// block counts as local speech. Computed on normalized samples, so
	// the range is 0.0 to 1.0.
	SpeechActivityThreshold = 0.02
)

// SessionState represents the current state of a live session.
type SessionState int

const (
	// StateConnecting is entered on Start, before the remote handshake
	// and local device acquisition have both succeeded.
	StateConnecting SessionState = iota
	// StateConnected is when audio is flowing in both directions.
	StateConnected
	// StateError is terminal: a device, handshake, or transport failure.
	// Recovery is a full session restart by the caller.
	StateError
	// StateDisconnected is terminal and reached only via Finish or Cancel.
	StateDisconnected
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateError:
		return "ERROR"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// AudioConfig specifies audio format parameters for one direction of
// the conversation.
type AudioConfig struct {
	// SampleRate in Hz.
	SampleRate int

	// Channels: 1 for mono, 2 for stereo.
	Channels int
}

// CaptureAudioConfig returns the fixed outbound audio format.
func CaptureAudioConfig() AudioConfig {
	return AudioConfig{SampleRate: CaptureSampleRate, Channels: 1}
}

// PlaybackAudioConfig returns the fixed inbound audio format.
func PlaybackAudioConfig() AudioConfig {
	return AudioConfig{SampleRate: PlaybackSampleRate, Channels: 1}
}

// SamplesPerSecond returns the per-channel-interleaved sample rate.
func (c AudioConfig) SamplesPerSecond() int {
	return c.SampleRate * c.Channels
}
