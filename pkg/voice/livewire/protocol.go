// Package livewire implements the client side of the Live
// bidirectional generation WebSocket protocol used by the voice
// session. Messages are JSON frames; audio rides inside them as
// base64 PCM.
package livewire

import "encoding/json"

// MIME types for PCM audio at the session's fixed rates.
const (
	CaptureMIMEType  = "audio/pcm;rate=16000"
	PlaybackMIMEType = "audio/pcm;rate=24000"
)

// ClientSetup is the first frame on a new connection. The server
// answers with a frame carrying SetupComplete before any content.
type ClientSetup struct {
	Setup SetupPayload `json:"setup"`
}

type SetupPayload struct {
	Model                    string            `json:"model"`
	GenerationConfig         *GenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction        *Content          `json:"systemInstruction,omitempty"`
	InputAudioTranscription  *struct{}         `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}         `json:"outputAudioTranscription,omitempty"`
}

type GenerationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

type SpeechConfig struct {
	VoiceConfig *VoiceConfig `json:"voiceConfig,omitempty"`
}

type VoiceConfig struct {
	PrebuiltVoiceConfig *PrebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName,omitempty"`
}

// Content is a role-tagged list of parts, used for system instructions
// and model turns.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded media.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ClientRealtimeInput streams live capture audio to the server.
type ClientRealtimeInput struct {
	RealtimeInput RealtimeInputPayload `json:"realtimeInput"`
}

type RealtimeInputPayload struct {
	MediaChunks []InlineData `json:"mediaChunks"`
}

// ServerFrame is the envelope for every inbound frame. Exactly one of
// the fields is set per frame.
type ServerFrame struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *ServerContent `json:"serverContent,omitempty"`
	GoAway        *GoAway        `json:"goAway,omitempty"`
}

// ServerContent carries one increment of the model's response. Any
// combination of the fields may be present in a single frame.
type ServerContent struct {
	ModelTurn           *Content    `json:"modelTurn,omitempty"`
	InputTranscription  *Transcript `json:"inputTranscription,omitempty"`
	OutputTranscription *Transcript `json:"outputTranscription,omitempty"`
	TurnComplete        bool        `json:"turnComplete,omitempty"`
	Interrupted         bool        `json:"interrupted,omitempty"`
}

type Transcript struct {
	Text string `json:"text"`
}

// GoAway warns that the server will close the connection soon.
type GoAway struct {
	TimeLeft string `json:"timeLeft,omitempty"`
}

// NewRealtimeAudioInput wraps one base64 capture block in a realtime
// input frame.
func NewRealtimeAudioInput(chunkB64 string) ClientRealtimeInput {
	return ClientRealtimeInput{
		RealtimeInput: RealtimeInputPayload{
			MediaChunks: []InlineData{{MIMEType: CaptureMIMEType, Data: chunkB64}},
		},
	}
}

// DecodeServerFrame parses one inbound text frame.
func DecodeServerFrame(data []byte) (ServerFrame, error) {
	var frame ServerFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return ServerFrame{}, err
	}
	return frame, nil
}
