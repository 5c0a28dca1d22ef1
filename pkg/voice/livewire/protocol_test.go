package livewire

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeServerFrame(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, frame ServerFrame)
	}{
		{
			name: "setup complete",
			raw:  `{"setupComplete": {}}`,
			check: func(t *testing.T, frame ServerFrame) {
				if frame.SetupComplete == nil {
					t.Error("expected setupComplete to be set")
				}
			},
		},
		{
			name: "model turn audio",
			raw:  `{"serverContent": {"modelTurn": {"parts": [{"inlineData": {"mimeType": "audio/pcm;rate=24000", "data": "AAAA"}}]}}}`,
			check: func(t *testing.T, frame ServerFrame) {
				if frame.ServerContent == nil || frame.ServerContent.ModelTurn == nil {
					t.Fatal("expected modelTurn to be set")
				}
				parts := frame.ServerContent.ModelTurn.Parts
				if len(parts) != 1 || parts[0].InlineData == nil {
					t.Fatal("expected one inlineData part")
				}
				if parts[0].InlineData.Data != "AAAA" {
					t.Errorf("expected data AAAA, got %q", parts[0].InlineData.Data)
				}
			},
		},
		{
			name: "transcriptions and turn complete",
			raw:  `{"serverContent": {"inputTranscription": {"text": "hi"}, "outputTranscription": {"text": "hello"}, "turnComplete": true}}`,
			check: func(t *testing.T, frame ServerFrame) {
				content := frame.ServerContent
				if content == nil {
					t.Fatal("expected serverContent to be set")
				}
				if content.InputTranscription == nil || content.InputTranscription.Text != "hi" {
					t.Error("expected input transcription 'hi'")
				}
				if content.OutputTranscription == nil || content.OutputTranscription.Text != "hello" {
					t.Error("expected output transcription 'hello'")
				}
				if !content.TurnComplete {
					t.Error("expected turnComplete")
				}
			},
		},
		{
			name: "go away",
			raw:  `{"goAway": {"timeLeft": "10s"}}`,
			check: func(t *testing.T, frame ServerFrame) {
				if frame.GoAway == nil || frame.GoAway.TimeLeft != "10s" {
					t.Error("expected goAway with timeLeft 10s")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := DecodeServerFrame([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			tt.check(t, frame)
		})
	}
}

func TestDecodeServerFrameInvalid(t *testing.T) {
	if _, err := DecodeServerFrame([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed frame")
	}
}

func TestNewRealtimeAudioInput(t *testing.T) {
	frame := NewRealtimeAudioInput("UENNMTY=")

	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `"mimeType":"audio/pcm;rate=16000"`) {
		t.Errorf("expected capture mime type in %s", got)
	}
	if !strings.Contains(got, `"data":"UENNMTY="`) {
		t.Errorf("expected chunk payload in %s", got)
	}
	if !strings.Contains(got, `"realtimeInput"`) {
		t.Errorf("expected realtimeInput envelope in %s", got)
	}
}
