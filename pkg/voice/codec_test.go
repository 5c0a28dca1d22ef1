package voice

import (
	"encoding/base64"
	"errors"
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
	}{
		{
			name:    "silence",
			samples: []float32{0, 0, 0, 0},
		},
		{
			name:    "full scale",
			samples: []float32{1, -1, 1, -1},
		},
		{
			name:    "mixed signal",
			samples: []float32{0.5, -0.25, 0.125, -0.0625, 0.9999},
		},
		{
			name:    "empty",
			samples: []float32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodePCM16(tt.samples)
			decoded, err := DecodePCM16(encoded, 1)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if len(decoded) != len(tt.samples) {
				t.Fatalf("expected %d samples, got %d", len(tt.samples), len(decoded))
			}
			for i := range decoded {
				diff := math.Abs(float64(decoded[i]) - float64(tt.samples[i]))
				if diff > 1.0/32767.0 {
					t.Errorf("sample %d: expected %.6f, got %.6f (diff %.8f)", i, tt.samples[i], decoded[i], diff)
				}
			}
		})
	}
}

func TestEncodePCM16Clamps(t *testing.T) {
	encoded := EncodePCM16([]float32{2.0, -3.5})
	decoded, err := DecodePCM16(encoded, 1)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded[0] < 0.999 {
		t.Errorf("expected positive overdrive to clamp near 1.0, got %.6f", decoded[0])
	}
	if decoded[1] > -0.999 {
		t.Errorf("expected negative overdrive to clamp near -1.0, got %.6f", decoded[1])
	}
}

func TestDecodePCM16TruncatesPartialFrame(t *testing.T) {
	// 5 bytes is two complete s16 frames plus one trailing byte.
	chunk := base64.StdEncoding.EncodeToString([]byte{0x00, 0x40, 0x00, 0xC0, 0x7F})
	decoded, err := DecodePCM16(chunk, 1)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(decoded))
	}
}

func TestDecodePCM16InvalidBase64(t *testing.T) {
	_, err := DecodePCM16("not!!valid!!base64", 1)
	if err == nil {
		t.Fatal("expected error for invalid base64")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
}

func TestRMSAmplitude(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float32
		expected float64
	}{
		{
			name:     "silence",
			samples:  []float32{0, 0, 0, 0},
			expected: 0.0,
		},
		{
			name:     "full amplitude",
			samples:  []float32{1, 1, 1, 1},
			expected: 1.0,
		},
		{
			name:     "half amplitude",
			samples:  []float32{0.5, -0.5, 0.5, -0.5},
			expected: 0.5,
		},
		{
			name:     "empty block",
			samples:  nil,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RMSAmplitude(tt.samples)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("expected RMS %.3f, got %.3f", tt.expected, result)
			}
		})
	}
}
