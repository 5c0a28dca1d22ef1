package voice

import (
	"encoding/base64"
	"math"
)

// EncodePCM16 converts normalized float samples to base64-encoded
// 16-bit signed little-endian PCM. Samples are clamped to [-1, 1] and
// scaled by 32767. The conversion is deterministic and lossless modulo
// 16-bit quantization.
func EncodePCM16(samples []float32) string {
	pcm := make([]byte, len(samples)*2)
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		s := int16(v * 32767)
		pcm[i*2] = byte(s)
		pcm[i*2+1] = byte(s >> 8)
	}
	return base64.StdEncoding.EncodeToString(pcm)
}

// DecodePCM16 converts a base64-encoded 16-bit little-endian PCM chunk
// back into normalized float samples. A trailing partial frame (bytes
// not aligned to 2*channels) is truncated. Malformed base64 yields a
// *DecodeError; the caller should drop the chunk and continue.
func DecodePCM16(chunk string, channels int) ([]float32, error) {
	if channels <= 0 {
		channels = 1
	}
	pcm, err := base64.StdEncoding.DecodeString(chunk)
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64", Err: err}
	}
	frameBytes := 2 * channels
	frames := len(pcm) / frameBytes
	samples := make([]float32, frames*channels)
	for i := range samples {
		s := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		samples[i] = float32(s) / 32768.0
	}
	return samples, nil
}

// RMSAmplitude computes the root-mean-square amplitude of a normalized
// sample block. Returns a value between 0.0 and 1.0.
func RMSAmplitude(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
