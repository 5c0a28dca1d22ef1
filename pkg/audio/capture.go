package audio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/BenjaminWie/emotionalCheckIn/pkg/voice"
)

// Microphone is exclusive access to the default capture device. It
// implements voice.CaptureDevice, delivering normalized mono samples
// at the session capture rate.
type Microphone struct {
	ctx    malgo.Context
	config voice.AudioConfig

	mu     sync.Mutex
	device *malgo.Device
}

// NewMicrophone creates a microphone over an initialized driver
// context. The device itself is acquired in Start.
func NewMicrophone(ctx malgo.Context, config voice.AudioConfig) *Microphone {
	return &Microphone{ctx: ctx, config: config}
}

// Start acquires the device and begins streaming samples into
// onSamples from the driver callback. The callback must not block.
func (m *Microphone) Start(onSamples func([]float32)) error {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(m.config.Channels)
	deviceConfig.SampleRate = uint32(m.config.SampleRate)
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			onSamples(bytesToSamples(input))
		},
	}

	device, err := malgo.InitDevice(m.ctx, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("%w: init microphone: %v", voice.ErrDeviceUnavailable, err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("%w: start microphone: %v", voice.ErrDeviceUnavailable, err)
	}

	m.mu.Lock()
	m.device = device
	m.mu.Unlock()
	return nil
}

// Stop releases the device. Safe to call more than once and before
// Start.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	device := m.device
	m.device = nil
	m.mu.Unlock()

	if device == nil {
		return nil
	}
	_ = device.Stop()
	device.Uninit()
	return nil
}

// bytesToSamples converts interleaved s16le PCM to normalized float32.
func bytesToSamples(pcm []byte) []float32 {
	n := len(pcm) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(pcm[2*i]) | int16(pcm[2*i+1])<<8
		samples[i] = float32(v) / 32768.0
	}
	return samples
}
