package audio

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/gen2brain/malgo"

	"github.com/BenjaminWie/emotionalCheckIn/pkg/voice"
)

// playbackBufferBytes keeps speaker latency near 100ms at 24kHz mono
// 16-bit. A smaller buffer lowers latency at the cost of glitches.
const playbackBufferBytes = 4800

// OpenDevices initializes the audio driver contexts and returns the
// microphone and speaker bundled for a voice session. The returned
// Release frees the malgo context after both devices stopped.
func OpenDevices() (voice.Devices, error) {
	malgoConfig := malgo.ContextConfig{}
	malgoConfig.ThreadPriority = malgo.ThreadPriorityRealtime

	malgoCtx, err := malgo.InitContext(nil, malgoConfig, nil)
	if err != nil {
		return voice.Devices{}, fmt.Errorf("%w: init capture context: %v", voice.ErrDeviceUnavailable, err)
	}

	playback := voice.PlaybackAudioConfig()
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   playback.SampleRate,
		ChannelCount: playback.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   playbackBufferBytes,
	})
	if err != nil {
		_ = malgoCtx.Uninit()
		return voice.Devices{}, fmt.Errorf("%w: init playback context: %v", voice.ErrDeviceUnavailable, err)
	}
	<-ready

	return voice.Devices{
		Capture: NewMicrophone(malgoCtx.Context, voice.CaptureAudioConfig()),
		Sink:    NewSpeaker(otoCtx, playback.SampleRate),
		Release: func() error {
			if err := malgoCtx.Uninit(); err != nil {
				return fmt.Errorf("release capture context: %w", err)
			}
			malgoCtx.Free()
			return nil
		},
	}, nil
}
