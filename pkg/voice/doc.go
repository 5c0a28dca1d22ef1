// Package voice implements the real-time voice session used for spoken
// mood check-ins.
//
// A Session owns one bidirectional conversation with the remote
// conversational endpoint. Microphone audio is captured in fixed-size
// blocks, encoded to 16 kHz PCM and streamed outbound continuously.
// Inbound events carry synthesized 24 kHz response audio plus
// incremental transcription for both sides of the conversation.
//
// # Architecture
//
// The package provides the following components:
//
//   - Session: the lifecycle manager that wires everything to the
//     transport and guarantees teardown on every exit path
//   - CapturePipeline: frames live microphone audio into blocks,
//     derives a speech-activity signal, and forwards encoded frames
//   - PlaybackScheduler: schedules decoded response buffers for
//     strictly sequential, gap-free playback
//   - TranscriptAssembler: folds transcription deltas and turn
//     boundaries into the finalized two-role transcript
//
// # Data Flow
//
//	Mic → CapturePipeline → codec → Transport (outbound)
//	Transport (inbound) → demux → PlaybackScheduler (audio)
//	                            → TranscriptAssembler (text)
//
// # State Machine
//
// The session progresses through these states:
//
//	CONNECTING → CONNECTED → {ERROR, DISCONNECTED}
//
// CONNECTED is the only state in which audio plumbing is active.
// DISCONNECTED is reached only through Finish or Cancel; an unexpected
// transport closure surfaces as ERROR.
package voice
