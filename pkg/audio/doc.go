// Package audio provides the hardware backends for a voice session:
// a malgo-based microphone and an oto-based speaker, plus a helper
// that opens both and bundles them as session devices.
package audio
