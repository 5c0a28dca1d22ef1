package voice

import (
	"strings"
	"sync"
)

// Role identifies one side of the conversation.
type Role string

const (
	// RoleUser is the local speaker.
	RoleUser Role = "user"
	// RoleModel is the remote synthesized speaker.
	RoleModel Role = "model"
)

// SilentSessionTranscript is returned by Finalize when no transcription
// was accumulated. Downstream analysis requires non-empty input, so a
// silent session never yields an empty transcript.
const SilentSessionTranscript = "(no speech was captured during this session)"

// TranscriptSegment is one finalized utterance.
type TranscriptSegment struct {
	Role Role
	Text string
}

// TranscriptAssembler folds incremental transcription deltas and
// turn-boundary markers into an ordered, two-role transcript. Deltas
// append to a per-role accumulator; a turn-complete marker flushes each
// non-empty accumulator into the segment list, user before model.
// Accumulated text is never lost: Finalize flushes any remainder.
type TranscriptAssembler struct {
	mu       sync.Mutex
	user     strings.Builder
	model    strings.Builder
	segments []TranscriptSegment
}

// NewTranscriptAssembler creates an empty assembler.
func NewTranscriptAssembler() *TranscriptAssembler {
	return &TranscriptAssembler{}
}

// AddDelta appends an incremental transcription delta to the given
// role's accumulator. Deltas for one role must arrive in order; the
// transport guarantees in-order delivery per session.
func (a *TranscriptAssembler) AddDelta(role Role, text string) {
	if text == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	switch role {
	case RoleUser:
		a.user.WriteString(text)
	case RoleModel:
		a.model.WriteString(text)
	}
}

// CompleteTurn flushes both non-empty accumulators into the segment
// list, in the fixed order user before model, then clears them.
func (a *TranscriptAssembler) CompleteTurn() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flushLocked()
}

func (a *TranscriptAssembler) flushLocked() {
	if a.user.Len() > 0 {
		a.segments = append(a.segments, TranscriptSegment{Role: RoleUser, Text: a.user.String()})
		a.user.Reset()
	}
	if a.model.Len() > 0 {
		a.segments = append(a.segments, TranscriptSegment{Role: RoleModel, Text: a.model.String()})
		a.model.Reset()
	}
}

// Segments returns a copy of the finalized segments so far.
func (a *TranscriptAssembler) Segments() []TranscriptSegment {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]TranscriptSegment, len(a.segments))
	copy(out, a.segments)
	return out
}

// Finalize flushes any still-accumulating text and renders the full
// transcript as newline-joined, role-prefixed lines in chronological
// order. A session with no segments yields SilentSessionTranscript.
func (a *TranscriptAssembler) Finalize() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flushLocked()

	if len(a.segments) == 0 {
		return SilentSessionTranscript
	}
	lines := make([]string, 0, len(a.segments))
	for _, seg := range a.segments {
		lines = append(lines, string(seg.Role)+": "+seg.Text)
	}
	return strings.Join(lines, "\n")
}
