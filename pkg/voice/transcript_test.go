package voice

import "testing"

func TestTranscriptAssemblerFlushOrder(t *testing.T) {
	a := NewTranscriptAssembler()
	a.AddDelta(RoleModel, "Hello there.")
	a.AddDelta(RoleUser, "Hi.")
	a.CompleteTurn()

	segments := a.Segments()
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Role != RoleUser {
		t.Errorf("expected user segment first, got %q", segments[0].Role)
	}
	if segments[1].Role != RoleModel {
		t.Errorf("expected model segment second, got %q", segments[1].Role)
	}
}

func TestTranscriptAssemblerDeltaAccumulation(t *testing.T) {
	a := NewTranscriptAssembler()
	a.AddDelta(RoleUser, "I feel")
	a.AddDelta(RoleUser, " anxious")
	a.AddDelta(RoleModel, "That sounds")
	a.AddDelta(RoleModel, " difficult.")
	a.CompleteTurn()

	got := a.Finalize()
	want := "user: I feel anxious\nmodel: That sounds difficult."
	if got != want {
		t.Errorf("expected transcript %q, got %q", want, got)
	}
}

func TestTranscriptAssemblerMultipleTurns(t *testing.T) {
	a := NewTranscriptAssembler()
	a.AddDelta(RoleUser, "How was my week? Busy.")
	a.AddDelta(RoleModel, "Busy how?")
	a.CompleteTurn()
	a.AddDelta(RoleUser, "Work mostly.")
	a.AddDelta(RoleModel, "I hear you.")
	a.CompleteTurn()

	got := a.Finalize()
	want := "user: How was my week? Busy.\nmodel: Busy how?\nuser: Work mostly.\nmodel: I hear you."
	if got != want {
		t.Errorf("expected transcript %q, got %q", want, got)
	}
}

func TestTranscriptAssemblerFinalizeFlushesRemainder(t *testing.T) {
	a := NewTranscriptAssembler()
	a.AddDelta(RoleUser, "one more thing")

	got := a.Finalize()
	want := "user: one more thing"
	if got != want {
		t.Errorf("expected transcript %q, got %q", want, got)
	}
}

func TestTranscriptAssemblerSilentSession(t *testing.T) {
	a := NewTranscriptAssembler()
	a.CompleteTurn()

	got := a.Finalize()
	if got != SilentSessionTranscript {
		t.Errorf("expected sentinel transcript, got %q", got)
	}
	if got == "" {
		t.Error("transcript must never be empty")
	}
}

func TestTranscriptAssemblerIgnoresEmptyDeltas(t *testing.T) {
	a := NewTranscriptAssembler()
	a.AddDelta(RoleUser, "")
	a.AddDelta(RoleModel, "")
	a.CompleteTurn()

	if segments := a.Segments(); len(segments) != 0 {
		t.Errorf("expected no segments from empty deltas, got %d", len(segments))
	}
}

func TestTranscriptAssemblerEmptyTurnBetweenText(t *testing.T) {
	a := NewTranscriptAssembler()
	a.CompleteTurn()
	a.AddDelta(RoleModel, "Take care.")
	a.CompleteTurn()

	got := a.Finalize()
	want := "model: Take care."
	if got != want {
		t.Errorf("expected transcript %q, got %q", want, got)
	}
}
