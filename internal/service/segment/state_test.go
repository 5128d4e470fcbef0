package segment

import (
	"errors"
	"testing"
)

func TestLifecycle_InitialState(t *testing.T) {
	l := NewLifecycle("seg-1")

	if l.SegmentID() != "seg-1" {
		t.Errorf("expected segment ID 'seg-1', got %s", l.SegmentID())
	}
	if l.State() != StateOpen {
		t.Errorf("expected OPEN, got %s", l.State())
	}
	if l.IsDropped() {
		t.Error("new segment must not be dropped")
	}
}

func TestLifecycle_Transitions(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*Lifecycle)
		wantPartial error
		wantFinal   error
	}{
		{"open", func(*Lifecycle) {}, nil, nil},
		{"final emitted", func(l *Lifecycle) { _ = l.EmitFinal() }, ErrPartialAfterFinal, ErrFinalAlreadyEmitted},
		{"closed", func(l *Lifecycle) { l.Close() }, ErrSegmentClosed, ErrSegmentClosed},
		{"dropped", func(l *Lifecycle) { l.Drop() }, ErrSegmentClosed, ErrSegmentClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle("seg")
			tt.setup(l)

			if err := l.EmitPartial(); !errors.Is(err, tt.wantPartial) {
				t.Errorf("EmitPartial: expected %v, got %v", tt.wantPartial, err)
			}
			if err := l.EmitFinal(); !errors.Is(err, tt.wantFinal) {
				t.Errorf("EmitFinal: expected %v, got %v", tt.wantFinal, err)
			}
		})
	}
}

func TestLifecycle_PartialsThenOneFinal(t *testing.T) {
	l := NewLifecycle("seg")
	for i := 0; i < 3; i++ {
		if err := l.EmitPartial(); err != nil {
			t.Fatalf("partial %d: %v", i, err)
		}
	}
	if err := l.EmitFinal(); err != nil {
		t.Fatalf("EmitFinal: %v", err)
	}
	if l.State() != StateFinalEmitted {
		t.Errorf("expected FINAL_EMITTED, got %s", l.State())
	}
	if err := l.EmitFinal(); !errors.Is(err, ErrFinalAlreadyEmitted) {
		t.Errorf("expected second final to fail, got %v", err)
	}
}

func TestLifecycle_Drop(t *testing.T) {
	l := NewLifecycle("seg")
	_ = l.EmitPartial()

	if !l.Drop() {
		t.Fatal("expected first Drop to succeed")
	}
	if l.Drop() {
		t.Error("expected second Drop to report false")
	}
	if !l.IsDropped() {
		t.Error("expected DROPPED")
	}

	// Close keeps the dropped marker
	l.Close()
	if l.State() != StateDropped {
		t.Errorf("expected DROPPED after Close, got %s", l.State())
	}

	closed := NewLifecycle("seg")
	closed.Close()
	if closed.Drop() {
		t.Error("expected Drop after Close to report false")
	}
}

func TestLifecycle_Reset(t *testing.T) {
	l := NewLifecycle("seg-1")
	_ = l.EmitFinal()
	l.Close()

	l.Reset("seg-2")

	if l.SegmentID() != "seg-2" {
		t.Errorf("expected seg-2, got %s", l.SegmentID())
	}
	if l.State() != StateOpen {
		t.Errorf("expected OPEN after Reset, got %s", l.State())
	}
	if err := l.EmitPartial(); err != nil {
		t.Errorf("expected partial on new segment, got %v", err)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateOpen, "OPEN"},
		{StateFinalEmitted, "FINAL_EMITTED"},
		{StateClosed, "CLOSED"},
		{StateDropped, "DROPPED"},
		{State(99), "UNKNOWN(99)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestState_IsTerminal(t *testing.T) {
	if StateOpen.IsTerminal() || StateFinalEmitted.IsTerminal() {
		t.Error("OPEN and FINAL_EMITTED are not terminal")
	}
	if !StateClosed.IsTerminal() || !StateDropped.IsTerminal() {
		t.Error("CLOSED and DROPPED are terminal")
	}
}
