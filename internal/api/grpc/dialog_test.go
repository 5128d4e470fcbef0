package grpcapi

import (
	"testing"

	"speech-demo-clients/internal/service/stt/mock"
)

func TestRespond(t *testing.T) {
	demo, _ := findModel("demo")

	tests := []struct {
		name    string
		text    string
		kinds   []string
		endsRun bool
	}{
		{name: "empty", text: "  ", kinds: []string{"reply", "input"}},
		{name: "goodbye", text: "bye", kinds: []string{"reply"}, endsRun: true},
		{name: "thanks", text: "Thank you very much", kinds: []string{"reply"}, endsRun: true},
		{name: "light", text: "turn on the living room light", kinds: []string{"command"}},
		{name: "timer", text: "set a timer for ten minutes", kinds: []string{"command"}},
		{name: "weather", text: "what is the weather tomorrow", kinds: []string{"reply", "input"}},
		{name: "note", text: "please transcribe my note", kinds: []string{"reply", "transcribe", "reply", "input"}},
		{name: "echo", text: "hello there", kinds: []string{"reply", "input"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := respond(demo, tt.text)
			if len(actions) != len(tt.kinds) {
				t.Fatalf("expected %d actions, got %d", len(tt.kinds), len(actions))
			}
			for i, a := range actions {
				var kind string
				switch {
				case a.Input != nil:
					kind = "input"
				case a.Reply != nil:
					kind = "reply"
				case a.Command != nil:
					kind = "command"
				case a.Transcribe != nil:
					kind = "transcribe"
				}
				if kind != tt.kinds[i] {
					t.Errorf("action %d: expected %s, got %s", i, tt.kinds[i], kind)
				}
			}
		})
	}
}

func TestInput_Wakeword(t *testing.T) {
	voice, _ := findModel("1")
	actions := respond(voice, "what is the weather tomorrow")
	in := actions[len(actions)-1].Input
	if in == nil {
		t.Fatal("expected trailing input action")
	}
	if !in.RequiresWakeWord || in.Immediate {
		t.Errorf("expected wake-word input, got %+v", in)
	}
}

func TestRecognition_Steps(t *testing.T) {
	rec := newRecognition(mock.NewScript())

	if _, ok := rec.step(0); ok {
		t.Fatal("expected empty frame to be ignored")
	}

	var got []mock.Event
	for i := 0; i < 5; i++ {
		ev, ok := rec.step(100)
		if !ok {
			t.Fatalf("step %d: expected an event", i)
		}
		got = append(got, ev)
	}

	if !got[3].Final || got[3].Text != "turn on the living room light" {
		t.Errorf("expected first final on frame 4, got %+v", got[3])
	}
	if got[4].Final || got[4].Text != "what" {
		t.Errorf("expected next utterance to start, got %+v", got[4])
	}

	ev, ok := rec.last()
	if !ok || ev.Text != "what is the weather tomorrow" {
		t.Errorf("expected flushed final as last, got %+v (ok=%v)", ev, ok)
	}
}

func TestTone(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "short text is padded", text: "hi", want: 2 * 3200},
		{name: "60ms per character", text: "0123456789", want: 2 * 9600},
		{name: "long text is capped", text: string(make([]byte, 1000)), want: 2 * 96000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tone(tt.text, 16000)); got != tt.want {
				t.Errorf("expected %d bytes, got %d", tt.want, got)
			}
		})
	}
}

func TestChunks(t *testing.T) {
	got := chunks(make([]byte, 10), 4)
	if len(got) != 3 || len(got[2]) != 2 {
		t.Fatalf("expected chunks of 4, 4, 2, got %d chunks", len(got))
	}
	if chunks(nil, 4) != nil {
		t.Error("expected no chunks for empty input")
	}
}
