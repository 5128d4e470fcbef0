package grpcapi

import (
	"encoding/binary"
	"math"
	"time"
	"unicode/utf8"

	"speech-demo-clients/internal/service/stt/mock"
)

// recognition walks the mock script over the audio frames of one stream. A
// new utterance starts with the first frame after a final.
type recognition struct {
	script *mock.Script
	cur    *mock.Cursor
	final  *mock.Event
}

func newRecognition(s *mock.Script) *recognition {
	return &recognition{script: s}
}

// step consumes one frame of n bytes. Empty frames are ignored.
func (r *recognition) step(n int) (mock.Event, bool) {
	if n == 0 {
		return mock.Event{}, false
	}
	if r.cur == nil || r.cur.Done() {
		r.cur = r.script.Cursor()
	}
	return r.record(r.cur.Step())
}

// flush finishes an utterance cut short by the end of the audio.
func (r *recognition) flush() (mock.Event, bool) {
	if r.cur == nil || r.cur.Done() {
		return mock.Event{}, false
	}
	return r.record(r.cur.Flush())
}

// last flushes and returns the most recent final.
func (r *recognition) last() (mock.Event, bool) {
	r.flush()
	if r.final == nil {
		return mock.Event{}, false
	}
	return *r.final, true
}

func (r *recognition) record(ev mock.Event, ok bool) (mock.Event, bool) {
	if ok && ev.Final {
		r.final = &ev
	}
	return ev, ok
}

// tone renders text as a 440 Hz tone of 16-bit little-endian PCM, 60ms per
// character within [200ms, 6s].
func tone(text string, sampleRate int) []byte {
	d := time.Duration(utf8.RuneCountInString(text)) * 60 * time.Millisecond
	d = min(max(d, 200*time.Millisecond), 6*time.Second)

	samples := int(d.Seconds() * float64(sampleRate))
	fade := sampleRate / 100
	buf := make([]byte, 2*samples)
	for i := 0; i < samples; i++ {
		amp := 0.3
		if i < fade {
			amp *= float64(i) / float64(fade)
		} else if samples-i < fade {
			amp *= float64(samples-i) / float64(fade)
		}
		v := amp * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(int16(v*math.MaxInt16)))
	}
	return buf
}

func chunks(b []byte, size int) [][]byte {
	var out [][]byte
	for len(b) > size {
		out = append(out, b[:size])
		b = b[size:]
	}
	if len(b) > 0 {
		out = append(out, b)
	}
	return out
}
