package webrtc

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"speech-demo-clients/internal/observability/metrics"
)

func TestAnswerer_RejectsBadOffers(t *testing.T) {
	a := NewAnswerer(nil)
	defer a.Close()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "missing sdp", body: `{"Config":{"ModelID":"m"},"Description":{"type":"offer","sdp":""}}`},
		{name: "answer instead of offer", body: `{"Description":{"type":"answer","sdp":"v=0"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webrtc", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
	if a.Peers() != 0 {
		t.Errorf("expected no peers, got %d", a.Peers())
	}
}

func TestResultMessage_RoundTrip(t *testing.T) {
	msg, err := resultMessage("t1", 3, "turn on the living room light")
	if err != nil {
		t.Fatalf("result message: %v", err)
	}

	var out bytes.Buffer
	w := NewResultWriter(&out, metrics.NewMetrics(nil))
	w.Label("t1", "kitchen")
	if err := w.Handle(msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := out.String(); got != "[3 kitchen] turn on the living room light\n" {
		t.Errorf("unexpected line %q", got)
	}
}
