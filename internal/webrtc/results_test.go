package webrtc

import (
	"bytes"
	"errors"
	"testing"

	"speech-demo-clients/internal/observability/metrics"
)

func TestResultWriter(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		want    string
		wantErr error
	}{
		{
			name: "numeric start time",
			msg:  `{"track_id":"t1","result":{"alternatives":[{"start_time":1.5,"transcript":"hello"}]}}`,
			want: "[1.5 greeting] hello\n",
		},
		{
			name: "string start time",
			msg:  `{"track_id":"t1","result":{"alternatives":[{"start_time":"2s","transcript":"again"}]}}`,
			want: "[2s greeting] again\n",
		},
		{
			name: "first alternative wins",
			msg:  `{"track_id":"t1","result":{"alternatives":[{"start_time":0,"transcript":"a"},{"start_time":0,"transcript":"b"}]}}`,
			want: "[0 greeting] a\n",
		},
		{
			name:    "unknown track",
			msg:     `{"track_id":"t9","result":{"alternatives":[{"start_time":0,"transcript":"x"}]}}`,
			wantErr: errUnknownTrack,
		},
		{
			name:    "no alternatives",
			msg:     `{"track_id":"t1","result":{"alternatives":[]}}`,
			wantErr: errNoAlternative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			w := NewResultWriter(&out, metrics.NewMetrics(nil))
			w.Label("t1", "greeting")

			err := w.Handle([]byte(tt.msg))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestResultWriter_Malformed(t *testing.T) {
	var out bytes.Buffer
	w := NewResultWriter(&out, metrics.NewMetrics(nil))
	if err := w.Handle([]byte("{not json")); err == nil {
		t.Fatal("expected a parse error")
	}
	if out.Len() != 0 {
		t.Errorf("expected nothing written, got %q", out.String())
	}
}
