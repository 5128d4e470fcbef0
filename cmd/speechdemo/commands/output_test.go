package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPrintListing(t *testing.T) {
	l := listing{
		Version: map[string]string{"cubic": "mock-1.0.0"},
		Models:  []model{{ID: "en-us-16-far", Name: "English", SampleRate: 16000}},
	}

	tests := []struct {
		name  string
		json  bool
		check func(t *testing.T, out string)
	}{
		{
			name: "yaml",
			check: func(t *testing.T, out string) {
				for _, want := range []string{"Cubic", "cubic: mock-1.0.0", "id: en-us-16-far", "sampleRate: 16000"} {
					if !strings.Contains(out, want) {
						t.Errorf("expected %q in output:\n%s", want, out)
					}
				}
			},
		},
		{
			name: "json",
			json: true,
			check: func(t *testing.T, out string) {
				var got listing
				if err := json.Unmarshal([]byte(out), &got); err != nil {
					t.Fatalf("invalid json: %v\n%s", err, out)
				}
				if got.Version["cubic"] != "mock-1.0.0" || len(got.Models) != 1 || got.Models[0].SampleRate != 16000 {
					t.Errorf("unexpected listing %+v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := flags.json
			flags.json = tt.json
			defer func() { flags.json = prev }()

			var buf bytes.Buffer
			if err := printListing(&buf, "Cubic", l); err != nil {
				t.Fatalf("print listing: %v", err)
			}
			tt.check(t, buf.String())
		})
	}
}
