package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"speech-demo-clients/internal/webrtc"
)

var webrtcCmd = &cobra.Command{
	Use:   "webrtc",
	Short: "Transcribe sample files over WebRTC",
	Long: `Send every WAV file in the samples directory as its own Opus
track to a WebRTC recognition endpoint and append the transcripts to the
result file as "[start label] transcript" lines.

Files must be 16-bit mono PCM at 8, 12, 16, 24 or 48 kHz.

Example:
  speechdemo webrtc --url http://localhost:8000/webrtc --samples samples`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		wc := webrtc.ConfigFrom(cfg().WebRTC)
		if webrtcFlags.url != "" {
			wc.URL = webrtcFlags.url
		}
		if webrtcFlags.samples != "" {
			wc.SamplesDir = webrtcFlags.samples
		}
		if webrtcFlags.results != "" {
			wc.ResultFile = webrtcFlags.results
		}
		if webrtcFlags.model != "" {
			wc.Recognition.ModelID = webrtcFlags.model
		}
		wc.Metrics = application.Metrics

		if err := webrtc.NewClient(wc).Run(cmd.Context()); err != nil {
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Results written to", wc.ResultFile)
		return nil
	},
}

var webrtcFlags struct {
	url     string
	samples string
	results string
	model   string
}

func init() {
	f := webrtcCmd.Flags()
	f.StringVar(&webrtcFlags.url, "url", "", "signaling endpoint (default from WEBRTC_URL)")
	f.StringVar(&webrtcFlags.samples, "samples", "", "directory of WAV files (default from WEBRTC_SAMPLES_DIR)")
	f.StringVar(&webrtcFlags.results, "results", "", "result file (default from WEBRTC_RESULT_FILE)")
	f.StringVarP(&webrtcFlags.model, "model", "m", "", "recognition model (default from WEBRTC_MODEL_ID)")
}
