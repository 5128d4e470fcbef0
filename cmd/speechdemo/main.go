// Command speechdemo runs the Diatheke, Cubic, Luna and WebRTC demo clients.
//
// Usage:
//
//	speechdemo [flags] <service> [command]
//
// Services:
//
//	diatheke text   - text dialog on the terminal
//	diatheke audio  - voice dialog with an external recorder and player
//	cubic stream    - live transcription from the recorder
//	cubic batch     - transcription of a WAV file
//	luna            - speech synthesis of typed text
//	webrtc          - transcription of sample files over WebRTC
package main

import (
	"fmt"
	"os"

	"speech-demo-clients/cmd/speechdemo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
