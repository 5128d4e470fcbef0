// Package webrtc streams WAV files to a Cubic WebRTC endpoint and collects
// the transcripts it returns over data channels.
package webrtc

import "strings"

// AlignICECredentials rewrites every a=ice-ufrag and a=ice-pwd line to the
// first line of its kind, so every media section shares one set of ICE
// credentials. Other lines and the line endings are kept as they are.
func AlignICECredentials(sdp string) string {
	lines := strings.Split(sdp, "\n")
	var ufrag, pwd string
	for i, l := range lines {
		switch {
		case strings.Contains(l, "a=ice-ufrag"):
			if ufrag == "" {
				ufrag = l
			}
			lines[i] = ufrag
		case strings.Contains(l, "a=ice-pwd:"):
			if pwd == "" {
				pwd = l
			}
			lines[i] = pwd
		}
	}
	return strings.Join(lines, "\n")
}
