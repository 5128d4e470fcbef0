package webrtc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pion/webrtc/v3"
)

// RecognitionConfig selects the Cubic model and result details for a WebRTC
// session.
type RecognitionConfig struct {
	ModelID                string
	EnableWordTimeOffsets  bool
	EnableWordConfidence   bool
	EnableRawTranscript    bool
	EnableConfusionNetwork bool
}

// Offer is the signaling request body.
type Offer struct {
	Config      RecognitionConfig
	Description webrtc.SessionDescription
}

// SendOffer posts offer to url and returns the answer.
func SendOffer(ctx context.Context, client *http.Client, url string, offer Offer) (webrtc.SessionDescription, error) {
	var answer webrtc.SessionDescription
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(offer)
	if err != nil {
		return answer, fmt.Errorf("marshal offer: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return answer, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return answer, fmt.Errorf("send offer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return answer, fmt.Errorf("send offer: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return answer, fmt.Errorf("decode answer: %w", err)
	}
	return answer, nil
}
