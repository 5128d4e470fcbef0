package webrtc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"

	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/service/stt/mock"
)

const (
	resultsChannel = "results"
	// packetsPerSecond is the number of 20ms Opus packets in one second.
	packetsPerSecond = 50
	channelTimeout   = 5 * time.Second
)

// Answerer answers signaling offers with a peer that transcribes every
// incoming audio track from a mock script, one step per second of audio.
type Answerer struct {
	script *mock.Script
	log    zerolog.Logger

	mu    sync.Mutex
	peers map[*webrtc.PeerConnection]struct{}
}

func NewAnswerer(script *mock.Script) *Answerer {
	if script == nil {
		script = mock.NewScript()
	}
	return &Answerer{
		script: script,
		log:    logging.WithComponent("webrtc-answerer"),
		peers:  make(map[*webrtc.PeerConnection]struct{}),
	}
}

// ServeHTTP decodes an Offer and replies with the answer once ICE gathering
// is complete.
func (a *Answerer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var offer Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		http.Error(w, "invalid offer: "+err.Error(), http.StatusBadRequest)
		return
	}
	if offer.Description.Type != webrtc.SDPTypeOffer || offer.Description.SDP == "" {
		http.Error(w, "invalid offer: missing sdp", http.StatusBadRequest)
		return
	}

	answer, err := a.answer(offer)
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to answer offer")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(answer); err != nil {
		a.log.Warn().Err(err).Msg("Failed to write answer")
	}
}

func (a *Answerer) answer(offer Offer) (*webrtc.SessionDescription, error) {
	api, err := newAPI()
	if err != nil {
		return nil, err
	}
	pc, err := api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, fmt.Errorf("create peer connection: %w", err)
	}

	logger := a.log.With().Str("model", offer.Config.ModelID).Logger()
	a.track(pc)
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		logger.Info().Stringer("state", s).Msg("Connection state changed")
		switch s {
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateDisconnected:
			_ = pc.Close()
		case webrtc.PeerConnectionStateClosed:
			a.untrack(pc)
		}
	})

	if err := pc.SetRemoteDescription(offer.Description); err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("set remote description: %w", err)
	}

	dc, err := pc.CreateDataChannel(resultsChannel, nil)
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("create data channel: %w", err)
	}
	open := make(chan struct{})
	dc.OnOpen(func() { close(open) })

	pc.OnTrack(func(remote *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		if remote.Kind() != webrtc.RTPCodecTypeAudio {
			return
		}
		tl := logger.With().Str("trackId", remote.ID()).Logger()
		tl.Info().Str("codec", remote.Codec().MimeType).Msg("Remote audio track received")
		a.transcribe(remote, dc, open, tl)
	})

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("create answer: %w", err)
	}
	gathered := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("set local description: %w", err)
	}
	<-gathered
	return pc.LocalDescription(), nil
}

// transcribe reads the track until it ends and sends a result for every
// final the script produces.
func (a *Answerer) transcribe(remote *webrtc.TrackRemote, dc *webrtc.DataChannel, open <-chan struct{}, logger zerolog.Logger) {
	var (
		cur     *mock.Cursor
		packets int
		start   float64
	)
	send := func(ev mock.Event) {
		select {
		case <-open:
		case <-time.After(channelTimeout):
			logger.Warn().Msg("Results channel not open, dropping result")
			return
		}
		msg, err := resultMessage(remote.ID(), start, ev.Text)
		if err != nil {
			logger.Error().Err(err).Msg("Marshal result")
			return
		}
		if err := dc.SendText(string(msg)); err != nil {
			logger.Warn().Err(err).Msg("Send result")
		}
	}

	for {
		if _, _, err := remote.ReadRTP(); err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug().Err(err).Msg("Track read ended")
			}
			break
		}
		packets++
		if packets%packetsPerSecond != 0 {
			continue
		}
		if cur == nil || cur.Done() {
			cur = a.script.Cursor()
			start = float64(packets/packetsPerSecond - 1)
		}
		if ev, ok := cur.Step(); ok && ev.Final {
			send(ev)
		}
	}

	if cur != nil {
		if ev, ok := cur.Flush(); ok {
			send(ev)
		}
	}
}

func resultMessage(trackID string, start float64, text string) ([]byte, error) {
	var m ResultMessage
	m.TrackID = trackID
	ts, err := json.Marshal(start)
	if err != nil {
		return nil, err
	}
	m.Result.Alternatives = []Alternative{{StartTime: ts, Transcript: text}}
	return json.Marshal(m)
}

func (a *Answerer) track(pc *webrtc.PeerConnection) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.peers[pc] = struct{}{}
}

func (a *Answerer) untrack(pc *webrtc.PeerConnection) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.peers, pc)
}

// Peers returns the number of open peer connections.
func (a *Answerer) Peers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.peers)
}

// Close closes every peer connection.
func (a *Answerer) Close() error {
	a.mu.Lock()
	peers := make([]*webrtc.PeerConnection, 0, len(a.peers))
	for pc := range a.peers {
		peers = append(peers, pc)
	}
	a.mu.Unlock()

	var errs []error
	for _, pc := range peers {
		errs = append(errs, pc.Close())
	}
	return errors.Join(errs...)
}
