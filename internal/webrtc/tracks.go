package webrtc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
	"github.com/pion/webrtc/v3/pkg/media"
	"gopkg.in/hraban/opus.v2"

	"speech-demo-clients/internal/audio"
)

const (
	frameDuration = 20 * time.Millisecond
	maxPacketSize = 4000
)

var errUnsupportedWAV = errors.New("unsupported wav format")

// opusRates are the sample rates the Opus encoder accepts.
var opusRates = map[uint32]bool{8000: true, 12000: true, 16000: true, 24000: true, 48000: true}

// fileTrack is one WAV file encoded as Opus frames on a local track.
type fileTrack struct {
	Label string
	Track *webrtc.TrackLocalStaticSample

	frames [][]byte
}

// frameSamples is the number of samples in one 20ms frame at rate.
func frameSamples(rate uint32) int {
	return int(rate) * int(frameDuration/time.Millisecond) / 1000
}

// loadTrack reads a mono 16-bit WAV file and encodes it up front. The label
// is the file name without its extension.
func loadTrack(path string) (*fileTrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, data, err := audio.ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !info.IsPCM16() || info.Channels != 1 || !opusRates[info.SampleRate] {
		return nil, fmt.Errorf("%s: %w: %d Hz, %d channels, %d bits",
			path, errUnsupportedWAV, info.SampleRate, info.Channels, info.BitsPerSample)
	}
	pcm, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("%s: read samples: %w", path, err)
	}

	frames, err := encodeOpus(audio.PCM16(pcm), int(info.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2},
		uuid.NewString(), label)
	if err != nil {
		return nil, err
	}
	return &fileTrack{Label: label, Track: track, frames: frames}, nil
}

// encodeOpus splits samples into 20ms frames. The last frame is padded with
// silence.
func encodeOpus(samples []int16, rate int) ([][]byte, error) {
	enc, err := opus.NewEncoder(rate, 1, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}

	n := frameSamples(uint32(rate))
	var frames [][]byte
	buf := make([]byte, maxPacketSize)
	for off := 0; off < len(samples); off += n {
		frame := samples[off:min(off+n, len(samples))]
		if len(frame) < n {
			pad := make([]int16, n)
			copy(pad, frame)
			frame = pad
		}
		size, err := enc.Encode(frame, buf)
		if err != nil {
			return nil, fmt.Errorf("encode opus frame: %w", err)
		}
		frames = append(frames, append([]byte(nil), buf[:size]...))
	}
	return frames, nil
}

// Duration is the playing time of the encoded audio.
func (t *fileTrack) Duration() time.Duration {
	return time.Duration(len(t.frames)) * frameDuration
}

// play writes one frame per 20ms until the file ends or ctx is done.
func (t *fileTrack) play(ctx context.Context) error {
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for _, frame := range t.frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := t.Track.WriteSample(media.Sample{Data: frame, Duration: frameDuration}); err != nil {
			return fmt.Errorf("write sample: %w", err)
		}
	}
	return nil
}

// loadTracks loads every .wav file in dir in name order.
func loadTracks(dir string) ([]*fileTrack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read samples dir: %w", err)
	}

	var tracks []*fileTrack
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}
		t, err := loadTrack(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no wav files in %s", dir)
	}
	return tracks, nil
}
