package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

const formatPCM = 1

var (
	ErrNotWAV   = errors.New("not a RIFF/WAVE file")
	ErrNoFormat = errors.New("wav data chunk precedes fmt chunk")
)

// WAVInfo describes the fmt and data chunks of a WAV file.
type WAVInfo struct {
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataSize      uint32
}

// IsPCM16 reports whether the data is 16-bit linear PCM.
func (w WAVInfo) IsPCM16() bool {
	return w.Format == formatPCM && w.BitsPerSample == 16
}

// Duration is the playing time of the data chunk.
func (w WAVInfo) Duration() time.Duration {
	bytesPerSec := uint64(w.SampleRate) * uint64(w.Channels) * uint64(w.BitsPerSample/8)
	if bytesPerSec == 0 {
		return 0
	}
	return time.Duration(uint64(w.DataSize) * uint64(time.Second) / bytesPerSec)
}

// ReadWAV walks the RIFF chunks of r up to the data chunk. The returned
// reader yields exactly the sample data.
func ReadWAV(r io.Reader) (WAVInfo, io.Reader, error) {
	var info WAVInfo

	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return info, nil, fmt.Errorf("read riff header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return info, nil, ErrNotWAV
	}

	haveFormat := false
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return info, nil, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return info, nil, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			var f [16]byte
			if _, err := io.ReadFull(r, f[:]); err != nil {
				return info, nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			info.Format = binary.LittleEndian.Uint16(f[0:2])
			info.Channels = binary.LittleEndian.Uint16(f[2:4])
			info.SampleRate = binary.LittleEndian.Uint32(f[4:8])
			info.BitsPerSample = binary.LittleEndian.Uint16(f[14:16])
			if err := skip(r, int64(size-16)+int64(size&1)); err != nil {
				return info, nil, err
			}
			haveFormat = true

		case "data":
			if !haveFormat {
				return info, nil, ErrNoFormat
			}
			info.DataSize = size
			return info, io.LimitReader(r, int64(size)), nil

		default:
			if err := skip(r, int64(size)+int64(size&1)); err != nil {
				return info, nil, err
			}
		}
	}
}

func skip(r io.Reader, n int64) error {
	if n == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		return fmt.Errorf("skip chunk: %w", err)
	}
	return nil
}

// PCM16 decodes little-endian signed 16-bit samples. A trailing odd byte is
// ignored.
func PCM16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out
}

// WriteWAV writes pcm as a 16-bit PCM WAV file.
func WriteWAV(w io.Writer, sampleRate, channels int, pcm []byte) error {
	blockAlign := channels * 2
	hdr := make([]byte, 44)
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+len(pcm)))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], formatPCM)
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], 16)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(len(pcm)))

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err := w.Write(pcm)
	return err
}
