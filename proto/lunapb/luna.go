// Package lunapb holds the Luna text-to-speech wire messages and service stubs.
package lunapb

// Encoding of synthesized audio.
type Encoding int32

const (
	EncodingRawLinear16 Encoding = 0
	EncodingRawFloat32  Encoding = 1
	EncodingWAV         Encoding = 2
)

func (e Encoding) String() string {
	switch e {
	case EncodingRawLinear16:
		return "RAW_LINEAR16"
	case EncodingRawFloat32:
		return "RAW_FLOAT32"
	case EncodingWAV:
		return "WAV"
	default:
		return "UNKNOWN"
	}
}

type VersionRequest struct{}

type VersionResponse struct {
	Version string
}

type ListVoicesRequest struct{}

type ListVoicesResponse struct {
	Voices []*Voice
}

type Voice struct {
	ID         string
	Name       string
	SampleRate uint32
	Language   string
}

type SynthesizerConfig struct {
	VoiceID  string
	Encoding Encoding
}

type SynthesizeRequest struct {
	Config *SynthesizerConfig
	Text   string
}

type SynthesizeResponse struct {
	Audio []byte
}
