// Package cubicpb holds the Cubic transcription wire messages and service stubs.
package cubicpb

// ByteOrder of raw audio samples.
type ByteOrder int32

const (
	ByteOrderUnspecified  ByteOrder = 0
	ByteOrderLittleEndian ByteOrder = 1
	ByteOrderBigEndian    ByteOrder = 2
)

// AudioEncoding of raw audio samples.
type AudioEncoding int32

const (
	AudioEncodingUnspecified AudioEncoding = 0
	AudioEncodingSigned      AudioEncoding = 1
	AudioEncodingUnsigned    AudioEncoding = 2
	AudioEncodingIEEEFloat   AudioEncoding = 3
	AudioEncodingULaw        AudioEncoding = 4
	AudioEncodingALaw        AudioEncoding = 5
)

// ContainerFormat names a self-describing audio container.
type ContainerFormat int32

const (
	ContainerFormatUnspecified ContainerFormat = 0
	ContainerFormatWAV         ContainerFormat = 1
	ContainerFormatMP3         ContainerFormat = 2
	ContainerFormatFLAC        ContainerFormat = 3
	ContainerFormatOggOpus     ContainerFormat = 4
)

type VersionRequest struct{}

type VersionResponse struct {
	Cubic  string
	Server string
}

type ListModelsRequest struct{}

type ListModelsResponse struct {
	Models []*Model
}

type Model struct {
	ID         string
	Name       string
	Attributes *ModelAttributes
}

func (m *Model) GetAttributes() *ModelAttributes {
	if m == nil {
		return nil
	}
	return m.Attributes
}

type ModelAttributes struct {
	SampleRate uint32
}

func (a *ModelAttributes) GetSampleRate() uint32 {
	if a == nil {
		return 0
	}
	return a.SampleRate
}

// AudioFormatRAW describes headerless PCM audio.
type AudioFormatRAW struct {
	Encoding   AudioEncoding
	BitDepth   uint32
	ByteOrder  ByteOrder
	SampleRate uint32
	Channels   uint32
}

// RecognitionConfig selects the model and describes the audio. At most one
// of AudioFormatRAW and AudioFormatHeadered is set.
type RecognitionConfig struct {
	ModelID                string
	AudioFormatRAW         *AudioFormatRAW
	AudioFormatHeadered    ContainerFormat
	EnableWordDetails      bool
	EnableConfusionNetwork bool
}

type RecognitionAudio struct {
	Data []byte
}

// StreamingRecognizeRequest carries either the config (first message) or audio.
type StreamingRecognizeRequest struct {
	Config *RecognitionConfig
	Audio  *RecognitionAudio
}

type StreamingRecognizeResponse struct {
	Result *RecognitionResult
	Error  string
}

func (r *StreamingRecognizeResponse) GetResult() *RecognitionResult {
	if r == nil {
		return nil
	}
	return r.Result
}

type RecognitionResult struct {
	Alternatives []*RecognitionAlternative
	IsPartial    bool
	AudioChannel uint32
}

// Best returns the first alternative, or nil when there is none.
func (r *RecognitionResult) Best() *RecognitionAlternative {
	if r == nil || len(r.Alternatives) == 0 {
		return nil
	}
	return r.Alternatives[0]
}

type RecognitionAlternative struct {
	TranscriptFormatted string
	TranscriptRaw       string
	StartTimeMs         uint64
	DurationMs          uint64
	Confidence          float64
}

func (a *RecognitionAlternative) GetTranscriptRaw() string {
	if a == nil {
		return ""
	}
	return a.TranscriptRaw
}

// Transcript prefers the formatted transcript and falls back to the raw one.
func (a *RecognitionAlternative) Transcript() string {
	if a == nil {
		return ""
	}
	if a.TranscriptFormatted != "" {
		return a.TranscriptFormatted
	}
	return a.TranscriptRaw
}

type RecognizeRequest struct {
	Config *RecognitionConfig
	Audio  *RecognitionAudio
}

type RecognizeResponse struct {
	Results []*RecognitionResult
}
