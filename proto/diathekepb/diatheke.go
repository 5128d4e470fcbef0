// Package diathekepb holds the Diatheke dialog service wire messages and service stubs.
package diathekepb

import "speech-demo-clients/proto/cubicpb"

type VersionRequest struct{}

type VersionResponse struct {
	Diatheke string
	Chosun   string
	Cubic    string
	Luna     string
}

type ListModelsRequest struct{}

type ListModelsResponse struct {
	Models []*ModelInfo
}

type ModelInfo struct {
	ID            string
	Name          string
	Language      string
	ASRSampleRate uint32
	TTSSampleRate uint32
}

// AudioFormat describes the raw audio a session sends or receives.
type AudioFormat struct {
	SampleRate uint32
	Channels   uint32
	BitDepth   uint32
	Encoding   string
	ByteOrder  string
}

type SessionMetadata struct {
	CustomMetadata    string
	StorageFilePrefix string
}

type CreateSessionRequest struct {
	ModelID           string
	Wakeword          string
	Metadata          *SessionMetadata
	InputAudioFormat  *AudioFormat
	OutputAudioFormat *AudioFormat
}

type CreateSessionResponse struct {
	SessionOutput *SessionOutput
}

func (r *CreateSessionResponse) GetSessionOutput() *SessionOutput {
	if r == nil {
		return nil
	}
	return r.SessionOutput
}

// TokenData is the opaque session state round-tripped on every call.
type TokenData struct {
	Data     []byte
	ID       string
	Metadata string
}

func (t *TokenData) GetID() string {
	if t == nil {
		return ""
	}
	return t.ID
}

type SessionOutput struct {
	Token      *TokenData
	ActionList []*ActionData
}

// ActionData holds exactly one action variant.
type ActionData struct {
	Input      *WaitForUserAction
	Reply      *ReplyAction
	Command    *CommandAction
	Transcribe *TranscribeAction
}

type WaitForUserAction struct {
	Immediate        bool
	RequiresWakeWord bool
}

type ReplyAction struct {
	Text      string
	LunaModel string
}

func (r *ReplyAction) GetText() string {
	if r == nil {
		return ""
	}
	return r.Text
}

type CommandAction struct {
	ID              string
	InputParameters map[string]string
	NLUResult       *NLUResult
}

func (c *CommandAction) GetID() string {
	if c == nil {
		return ""
	}
	return c.ID
}

type NLUResult struct {
	Intent     string
	Confidence float64
	Entities   map[string]string
}

type TranscribeAction struct {
	ID              string
	CubicModelID    string
	DiathekeModelID string
}

type DeleteSessionRequest struct {
	TokenData *TokenData
}

type DeleteSessionResponse struct{}

// SessionInput carries the token and exactly one input variant.
type SessionInput struct {
	Token *TokenData
	Text  *TextInput
	ASR   *ASRResult
	Cmd   *CommandResult
	Story *SetStory
}

type TextInput struct {
	Text string
}

type ASRResult struct {
	Text        string
	Confidence  float64
	CubicResult *cubicpb.RecognitionResult
}

func (r *ASRResult) GetText() string {
	if r == nil {
		return ""
	}
	return r.Text
}

type CommandResult struct {
	ID            string
	OutParameters map[string]string
	Error         string
}

type SetStory struct {
	StoryID    string
	Parameters map[string]string
}

type UpdateSessionRequest struct {
	SessionInput *SessionInput
}

type UpdateSessionResponse struct {
	SessionOutput *SessionOutput
}

func (r *UpdateSessionResponse) GetSessionOutput() *SessionOutput {
	if r == nil {
		return nil
	}
	return r.SessionOutput
}

// StreamASRRequest carries the token (first message) or audio.
type StreamASRRequest struct {
	Token *TokenData
	Audio []byte
}

type StreamASRResponse struct {
	AsrResult *ASRResult
}

// StreamASRWithPartialsRequest carries the token (first message) or audio.
type StreamASRWithPartialsRequest struct {
	Token *TokenData
	Audio []byte
}

type StreamASRWithPartialsResponse struct {
	PartialResult *cubicpb.RecognitionResult
	AsrResult     *ASRResult
}

type StreamTTSRequest struct {
	ReplyAction *ReplyAction
	Token       *TokenData
}

type StreamTTSResponse struct {
	Audio []byte
}

// TranscribeRequest carries the action (first message) or audio.
type TranscribeRequest struct {
	Action *TranscribeAction
	Audio  []byte
}

type TranscribeResponse struct {
	Text       string
	Confidence float64
	IsPartial  bool
}
