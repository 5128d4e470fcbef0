package diathekepb

import (
	"speech-demo-clients/proto/codec"
	"speech-demo-clients/proto/cubicpb"
)

// Field numbers follow cobaltspeech/diatheke/v3/diatheke.proto.

func (*VersionRequest) AppendWire(b []byte) []byte          { return b }
func (*VersionRequest) UnmarshalWire(b []byte) error        { return codec.Walk(b, nil) }
func (*ListModelsRequest) AppendWire(b []byte) []byte       { return b }
func (*ListModelsRequest) UnmarshalWire(b []byte) error     { return codec.Walk(b, nil) }
func (*DeleteSessionResponse) AppendWire(b []byte) []byte   { return b }
func (*DeleteSessionResponse) UnmarshalWire(b []byte) error { return codec.Walk(b, nil) }

func (m *VersionResponse) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.Diatheke)
	b = codec.AppendString(b, 2, m.Chosun)
	b = codec.AppendString(b, 3, m.Cubic)
	return codec.AppendString(b, 4, m.Luna)
}

func (m *VersionResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Diatheke = f.String()
		case 2:
			m.Chosun = f.String()
		case 3:
			m.Cubic = f.String()
		case 4:
			m.Luna = f.String()
		}
		return nil
	})
}

func (m *ListModelsResponse) AppendWire(b []byte) []byte {
	for _, model := range m.Models {
		if model != nil {
			b = codec.AppendMessage(b, 1, model)
		}
	}
	return b
}

func (m *ListModelsResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		model := new(ModelInfo)
		if err := f.Message(model); err != nil {
			return err
		}
		m.Models = append(m.Models, model)
		return nil
	})
}

func (m *ModelInfo) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.ID)
	b = codec.AppendString(b, 2, m.Name)
	b = codec.AppendString(b, 3, m.Language)
	b = codec.AppendUint(b, 4, uint64(m.ASRSampleRate))
	return codec.AppendUint(b, 5, uint64(m.TTSSampleRate))
}

func (m *ModelInfo) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ID = f.String()
		case 2:
			m.Name = f.String()
		case 3:
			m.Language = f.String()
		case 4:
			m.ASRSampleRate = f.Uint32()
		case 5:
			m.TTSSampleRate = f.Uint32()
		}
		return nil
	})
}

func (m *AudioFormat) AppendWire(b []byte) []byte {
	b = codec.AppendUint(b, 1, uint64(m.SampleRate))
	b = codec.AppendUint(b, 2, uint64(m.Channels))
	b = codec.AppendUint(b, 3, uint64(m.BitDepth))
	b = codec.AppendString(b, 4, m.Encoding)
	return codec.AppendString(b, 5, m.ByteOrder)
}

func (m *AudioFormat) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.SampleRate = f.Uint32()
		case 2:
			m.Channels = f.Uint32()
		case 3:
			m.BitDepth = f.Uint32()
		case 4:
			m.Encoding = f.String()
		case 5:
			m.ByteOrder = f.String()
		}
		return nil
	})
}

func (m *SessionMetadata) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.CustomMetadata)
	return codec.AppendString(b, 2, m.StorageFilePrefix)
}

func (m *SessionMetadata) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.CustomMetadata = f.String()
		case 2:
			m.StorageFilePrefix = f.String()
		}
		return nil
	})
}

func (m *CreateSessionRequest) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.ModelID)
	b = codec.AppendString(b, 2, m.Wakeword)
	if m.Metadata != nil {
		b = codec.AppendMessage(b, 3, m.Metadata)
	}
	if m.InputAudioFormat != nil {
		b = codec.AppendMessage(b, 4, m.InputAudioFormat)
	}
	if m.OutputAudioFormat != nil {
		b = codec.AppendMessage(b, 5, m.OutputAudioFormat)
	}
	return b
}

func (m *CreateSessionRequest) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ModelID = f.String()
		case 2:
			m.Wakeword = f.String()
		case 3:
			m.Metadata = new(SessionMetadata)
			return f.Message(m.Metadata)
		case 4:
			m.InputAudioFormat = new(AudioFormat)
			return f.Message(m.InputAudioFormat)
		case 5:
			m.OutputAudioFormat = new(AudioFormat)
			return f.Message(m.OutputAudioFormat)
		}
		return nil
	})
}

// appendOutput and unmarshalOutput share the single-field wrapper shape of
// the session responses.
func appendOutput(b []byte, out *SessionOutput) []byte {
	if out == nil {
		return b
	}
	return codec.AppendMessage(b, 1, out)
}

func unmarshalOutput(b []byte, out **SessionOutput) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		*out = new(SessionOutput)
		return f.Message(*out)
	})
}

func (m *CreateSessionResponse) AppendWire(b []byte) []byte {
	return appendOutput(b, m.SessionOutput)
}

func (m *CreateSessionResponse) UnmarshalWire(b []byte) error {
	return unmarshalOutput(b, &m.SessionOutput)
}

func (m *UpdateSessionResponse) AppendWire(b []byte) []byte {
	return appendOutput(b, m.SessionOutput)
}

func (m *UpdateSessionResponse) UnmarshalWire(b []byte) error {
	return unmarshalOutput(b, &m.SessionOutput)
}

func (m *TokenData) AppendWire(b []byte) []byte {
	b = codec.AppendBytes(b, 1, m.Data)
	b = codec.AppendString(b, 2, m.ID)
	return codec.AppendString(b, 3, m.Metadata)
}

func (m *TokenData) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Data = f.Bytes()
		case 2:
			m.ID = f.String()
		case 3:
			m.Metadata = f.String()
		}
		return nil
	})
}

func (m *SessionOutput) AppendWire(b []byte) []byte {
	if m.Token != nil {
		b = codec.AppendMessage(b, 1, m.Token)
	}
	for _, a := range m.ActionList {
		if a != nil {
			b = codec.AppendMessage(b, 2, a)
		}
	}
	return b
}

func (m *SessionOutput) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Token = new(TokenData)
			return f.Message(m.Token)
		case 2:
			a := new(ActionData)
			if err := f.Message(a); err != nil {
				return err
			}
			m.ActionList = append(m.ActionList, a)
		}
		return nil
	})
}

func (m *ActionData) AppendWire(b []byte) []byte {
	switch {
	case m.Input != nil:
		b = codec.AppendMessage(b, 1, m.Input)
	case m.Command != nil:
		b = codec.AppendMessage(b, 2, m.Command)
	case m.Reply != nil:
		b = codec.AppendMessage(b, 3, m.Reply)
	case m.Transcribe != nil:
		b = codec.AppendMessage(b, 4, m.Transcribe)
	}
	return b
}

// UnmarshalWire keeps the last variant on the wire, as a oneof does.
func (m *ActionData) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			*m = ActionData{Input: new(WaitForUserAction)}
			return f.Message(m.Input)
		case 2:
			*m = ActionData{Command: new(CommandAction)}
			return f.Message(m.Command)
		case 3:
			*m = ActionData{Reply: new(ReplyAction)}
			return f.Message(m.Reply)
		case 4:
			*m = ActionData{Transcribe: new(TranscribeAction)}
			return f.Message(m.Transcribe)
		}
		return nil
	})
}

func (m *WaitForUserAction) AppendWire(b []byte) []byte {
	b = codec.AppendBool(b, 1, m.RequiresWakeWord)
	return codec.AppendBool(b, 2, m.Immediate)
}

func (m *WaitForUserAction) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.RequiresWakeWord = f.Bool()
		case 2:
			m.Immediate = f.Bool()
		}
		return nil
	})
}

func (m *ReplyAction) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.Text)
	return codec.AppendString(b, 2, m.LunaModel)
}

func (m *ReplyAction) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Text = f.String()
		case 2:
			m.LunaModel = f.String()
		}
		return nil
	})
}

// putEntry adds a decoded map entry to *m, allocating the map on first use.
func putEntry(f codec.Field, m *map[string]string) error {
	k, v, err := f.StringEntry()
	if err != nil {
		return err
	}
	if *m == nil {
		*m = make(map[string]string)
	}
	(*m)[k] = v
	return nil
}

func (m *CommandAction) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.ID)
	b = codec.AppendStringMap(b, 2, m.InputParameters)
	if m.NLUResult != nil {
		b = codec.AppendMessage(b, 3, m.NLUResult)
	}
	return b
}

func (m *CommandAction) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ID = f.String()
		case 2:
			return putEntry(f, &m.InputParameters)
		case 3:
			m.NLUResult = new(NLUResult)
			return f.Message(m.NLUResult)
		}
		return nil
	})
}

func (m *NLUResult) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.Intent)
	b = codec.AppendDouble(b, 2, m.Confidence)
	return codec.AppendStringMap(b, 3, m.Entities)
}

func (m *NLUResult) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Intent = f.String()
		case 2:
			m.Confidence = f.Double()
		case 3:
			return putEntry(f, &m.Entities)
		}
		return nil
	})
}

func (m *TranscribeAction) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.ID)
	b = codec.AppendString(b, 2, m.CubicModelID)
	return codec.AppendString(b, 3, m.DiathekeModelID)
}

func (m *TranscribeAction) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ID = f.String()
		case 2:
			m.CubicModelID = f.String()
		case 3:
			m.DiathekeModelID = f.String()
		}
		return nil
	})
}

func (m *DeleteSessionRequest) AppendWire(b []byte) []byte {
	if m.TokenData == nil {
		return b
	}
	return codec.AppendMessage(b, 1, m.TokenData)
}

func (m *DeleteSessionRequest) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		m.TokenData = new(TokenData)
		return f.Message(m.TokenData)
	})
}

func (m *SessionInput) AppendWire(b []byte) []byte {
	if m.Token != nil {
		b = codec.AppendMessage(b, 1, m.Token)
	}
	switch {
	case m.Text != nil:
		b = codec.AppendMessage(b, 2, m.Text)
	case m.ASR != nil:
		b = codec.AppendMessage(b, 3, m.ASR)
	case m.Cmd != nil:
		b = codec.AppendMessage(b, 4, m.Cmd)
	case m.Story != nil:
		b = codec.AppendMessage(b, 5, m.Story)
	}
	return b
}

func (m *SessionInput) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Token = new(TokenData)
			return f.Message(m.Token)
		case 2:
			m.Text, m.ASR, m.Cmd, m.Story = new(TextInput), nil, nil, nil
			return f.Message(m.Text)
		case 3:
			m.Text, m.ASR, m.Cmd, m.Story = nil, new(ASRResult), nil, nil
			return f.Message(m.ASR)
		case 4:
			m.Text, m.ASR, m.Cmd, m.Story = nil, nil, new(CommandResult), nil
			return f.Message(m.Cmd)
		case 5:
			m.Text, m.ASR, m.Cmd, m.Story = nil, nil, nil, new(SetStory)
			return f.Message(m.Story)
		}
		return nil
	})
}

func (m *TextInput) AppendWire(b []byte) []byte {
	return codec.AppendString(b, 1, m.Text)
}

func (m *TextInput) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num == 1 {
			m.Text = f.String()
		}
		return nil
	})
}

func (m *ASRResult) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.Text)
	b = codec.AppendDouble(b, 2, m.Confidence)
	if m.CubicResult != nil {
		b = codec.AppendMessage(b, 3, m.CubicResult)
	}
	return b
}

func (m *ASRResult) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Text = f.String()
		case 2:
			m.Confidence = f.Double()
		case 3:
			m.CubicResult = new(cubicpb.RecognitionResult)
			return f.Message(m.CubicResult)
		}
		return nil
	})
}

func (m *CommandResult) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.ID)
	b = codec.AppendStringMap(b, 2, m.OutParameters)
	return codec.AppendString(b, 3, m.Error)
}

func (m *CommandResult) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ID = f.String()
		case 2:
			return putEntry(f, &m.OutParameters)
		case 3:
			m.Error = f.String()
		}
		return nil
	})
}

func (m *SetStory) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.StoryID)
	return codec.AppendStringMap(b, 2, m.Parameters)
}

func (m *SetStory) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.StoryID = f.String()
		case 2:
			return putEntry(f, &m.Parameters)
		}
		return nil
	})
}

func (m *UpdateSessionRequest) AppendWire(b []byte) []byte {
	if m.SessionInput == nil {
		return b
	}
	return codec.AppendMessage(b, 1, m.SessionInput)
}

func (m *UpdateSessionRequest) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		m.SessionInput = new(SessionInput)
		return f.Message(m.SessionInput)
	})
}

// The audio request streams carry the token or action first and audio after.

func appendTokenOrAudio(b []byte, token *TokenData, audio []byte) []byte {
	if token != nil {
		b = codec.AppendMessage(b, 1, token)
	}
	return codec.AppendBytes(b, 2, audio)
}

func unmarshalTokenOrAudio(b []byte, token **TokenData, audio *[]byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			*token = new(TokenData)
			return f.Message(*token)
		case 2:
			*audio = f.Bytes()
		}
		return nil
	})
}

func (m *StreamASRRequest) AppendWire(b []byte) []byte {
	return appendTokenOrAudio(b, m.Token, m.Audio)
}

func (m *StreamASRRequest) UnmarshalWire(b []byte) error {
	return unmarshalTokenOrAudio(b, &m.Token, &m.Audio)
}

func (m *StreamASRWithPartialsRequest) AppendWire(b []byte) []byte {
	return appendTokenOrAudio(b, m.Token, m.Audio)
}

func (m *StreamASRWithPartialsRequest) UnmarshalWire(b []byte) error {
	return unmarshalTokenOrAudio(b, &m.Token, &m.Audio)
}

func (m *StreamASRResponse) AppendWire(b []byte) []byte {
	if m.AsrResult == nil {
		return b
	}
	return codec.AppendMessage(b, 1, m.AsrResult)
}

func (m *StreamASRResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		m.AsrResult = new(ASRResult)
		return f.Message(m.AsrResult)
	})
}

func (m *StreamASRWithPartialsResponse) AppendWire(b []byte) []byte {
	if m.PartialResult != nil {
		b = codec.AppendMessage(b, 1, m.PartialResult)
	}
	if m.AsrResult != nil {
		b = codec.AppendMessage(b, 2, m.AsrResult)
	}
	return b
}

func (m *StreamASRWithPartialsResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.PartialResult = new(cubicpb.RecognitionResult)
			return f.Message(m.PartialResult)
		case 2:
			m.AsrResult = new(ASRResult)
			return f.Message(m.AsrResult)
		}
		return nil
	})
}

func (m *StreamTTSRequest) AppendWire(b []byte) []byte {
	if m.ReplyAction != nil {
		b = codec.AppendMessage(b, 1, m.ReplyAction)
	}
	if m.Token != nil {
		b = codec.AppendMessage(b, 2, m.Token)
	}
	return b
}

func (m *StreamTTSRequest) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ReplyAction = new(ReplyAction)
			return f.Message(m.ReplyAction)
		case 2:
			m.Token = new(TokenData)
			return f.Message(m.Token)
		}
		return nil
	})
}

func (m *StreamTTSResponse) AppendWire(b []byte) []byte {
	return codec.AppendBytes(b, 1, m.Audio)
}

func (m *StreamTTSResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num == 1 {
			m.Audio = f.Bytes()
		}
		return nil
	})
}

func (m *TranscribeRequest) AppendWire(b []byte) []byte {
	if m.Action != nil {
		b = codec.AppendMessage(b, 1, m.Action)
	}
	return codec.AppendBytes(b, 2, m.Audio)
}

func (m *TranscribeRequest) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Action = new(TranscribeAction)
			return f.Message(m.Action)
		case 2:
			m.Audio = f.Bytes()
		}
		return nil
	})
}

func (m *TranscribeResponse) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.Text)
	b = codec.AppendDouble(b, 2, m.Confidence)
	return codec.AppendBool(b, 3, m.IsPartial)
}

func (m *TranscribeResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Text = f.String()
		case 2:
			m.Confidence = f.Double()
		case 3:
			m.IsPartial = f.Bool()
		}
		return nil
	})
}
