package cubicpb

import "speech-demo-clients/proto/codec"

// Field numbers follow cobaltspeech/transcribe/v5/transcribe.proto.

func (*VersionRequest) AppendWire(b []byte) []byte      { return b }
func (*VersionRequest) UnmarshalWire(b []byte) error    { return codec.Walk(b, nil) }
func (*ListModelsRequest) AppendWire(b []byte) []byte   { return b }
func (*ListModelsRequest) UnmarshalWire(b []byte) error { return codec.Walk(b, nil) }

func (m *VersionResponse) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.Cubic)
	return codec.AppendString(b, 2, m.Server)
}

func (m *VersionResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Cubic = f.String()
		case 2:
			m.Server = f.String()
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
		model := new(Model)
		if err := f.Message(model); err != nil {
			return err
		}
		m.Models = append(m.Models, model)
		return nil
	})
}

func (m *Model) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.ID)
	b = codec.AppendString(b, 2, m.Name)
	if m.Attributes != nil {
		b = codec.AppendMessage(b, 3, m.Attributes)
	}
	return b
}

func (m *Model) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ID = f.String()
		case 2:
			m.Name = f.String()
		case 3:
			m.Attributes = new(ModelAttributes)
			return f.Message(m.Attributes)
		}
		return nil
	})
}

func (m *ModelAttributes) AppendWire(b []byte) []byte {
	return codec.AppendUint(b, 1, uint64(m.SampleRate))
}

func (m *ModelAttributes) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num == 1 {
			m.SampleRate = f.Uint32()
		}
		return nil
	})
}

func (m *AudioFormatRAW) AppendWire(b []byte) []byte {
	b = codec.AppendEnum(b, 1, int32(m.Encoding))
	b = codec.AppendUint(b, 2, uint64(m.BitDepth))
	b = codec.AppendEnum(b, 3, int32(m.ByteOrder))
	b = codec.AppendUint(b, 4, uint64(m.SampleRate))
	return codec.AppendUint(b, 5, uint64(m.Channels))
}

func (m *AudioFormatRAW) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Encoding = AudioEncoding(f.Int32())
		case 2:
			m.BitDepth = f.Uint32()
		case 3:
			m.ByteOrder = ByteOrder(f.Int32())
		case 4:
			m.SampleRate = f.Uint32()
		case 5:
			m.Channels = f.Uint32()
		}
		return nil
	})
}

func (m *RecognitionConfig) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.ModelID)
	if m.AudioFormatRAW != nil {
		b = codec.AppendMessage(b, 2, m.AudioFormatRAW)
	} else {
		b = codec.AppendEnum(b, 3, int32(m.AudioFormatHeadered))
	}
	b = codec.AppendBool(b, 6, m.EnableWordDetails)
	return codec.AppendBool(b, 7, m.EnableConfusionNetwork)
}

func (m *RecognitionConfig) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ModelID = f.String()
		case 2:
			m.AudioFormatRAW = new(AudioFormatRAW)
			return f.Message(m.AudioFormatRAW)
		case 3:
			m.AudioFormatHeadered = ContainerFormat(f.Int32())
		case 6:
			m.EnableWordDetails = f.Bool()
		case 7:
			m.EnableConfusionNetwork = f.Bool()
		}
		return nil
	})
}

func (m *RecognitionAudio) AppendWire(b []byte) []byte {
	return codec.AppendBytes(b, 1, m.Data)
}

func (m *RecognitionAudio) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num == 1 {
			m.Data = f.Bytes()
		}
		return nil
	})
}

func (m *StreamingRecognizeRequest) AppendWire(b []byte) []byte {
	if m.Config != nil {
		b = codec.AppendMessage(b, 1, m.Config)
	}
	if m.Audio != nil {
		b = codec.AppendMessage(b, 2, m.Audio)
	}
	return b
}

func (m *StreamingRecognizeRequest) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Config = new(RecognitionConfig)
			return f.Message(m.Config)
		case 2:
			m.Audio = new(RecognitionAudio)
			return f.Message(m.Audio)
		}
		return nil
	})
}

// recognitionError is the RecognitionError message, flattened into
// StreamingRecognizeResponse.Error.
type recognitionError struct {
	message string
}

func (e *recognitionError) AppendWire(b []byte) []byte {
	return codec.AppendString(b, 1, e.message)
}

func (e *recognitionError) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num == 1 {
			e.message = f.String()
		}
		return nil
	})
}

func (m *StreamingRecognizeResponse) AppendWire(b []byte) []byte {
	if m.Result != nil {
		b = codec.AppendMessage(b, 1, m.Result)
	}
	if m.Error != "" {
		b = codec.AppendMessage(b, 2, &recognitionError{message: m.Error})
	}
	return b
}

func (m *StreamingRecognizeResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Result = new(RecognitionResult)
			return f.Message(m.Result)
		case 2:
			var e recognitionError
			if err := f.Message(&e); err != nil {
				return err
			}
			m.Error = e.message
		}
		return nil
	})
}

func (m *RecognitionResult) AppendWire(b []byte) []byte {
	for _, alt := range m.Alternatives {
		if alt != nil {
			b = codec.AppendMessage(b, 1, alt)
		}
	}
	b = codec.AppendBool(b, 2, m.IsPartial)
	return codec.AppendUint(b, 4, uint64(m.AudioChannel))
}

func (m *RecognitionResult) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			alt := new(RecognitionAlternative)
			if err := f.Message(alt); err != nil {
				return err
			}
			m.Alternatives = append(m.Alternatives, alt)
		case 2:
			m.IsPartial = f.Bool()
		case 4:
			m.AudioChannel = f.Uint32()
		}
		return nil
	})
}

func (m *RecognitionAlternative) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.TranscriptFormatted)
	b = codec.AppendString(b, 2, m.TranscriptRaw)
	b = codec.AppendUint(b, 3, m.StartTimeMs)
	b = codec.AppendUint(b, 4, m.DurationMs)
	return codec.AppendDouble(b, 5, m.Confidence)
}

func (m *RecognitionAlternative) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.TranscriptFormatted = f.String()
		case 2:
			m.TranscriptRaw = f.String()
		case 3:
			m.StartTimeMs = f.Uint64()
		case 4:
			m.DurationMs = f.Uint64()
		case 5:
			m.Confidence = f.Double()
		}
		return nil
	})
}

func (m *RecognizeRequest) AppendWire(b []byte) []byte {
	if m.Config != nil {
		b = codec.AppendMessage(b, 1, m.Config)
	}
	if m.Audio != nil {
		b = codec.AppendMessage(b, 2, m.Audio)
	}
	return b
}

func (m *RecognizeRequest) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Config = new(RecognitionConfig)
			return f.Message(m.Config)
		case 2:
			m.Audio = new(RecognitionAudio)
			return f.Message(m.Audio)
		}
		return nil
	})
}

func (m *RecognizeResponse) AppendWire(b []byte) []byte {
	for _, r := range m.Results {
		if r != nil {
			b = codec.AppendMessage(b, 1, r)
		}
	}
	return b
}

func (m *RecognizeResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		r := new(RecognitionResult)
		if err := f.Message(r); err != nil {
			return err
		}
		m.Results = append(m.Results, r)
		return nil
	})
}
