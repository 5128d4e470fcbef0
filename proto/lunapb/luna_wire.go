package lunapb

import "speech-demo-clients/proto/codec"

func (*VersionRequest) AppendWire(b []byte) []byte      { return b }
func (*VersionRequest) UnmarshalWire(b []byte) error    { return codec.Walk(b, nil) }
func (*ListVoicesRequest) AppendWire(b []byte) []byte   { return b }
func (*ListVoicesRequest) UnmarshalWire(b []byte) error { return codec.Walk(b, nil) }

func (m *VersionResponse) AppendWire(b []byte) []byte {
	return codec.AppendString(b, 1, m.Version)
}

func (m *VersionResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num == 1 {
			m.Version = f.String()
		}
		return nil
	})
}

func (m *ListVoicesResponse) AppendWire(b []byte) []byte {
	for _, v := range m.Voices {
		if v != nil {
			b = codec.AppendMessage(b, 1, v)
		}
	}
	return b
}

func (m *ListVoicesResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		v := new(Voice)
		if err := f.Message(v); err != nil {
			return err
		}
		m.Voices = append(m.Voices, v)
		return nil
	})
}

func (m *Voice) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.ID)
	b = codec.AppendString(b, 2, m.Name)
	b = codec.AppendUint(b, 3, uint64(m.SampleRate))
	return codec.AppendString(b, 4, m.Language)
}

func (m *Voice) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.ID = f.String()
		case 2:
			m.Name = f.String()
		case 3:
			m.SampleRate = f.Uint32()
		case 4:
			m.Language = f.String()
		}
		return nil
	})
}

func (m *SynthesizerConfig) AppendWire(b []byte) []byte {
	b = codec.AppendString(b, 1, m.VoiceID)
	return codec.AppendEnum(b, 2, int32(m.Encoding))
}

func (m *SynthesizerConfig) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.VoiceID = f.String()
		case 2:
			m.Encoding = Encoding(f.Int32())
		}
		return nil
	})
}

func (m *SynthesizeRequest) AppendWire(b []byte) []byte {
	if m.Config != nil {
		b = codec.AppendMessage(b, 1, m.Config)
	}
	return codec.AppendString(b, 2, m.Text)
}

func (m *SynthesizeRequest) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		switch f.Num {
		case 1:
			m.Config = new(SynthesizerConfig)
			return f.Message(m.Config)
		case 2:
			m.Text = f.String()
		}
		return nil
	})
}

func (m *SynthesizeResponse) AppendWire(b []byte) []byte {
	return codec.AppendBytes(b, 1, m.Audio)
}

func (m *SynthesizeResponse) UnmarshalWire(b []byte) error {
	return codec.Walk(b, func(f codec.Field) error {
		if f.Num == 1 {
			m.Audio = f.Bytes()
		}
		return nil
	})
}
