package codec

import (
	"math"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is a stub message with a hand-written protobuf encoding.
type Message interface {
	// AppendWire appends the encoded message to b.
	AppendWire(b []byte) []byte
	UnmarshalWire(b []byte) error
}

// Field is one decoded field of a message. The accessors return the zero
// value when the wire type does not match.
type Field struct {
	Num  protowire.Number
	Type protowire.Type

	varint  uint64
	fixed64 uint64
	bytes   []byte
}

func (f Field) String() string { return string(f.bytes) }
func (f Field) Bool() bool     { return f.varint != 0 }
func (f Field) Uint32() uint32 { return uint32(f.varint) }
func (f Field) Uint64() uint64 { return f.varint }
func (f Field) Int32() int32   { return int32(f.varint) }

func (f Field) Double() float64 {
	if f.Type != protowire.Fixed64Type {
		return 0
	}
	return math.Float64frombits(f.fixed64)
}

// Bytes returns a copy; the input buffer may be reused by the transport.
func (f Field) Bytes() []byte {
	if len(f.bytes) == 0 {
		return nil
	}
	return slices.Clone(f.bytes)
}

// Message decodes the field into m.
func (f Field) Message(m Message) error {
	return m.UnmarshalWire(f.bytes)
}

// StringEntry decodes a map<string, string> entry.
func (f Field) StringEntry() (key, value string, err error) {
	err = Walk(f.bytes, func(e Field) error {
		switch e.Num {
		case 1:
			key = e.String()
		case 2:
			value = e.String()
		}
		return nil
	})
	return key, value, err
}

// Walk calls fn for every field of b in wire order. Groups and fixed32
// fields are skipped. A nil fn only validates b.
func Walk(b []byte, fn func(Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.fixed64, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n >= 0 {
				b = b[n:]
				continue
			}
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if fn != nil {
			if err := fn(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// The Append helpers skip zero values, matching proto3 implicit presence.

func AppendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func AppendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func AppendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func AppendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// AppendEnum sign-extends negative values as protobuf does for int32.
func AppendEnum(b []byte, num protowire.Number, v int32) []byte {
	return AppendUint(b, num, uint64(int64(v)))
}

func AppendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

// AppendMessage always writes m, so an empty oneof member keeps its presence.
// Callers skip nil messages.
func AppendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.AppendWire(nil))
}

// AppendStringMap writes one entry per key, in key order.
func AppendStringMap(b []byte, num protowire.Number, m map[string]string) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		entry := AppendString(nil, 1, k)
		entry = AppendString(entry, 2, m[k])
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}
