package vst3

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/nidefawl/yabridge/pkg/wire"
)

// AttributeMessage is the bridge's own attribute-list message. The ABI's
// attribute list has no enumeration primitive, so only messages created by
// this factory can be serialised and round-tripped; foreign message objects
// are dropped with a warning at the connection point. The attribute map is
// CBOR-encoded on the wire since values are heterogeneous.
type AttributeMessage struct {
	ID       string
	Ints     map[string]int64
	Floats   map[string]float64
	Strings  map[string]string
	Binaries map[string][]byte
}

// NewAttributeMessage is the message factory handed to connected plugin
// objects.
func NewAttributeMessage(id string) *AttributeMessage {
	return &AttributeMessage{
		ID:       id,
		Ints:     make(map[string]int64),
		Floats:   make(map[string]float64),
		Strings:  make(map[string]string),
		Binaries: make(map[string][]byte),
	}
}

// Attribute list accessors, mirroring the ABI's setters and getters.

func (m *AttributeMessage) SetInt(key string, value int64)     { m.Ints[key] = value }
func (m *AttributeMessage) SetFloat(key string, value float64) { m.Floats[key] = value }
func (m *AttributeMessage) SetString(key, value string)        { m.Strings[key] = value }
func (m *AttributeMessage) SetBinary(key string, value []byte) { m.Binaries[key] = value }

func (m *AttributeMessage) GetInt(key string) (int64, bool) {
	v, ok := m.Ints[key]
	return v, ok
}

func (m *AttributeMessage) GetFloat(key string) (float64, bool) {
	v, ok := m.Floats[key]
	return v, ok
}

func (m *AttributeMessage) GetString(key string) (string, bool) {
	v, ok := m.Strings[key]
	return v, ok
}

func (m *AttributeMessage) GetBinary(key string) ([]byte, bool) {
	v, ok := m.Binaries[key]
	return v, ok
}

type attributePayload struct {
	ID       string             `cbor:"1,keyasint"`
	Ints     map[string]int64   `cbor:"2,keyasint,omitempty"`
	Floats   map[string]float64 `cbor:"3,keyasint,omitempty"`
	Strings  map[string]string  `cbor:"4,keyasint,omitempty"`
	Binaries map[string][]byte  `cbor:"5,keyasint,omitempty"`
}

func (m *AttributeMessage) MarshalWire(e *wire.Encoder) {
	blob, err := cbor.Marshal(attributePayload{
		ID:       m.ID,
		Ints:     m.Ints,
		Floats:   m.Floats,
		Strings:  m.Strings,
		Binaries: m.Binaries,
	})
	if err != nil {
		// The payload is built from plain maps; this cannot fail for any
		// value the factory can produce.
		blob = nil
	}
	e.Blob(blob)
}

func (m *AttributeMessage) UnmarshalWire(d *wire.Decoder) error {
	blob, err := d.Blob()
	if err != nil {
		return err
	}
	var payload attributePayload
	if err := cbor.Unmarshal(blob, &payload); err != nil {
		return &wire.CodecError{Op: "decode", Detail: "malformed attribute list: " + err.Error()}
	}
	m.ID = payload.ID
	m.Ints = payload.Ints
	m.Floats = payload.Floats
	m.Strings = payload.Strings
	m.Binaries = payload.Binaries
	return nil
}
