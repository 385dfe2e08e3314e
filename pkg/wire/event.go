package wire

// Payload is one variant of the tagged union carried by an Event or an
// EventResult. The legacy ABI encodes semantics into opcodes; each opcode is
// flattened into exactly one payload variant, preserving whether the data
// argument was an integer, a struct, a byte buffer, or a marker asking the
// other side to allocate and fill the output.
type Payload interface {
	payloadTag() uint8
	marshalBody(e *Encoder)
	unmarshalBody(d *Decoder) error
}

const (
	tagNoPayload uint8 = iota
	tagBytes
	tagString
	tagChunk
	tagMIDIEvents
	tagRect
	tagIOProperties
	tagParameterProperties
	tagMIDIKeyName
	tagTimeInfo
	tagSpeakerArrangement
	tagAEffect
	tagBufferConfig
	tagWantsString
	tagWantsChunkBuffer
	tagWantsRect
	tagWantsAEffectUpdate
	tagWantsBufferConfig
	tagWindow
)

// NoPayload marks an opcode whose data argument carries nothing.
type NoPayload struct{}

func (NoPayload) payloadTag() uint8            { return tagNoPayload }
func (NoPayload) marshalBody(*Encoder)         {}
func (NoPayload) unmarshalBody(*Decoder) error { return nil }

// BytesPayload is an opaque byte buffer argument.
type BytesPayload struct{ Data []byte }

func (p *BytesPayload) payloadTag() uint8        { return tagBytes }
func (p *BytesPayload) marshalBody(e *Encoder)   { e.Blob(p.Data) }
func (p *BytesPayload) unmarshalBody(d *Decoder) error {
	var err error
	p.Data, err = d.Blob()
	return err
}

// StringPayload is a null-terminated C string argument or reply.
type StringPayload struct{ Value string }

func (p *StringPayload) payloadTag() uint8      { return tagString }
func (p *StringPayload) marshalBody(e *Encoder) { e.String(p.Value) }
func (p *StringPayload) unmarshalBody(d *Decoder) error {
	var err error
	p.Value, err = d.String()
	return err
}

// ChunkPayload is a plugin state chunk. Distinct from BytesPayload so the
// receiving side knows to park the bytes in the proxy-owned chunk buffer.
type ChunkPayload struct{ Data []byte }

func (p *ChunkPayload) payloadTag() uint8      { return tagChunk }
func (p *ChunkPayload) marshalBody(e *Encoder) { e.Blob(p.Data) }
func (p *ChunkPayload) unmarshalBody(d *Decoder) error {
	var err error
	p.Data, err = d.Blob()
	return err
}

// MIDIEventsPayload is a variable-length bundle of MIDI events.
type MIDIEventsPayload struct{ Events []MIDIEvent }

func (p *MIDIEventsPayload) payloadTag() uint8 { return tagMIDIEvents }

func (p *MIDIEventsPayload) marshalBody(e *Encoder) {
	e.Uint32(uint32(len(p.Events)))
	for i := range p.Events {
		p.Events[i].MarshalWire(e)
	}
}

func (p *MIDIEventsPayload) unmarshalBody(d *Decoder) error {
	n, err := d.Uint32()
	if err != nil {
		return err
	}
	events := make([]MIDIEvent, n)
	for i := range events {
		if err := events[i].UnmarshalWire(d); err != nil {
			return err
		}
	}
	p.Events = events
	return nil
}

// RectPayload carries an editor rectangle.
type RectPayload struct{ Rect Rect }

func (p *RectPayload) payloadTag() uint8            { return tagRect }
func (p *RectPayload) marshalBody(e *Encoder)       { p.Rect.MarshalWire(e) }
func (p *RectPayload) unmarshalBody(d *Decoder) error { return p.Rect.UnmarshalWire(d) }

// IOPropertiesPayload carries pin properties in either direction.
type IOPropertiesPayload struct{ Properties IOProperties }

func (p *IOPropertiesPayload) payloadTag() uint8      { return tagIOProperties }
func (p *IOPropertiesPayload) marshalBody(e *Encoder) { p.Properties.MarshalWire(e) }
func (p *IOPropertiesPayload) unmarshalBody(d *Decoder) error {
	return p.Properties.UnmarshalWire(d)
}

// ParameterPropertiesPayload carries automation metadata.
type ParameterPropertiesPayload struct{ Properties ParameterProperties }

func (p *ParameterPropertiesPayload) payloadTag() uint8      { return tagParameterProperties }
func (p *ParameterPropertiesPayload) marshalBody(e *Encoder) { p.Properties.MarshalWire(e) }
func (p *ParameterPropertiesPayload) unmarshalBody(d *Decoder) error {
	return p.Properties.UnmarshalWire(d)
}

// MIDIKeyNamePayload carries a key name query.
type MIDIKeyNamePayload struct{ KeyName MIDIKeyName }

func (p *MIDIKeyNamePayload) payloadTag() uint8      { return tagMIDIKeyName }
func (p *MIDIKeyNamePayload) marshalBody(e *Encoder) { p.KeyName.MarshalWire(e) }
func (p *MIDIKeyNamePayload) unmarshalBody(d *Decoder) error {
	return p.KeyName.UnmarshalWire(d)
}

// TimeInfoPayload carries a transport snapshot.
type TimeInfoPayload struct{ TimeInfo TimeInfo }

func (p *TimeInfoPayload) payloadTag() uint8      { return tagTimeInfo }
func (p *TimeInfoPayload) marshalBody(e *Encoder) { p.TimeInfo.MarshalWire(e) }
func (p *TimeInfoPayload) unmarshalBody(d *Decoder) error {
	return p.TimeInfo.UnmarshalWire(d)
}

// SpeakerArrangementPayload carries a channel layout.
type SpeakerArrangementPayload struct{ Arrangement SpeakerArrangement }

func (p *SpeakerArrangementPayload) payloadTag() uint8      { return tagSpeakerArrangement }
func (p *SpeakerArrangementPayload) marshalBody(e *Encoder) { p.Arrangement.MarshalWire(e) }
func (p *SpeakerArrangementPayload) unmarshalBody(d *Decoder) error {
	return p.Arrangement.UnmarshalWire(d)
}

// AEffectPayload carries the host-visible effect struct fields.
type AEffectPayload struct{ Effect AEffectData }

func (p *AEffectPayload) payloadTag() uint8            { return tagAEffect }
func (p *AEffectPayload) marshalBody(e *Encoder)       { p.Effect.MarshalWire(e) }
func (p *AEffectPayload) unmarshalBody(d *Decoder) error { return p.Effect.UnmarshalWire(d) }

// BufferConfigPayload carries the shared audio buffer descriptor returned
// when the audio engine is enabled.
type BufferConfigPayload struct{ Config BufferConfig }

func (p *BufferConfigPayload) payloadTag() uint8            { return tagBufferConfig }
func (p *BufferConfigPayload) marshalBody(e *Encoder)       { p.Config.MarshalWire(e) }
func (p *BufferConfigPayload) unmarshalBody(d *Decoder) error { return p.Config.UnmarshalWire(d) }

// WindowPayload carries a native window handle as an opaque integer; the
// foreign host embeds its own editor window into it.
type WindowPayload struct{ Handle uint64 }

func (p *WindowPayload) payloadTag() uint8      { return tagWindow }
func (p *WindowPayload) marshalBody(e *Encoder) { e.Uint64(p.Handle) }
func (p *WindowPayload) unmarshalBody(d *Decoder) error {
	var err error
	p.Handle, err = d.Uint64()
	return err
}

// Request markers: the sending side has no data, the other side allocates
// and fills the output.

// WantsString asks the other side to fill a string buffer.
type WantsString struct{}

func (WantsString) payloadTag() uint8            { return tagWantsString }
func (WantsString) marshalBody(*Encoder)         {}
func (WantsString) unmarshalBody(*Decoder) error { return nil }

// WantsChunkBuffer asks the other side to return the plugin state chunk.
type WantsChunkBuffer struct{}

func (WantsChunkBuffer) payloadTag() uint8            { return tagWantsChunkBuffer }
func (WantsChunkBuffer) marshalBody(*Encoder)         {}
func (WantsChunkBuffer) unmarshalBody(*Decoder) error { return nil }

// WantsRect asks the other side to return the editor rectangle.
type WantsRect struct{}

func (WantsRect) payloadTag() uint8            { return tagWantsRect }
func (WantsRect) marshalBody(*Encoder)         {}
func (WantsRect) unmarshalBody(*Decoder) error { return nil }

// WantsAEffectUpdate asks the foreign host to push the refreshed effect
// struct after late plugin initialisation.
type WantsAEffectUpdate struct{}

func (WantsAEffectUpdate) payloadTag() uint8            { return tagWantsAEffectUpdate }
func (WantsAEffectUpdate) marshalBody(*Encoder)         {}
func (WantsAEffectUpdate) unmarshalBody(*Decoder) error { return nil }

// WantsBufferConfig asks the foreign host for an audio buffer layout.
type WantsBufferConfig struct{}

func (WantsBufferConfig) payloadTag() uint8            { return tagWantsBufferConfig }
func (WantsBufferConfig) marshalBody(*Encoder)         {}
func (WantsBufferConfig) unmarshalBody(*Decoder) error { return nil }

func marshalPayload(e *Encoder, p Payload) {
	if p == nil {
		p = NoPayload{}
	}
	e.Tag(p.payloadTag())
	p.marshalBody(e)
}

func unmarshalPayload(d *Decoder) (Payload, error) {
	tag, err := d.Tag()
	if err != nil {
		return nil, err
	}
	var p Payload
	switch tag {
	case tagNoPayload:
		p = NoPayload{}
	case tagBytes:
		p = &BytesPayload{}
	case tagString:
		p = &StringPayload{}
	case tagChunk:
		p = &ChunkPayload{}
	case tagMIDIEvents:
		p = &MIDIEventsPayload{}
	case tagRect:
		p = &RectPayload{}
	case tagIOProperties:
		p = &IOPropertiesPayload{}
	case tagParameterProperties:
		p = &ParameterPropertiesPayload{}
	case tagMIDIKeyName:
		p = &MIDIKeyNamePayload{}
	case tagTimeInfo:
		p = &TimeInfoPayload{}
	case tagSpeakerArrangement:
		p = &SpeakerArrangementPayload{}
	case tagAEffect:
		p = &AEffectPayload{}
	case tagBufferConfig:
		p = &BufferConfigPayload{}
	case tagWindow:
		p = &WindowPayload{}
	case tagWantsString:
		p = WantsString{}
	case tagWantsChunkBuffer:
		p = WantsChunkBuffer{}
	case tagWantsRect:
		p = WantsRect{}
	case tagWantsAEffectUpdate:
		p = WantsAEffectUpdate{}
	case tagWantsBufferConfig:
		p = WantsBufferConfig{}
	default:
		return nil, unknownTag("payload", tag)
	}
	return p, p.unmarshalBody(d)
}

// Event is one dispatcher or host-callback call: the opcode selects the
// payload variant. Value is an integer for every opcode except the speaker
// arrangement pair, where the input arrangement rides in ValuePayload.
type Event struct {
	Opcode       int32
	Index        int32
	Value        int64
	Option       float32
	Payload      Payload
	ValuePayload Payload
}

func (ev *Event) MarshalWire(e *Encoder) {
	e.Int32(ev.Opcode)
	e.Int32(ev.Index)
	e.Int64(ev.Value)
	e.Float32(ev.Option)
	marshalPayload(e, ev.Payload)
	e.Option(ev.ValuePayload != nil)
	if ev.ValuePayload != nil {
		marshalPayload(e, ev.ValuePayload)
	}
}

func (ev *Event) UnmarshalWire(d *Decoder) (err error) {
	if ev.Opcode, err = d.Int32(); err != nil {
		return err
	}
	if ev.Index, err = d.Int32(); err != nil {
		return err
	}
	if ev.Value, err = d.Int64(); err != nil {
		return err
	}
	if ev.Option, err = d.Float32(); err != nil {
		return err
	}
	if ev.Payload, err = unmarshalPayload(d); err != nil {
		return err
	}
	present, err := d.Option()
	if err != nil {
		return err
	}
	if present {
		if ev.ValuePayload, err = unmarshalPayload(d); err != nil {
			return err
		}
	} else {
		ev.ValuePayload = nil
	}
	return nil
}

// EventResult is the response counterpart of an Event.
type EventResult struct {
	ReturnValue  int64
	Payload      Payload
	ValuePayload Payload
}

func (r *EventResult) MarshalWire(e *Encoder) {
	e.Int64(r.ReturnValue)
	marshalPayload(e, r.Payload)
	e.Option(r.ValuePayload != nil)
	if r.ValuePayload != nil {
		marshalPayload(e, r.ValuePayload)
	}
}

func (r *EventResult) UnmarshalWire(d *Decoder) (err error) {
	if r.ReturnValue, err = d.Int64(); err != nil {
		return err
	}
	if r.Payload, err = unmarshalPayload(d); err != nil {
		return err
	}
	present, err := d.Option()
	if err != nil {
		return err
	}
	if present {
		if r.ValuePayload, err = unmarshalPayload(d); err != nil {
			return err
		}
	} else {
		r.ValuePayload = nil
	}
	return nil
}
