package midi

import (
	"fmt"

	"github.com/nidefawl/yabridge/pkg/wire"
)

// WireEvent adapts one wire-level MIDI event to the typed Event interface
// without losing the fields that only exist at the ABI level (note length,
// note offset, detune, note-off velocity).
type WireEvent struct {
	wire.MIDIEvent
}

func (e WireEvent) Type() EventType {
	if e.SysEx {
		return EventTypeSystemExclusive
	}
	if len(e.Data) == 0 {
		return EventTypeUnknown
	}
	switch e.Data[0] & 0xF0 {
	case 0x80:
		return EventTypeNoteOff
	case 0x90:
		if len(e.Data) > 2 && e.Data[2] == 0 {
			return EventTypeNoteOff
		}
		return EventTypeNoteOn
	case 0xA0:
		return EventTypePolyPressure
	case 0xB0:
		return EventTypeControlChange
	case 0xC0:
		return EventTypeProgramChange
	case 0xD0:
		return EventTypeChannelPressure
	case 0xE0:
		return EventTypePitchBend
	}
	return EventTypeUnknown
}

func (e WireEvent) Channel() uint8 {
	if e.SysEx || len(e.Data) == 0 {
		return 0
	}
	return e.Data[0] & 0x0F
}

func (e WireEvent) SampleOffset() int32 { return e.DeltaFrames }

func (e WireEvent) Raw() []byte { return e.Data }

func (e WireEvent) String() string {
	return fmt.Sprintf("Wire{%x, offset:%d}", e.Data, e.DeltaFrames)
}

// WrapWire adapts a decoded event bundle for queueing.
func WrapWire(events []wire.MIDIEvent) []Event {
	out := make([]Event, len(events))
	for i, ev := range events {
		out[i] = WireEvent{ev}
	}
	return out
}

// UnwrapWire converts queued events back to their wire form. WireEvents
// come back byte-identical; typed events are synthesised from their raw
// encoding.
func UnwrapWire(events []Event) []wire.MIDIEvent {
	out := make([]wire.MIDIEvent, len(events))
	for i, ev := range events {
		if we, ok := ev.(WireEvent); ok {
			out[i] = we.MIDIEvent
			continue
		}
		out[i] = wire.MIDIEvent{
			DeltaFrames: ev.SampleOffset(),
			SysEx:       ev.Type() == EventTypeSystemExclusive,
			Data:        ev.Raw(),
		}
	}
	return out
}
