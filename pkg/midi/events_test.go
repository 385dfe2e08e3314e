package midi

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/nidefawl/yabridge/pkg/wire"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want EventType
	}{
		{"note on", []byte{0x91, 60, 100}, EventTypeNoteOn},
		{"note off", []byte{0x80, 60, 0}, EventTypeNoteOff},
		{"note on zero velocity is note off", []byte{0x90, 60, 0}, EventTypeNoteOff},
		{"cc", []byte{0xB0, 64, 127}, EventTypeControlChange},
		{"program change", []byte{0xC5, 12}, EventTypeProgramChange},
		{"channel pressure", []byte{0xD0, 80}, EventTypeChannelPressure},
		{"poly pressure", []byte{0xA2, 60, 90}, EventTypePolyPressure},
		{"pitch bend", []byte{0xE0, 0x00, 0x40}, EventTypePitchBend},
		{"sysex", []byte{0xF0, 0x7E, 0x01, 0xF7}, EventTypeSystemExclusive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Parse(tt.raw, 7)
			if ev == nil {
				t.Fatalf("Parse(%v) = nil", tt.raw)
			}
			if ev.Type() != tt.want {
				t.Errorf("type = %v, want %v", ev.Type(), tt.want)
			}
			if ev.SampleOffset() != 7 {
				t.Errorf("offset = %d, want 7", ev.SampleOffset())
			}
		})
	}
}

func TestParsePitchBendCenter(t *testing.T) {
	ev := Parse([]byte{0xE0, 0x00, 0x40}, 0)
	bend, ok := ev.(PitchBendEvent)
	if !ok {
		t.Fatalf("got %T", ev)
	}
	if bend.Value != 0 {
		t.Errorf("center bend = %d, want 0", bend.Value)
	}
	if !bytes.Equal(bend.Raw(), []byte{0xE0, 0x00, 0x40}) {
		t.Errorf("raw = %v", bend.Raw())
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	if ev := Parse([]byte{0x90, 60}, 0); ev != nil {
		t.Errorf("expected nil for truncated note on, got %v", ev)
	}
	if ev := Parse(nil, 0); ev != nil {
		t.Errorf("expected nil for empty message, got %v", ev)
	}
}

func TestWireEventAdapter(t *testing.T) {
	events := []wire.MIDIEvent{
		{DeltaFrames: 16, NoteLength: 480, Detune: -3, NoteOffVelocity: 64, Data: []byte{0x91, 60, 100}},
		{DeltaFrames: 0, SysEx: true, Data: []byte{0xF0, 0x7E, 0xF7}},
	}

	wrapped := WrapWire(events)
	if wrapped[0].Type() != EventTypeNoteOn || wrapped[0].Channel() != 1 {
		t.Errorf("note on decoded as %v on channel %d", wrapped[0].Type(), wrapped[0].Channel())
	}
	if wrapped[0].SampleOffset() != 16 {
		t.Errorf("offset = %d, want 16", wrapped[0].SampleOffset())
	}
	if wrapped[1].Type() != EventTypeSystemExclusive {
		t.Errorf("sysex decoded as %v", wrapped[1].Type())
	}

	// The round trip must keep the ABI-level fields the typed events
	// cannot carry.
	back := UnwrapWire(wrapped)
	if !reflect.DeepEqual(back, events) {
		t.Errorf("round trip mismatch:\n  sent %#v\n  got  %#v", events, back)
	}
}

func TestUnwrapWireSynthesisesTypedEvents(t *testing.T) {
	typed := []Event{
		NoteOffEvent{BaseEvent: BaseEvent{EventChannel: 2, Offset: 8}, NoteNumber: 60, Velocity: 40},
	}
	out := UnwrapWire(typed)
	if out[0].DeltaFrames != 8 || !bytes.Equal(out[0].Data, []byte{0x82, 60, 40}) {
		t.Errorf("synthesised event = %#v", out[0])
	}
}

func TestQueueDrainOrdersByOffset(t *testing.T) {
	q := NewEventQueue()
	q.Add(NoteOnEvent{BaseEvent: BaseEvent{Offset: 32}, NoteNumber: 64, Velocity: 100})
	q.Add(NoteOnEvent{BaseEvent: BaseEvent{Offset: 0}, NoteNumber: 60, Velocity: 100})
	q.Add(NoteOffEvent{BaseEvent: BaseEvent{Offset: 16}, NoteNumber: 60})

	events := q.Drain()
	if len(events) != 3 {
		t.Fatalf("drained %d events, want 3", len(events))
	}
	offsets := []int32{events[0].SampleOffset(), events[1].SampleOffset(), events[2].SampleOffset()}
	if offsets[0] != 0 || offsets[1] != 16 || offsets[2] != 32 {
		t.Errorf("offsets = %v, want [0 16 32]", offsets)
	}

	if q.Size() != 0 {
		t.Errorf("queue not empty after drain: %d", q.Size())
	}
	if q.Drain() != nil {
		t.Error("second drain returned events")
	}
}
