package wire

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func roundTrip(t *testing.T, in, out Message) {
	t.Helper()
	frame := Encode(in)
	if err := Decode(frame, out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n  sent %#v\n  got  %#v", in, out)
	}
}

func TestEventRoundTrip(t *testing.T) {
	level := int32(2)
	prio := int32(5)

	tests := []struct {
		name string
		in   Message
		out  Message
	}{
		{
			name: "chunk request",
			in:   &Event{Opcode: 23, Payload: WantsChunkBuffer{}},
			out:  &Event{},
		},
		{
			name: "set chunk",
			in: &Event{
				Opcode:  24,
				Value:   4,
				Payload: &ChunkPayload{Data: []byte{0xDE, 0xAD, 0xBE, 0xEF}},
			},
			out: &Event{},
		},
		{
			name: "midi events",
			in: &Event{
				Opcode: 25,
				Payload: &MIDIEventsPayload{Events: []MIDIEvent{
					{DeltaFrames: 0, Data: []byte{0x90, 60, 100}},
					{DeltaFrames: 32, Data: []byte{0x80, 60, 0}},
					{SysEx: true, Data: []byte{0xF0, 0x7E, 0xF7}},
				}},
			},
			out: &Event{},
		},
		{
			name: "speaker arrangement with value payload",
			in: &Event{
				Opcode: 42,
				Payload: &SpeakerArrangementPayload{Arrangement: SpeakerArrangement{
					Type: 1, Speakers: []int32{1, 2},
				}},
				ValuePayload: &SpeakerArrangementPayload{Arrangement: SpeakerArrangement{
					Type: 1, Speakers: []int32{1, 2},
				}},
			},
			out: &Event{},
		},
		{
			name: "string reply",
			in:   &EventResult{ReturnValue: 1, Payload: &StringPayload{Value: "Get yabridge'd"}},
			out:  &EventResult{},
		},
		{
			name: "aeffect update",
			in: &EventResult{
				ReturnValue: 1,
				Payload: &AEffectPayload{Effect: AEffectData{
					Magic: 0x56737450, NumParams: 3, NumInputs: 2, NumOutputs: 2, UniqueID: 1234,
				}},
			},
			out: &EventResult{},
		},
		{
			name: "audio request full",
			in: &AudioRequest{
				SampleFrames:        64,
				DoublePrecision:     true,
				TimeInfo:            &TimeInfo{SampleRate: 48000, Tempo: 120, Flags: -1},
				ProcessLevel:        &level,
				NewRealtimePriority: &prio,
			},
			out: &AudioRequest{},
		},
		{
			name: "audio request bare",
			in:   &AudioRequest{SampleFrames: 512},
			out:  &AudioRequest{},
		},
		{
			name: "buffer config",
			in: &BufferConfig{
				Name:          "yabridge-shm-1",
				InputOffsets:  [][]uint32{{0, 256}},
				OutputOffsets: [][]uint32{{512, 768}},
				ElementSize:   4,
				BlockSize:     64,
			},
			out: &BufferConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roundTrip(t, tt.in, tt.out)
		})
	}
}

func TestDecodeUnknownDiscriminant(t *testing.T) {
	e := NewEncoder()
	e.Int32(1)
	e.Int32(0)
	e.Int64(0)
	e.Float32(0)
	e.Tag(0xFF)

	var ev Event
	err := Decode(e.Bytes(), &ev)
	var cerr *CodecError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CodecError, got %v", err)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	frame := append(Encode(&Ack{}), 0x00)
	var ack Ack
	var cerr *CodecError
	if err := Decode(frame, &ack); !errors.As(err, &cerr) {
		t.Fatalf("expected CodecError for trailing bytes, got %v", err)
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	e := NewEncoder()
	e.Blob([]byte{0xFF, 0xFE})

	d := NewDecoder(e.Bytes())
	var cerr *CodecError
	if _, err := d.String(); !errors.As(err, &cerr) {
		t.Fatalf("expected CodecError for invalid UTF-8, got %v", err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello plugin")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFrame(&buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestFrameSizeCap(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, make([]byte, 128)); err != nil {
		t.Fatal(err)
	}
	var cerr *CodecError
	if _, err := ReadFrame(&buf, 64); !errors.As(err, &cerr) {
		t.Fatalf("expected CodecError for oversized frame, got %v", err)
	}
}
