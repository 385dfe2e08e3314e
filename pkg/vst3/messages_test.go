package vst3

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/nidefawl/yabridge/pkg/wire"
)

func TestRequestEnvelopeRoundTrip(t *testing.T) {
	id := uint64(2)
	tests := []Request{
		&CreateInstance{InstanceID: 1, CID: TUID{0xAB, 0xCD}},
		&Destruct{call{7}},
		&SetState{call: call{1}, Data: []byte{9, 8, 7}},
		&GetBusInfo{call: call{1}, MediaType: MediaTypeAudio, Direction: BusDirectionInput, Index: 0},
		&SetupProcessing{call: call{1}, Setup: ProcessSetup{SymbolicSampleSize: SampleSize64, MaxSamplesPerBlock: 512, SampleRate: 44100}},
		&SetParamNormalized{paramValueCall{call: call{3}, ParamID: 12, Value: 0.75}},
		&Connect{call: call{1}, Other: &id},
		&Connect{call: call{1}},
		&Process{
			call: call{4},
			Data: wire.AudioRequest{SampleFrames: 128},
			ProcessData: ProcessData{
				NumSamples: 128,
				InputParamChanges: []ParamChange{
					{ID: 5, Points: []ParamPoint{{SampleOffset: 0, Value: 0.1}, {SampleOffset: 64, Value: 0.9}}},
				},
				InputEvents: []Event{
					{Type: EventNoteOn, Channel: 1, Pitch: 60, Velocity: 0.8},
				},
				Context: &ProcessContext{Tempo: 120, TimeSigNumerator: 4, TimeSigDenominator: 4},
			},
		},
		&GetProgramName{listCall{call: call{2}, ListID: 1, ProgramIndex: 3}},
		&ViewOnSize{viewCall: viewCall{9}, Rect: ViewRect{Right: 800, Bottom: 600}},
	}

	for _, req := range tests {
		frame := wire.Encode(&RequestEnvelope{Request: req})
		var env RequestEnvelope
		if err := wire.Decode(frame, &env); err != nil {
			t.Fatalf("%T: decode failed: %v", req, err)
		}
		if !reflect.DeepEqual(env.Request, req) {
			t.Errorf("%T round trip mismatch:\n  sent %#v\n  got  %#v", req, req, env.Request)
		}
	}
}

func TestRequestEnvelopeUnknownTag(t *testing.T) {
	e := wire.NewEncoder()
	e.Tag(0xFE)
	var env RequestEnvelope
	var cerr *wire.CodecError
	if err := wire.Decode(e.Bytes(), &env); !errors.As(err, &cerr) {
		t.Fatalf("expected CodecError, got %v", err)
	}
}

func TestAttributeMessageRoundTrip(t *testing.T) {
	msg := NewAttributeMessage("sync")
	msg.SetInt("position", 42)
	msg.SetFloat("tempo", 128.5)
	msg.SetString("section", "chorus")
	msg.SetBinary("blob", []byte{0, 1, 2})

	frame := wire.Encode(&Notify{call: call{1}, Message: *msg})
	var decoded Notify
	if err := wire.Decode(frame, &decoded); err != nil {
		t.Fatal(err)
	}

	got := decoded.Message
	if got.ID != "sync" {
		t.Errorf("id = %q", got.ID)
	}
	if v, ok := got.GetInt("position"); !ok || v != 42 {
		t.Errorf("int attribute = %d, %v", v, ok)
	}
	if v, ok := got.GetFloat("tempo"); !ok || v != 128.5 {
		t.Errorf("float attribute = %f, %v", v, ok)
	}
	if v, ok := got.GetString("section"); !ok || v != "chorus" {
		t.Errorf("string attribute = %q, %v", v, ok)
	}
	if v, ok := got.GetBinary("blob"); !ok || len(v) != 3 {
		t.Errorf("binary attribute = %v, %v", v, ok)
	}
}

func TestCallbackEnvelopeRoundTrip(t *testing.T) {
	tests := []Callback{
		&BeginEdit{source: source{1}, ParamID: 4},
		&PerformEdit{source: source{1}, ParamID: 4, Value: 0.3},
		&RestartComponent{source: source{2}, Flags: 1},
		&ResizeView{source: source{3}, Rect: ViewRect{Right: 1024, Bottom: 768}},
		&HostGetName{source{5}},
	}
	for _, cb := range tests {
		frame := wire.Encode(&CallbackEnvelope{Callback: cb})
		var env CallbackEnvelope
		if err := wire.Decode(frame, &env); err != nil {
			t.Fatalf("%T: decode failed: %v", cb, err)
		}
		if !reflect.DeepEqual(env.Callback, cb) {
			t.Errorf("%T round trip mismatch", cb)
		}
	}
}

func TestMemoryStream(t *testing.T) {
	s := NewMemoryStream(nil)
	if err := WriteAll(s, []byte("hello state")); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Seek(0, SeekSet); err != nil {
		t.Fatal(err)
	}
	data, err := ReadAll(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello state" {
		t.Errorf("read back %q", data)
	}

	pos, err := s.Seek(-5, SeekEnd)
	if err != nil || pos != 6 {
		t.Fatalf("seek end: pos=%d err=%v", pos, err)
	}
	buf := make([]byte, 16)
	n, _ := s.Read(buf)
	if string(buf[:n]) != "state" {
		t.Errorf("tail read %q", buf[:n])
	}
	if _, err := s.Read(buf); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF at end, got %v", err)
	}
}
