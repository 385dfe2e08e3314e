package vst2

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/bridge"
	"github.com/nidefawl/yabridge/pkg/shm"
	"github.com/nidefawl/yabridge/pkg/transport"
	"github.com/nidefawl/yabridge/pkg/wire"
)

// fakeHost is the in-process stand-in for the foreign plugin host: it
// serves the far end of every channel the way the real host process would.
type fakeHost struct {
	t *testing.T

	dispatch *transport.Channel
	params   *transport.Channel
	process  *transport.Channel
	callback *transport.Channel

	shmDir  string
	buffers *shm.Buffer

	parameters map[int32]float32
	chunk      []byte

	dispatchCount atomic.Int64
	processCount  atomic.Int64
	paramPairs    atomic.Int64

	// onDispatch overrides the default dispatch behaviour per test.
	onDispatch func(ev *wire.Event) *wire.EventResult
}

func newFakePair(t *testing.T) (*Bridge, *fakeHost) {
	t.Helper()

	mk := func() (*transport.Channel, *transport.Channel) {
		a, c := net.Pipe()
		t.Cleanup(func() {
			a.Close()
			c.Close()
		})
		return transport.NewChannel("test", a, 0), transport.NewChannel("test", c, 0)
	}

	dispatchN, dispatchF := mk()
	paramsN, paramsF := mk()
	processN, processF := mk()
	callbackN, callbackF := mk()

	shmDir := t.TempDir()
	f := &fakeHost{
		t:          t,
		dispatch:   dispatchF,
		params:     paramsF,
		process:    processF,
		callback:   callbackF,
		shmDir:     shmDir,
		parameters: make(map[int32]float32),
	}

	b := &Bridge{
		logger:       zap.NewNop(),
		hostCallback: func(*AEffect, int32, int32, int64, any, float32) int64 { return 0 },
		dispatchCh:   dispatchN,
		callbackCh:   callbackN,
		paramsCh:     paramsN,
		processCh:    processN,
		shmDir:       shmDir,
		callbackDone: make(chan struct{}),
	}
	b.effect.bridge = b
	b.effect.Magic = Magic
	b.effect.NumInputs = 2
	b.effect.NumOutputs = 2
	go b.runCallbackLoop()
	t.Cleanup(func() { b.Close() })

	go f.serveDispatch()
	go f.serveParameters()
	go f.serveProcess()

	return b, f
}

func (f *fakeHost) serveDispatch() {
	for {
		var ev wire.Event
		if err := f.dispatch.Receive(&ev); err != nil {
			return
		}
		f.dispatchCount.Add(1)

		var result *wire.EventResult
		if f.onDispatch != nil {
			result = f.onDispatch(&ev)
		}
		if result == nil {
			result = f.defaultDispatch(&ev)
		}
		if err := f.dispatch.Send(result); err != nil {
			return
		}
	}
}

func (f *fakeHost) defaultDispatch(ev *wire.Event) *wire.EventResult {
	switch ev.Opcode {
	case OpMainsChanged:
		if _, wants := ev.Payload.(wire.WantsBufferConfig); wants {
			config := shm.ComputeLayout("vst2-fake-shm", []int{2}, []int{2}, 4, 64)
			buf, err := shm.Create(config, f.shmDir)
			if err != nil {
				f.t.Errorf("fake host: creating shm: %v", err)
				return &wire.EventResult{Payload: wire.NoPayload{}}
			}
			f.buffers = buf
			return &wire.EventResult{Payload: &wire.BufferConfigPayload{Config: config}}
		}
		return &wire.EventResult{Payload: wire.NoPayload{}}
	case OpGetChunk:
		return &wire.EventResult{
			ReturnValue: int64(len(f.chunk)),
			Payload:     &wire.ChunkPayload{Data: f.chunk},
		}
	case OpSetChunk:
		if payload, ok := ev.Payload.(*wire.ChunkPayload); ok {
			f.chunk = append([]byte(nil), payload.Data...)
		}
		return &wire.EventResult{ReturnValue: 1, Payload: wire.NoPayload{}}
	default:
		return &wire.EventResult{Payload: wire.NoPayload{}}
	}
}

func (f *fakeHost) serveParameters() {
	for {
		var req ParameterRequest
		if err := f.params.Receive(&req); err != nil {
			return
		}
		var resp ParameterResult
		if req.Value != nil {
			f.parameters[req.Index] = *req.Value
		} else {
			v := f.parameters[req.Index]
			resp.Value = &v
		}
		f.paramPairs.Add(1)
		if err := f.params.Send(&resp); err != nil {
			return
		}
	}
}

// serveProcess is a pass-through effect: every input channel is copied to
// the matching output channel.
func (f *fakeHost) serveProcess() {
	for {
		var req wire.AudioRequest
		if err := f.process.Receive(&req); err != nil {
			return
		}
		f.processCount.Add(1)
		if f.buffers != nil {
			for ch := 0; ch < 2; ch++ {
				copy(f.buffers.OutputChannel32(0, ch), f.buffers.InputChannel32(0, ch))
			}
		}
		if err := f.process.Send(&wire.Ack{}); err != nil {
			return
		}
	}
}

func TestParameterRoundTrip(t *testing.T) {
	b, f := newFakePair(t)

	b.SetParameter(7, 0.25)
	if got := b.GetParameter(7); got != 0.25 {
		t.Errorf("GetParameter(7) = %f, want 0.25", got)
	}
	if pairs := f.paramPairs.Load(); pairs != 2 {
		t.Errorf("wire trace shows %d request/response pairs, want 2", pairs)
	}
}

func TestAudioBlockPassThrough(t *testing.T) {
	b, f := newFakePair(t)

	// Enabling audio playback sets up the shared buffers.
	if ret := b.Dispatch(OpMainsChanged, 0, 1, nil, 0); ret != 0 {
		t.Fatalf("MainsChanged returned %d", ret)
	}
	if b.buffers == nil {
		t.Fatal("audio buffers not configured")
	}

	inputs := [][]float32{make([]float32, 64), make([]float32, 64)}
	outputs := [][]float32{make([]float32, 64), make([]float32, 64)}
	for i := 0; i < 64; i++ {
		inputs[0][i] = 1.0
		inputs[1][i] = -1.0
	}

	b.processReplacing(inputs, outputs, 64)

	for i := 0; i < 64; i++ {
		if outputs[0][i] != 1.0 || outputs[1][i] != -1.0 {
			t.Fatalf("sample %d: got (%f, %f), want (1, -1)", i, outputs[0][i], outputs[1][i])
		}
	}
	if n := f.processCount.Load(); n != 1 {
		t.Errorf("process channel saw %d requests, want 1", n)
	}

	// Offsets must be stable across blocks.
	first := &b.buffers.OutputChannel32(0, 0)[0]
	b.processReplacing(inputs, outputs, 64)
	if &b.buffers.OutputChannel32(0, 0)[0] != first {
		t.Error("shared buffer offsets changed between blocks")
	}
}

func TestChunkSaveRestore(t *testing.T) {
	b, f := newFakePair(t)
	f.chunk = []byte{0xDE, 0xAD, 0xBE, 0xEF}

	var chunk []byte
	ret := b.Dispatch(OpGetChunk, 0, 0, &chunk, 0)
	if ret != 4 {
		t.Errorf("GetChunk returned %d, want 4", ret)
	}
	if string(chunk) != string(f.chunk) {
		t.Errorf("chunk = %x, want deadbeef", chunk)
	}
	// The returned slice aliases the bridge-owned buffer and stays stable
	// until the next dispatch call.
	if &chunk[0] != &b.chunk[0] {
		t.Error("chunk pointer does not alias the bridge-owned buffer")
	}

	f.chunk = nil
	if ret := b.Dispatch(OpSetChunk, 0, 0, []byte{0xDE, 0xAD, 0xBE, 0xEF}, 0); ret != 1 {
		t.Errorf("SetChunk returned %d", ret)
	}
	if string(f.chunk) != "\xde\xad\xbe\xef" {
		t.Errorf("foreign side decoded %x", f.chunk)
	}
}

func TestOpenCopiesLateInitFields(t *testing.T) {
	b, f := newFakePair(t)

	f.onDispatch = func(ev *wire.Event) *wire.EventResult {
		if ev.Opcode != OpOpen {
			return nil
		}
		if _, wants := ev.Payload.(wire.WantsAEffectUpdate); !wants {
			t.Errorf("Open did not request an effect update, payload %T", ev.Payload)
		}
		return &wire.EventResult{Payload: &wire.AEffectPayload{Effect: wire.AEffectData{
			Magic: Magic, NumParams: 11, NumInputs: 2, NumOutputs: 2,
			Flags: FlagCanReplacing | FlagProgramChunks, UniqueID: 0x1337,
		}}}
	}

	b.Dispatch(OpOpen, 0, 0, nil, 0)
	if b.effect.NumParams != 11 || b.effect.UniqueID != 0x1337 {
		t.Errorf("late-init fields not copied: params=%d id=%#x",
			b.effect.NumParams, b.effect.UniqueID)
	}
}

func TestEditIdleDrainsPendingResize(t *testing.T) {
	b, f := newFakePair(t)

	type resize struct {
		width, height int64
	}
	var got []resize
	b.hostCallback = func(_ *AEffect, opcode, index int32, value int64, _ any, _ float32) int64 {
		if opcode == OpMasterSizeWindow {
			got = append(got, resize{int64(index), value})
		}
		return 1
	}

	// The plugin requests a resize through the callback channel.
	var resp wire.EventResult
	err := f.callback.SendAndReceive(
		&wire.Event{Opcode: OpMasterSizeWindow, Index: 640, Value: 480, Payload: wire.NoPayload{}}, &resp)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatal("resize reached the host before EditIdle")
	}

	b.Dispatch(OpEditIdle, 0, 0, nil, 0)
	if len(got) != 1 || got[0].width != 640 || got[0].height != 480 {
		t.Errorf("resize not replayed on EditIdle: %v", got)
	}

	// Replayed exactly once.
	b.Dispatch(OpEditIdle, 0, 0, nil, 0)
	if len(got) != 1 {
		t.Errorf("resize replayed again: %v", got)
	}
}

func TestPluginMIDIFlushedAfterBlock(t *testing.T) {
	b, f := newFakePair(t)

	var received [][]wire.MIDIEvent
	b.hostCallback = func(_ *AEffect, opcode, _ int32, _ int64, data any, _ float32) int64 {
		if opcode == OpMasterProcessEvents {
			received = append(received, data.([]wire.MIDIEvent))
		}
		return 1
	}

	events := []wire.MIDIEvent{{DeltaFrames: 3, Data: []byte{0x90, 60, 100}}}
	var resp wire.EventResult
	err := f.callback.SendAndReceive(
		&wire.Event{Opcode: OpMasterProcessEvents, Payload: &wire.MIDIEventsPayload{Events: events}}, &resp)
	if err != nil {
		t.Fatal(err)
	}
	if resp.ReturnValue != 1 {
		t.Errorf("callback returned %d", resp.ReturnValue)
	}
	if len(received) != 0 {
		t.Fatal("MIDI reached the host outside the audio call")
	}

	b.Dispatch(OpMainsChanged, 0, 1, nil, 0)
	in := [][]float32{make([]float32, 8), make([]float32, 8)}
	out := [][]float32{make([]float32, 8), make([]float32, 8)}
	b.processReplacing(in, out, 8)

	if len(received) != 1 || len(received[0]) != 1 || received[0][0].DeltaFrames != 3 {
		t.Errorf("MIDI not flushed after the block: %v", received)
	}
}

func TestPluginMIDIDrainedInOffsetOrder(t *testing.T) {
	b, f := newFakePair(t)

	var received [][]wire.MIDIEvent
	b.hostCallback = func(_ *AEffect, opcode, _ int32, _ int64, data any, _ float32) int64 {
		if opcode == OpMasterProcessEvents {
			received = append(received, data.([]wire.MIDIEvent))
		}
		return 1
	}

	// Two bundles arrive out of order; the drain merges them sorted by
	// sample offset with the ABI-level fields intact.
	bundles := [][]wire.MIDIEvent{
		{{DeltaFrames: 5, NoteLength: 240, Data: []byte{0x90, 64, 90}}},
		{{DeltaFrames: 1, Data: []byte{0x80, 60, 0}}},
	}
	for _, events := range bundles {
		var resp wire.EventResult
		err := f.callback.SendAndReceive(
			&wire.Event{Opcode: OpMasterProcessEvents, Payload: &wire.MIDIEventsPayload{Events: events}}, &resp)
		if err != nil {
			t.Fatal(err)
		}
	}

	b.Dispatch(OpMainsChanged, 0, 1, nil, 0)
	in := [][]float32{make([]float32, 8), make([]float32, 8)}
	out := [][]float32{make([]float32, 8), make([]float32, 8)}
	b.processReplacing(in, out, 8)

	if len(received) != 1 {
		t.Fatalf("drained in %d callbacks, want 1", len(received))
	}
	events := received[0]
	if len(events) != 2 || events[0].DeltaFrames != 1 || events[1].DeltaFrames != 5 {
		t.Fatalf("events not ordered by offset: %v", events)
	}
	if events[1].NoteLength != 240 {
		t.Errorf("ABI-level field lost in the queue: %v", events[1])
	}
}

func TestHideDAWAnswersLocally(t *testing.T) {
	b, f := newFakePair(t)
	b.config = bridge.Config{HideDAW: true}

	var resp wire.EventResult
	err := f.callback.SendAndReceive(
		&wire.Event{Opcode: OpMasterGetProductString, Payload: wire.WantsString{}}, &resp)
	if err != nil {
		t.Fatal(err)
	}
	payload, ok := resp.Payload.(*wire.StringPayload)
	if !ok || payload.Value != bridge.ProductNameOverride {
		t.Errorf("got %#v, want the product override", resp.Payload)
	}
	if f.dispatchCount.Load() != 0 {
		t.Error("identity callback leaked to the dispatch channel")
	}
}

func TestCanDoCockosAnsweredLocally(t *testing.T) {
	b, f := newFakePair(t)

	if ret := b.Dispatch(OpCanDo, 0, 0, "hasCockosViewAsConfig", 0); ret != -1 {
		t.Errorf("got %d, want -1", ret)
	}
	if f.dispatchCount.Load() != 0 {
		t.Error("locally answered CanDo crossed the wire")
	}

	// Other queries still go through.
	b.Dispatch(OpCanDo, 0, 0, "receiveVstMidiEvent", 0)
	if f.dispatchCount.Load() != 1 {
		t.Error("regular CanDo did not cross the wire")
	}
}

func TestSpeakerArrangementPair(t *testing.T) {
	b, f := newFakePair(t)

	f.onDispatch = func(ev *wire.Event) *wire.EventResult {
		if ev.Opcode != OpGetSpeakerArrangement {
			return nil
		}
		if _, ok := ev.ValuePayload.(*wire.SpeakerArrangementPayload); !ok {
			t.Errorf("input arrangement missing from value slot, got %T", ev.ValuePayload)
		}
		stereo := wire.SpeakerArrangement{Type: 2, Speakers: []int32{1, 2}}
		return &wire.EventResult{
			ReturnValue:  1,
			Payload:      &wire.SpeakerArrangementPayload{Arrangement: stereo},
			ValuePayload: &wire.SpeakerArrangementPayload{Arrangement: stereo},
		}
	}

	pair := &SpeakerArrangementPair{Input: &wire.SpeakerArrangement{}, Output: &wire.SpeakerArrangement{}}
	b.Dispatch(OpGetSpeakerArrangement, 0, 0, pair, 0)
	if pair.Input.Type != 2 || pair.Output.Type != 2 {
		t.Errorf("arrangements not written back: in=%v out=%v", pair.Input, pair.Output)
	}
}

func TestDispatchBeforeInitIsIgnored(t *testing.T) {
	b, f := newFakePair(t)
	b.effect.Magic = 0

	if ret := b.Dispatch(OpGetVendorVersion, 0, 0, nil, 0); ret != 0 {
		t.Errorf("got %d, want 0", ret)
	}
	if f.dispatchCount.Load() != 0 {
		t.Error("early dispatch crossed the wire")
	}
}

func TestTransportFailureSurfacesWithoutDeadlock(t *testing.T) {
	b, _ := newFakePair(t)

	// The foreign process dies between two parameter calls.
	b.paramsCh.Close()

	done := make(chan float32, 1)
	go func() { done <- b.GetParameter(1) }()
	select {
	case v := <-done:
		if v != 0 {
			t.Errorf("failed call returned %f, want 0", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("parameter call deadlocked on a dead peer")
	}

	if err := b.Close(); err != nil {
		t.Logf("teardown reported: %v", err)
	}
}
