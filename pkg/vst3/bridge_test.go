package vst3

import (
	"net"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/shm"
	"github.com/nidefawl/yabridge/pkg/transport"
	"github.com/nidefawl/yabridge/pkg/wire"
)

// foreignObject is the fake plugin object living on the pretend foreign
// side.
type foreignObject struct {
	caps        Capabilities
	state       []byte
	connectedTo *uint64
	notified    []AttributeMessage
}

// fakeForeignHost serves the far end of the control and audio channels.
type fakeForeignHost struct {
	t *testing.T

	control  *transport.Channel
	audio    *transport.Channel
	callback *transport.Channel

	shmDir  string
	buffers *shm.Buffer

	mu      sync.Mutex
	objects map[uint64]*foreignObject

	controlCount int
}

func newFakeBridge(t *testing.T) (*Bridge, *fakeForeignHost) {
	t.Helper()

	mk := func() (*transport.Channel, *transport.Channel) {
		a, c := net.Pipe()
		t.Cleanup(func() {
			a.Close()
			c.Close()
		})
		return transport.NewChannel("test", a, 0), transport.NewChannel("test", c, 0)
	}

	controlN, controlF := mk()
	audioN, audioF := mk()
	callbackN, callbackF := mk()

	shmDir := t.TempDir()
	f := &fakeForeignHost{
		t:        t,
		control:  controlF,
		audio:    audioF,
		callback: callbackF,
		shmDir:   shmDir,
		objects:  make(map[uint64]*foreignObject),
	}

	b := &Bridge{
		logger:       zap.NewNop(),
		registry:     NewRegistry(),
		controlCh:    controlN,
		callbackCh:   callbackN,
		audioCh:      audioN,
		shmDir:       shmDir,
		callbackDone: make(chan struct{}),
	}
	go b.runCallbackLoop()
	t.Cleanup(func() { b.Close() })

	go f.serve(f.control, true)
	go f.serve(f.audio, false)

	return b, f
}

func (f *fakeForeignHost) object(id uint64) *foreignObject {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[id]
}

func (f *fakeForeignHost) serve(ch *transport.Channel, isControl bool) {
	for {
		var env RequestEnvelope
		if err := ch.Receive(&env); err != nil {
			return
		}
		if isControl {
			f.controlCount++
		}
		if err := ch.Send(f.handle(env.Request)); err != nil {
			return
		}
	}
}

func (f *fakeForeignHost) handle(req Request) wire.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch req := req.(type) {
	case *CreateInstance:
		f.objects[req.InstanceID] = &foreignObject{
			caps: CapComponent | CapAudioProcessor | CapEditController | CapConnectionPoint,
		}
		return &CreateInstanceResponse{Result: ResultOK, Capabilities: f.objects[req.InstanceID].caps}
	case *Destruct:
		delete(f.objects, req.InstanceID)
		return &ResultResponse{Result: ResultOK}
	case *SetState:
		f.objects[req.InstanceID].state = append([]byte(nil), req.Data...)
		return &ResultResponse{Result: ResultOK}
	case *GetState:
		return &DataResponse{Result: ResultOK, Data: f.objects[req.InstanceID].state}
	case *Connect:
		f.objects[req.InstanceID].connectedTo = req.Other
		return &ResultResponse{Result: ResultOK}
	case *Notify:
		obj := f.objects[req.InstanceID]
		obj.notified = append(obj.notified, req.Message)
		// Directly connected objects exchange messages entirely on the
		// foreign side.
		if obj.connectedTo != nil {
			if peer := f.objects[*obj.connectedTo]; peer != nil {
				peer.notified = append(peer.notified, req.Message)
			}
		}
		return &ResultResponse{Result: ResultOK}
	case *SetActive:
		if req.State {
			config := shm.ComputeLayout("vst3-fake-shm", []int{2}, []int{2}, 4, 64)
			buf, err := shm.Create(config, f.shmDir)
			if err != nil {
				f.t.Errorf("fake host: creating shm: %v", err)
				return &SetActiveResponse{Result: InternalError}
			}
			f.buffers = buf
			return &SetActiveResponse{Result: ResultOK, BufferConfig: &config}
		}
		return &SetActiveResponse{Result: ResultOK}
	case *Process:
		if f.buffers != nil {
			for ch := 0; ch < 2; ch++ {
				copy(f.buffers.OutputChannel32(0, ch), f.buffers.InputChannel32(0, ch))
			}
		}
		return &ProcessResponse{Result: ResultOK, Output: ProcessOutput{OutputSilenceFlags: []uint64{0}}}
	case *GetParameterCount:
		return &Int32Response{Value: 3}
	case *GetBusCount:
		return &Int32Response{Value: 1}
	case *SetupProcessing, *SetProcessing, *Initialize, *Terminate, *SetComponentHandler:
		return &ResultResponse{Result: ResultOK}
	}
	return &ResultResponse{Result: NotImplemented}
}

func mustCreate(t *testing.T, b *Bridge) *PluginProxy {
	t.Helper()
	p, err := b.CreateInstance(TUID{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCreateInstanceAdvertisesCapabilities(t *testing.T) {
	b, f := newFakeBridge(t)
	p := mustCreate(t, b)

	if p.QueryInterface(CapEditController) != ResultOK {
		t.Error("edit controller capability missing")
	}
	if p.QueryInterface(CapUnitInfo) != NoInterface {
		t.Error("unprobed capability advertised")
	}
	if f.object(p.InstanceID()) == nil {
		t.Error("no foreign object for the new proxy")
	}
}

func TestRegistryBalancedAcrossLifecycles(t *testing.T) {
	b, f := newFakeBridge(t)

	for i := 0; i < 5; i++ {
		p := mustCreate(t, b)
		if b.registry.Count() != 1 {
			t.Fatalf("iteration %d: %d registrations", i, b.registry.Count())
		}
		p.GetParameterCount()
		if refs := p.Release(); refs != 0 {
			t.Fatalf("iteration %d: %d refs after release", i, refs)
		}
	}

	if b.registry.Count() != 0 {
		t.Errorf("%d native registrations at steady state", b.registry.Count())
	}
	f.mu.Lock()
	remaining := len(f.objects)
	f.mu.Unlock()
	if remaining != 0 {
		t.Errorf("%d foreign objects at steady state", remaining)
	}
}

func TestInstanceIDsNeverReused(t *testing.T) {
	b, _ := newFakeBridge(t)

	seen := make(map[uint64]bool)
	for i := 0; i < 4; i++ {
		p := mustCreate(t, b)
		if seen[p.InstanceID()] {
			t.Fatalf("instance id %d reused", p.InstanceID())
		}
		seen[p.InstanceID()] = true
		p.Release()
	}
}

func TestConnectTwoProxiesDirectly(t *testing.T) {
	b, f := newFakeBridge(t)
	a := mustCreate(t, b)
	c := mustCreate(t, b)

	before := f.controlCount
	if result := a.Connect(c); result != ResultOK {
		t.Fatalf("connect failed: %d", result)
	}
	if f.controlCount != before+1 {
		t.Errorf("connect used %d messages, want 1", f.controlCount-before)
	}
	if a.hostConnection != nil {
		t.Error("mirror proxy allocated for a proxy-to-proxy connection")
	}

	obj := f.object(a.InstanceID())
	if obj.connectedTo == nil || *obj.connectedTo != c.InstanceID() {
		t.Fatalf("foreign side not connected by id: %v", obj.connectedTo)
	}

	// A notify between the two connected objects happens entirely on the
	// foreign side.
	before = f.controlCount
	f.handle(&Notify{call: call{a.InstanceID()}, Message: *NewAttributeMessage("ping")})
	if len(f.object(c.InstanceID()).notified) != 1 {
		t.Error("peer object did not receive the foreign-side notify")
	}
	if f.controlCount != before {
		t.Error("foreign-side notify traversed the native side")
	}
}

type recordingConnection struct {
	mu       sync.Mutex
	received []*AttributeMessage
}

func (r *recordingConnection) Notify(m *AttributeMessage) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, m)
	return ResultOK
}

func TestConnectHostObjectRoutesThroughCallback(t *testing.T) {
	b, f := newFakeBridge(t)
	p := mustCreate(t, b)

	host := &recordingConnection{}
	if result := p.Connect(host); result != ResultOK {
		t.Fatalf("connect failed: %d", result)
	}
	obj := f.object(p.InstanceID())
	if obj.connectedTo != nil {
		t.Error("host-object connect carried a peer id")
	}

	// The foreign side forwards a plugin notify over the callback
	// channel; the native side resolves the host object by instance id.
	msg := NewAttributeMessage("midi-learn")
	msg.SetInt("cc", 74)
	var resp ResultResponse
	err := f.callback.SendAndReceive(&CallbackEnvelope{Callback: &HostNotify{
		source:  source{p.InstanceID()},
		Message: *msg,
	}}, &resp)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Result != ResultOK {
		t.Fatalf("notify returned %d", resp.Result)
	}

	host.mu.Lock()
	defer host.mu.Unlock()
	if len(host.received) != 1 || host.received[0].ID != "midi-learn" {
		t.Fatalf("host connection saw %v", host.received)
	}
	if cc, ok := host.received[0].GetInt("cc"); !ok || cc != 74 {
		t.Errorf("attribute lost in transit: %v", host.received[0].Ints)
	}
}

func TestForeignMessageObjectsAreDropped(t *testing.T) {
	b, _ := newFakeBridge(t)
	p := mustCreate(t, b)

	type foreignMessage struct{}
	if result := p.Notify(&foreignMessage{}); result != NotImplemented {
		t.Errorf("foreign message returned %d, want NotImplemented", result)
	}
}

func TestStateReadBack(t *testing.T) {
	b, _ := newFakeBridge(t)
	p := mustCreate(t, b)

	saved := NewMemoryStream([]byte{1, 2, 3, 4, 5})
	if result := p.SetState(saved); result != ResultOK {
		t.Fatalf("SetState returned %d", result)
	}

	restored := NewMemoryStream(nil)
	if result := p.GetState(restored); result != ResultOK {
		t.Fatalf("GetState returned %d", result)
	}
	if string(restored.Bytes()) != "\x01\x02\x03\x04\x05" {
		t.Errorf("state round-trip produced %v", restored.Bytes())
	}
}

func TestComponentHandlerCallbacks(t *testing.T) {
	b, f := newFakeBridge(t)
	p := mustCreate(t, b)

	handler := &recordingHandler{}
	if result := p.SetComponentHandler(handler); result != ResultOK {
		t.Fatalf("SetComponentHandler returned %d", result)
	}

	var resp ResultResponse
	err := f.callback.SendAndReceive(&CallbackEnvelope{Callback: &PerformEdit{
		source: source{p.InstanceID()}, ParamID: 3, Value: 0.5,
	}}, &resp)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Result != ResultOK {
		t.Fatalf("callback returned %d", resp.Result)
	}
	if len(handler.edits) != 1 || handler.edits[0] != 3 {
		t.Errorf("handler saw edits %v", handler.edits)
	}

	// Callbacks for ids with no live proxy are refused, not crashed on.
	err = f.callback.SendAndReceive(&CallbackEnvelope{Callback: &PerformEdit{
		source: source{999},
	}}, &resp)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Result != InvalidArgument {
		t.Errorf("unknown instance returned %d", resp.Result)
	}
}

type recordingHandler struct {
	mu    sync.Mutex
	edits []uint32
}

func (h *recordingHandler) BeginEdit(uint32) Result { return ResultOK }
func (h *recordingHandler) PerformEdit(id uint32, _ float64) Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.edits = append(h.edits, id)
	return ResultOK
}
func (h *recordingHandler) EndEdit(uint32) Result          { return ResultOK }
func (h *recordingHandler) RestartComponent(int32) Result { return ResultOK }

func TestProcessBlockThroughSharedBuffer(t *testing.T) {
	b, _ := newFakeBridge(t)
	p := mustCreate(t, b)

	p.SetupProcessing(ProcessSetup{SymbolicSampleSize: SampleSize32, MaxSamplesPerBlock: 64, SampleRate: 48000})
	if result := p.SetActive(true); result != ResultOK {
		t.Fatalf("SetActive returned %d", result)
	}
	if b.buffers == nil {
		t.Fatal("audio buffers not mapped after activation")
	}

	inputs := [][][]float32{{make([]float32, 64), make([]float32, 64)}}
	outputs := [][][]float32{{make([]float32, 64), make([]float32, 64)}}
	for i := 0; i < 64; i++ {
		inputs[0][0][i] = 1.0
		inputs[0][1][i] = -1.0
	}

	out, result := p.Process32(&ProcessData{
		SymbolicSampleSize: SampleSize32,
		NumSamples:         64,
		Context:            &ProcessContext{SampleRate: 48000, Tempo: 120},
	}, inputs, outputs)
	if result != ResultOK {
		t.Fatalf("process returned %d", result)
	}
	for i := 0; i < 64; i++ {
		if outputs[0][0][i] != 1.0 || outputs[0][1][i] != -1.0 {
			t.Fatalf("sample %d: got (%f, %f)", i, outputs[0][0][i], outputs[0][1][i])
		}
	}
	if len(out.OutputSilenceFlags) != 1 {
		t.Errorf("silence flags missing: %v", out.OutputSilenceFlags)
	}
}

func TestCallbackLoopStopsOnClose(t *testing.T) {
	b, _ := newFakeBridge(t)

	done := make(chan struct{})
	go func() {
		b.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on the callback loop")
	}
}
