package vst2

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/bridge"
	"github.com/nidefawl/yabridge/pkg/midi"
	"github.com/nidefawl/yabridge/pkg/shm"
	"github.com/nidefawl/yabridge/pkg/transport"
	"github.com/nidefawl/yabridge/pkg/wire"
)

func zapError(err error) zap.Field { return zap.Error(err) }

// Bridge proxies one legacy-ABI plugin instance. The host talks to the
// AEffect struct returned by Effect; every entry point crosses to the
// foreign host over the instance's socket group.
type Bridge struct {
	chassis      *bridge.Chassis
	logger       *zap.Logger
	config       bridge.Config
	hostCallback HostCallback

	dispatchCh *transport.Channel
	callbackCh *transport.Channel
	paramsCh   *transport.Channel
	processCh  *transport.Channel

	effect AEffect

	// paramsMu serialises request/response pairs on the parameters
	// channel so getParameter and setParameter cannot interleave.
	paramsMu sync.Mutex

	// chunk backs the raw pointer handed to the host by GetChunk; it must
	// stay valid until the next call on the dispatch channel.
	chunk []byte
	rect  wire.Rect

	buffers *shm.Buffer
	shmDir  string

	// Plugin-to-host MIDI events have to reach the host during the audio
	// call, so the callback thread stashes them here and the audio path
	// drains them, ordered by sample offset, after the plugin finishes
	// the block.
	pendingMIDI midi.EventQueue
	resizeMu    sync.Mutex
	pendingSize *[2]int32

	lastPrioritySync time.Time

	callbackDone chan struct{}
	closeOnce    sync.Once
	closeErr     error
}

// New attaches a legacy bridge to a started chassis. It connects the
// channels, starts the callback handler thread, reads the real plugin's
// initial effect struct, sends the configuration, and patches the
// host-visible struct's function pointers.
func New(chassis *bridge.Chassis, hostCallback HostCallback) (*Bridge, error) {
	b := &Bridge{
		chassis:      chassis,
		logger:       chassis.Logger.Named("vst2"),
		config:       chassis.Config,
		hostCallback: hostCallback,
		dispatchCh:   chassis.Group.Channel(transport.SocketDispatch),
		callbackCh:   chassis.Group.Channel(transport.SocketCallback),
		paramsCh:     chassis.Group.Channel(transport.SocketParameters),
		processCh:    chassis.Group.Channel(transport.SocketProcess),
		shmDir:       shm.DefaultDir,
		callbackDone: make(chan struct{}),
	}

	// Host callbacks must be handled before the plugin finishes loading,
	// since most plugins query the host during initialization.
	go b.runCallbackLoop()

	// The first frame on the dispatch channel carries the loaded plugin's
	// effect struct and the foreign host's version.
	var startup startupMessage
	if err := b.dispatchCh.Receive(&startup); err != nil {
		b.stopCallbackLoop()
		return nil, err
	}
	transport.WarnOnVersionMismatch(startup.Version, b.logger)

	// Completing the handshake: the configuration goes back so the
	// foreign side can apply compatibility behaviour before the host's
	// first dispatch.
	if err := b.dispatchCh.Send(&bridge.ConfigMessage{Config: b.config}); err != nil {
		b.stopCallbackLoop()
		return nil, err
	}

	b.updateEffect(&startup.Effect)
	b.effect.bridge = b
	b.effect.Dispatcher = dispatchThunk
	b.effect.Process = processThunk
	b.effect.ProcessReplacing = processReplacingThunk
	b.effect.ProcessDoubleReplacing = processDoubleReplacingThunk
	b.effect.SetParameter = setParameterThunk
	b.effect.GetParameter = getParameterThunk

	return b, nil
}

func (b *Bridge) stopCallbackLoop() {
	b.callbackCh.Close()
	<-b.callbackDone
}

// Effect returns the host-visible effect struct.
func (b *Bridge) Effect() *AEffect { return &b.effect }

// Dispatch is the plugin dispatcher entry point.
func (b *Bridge) Dispatch(opcode, index int32, value int64, data any, option float32) int64 {
	// Some hosts dispatch before construction has finished; dropping the
	// event is the only safe answer.
	if b.effect.Magic == 0 {
		b.logger.Warn("event dispatched before the plugin finished initializing, ignoring",
			zap.Int32("opcode", opcode))
		return 0
	}

	switch opcode {
	case OpClose:
		return b.dispatchClose(index, value, option)
	case OpEditIdle:
		// Not forwarded: the foreign host drives the plugin's idle from
		// its own timer. This entry point is where pending resize
		// callbacks replay, since hosts expect them on the GUI thread.
		b.drainPendingResize()
		return 0
	case OpCanDo:
		if query, ok := data.(string); ok && query == "hasCockosViewAsConfig" {
			// The alternative GUI handle this enables cannot cross the
			// compatibility layer.
			b.logger.Info("host asked for libSwell GUI support, which is unavailable here")
			return -1
		}
	}

	return b.sendDispatch(opcode, index, value, data, option)
}

func (b *Bridge) sendDispatch(opcode, index int32, value int64, data any, option float32) int64 {
	ev, err := eventForDispatch(opcode, index, value, data, option)
	if err != nil {
		b.logger.Error("translating dispatcher event failed", zapError(err))
		return 0
	}

	var result wire.EventResult
	if err := b.dispatchCh.SendAndReceive(ev, &result); err != nil {
		b.logger.Error("dispatch round-trip failed",
			zap.Int32("opcode", opcode), zapError(err))
		return 0
	}

	b.applyDispatchResult(opcode, data, &result)
	return result.ReturnValue
}

// dispatchClose forwards Close, captures the plugin's return value, and
// only then tears the bridge down. A plugin that crashes during its own
// shutdown surfaces as a transport error and is ignored.
func (b *Bridge) dispatchClose(index int32, value int64, option float32) int64 {
	ev := &wire.Event{Opcode: OpClose, Index: index, Value: value, Option: option, Payload: wire.NoPayload{}}

	var returnValue int64
	var result wire.EventResult
	if err := b.dispatchCh.SendAndReceive(ev, &result); err != nil {
		b.logger.Info("plugin crashed during shutdown, ignoring", zapError(err))
	} else {
		returnValue = result.ReturnValue
	}

	if err := b.Close(); err != nil {
		b.logger.Debug("teardown finished with errors", zapError(err))
	}
	return returnValue
}

// GetParameter proxies the parameter read entry point.
func (b *Bridge) GetParameter(index int32) float32 {
	req := ParameterRequest{Index: index}
	var resp ParameterResult

	b.paramsMu.Lock()
	err := b.paramsCh.SendAndReceive(&req, &resp)
	b.paramsMu.Unlock()

	if err != nil {
		b.logger.Error("getParameter failed", zap.Int32("index", index), zapError(err))
		return 0
	}
	if resp.Value == nil {
		return 0
	}
	return *resp.Value
}

// SetParameter proxies the parameter write entry point.
func (b *Bridge) SetParameter(index int32, value float32) {
	req := ParameterRequest{Index: index, Value: &value}
	var resp ParameterResult

	b.paramsMu.Lock()
	err := b.paramsCh.SendAndReceive(&req, &resp)
	b.paramsMu.Unlock()

	if err != nil {
		b.logger.Error("setParameter failed", zap.Int32("index", index), zapError(err))
	}
}

// drainPendingResize replays the last plugin-requested window resize on
// the host's GUI thread.
func (b *Bridge) drainPendingResize() {
	b.resizeMu.Lock()
	pending := b.pendingSize
	b.pendingSize = nil
	b.resizeMu.Unlock()

	if pending != nil {
		b.hostCallback(&b.effect, OpMasterSizeWindow, pending[0], int64(pending[1]), nil, 0)
	}
}

// Close tears the instance down. Safe to call multiple times and with the
// foreign host already gone.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		var err error
		if b.chassis != nil {
			err = b.chassis.Close()
		} else {
			err = b.callbackCh.Close()
		}
		<-b.callbackDone
		if b.buffers != nil {
			err2 := b.buffers.Close()
			if err == nil {
				err = err2
			}
			b.buffers = nil
		}
		b.closeErr = err
	})
	return b.closeErr
}
