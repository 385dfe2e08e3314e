package vst3

import (
	"time"

	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/bridge"
	"github.com/nidefawl/yabridge/pkg/realtime"
	"github.com/nidefawl/yabridge/pkg/shm"
	"github.com/nidefawl/yabridge/pkg/transport"
	"github.com/nidefawl/yabridge/pkg/wire"
)

// ComponentHandler is the host-owned automation sink the plugin calls
// back into.
type ComponentHandler interface {
	BeginEdit(paramID uint32) Result
	PerformEdit(paramID uint32, value float64) Result
	EndEdit(paramID uint32) Result
	RestartComponent(flags int32) Result
}

// HostApplication is the host context passed to Initialize.
type HostApplication interface {
	GetName() (string, Result)
}

// ConnectionPoint is a host-owned connection object placed between two
// plugin objects.
type ConnectionPoint interface {
	Notify(message *AttributeMessage) Result
}

// PlugFrame is the host object that handles editor resize requests.
type PlugFrame interface {
	ResizeView(view *PlugViewProxy, rect ViewRect) Result
}

// Bridge proxies one modern-ABI plugin module. Control traffic runs on the
// control channel, the audio path on its own hot channel, and
// plugin-to-host callbacks arrive on the callback channel where they are
// resolved through the instance registry.
type Bridge struct {
	chassis *bridge.Chassis
	logger  *zap.Logger
	config  bridge.Config

	registry *Registry

	controlCh  *transport.Channel
	callbackCh *transport.Channel
	audioCh    *transport.Channel

	buffers *shm.Buffer
	shmDir  string

	lastPrioritySync time.Time

	callbackDone chan struct{}
}

// New attaches a modern bridge to a started chassis and completes the
// version exchange on the control channel.
func New(chassis *bridge.Chassis) (*Bridge, error) {
	b := &Bridge{
		chassis:      chassis,
		logger:       chassis.Logger.Named("vst3"),
		config:       chassis.Config,
		registry:     NewRegistry(),
		controlCh:    chassis.Group.Channel(transport.SocketControl),
		callbackCh:   chassis.Group.Channel(transport.SocketPluginCallback),
		audioCh:      chassis.Group.Channel(transport.SocketAudioProcessor),
		shmDir:       shm.DefaultDir,
		callbackDone: make(chan struct{}),
	}

	if err := chassis.ExchangeVersions(chassis.Group.Channel(transport.SocketHostControl)); err != nil {
		return nil, err
	}
	if err := b.controlCh.Send(&bridge.ConfigMessage{Config: b.config}); err != nil {
		return nil, err
	}

	go b.runCallbackLoop()
	return b, nil
}

// send performs one request/response pair on the control channel.
func (b *Bridge) send(req Request, resp wire.Message) error {
	return b.controlCh.SendAndReceive(&RequestEnvelope{Request: req}, resp)
}

// sendAudio performs one request/response pair on the audio channel.
func (b *Bridge) sendAudio(req Request, resp wire.Message) error {
	return b.audioCh.SendAndReceive(&RequestEnvelope{Request: req}, resp)
}

// sendResult is the shortcut for requests whose response is a bare result
// code; transport failures surface as InternalError to the call in
// progress.
func (b *Bridge) sendResult(req Request) Result {
	var resp ResultResponse
	if err := b.send(req, &resp); err != nil {
		b.logger.Error("control round-trip failed", zap.Error(err))
		return InternalError
	}
	return resp.Result
}

func (b *Bridge) sendAudioResult(req Request) Result {
	var resp ResultResponse
	if err := b.sendAudio(req, &resp); err != nil {
		b.logger.Error("audio-processor round-trip failed", zap.Error(err))
		return InternalError
	}
	return resp.Result
}

// CreateInstance instantiates the plugin class on the foreign side, probes
// it for every supported interface, and returns the native proxy
// advertising exactly those capabilities. The returned proxy has one
// reference owned by the caller.
func (b *Bridge) CreateInstance(cid TUID) (*PluginProxy, error) {
	id := b.registry.AllocateID()

	var resp CreateInstanceResponse
	if err := b.send(&CreateInstance{InstanceID: id, CID: cid}, &resp); err != nil {
		return nil, err
	}
	if resp.Result != ResultOK {
		return nil, &ABIError{Result: resp.Result}
	}

	p := &PluginProxy{
		bridge:       b,
		instanceID:   id,
		capabilities: resp.Capabilities,
		refs:         1,
	}
	b.registry.Register(p)
	return p, nil
}

// Registry exposes the instance table, used by callback routing and
// lifecycle checks.
func (b *Bridge) Registry() *Registry { return b.registry }

func (b *Bridge) runCallbackLoop() {
	defer close(b.callbackDone)

	if err := realtime.SetPriority(true, realtime.DefaultPriority); err != nil {
		b.logger.Debug("callback thread stays on normal scheduling", zap.Error(err))
	}

	transport.Serve(b.callbackCh,
		func() *CallbackEnvelope { return &CallbackEnvelope{} },
		func(env *CallbackEnvelope, onMainThread bool) wire.Message {
			return b.handleCallback(env.Callback)
		}, b.logger)
}

func (b *Bridge) handleCallback(cb Callback) wire.Message {
	switch cb := cb.(type) {
	case *BeginEdit:
		if h := b.componentHandlerFor(cb.SourceID); h != nil {
			return &ResultResponse{Result: h.BeginEdit(cb.ParamID)}
		}
	case *PerformEdit:
		if h := b.componentHandlerFor(cb.SourceID); h != nil {
			return &ResultResponse{Result: h.PerformEdit(cb.ParamID, cb.Value)}
		}
	case *EndEdit:
		if h := b.componentHandlerFor(cb.SourceID); h != nil {
			return &ResultResponse{Result: h.EndEdit(cb.ParamID)}
		}
	case *RestartComponent:
		if h := b.componentHandlerFor(cb.SourceID); h != nil {
			return &ResultResponse{Result: h.RestartComponent(cb.Flags)}
		}
	case *HostNotify:
		if p := b.registry.Get(cb.SourceID); p != nil && p.hostConnection != nil {
			return &ResultResponse{Result: p.hostConnection.Notify(&cb.Message)}
		}
	case *ResizeView:
		if p := b.registry.Get(cb.SourceID); p != nil {
			if view := p.lastCreatedView; view != nil && view.frame != nil {
				return &ResultResponse{Result: view.frame.ResizeView(view, cb.Rect)}
			}
		}
	case *HostGetName:
		if b.config.HideDAW {
			b.logger.Info("plugin asked for the host's name, reporting the override instead")
			return &StringResponse{Result: ResultOK, Value: bridge.ProductNameOverride}
		}
		if p := b.registry.Get(cb.SourceID); p != nil && p.hostContext != nil {
			name, result := p.hostContext.GetName()
			return &StringResponse{Result: result, Value: name}
		}
		return &StringResponse{Result: NotInitialized}
	}

	b.logger.Warn("callback for an unknown instance, dropping")
	return &ResultResponse{Result: InvalidArgument}
}

func (b *Bridge) componentHandlerFor(id uint64) ComponentHandler {
	if p := b.registry.Get(id); p != nil {
		return p.componentHandler
	}
	return nil
}

// configureBuffers maps the audio segment the foreign side laid out when
// processing was activated.
func (b *Bridge) configureBuffers(config wire.BufferConfig) error {
	if b.buffers == nil {
		buf, err := shm.Open(config, b.shmDir)
		if err != nil {
			return err
		}
		b.buffers = buf
		return nil
	}
	return b.buffers.Resize(config)
}

// audioRequest assembles the shared-buffer side of a process call,
// piggy-backing the realtime priority at the sync interval.
func (b *Bridge) audioRequest(numSamples int32, doublePrecision bool) wire.AudioRequest {
	req := wire.AudioRequest{
		SampleFrames:    numSamples,
		DoublePrecision: doublePrecision,
	}
	if now := time.Now(); now.Sub(b.lastPrioritySync) > realtime.PrioritySyncInterval {
		if priority, ok := realtime.Priority(); ok {
			p := int32(priority)
			req.NewRealtimePriority = &p
		}
		b.lastPrioritySync = now
	}
	return req
}

// Close tears the module down. Proxies still alive at this point can no
// longer reach the foreign side; their calls fail with InternalError.
func (b *Bridge) Close() error {
	var err error
	if b.chassis != nil {
		err = b.chassis.Close()
	} else {
		err = b.callbackCh.Close()
	}
	<-b.callbackDone
	if b.buffers != nil {
		if err2 := b.buffers.Close(); err == nil {
			err = err2
		}
		b.buffers = nil
	}
	return err
}

// ABIError wraps a foreign-side failure result.
type ABIError struct{ Result Result }

func (e *ABIError) Error() string { return "vst3: foreign host returned failure" }
