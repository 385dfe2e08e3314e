package vst3

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// PluginProxy stands in for one foreign plugin object. It is owned
// exclusively by the host through the ABI's reference counting; the bridge
// holds only non-owning back-references resolved through the registry.
// Releasing the last reference sends Destruct and unregisters the id.
type PluginProxy struct {
	bridge       *Bridge
	instanceID   uint64
	capabilities Capabilities
	refs         int32

	// Host-owned callback objects, addressable by this instance's id.
	// Never owned by the proxy; the host controls their lifetime.
	componentHandler ComponentHandler
	hostContext      HostApplication
	hostConnection   ConnectionPoint

	// lastCreatedView routes IPlugFrame resize callbacks to the view the
	// host most recently created. Unmanaged: the host reference-counts
	// the view itself.
	lastCreatedView *PlugViewProxy

	setup ProcessSetup
}

// InstanceID returns the proxy's registry id.
func (p *PluginProxy) InstanceID() uint64 { return p.instanceID }

// Capabilities returns the interface set discovered at construction.
func (p *PluginProxy) Capabilities() Capabilities { return p.capabilities }

// QueryInterface reports whether the proxy advertises the interface set.
func (p *PluginProxy) QueryInterface(want Capabilities) Result {
	if p.capabilities.Has(want) {
		return ResultOK
	}
	return NoInterface
}

// AddRef increments the host's reference count.
func (p *PluginProxy) AddRef() int32 {
	return atomic.AddInt32(&p.refs, 1)
}

// Release decrements the reference count; dropping the last reference
// destroys the foreign object and unregisters the proxy.
func (p *PluginProxy) Release() int32 {
	refs := atomic.AddInt32(&p.refs, -1)
	if refs == 0 {
		p.bridge.sendResult(&Destruct{call{p.instanceID}})
		p.bridge.registry.Unregister(p.instanceID)
	}
	return refs
}

// IPluginBase

// Initialize stores the host context and hands the foreign side a proxy id
// it can call back through.
func (p *PluginProxy) Initialize(context HostApplication) Result {
	if context == nil {
		p.bridge.logger.Warn("null host context passed to initialize")
		return InvalidArgument
	}
	p.hostContext = context
	return p.bridge.sendResult(&Initialize{call{p.instanceID}})
}

func (p *PluginProxy) Terminate() Result {
	return p.bridge.sendResult(&Terminate{call{p.instanceID}})
}

// IComponent

func (p *PluginProxy) GetControllerClassID() (TUID, Result) {
	var resp GetControllerClassIDResponse
	if err := p.bridge.send(&GetControllerClassID{call{p.instanceID}}, &resp); err != nil {
		return TUID{}, InternalError
	}
	return resp.CID, resp.Result
}

func (p *PluginProxy) SetIOMode(mode int32) Result {
	return p.bridge.sendResult(&SetIOMode{call: call{p.instanceID}, Mode: mode})
}

func (p *PluginProxy) GetBusCount(mediaType, direction int32) int32 {
	var resp Int32Response
	if err := p.bridge.send(&GetBusCount{call: call{p.instanceID}, MediaType: mediaType, Direction: direction}, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) GetBusInfo(mediaType, direction, index int32) (BusInfo, Result) {
	var resp GetBusInfoResponse
	req := &GetBusInfo{call: call{p.instanceID}, MediaType: mediaType, Direction: direction, Index: index}
	if err := p.bridge.send(req, &resp); err != nil {
		return BusInfo{}, InternalError
	}
	return resp.Bus, resp.Result
}

func (p *PluginProxy) GetRoutingInfo(in RoutingInfo) (RoutingInfo, RoutingInfo, Result) {
	var resp GetRoutingInfoResponse
	if err := p.bridge.send(&GetRoutingInfo{call: call{p.instanceID}, In: in}, &resp); err != nil {
		return in, RoutingInfo{}, InternalError
	}
	return resp.In, resp.Out, resp.Result
}

func (p *PluginProxy) ActivateBus(mediaType, direction, index int32, state bool) Result {
	req := &ActivateBus{call: call{p.instanceID}, MediaType: mediaType, Direction: direction, Index: index, State: state}
	return p.bridge.sendResult(req)
}

// SetActive toggles the component. Activation after SetupProcessing is the
// point where the foreign side lays out the shared audio buffer and
// returns its descriptor.
func (p *PluginProxy) SetActive(state bool) Result {
	var resp SetActiveResponse
	if err := p.bridge.send(&SetActive{call: call{p.instanceID}, State: state}, &resp); err != nil {
		return InternalError
	}
	if resp.BufferConfig != nil {
		if err := p.bridge.configureBuffers(*resp.BufferConfig); err != nil {
			p.bridge.logger.Error("configuring audio buffers failed", zap.Error(err))
			return InternalError
		}
	}
	return resp.Result
}

// SetState sends the host stream's full contents to the plugin. Shared
// between IComponent and IEditController, which declare the same method.
func (p *PluginProxy) SetState(state Stream) Result {
	data, err := ReadAll(state)
	if err != nil {
		p.bridge.logger.Warn("reading host state stream failed", zap.Error(err))
		return InvalidArgument
	}
	return p.bridge.sendResult(&SetState{call: call{p.instanceID}, Data: data})
}

// GetState reads the plugin's full state back as bytes and writes them
// into the host's stream.
func (p *PluginProxy) GetState(state Stream) Result {
	var resp DataResponse
	if err := p.bridge.send(&GetState{call{p.instanceID}}, &resp); err != nil {
		return InternalError
	}
	if resp.Result == ResultOK {
		if err := WriteAll(state, resp.Data); err != nil {
			p.bridge.logger.Warn("writing into host state stream failed", zap.Error(err))
			return InternalError
		}
	}
	return resp.Result
}

// IAudioProcessor

func (p *PluginProxy) SetBusArrangements(inputs, outputs []uint64) Result {
	req := &SetBusArrangements{call: call{p.instanceID}, Inputs: inputs, Outputs: outputs}
	return p.bridge.sendAudioResult(req)
}

func (p *PluginProxy) GetBusArrangement(direction, index int32) (uint64, Result) {
	var resp GetBusArrangementResponse
	req := &GetBusArrangement{call: call{p.instanceID}, Direction: direction, Index: index}
	if err := p.bridge.sendAudio(req, &resp); err != nil {
		return 0, InternalError
	}
	return resp.Arrangement, resp.Result
}

func (p *PluginProxy) CanProcessSampleSize(symbolicSampleSize int32) Result {
	return p.bridge.sendAudioResult(&CanProcessSampleSize{call: call{p.instanceID}, SymbolicSampleSize: symbolicSampleSize})
}

func (p *PluginProxy) GetLatencySamples() uint32 {
	var resp Uint32Response
	if err := p.bridge.sendAudio(&GetLatencySamples{call{p.instanceID}}, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) SetupProcessing(setup ProcessSetup) Result {
	p.setup = setup
	return p.bridge.sendAudioResult(&SetupProcessing{call: call{p.instanceID}, Setup: setup})
}

func (p *PluginProxy) SetProcessing(state bool) Result {
	return p.bridge.sendAudioResult(&SetProcessing{call: call{p.instanceID}, State: state})
}

func (p *PluginProxy) GetTailSamples() uint32 {
	var resp Uint32Response
	if err := p.bridge.sendAudio(&GetTailSamples{call{p.instanceID}}, &resp); err != nil {
		return 0
	}
	return resp.Value
}

// IEditController

func (p *PluginProxy) SetComponentState(state Stream) Result {
	data, err := ReadAll(state)
	if err != nil {
		return InvalidArgument
	}
	return p.bridge.sendResult(&SetComponentState{call: call{p.instanceID}, Data: data})
}

func (p *PluginProxy) GetParameterCount() int32 {
	var resp Int32Response
	if err := p.bridge.send(&GetParameterCount{call{p.instanceID}}, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) GetParameterInfo(index int32) (ParameterInfo, Result) {
	var resp GetParameterInfoResponse
	if err := p.bridge.send(&GetParameterInfo{call: call{p.instanceID}, Index: index}, &resp); err != nil {
		return ParameterInfo{}, InternalError
	}
	return resp.Info, resp.Result
}

func (p *PluginProxy) GetParamStringByValue(paramID uint32, value float64) (string, Result) {
	var resp StringResponse
	req := &GetParamStringByValue{call: call{p.instanceID}, ParamID: paramID, Value: value}
	if err := p.bridge.send(req, &resp); err != nil {
		return "", InternalError
	}
	return resp.Value, resp.Result
}

func (p *PluginProxy) GetParamValueByString(paramID uint32, value string) (float64, Result) {
	var resp GetParamValueByStringResponse
	req := &GetParamValueByString{call: call{p.instanceID}, ParamID: paramID, Value: value}
	if err := p.bridge.send(req, &resp); err != nil {
		return 0, InternalError
	}
	return resp.Value, resp.Result
}

func (p *PluginProxy) NormalizedParamToPlain(paramID uint32, normalized float64) float64 {
	var resp Float64Response
	req := &NormalizedParamToPlain{paramValueCall{call: call{p.instanceID}, ParamID: paramID, Value: normalized}}
	if err := p.bridge.send(req, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) PlainParamToNormalized(paramID uint32, plain float64) float64 {
	var resp Float64Response
	req := &PlainParamToNormalized{paramValueCall{call: call{p.instanceID}, ParamID: paramID, Value: plain}}
	if err := p.bridge.send(req, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) GetParamNormalized(paramID uint32) float64 {
	var resp Float64Response
	if err := p.bridge.send(&GetParamNormalized{call: call{p.instanceID}, ParamID: paramID}, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) SetParamNormalized(paramID uint32, value float64) Result {
	return p.bridge.sendResult(&SetParamNormalized{paramValueCall{call: call{p.instanceID}, ParamID: paramID, Value: value}})
}

// SetComponentHandler stores the host's handler and tells the foreign side
// callbacks may now flow, addressed by this instance's id.
func (p *PluginProxy) SetComponentHandler(handler ComponentHandler) Result {
	if handler == nil {
		p.bridge.logger.Warn("null component handler passed to setComponentHandler")
		return InvalidArgument
	}
	p.componentHandler = handler
	return p.bridge.sendResult(&SetComponentHandler{call{p.instanceID}})
}

// CreateView returns a fresh plug-view proxy, or nil when the plugin has
// no editor. The host manages the view's lifetime through its reference
// counting; the proxy keeps only an unmanaged pointer for resize routing.
func (p *PluginProxy) CreateView(name string) *PlugViewProxy {
	var resp CreateViewResponse
	if err := p.bridge.send(&CreateView{call: call{p.instanceID}, Name: name}, &resp); err != nil {
		return nil
	}
	if resp.ViewID == nil {
		return nil
	}
	view := &PlugViewProxy{bridge: p.bridge, owner: p, viewID: *resp.ViewID, refs: 1}
	p.lastCreatedView = view
	return view
}

// IEditController2

func (p *PluginProxy) SetKnobMode(mode int32) Result {
	return p.bridge.sendResult(&SetKnobMode{call: call{p.instanceID}, Mode: mode})
}

func (p *PluginProxy) OpenHelp(onlyCheck bool) Result {
	return p.bridge.sendResult(&OpenHelp{call: call{p.instanceID}, OnlyCheck: onlyCheck})
}

func (p *PluginProxy) OpenAboutBox(onlyCheck bool) Result {
	return p.bridge.sendResult(&OpenAboutBox{call: call{p.instanceID}, OnlyCheck: onlyCheck})
}

// IConnectionPoint

// Connect joins this object to other. When other is one of our own
// proxies the two foreign objects are connected directly by id and no
// mirror proxy is allocated; later notifies between them never cross the
// native side. Anything else is a host-placed connection object, mirrored
// on the foreign side and routed back through the callback channel.
func (p *PluginProxy) Connect(other any) Result {
	if otherProxy, ok := other.(*PluginProxy); ok {
		id := otherProxy.instanceID
		return p.bridge.sendResult(&Connect{call: call{p.instanceID}, Other: &id})
	}
	cp, ok := other.(ConnectionPoint)
	if !ok {
		return InvalidArgument
	}
	p.hostConnection = cp
	return p.bridge.sendResult(&Connect{call: call{p.instanceID}})
}

func (p *PluginProxy) Disconnect(other any) Result {
	if otherProxy, ok := other.(*PluginProxy); ok {
		id := otherProxy.instanceID
		return p.bridge.sendResult(&Disconnect{call: call{p.instanceID}, Other: &id})
	}
	result := p.bridge.sendResult(&Disconnect{call: call{p.instanceID}})
	p.hostConnection = nil
	return result
}

// Notify relays a message from the host's connection proxy to the foreign
// object. Only messages from our own factory can be serialised; the ABI's
// attribute list has no enumeration primitive, so foreign message objects
// are dropped.
func (p *PluginProxy) Notify(message any) Result {
	msg, ok := message.(*AttributeMessage)
	if !ok {
		p.bridge.logger.Warn("unknown message type passed to notify, ignoring")
		return NotImplemented
	}
	return p.bridge.sendResult(&Notify{call: call{p.instanceID}, Message: *msg})
}

// IUnitInfo

func (p *PluginProxy) GetUnitCount() int32 {
	var resp Int32Response
	if err := p.bridge.send(&GetUnitCount{call{p.instanceID}}, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) GetUnitInfo(index int32) (UnitInfo, Result) {
	var resp GetUnitInfoResponse
	if err := p.bridge.send(&GetUnitInfo{call: call{p.instanceID}, Index: index}, &resp); err != nil {
		return UnitInfo{}, InternalError
	}
	return resp.Info, resp.Result
}

func (p *PluginProxy) GetProgramListCount() int32 {
	var resp Int32Response
	if err := p.bridge.send(&GetProgramListCount{call{p.instanceID}}, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) GetProgramListInfo(index int32) (ProgramListInfo, Result) {
	var resp GetProgramListInfoResponse
	if err := p.bridge.send(&GetProgramListInfo{call: call{p.instanceID}, Index: index}, &resp); err != nil {
		return ProgramListInfo{}, InternalError
	}
	return resp.Info, resp.Result
}

func (p *PluginProxy) GetProgramName(listID, programIndex int32) (string, Result) {
	var resp StringResponse
	req := &GetProgramName{listCall{call: call{p.instanceID}, ListID: listID, ProgramIndex: programIndex}}
	if err := p.bridge.send(req, &resp); err != nil {
		return "", InternalError
	}
	return resp.Value, resp.Result
}

func (p *PluginProxy) GetSelectedUnit() int32 {
	var resp Int32Response
	if err := p.bridge.send(&GetSelectedUnit{call{p.instanceID}}, &resp); err != nil {
		return 0
	}
	return resp.Value
}

func (p *PluginProxy) SelectUnit(unitID int32) Result {
	return p.bridge.sendResult(&SelectUnit{call: call{p.instanceID}, UnitID: unitID})
}

// IProgramListData / IUnitData

func (p *PluginProxy) ProgramDataSupported(listID int32) Result {
	return p.bridge.sendResult(&ProgramDataSupported{call: call{p.instanceID}, ListID: listID})
}

func (p *PluginProxy) GetProgramData(listID, programIndex int32, data Stream) Result {
	var resp DataResponse
	req := &GetProgramData{listCall{call: call{p.instanceID}, ListID: listID, ProgramIndex: programIndex}}
	if err := p.bridge.send(req, &resp); err != nil {
		return InternalError
	}
	if resp.Result == ResultOK {
		if err := WriteAll(data, resp.Data); err != nil {
			return InternalError
		}
	}
	return resp.Result
}

func (p *PluginProxy) SetProgramData(listID, programIndex int32, data Stream) Result {
	bytes, err := ReadAll(data)
	if err != nil {
		return InvalidArgument
	}
	req := &SetProgramData{
		listCall: listCall{call: call{p.instanceID}, ListID: listID, ProgramIndex: programIndex},
		Data:     bytes,
	}
	return p.bridge.sendResult(req)
}

func (p *PluginProxy) UnitDataSupported(unitID int32) Result {
	return p.bridge.sendResult(&UnitDataSupported{call: call{p.instanceID}, UnitID: unitID})
}

func (p *PluginProxy) GetUnitData(unitID int32, data Stream) Result {
	var resp DataResponse
	if err := p.bridge.send(&GetUnitData{call: call{p.instanceID}, UnitID: unitID}, &resp); err != nil {
		return InternalError
	}
	if resp.Result == ResultOK {
		if err := WriteAll(data, resp.Data); err != nil {
			return InternalError
		}
	}
	return resp.Result
}

func (p *PluginProxy) SetUnitData(unitID int32, data Stream) Result {
	bytes, err := ReadAll(data)
	if err != nil {
		return InvalidArgument
	}
	return p.bridge.sendResult(&SetUnitData{call: call{p.instanceID}, UnitID: unitID, Data: bytes})
}
