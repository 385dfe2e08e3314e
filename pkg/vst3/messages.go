package vst3

import "github.com/nidefawl/yabridge/pkg/wire"

// Request is one variant of the control channel's message family. The
// envelope's discriminant selects the handler on the foreign side; every
// request carries the instance id of the proxy it addresses, and each
// request variant has a strictly shaped response.
type Request interface {
	wire.Message
	requestTag() uint8
}

// Message family discriminants. Stable on the wire; append only.
const (
	tagCreateInstance uint8 = iota + 1
	tagDestruct
	tagInitialize
	tagTerminate
	tagSetState
	tagGetState

	tagGetControllerClassID
	tagSetIOMode
	tagGetBusCount
	tagGetBusInfo
	tagGetRoutingInfo
	tagActivateBus
	tagSetActive

	tagSetBusArrangements
	tagGetBusArrangement
	tagCanProcessSampleSize
	tagGetLatencySamples
	tagSetupProcessing
	tagSetProcessing
	tagProcess
	tagGetTailSamples

	tagSetComponentState
	tagGetParameterCount
	tagGetParameterInfo
	tagGetParamStringByValue
	tagGetParamValueByString
	tagNormalizedParamToPlain
	tagPlainParamToNormalized
	tagGetParamNormalized
	tagSetParamNormalized
	tagSetComponentHandler
	tagCreateView

	tagConnect
	tagDisconnect
	tagNotify

	tagGetUnitCount
	tagGetUnitInfo
	tagGetProgramListCount
	tagGetProgramListInfo
	tagGetProgramName
	tagGetSelectedUnit
	tagSelectUnit

	tagProgramDataSupported
	tagGetProgramData
	tagSetProgramData
	tagUnitDataSupported
	tagGetUnitData
	tagSetUnitData

	tagSetKnobMode
	tagOpenHelp
	tagOpenAboutBox
)

// EncodeRequest wraps a request in its discriminant envelope.
func EncodeRequest(req Request) []byte {
	e := wire.NewEncoder()
	e.Tag(req.requestTag())
	req.MarshalWire(e)
	return e.Bytes()
}

// RequestEnvelope decodes any control-channel request; the foreign side's
// dispatcher receives through one of these.
type RequestEnvelope struct {
	Request Request
}

func (env *RequestEnvelope) MarshalWire(e *wire.Encoder) {
	e.Tag(env.Request.requestTag())
	env.Request.MarshalWire(e)
}

func (env *RequestEnvelope) UnmarshalWire(d *wire.Decoder) error {
	tag, err := d.Tag()
	if err != nil {
		return err
	}
	req := newRequest(tag)
	if req == nil {
		return &wire.CodecError{Op: "decode", Detail: "unknown request discriminant"}
	}
	if err := req.UnmarshalWire(d); err != nil {
		return err
	}
	env.Request = req
	return nil
}

func newRequest(tag uint8) Request {
	switch tag {
	case tagCreateInstance:
		return &CreateInstance{}
	case tagDestruct:
		return &Destruct{}
	case tagInitialize:
		return &Initialize{}
	case tagTerminate:
		return &Terminate{}
	case tagSetState:
		return &SetState{}
	case tagGetState:
		return &GetState{}
	case tagGetControllerClassID:
		return &GetControllerClassID{}
	case tagSetIOMode:
		return &SetIOMode{}
	case tagGetBusCount:
		return &GetBusCount{}
	case tagGetBusInfo:
		return &GetBusInfo{}
	case tagGetRoutingInfo:
		return &GetRoutingInfo{}
	case tagActivateBus:
		return &ActivateBus{}
	case tagSetActive:
		return &SetActive{}
	case tagSetBusArrangements:
		return &SetBusArrangements{}
	case tagGetBusArrangement:
		return &GetBusArrangement{}
	case tagCanProcessSampleSize:
		return &CanProcessSampleSize{}
	case tagGetLatencySamples:
		return &GetLatencySamples{}
	case tagSetupProcessing:
		return &SetupProcessing{}
	case tagSetProcessing:
		return &SetProcessing{}
	case tagProcess:
		return &Process{}
	case tagGetTailSamples:
		return &GetTailSamples{}
	case tagSetComponentState:
		return &SetComponentState{}
	case tagGetParameterCount:
		return &GetParameterCount{}
	case tagGetParameterInfo:
		return &GetParameterInfo{}
	case tagGetParamStringByValue:
		return &GetParamStringByValue{}
	case tagGetParamValueByString:
		return &GetParamValueByString{}
	case tagNormalizedParamToPlain:
		return &NormalizedParamToPlain{}
	case tagPlainParamToNormalized:
		return &PlainParamToNormalized{}
	case tagGetParamNormalized:
		return &GetParamNormalized{}
	case tagSetParamNormalized:
		return &SetParamNormalized{}
	case tagSetComponentHandler:
		return &SetComponentHandler{}
	case tagCreateView:
		return &CreateView{}
	case tagConnect:
		return &Connect{}
	case tagDisconnect:
		return &Disconnect{}
	case tagNotify:
		return &Notify{}
	case tagGetUnitCount:
		return &GetUnitCount{}
	case tagGetUnitInfo:
		return &GetUnitInfo{}
	case tagGetProgramListCount:
		return &GetProgramListCount{}
	case tagGetProgramListInfo:
		return &GetProgramListInfo{}
	case tagGetProgramName:
		return &GetProgramName{}
	case tagGetSelectedUnit:
		return &GetSelectedUnit{}
	case tagSelectUnit:
		return &SelectUnit{}
	case tagProgramDataSupported:
		return &ProgramDataSupported{}
	case tagGetProgramData:
		return &GetProgramData{}
	case tagSetProgramData:
		return &SetProgramData{}
	case tagUnitDataSupported:
		return &UnitDataSupported{}
	case tagGetUnitData:
		return &GetUnitData{}
	case tagSetUnitData:
		return &SetUnitData{}
	case tagSetKnobMode:
		return &SetKnobMode{}
	case tagOpenHelp:
		return &OpenHelp{}
	case tagOpenAboutBox:
		return &OpenAboutBox{}
	case tagViewAttached:
		return &ViewAttached{}
	case tagViewRemoved:
		return &ViewRemoved{}
	case tagViewGetSize:
		return &ViewGetSize{}
	case tagViewOnSize:
		return &ViewOnSize{}
	case tagViewCanResize:
		return &ViewCanResize{}
	case tagViewDestruct:
		return &ViewDestruct{}
	}
	return nil
}

// Shared response shapes.

// ResultResponse answers requests whose only output is the ABI result.
type ResultResponse struct{ Result Result }

func (r *ResultResponse) MarshalWire(e *wire.Encoder) { e.Int32(int32(r.Result)) }
func (r *ResultResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	r.Result = Result(v)
	return err
}

// Int32Response answers plain count queries.
type Int32Response struct{ Value int32 }

func (r *Int32Response) MarshalWire(e *wire.Encoder) { e.Int32(r.Value) }
func (r *Int32Response) UnmarshalWire(d *wire.Decoder) error {
	var err error
	r.Value, err = d.Int32()
	return err
}

// Uint32Response answers latency and tail queries.
type Uint32Response struct{ Value uint32 }

func (r *Uint32Response) MarshalWire(e *wire.Encoder) { e.Uint32(r.Value) }
func (r *Uint32Response) UnmarshalWire(d *wire.Decoder) error {
	var err error
	r.Value, err = d.Uint32()
	return err
}

// Float64Response answers parameter value conversions.
type Float64Response struct{ Value float64 }

func (r *Float64Response) MarshalWire(e *wire.Encoder) { e.Float64(r.Value) }
func (r *Float64Response) UnmarshalWire(d *wire.Decoder) error {
	var err error
	r.Value, err = d.Float64()
	return err
}

// DataResponse answers state and program-data reads.
type DataResponse struct {
	Result Result
	Data   []byte
}

func (r *DataResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	e.Blob(r.Data)
}

func (r *DataResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	r.Data, err = d.Blob()
	return err
}

// StringResponse answers name queries.
type StringResponse struct {
	Result Result
	Value  string
}

func (r *StringResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	e.String(r.Value)
}

func (r *StringResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	r.Value, err = d.String()
	return err
}

// call is the instance-id header every request starts with.
type call struct{ InstanceID uint64 }

func (c *call) MarshalWire(e *wire.Encoder) { e.Uint64(c.InstanceID) }
func (c *call) UnmarshalWire(d *wire.Decoder) error {
	var err error
	c.InstanceID, err = d.Uint64()
	return err
}

// CreateInstance asks the foreign host to instantiate the class under the
// id the native side allocated, and probe it for every supported
// interface.
type CreateInstance struct {
	InstanceID uint64
	CID        TUID
}

func (m *CreateInstance) requestTag() uint8 { return tagCreateInstance }
func (m *CreateInstance) MarshalWire(e *wire.Encoder) {
	e.Uint64(m.InstanceID)
	e.Bytes16(m.CID)
}
func (m *CreateInstance) UnmarshalWire(d *wire.Decoder) error {
	var err error
	if m.InstanceID, err = d.Uint64(); err != nil {
		return err
	}
	cid, err := d.Bytes16()
	m.CID = TUID(cid)
	return err
}

// CreateInstanceResponse returns the capability bitmap the proxy will
// advertise: the interfaces the foreign side found on the real object.
type CreateInstanceResponse struct {
	Result       Result
	Capabilities Capabilities
}

func (r *CreateInstanceResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	e.Uint32(uint32(r.Capabilities))
}

func (r *CreateInstanceResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	caps, err := d.Uint32()
	r.Capabilities = Capabilities(caps)
	return err
}

// Destruct releases the foreign object when the host drops its last
// reference to the proxy.
type Destruct struct{ call }

func (m *Destruct) requestTag() uint8 { return tagDestruct }

// Initialize passes the host context; the foreign side gets a proxy it can
// call back through, addressed by this instance id.
type Initialize struct{ call }

func (m *Initialize) requestTag() uint8 { return tagInitialize }

type Terminate struct{ call }

func (m *Terminate) requestTag() uint8 { return tagTerminate }

// SetState carries the host stream's full contents.
type SetState struct {
	call
	Data []byte
}

func (m *SetState) requestTag() uint8 { return tagSetState }
func (m *SetState) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Blob(m.Data)
}
func (m *SetState) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Data, err = d.Blob()
	return err
}

// GetState reads the plugin's full state stream back as bytes.
type GetState struct{ call }

func (m *GetState) requestTag() uint8 { return tagGetState }

type GetControllerClassID struct{ call }

func (m *GetControllerClassID) requestTag() uint8 { return tagGetControllerClassID }

// GetControllerClassIDResponse returns the edit controller's class id.
type GetControllerClassIDResponse struct {
	Result Result
	CID    TUID
}

func (r *GetControllerClassIDResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	e.Bytes16(r.CID)
}

func (r *GetControllerClassIDResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	cid, err := d.Bytes16()
	r.CID = TUID(cid)
	return err
}

type SetIOMode struct {
	call
	Mode int32
}

func (m *SetIOMode) requestTag() uint8 { return tagSetIOMode }
func (m *SetIOMode) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.Mode)
}
func (m *SetIOMode) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Mode, err = d.Int32()
	return err
}

type GetBusCount struct {
	call
	MediaType int32
	Direction int32
}

func (m *GetBusCount) requestTag() uint8 { return tagGetBusCount }
func (m *GetBusCount) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.MediaType)
	e.Int32(m.Direction)
}
func (m *GetBusCount) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.MediaType, err = d.Int32(); err != nil {
		return err
	}
	m.Direction, err = d.Int32()
	return err
}

type GetBusInfo struct {
	call
	MediaType int32
	Direction int32
	Index     int32
}

func (m *GetBusInfo) requestTag() uint8 { return tagGetBusInfo }
func (m *GetBusInfo) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.MediaType)
	e.Int32(m.Direction)
	e.Int32(m.Index)
}
func (m *GetBusInfo) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.MediaType, err = d.Int32(); err != nil {
		return err
	}
	if m.Direction, err = d.Int32(); err != nil {
		return err
	}
	m.Index, err = d.Int32()
	return err
}

type GetBusInfoResponse struct {
	Result Result
	Bus    BusInfo
}

func (r *GetBusInfoResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	marshalBusInfo(e, &r.Bus)
}

func (r *GetBusInfoResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	return unmarshalBusInfo(d, &r.Bus)
}

type GetRoutingInfo struct {
	call
	In RoutingInfo
}

func (m *GetRoutingInfo) requestTag() uint8 { return tagGetRoutingInfo }
func (m *GetRoutingInfo) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	marshalRoutingInfo(e, &m.In)
}
func (m *GetRoutingInfo) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	return unmarshalRoutingInfo(d, &m.In)
}

type GetRoutingInfoResponse struct {
	Result Result
	In     RoutingInfo
	Out    RoutingInfo
}

func (r *GetRoutingInfoResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	marshalRoutingInfo(e, &r.In)
	marshalRoutingInfo(e, &r.Out)
}

func (r *GetRoutingInfoResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	if err := unmarshalRoutingInfo(d, &r.In); err != nil {
		return err
	}
	return unmarshalRoutingInfo(d, &r.Out)
}

type ActivateBus struct {
	call
	MediaType int32
	Direction int32
	Index     int32
	State     bool
}

func (m *ActivateBus) requestTag() uint8 { return tagActivateBus }
func (m *ActivateBus) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.MediaType)
	e.Int32(m.Direction)
	e.Int32(m.Index)
	e.Bool(m.State)
}
func (m *ActivateBus) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.MediaType, err = d.Int32(); err != nil {
		return err
	}
	if m.Direction, err = d.Int32(); err != nil {
		return err
	}
	if m.Index, err = d.Int32(); err != nil {
		return err
	}
	m.State, err = d.Bool()
	return err
}

type SetActive struct {
	call
	State bool
}

func (m *SetActive) requestTag() uint8 { return tagSetActive }
func (m *SetActive) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Bool(m.State)
}
func (m *SetActive) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.State, err = d.Bool()
	return err
}

// SetActiveResponse optionally carries a fresh audio buffer layout when
// activation changed the bus configuration.
type SetActiveResponse struct {
	Result       Result
	BufferConfig *wire.BufferConfig
}

func (r *SetActiveResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	e.Option(r.BufferConfig != nil)
	if r.BufferConfig != nil {
		r.BufferConfig.MarshalWire(e)
	}
}

func (r *SetActiveResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	present, err := d.Option()
	if err != nil {
		return err
	}
	r.BufferConfig = nil
	if present {
		r.BufferConfig = new(wire.BufferConfig)
		return r.BufferConfig.UnmarshalWire(d)
	}
	return nil
}

// SetBusArrangements carries speaker arrangement masks per bus.
type SetBusArrangements struct {
	call
	Inputs  []uint64
	Outputs []uint64
}

func (m *SetBusArrangements) requestTag() uint8 { return tagSetBusArrangements }
func (m *SetBusArrangements) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Uint32(uint32(len(m.Inputs)))
	for _, v := range m.Inputs {
		e.Uint64(v)
	}
	e.Uint32(uint32(len(m.Outputs)))
	for _, v := range m.Outputs {
		e.Uint64(v)
	}
}
func (m *SetBusArrangements) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	read := func() ([]uint64, error) {
		n, err := d.Uint32()
		if err != nil {
			return nil, err
		}
		out := make([]uint64, n)
		for i := range out {
			if out[i], err = d.Uint64(); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	var err error
	if m.Inputs, err = read(); err != nil {
		return err
	}
	m.Outputs, err = read()
	return err
}

type GetBusArrangement struct {
	call
	Direction int32
	Index     int32
}

func (m *GetBusArrangement) requestTag() uint8 { return tagGetBusArrangement }
func (m *GetBusArrangement) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.Direction)
	e.Int32(m.Index)
}
func (m *GetBusArrangement) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.Direction, err = d.Int32(); err != nil {
		return err
	}
	m.Index, err = d.Int32()
	return err
}

type GetBusArrangementResponse struct {
	Result      Result
	Arrangement uint64
}

func (r *GetBusArrangementResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	e.Uint64(r.Arrangement)
}

func (r *GetBusArrangementResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	r.Arrangement, err = d.Uint64()
	return err
}

type CanProcessSampleSize struct {
	call
	SymbolicSampleSize int32
}

func (m *CanProcessSampleSize) requestTag() uint8 { return tagCanProcessSampleSize }
func (m *CanProcessSampleSize) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.SymbolicSampleSize)
}
func (m *CanProcessSampleSize) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.SymbolicSampleSize, err = d.Int32()
	return err
}

type GetLatencySamples struct{ call }

func (m *GetLatencySamples) requestTag() uint8 { return tagGetLatencySamples }

type SetupProcessing struct {
	call
	Setup ProcessSetup
}

func (m *SetupProcessing) requestTag() uint8 { return tagSetupProcessing }
func (m *SetupProcessing) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	marshalProcessSetup(e, &m.Setup)
}
func (m *SetupProcessing) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	return unmarshalProcessSetup(d, &m.Setup)
}

type SetProcessing struct {
	call
	State bool
}

func (m *SetProcessing) requestTag() uint8 { return tagSetProcessing }
func (m *SetProcessing) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Bool(m.State)
}
func (m *SetProcessing) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.State, err = d.Bool()
	return err
}

// Process is the audio-path request; samples travel in the shared buffer.
type Process struct {
	call
	Data        wire.AudioRequest
	ProcessData ProcessData
}

func (m *Process) requestTag() uint8 { return tagProcess }
func (m *Process) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	m.Data.MarshalWire(e)
	marshalProcessData(e, &m.ProcessData)
}
func (m *Process) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	if err := m.Data.UnmarshalWire(d); err != nil {
		return err
	}
	return unmarshalProcessData(d, &m.ProcessData)
}

type ProcessResponse struct {
	Result Result
	Output ProcessOutput
}

func (r *ProcessResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	marshalProcessOutput(e, &r.Output)
}

func (r *ProcessResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	return unmarshalProcessOutput(d, &r.Output)
}

type GetTailSamples struct{ call }

func (m *GetTailSamples) requestTag() uint8 { return tagGetTailSamples }

type SetComponentState struct {
	call
	Data []byte
}

func (m *SetComponentState) requestTag() uint8 { return tagSetComponentState }
func (m *SetComponentState) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Blob(m.Data)
}
func (m *SetComponentState) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Data, err = d.Blob()
	return err
}

type GetParameterCount struct{ call }

func (m *GetParameterCount) requestTag() uint8 { return tagGetParameterCount }

type GetParameterInfo struct {
	call
	Index int32
}

func (m *GetParameterInfo) requestTag() uint8 { return tagGetParameterInfo }
func (m *GetParameterInfo) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.Index)
}
func (m *GetParameterInfo) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Index, err = d.Int32()
	return err
}

type GetParameterInfoResponse struct {
	Result Result
	Info   ParameterInfo
}

func (r *GetParameterInfoResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	marshalParameterInfo(e, &r.Info)
}

func (r *GetParameterInfoResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	return unmarshalParameterInfo(d, &r.Info)
}

type GetParamStringByValue struct {
	call
	ParamID uint32
	Value   float64
}

func (m *GetParamStringByValue) requestTag() uint8 { return tagGetParamStringByValue }
func (m *GetParamStringByValue) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Uint32(m.ParamID)
	e.Float64(m.Value)
}
func (m *GetParamStringByValue) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.ParamID, err = d.Uint32(); err != nil {
		return err
	}
	m.Value, err = d.Float64()
	return err
}

type GetParamValueByString struct {
	call
	ParamID uint32
	Value   string
}

func (m *GetParamValueByString) requestTag() uint8 { return tagGetParamValueByString }
func (m *GetParamValueByString) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Uint32(m.ParamID)
	e.String(m.Value)
}
func (m *GetParamValueByString) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.ParamID, err = d.Uint32(); err != nil {
		return err
	}
	m.Value, err = d.String()
	return err
}

type GetParamValueByStringResponse struct {
	Result Result
	Value  float64
}

func (r *GetParamValueByStringResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	e.Float64(r.Value)
}

func (r *GetParamValueByStringResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	r.Value, err = d.Float64()
	return err
}

// paramValueCall is the shared shape of the parameter conversion requests.
type paramValueCall struct {
	call
	ParamID uint32
	Value   float64
}

func (m *paramValueCall) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Uint32(m.ParamID)
	e.Float64(m.Value)
}

func (m *paramValueCall) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.ParamID, err = d.Uint32(); err != nil {
		return err
	}
	m.Value, err = d.Float64()
	return err
}

type NormalizedParamToPlain struct{ paramValueCall }

func (m *NormalizedParamToPlain) requestTag() uint8 { return tagNormalizedParamToPlain }

type PlainParamToNormalized struct{ paramValueCall }

func (m *PlainParamToNormalized) requestTag() uint8 { return tagPlainParamToNormalized }

type GetParamNormalized struct {
	call
	ParamID uint32
}

func (m *GetParamNormalized) requestTag() uint8 { return tagGetParamNormalized }
func (m *GetParamNormalized) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Uint32(m.ParamID)
}
func (m *GetParamNormalized) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.ParamID, err = d.Uint32()
	return err
}

type SetParamNormalized struct{ paramValueCall }

func (m *SetParamNormalized) requestTag() uint8 { return tagSetParamNormalized }

// SetComponentHandler tells the foreign side the host installed a
// component handler it can call back through, addressed by instance id.
type SetComponentHandler struct{ call }

func (m *SetComponentHandler) requestTag() uint8 { return tagSetComponentHandler }

type CreateView struct {
	call
	Name string
}

func (m *CreateView) requestTag() uint8 { return tagCreateView }
func (m *CreateView) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.String(m.Name)
}
func (m *CreateView) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Name, err = d.String()
	return err
}

// CreateViewResponse returns the new view's instance id, or nothing when
// the plugin has no editor.
type CreateViewResponse struct {
	ViewID *uint64
}

func (r *CreateViewResponse) MarshalWire(e *wire.Encoder) {
	e.Option(r.ViewID != nil)
	if r.ViewID != nil {
		e.Uint64(*r.ViewID)
	}
}

func (r *CreateViewResponse) UnmarshalWire(d *wire.Decoder) error {
	present, err := d.Option()
	if err != nil {
		return err
	}
	r.ViewID = nil
	if present {
		v, err := d.Uint64()
		if err != nil {
			return err
		}
		r.ViewID = &v
	}
	return nil
}

// Connect joins two connection points. A set Other id connects two of our
// own proxies directly on the foreign side; a nil Other tells the foreign
// side to route through the host's opaque connection object via the
// callback channel.
type Connect struct {
	call
	Other *uint64
}

func (m *Connect) requestTag() uint8 { return tagConnect }
func (m *Connect) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Option(m.Other != nil)
	if m.Other != nil {
		e.Uint64(*m.Other)
	}
}
func (m *Connect) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	present, err := d.Option()
	if err != nil {
		return err
	}
	m.Other = nil
	if present {
		v, err := d.Uint64()
		if err != nil {
			return err
		}
		m.Other = &v
	}
	return nil
}

type Disconnect struct {
	call
	Other *uint64
}

func (m *Disconnect) requestTag() uint8 { return tagDisconnect }
func (m *Disconnect) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Option(m.Other != nil)
	if m.Other != nil {
		e.Uint64(*m.Other)
	}
}
func (m *Disconnect) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	present, err := d.Option()
	if err != nil {
		return err
	}
	m.Other = nil
	if present {
		v, err := d.Uint64()
		if err != nil {
			return err
		}
		m.Other = &v
	}
	return nil
}

// Notify relays an attribute-list message through a host-placed connection
// proxy.
type Notify struct {
	call
	Message AttributeMessage
}

func (m *Notify) requestTag() uint8 { return tagNotify }
func (m *Notify) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	m.Message.MarshalWire(e)
}
func (m *Notify) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	return m.Message.UnmarshalWire(d)
}

type GetUnitCount struct{ call }

func (m *GetUnitCount) requestTag() uint8 { return tagGetUnitCount }

type GetUnitInfo struct {
	call
	Index int32
}

func (m *GetUnitInfo) requestTag() uint8 { return tagGetUnitInfo }
func (m *GetUnitInfo) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.Index)
}
func (m *GetUnitInfo) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Index, err = d.Int32()
	return err
}

type GetUnitInfoResponse struct {
	Result Result
	Info   UnitInfo
}

func (r *GetUnitInfoResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	marshalUnitInfo(e, &r.Info)
}

func (r *GetUnitInfoResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	return unmarshalUnitInfo(d, &r.Info)
}

type GetProgramListCount struct{ call }

func (m *GetProgramListCount) requestTag() uint8 { return tagGetProgramListCount }

type GetProgramListInfo struct {
	call
	Index int32
}

func (m *GetProgramListInfo) requestTag() uint8 { return tagGetProgramListInfo }
func (m *GetProgramListInfo) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.Index)
}
func (m *GetProgramListInfo) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Index, err = d.Int32()
	return err
}

type GetProgramListInfoResponse struct {
	Result Result
	Info   ProgramListInfo
}

func (r *GetProgramListInfoResponse) MarshalWire(e *wire.Encoder) {
	e.Int32(int32(r.Result))
	marshalProgramListInfo(e, &r.Info)
}

func (r *GetProgramListInfoResponse) UnmarshalWire(d *wire.Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	r.Result = Result(v)
	return unmarshalProgramListInfo(d, &r.Info)
}

// listCall is the shared shape of program-list addressed requests.
type listCall struct {
	call
	ListID       int32
	ProgramIndex int32
}

func (m *listCall) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.ListID)
	e.Int32(m.ProgramIndex)
}

func (m *listCall) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.ListID, err = d.Int32(); err != nil {
		return err
	}
	m.ProgramIndex, err = d.Int32()
	return err
}

type GetProgramName struct{ listCall }

func (m *GetProgramName) requestTag() uint8 { return tagGetProgramName }

type GetSelectedUnit struct{ call }

func (m *GetSelectedUnit) requestTag() uint8 { return tagGetSelectedUnit }

type SelectUnit struct {
	call
	UnitID int32
}

func (m *SelectUnit) requestTag() uint8 { return tagSelectUnit }
func (m *SelectUnit) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.UnitID)
}
func (m *SelectUnit) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.UnitID, err = d.Int32()
	return err
}

type ProgramDataSupported struct {
	call
	ListID int32
}

func (m *ProgramDataSupported) requestTag() uint8 { return tagProgramDataSupported }
func (m *ProgramDataSupported) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.ListID)
}
func (m *ProgramDataSupported) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.ListID, err = d.Int32()
	return err
}

type GetProgramData struct{ listCall }

func (m *GetProgramData) requestTag() uint8 { return tagGetProgramData }

type SetProgramData struct {
	listCall
	Data []byte
}

func (m *SetProgramData) requestTag() uint8 { return tagSetProgramData }
func (m *SetProgramData) MarshalWire(e *wire.Encoder) {
	m.listCall.MarshalWire(e)
	e.Blob(m.Data)
}
func (m *SetProgramData) UnmarshalWire(d *wire.Decoder) error {
	if err := m.listCall.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Data, err = d.Blob()
	return err
}

type UnitDataSupported struct {
	call
	UnitID int32
}

func (m *UnitDataSupported) requestTag() uint8 { return tagUnitDataSupported }
func (m *UnitDataSupported) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.UnitID)
}
func (m *UnitDataSupported) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.UnitID, err = d.Int32()
	return err
}

type GetUnitData struct {
	call
	UnitID int32
}

func (m *GetUnitData) requestTag() uint8 { return tagGetUnitData }
func (m *GetUnitData) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.UnitID)
}
func (m *GetUnitData) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.UnitID, err = d.Int32()
	return err
}

// SetKnobMode and the help/about requests make up the second edit
// controller interface.
type SetKnobMode struct {
	call
	Mode int32
}

func (m *SetKnobMode) requestTag() uint8 { return tagSetKnobMode }
func (m *SetKnobMode) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.Mode)
}
func (m *SetKnobMode) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Mode, err = d.Int32()
	return err
}

type OpenHelp struct {
	call
	OnlyCheck bool
}

func (m *OpenHelp) requestTag() uint8 { return tagOpenHelp }
func (m *OpenHelp) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Bool(m.OnlyCheck)
}
func (m *OpenHelp) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.OnlyCheck, err = d.Bool()
	return err
}

type OpenAboutBox struct {
	call
	OnlyCheck bool
}

func (m *OpenAboutBox) requestTag() uint8 { return tagOpenAboutBox }
func (m *OpenAboutBox) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Bool(m.OnlyCheck)
}
func (m *OpenAboutBox) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.OnlyCheck, err = d.Bool()
	return err
}

type SetUnitData struct {
	call
	UnitID int32
	Data   []byte
}

func (m *SetUnitData) requestTag() uint8 { return tagSetUnitData }
func (m *SetUnitData) MarshalWire(e *wire.Encoder) {
	m.call.MarshalWire(e)
	e.Int32(m.UnitID)
	e.Blob(m.Data)
}
func (m *SetUnitData) UnmarshalWire(d *wire.Decoder) error {
	if err := m.call.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if m.UnitID, err = d.Int32(); err != nil {
		return err
	}
	m.Data, err = d.Blob()
	return err
}
