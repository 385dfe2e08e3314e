// Package vst3 bridges the modern multi-interface reference-counted
// plugin ABI. Native-side proxies stand in for foreign plugin objects; the
// instance registry pairs them by 64-bit id, and every interface call
// crosses as one variant of the control channel's message family.
package vst3

// Result codes at the ABI boundary.
type Result int32

const (
	NoInterface     Result = -1
	ResultOK        Result = 0
	ResultTrue      Result = 0
	ResultFalse     Result = 1
	InvalidArgument Result = 2
	NotImplemented  Result = 3
	InternalError   Result = 4
	NotInitialized  Result = 5
)

// TUID is a 16-byte interface or class identifier, compared only for
// equality and serialised as raw bytes.
type TUID [16]byte

// Media types.
const (
	MediaTypeAudio int32 = 0
	MediaTypeEvent int32 = 1
)

// Bus directions.
const (
	BusDirectionInput  int32 = 0
	BusDirectionOutput int32 = 1
)

// Bus types.
const (
	BusTypeMain int32 = 0
	BusTypeAux  int32 = 1
)

// Symbolic sample sizes.
const (
	SampleSize32 int32 = 0
	SampleSize64 int32 = 1
)

// Capability bits of the interface-capability bitmap the foreign host
// returns at construction: which interfaces the real object implements.
type Capabilities uint32

const (
	CapComponent Capabilities = 1 << iota
	CapAudioProcessor
	CapEditController
	CapEditController2
	CapUnitInfo
	CapUnitData
	CapProgramListData
	CapConnectionPoint
	CapProcessContextRequirements
)

// Has reports whether every given capability is present.
func (c Capabilities) Has(want Capabilities) bool { return c&want == want }

// BusInfo describes one audio or event bus.
type BusInfo struct {
	MediaType    int32
	Direction    int32
	ChannelCount int32
	Name         string
	BusType      int32
	Flags        uint32
}

// RoutingInfo relates an input channel to the output it feeds.
type RoutingInfo struct {
	MediaType int32
	BusIndex  int32
	Channel   int32
}

// ProcessSetup is the processing configuration agreed before activation.
type ProcessSetup struct {
	ProcessMode        int32
	SymbolicSampleSize int32
	MaxSamplesPerBlock int32
	SampleRate         float64
}

// ParameterInfo describes one parameter of the edit controller.
type ParameterInfo struct {
	ID                     uint32
	Title                  string
	ShortTitle             string
	Units                  string
	StepCount              int32
	DefaultNormalizedValue float64
	UnitID                 int32
	Flags                  int32
}

// UnitInfo describes one unit in the plugin's unit hierarchy.
type UnitInfo struct {
	ID            int32
	ParentUnitID  int32
	Name          string
	ProgramListID int32
}

// ProgramListInfo describes one program list.
type ProgramListInfo struct {
	ID           int32
	Name         string
	ProgramCount int32
}

// ViewRect is an editor view rectangle.
type ViewRect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// ParamPoint is one automation point within a block.
type ParamPoint struct {
	SampleOffset int32
	Value        float64
}

// ParamChange is the automation curve of one parameter for one block.
type ParamChange struct {
	ID     uint32
	Points []ParamPoint
}

// Event types.
const (
	EventNoteOn uint16 = iota
	EventNoteOff
	EventData
	EventPolyPressure
	EventNoteExpressionValue
	EventChord
	EventScale
	EventLegacyMIDICCOut
)

// Event is one event-bus entry of a process block.
type Event struct {
	BusIndex     int32
	SampleOffset int32
	Flags        uint16
	Type         uint16
	Channel      int16
	Pitch        int16
	Tuning       float32
	Velocity     float32
	Data         []byte
}

// ProcessContext is the transport snapshot for one block.
type ProcessContext struct {
	State              uint32
	SampleRate         float64
	ProjectTimeSamples int64
	ProjectTimeMusic   float64
	BarPositionMusic   float64
	Tempo              float64
	TimeSigNumerator   int32
	TimeSigDenominator int32
}

// ProcessData is the structured part of one processing request; samples
// travel through the shared buffer.
type ProcessData struct {
	ProcessMode        int32
	SymbolicSampleSize int32
	NumSamples         int32
	InputParamChanges  []ParamChange
	InputEvents        []Event
	Context            *ProcessContext
}

// ProcessOutput carries everything the plugin produced besides samples.
type ProcessOutput struct {
	OutputParamChanges []ParamChange
	OutputEvents       []Event
	// OutputSilenceFlags holds one bitmask per output bus.
	OutputSilenceFlags []uint64
}
