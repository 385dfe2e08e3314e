// Package vst2 bridges the legacy opcode-dispatcher plugin ABI. The
// host-visible effect struct lives on the native side; every entry point
// proxies to the foreign host, which drives the real plugin.
package vst2

// Effect struct magic, 'VstP'.
const Magic int32 = 0x56737450

// Dispatcher opcodes, host to plugin.
const (
	OpOpen                   int32 = 0
	OpClose                  int32 = 1
	OpSetProgram             int32 = 2
	OpGetProgram             int32 = 3
	OpSetProgramName         int32 = 4
	OpGetProgramName         int32 = 5
	OpGetParamLabel          int32 = 6
	OpGetParamDisplay        int32 = 7
	OpGetParamName           int32 = 8
	OpSetSampleRate          int32 = 10
	OpSetBlockSize           int32 = 11
	OpMainsChanged           int32 = 12
	OpEditGetRect            int32 = 13
	OpEditOpen               int32 = 14
	OpEditClose              int32 = 15
	OpEditIdle               int32 = 19
	OpGetChunk               int32 = 23
	OpSetChunk               int32 = 24
	OpProcessEvents          int32 = 25
	OpCanBeAutomated         int32 = 26
	OpGetProgramNameIndexed  int32 = 29
	OpGetInputProperties     int32 = 33
	OpGetOutputProperties    int32 = 34
	OpGetPlugCategory        int32 = 35
	OpSetSpeakerArrangement  int32 = 42
	OpGetEffectName          int32 = 45
	OpGetVendorString        int32 = 47
	OpGetProductString       int32 = 48
	OpGetVendorVersion       int32 = 49
	OpVendorSpecific         int32 = 50
	OpCanDo                  int32 = 51
	OpGetTailSize            int32 = 52
	OpIdle                   int32 = 53
	OpGetParameterProperties int32 = 56
	OpGetVstVersion          int32 = 58
	OpGetMidiKeyName         int32 = 66
	OpBeginSetProgram        int32 = 67
	OpEndSetProgram          int32 = 68
	OpGetSpeakerArrangement  int32 = 69
	OpShellGetNextPlugin     int32 = 70
	OpStartProcess           int32 = 71
	OpStopProcess            int32 = 72
	OpSetProcessPrecision    int32 = 77
)

// Host callback opcodes, plugin to host.
const (
	OpMasterAutomate               int32 = 0
	OpMasterVersion                int32 = 1
	OpMasterCurrentID              int32 = 2
	OpMasterIdle                   int32 = 3
	OpMasterGetTime                int32 = 7
	OpMasterProcessEvents          int32 = 8
	OpMasterIOChanged              int32 = 13
	OpMasterSizeWindow             int32 = 15
	OpMasterGetSampleRate          int32 = 16
	OpMasterGetBlockSize           int32 = 17
	OpMasterGetCurrentProcessLevel int32 = 23
	OpMasterGetVendorString        int32 = 32
	OpMasterGetProductString       int32 = 33
	OpMasterGetVendorVersion       int32 = 34
	OpMasterCanDo                  int32 = 37

	// REAPER's host vendor extension, 0xdeadbeef as a signed opcode. Not
	// supported through the bridge; refused in the callback handler.
	OpMasterDeadBeef int32 = -0x21524111
)

// Effect flags.
const (
	FlagHasEditor          int32 = 1 << 0
	FlagCanReplacing       int32 = 1 << 4
	FlagProgramChunks      int32 = 1 << 5
	FlagIsSynth            int32 = 1 << 8
	FlagCanDoubleReplacing int32 = 1 << 12
)

// HostCallback is the audioMaster entry point supplied by the host. data
// carries typed values the way the dispatcher's data argument does; out
// parameters are pointers the host writes through.
type HostCallback func(effect *AEffect, opcode, index int32, value int64, data any, option float32) int64

// DispatcherFunc is the plugin-side dispatcher entry point.
type DispatcherFunc func(effect *AEffect, opcode, index int32, value int64, data any, option float32) int64

// ProcessFunc processes single-precision audio.
type ProcessFunc func(effect *AEffect, inputs, outputs [][]float32, sampleFrames int32)

// ProcessDoubleFunc processes double-precision audio.
type ProcessDoubleFunc func(effect *AEffect, inputs, outputs [][]float64, sampleFrames int32)

// AEffect is the host-visible effect struct. The function fields are
// patched to the package-level thunks at bridge construction; the bridge
// itself is stowed in a reserved slot so the thunks need no process-global
// state and any number of instances coexist.
type AEffect struct {
	Magic int32

	Dispatcher             DispatcherFunc
	Process                ProcessFunc
	SetParameter           func(effect *AEffect, index int32, value float32)
	GetParameter           func(effect *AEffect, index int32) float32
	ProcessReplacing       ProcessFunc
	ProcessDoubleReplacing ProcessDoubleFunc

	NumPrograms  int32
	NumParams    int32
	NumInputs    int32
	NumOutputs   int32
	Flags        int32
	InitialDelay int32
	UniqueID     int32
	Version      int32

	// bridge is the reserved instance slot the thunks recover the bridge
	// through (the ABI's spare pointer field).
	bridge *Bridge
}

func bridgeFrom(effect *AEffect) *Bridge {
	return effect.bridge
}

// The free-function thunks the effect struct is patched with.

func dispatchThunk(effect *AEffect, opcode, index int32, value int64, data any, option float32) int64 {
	return bridgeFrom(effect).Dispatch(opcode, index, value, data, option)
}

func processThunk(effect *AEffect, inputs, outputs [][]float32, sampleFrames int32) {
	bridgeFrom(effect).processAccumulating(inputs, outputs, sampleFrames)
}

func processReplacingThunk(effect *AEffect, inputs, outputs [][]float32, sampleFrames int32) {
	bridgeFrom(effect).processReplacing(inputs, outputs, sampleFrames)
}

func processDoubleReplacingThunk(effect *AEffect, inputs, outputs [][]float64, sampleFrames int32) {
	bridgeFrom(effect).processDoubleReplacing(inputs, outputs, sampleFrames)
}

func setParameterThunk(effect *AEffect, index int32, value float32) {
	bridgeFrom(effect).SetParameter(index, value)
}

func getParameterThunk(effect *AEffect, index int32) float32 {
	return bridgeFrom(effect).GetParameter(index)
}
