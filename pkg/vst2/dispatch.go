package vst2

import (
	"fmt"

	"github.com/nidefawl/yabridge/pkg/shm"
	"github.com/nidefawl/yabridge/pkg/wire"
)

// SpeakerArrangementPair is the dispatcher data argument for the speaker
// arrangement opcodes, the only calls where the ABI's value slot carries a
// second struct (the input arrangement) instead of an integer.
type SpeakerArrangementPair struct {
	Input  *wire.SpeakerArrangement
	Output *wire.SpeakerArrangement
}

// eventForDispatch flattens one dispatcher call into its payload variant.
// Opcodes whose data argument is dangerous to interpret generically are
// listed explicitly; everything else falls back on the argument's dynamic
// type.
func eventForDispatch(opcode, index int32, value int64, data any, option float32) (*wire.Event, error) {
	ev := &wire.Event{Opcode: opcode, Index: index, Value: value, Option: option}

	switch opcode {
	case OpOpen:
		// Some improperly coded plugins fill in parts of their effect
		// struct only during Open; ask the foreign host to push the
		// refreshed struct back.
		ev.Payload = wire.WantsAEffectUpdate{}
	case OpMainsChanged:
		if value == 1 {
			ev.Payload = wire.WantsBufferConfig{}
		} else {
			ev.Payload = wire.NoPayload{}
		}
	case OpEditGetRect:
		ev.Payload = wire.WantsRect{}
	case OpEditOpen:
		handle, ok := data.(uint64)
		if !ok {
			return nil, fmt.Errorf("vst2: EditOpen expects a window handle, got %T", data)
		}
		ev.Payload = &wire.WindowPayload{Handle: handle}
	case OpGetChunk:
		ev.Payload = wire.WantsChunkBuffer{}
	case OpSetChunk:
		chunk, ok := data.([]byte)
		if !ok {
			return nil, fmt.Errorf("vst2: SetChunk expects bytes, got %T", data)
		}
		// The host reports the chunk length through the value slot.
		ev.Value = int64(len(chunk))
		ev.Payload = &wire.ChunkPayload{Data: chunk}
	case OpProcessEvents:
		events, ok := data.([]wire.MIDIEvent)
		if !ok {
			return nil, fmt.Errorf("vst2: ProcessEvents expects MIDI events, got %T", data)
		}
		ev.Payload = &wire.MIDIEventsPayload{Events: events}
	case OpGetInputProperties, OpGetOutputProperties:
		// The host may have populated the struct already, so it travels
		// in both directions.
		props, ok := data.(*wire.IOProperties)
		if !ok {
			return nil, fmt.Errorf("vst2: pin properties expect IOProperties, got %T", data)
		}
		ev.Payload = &wire.IOPropertiesPayload{Properties: *props}
	case OpGetParameterProperties:
		props, ok := data.(*wire.ParameterProperties)
		if !ok {
			return nil, fmt.Errorf("vst2: GetParameterProperties expects ParameterProperties, got %T", data)
		}
		ev.Payload = &wire.ParameterPropertiesPayload{Properties: *props}
	case OpGetMidiKeyName:
		name, ok := data.(*wire.MIDIKeyName)
		if !ok {
			return nil, fmt.Errorf("vst2: GetMidiKeyName expects MIDIKeyName, got %T", data)
		}
		ev.Payload = &wire.MIDIKeyNamePayload{KeyName: *name}
	case OpSetSpeakerArrangement, OpGetSpeakerArrangement:
		pair, ok := data.(*SpeakerArrangementPair)
		if !ok || pair.Input == nil || pair.Output == nil {
			return nil, fmt.Errorf("vst2: speaker arrangement expects an input/output pair, got %T", data)
		}
		ev.Value = 0
		ev.Payload = &wire.SpeakerArrangementPayload{Arrangement: *pair.Output}
		ev.ValuePayload = &wire.SpeakerArrangementPayload{Arrangement: *pair.Input}
	case OpGetProgramName, OpGetParamLabel, OpGetParamDisplay, OpGetParamName,
		OpGetProgramNameIndexed, OpGetEffectName, OpGetVendorString,
		OpGetProductString, OpShellGetNextPlugin:
		ev.Payload = wire.WantsString{}
	case OpClose, OpSetProgram, OpGetProgram, OpSetSampleRate, OpSetBlockSize,
		OpEditClose, OpCanBeAutomated, OpGetPlugCategory, OpGetVendorVersion,
		OpGetTailSize, OpIdle, OpGetVstVersion, OpBeginSetProgram,
		OpEndSetProgram, OpStartProcess, OpStopProcess, OpSetProcessPrecision:
		// The data argument is unused for these; some hosts pass garbage
		// in it, so never interpret it.
		ev.Payload = wire.NoPayload{}
	default:
		switch v := data.(type) {
		case nil:
			ev.Payload = wire.NoPayload{}
		case string:
			ev.Payload = &wire.StringPayload{Value: v}
		case []byte:
			ev.Payload = &wire.BytesPayload{Data: v}
		default:
			return nil, fmt.Errorf("vst2: opcode %d with unsupported data %T", opcode, data)
		}
	}
	return ev, nil
}

// applyDispatchResult writes the response payload back through the ABI's
// output conventions: out pointers, mutated structs, and the proxy-owned
// buffers whose addresses must stay valid until the next call on the same
// channel.
func (b *Bridge) applyDispatchResult(opcode int32, data any, result *wire.EventResult) {
	switch opcode {
	case OpOpen:
		if payload, ok := result.Payload.(*wire.AEffectPayload); ok {
			b.updateEffect(&payload.Effect)
		}
	case OpMainsChanged:
		if payload, ok := result.Payload.(*wire.BufferConfigPayload); ok {
			if err := b.configureBuffers(payload.Config); err != nil {
				b.logger.Error("configuring audio buffers failed", zapError(err))
			}
		}
	case OpEditGetRect:
		payload, ok := result.Payload.(*wire.RectPayload)
		if !ok {
			// The plugin did not write a rectangle.
			return
		}
		b.rect = payload.Rect
		if out, ok := data.(**wire.Rect); ok {
			*out = &b.rect
		}
	case OpGetChunk:
		if payload, ok := result.Payload.(*wire.ChunkPayload); ok {
			// Park the bytes in the bridge-owned chunk buffer; the host's
			// pointer stays valid until the next dispatch call.
			b.chunk = append(b.chunk[:0], payload.Data...)
			if out, ok := data.(*[]byte); ok {
				*out = b.chunk
			}
		}
	case OpGetInputProperties, OpGetOutputProperties:
		if payload, ok := result.Payload.(*wire.IOPropertiesPayload); ok {
			if out, ok := data.(*wire.IOProperties); ok {
				*out = payload.Properties
			}
		}
	case OpGetParameterProperties:
		if payload, ok := result.Payload.(*wire.ParameterPropertiesPayload); ok {
			if out, ok := data.(*wire.ParameterProperties); ok {
				*out = payload.Properties
			}
		}
	case OpGetMidiKeyName:
		if payload, ok := result.Payload.(*wire.MIDIKeyNamePayload); ok {
			if out, ok := data.(*wire.MIDIKeyName); ok {
				*out = payload.KeyName
			}
		}
	case OpGetSpeakerArrangement:
		pair, ok := data.(*SpeakerArrangementPair)
		if !ok {
			return
		}
		if payload, ok := result.Payload.(*wire.SpeakerArrangementPayload); ok {
			*pair.Output = payload.Arrangement
		}
		if payload, ok := result.ValuePayload.(*wire.SpeakerArrangementPayload); ok {
			*pair.Input = payload.Arrangement
		}
	default:
		if payload, ok := result.Payload.(*wire.StringPayload); ok {
			if out, ok := data.(*string); ok {
				*out = payload.Value
			}
		}
	}
}

// updateEffect copies the foreign plugin's refreshed fields into the
// host-visible struct, leaving the native function pointers untouched.
func (b *Bridge) updateEffect(data *wire.AEffectData) {
	b.effect.Magic = data.Magic
	b.effect.NumPrograms = data.NumPrograms
	b.effect.NumParams = data.NumParams
	b.effect.NumInputs = data.NumInputs
	b.effect.NumOutputs = data.NumOutputs
	b.effect.Flags = data.Flags
	b.effect.InitialDelay = data.InitialDelay
	b.effect.UniqueID = data.UniqueID
	b.effect.Version = data.Version
}

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
