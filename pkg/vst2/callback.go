package vst2

import (
	"github.com/nidefawl/yabridge/pkg/bridge"
	"github.com/nidefawl/yabridge/pkg/midi"
	"github.com/nidefawl/yabridge/pkg/realtime"
	"github.com/nidefawl/yabridge/pkg/transport"
	"github.com/nidefawl/yabridge/pkg/wire"
)

// runCallbackLoop is the plugin-to-host handler thread. It runs for the
// lifetime of the instance and is elevated to realtime scheduling to match
// the audio path, since plugins fire callbacks from their audio threads.
func (b *Bridge) runCallbackLoop() {
	defer close(b.callbackDone)

	if err := realtime.SetPriority(true, realtime.DefaultPriority); err != nil {
		b.logger.Debug("callback thread stays on normal scheduling", zapError(err))
	}

	transport.Serve(b.callbackCh,
		func() *wire.Event { return &wire.Event{} },
		b.handleCallback, b.logger)
}

func (b *Bridge) handleCallback(ev *wire.Event, _ bool) *wire.EventResult {
	switch ev.Opcode {
	case OpMasterProcessEvents:
		// MIDI events sent from the plugin back to the host have to reach
		// the host during processReplacing or it discards them. Queue the
		// bundle; the audio path drains it right after the plugin's call
		// returns.
		if payload, ok := ev.Payload.(*wire.MIDIEventsPayload); ok {
			b.pendingMIDI.AddMultiple(midi.WrapWire(payload.Events))
		}
		return &wire.EventResult{ReturnValue: 1, Payload: wire.NoPayload{}}

	case OpMasterSizeWindow:
		// Resize callbacks must come from the GUI thread; store the last
		// request and replay it on the next EditIdle.
		b.resizeMu.Lock()
		b.pendingSize = &[2]int32{ev.Index, int32(ev.Value)}
		b.resizeMu.Unlock()
		return &wire.EventResult{ReturnValue: 1, Payload: wire.NoPayload{}}

	case OpMasterGetProductString:
		if b.config.HideDAW {
			b.logger.Info("plugin asked for the host's name, reporting the override instead")
			return &wire.EventResult{
				ReturnValue: 1,
				Payload:     &wire.StringPayload{Value: bridge.ProductNameOverride},
			}
		}

	case OpMasterGetVendorString:
		if b.config.HideDAW {
			b.logger.Info("plugin asked for the host's vendor, reporting the override instead")
			return &wire.EventResult{
				ReturnValue: 1,
				Payload:     &wire.StringPayload{Value: bridge.VendorNameOverride},
			}
		}

	case OpMasterDeadBeef:
		b.logger.Info("plugin wants REAPER's host vendor extensions, which are unsupported; ignoring")
		return &wire.EventResult{ReturnValue: 0, Payload: wire.NoPayload{}}
	}

	return b.passthroughCallback(ev)
}

// passthroughCallback relays a plugin-to-host event to the actual host
// callback and captures whatever the opcode's output convention produces.
func (b *Bridge) passthroughCallback(ev *wire.Event) *wire.EventResult {
	switch ev.Opcode {
	case OpMasterGetTime:
		var info wire.TimeInfo
		ret := b.hostCallback(&b.effect, ev.Opcode, ev.Index, ev.Value, &info, ev.Option)
		if ret == 0 {
			return &wire.EventResult{ReturnValue: 0, Payload: wire.NoPayload{}}
		}
		return &wire.EventResult{ReturnValue: ret, Payload: &wire.TimeInfoPayload{TimeInfo: info}}

	case OpMasterIOChanged:
		// The plugin resized its effect struct; mirror the new fields
		// into the host-visible copy before notifying the host.
		if payload, ok := ev.Payload.(*wire.AEffectPayload); ok {
			b.updateEffect(&payload.Effect)
		}
		ret := b.hostCallback(&b.effect, ev.Opcode, ev.Index, ev.Value, nil, ev.Option)
		return &wire.EventResult{ReturnValue: ret, Payload: wire.NoPayload{}}

	case OpMasterGetVendorString, OpMasterGetProductString:
		var s string
		ret := b.hostCallback(&b.effect, ev.Opcode, ev.Index, ev.Value, &s, ev.Option)
		return &wire.EventResult{ReturnValue: ret, Payload: &wire.StringPayload{Value: s}}
	}

	var data any
	switch payload := ev.Payload.(type) {
	case *wire.StringPayload:
		data = payload.Value
	case *wire.BytesPayload:
		data = payload.Data
	case *wire.MIDIEventsPayload:
		data = payload.Events
	}
	ret := b.hostCallback(&b.effect, ev.Opcode, ev.Index, ev.Value, data, ev.Option)
	return &wire.EventResult{ReturnValue: ret, Payload: wire.NoPayload{}}
}

// flushPendingMIDI drains the queued plugin MIDI events, ordered by sample
// offset, and forwards them to the host in one bundle. Called from the
// audio thread immediately after the plugin finishes a block.
func (b *Bridge) flushPendingMIDI() {
	pending := b.pendingMIDI.Drain()
	if len(pending) == 0 {
		return
	}
	b.hostCallback(&b.effect, OpMasterProcessEvents, 0, 0, midi.UnwrapWire(pending), 0)
}
