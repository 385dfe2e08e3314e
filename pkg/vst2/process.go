package vst2

import (
	"time"

	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/realtime"
	"github.com/nidefawl/yabridge/pkg/wire"
)

// transportFlagsAll requests every transport field from the host. The
// value argument of GetTime is a bitfield selecting which fields get
// populated; only some hosts honour it, so ask for everything.
const transportFlagsAll = ^int64(0)

// buildAudioRequest prefetches the host state basically every plugin asks
// for during processing, so the foreign side never re-enters the socket
// mid-block, and piggy-backs the audio thread's realtime priority at the
// sync interval.
func (b *Bridge) buildAudioRequest(sampleFrames int32, doublePrecision bool) wire.AudioRequest {
	req := wire.AudioRequest{
		SampleFrames:    sampleFrames,
		DoublePrecision: doublePrecision,
	}

	var info wire.TimeInfo
	if ret := b.hostCallback(&b.effect, OpMasterGetTime, 0, transportFlagsAll, &info, 0); ret != 0 {
		req.TimeInfo = &info
	}

	level := int32(b.hostCallback(&b.effect, OpMasterGetCurrentProcessLevel, 0, 0, nil, 0))
	req.ProcessLevel = &level

	if now := time.Now(); now.Sub(b.lastPrioritySync) > realtime.PrioritySyncInterval {
		if priority, ok := realtime.Priority(); ok {
			p := int32(priority)
			req.NewRealtimePriority = &p
		}
		b.lastPrioritySync = now
	}

	return req
}

// roundTrip performs the block's request/ack exchange. The copy-in has
// already happened; on return the outputs sit in the shared buffer.
func (b *Bridge) roundTrip(req *wire.AudioRequest) bool {
	if err := b.processCh.Send(req); err != nil {
		b.logger.Error("sending audio request failed", zapError(err))
		return false
	}
	var ack wire.Ack
	if err := b.processCh.Receive(&ack); err != nil {
		b.logger.Error("audio acknowledgement failed", zapError(err))
		return false
	}
	return true
}

func (b *Bridge) processReplacing(inputs, outputs [][]float32, sampleFrames int32) {
	b.doProcess32(inputs, outputs, sampleFrames, true)
}

// processAccumulating implements the deprecated accumulating process entry
// point by adding the replacing results into the host's buffers.
func (b *Bridge) processAccumulating(inputs, outputs [][]float32, sampleFrames int32) {
	b.doProcess32(inputs, outputs, sampleFrames, false)
}

func (b *Bridge) doProcess32(inputs, outputs [][]float32, sampleFrames int32, replacing bool) {
	if b.buffers == nil {
		b.logger.Warn("process called before MainsChanged enabled audio")
		return
	}

	ftz := realtime.EnableFlushToZero()
	defer ftz.Restore()

	for channel := range inputs {
		if channel >= int(b.effect.NumInputs) {
			break
		}
		copy(b.buffers.InputChannel32(0, channel)[:sampleFrames], inputs[channel])
	}

	req := b.buildAudioRequest(sampleFrames, false)
	if !b.roundTrip(&req) {
		return
	}

	for channel := range outputs {
		if channel >= int(b.effect.NumOutputs) {
			break
		}
		run := b.buffers.OutputChannel32(0, channel)[:sampleFrames]
		if replacing {
			copy(outputs[channel], run)
		} else {
			out := outputs[channel]
			for i, v := range run {
				out[i] += v
			}
		}
	}

	// Flushing after the plugin finished the block rather than while we
	// wait keeps the events from arriving a sample early.
	b.flushPendingMIDI()
}

func (b *Bridge) processDoubleReplacing(inputs, outputs [][]float64, sampleFrames int32) {
	if b.buffers == nil {
		b.logger.Warn("process called before MainsChanged enabled audio")
		return
	}
	if b.buffers.Config().ElementSize != 8 {
		b.logger.Error("host mixed up sample precision",
			zap.Uint32("element_size", b.buffers.Config().ElementSize))
		return
	}

	ftz := realtime.EnableFlushToZero()
	defer ftz.Restore()

	for channel := range inputs {
		if channel >= int(b.effect.NumInputs) {
			break
		}
		copy(b.buffers.InputChannel64(0, channel)[:sampleFrames], inputs[channel])
	}

	req := b.buildAudioRequest(sampleFrames, true)
	if !b.roundTrip(&req) {
		return
	}

	for channel := range outputs {
		if channel >= int(b.effect.NumOutputs) {
			break
		}
		copy(outputs[channel], b.buffers.OutputChannel64(0, channel)[:sampleFrames])
	}

	b.flushPendingMIDI()
}
