package vst3

import (
	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/realtime"
)

// Process32 runs one single-precision block. The structured request — bus
// layouts, parameter changes, events, transport — crosses the audio
// channel while the samples travel through the shared buffer; the
// response carries output parameter changes, output events, and per-bus
// silence flags. inputs and outputs are indexed [bus][channel][sample].
func (p *PluginProxy) Process32(data *ProcessData, inputs, outputs [][][]float32) (*ProcessOutput, Result) {
	b := p.bridge
	if b.buffers == nil {
		b.logger.Warn("process called before the component was activated")
		return nil, NotInitialized
	}

	ftz := realtime.EnableFlushToZero()
	defer ftz.Restore()

	for bus := range inputs {
		for channel := range inputs[bus] {
			copy(b.buffers.InputChannel32(bus, channel)[:data.NumSamples], inputs[bus][channel])
		}
	}

	req := &Process{
		call:        call{p.instanceID},
		Data:        b.audioRequest(data.NumSamples, false),
		ProcessData: *data,
	}
	var resp ProcessResponse
	if err := b.sendAudio(req, &resp); err != nil {
		b.logger.Error("process round-trip failed", zap.Error(err))
		return nil, InternalError
	}

	for bus := range outputs {
		for channel := range outputs[bus] {
			copy(outputs[bus][channel], b.buffers.OutputChannel32(bus, channel)[:data.NumSamples])
		}
	}
	return &resp.Output, resp.Result
}

// Process64 is the double-precision variant of Process32.
func (p *PluginProxy) Process64(data *ProcessData, inputs, outputs [][][]float64) (*ProcessOutput, Result) {
	b := p.bridge
	if b.buffers == nil {
		b.logger.Warn("process called before the component was activated")
		return nil, NotInitialized
	}
	if b.buffers.Config().ElementSize != 8 {
		b.logger.Error("host mixed up sample precision",
			zap.Uint32("element_size", b.buffers.Config().ElementSize))
		return nil, InvalidArgument
	}

	ftz := realtime.EnableFlushToZero()
	defer ftz.Restore()

	for bus := range inputs {
		for channel := range inputs[bus] {
			copy(b.buffers.InputChannel64(bus, channel)[:data.NumSamples], inputs[bus][channel])
		}
	}

	req := &Process{
		call:        call{p.instanceID},
		Data:        b.audioRequest(data.NumSamples, true),
		ProcessData: *data,
	}
	var resp ProcessResponse
	if err := b.sendAudio(req, &resp); err != nil {
		b.logger.Error("process round-trip failed", zap.Error(err))
		return nil, InternalError
	}

	for bus := range outputs {
		for channel := range outputs[bus] {
			copy(outputs[bus][channel], b.buffers.OutputChannel64(bus, channel)[:data.NumSamples])
		}
	}
	return &resp.Output, resp.Result
}
