package shm

import "github.com/nidefawl/yabridge/pkg/wire"

// ComputeLayout lays out per-bus, per-channel sample runs back to back and
// returns the resulting buffer configuration. inputChannels and
// outputChannels hold the channel count per bus. elementSize is 4 or 8.
func ComputeLayout(name string, inputChannels, outputChannels []int, elementSize, blockSize uint32) wire.BufferConfig {
	run := elementSize * blockSize
	next := uint32(0)

	layout := func(buses []int) [][]uint32 {
		offsets := make([][]uint32, len(buses))
		for i, channels := range buses {
			bus := make([]uint32, channels)
			for j := range bus {
				bus[j] = next
				next += run
			}
			offsets[i] = bus
		}
		return offsets
	}

	return wire.BufferConfig{
		Name:          name,
		InputOffsets:  layout(inputChannels),
		OutputOffsets: layout(outputChannels),
		ElementSize:   elementSize,
		BlockSize:     blockSize,
	}
}
