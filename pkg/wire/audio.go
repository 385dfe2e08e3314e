package wire

// BufferConfig describes the shared audio buffer layout agreed between the
// two sides. Offsets are indexed [bus][channel] and are byte offsets into
// the mapped region; they stay fixed until the next reconfiguration.
type BufferConfig struct {
	Name          string
	InputOffsets  [][]uint32
	OutputOffsets [][]uint32
	ElementSize   uint32
	BlockSize     uint32
}

func marshalOffsets(e *Encoder, offsets [][]uint32) {
	e.Uint32(uint32(len(offsets)))
	for _, bus := range offsets {
		e.Uint32(uint32(len(bus)))
		for _, off := range bus {
			e.Uint32(off)
		}
	}
}

func unmarshalOffsets(d *Decoder) ([][]uint32, error) {
	numBuses, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	offsets := make([][]uint32, numBuses)
	for i := range offsets {
		numChannels, err := d.Uint32()
		if err != nil {
			return nil, err
		}
		bus := make([]uint32, numChannels)
		for j := range bus {
			if bus[j], err = d.Uint32(); err != nil {
				return nil, err
			}
		}
		offsets[i] = bus
	}
	return offsets, nil
}

func (c *BufferConfig) MarshalWire(e *Encoder) {
	e.String(c.Name)
	marshalOffsets(e, c.InputOffsets)
	marshalOffsets(e, c.OutputOffsets)
	e.Uint32(c.ElementSize)
	e.Uint32(c.BlockSize)
}

func (c *BufferConfig) UnmarshalWire(d *Decoder) (err error) {
	if c.Name, err = d.String(); err != nil {
		return err
	}
	if c.InputOffsets, err = unmarshalOffsets(d); err != nil {
		return err
	}
	if c.OutputOffsets, err = unmarshalOffsets(d); err != nil {
		return err
	}
	if c.ElementSize, err = d.Uint32(); err != nil {
		return err
	}
	c.BlockSize, err = d.Uint32()
	return err
}

// AudioRequest asks the foreign host to process one block. The samples
// themselves live in the shared buffer; the request only carries the
// parameters the plugin will ask for during the call, prefetched so the
// plugin never has to re-enter the socket mid-block.
type AudioRequest struct {
	SampleFrames        int32
	DoublePrecision     bool
	TimeInfo            *TimeInfo
	ProcessLevel        *int32
	NewRealtimePriority *int32
}

func (r *AudioRequest) MarshalWire(e *Encoder) {
	e.Int32(r.SampleFrames)
	e.Bool(r.DoublePrecision)
	e.Option(r.TimeInfo != nil)
	if r.TimeInfo != nil {
		r.TimeInfo.MarshalWire(e)
	}
	e.Option(r.ProcessLevel != nil)
	if r.ProcessLevel != nil {
		e.Int32(*r.ProcessLevel)
	}
	e.Option(r.NewRealtimePriority != nil)
	if r.NewRealtimePriority != nil {
		e.Int32(*r.NewRealtimePriority)
	}
}

func (r *AudioRequest) UnmarshalWire(d *Decoder) (err error) {
	if r.SampleFrames, err = d.Int32(); err != nil {
		return err
	}
	if r.DoublePrecision, err = d.Bool(); err != nil {
		return err
	}
	present, err := d.Option()
	if err != nil {
		return err
	}
	r.TimeInfo = nil
	if present {
		r.TimeInfo = new(TimeInfo)
		if err := r.TimeInfo.UnmarshalWire(d); err != nil {
			return err
		}
	}
	if present, err = d.Option(); err != nil {
		return err
	}
	r.ProcessLevel = nil
	if present {
		v, err := d.Int32()
		if err != nil {
			return err
		}
		r.ProcessLevel = &v
	}
	if present, err = d.Option(); err != nil {
		return err
	}
	r.NewRealtimePriority = nil
	if present {
		v, err := d.Int32()
		if err != nil {
			return err
		}
		r.NewRealtimePriority = &v
	}
	return nil
}

// Ack is the single-byte acknowledgement closing an audio round-trip.
type Ack struct{}

func (Ack) MarshalWire(e *Encoder) { e.Uint8(0) }

func (Ack) UnmarshalWire(d *Decoder) error {
	_, err := d.Uint8()
	return err
}
