package vst3

import "github.com/nidefawl/yabridge/pkg/wire"

// Wire encodings for the structured ABI values that ride inside message
// bodies.

func marshalBusInfo(e *wire.Encoder, b *BusInfo) {
	e.Int32(b.MediaType)
	e.Int32(b.Direction)
	e.Int32(b.ChannelCount)
	e.String(b.Name)
	e.Int32(b.BusType)
	e.Uint32(b.Flags)
}

func unmarshalBusInfo(d *wire.Decoder, b *BusInfo) (err error) {
	if b.MediaType, err = d.Int32(); err != nil {
		return err
	}
	if b.Direction, err = d.Int32(); err != nil {
		return err
	}
	if b.ChannelCount, err = d.Int32(); err != nil {
		return err
	}
	if b.Name, err = d.String(); err != nil {
		return err
	}
	if b.BusType, err = d.Int32(); err != nil {
		return err
	}
	b.Flags, err = d.Uint32()
	return err
}

func marshalRoutingInfo(e *wire.Encoder, r *RoutingInfo) {
	e.Int32(r.MediaType)
	e.Int32(r.BusIndex)
	e.Int32(r.Channel)
}

func unmarshalRoutingInfo(d *wire.Decoder, r *RoutingInfo) (err error) {
	if r.MediaType, err = d.Int32(); err != nil {
		return err
	}
	if r.BusIndex, err = d.Int32(); err != nil {
		return err
	}
	r.Channel, err = d.Int32()
	return err
}

func marshalProcessSetup(e *wire.Encoder, s *ProcessSetup) {
	e.Int32(s.ProcessMode)
	e.Int32(s.SymbolicSampleSize)
	e.Int32(s.MaxSamplesPerBlock)
	e.Float64(s.SampleRate)
}

func unmarshalProcessSetup(d *wire.Decoder, s *ProcessSetup) (err error) {
	if s.ProcessMode, err = d.Int32(); err != nil {
		return err
	}
	if s.SymbolicSampleSize, err = d.Int32(); err != nil {
		return err
	}
	if s.MaxSamplesPerBlock, err = d.Int32(); err != nil {
		return err
	}
	s.SampleRate, err = d.Float64()
	return err
}

func marshalParameterInfo(e *wire.Encoder, p *ParameterInfo) {
	e.Uint32(p.ID)
	e.String(p.Title)
	e.String(p.ShortTitle)
	e.String(p.Units)
	e.Int32(p.StepCount)
	e.Float64(p.DefaultNormalizedValue)
	e.Int32(p.UnitID)
	e.Int32(p.Flags)
}

func unmarshalParameterInfo(d *wire.Decoder, p *ParameterInfo) (err error) {
	if p.ID, err = d.Uint32(); err != nil {
		return err
	}
	if p.Title, err = d.String(); err != nil {
		return err
	}
	if p.ShortTitle, err = d.String(); err != nil {
		return err
	}
	if p.Units, err = d.String(); err != nil {
		return err
	}
	if p.StepCount, err = d.Int32(); err != nil {
		return err
	}
	if p.DefaultNormalizedValue, err = d.Float64(); err != nil {
		return err
	}
	if p.UnitID, err = d.Int32(); err != nil {
		return err
	}
	p.Flags, err = d.Int32()
	return err
}

func marshalUnitInfo(e *wire.Encoder, u *UnitInfo) {
	e.Int32(u.ID)
	e.Int32(u.ParentUnitID)
	e.String(u.Name)
	e.Int32(u.ProgramListID)
}

func unmarshalUnitInfo(d *wire.Decoder, u *UnitInfo) (err error) {
	if u.ID, err = d.Int32(); err != nil {
		return err
	}
	if u.ParentUnitID, err = d.Int32(); err != nil {
		return err
	}
	if u.Name, err = d.String(); err != nil {
		return err
	}
	u.ProgramListID, err = d.Int32()
	return err
}

func marshalProgramListInfo(e *wire.Encoder, p *ProgramListInfo) {
	e.Int32(p.ID)
	e.String(p.Name)
	e.Int32(p.ProgramCount)
}

func unmarshalProgramListInfo(d *wire.Decoder, p *ProgramListInfo) (err error) {
	if p.ID, err = d.Int32(); err != nil {
		return err
	}
	if p.Name, err = d.String(); err != nil {
		return err
	}
	p.ProgramCount, err = d.Int32()
	return err
}

func marshalViewRect(e *wire.Encoder, r *ViewRect) {
	e.Int32(r.Left)
	e.Int32(r.Top)
	e.Int32(r.Right)
	e.Int32(r.Bottom)
}

func unmarshalViewRect(d *wire.Decoder, r *ViewRect) (err error) {
	if r.Left, err = d.Int32(); err != nil {
		return err
	}
	if r.Top, err = d.Int32(); err != nil {
		return err
	}
	if r.Right, err = d.Int32(); err != nil {
		return err
	}
	r.Bottom, err = d.Int32()
	return err
}

func marshalParamChanges(e *wire.Encoder, changes []ParamChange) {
	e.Uint32(uint32(len(changes)))
	for i := range changes {
		e.Uint32(changes[i].ID)
		e.Uint32(uint32(len(changes[i].Points)))
		for _, pt := range changes[i].Points {
			e.Int32(pt.SampleOffset)
			e.Float64(pt.Value)
		}
	}
}

func unmarshalParamChanges(d *wire.Decoder) ([]ParamChange, error) {
	n, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	changes := make([]ParamChange, n)
	for i := range changes {
		if changes[i].ID, err = d.Uint32(); err != nil {
			return nil, err
		}
		numPoints, err := d.Uint32()
		if err != nil {
			return nil, err
		}
		points := make([]ParamPoint, numPoints)
		for j := range points {
			if points[j].SampleOffset, err = d.Int32(); err != nil {
				return nil, err
			}
			if points[j].Value, err = d.Float64(); err != nil {
				return nil, err
			}
		}
		changes[i].Points = points
	}
	return changes, nil
}

func marshalEvents(e *wire.Encoder, events []Event) {
	e.Uint32(uint32(len(events)))
	for i := range events {
		ev := &events[i]
		e.Int32(ev.BusIndex)
		e.Int32(ev.SampleOffset)
		e.Uint16(ev.Flags)
		e.Uint16(ev.Type)
		e.Int16(ev.Channel)
		e.Int16(ev.Pitch)
		e.Float32(ev.Tuning)
		e.Float32(ev.Velocity)
		e.Blob(ev.Data)
	}
}

func unmarshalEvents(d *wire.Decoder) ([]Event, error) {
	n, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	events := make([]Event, n)
	for i := range events {
		ev := &events[i]
		if ev.BusIndex, err = d.Int32(); err != nil {
			return nil, err
		}
		if ev.SampleOffset, err = d.Int32(); err != nil {
			return nil, err
		}
		if ev.Flags, err = d.Uint16(); err != nil {
			return nil, err
		}
		if ev.Type, err = d.Uint16(); err != nil {
			return nil, err
		}
		if ev.Channel, err = d.Int16(); err != nil {
			return nil, err
		}
		if ev.Pitch, err = d.Int16(); err != nil {
			return nil, err
		}
		if ev.Tuning, err = d.Float32(); err != nil {
			return nil, err
		}
		if ev.Velocity, err = d.Float32(); err != nil {
			return nil, err
		}
		if ev.Data, err = d.Blob(); err != nil {
			return nil, err
		}
		// Nil and empty data encode alike; decode both as nil.
		if len(ev.Data) == 0 {
			ev.Data = nil
		}
	}
	return events, nil
}

func marshalProcessContext(e *wire.Encoder, c *ProcessContext) {
	e.Uint32(c.State)
	e.Float64(c.SampleRate)
	e.Int64(c.ProjectTimeSamples)
	e.Float64(c.ProjectTimeMusic)
	e.Float64(c.BarPositionMusic)
	e.Float64(c.Tempo)
	e.Int32(c.TimeSigNumerator)
	e.Int32(c.TimeSigDenominator)
}

func unmarshalProcessContext(d *wire.Decoder, c *ProcessContext) (err error) {
	if c.State, err = d.Uint32(); err != nil {
		return err
	}
	if c.SampleRate, err = d.Float64(); err != nil {
		return err
	}
	if c.ProjectTimeSamples, err = d.Int64(); err != nil {
		return err
	}
	if c.ProjectTimeMusic, err = d.Float64(); err != nil {
		return err
	}
	if c.BarPositionMusic, err = d.Float64(); err != nil {
		return err
	}
	if c.Tempo, err = d.Float64(); err != nil {
		return err
	}
	if c.TimeSigNumerator, err = d.Int32(); err != nil {
		return err
	}
	c.TimeSigDenominator, err = d.Int32()
	return err
}

func marshalProcessData(e *wire.Encoder, p *ProcessData) {
	e.Int32(p.ProcessMode)
	e.Int32(p.SymbolicSampleSize)
	e.Int32(p.NumSamples)
	marshalParamChanges(e, p.InputParamChanges)
	marshalEvents(e, p.InputEvents)
	e.Option(p.Context != nil)
	if p.Context != nil {
		marshalProcessContext(e, p.Context)
	}
}

func unmarshalProcessData(d *wire.Decoder, p *ProcessData) (err error) {
	if p.ProcessMode, err = d.Int32(); err != nil {
		return err
	}
	if p.SymbolicSampleSize, err = d.Int32(); err != nil {
		return err
	}
	if p.NumSamples, err = d.Int32(); err != nil {
		return err
	}
	if p.InputParamChanges, err = unmarshalParamChanges(d); err != nil {
		return err
	}
	if p.InputEvents, err = unmarshalEvents(d); err != nil {
		return err
	}
	present, err := d.Option()
	if err != nil {
		return err
	}
	p.Context = nil
	if present {
		p.Context = new(ProcessContext)
		return unmarshalProcessContext(d, p.Context)
	}
	return nil
}

func marshalProcessOutput(e *wire.Encoder, p *ProcessOutput) {
	marshalParamChanges(e, p.OutputParamChanges)
	marshalEvents(e, p.OutputEvents)
	e.Uint32(uint32(len(p.OutputSilenceFlags)))
	for _, f := range p.OutputSilenceFlags {
		e.Uint64(f)
	}
}

func unmarshalProcessOutput(d *wire.Decoder, p *ProcessOutput) (err error) {
	if p.OutputParamChanges, err = unmarshalParamChanges(d); err != nil {
		return err
	}
	if p.OutputEvents, err = unmarshalEvents(d); err != nil {
		return err
	}
	n, err := d.Uint32()
	if err != nil {
		return err
	}
	flags := make([]uint64, n)
	for i := range flags {
		if flags[i], err = d.Uint64(); err != nil {
			return err
		}
	}
	p.OutputSilenceFlags = flags
	return nil
}
