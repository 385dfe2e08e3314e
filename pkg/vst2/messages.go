package vst2

import "github.com/nidefawl/yabridge/pkg/wire"

// ParameterRequest travels on the parameters channel. A nil Value is a
// getParameter, a set one a setParameter.
type ParameterRequest struct {
	Index int32
	Value *float32
}

func (p *ParameterRequest) MarshalWire(e *wire.Encoder) {
	e.Int32(p.Index)
	e.Option(p.Value != nil)
	if p.Value != nil {
		e.Float32(*p.Value)
	}
}

func (p *ParameterRequest) UnmarshalWire(d *wire.Decoder) error {
	index, err := d.Int32()
	if err != nil {
		return err
	}
	present, err := d.Option()
	if err != nil {
		return err
	}
	p.Index = index
	p.Value = nil
	if present {
		v, err := d.Float32()
		if err != nil {
			return err
		}
		p.Value = &v
	}
	return nil
}

// ParameterResult answers a ParameterRequest: a value for getParameter, an
// empty acknowledgement for setParameter.
type ParameterResult struct {
	Value *float32
}

func (p *ParameterResult) MarshalWire(e *wire.Encoder) {
	e.Option(p.Value != nil)
	if p.Value != nil {
		e.Float32(*p.Value)
	}
}

func (p *ParameterResult) UnmarshalWire(d *wire.Decoder) error {
	present, err := d.Option()
	if err != nil {
		return err
	}
	p.Value = nil
	if present {
		v, err := d.Float32()
		if err != nil {
			return err
		}
		p.Value = &v
	}
	return nil
}

// startupMessage is the first frame the foreign host sends on the dispatch
// channel: the real plugin's effect struct fields plus the host's version
// string.
type startupMessage struct {
	Effect  wire.AEffectData
	Version string
}

func (m *startupMessage) MarshalWire(e *wire.Encoder) {
	m.Effect.MarshalWire(e)
	e.String(m.Version)
}

func (m *startupMessage) UnmarshalWire(d *wire.Decoder) error {
	if err := m.Effect.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	m.Version, err = d.String()
	return err
}
