package wire

// Fixed structs that round-trip through opcode payloads. Each mirrors the
// layout of its ABI counterpart closely enough to be written back into the
// host-provided struct on the native side.

// Rect is an editor rectangle in screen coordinates.
type Rect struct {
	Top    int16
	Left   int16
	Bottom int16
	Right  int16
}

func (r *Rect) MarshalWire(e *Encoder) {
	e.Int16(r.Top)
	e.Int16(r.Left)
	e.Int16(r.Bottom)
	e.Int16(r.Right)
}

func (r *Rect) UnmarshalWire(d *Decoder) (err error) {
	if r.Top, err = d.Int16(); err != nil {
		return err
	}
	if r.Left, err = d.Int16(); err != nil {
		return err
	}
	if r.Bottom, err = d.Int16(); err != nil {
		return err
	}
	r.Right, err = d.Int16()
	return err
}

// TimeInfo is the transport snapshot prefetched from the host callback and
// piggy-backed on every audio request.
type TimeInfo struct {
	SamplePos          float64
	SampleRate         float64
	NanoSeconds        float64
	PPQPos             float64
	Tempo              float64
	BarStartPos        float64
	CycleStartPos      float64
	CycleEndPos        float64
	TimeSigNumerator   int32
	TimeSigDenominator int32
	SMPTEOffset        int32
	SMPTEFrameRate     int32
	SamplesToNextClock int32
	Flags              int32
}

func (t *TimeInfo) MarshalWire(e *Encoder) {
	e.Float64(t.SamplePos)
	e.Float64(t.SampleRate)
	e.Float64(t.NanoSeconds)
	e.Float64(t.PPQPos)
	e.Float64(t.Tempo)
	e.Float64(t.BarStartPos)
	e.Float64(t.CycleStartPos)
	e.Float64(t.CycleEndPos)
	e.Int32(t.TimeSigNumerator)
	e.Int32(t.TimeSigDenominator)
	e.Int32(t.SMPTEOffset)
	e.Int32(t.SMPTEFrameRate)
	e.Int32(t.SamplesToNextClock)
	e.Int32(t.Flags)
}

func (t *TimeInfo) UnmarshalWire(d *Decoder) (err error) {
	for _, f := range []*float64{
		&t.SamplePos, &t.SampleRate, &t.NanoSeconds, &t.PPQPos,
		&t.Tempo, &t.BarStartPos, &t.CycleStartPos, &t.CycleEndPos,
	} {
		if *f, err = d.Float64(); err != nil {
			return err
		}
	}
	for _, f := range []*int32{
		&t.TimeSigNumerator, &t.TimeSigDenominator, &t.SMPTEOffset,
		&t.SMPTEFrameRate, &t.SamplesToNextClock, &t.Flags,
	} {
		if *f, err = d.Int32(); err != nil {
			return err
		}
	}
	return nil
}

// IOProperties describes a single input or output pin. The host may have
// populated the struct before the call, so it travels in both directions.
type IOProperties struct {
	Label           string
	Flags           int32
	ArrangementType int32
	ShortLabel      string
}

func (p *IOProperties) MarshalWire(e *Encoder) {
	e.String(p.Label)
	e.Int32(p.Flags)
	e.Int32(p.ArrangementType)
	e.String(p.ShortLabel)
}

func (p *IOProperties) UnmarshalWire(d *Decoder) (err error) {
	if p.Label, err = d.String(); err != nil {
		return err
	}
	if p.Flags, err = d.Int32(); err != nil {
		return err
	}
	if p.ArrangementType, err = d.Int32(); err != nil {
		return err
	}
	p.ShortLabel, err = d.String()
	return err
}

// ParameterProperties describes automation metadata for one parameter.
type ParameterProperties struct {
	StepFloat               float32
	SmallStepFloat          float32
	LargeStepFloat          float32
	Label                   string
	Flags                   int32
	MinInteger              int32
	MaxInteger              int32
	StepInteger             int32
	LargeStepInteger        int32
	ShortLabel              string
	DisplayIndex            int16
	Category                int16
	NumParametersInCategory int16
	CategoryLabel           string
}

func (p *ParameterProperties) MarshalWire(e *Encoder) {
	e.Float32(p.StepFloat)
	e.Float32(p.SmallStepFloat)
	e.Float32(p.LargeStepFloat)
	e.String(p.Label)
	e.Int32(p.Flags)
	e.Int32(p.MinInteger)
	e.Int32(p.MaxInteger)
	e.Int32(p.StepInteger)
	e.Int32(p.LargeStepInteger)
	e.String(p.ShortLabel)
	e.Int16(p.DisplayIndex)
	e.Int16(p.Category)
	e.Int16(p.NumParametersInCategory)
	e.String(p.CategoryLabel)
}

func (p *ParameterProperties) UnmarshalWire(d *Decoder) (err error) {
	if p.StepFloat, err = d.Float32(); err != nil {
		return err
	}
	if p.SmallStepFloat, err = d.Float32(); err != nil {
		return err
	}
	if p.LargeStepFloat, err = d.Float32(); err != nil {
		return err
	}
	if p.Label, err = d.String(); err != nil {
		return err
	}
	if p.Flags, err = d.Int32(); err != nil {
		return err
	}
	if p.MinInteger, err = d.Int32(); err != nil {
		return err
	}
	if p.MaxInteger, err = d.Int32(); err != nil {
		return err
	}
	if p.StepInteger, err = d.Int32(); err != nil {
		return err
	}
	if p.LargeStepInteger, err = d.Int32(); err != nil {
		return err
	}
	if p.ShortLabel, err = d.String(); err != nil {
		return err
	}
	if p.DisplayIndex, err = d.Int16(); err != nil {
		return err
	}
	if p.Category, err = d.Int16(); err != nil {
		return err
	}
	if p.NumParametersInCategory, err = d.Int16(); err != nil {
		return err
	}
	p.CategoryLabel, err = d.String()
	return err
}

// MIDIKeyName names a single key on a given channel.
type MIDIKeyName struct {
	ThisProgramIndex int32
	ThisKeyNumber    int32
	KeyName          string
}

func (k *MIDIKeyName) MarshalWire(e *Encoder) {
	e.Int32(k.ThisProgramIndex)
	e.Int32(k.ThisKeyNumber)
	e.String(k.KeyName)
}

func (k *MIDIKeyName) UnmarshalWire(d *Decoder) (err error) {
	if k.ThisProgramIndex, err = d.Int32(); err != nil {
		return err
	}
	if k.ThisKeyNumber, err = d.Int32(); err != nil {
		return err
	}
	k.KeyName, err = d.String()
	return err
}

// SpeakerArrangement is a dynamically sized channel layout. Only the
// arrangement type and the per-speaker types matter for bridging; the
// speaker structs the ABI embeds are reconstructed on write-back.
type SpeakerArrangement struct {
	Type     int32
	Speakers []int32
}

func (s *SpeakerArrangement) MarshalWire(e *Encoder) {
	e.Int32(s.Type)
	e.Uint32(uint32(len(s.Speakers)))
	for _, sp := range s.Speakers {
		e.Int32(sp)
	}
}

func (s *SpeakerArrangement) UnmarshalWire(d *Decoder) error {
	t, err := d.Int32()
	if err != nil {
		return err
	}
	n, err := d.Uint32()
	if err != nil {
		return err
	}
	speakers := make([]int32, n)
	for i := range speakers {
		if speakers[i], err = d.Int32(); err != nil {
			return err
		}
	}
	s.Type = t
	s.Speakers = speakers
	return nil
}

// AEffectData carries the host-visible fields of the legacy effect struct.
// It crosses the wire at startup and again whenever a late-initialising
// plugin updates itself during Open.
type AEffectData struct {
	Magic        int32
	NumPrograms  int32
	NumParams    int32
	NumInputs    int32
	NumOutputs   int32
	Flags        int32
	InitialDelay int32
	UniqueID     int32
	Version      int32
}

func (a *AEffectData) MarshalWire(e *Encoder) {
	e.Int32(a.Magic)
	e.Int32(a.NumPrograms)
	e.Int32(a.NumParams)
	e.Int32(a.NumInputs)
	e.Int32(a.NumOutputs)
	e.Int32(a.Flags)
	e.Int32(a.InitialDelay)
	e.Int32(a.UniqueID)
	e.Int32(a.Version)
}

func (a *AEffectData) UnmarshalWire(d *Decoder) (err error) {
	for _, f := range []*int32{
		&a.Magic, &a.NumPrograms, &a.NumParams, &a.NumInputs, &a.NumOutputs,
		&a.Flags, &a.InitialDelay, &a.UniqueID, &a.Version,
	} {
		if *f, err = d.Int32(); err != nil {
			return err
		}
	}
	return nil
}

// MIDIEvent is one event of a ProcessEvents bundle. SysEx data rides in
// Data; regular channel messages use the first three bytes.
type MIDIEvent struct {
	DeltaFrames     int32
	Flags           int32
	NoteLength      int32
	NoteOffset      int32
	Detune          int8
	NoteOffVelocity uint8
	SysEx           bool
	Data            []byte
}

func (m *MIDIEvent) MarshalWire(e *Encoder) {
	e.Int32(m.DeltaFrames)
	e.Int32(m.Flags)
	e.Int32(m.NoteLength)
	e.Int32(m.NoteOffset)
	e.Uint8(uint8(m.Detune))
	e.Uint8(m.NoteOffVelocity)
	e.Bool(m.SysEx)
	e.Blob(m.Data)
}

func (m *MIDIEvent) UnmarshalWire(d *Decoder) (err error) {
	if m.DeltaFrames, err = d.Int32(); err != nil {
		return err
	}
	if m.Flags, err = d.Int32(); err != nil {
		return err
	}
	if m.NoteLength, err = d.Int32(); err != nil {
		return err
	}
	if m.NoteOffset, err = d.Int32(); err != nil {
		return err
	}
	detune, err := d.Uint8()
	if err != nil {
		return err
	}
	m.Detune = int8(detune)
	if m.NoteOffVelocity, err = d.Uint8(); err != nil {
		return err
	}
	if m.SysEx, err = d.Bool(); err != nil {
		return err
	}
	m.Data, err = d.Blob()
	return err
}
