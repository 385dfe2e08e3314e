package vst3

import "github.com/nidefawl/yabridge/pkg/wire"

// Callback is one variant of the plugin-to-host message family on the
// callback channel. SourceID is the instance id of the plugin proxy whose
// host-owned object the callback addresses; the native side resolves it
// through the registry on every call, so neither side ever owns the
// other's objects.
type Callback interface {
	wire.Message
	callbackTag() uint8
}

const (
	tagBeginEdit uint8 = iota + 1
	tagPerformEdit
	tagEndEdit
	tagRestartComponent
	tagHostNotify
	tagResizeView
	tagHostGetName
)

// CallbackEnvelope decodes any callback-channel message.
type CallbackEnvelope struct {
	Callback Callback
}

func (env *CallbackEnvelope) MarshalWire(e *wire.Encoder) {
	e.Tag(env.Callback.callbackTag())
	env.Callback.MarshalWire(e)
}

func (env *CallbackEnvelope) UnmarshalWire(d *wire.Decoder) error {
	tag, err := d.Tag()
	if err != nil {
		return err
	}
	var cb Callback
	switch tag {
	case tagBeginEdit:
		cb = &BeginEdit{}
	case tagPerformEdit:
		cb = &PerformEdit{}
	case tagEndEdit:
		cb = &EndEdit{}
	case tagRestartComponent:
		cb = &RestartComponent{}
	case tagHostNotify:
		cb = &HostNotify{}
	case tagResizeView:
		cb = &ResizeView{}
	case tagHostGetName:
		cb = &HostGetName{}
	default:
		return &wire.CodecError{Op: "decode", Detail: "unknown callback discriminant"}
	}
	if err := cb.UnmarshalWire(d); err != nil {
		return err
	}
	env.Callback = cb
	return nil
}

type source struct{ SourceID uint64 }

func (s *source) MarshalWire(e *wire.Encoder) { e.Uint64(s.SourceID) }
func (s *source) UnmarshalWire(d *wire.Decoder) error {
	var err error
	s.SourceID, err = d.Uint64()
	return err
}

// BeginEdit starts a host automation gesture for one parameter.
type BeginEdit struct {
	source
	ParamID uint32
}

func (c *BeginEdit) callbackTag() uint8 { return tagBeginEdit }
func (c *BeginEdit) MarshalWire(e *wire.Encoder) {
	c.source.MarshalWire(e)
	e.Uint32(c.ParamID)
}
func (c *BeginEdit) UnmarshalWire(d *wire.Decoder) error {
	if err := c.source.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	c.ParamID, err = d.Uint32()
	return err
}

// PerformEdit reports an automation value to the host.
type PerformEdit struct {
	source
	ParamID uint32
	Value   float64
}

func (c *PerformEdit) callbackTag() uint8 { return tagPerformEdit }
func (c *PerformEdit) MarshalWire(e *wire.Encoder) {
	c.source.MarshalWire(e)
	e.Uint32(c.ParamID)
	e.Float64(c.Value)
}
func (c *PerformEdit) UnmarshalWire(d *wire.Decoder) error {
	if err := c.source.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	if c.ParamID, err = d.Uint32(); err != nil {
		return err
	}
	c.Value, err = d.Float64()
	return err
}

// EndEdit finishes an automation gesture.
type EndEdit struct {
	source
	ParamID uint32
}

func (c *EndEdit) callbackTag() uint8 { return tagEndEdit }
func (c *EndEdit) MarshalWire(e *wire.Encoder) {
	c.source.MarshalWire(e)
	e.Uint32(c.ParamID)
}
func (c *EndEdit) UnmarshalWire(d *wire.Decoder) error {
	if err := c.source.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	c.ParamID, err = d.Uint32()
	return err
}

// RestartComponent asks the host to re-query part of the plugin state.
type RestartComponent struct {
	source
	Flags int32
}

func (c *RestartComponent) callbackTag() uint8 { return tagRestartComponent }
func (c *RestartComponent) MarshalWire(e *wire.Encoder) {
	c.source.MarshalWire(e)
	e.Int32(c.Flags)
}
func (c *RestartComponent) UnmarshalWire(d *wire.Decoder) error {
	if err := c.source.UnmarshalWire(d); err != nil {
		return err
	}
	var err error
	c.Flags, err = d.Int32()
	return err
}

// HostNotify forwards a plugin's notify through the host-placed connection
// proxy on the native side.
type HostNotify struct {
	source
	Message AttributeMessage
}

func (c *HostNotify) callbackTag() uint8 { return tagHostNotify }
func (c *HostNotify) MarshalWire(e *wire.Encoder) {
	c.source.MarshalWire(e)
	c.Message.MarshalWire(e)
}
func (c *HostNotify) UnmarshalWire(d *wire.Decoder) error {
	if err := c.source.UnmarshalWire(d); err != nil {
		return err
	}
	return c.Message.UnmarshalWire(d)
}

// ResizeView routes an IPlugFrame resize to the view the host last
// created for this instance.
type ResizeView struct {
	source
	Rect ViewRect
}

func (c *ResizeView) callbackTag() uint8 { return tagResizeView }
func (c *ResizeView) MarshalWire(e *wire.Encoder) {
	c.source.MarshalWire(e)
	marshalViewRect(e, &c.Rect)
}
func (c *ResizeView) UnmarshalWire(d *wire.Decoder) error {
	if err := c.source.UnmarshalWire(d); err != nil {
		return err
	}
	return unmarshalViewRect(d, &c.Rect)
}

// HostGetName asks for the host application's name; subject to the
// DAW-hiding policy.
type HostGetName struct{ source }

func (c *HostGetName) callbackTag() uint8 { return tagHostGetName }
